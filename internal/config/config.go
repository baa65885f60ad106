// Package config loads relay configuration from the environment and an
// optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hk-newsdesk/newsrelay/internal/source"
)

// Config is the resolved relay configuration.
type Config struct {
	NewsAPIKey       string
	GoogleAPIKey     string
	TelegramBotToken string

	SinksFile   string
	JournalPath string
	LogLevel    string

	TranslateTarget      string
	TranslatePlaceholder string

	EnrichArticles bool

	Feeds []source.Feed
}

// feedOverride is the shape of one entry under the config file's
// feeds key. Zero-valued fields keep the built-in default.
type feedOverride struct {
	ID             string   `mapstructure:"id"`
	Endpoint       string   `mapstructure:"endpoint"`
	Query          string   `mapstructure:"query"`
	Language       string   `mapstructure:"language"`
	SortBy         string   `mapstructure:"sort_by"`
	Title          string   `mapstructure:"title"`
	EmptyText      string   `mapstructure:"empty_text"`
	ErrorText      string   `mapstructure:"error_text"`
	TrustedSources []string `mapstructure:"trusted_sources"`
	KeyTerms       []string `mapstructure:"key_terms"`
	RecencyHours   int      `mapstructure:"recency_hours"`
	MaxArticles    int      `mapstructure:"max_articles"`
}

// Load reads the configuration. The config file is optional; the
// environment always wins for credentials.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("sinks_file", "sinks.yaml")
	v.SetDefault("log_level", "info")
	v.SetDefault("translate_target", "zh-TW")
	v.SetDefault("enrich_articles", false)

	for _, key := range []string{
		"news_api_key", "google_api_key", "telegram_bot_token",
		"sinks_file", "journal_path", "log_level",
	} {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		NewsAPIKey:           v.GetString("news_api_key"),
		GoogleAPIKey:         v.GetString("google_api_key"),
		TelegramBotToken:     v.GetString("telegram_bot_token"),
		SinksFile:            v.GetString("sinks_file"),
		JournalPath:          v.GetString("journal_path"),
		LogLevel:             v.GetString("log_level"),
		TranslateTarget:      v.GetString("translate_target"),
		TranslatePlaceholder: v.GetString("translate_placeholder"),
		EnrichArticles:       v.GetBool("enrich_articles"),
		Feeds:                source.DefaultFeeds(),
	}

	var overrides []feedOverride
	if err := v.UnmarshalKey("feeds", &overrides); err != nil {
		return nil, fmt.Errorf("decode feeds config: %w", err)
	}
	applyFeedOverrides(cfg.Feeds, overrides)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFeedOverrides merges config-file feed entries onto the defaults,
// matched by id. Unknown ids are ignored.
func applyFeedOverrides(feeds []source.Feed, overrides []feedOverride) {
	for _, o := range overrides {
		for i := range feeds {
			if !strings.EqualFold(feeds[i].ID, strings.TrimSpace(o.ID)) {
				continue
			}
			if o.Endpoint != "" {
				feeds[i].Endpoint = o.Endpoint
			}
			if o.Query != "" {
				feeds[i].Query = o.Query
			}
			if o.Language != "" {
				feeds[i].Language = o.Language
			}
			if o.SortBy != "" {
				feeds[i].SortBy = o.SortBy
			}
			if o.Title != "" {
				feeds[i].Title = o.Title
			}
			if o.EmptyText != "" {
				feeds[i].EmptyText = o.EmptyText
			}
			if o.ErrorText != "" {
				feeds[i].ErrorText = o.ErrorText
			}
			if len(o.TrustedSources) > 0 {
				feeds[i].TrustedSources = o.TrustedSources
			}
			if len(o.KeyTerms) > 0 {
				feeds[i].KeyTerms = o.KeyTerms
			}
			if o.RecencyHours > 0 {
				feeds[i].RecencyWindow = time.Duration(o.RecencyHours) * time.Hour
			}
			if o.MaxArticles > 0 {
				feeds[i].MaxArticles = o.MaxArticles
			}
		}
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.NewsAPIKey) == "" {
		return errors.New("NEWS_API_KEY is required")
	}
	if len(c.Feeds) == 0 {
		return errors.New("at least one feed must be configured")
	}
	return nil
}
