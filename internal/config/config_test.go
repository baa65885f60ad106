package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hk-newsdesk/newsrelay/internal/source"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "news-key")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}

	if cfg.NewsAPIKey != "news-key" {
		t.Errorf("NewsAPIKey = %q, want env value", cfg.NewsAPIKey)
	}
	if cfg.GoogleAPIKey != "google-key" {
		t.Errorf("GoogleAPIKey = %q, want env value", cfg.GoogleAPIKey)
	}
	if cfg.TelegramBotToken != "123:abc" {
		t.Errorf("TelegramBotToken = %q, want env value", cfg.TelegramBotToken)
	}
	if cfg.SinksFile != "sinks.yaml" {
		t.Errorf("SinksFile = %q, want default sinks.yaml", cfg.SinksFile)
	}
	if cfg.TranslateTarget != "zh-TW" {
		t.Errorf("TranslateTarget = %q, want default zh-TW", cfg.TranslateTarget)
	}
	if len(cfg.Feeds) != 2 {
		t.Errorf("Feeds = %d entries, want the 2 defaults", len(cfg.Feeds))
	}
}

func TestLoadMissingNewsAPIKey(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "")

	if _, err := Load(""); err == nil {
		t.Error("Load without NEWS_API_KEY returned nil error")
	}
}

func TestLoadFeedOverrides(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "news-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
log_level: debug
enrich_articles: true
feeds:
  - id: regional
    query: macau
    recency_hours: 12
    max_articles: 3
    key_terms: [exclusive]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if !cfg.EnrichArticles {
		t.Error("EnrichArticles = false, want true")
	}

	var regional, global source.Feed
	for _, f := range cfg.Feeds {
		switch f.ID {
		case source.FeedRegional:
			regional = f
		case source.FeedGlobal:
			global = f
		}
	}

	if regional.Query != "macau" {
		t.Errorf("regional Query = %q, want override", regional.Query)
	}
	if regional.RecencyWindow != 12*time.Hour {
		t.Errorf("regional RecencyWindow = %v, want 12h", regional.RecencyWindow)
	}
	if regional.MaxArticles != 3 {
		t.Errorf("regional MaxArticles = %d, want 3", regional.MaxArticles)
	}
	if len(regional.KeyTerms) != 1 || regional.KeyTerms[0] != "exclusive" {
		t.Errorf("regional KeyTerms = %v, want [exclusive]", regional.KeyTerms)
	}
	// Untouched fields keep their defaults.
	if regional.Title != "香港重點新聞播報" {
		t.Errorf("regional Title = %q, want default kept", regional.Title)
	}
	if global.Query != "" || global.Endpoint != source.EndpointTopHeadlines {
		t.Errorf("global feed changed by regional override: %+v", global)
	}
}

func TestLoadBadConfigPath(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "news-key")

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load with missing explicit config file returned nil error")
	}
}
