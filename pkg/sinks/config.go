package sinks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// Supported sink types.
	TypeTelegram = "telegram"
	TypeWebhook  = "webhook"
	TypeQueue    = "queue"

	// Supported queue providers.
	QueueProviderAWSSQS = "aws-sqs"
	QueueProviderAWSSNS = "aws-sns"
	QueueProviderGCP    = "gcp"

	webhookDefaultMethod         = "POST"
	webhookDefaultTimeoutSeconds = 5
)

// configFile represents the structure of the sinks configuration file.
type configFile struct {
	Sinks []SinkConfig `json:"sinks" yaml:"sinks"`
}

// SinkConfig represents a single sink entry declared in config files.
type SinkConfig struct {
	ID       string              `json:"id" yaml:"id"`
	Type     string              `json:"type" yaml:"type"`
	Enabled  *bool               `json:"enabled" yaml:"enabled"`
	Telegram *TelegramSinkConfig `json:"telegram" yaml:"telegram"`
	Webhook  *WebhookSinkConfig  `json:"webhook" yaml:"webhook"`
	Queue    *QueueSinkConfig    `json:"queue" yaml:"queue"`
}

// TelegramSinkConfig holds the chat delivery settings.
type TelegramSinkConfig struct {
	Token  string `json:"token" yaml:"token"`
	ChatID int64  `json:"chat_id" yaml:"chat_id"`
}

// WebhookSinkConfig holds generic HTTP sink settings.
type WebhookSinkConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// QueueSinkConfig selects a cloud queue provider.
type QueueSinkConfig struct {
	Provider string          `json:"provider" yaml:"provider"`
	SQS      *AWSSQSConfig   `json:"sqs" yaml:"sqs"`
	SNS      *AWSSNSConfig   `json:"sns" yaml:"sns"`
	GCP      *GCPQueueConfig `json:"gcp" yaml:"gcp"`
}

// AWSSQSConfig holds AWS SQS specific settings.
type AWSSQSConfig struct {
	QueueURL        string `json:"uri" yaml:"uri"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// AWSSNSConfig holds AWS SNS specific settings.
type AWSSNSConfig struct {
	TopicARN        string `json:"topic_arn" yaml:"topic_arn"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// GCPQueueConfig holds the minimal Pub/Sub topic settings.
type GCPQueueConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// ConfigRegistry materializes sink definitions loaded from config files.
type ConfigRegistry struct {
	mu    sync.RWMutex
	sinks []SinkConfig
	idx   map[string]SinkConfig
}

// LoadRegistry loads the sink registry from a YAML/JSON file.
// Environment references in the file are expanded before decoding.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sinks file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sinks file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read sinks file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(raw)))

	fileReg, err := parseRegistry(expanded, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Sinks) == 0 {
		return nil, errors.New("sinks file contains no sink entries")
	}

	reg := &ConfigRegistry{
		sinks: make([]SinkConfig, len(fileReg.Sinks)),
		idx:   make(map[string]SinkConfig, len(fileReg.Sinks)),
	}

	for i := range fileReg.Sinks {
		cfg := sanitizeSinkConfig(fileReg.Sinks[i])
		if err := validateSinkConfig(cfg); err != nil {
			return nil, fmt.Errorf("sinks[%d]: %w", i, err)
		}
		if _, exists := reg.idx[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate sink id %q", cfg.ID)
		}
		reg.sinks[i] = cfg
		reg.idx[cfg.ID] = cfg
	}

	return reg, nil
}

// parseRegistry attempts to decode the sinks file content.
func parseRegistry(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var reg configFile
		if err := d.fn(data, &reg); err == nil {
			return reg, nil
		}
	}

	return configFile{}, errors.New("sinks file format not recognized (expected YAML or JSON)")
}

// sanitizeSinkConfig trims and normalizes the sink config fields.
func sanitizeSinkConfig(cfg SinkConfig) SinkConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	if cfg.Enabled == nil {
		def := true
		cfg.Enabled = &def
	}
	if cfg.Telegram != nil {
		t := *cfg.Telegram
		t.Token = strings.TrimSpace(t.Token)
		cfg.Telegram = &t
	}
	if cfg.Webhook != nil {
		w := *cfg.Webhook
		w.URL = strings.TrimSpace(w.URL)
		w.Method = strings.ToUpper(strings.TrimSpace(w.Method))
		if w.Method == "" {
			w.Method = webhookDefaultMethod
		}
		w.Headers = sanitizeHeaders(w.Headers)
		if w.TimeoutSeconds <= 0 {
			w.TimeoutSeconds = webhookDefaultTimeoutSeconds
		}
		cfg.Webhook = &w
	}
	if cfg.Queue != nil {
		q := *cfg.Queue
		q.Provider = strings.ToLower(strings.TrimSpace(q.Provider))
		if q.SQS != nil {
			s := *q.SQS
			s.QueueURL = strings.TrimSpace(s.QueueURL)
			s.Region = strings.TrimSpace(s.Region)
			s.AccessKeyID = strings.TrimSpace(s.AccessKeyID)
			s.SecretAccessKey = strings.TrimSpace(s.SecretAccessKey)
			q.SQS = &s
		}
		if q.SNS != nil {
			s := *q.SNS
			s.TopicARN = strings.TrimSpace(s.TopicARN)
			s.Region = strings.TrimSpace(s.Region)
			s.AccessKeyID = strings.TrimSpace(s.AccessKeyID)
			s.SecretAccessKey = strings.TrimSpace(s.SecretAccessKey)
			q.SNS = &s
		}
		if q.GCP != nil {
			g := *q.GCP
			g.ProjectID = strings.TrimSpace(g.ProjectID)
			g.Topic = strings.TrimSpace(g.Topic)
			g.CredentialsFile = strings.TrimSpace(g.CredentialsFile)
			q.GCP = &g
		}
		cfg.Queue = &q
	}

	return cfg
}

// sanitizeHeaders trims and removes empty headers.
func sanitizeHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// validateSinkConfig checks that required fields are present.
func validateSinkConfig(cfg SinkConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	if cfg.Type == "" {
		return fmt.Errorf("type is required for sink %q", cfg.ID)
	}
	switch cfg.Type {
	case TypeTelegram:
		if cfg.Telegram == nil {
			return fmt.Errorf("telegram config required for sink %q", cfg.ID)
		}
		if cfg.Telegram.Token == "" {
			return fmt.Errorf("telegram.token is required for sink %q", cfg.ID)
		}
		if cfg.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required for sink %q", cfg.ID)
		}
	case TypeWebhook:
		if cfg.Webhook == nil {
			return fmt.Errorf("webhook config required for sink %q", cfg.ID)
		}
		if cfg.Webhook.URL == "" {
			return fmt.Errorf("webhook.url is required for sink %q", cfg.ID)
		}
	case TypeQueue:
		if cfg.Queue == nil {
			return fmt.Errorf("queue config required for sink %q", cfg.ID)
		}
		switch cfg.Queue.Provider {
		case QueueProviderAWSSQS:
			return validateSQSConfig(cfg.ID, cfg.Queue.SQS)
		case QueueProviderAWSSNS:
			return validateSNSConfig(cfg.ID, cfg.Queue.SNS)
		case QueueProviderGCP:
			return validateGCPConfig(cfg.ID, cfg.Queue.GCP)
		default:
			return fmt.Errorf("queue provider %q not supported for sink %q", cfg.Queue.Provider, cfg.ID)
		}
	default:
		return fmt.Errorf("type %q not supported for sink %q", cfg.Type, cfg.ID)
	}
	return nil
}

func validateSQSConfig(id string, cfg *AWSSQSConfig) error {
	if cfg == nil {
		return fmt.Errorf("sqs config required for sink %q", id)
	}
	if cfg.QueueURL == "" {
		return fmt.Errorf("sqs.uri is required for sink %q", id)
	}
	if cfg.Region == "" {
		return fmt.Errorf("sqs.region is required for sink %q", id)
	}
	if cfg.AccessKeyID == "" {
		return fmt.Errorf("sqs.access_key_id is required for sink %q", id)
	}
	if cfg.SecretAccessKey == "" {
		return fmt.Errorf("sqs.secret_access_key is required for sink %q", id)
	}
	return nil
}

func validateSNSConfig(id string, cfg *AWSSNSConfig) error {
	if cfg == nil {
		return fmt.Errorf("sns config required for sink %q", id)
	}
	if cfg.TopicARN == "" {
		return fmt.Errorf("sns.topic_arn is required for sink %q", id)
	}
	if cfg.Region == "" {
		return fmt.Errorf("sns.region is required for sink %q", id)
	}
	if cfg.AccessKeyID == "" {
		return fmt.Errorf("sns.access_key_id is required for sink %q", id)
	}
	if cfg.SecretAccessKey == "" {
		return fmt.Errorf("sns.secret_access_key is required for sink %q", id)
	}
	return nil
}

func validateGCPConfig(id string, cfg *GCPQueueConfig) error {
	if cfg == nil {
		return fmt.Errorf("gcp config required for sink %q", id)
	}
	if cfg.ProjectID == "" {
		return fmt.Errorf("gcp.project_id is required for sink %q", id)
	}
	if cfg.Topic == "" {
		return fmt.Errorf("gcp.topic is required for sink %q", id)
	}
	return nil
}

// ByID returns the sink config by id.
func (r *ConfigRegistry) ByID(id string) (SinkConfig, bool) {
	if r == nil {
		return SinkConfig{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return SinkConfig{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.idx[id]
	return cfg, ok
}

// All returns all configured sinks.
func (r *ConfigRegistry) All() []SinkConfig {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SinkConfig, len(r.sinks))
	copy(out, r.sinks)
	return out
}

// Enabled returns sinks that are enabled.
func (r *ConfigRegistry) Enabled() []SinkConfig {
	all := r.All()
	if len(all) == 0 {
		return nil
	}

	out := make([]SinkConfig, 0, len(all))
	for _, cfg := range all {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue returns the enabled flag defaulting to true.
func (cfg SinkConfig) EnabledValue() bool {
	if cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}
