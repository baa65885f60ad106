package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// webhookSink POSTs the digest as JSON to a configured URL.
type webhookSink struct {
	id      string
	url     string
	method  string
	headers map[string]string
	client  *http.Client
	log     Logger
}

// newWebhookSink builds a webhook sink from config.
func newWebhookSink(_ context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.Webhook == nil {
		return nil, fmt.Errorf("sink %q missing webhook configuration", cfg.ID)
	}

	return &webhookSink{
		id:      cfg.ID,
		url:     cfg.Webhook.URL,
		method:  cfg.Webhook.Method,
		headers: cfg.Webhook.Headers,
		client: &http.Client{
			Timeout: time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second,
		},
		log: ensureLogger(log),
	}, nil
}

func (s *webhookSink) ID() string   { return s.id }
func (s *webhookSink) Type() string { return TypeWebhook }

// Deliver sends the digest to the webhook endpoint.
func (s *webhookSink) Deliver(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, s.method, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.ErrorObj("webhook sink send failed", "sink_webhook_error", map[string]any{
			"feed":  msg.Feed,
			"error": err.Error(),
		})
		return fmt.Errorf("send message to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	s.log.DebugObj("webhook sink delivered message", "sink_webhook_delivery", map[string]any{
		"feed":   msg.Feed,
		"status": resp.StatusCode,
	})
	return nil
}
