// Package translate wraps the Google Translate v2 API with a soft-fail
// contract: a translation that cannot be obtained degrades to the
// original text instead of surfacing an error.
package translate

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/hk-newsdesk/newsrelay/internal/logger"
	"github.com/hk-newsdesk/newsrelay/pkg/httpclient"
)

const (
	// DefaultEndpoint is the Google Translate v2 REST endpoint.
	DefaultEndpoint = "https://translation.googleapis.com/language/translate/v2"

	// DefaultTarget is the output locale.
	DefaultTarget = "zh-TW"

	// DefaultPlaceholder replaces empty input so the provider always
	// receives non-empty text.
	DefaultPlaceholder = "無標題"
)

// Translator translates single text strings. It holds no mutable state
// and is safe for concurrent use.
type Translator struct {
	client      httpclient.Client
	endpoint    string
	target      string
	apiKey      string
	placeholder string
	log         logger.Logger
}

// Option customizes a Translator.
type Option func(*Translator)

// WithEndpoint overrides the provider endpoint, mainly for tests.
func WithEndpoint(endpoint string) Option {
	return func(t *Translator) { t.endpoint = endpoint }
}

// WithTarget overrides the output locale.
func WithTarget(target string) Option {
	return func(t *Translator) {
		if strings.TrimSpace(target) != "" {
			t.target = target
		}
	}
}

// WithPlaceholder overrides the empty-input placeholder.
func WithPlaceholder(placeholder string) Option {
	return func(t *Translator) {
		if strings.TrimSpace(placeholder) != "" {
			t.placeholder = placeholder
		}
	}
}

// New builds a Translator.
func New(client httpclient.Client, apiKey string, log logger.Logger, opts ...Option) *Translator {
	if client == nil {
		client = httpclient.NewRestyClient(15 * time.Second)
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	t := &Translator{
		client:      client,
		endpoint:    DefaultEndpoint,
		target:      DefaultTarget,
		apiKey:      apiKey,
		placeholder: DefaultPlaceholder,
		log:         log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// translateResponse mirrors the provider payload shape.
type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate returns the translated text, or the input unchanged when
// the provider call fails in any way. Empty input is substituted with
// the placeholder before submission. Translate never returns an error.
func (t *Translator) Translate(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		text = t.placeholder
	}

	query := map[string]string{
		"q":      text,
		"target": t.target,
		"key":    t.apiKey,
	}

	resp, err := t.client.Post(ctx, t.endpoint, query, nil)
	if err != nil {
		t.log.WarnObj("translation call failed", "translate_error", map[string]any{
			"error": err.Error(),
		})
		return text
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		t.log.WarnObj("translation provider rejected request", "translate_error", map[string]any{
			"status": resp.StatusCode(),
		})
		return text
	}

	var payload translateResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		t.log.WarnObj("translation response malformed", "translate_error", map[string]any{
			"error": err.Error(),
		})
		return text
	}
	if len(payload.Data.Translations) == 0 {
		t.log.WarnObj("translation response missing translations", "translate_error", nil)
		return text
	}

	translated := payload.Data.Translations[0].TranslatedText
	if strings.TrimSpace(translated) == "" {
		return text
	}
	return translated
}
