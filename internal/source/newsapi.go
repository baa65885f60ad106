// Package source fetches candidate articles from the news provider.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hk-newsdesk/newsrelay/internal/domain"
	"github.com/hk-newsdesk/newsrelay/internal/logger"
	"github.com/hk-newsdesk/newsrelay/pkg/httpclient"
)

const (
	// DefaultBaseURL is the NewsAPI v2 endpoint root.
	DefaultBaseURL = "https://newsapi.org/v2"

	statusOK = "ok"
)

// NewsAPI fetches articles from newsapi.org for a configured feed.
type NewsAPI struct {
	client  httpclient.Client
	baseURL string
	apiKey  string
	log     logger.Logger
}

// NewNewsAPI builds an article source against the given base URL.
// An empty baseURL falls back to the public NewsAPI endpoint.
func NewNewsAPI(client httpclient.Client, baseURL, apiKey string, log logger.Logger) *NewsAPI {
	if client == nil {
		client = httpclient.NewRestyClient(15 * time.Second)
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &NewsAPI{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		log:     log,
	}
}

// newsAPIResponse mirrors the provider's top-level payload.
type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

// Fetch retrieves the candidate article list for the feed. It returns a
// *TransportError for HTTP-level failures and a *ProviderError when the
// provider's own status field signals a failure.
func (s *NewsAPI) Fetch(ctx context.Context, feed Feed) ([]domain.Article, error) {
	reqURL := s.requestURL(feed)

	s.log.DebugObj("fetching feed articles", "source_fetch_start", map[string]any{
		"feed_id":  feed.ID,
		"endpoint": feed.Endpoint,
	})

	resp, err := s.client.Get(ctx, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feed.ID, err)
	}

	body := resp.Body()
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &TransportError{Status: resp.StatusCode(), Body: responseSnippet(body)}
	}

	var payload newsAPIResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode feed %s response: %w", feed.ID, err)
	}
	if !strings.EqualFold(payload.Status, statusOK) && !strings.EqualFold(payload.Status, "success") {
		return nil, &ProviderError{Status: payload.Status, Message: payload.Message}
	}

	articles := buildArticles(payload.Articles)

	s.log.DebugObj("feed articles fetched", "source_fetch_done", map[string]any{
		"feed_id": feed.ID,
		"count":   len(articles),
	})
	return articles, nil
}

// requestURL builds the provider query for the feed.
func (s *NewsAPI) requestURL(feed Feed) string {
	q := url.Values{}
	if feed.Query != "" {
		q.Set("q", feed.Query)
	}
	if feed.Language != "" {
		q.Set("language", feed.Language)
	}
	if feed.SortBy != "" {
		q.Set("sortBy", feed.SortBy)
	}
	q.Set("apiKey", s.apiKey)

	return fmt.Sprintf("%s/%s?%s", s.baseURL, feed.Endpoint, q.Encode())
}

// buildArticles converts provider records into domain articles. Absent
// optional fields become empty strings; unparsable timestamps become the
// zero time and are dropped later by the selector.
func buildArticles(raw []newsAPIArticle) []domain.Article {
	articles := make([]domain.Article, 0, len(raw))
	for _, a := range raw {
		link := strings.TrimSpace(a.URL)
		if link == "" {
			continue
		}

		articles = append(articles, domain.Article{
			Title:       strings.TrimSpace(a.Title),
			Description: strings.TrimSpace(a.Description),
			URL:         link,
			ImageURL:    strings.TrimSpace(a.URLToImage),
			SourceName:  strings.TrimSpace(a.Source.Name),
			PublishedAt: parsePublishedAt(a.PublishedAt),
		})
	}
	return articles
}

// parsePublishedAt parses the provider timestamp, returning the zero
// time when it is missing or malformed.
func parsePublishedAt(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}

	return time.Time{}
}

// responseSnippet returns a truncated snippet of the response body for
// diagnostics.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
