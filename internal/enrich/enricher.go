// Package enrich backfills absent article metadata by scraping the
// article pages for Open Graph tags.
package enrich

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hk-newsdesk/newsrelay/internal/domain"
	"github.com/hk-newsdesk/newsrelay/internal/logger"
	"github.com/hk-newsdesk/newsrelay/pkg/httpclient"
)

const (
	maxHTMLBodyBytes  = 1 << 20 // 1 MiB
	maxEnrichWorkers  = 5
	defaultReqTimeout = 15 * time.Second
)

// Enricher fills in missing description and image fields by fetching
// the article HTML. It only ever adds data: an article that already has
// both fields, or whose page cannot be scraped, passes through as-is.
type Enricher struct {
	client httpclient.Client
	log    logger.Logger
}

// New creates an Enricher with the given HTTP client and logger.
func New(client httpclient.Client, log logger.Logger) *Enricher {
	if client == nil {
		client = httpclient.NewRestyClient(defaultReqTimeout)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Enricher{client: client, log: log}
}

// Enrich returns a copy of articles with absent description/image
// fields backfilled where scraping succeeded. Articles are processed by
// a bounded worker pool; partial results are returned on cancel.
func (e *Enricher) Enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))
	copy(out, articles)

	if len(articles) == 0 {
		return out
	}

	jobCh := make(chan int)
	var wg sync.WaitGroup

	for range min(len(articles), maxEnrichWorkers) {
		wg.Add(1)
		go e.worker(ctx, articles, jobCh, out, &wg)
	}

	for idx, a := range articles {
		if a.Description != "" && a.ImageURL != "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		jobCh <- idx
	}
	close(jobCh)

	wg.Wait()

	return out
}

func (e *Enricher) worker(ctx context.Context, articles []domain.Article, jobCh <-chan int, out []domain.Article, wg *sync.WaitGroup) {
	defer wg.Done()

	for idx := range jobCh {
		if ctx.Err() != nil {
			return
		}

		art := articles[idx]
		if enriched, err := e.fetchAndParse(ctx, art); err != nil {
			e.log.WarnObj("article metadata scrape failed", "enrich_error", map[string]any{
				"url":   art.URL,
				"error": err.Error(),
			})
			out[idx] = art
		} else {
			out[idx] = enriched
		}
	}
}

func (e *Enricher) fetchAndParse(ctx context.Context, art domain.Article) (domain.Article, error) {
	resp, err := e.client.Get(ctx, art.URL, nil)
	if err != nil {
		return art, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != 200 {
		return art, fmt.Errorf("status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return art, err
	}

	updated := art
	if updated.Description == "" && meta.Description != "" {
		updated.Description = meta.Description
	}
	if updated.ImageURL == "" && meta.ImageURL != "" {
		updated.ImageURL = resolveURL(meta.ImageURL, art.URL)
	}
	return updated, nil
}

// pageMeta holds metadata extracted from an HTML page.
type pageMeta struct {
	Description string
	ImageURL    string
}

// parseMeta extracts og: metadata from the HTML body.
func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	pm := pageMeta{
		Description: extract(`meta[property="og:description"]`),
		ImageURL:    extract(`meta[property="og:image"]`),
	}
	if pm.Description == "" {
		pm.Description = extract(`meta[name="description"]`)
	}
	return pm, nil
}

// resolveURL resolves a possibly relative URL against a base URL.
func resolveURL(raw, base string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.IsAbs() {
		return parsed.String()
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return raw
	}

	return baseURL.ResolveReference(parsed).String()
}
