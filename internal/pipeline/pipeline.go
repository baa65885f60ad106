// Package pipeline orchestrates one feed run: fetch, select, enrich,
// translate, render. A run never fails; every error state degrades into
// a deliverable message.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/hk-newsdesk/newsrelay/internal/domain"
	"github.com/hk-newsdesk/newsrelay/internal/logger"
	"github.com/hk-newsdesk/newsrelay/internal/render"
	"github.com/hk-newsdesk/newsrelay/internal/selector"
	"github.com/hk-newsdesk/newsrelay/internal/source"
)

// ArticleSource fetches candidate articles for a feed.
type ArticleSource interface {
	Fetch(ctx context.Context, feed source.Feed) ([]domain.Article, error)
}

// Translator translates one text string, soft-failing to its input.
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// Enricher backfills absent article metadata.
type Enricher interface {
	Enrich(ctx context.Context, articles []domain.Article) []domain.Article
}

// Pipeline runs the selection-and-translation pipeline for one feed at
// a time. Each run owns its values exclusively; the pipeline itself
// holds no per-run state and is safe for concurrent runs.
type Pipeline struct {
	source     ArticleSource
	translator Translator
	enricher   Enricher
	now        func() time.Time
	log        logger.Logger
}

// New builds a Pipeline. The enricher is optional; nil disables the
// enrichment stage.
func New(src ArticleSource, tr Translator, enricher Enricher, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Pipeline{
		source:     src,
		translator: tr,
		enricher:   enricher,
		now:        time.Now,
		log:        log,
	}
}

// WithClock overrides the time source, for tests.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Run executes the pipeline for the feed and always returns a
// deliverable message. Fetch failures are absorbed into a rendered
// error message; translation failures degrade per-field inside the
// translator. No stage is retried within a run.
func (p *Pipeline) Run(ctx context.Context, feed source.Feed) domain.RenderedMessage {
	p.log.InfoObj("pipeline run started", "pipeline_fetching", map[string]any{
		"feed_id": feed.ID,
	})

	candidates, err := p.source.Fetch(ctx, feed)
	if err != nil {
		p.log.ErrorObj("feed fetch failed", "pipeline_error", map[string]any{
			"feed_id": feed.ID,
			"error":   err.Error(),
		})
		return render.RenderError(feed.ErrorText)
	}

	p.log.InfoObj("selecting articles", "pipeline_selecting", map[string]any{
		"feed_id":    feed.ID,
		"candidates": len(candidates),
	})

	selected := selector.Select(candidates, selector.Config{
		TrustedSources: feed.TrustedSources,
		KeyTerms:       feed.KeyTerms,
		RecencyWindow:  feed.RecencyWindow,
		MaxArticles:    feed.MaxArticles,
	}, p.now())

	if p.enricher != nil && len(selected) > 0 {
		p.log.InfoObj("enriching articles", "pipeline_enriching", map[string]any{
			"feed_id":  feed.ID,
			"selected": len(selected),
		})
		selected = p.enricher.Enrich(ctx, selected)
	}

	p.log.InfoObj("translating articles", "pipeline_translating", map[string]any{
		"feed_id":  feed.ID,
		"selected": len(selected),
	})

	translated := p.translateAll(ctx, selected)

	p.log.InfoObj("rendering message", "pipeline_rendering", map[string]any{
		"feed_id": feed.ID,
		"entries": len(translated),
	})

	msg := render.Render(translated, feed.Title, feed.EmptyText)

	p.log.InfoObj("pipeline run done", "pipeline_done", map[string]any{
		"feed_id": feed.ID,
	})
	return msg
}

// translateAll fans out one translation call per non-empty field of
// every selected article and waits for all of them. A failed call
// degrades only its own field via the translator's soft-fail contract,
// so no per-call error handling is needed here.
func (p *Pipeline) translateAll(ctx context.Context, selected []domain.Article) []domain.SelectedArticle {
	out := make([]domain.SelectedArticle, len(selected))

	var wg sync.WaitGroup
	for i, art := range selected {
		out[i] = domain.SelectedArticle{
			URL:      art.URL,
			ImageURL: art.ImageURL,
		}

		wg.Add(1)
		go func(i int, title string) {
			defer wg.Done()
			out[i].Title = p.translator.Translate(ctx, title)
		}(i, art.Title)

		if art.Description != "" {
			wg.Add(1)
			go func(i int, desc string) {
				defer wg.Done()
				out[i].Description = p.translator.Translate(ctx, desc)
			}(i, art.Description)
		}
	}
	wg.Wait()

	return out
}
