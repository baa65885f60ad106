// Package selector filters and orders candidate articles for a feed.
package selector

import (
	"sort"
	"strings"
	"time"

	"github.com/hk-newsdesk/newsrelay/internal/domain"
)

const (
	// DefaultRecencyWindow bounds how old an article may be.
	DefaultRecencyWindow = 24 * time.Hour
	// DefaultMaxArticles bounds how many articles a feed selects.
	DefaultMaxArticles = 5
)

// Config holds the per-feed selection parameters.
type Config struct {
	TrustedSources []string
	KeyTerms       []string
	RecencyWindow  time.Duration
	MaxArticles    int
}

// normalized pre-lowercases the config sets for case-insensitive matching.
type normalized struct {
	trusted  map[string]struct{}
	keyTerms []string
	window   time.Duration
	limit    int
}

func normalize(cfg Config) normalized {
	n := normalized{
		trusted: make(map[string]struct{}, len(cfg.TrustedSources)),
		window:  cfg.RecencyWindow,
		limit:   cfg.MaxArticles,
	}
	if n.window <= 0 {
		n.window = DefaultRecencyWindow
	}
	if n.limit <= 0 {
		n.limit = DefaultMaxArticles
	}
	for _, s := range cfg.TrustedSources {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			n.trusted[s] = struct{}{}
		}
	}
	for _, term := range cfg.KeyTerms {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			n.keyTerms = append(n.keyTerms, term)
		}
	}
	return n
}

// Select applies the recency filter, the relevance filter, ordering and
// truncation to the candidate list. It is pure: no I/O, deterministic
// given the candidates and now, and it never mutates its input.
//
// Filtering can legitimately yield zero articles even when candidates
// exist; the caller renders its configured empty text in that case
// rather than backfilling from the unfiltered pool.
func Select(candidates []domain.Article, cfg Config, now time.Time) []domain.Article {
	n := normalize(cfg)

	kept := make([]domain.Article, 0, len(candidates))
	for _, a := range candidates {
		if !withinWindow(a.PublishedAt, now, n.window) {
			continue
		}
		if !relevant(a, n) {
			continue
		}
		kept = append(kept, a)
	}

	// Stable: ties keep original fetch order.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].PublishedAt.After(kept[j].PublishedAt)
	})

	if len(kept) > n.limit {
		kept = kept[:n.limit]
	}
	return kept
}

// withinWindow reports whether the timestamp is strictly inside the
// recency window. Zero timestamps and articles exactly at the window
// edge are excluded.
func withinWindow(publishedAt, now time.Time, window time.Duration) bool {
	if publishedAt.IsZero() {
		return false
	}
	age := now.Sub(publishedAt)
	return age >= 0 && age < window
}

// relevant reports whether the article comes from a trusted source or
// carries a key headline term. Both checks are case-insensitive.
func relevant(a domain.Article, n normalized) bool {
	if _, ok := n.trusted[strings.ToLower(strings.TrimSpace(a.SourceName))]; ok {
		return true
	}

	title := strings.ToLower(a.Title)
	for _, term := range n.keyTerms {
		if strings.Contains(title, term) {
			return true
		}
	}
	return false
}
