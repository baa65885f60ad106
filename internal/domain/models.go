package domain

import "time"

// Domain contains core models shared across the relay pipeline.

// Article is a candidate news item as fetched from the provider.
// It is immutable once fetched; downstream stages derive new values
// instead of mutating it. A zero PublishedAt means the provider gave
// no usable timestamp.
type Article struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	SourceName  string
	PublishedAt time.Time
}

// SelectedArticle is an article that survived selection, with
// translated text substituted for title and description.
type SelectedArticle struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
}

// RenderedMessage is the final digest for one feed, ready for delivery.
// It is built once and consumed exactly once by the delivery layer.
type RenderedMessage struct {
	Title    string
	Body     string
	ImageURL string
}

// FeedResult maps a feed id to the articles selected for it during a
// single pipeline run. It never outlives the run that produced it.
type FeedResult map[string][]SelectedArticle
