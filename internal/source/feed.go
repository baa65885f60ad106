package source

import "time"

// NewsAPI endpoints a feed may query.
const (
	EndpointEverything   = "everything"
	EndpointTopHeadlines = "top-headlines"
)

// Well-known feed ids.
const (
	FeedRegional = "regional"
	FeedGlobal   = "global"
)

// Feed describes one named news feed: how to query the provider for it
// and how to select and present its articles.
type Feed struct {
	ID       string
	Endpoint string
	Query    string
	Language string
	SortBy   string

	Title     string
	EmptyText string
	ErrorText string

	TrustedSources []string
	KeyTerms       []string
	RecencyWindow  time.Duration
	MaxArticles    int
}

// DefaultFeeds returns the regional and global feed definitions the
// relay ships with.
func DefaultFeeds() []Feed {
	return []Feed{
		{
			ID:        FeedRegional,
			Endpoint:  EndpointEverything,
			Query:     "hong kong",
			Language:  "en",
			SortBy:    "publishedAt",
			Title:     "香港重點新聞播報",
			EmptyText: "沒有新聞",
			ErrorText: "無法獲取香港新聞，請檢查 API Key 或網路。",
			TrustedSources: []string{
				"South China Morning Post",
				"Hong Kong Free Press",
				"Reuters",
				"BBC News",
			},
			KeyTerms:      []string{"breaking", "urgent", "top", "major"},
			RecencyWindow: 24 * time.Hour,
			MaxArticles:   5,
		},
		{
			ID:        FeedGlobal,
			Endpoint:  EndpointTopHeadlines,
			Language:  "en",
			SortBy:    "publishedAt",
			Title:     "國際重點新聞播報",
			EmptyText: "沒有新聞",
			ErrorText: "無法獲取國際新聞，請檢查 API Key 或網路。",
			TrustedSources: []string{
				"Reuters",
				"BBC News",
				"Associated Press",
				"Al Jazeera English",
			},
			KeyTerms:      []string{"breaking", "urgent", "top", "major"},
			RecencyWindow: 24 * time.Hour,
			MaxArticles:   5,
		},
	}
}
