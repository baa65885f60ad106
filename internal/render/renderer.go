// Package render formats selected articles into a deliverable digest.
package render

import (
	"fmt"
	"strings"

	"github.com/hk-newsdesk/newsrelay/internal/domain"
)

// Render builds the digest message for one feed. With no articles the
// body is the configured empty text and no image is set; otherwise each
// article becomes a numbered entry in the given order and the image is
// the first entry's image URL, when present. Pure and deterministic.
func Render(selected []domain.SelectedArticle, title, emptyText string) domain.RenderedMessage {
	if len(selected) == 0 {
		return domain.RenderedMessage{Title: title, Body: emptyText}
	}

	entries := make([]string, 0, len(selected))
	for i, a := range selected {
		entry := fmt.Sprintf("%d. %s (%s)", i+1, a.Title, a.URL)
		if a.Description != "" {
			entry += "\n" + a.Description
		}
		entries = append(entries, entry)
	}

	return domain.RenderedMessage{
		Title:    title,
		Body:     strings.Join(entries, "\n"),
		ImageURL: selected[0].ImageURL,
	}
}

// RenderError builds the fallback message delivered when a feed's
// pipeline run fails before rendering.
func RenderError(body string) domain.RenderedMessage {
	return domain.RenderedMessage{
		Title: "錯誤",
		Body:  body,
	}
}
