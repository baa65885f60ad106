// Package sinks delivers rendered news digests to configured
// destinations: a telegram chat, generic webhooks and cloud queues.
package sinks

import (
	"context"
	"time"
)

// Message is the outbound digest payload handed to every sink.
type Message struct {
	Feed     string    `json:"feed"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	ImageURL string    `json:"image_url,omitempty"`
	PostedAt time.Time `json:"posted_at"`
}

// Sink delivers messages to one destination.
type Sink interface {
	ID() string
	Type() string
	Deliver(ctx context.Context, msg Message) error
}

// Logger is the minimal logging surface sinks depend on.
type Logger interface {
	DebugObj(msg, event string, fields map[string]any)
	InfoObj(msg, event string, fields map[string]any)
	WarnObj(msg, event string, fields map[string]any)
	ErrorObj(msg, event string, fields map[string]any)
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) DebugObj(string, string, map[string]any) {}
func (nopLogger) InfoObj(string, string, map[string]any)  {}
func (nopLogger) WarnObj(string, string, map[string]any)  {}
func (nopLogger) ErrorObj(string, string, map[string]any) {}

// ensureLogger substitutes a no-op logger for nil.
func ensureLogger(log Logger) Logger {
	if log == nil {
		return nopLogger{}
	}
	return log
}
