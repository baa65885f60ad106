package delivery

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hk-newsdesk/newsrelay/internal/domain"
	"github.com/hk-newsdesk/newsrelay/internal/journal"
	"github.com/hk-newsdesk/newsrelay/internal/logger"
	"github.com/hk-newsdesk/newsrelay/pkg/sinks"
)

type fakeSink struct {
	id   string
	err  error
	seen []sinks.Message
}

func (f *fakeSink) ID() string   { return f.id }
func (f *fakeSink) Type() string { return "fake" }

func (f *fakeSink) Deliver(_ context.Context, msg sinks.Message) error {
	f.seen = append(f.seen, msg)
	return f.err
}

func TestDeliverFansOutToAllSinks(t *testing.T) {
	first := &fakeSink{id: "chat"}
	second := &fakeSink{id: "mirror"}

	d := New([]sinks.Sink{first, second}, nil, logger.NopLogger{})
	d.Deliver(context.Background(), "regional", domain.RenderedMessage{
		Title:    "香港重點新聞播報",
		Body:     "1. 標題 (https://example.com/1)",
		ImageURL: "https://example.com/1.jpg",
	})

	for _, sink := range []*fakeSink{first, second} {
		if len(sink.seen) != 1 {
			t.Fatalf("sink %s received %d messages, want 1", sink.id, len(sink.seen))
		}
		msg := sink.seen[0]
		if msg.Feed != "regional" {
			t.Errorf("sink %s Feed = %q, want regional", sink.id, msg.Feed)
		}
		if msg.ImageURL != "https://example.com/1.jpg" {
			t.Errorf("sink %s ImageURL = %q, want image carried over", sink.id, msg.ImageURL)
		}
		if msg.PostedAt.IsZero() {
			t.Errorf("sink %s PostedAt is zero", sink.id)
		}
	}
}

func TestDeliverFailureDoesNotStopOtherSinks(t *testing.T) {
	broken := &fakeSink{id: "broken", err: errors.New("channel not found")}
	healthy := &fakeSink{id: "healthy"}

	d := New([]sinks.Sink{broken, healthy}, nil, logger.NopLogger{})
	d.Deliver(context.Background(), "global", domain.RenderedMessage{Title: "t"})

	if len(healthy.seen) != 1 {
		t.Errorf("healthy sink received %d messages after sibling failure, want 1", len(healthy.seen))
	}
}

func TestDeliverJournalsOutcomes(t *testing.T) {
	jnl, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer jnl.Close()

	broken := &fakeSink{id: "broken", err: errors.New("boom")}
	healthy := &fakeSink{id: "healthy"}

	d := New([]sinks.Sink{broken, healthy}, jnl, logger.NopLogger{})
	d.Deliver(context.Background(), "regional", domain.RenderedMessage{Title: "標題"})

	entries, err := jnl.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("journal has %d entries, want 2", len(entries))
	}

	byID := map[string]journal.Entry{}
	for _, e := range entries {
		byID[e.SinkID] = e
	}
	if e := byID["broken"]; e.Delivered || e.Error == "" {
		t.Errorf("broken sink entry = %+v, want failed with error text", e)
	}
	if e := byID["healthy"]; !e.Delivered || e.Error != "" {
		t.Errorf("healthy sink entry = %+v, want delivered", e)
	}
}
