package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hk-newsdesk/newsrelay/internal/domain"
	"github.com/hk-newsdesk/newsrelay/internal/logger"
	"github.com/hk-newsdesk/newsrelay/internal/source"
)

func TestNextTopOfHour(t *testing.T) {
	tests := []struct {
		now  string
		want string
	}{
		{"2025-03-14T14:23:00Z", "2025-03-14T15:00:00Z"},
		{"2025-03-14T14:00:00Z", "2025-03-14T15:00:00Z"},
		{"2025-03-14T23:59:59Z", "2025-03-15T00:00:00Z"},
		{"2025-03-14T14:00:00.000000001Z", "2025-03-14T15:00:00Z"},
	}

	for _, tt := range tests {
		now, err := time.Parse(time.RFC3339Nano, tt.now)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.now, err)
		}
		want, _ := time.Parse(time.RFC3339, tt.want)

		if got := NextTopOfHour(now); !got.Equal(want) {
			t.Errorf("NextTopOfHour(%s) = %s, want %s", tt.now, got, tt.want)
		}
	}
}

type recordingRunner struct {
	mu   sync.Mutex
	runs []string
}

func (r *recordingRunner) Run(_ context.Context, feed source.Feed) domain.RenderedMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, feed.ID)
	return domain.RenderedMessage{Title: feed.Title}
}

func (r *recordingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []string
	notify    chan struct{}
}

func (d *recordingDeliverer) Deliver(_ context.Context, feedID string, _ domain.RenderedMessage) {
	d.mu.Lock()
	d.delivered = append(d.delivered, feedID)
	d.mu.Unlock()
	if d.notify != nil {
		d.notify <- struct{}{}
	}
}

func testFeeds() []source.Feed {
	return []source.Feed{
		{ID: source.FeedRegional, Title: "regional title"},
		{ID: source.FeedGlobal, Title: "global title"},
	}
}

func TestTriggerRunsFeedImmediately(t *testing.T) {
	runner := &recordingRunner{}
	deliverer := &recordingDeliverer{notify: make(chan struct{}, 4)}

	// Keep the timed firings far away so only the trigger path runs.
	sched := New(testFeeds(), runner, deliverer, logger.NopLogger{}).
		WithIntervals(time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Start(ctx)

	sched.Trigger(source.FeedRegional)

	select {
	case <-deliverer.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("triggered run was not delivered")
	}

	if runner.count() != 1 {
		t.Errorf("runner ran %d times, want 1", runner.count())
	}

	deliverer.mu.Lock()
	defer deliverer.mu.Unlock()
	if len(deliverer.delivered) != 1 || deliverer.delivered[0] != source.FeedRegional {
		t.Errorf("delivered = %v, want [regional]", deliverer.delivered)
	}
}

func TestTriggerUnknownFeedIgnored(t *testing.T) {
	runner := &recordingRunner{}
	deliverer := &recordingDeliverer{notify: make(chan struct{}, 4)}

	sched := New(testFeeds(), runner, deliverer, logger.NopLogger{}).
		WithIntervals(time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Start(ctx)

	sched.Trigger("nonsense")
	sched.Trigger(source.FeedGlobal)

	select {
	case <-deliverer.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("valid trigger after unknown trigger was not delivered")
	}

	if runner.count() != 1 {
		t.Errorf("runner ran %d times, want 1 (unknown feed ignored)", runner.count())
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	runner := &recordingRunner{}
	deliverer := &recordingDeliverer{}

	sched := New(testFeeds(), runner, deliverer, logger.NopLogger{}).
		WithIntervals(time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}
}
