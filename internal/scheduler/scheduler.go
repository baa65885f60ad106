// Package scheduler drives the hourly news cycle and the on-demand
// trigger path.
package scheduler

import (
	"context"
	"time"

	"github.com/hk-newsdesk/newsrelay/internal/domain"
	"github.com/hk-newsdesk/newsrelay/internal/logger"
	"github.com/hk-newsdesk/newsrelay/internal/source"
)

const (
	// DefaultInterval is the repeat interval after the first firing.
	DefaultInterval = time.Hour
	// DefaultLivenessInterval paces the liveness log line.
	DefaultLivenessInterval = 5 * time.Minute
)

// Runner executes the pipeline for one feed.
type Runner interface {
	Run(ctx context.Context, feed source.Feed) domain.RenderedMessage
}

// Deliverer hands a rendered message to the configured sinks. Delivery
// failures are the deliverer's to log; they never reach the scheduler.
type Deliverer interface {
	Deliver(ctx context.Context, feedID string, msg domain.RenderedMessage)
}

// Scheduler fires the pipeline for every feed at each top-of-hour
// boundary and exposes an independent on-demand trigger. Hourly and
// triggered runs may overlap; no mutual exclusion is applied.
type Scheduler struct {
	feeds            []source.Feed
	runner           Runner
	deliverer        Deliverer
	interval         time.Duration
	livenessInterval time.Duration
	now              func() time.Time
	log              logger.Logger

	triggerCh chan string
}

// New builds a Scheduler over the given feeds.
func New(feeds []source.Feed, runner Runner, deliverer Deliverer, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Scheduler{
		feeds:            feeds,
		runner:           runner,
		deliverer:        deliverer,
		interval:         DefaultInterval,
		livenessInterval: DefaultLivenessInterval,
		now:              time.Now,
		log:              log,
		triggerCh:        make(chan string, 8),
	}
}

// WithIntervals overrides the firing and liveness intervals, for tests.
func (s *Scheduler) WithIntervals(interval, liveness time.Duration) *Scheduler {
	if interval > 0 {
		s.interval = interval
	}
	if liveness > 0 {
		s.livenessInterval = liveness
	}
	return s
}

// WithClock overrides the time source, for tests.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// NextTopOfHour returns the next wall-clock hour boundary strictly
// after now.
func NextTopOfHour(now time.Time) time.Time {
	return now.Truncate(time.Hour).Add(time.Hour)
}

// Trigger requests an immediate run for the feed, concurrent with any
// in-flight hourly cycle. Unknown feed ids are ignored by the run loop.
func (s *Scheduler) Trigger(feedID string) {
	select {
	case s.triggerCh <- feedID:
	default:
		s.log.WarnObj("trigger queue full, request dropped", "scheduler_trigger_dropped", map[string]any{
			"feed_id": feedID,
		})
	}
}

// Start runs the scheduler loop until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	firstDelay := NextTopOfHour(s.now()).Sub(s.now())
	first := time.NewTimer(firstDelay)
	defer first.Stop()

	liveness := time.NewTicker(s.livenessInterval)
	defer liveness.Stop()

	s.log.InfoObj("scheduler started", "scheduler_start", map[string]any{
		"first_firing_in": firstDelay.String(),
		"interval":        s.interval.String(),
	})

	var cycle *time.Ticker
	var cycleCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if cycle != nil {
				cycle.Stop()
			}
			s.log.InfoObj("scheduler stopped", "scheduler_stop", nil)
			return

		case <-first.C:
			cycle = time.NewTicker(s.interval)
			cycleCh = cycle.C
			s.fireAll(ctx)

		case <-cycleCh:
			s.fireAll(ctx)

		case <-liveness.C:
			s.log.InfoObj("scheduler alive", "scheduler_liveness", map[string]any{
				"feeds": len(s.feeds),
			})

		case feedID := <-s.triggerCh:
			feed, ok := s.feedByID(feedID)
			if !ok {
				continue
			}
			go s.runFeed(ctx, feed)
		}
	}
}

// fireAll runs every feed concurrently. A failure in one feed's run or
// delivery never blocks the others.
func (s *Scheduler) fireAll(ctx context.Context) {
	s.log.InfoObj("news cycle firing", "scheduler_fire", map[string]any{
		"feeds": len(s.feeds),
	})
	for _, feed := range s.feeds {
		go s.runFeed(ctx, feed)
	}
}

func (s *Scheduler) runFeed(ctx context.Context, feed source.Feed) {
	msg := s.runner.Run(ctx, feed)
	s.deliverer.Deliver(ctx, feed.ID, msg)
}

func (s *Scheduler) feedByID(id string) (source.Feed, bool) {
	for _, feed := range s.feeds {
		if feed.ID == id {
			return feed, true
		}
	}
	s.log.WarnObj("trigger for unknown feed ignored", "scheduler_unknown_feed", map[string]any{
		"feed_id": id,
	})
	return source.Feed{}, false
}
