// Package delivery fans rendered messages out to the configured sinks.
package delivery

import (
	"context"
	"time"

	"github.com/hk-newsdesk/newsrelay/internal/domain"
	"github.com/hk-newsdesk/newsrelay/internal/journal"
	"github.com/hk-newsdesk/newsrelay/internal/logger"
	"github.com/hk-newsdesk/newsrelay/pkg/sinks"
)

// Dispatcher delivers one rendered message to every sink. Sink failures
// are logged and journaled, never propagated: a broken sink must not
// stop other sinks, other feeds or the scheduler.
type Dispatcher struct {
	sinks   []sinks.Sink
	journal *journal.Journal
	now     func() time.Time
	log     logger.Logger
}

// New builds a Dispatcher. The journal is optional; nil disables it.
func New(sinkList []sinks.Sink, jnl *journal.Journal, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Dispatcher{
		sinks:   sinkList,
		journal: jnl,
		now:     time.Now,
		log:     log,
	}
}

// Deliver sends the message to all sinks sequentially. The sink set is
// small; concurrent sends across feeds already overlap at the sink.
func (d *Dispatcher) Deliver(ctx context.Context, feedID string, msg domain.RenderedMessage) {
	outbound := sinks.Message{
		Feed:     feedID,
		Title:    msg.Title,
		Body:     msg.Body,
		ImageURL: msg.ImageURL,
		PostedAt: d.now(),
	}

	for _, sink := range d.sinks {
		err := sink.Deliver(ctx, outbound)
		if err != nil {
			d.log.ErrorObj("sink delivery failed", "delivery_error", map[string]any{
				"feed_id": feedID,
				"sink_id": sink.ID(),
				"error":   err.Error(),
			})
		} else {
			d.log.InfoObj("message delivered", "delivery_done", map[string]any{
				"feed_id": feedID,
				"sink_id": sink.ID(),
			})
		}

		d.record(feedID, sink.ID(), msg.Title, err)
	}
}

func (d *Dispatcher) record(feedID, sinkID, title string, deliveryErr error) {
	entry := journal.Entry{
		Feed:      feedID,
		SinkID:    sinkID,
		Title:     title,
		Delivered: deliveryErr == nil,
	}
	if deliveryErr != nil {
		entry.Error = deliveryErr.Error()
	}

	if err := d.journal.Record(entry); err != nil {
		d.log.WarnObj("journal write failed", "journal_error", map[string]any{
			"feed_id": feedID,
			"error":   err.Error(),
		})
	}
}
