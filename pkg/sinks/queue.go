package sinks

import (
	"context"
	"fmt"
)

// queueSender abstracts provider-specific queue senders.
type queueSender interface {
	Send(ctx context.Context, msg Message) error
}

// queueSink dispatches messages to a cloud queue provider.
type queueSink struct {
	id       string
	provider string
	sender   queueSender
	log      Logger
}

// newQueueSink creates a queue sink for the configured provider.
func newQueueSink(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.Queue == nil {
		return nil, fmt.Errorf("sink %q missing queue configuration", cfg.ID)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var (
		sender queueSender
		err    error
	)

	switch cfg.Queue.Provider {
	case QueueProviderAWSSQS:
		sender, err = newAWSSQSSender(ctx, cfg.Queue.SQS, log)
	case QueueProviderAWSSNS:
		sender, err = newAWSSNSSender(ctx, cfg.Queue.SNS, log)
	case QueueProviderGCP:
		sender, err = newGCPPubSubSender(ctx, cfg.Queue.GCP, log)
	default:
		err = fmt.Errorf("queue provider %q is not supported", cfg.Queue.Provider)
	}
	if err != nil {
		return nil, err
	}

	return &queueSink{
		id:       cfg.ID,
		provider: cfg.Queue.Provider,
		sender:   sender,
		log:      ensureLogger(log),
	}, nil
}

func (s *queueSink) ID() string   { return s.id }
func (s *queueSink) Type() string { return TypeQueue }

// Deliver forwards the message to the configured queue provider.
func (s *queueSink) Deliver(ctx context.Context, msg Message) error {
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("queue provider %s send failed: %w", s.provider, err)
	}
	return nil
}
