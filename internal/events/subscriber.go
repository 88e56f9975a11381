package events

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
)

// Refresher is anything that can be nudged into an out-of-cycle snapshot
// refetch.
type Refresher interface {
	Kick()
}

// ChangeSubscriber listens on the POS change topic and kicks the syncer on
// every message. The payload is deliberately not interpreted: the channel is
// a contentless "something changed" signal and a latency shortcut only, so a
// missed or garbled message costs nothing but a poll interval.
type ChangeSubscriber struct {
	subscriber events.Subscriber
	refresher  Refresher
	topic      string
	logger     apt.Logger
}

func NewChangeSubscriber(subscriber events.Subscriber, refresher Refresher, topic string, logger apt.Logger) *ChangeSubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &ChangeSubscriber{
		subscriber: subscriber,
		refresher:  refresher,
		topic:      topic,
		logger:     logger,
	}
}

func (s *ChangeSubscriber) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return fmt.Errorf("change subscriber not configured")
	}
	s.logger.Info("starting pos change subscriber", "topic", s.topic)
	return s.subscriber.Subscribe(ctx, s.topic, s.handleEvent)
}

func (s *ChangeSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	s.refresher.Kick()
	return nil
}
