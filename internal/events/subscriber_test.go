package events

import (
	"context"
	"testing"

	"github.com/appetiteclub/apt"
	aptevents "github.com/appetiteclub/apt/events"
)

// MockSubscriber is a test mock for events.Subscriber
type MockSubscriber struct {
	topic   string
	handler aptevents.HandlerFunc
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler aptevents.HandlerFunc) error {
	m.topic = topic
	m.handler = handler
	return nil
}

// MockRefresher counts kicks
type MockRefresher struct {
	kicks int
}

func (m *MockRefresher) Kick() {
	m.kicks++
}

func TestChangeSubscriberStart(t *testing.T) {
	sub := &MockSubscriber{}
	refresher := &MockRefresher{}
	s := NewChangeSubscriber(sub, refresher, "pos.tickets", apt.NewNoopLogger())

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if sub.topic != "pos.tickets" {
		t.Errorf("subscribed topic = %q, want pos.tickets", sub.topic)
	}
	if sub.handler == nil {
		t.Fatal("no handler registered")
	}
}

func TestChangeSubscriberStartWithoutSubscriber(t *testing.T) {
	s := NewChangeSubscriber(nil, &MockRefresher{}, "pos.tickets", nil)
	if err := s.Start(context.Background()); err == nil {
		t.Error("Start() without subscriber should fail")
	}
}

func TestChangeSubscriberKicksOnAnyMessage(t *testing.T) {
	sub := &MockSubscriber{}
	refresher := &MockRefresher{}
	s := NewChangeSubscriber(sub, refresher, "pos.tickets", apt.NewNoopLogger())

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Content is deliberately not interpreted: valid JSON, garbage and
	// empty payloads all trigger a refresh.
	payloads := [][]byte{
		[]byte(`{"event_type":"pos.ticket.updated"}`),
		[]byte("not json at all"),
		nil,
	}
	for _, payload := range payloads {
		if err := sub.handler(context.Background(), payload); err != nil {
			t.Errorf("handler(%q) failed: %v", payload, err)
		}
	}

	if refresher.kicks != len(payloads) {
		t.Errorf("kicks = %d, want %d", refresher.kicks, len(payloads))
	}
}
