package kds

import (
	"context"
	"sync"
	"time"

	"github.com/appetiteclub/kds/pkg/enums/coursestatus"
	"github.com/google/uuid"
)

// MockPOSClient is a test mock for POSClient
type MockPOSClient struct {
	mu sync.Mutex

	SnapshotFunc func(ctx context.Context) ([]Ticket, error)
	SettingsFunc func(ctx context.Context) (Settings, error)
	CallAwayFunc func(ctx context.Context, id TicketID, course string) error
	MarkSentFunc func(ctx context.Context, id TicketID, course string) error
	BumpFunc     func(ctx context.Context, id TicketID) error

	SnapshotCalls int
	Commands      []string
}

func NewMockPOSClient() *MockPOSClient {
	return &MockPOSClient{}
}

func (m *MockPOSClient) Snapshot(ctx context.Context) ([]Ticket, error) {
	m.mu.Lock()
	m.SnapshotCalls++
	m.mu.Unlock()
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(ctx)
	}
	return nil, nil
}

func (m *MockPOSClient) Settings(ctx context.Context) (Settings, error) {
	if m.SettingsFunc != nil {
		return m.SettingsFunc(ctx)
	}
	return DefaultSettings(), nil
}

func (m *MockPOSClient) CallAway(ctx context.Context, id TicketID, course string) error {
	m.record("away:" + course)
	if m.CallAwayFunc != nil {
		return m.CallAwayFunc(ctx, id, course)
	}
	return nil
}

func (m *MockPOSClient) MarkSent(ctx context.Context, id TicketID, course string) error {
	m.record("sent:" + course)
	if m.MarkSentFunc != nil {
		return m.MarkSentFunc(ctx, id, course)
	}
	return nil
}

func (m *MockPOSClient) Bump(ctx context.Context, id TicketID) error {
	m.record("bump")
	if m.BumpFunc != nil {
		return m.BumpFunc(ctx, id)
	}
	return nil
}

func (m *MockPOSClient) record(cmd string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = append(m.Commands, cmd)
}

func (m *MockPOSClient) SnapshotCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SnapshotCalls
}

func (m *MockPOSClient) CommandCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Commands)
}

// MockPublisher is a test mock for events.Publisher
type MockPublisher struct {
	mu              sync.Mutex
	PublishedEvents []PublishedEvent
	PublishFunc     func(ctx context.Context, topic string, data []byte) error
}

type PublishedEvent struct {
	Topic string
	Data  []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		PublishedEvents: make([]PublishedEvent, 0),
	}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Topic: topic, Data: data})
	return nil
}

func (m *MockPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PublishedEvents)
}

// Test fixtures

func testSettings() Settings {
	return Settings{
		PollIntervalSeconds: 10,
		DefaultPrep:         Thresholds{Green: 0, Amber: 600, Red: 900},
		DefaultTable:        Thresholds{Green: 0, Amber: 900, Red: 1500},
		Courses: []CourseConfig{
			{Course: "Starters", Prep: Thresholds{Green: 0, Amber: 420, Red: 720}, Table: Thresholds{Green: 0, Amber: 900, Red: 1500}},
			{Course: "Mains", Prep: Thresholds{Green: 0, Amber: 720, Red: 1080}, Table: Thresholds{Green: 0, Amber: 1200, Red: 1800}},
		},
		VoidHighlightSeconds: 300,
		VoidHideSeconds:      600,
	}
}

func testTicket(courses ...string) *Ticket {
	if len(courses) == 0 {
		courses = []string{"Starters", "Mains"}
	}
	states := make(map[string]CourseState, len(courses))
	for _, c := range courses {
		states[c] = CourseState{Status: coursestatus.Pending}
	}
	return &Ticket{
		ID:        uuid.New(),
		Number:    "12",
		Table:     "T3",
		ArrivedAt: time.Now().UTC().Add(-5 * time.Minute),
		Courses:   courses,
		States:    states,
	}
}

func setState(t *Ticket, course string, status coursestatus.Status, at time.Time) {
	st := CourseState{Status: status}
	switch status {
	case coursestatus.Away:
		st.CalledAwayAt = &at
	case coursestatus.Sent:
		st.SentAt = &at
	case coursestatus.Cleared:
		st.ClearedAt = &at
	}
	t.States[course] = st
}
