package pos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/appetiteclub/kds/internal/kds"
	"github.com/appetiteclub/kds/pkg/enums/coursestatus"
	"github.com/google/uuid"
)

// DemoClient is an in-process stand-in for the POS bridge, preloaded with a
// realistic mid-service state. It enforces the same transition preconditions
// the real POS does, so a screen pointed at a demo instance behaves exactly
// like production. Enabled with demo.enabled=true.
type DemoClient struct {
	mu       sync.Mutex
	tickets  map[kds.TicketID]*kds.Ticket
	order    []kds.TicketID
	settings kds.Settings
}

func NewDemoClient() *DemoClient {
	c := &DemoClient{
		tickets: make(map[kds.TicketID]*kds.Ticket),
		settings: kds.Settings{
			PollIntervalSeconds: 5,
			DefaultPrep:         kds.Thresholds{Green: 0, Amber: 600, Red: 900},
			DefaultTable:        kds.Thresholds{Green: 0, Amber: 900, Red: 1500},
			Courses: []kds.CourseConfig{
				{Course: "Starters", Prep: kds.Thresholds{Green: 0, Amber: 420, Red: 720}, Table: kds.Thresholds{Green: 0, Amber: 900, Red: 1500}},
				{Course: "Mains", Prep: kds.Thresholds{Green: 0, Amber: 720, Red: 1080}, Table: kds.Thresholds{Green: 0, Amber: 1200, Red: 1800}},
				{Course: "Desserts", Prep: kds.Thresholds{Green: 0, Amber: 420, Red: 600}, Table: kds.Thresholds{Green: 0, Amber: 900, Red: 1500}},
			},
			VoidHighlightSeconds: 300,
			VoidHideSeconds:      600,
		},
	}
	c.seed()
	return c
}

func (c *DemoClient) seed() {
	now := time.Now().UTC()
	covers2, covers4 := 2, 4
	awayAt := now.Add(-8 * time.Minute)
	sentAt := now.Add(-14 * time.Minute)
	voidedAt := now.Add(-2 * time.Minute)

	c.add(&kds.Ticket{
		ID:        uuid.New(),
		Number:    "41",
		Table:     "T4",
		Covers:    &covers4,
		ArrivedAt: now.Add(-25 * time.Minute),
		Courses:   []string{"Starters", "Mains"},
		States: map[string]kds.CourseState{
			"Starters": {Status: coursestatus.Sent, CalledAwayAt: &sentAt, SentAt: &sentAt},
			"Mains":    {Status: coursestatus.Away, CalledAwayAt: &awayAt},
		},
		Orders: []kds.Order{
			{Name: "Soup", Quantity: 2, Course: "Starters"},
			{Name: "Ribeye", Portion: "300g", Quantity: 2, Course: "Mains", Tags: []kds.OrderTag{{Label: "medium rare"}}},
			{Name: "Sea Bass", Quantity: 2, Course: "Mains"},
		},
	})

	c.add(&kds.Ticket{
		ID:        uuid.New(),
		Number:    "42",
		Table:     "T7",
		Covers:    &covers2,
		ArrivedAt: now.Add(-10 * time.Minute),
		Courses:   []string{"Starters", "Mains"},
		States: map[string]kds.CourseState{
			"Starters": {Status: coursestatus.Pending},
			"Mains":    {Status: coursestatus.Pending},
		},
		Orders: []kds.Order{
			{Name: "Soup", Quantity: 3, Course: "Starters"},
			{Name: "Burrata", Quantity: 1, Course: "Starters", Void: true, VoidedAt: &voidedAt},
			{Name: "Risotto", Quantity: 2, Course: "Mains", Tags: []kds.OrderTag{{Label: "no parmesan", Quantity: 1}}},
		},
	})

	c.add(&kds.Ticket{
		ID:        uuid.New(),
		Number:    "43",
		Table:     "Bar 2",
		ArrivedAt: now.Add(-4 * time.Minute),
		Courses:   []string{"Desserts"},
		States: map[string]kds.CourseState{
			"Desserts": {Status: coursestatus.Pending},
		},
		Orders: []kds.Order{
			{Name: "Tiramisu", Quantity: 2, Course: "Desserts"},
		},
	})
}

func (c *DemoClient) add(t *kds.Ticket) {
	c.tickets[t.ID] = t
	c.order = append(c.order, t.ID)
}

func (c *DemoClient) Snapshot(ctx context.Context) ([]kds.Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]kds.Ticket, 0, len(c.order))
	for _, id := range c.order {
		if t, ok := c.tickets[id]; ok {
			result = append(result, cloneTicket(t))
		}
	}
	return result, nil
}

// cloneTicket detaches the snapshot from the live ticket so later commands
// cannot mutate state a consumer is still reading.
func cloneTicket(t *kds.Ticket) kds.Ticket {
	out := *t
	out.Courses = append([]string(nil), t.Courses...)
	out.Orders = append([]kds.Order(nil), t.Orders...)
	out.States = make(map[string]kds.CourseState, len(t.States))
	for k, v := range t.States {
		out.States[k] = v
	}
	return out
}

func (c *DemoClient) Settings(ctx context.Context) (kds.Settings, error) {
	return c.settings, nil
}

func (c *DemoClient) CallAway(ctx context.Context, id kds.TicketID, course string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, err := c.ticket(id)
	if err != nil {
		return err
	}
	if st := t.States[course]; st.Status != coursestatus.Pending {
		return nil // already away, same intent
	}
	if err := kds.CanCallAway(t, course); err != nil {
		return &kds.CommandError{Reason: err.Error()}
	}
	now := time.Now().UTC()
	t.States[course] = kds.CourseState{Status: coursestatus.Away, CalledAwayAt: &now}
	return nil
}

func (c *DemoClient) MarkSent(ctx context.Context, id kds.TicketID, course string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, err := c.ticket(id)
	if err != nil {
		return err
	}
	st := t.States[course]
	if st.Status.Served() {
		return nil
	}
	if err := kds.CanMarkSent(t, course); err != nil {
		return &kds.CommandError{Reason: err.Error()}
	}
	now := time.Now().UTC()
	st.Status = coursestatus.Sent
	st.SentAt = &now
	t.States[course] = st
	return nil
}

func (c *DemoClient) Bump(ctx context.Context, id kds.TicketID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, err := c.ticket(id)
	if err != nil {
		return err
	}
	if err := kds.CanBump(t); err != nil {
		return &kds.CommandError{Reason: err.Error()}
	}
	delete(c.tickets, id)
	for i, tid := range c.order {
		if tid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *DemoClient) ticket(id kds.TicketID) (*kds.Ticket, error) {
	t, ok := c.tickets[id]
	if !ok {
		return nil, &kds.CommandError{Reason: fmt.Sprintf("ticket %s not found", id)}
	}
	return t, nil
}
