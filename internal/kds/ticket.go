package kds

import (
	"time"

	"github.com/appetiteclub/kds/pkg/enums/coursestatus"
	"github.com/google/uuid"
)

type TicketID = uuid.UUID

// Ticket is one open order at a table, exactly as reported by the POS. The
// engine never invents or deletes tickets; it only reflects the latest
// snapshot.
type Ticket struct {
	ID        TicketID               `json:"id"`
	Number    string                 `json:"number"`
	Table     string                 `json:"table"`
	Covers    *int                   `json:"covers,omitempty"`
	ArrivedAt time.Time              `json:"arrived_at"`
	Courses   []string               `json:"courses"`
	States    map[string]CourseState `json:"course_states"`
	Orders    []Order                `json:"orders"`
}

// CourseState carries the POS-confirmed lifecycle of one course. All
// timestamps are server clock values; elapsed time is always derived from
// them at read time.
type CourseState struct {
	Status       coursestatus.Status `json:"status"`
	CalledAwayAt *time.Time          `json:"called_away_at,omitempty"`
	SentAt       *time.Time          `json:"sent_at,omitempty"`
	ClearedAt    *time.Time          `json:"cleared_at,omitempty"`
}

// Order is one line item. Void status and timestamp are immutable once set
// by the POS; the engine never voids locally.
type Order struct {
	Name     string     `json:"name"`
	Portion  string     `json:"portion,omitempty"`
	Quantity int        `json:"quantity"`
	Course   string     `json:"course"`
	Void     bool       `json:"void"`
	VoidedAt *time.Time `json:"voided_at,omitempty"`
	Tags     []OrderTag `json:"tags,omitempty"`
}

// OrderTag is a free-form modifier on an order line ("no onion", "extra
// cheese x2").
type OrderTag struct {
	Label    string `json:"label"`
	Quantity int    `json:"quantity,omitempty"`
}

// State returns the course state for the named course, defaulting to pending
// for a course the POS has not reported on yet.
func (t *Ticket) State(course string) CourseState {
	if st, ok := t.States[course]; ok {
		return st
	}
	return CourseState{Status: coursestatus.Pending}
}

// NormalizeStates maps wire status values onto the known lifecycle set.
// Unknown statuses from a newer POS degrade to pending.
func (t *Ticket) NormalizeStates() {
	for name, st := range t.States {
		st.Status = coursestatus.Parse(string(st.Status))
		t.States[name] = st
	}
}

// CourseIndex returns the position of course in the ticket's ordered course
// list, or -1 when the ticket does not carry it.
func (t *Ticket) CourseIndex(course string) int {
	for i, name := range t.Courses {
		if name == course {
			return i
		}
	}
	return -1
}

// HasCourse reports whether the ticket carries the named course.
func (t *Ticket) HasCourse(course string) bool {
	return t.CourseIndex(course) >= 0
}

// CourseOrders returns the non-void line items assigned to course.
func (t *Ticket) CourseOrders(course string) []Order {
	var result []Order
	for _, o := range t.Orders {
		if o.Course == course && !o.Void {
			result = append(result, o)
		}
	}
	return result
}
