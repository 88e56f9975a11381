package kds

import (
	"time"

	"github.com/appetiteclub/kds/pkg/enums/coursestatus"
)

// Board payload assembly. Everything here is derived on demand from the
// snapshot, the settings, and the clock; nothing is stored.

type CourseView struct {
	Course       string              `json:"course"`
	Status       coursestatus.Status `json:"status"`
	CalledAwayAt *time.Time          `json:"called_away_at,omitempty"`
	SentAt       *time.Time          `json:"sent_at,omitempty"`
	Tier         Tier                `json:"tier"`
	Suppressed   bool                `json:"suppressed,omitempty"`
	CanCallAway  bool                `json:"can_call_away"`
}

type OrderView struct {
	Name     string     `json:"name"`
	Portion  string     `json:"portion,omitempty"`
	Quantity int        `json:"quantity"`
	Course   string     `json:"course"`
	Void     bool       `json:"void,omitempty"`
	Tags     []OrderTag `json:"tags,omitempty"`
	Visibility
}

type TicketView struct {
	ID         TicketID     `json:"id"`
	Number     string       `json:"number"`
	Table      string       `json:"table"`
	Covers     *int         `json:"covers,omitempty"`
	ArrivedAt  time.Time    `json:"arrived_at"`
	Headline   Tier         `json:"headline"`
	TableState string       `json:"table_state,omitempty"`
	CanBump    bool         `json:"can_bump"`
	Courses    []CourseView `json:"courses"`
	Orders     []OrderView  `json:"orders"`
}

// BuildTicketView decorates one ticket with tiers, suppression, void decay
// and actionability flags, all evaluated at now.
func BuildTicketView(t *Ticket, settings Settings, now time.Time) TicketView {
	view := TicketView{
		ID:         t.ID,
		Number:     t.Number,
		Table:      t.Table,
		Covers:     t.Covers,
		ArrivedAt:  t.ArrivedAt,
		Headline:   TicketHeadline(t, settings, now),
		TableState: TableState(t),
		CanBump:    CanBump(t) == nil,
	}

	for _, course := range t.Courses {
		st := t.State(course)
		view.Courses = append(view.Courses, CourseView{
			Course:       course,
			Status:       st.Status,
			CalledAwayAt: st.CalledAwayAt,
			SentAt:       st.SentAt,
			Tier:         CourseTier(st, settings.CourseConfig(course), now),
			Suppressed:   DisplaySuppressed(t, course),
			CanCallAway:  st.Status == coursestatus.Pending && CanCallAway(t, course) == nil,
		})
	}

	for _, o := range t.Orders {
		vis := OrderVisibility(o, settings, now)
		if !vis.Shown {
			continue
		}
		view.Orders = append(view.Orders, OrderView{
			Name:       o.Name,
			Portion:    o.Portion,
			Quantity:   o.Quantity,
			Course:     o.Course,
			Void:       o.Void,
			Tags:       o.Tags,
			Visibility: vis,
		})
	}

	return view
}

// BuildBoard decorates the whole snapshot.
func BuildBoard(tickets []Ticket, settings Settings, now time.Time) []TicketView {
	views := make([]TicketView, 0, len(tickets))
	for i := range tickets {
		views = append(views, BuildTicketView(&tickets[i], settings, now))
	}
	return views
}
