package kds

import (
	"time"

	"github.com/appetiteclub/kds/pkg/enums/coursestatus"
)

// Tier is the urgency color of a timer.
type Tier string

const (
	TierGreen Tier = "green"
	TierAmber Tier = "amber"
	TierRed   Tier = "red"
)

// TierFor maps elapsed time onto a tier: red at or beyond the red threshold,
// amber at or beyond amber, green below.
func TierFor(elapsed time.Duration, th Thresholds) Tier {
	th = th.Clamped()
	secs := int(elapsed / time.Second)
	switch {
	case secs >= th.Red:
		return TierRed
	case secs >= th.Amber:
		return TierAmber
	default:
		return TierGreen
	}
}

// CourseTier evaluates the timer for one course: preparation time while
// away, at-table time while sent. Pending and cleared courses have no
// running timer and stay green.
func CourseTier(st CourseState, cfg CourseConfig, now time.Time) Tier {
	switch st.Status {
	case coursestatus.Away:
		if st.CalledAwayAt != nil {
			return TierFor(now.Sub(*st.CalledAwayAt), cfg.Prep)
		}
	case coursestatus.Sent:
		if st.SentAt != nil {
			return TierFor(now.Sub(*st.SentAt), cfg.Table)
		}
	}
	return TierGreen
}

// TicketHeadline is the at-a-glance color for the whole ticket: the prep
// tier of the first course currently away. When nothing is away yet, the
// first course's prep thresholds run against the ticket arrival time.
func TicketHeadline(t *Ticket, settings Settings, now time.Time) Tier {
	for _, course := range t.Courses {
		st := t.State(course)
		if st.Status == coursestatus.Away {
			return CourseTier(st, settings.CourseConfig(course), now)
		}
	}
	if len(t.Courses) == 0 {
		return TierGreen
	}
	cfg := settings.CourseConfig(t.Courses[0])
	return TierFor(now.Sub(t.ArrivedAt), cfg.Prep)
}

// Visibility is the void-decay decision for one order line.
type Visibility struct {
	Shown         bool `json:"shown"`
	Strikethrough bool `json:"strikethrough,omitempty"`
	Highlight     bool `json:"highlight,omitempty"`
}

// OrderVisibility implements the three-tier void decay: a brief loud
// warning, a longer quiet reminder, then silence. Monotonic in elapsed time;
// once hidden an order never reappears.
func OrderVisibility(o Order, settings Settings, now time.Time) Visibility {
	if !o.Void {
		return Visibility{Shown: true}
	}
	if o.VoidedAt == nil {
		// Void without a timestamp: keep the quiet reminder forever
		// rather than guessing an age.
		return Visibility{Shown: true, Strikethrough: true}
	}
	elapsed := now.Sub(*o.VoidedAt)
	switch {
	case elapsed <= settings.VoidHighlightWindow():
		return Visibility{Shown: true, Strikethrough: true, Highlight: true}
	case elapsed <= settings.VoidHideWindow():
		return Visibility{Shown: true, Strikethrough: true}
	default:
		return Visibility{}
	}
}

// TableState scans the ticket's courses in reverse and reports the last one
// currently sent, i.e. what is on the table right now. Empty when nothing
// is.
func TableState(t *Ticket) string {
	for i := len(t.Courses) - 1; i >= 0; i-- {
		if t.State(t.Courses[i]).Status == coursestatus.Sent {
			return t.Courses[i]
		}
	}
	return ""
}
