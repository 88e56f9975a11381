package kds

import (
	"fmt"

	"github.com/appetiteclub/kds/pkg/enums/coursestatus"
)

// Course transition preconditions. All of these are pure reads over the
// current snapshot; the engine never applies a transition locally. Command
// handlers validate here, forward the request to the POS, and trust the next
// snapshot for the resulting state.

// ErrUnknownCourse is returned when a command names a course the ticket does
// not carry.
var ErrUnknownCourse = fmt.Errorf("course not on ticket")

// CanCallAway reports whether the course may be called away: it must be the
// ticket's first course, or the immediately preceding course must already be
// sent or cleared. The returned error carries a reason suitable for display.
func CanCallAway(t *Ticket, course string) error {
	idx := t.CourseIndex(course)
	if idx < 0 {
		return ErrUnknownCourse
	}
	if idx == 0 {
		return nil
	}
	prev := t.Courses[idx-1]
	if !t.State(prev).Status.Served() {
		return fmt.Errorf("%s cannot be called away before %s is sent", course, prev)
	}
	return nil
}

// CanMarkSent reports whether the course may be marked sent: it must be
// away. A course already sent or cleared is not an error here; callers treat
// that as an idempotent success and skip the POS round trip.
func CanMarkSent(t *Ticket, course string) error {
	idx := t.CourseIndex(course)
	if idx < 0 {
		return ErrUnknownCourse
	}
	st := t.State(course).Status
	if st == coursestatus.Pending {
		return fmt.Errorf("%s has not been called away", course)
	}
	return nil
}

// CanBump reports whether the ticket may be completed: every course it
// carries must be sent or cleared.
func CanBump(t *Ticket) error {
	for _, course := range t.Courses {
		if !t.State(course).Status.Served() {
			return fmt.Errorf("%s has not been sent", course)
		}
	}
	return nil
}

// DisplaySuppressed reports whether a sent course should be hidden because a
// later course has moved on. This is a presentation rule only: it is derived
// from neighboring course states and never written back into the status the
// POS reported. "The kitchen cleared it" and "the board stopped showing it"
// are deliberately kept apart.
func DisplaySuppressed(t *Ticket, course string) bool {
	idx := t.CourseIndex(course)
	if idx < 0 {
		return false
	}
	st := t.State(course).Status
	if st == coursestatus.Cleared {
		return true
	}
	if st != coursestatus.Sent {
		return false
	}
	for _, later := range t.Courses[idx+1:] {
		if t.State(later).Status.AtLeast(coursestatus.Away) {
			return true
		}
	}
	return false
}
