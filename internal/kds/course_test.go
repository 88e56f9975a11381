package kds

import (
	"testing"
	"time"

	"github.com/appetiteclub/kds/pkg/enums/coursestatus"
)

func TestCanCallAway(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		setup   func(*Ticket)
		course  string
		wantErr bool
	}{
		{
			name:    "firstCourseAlwaysPermitted",
			setup:   func(*Ticket) {},
			course:  "Starters",
			wantErr: false,
		},
		{
			name:    "secondCourseBlockedWhilePreviousPending",
			setup:   func(*Ticket) {},
			course:  "Mains",
			wantErr: true,
		},
		{
			name: "secondCourseBlockedWhilePreviousAway",
			setup: func(tk *Ticket) {
				setState(tk, "Starters", coursestatus.Away, now)
			},
			course:  "Mains",
			wantErr: true,
		},
		{
			name: "secondCoursePermittedOncePreviousSent",
			setup: func(tk *Ticket) {
				setState(tk, "Starters", coursestatus.Sent, now)
			},
			course:  "Mains",
			wantErr: false,
		},
		{
			name: "secondCoursePermittedOncePreviousCleared",
			setup: func(tk *Ticket) {
				setState(tk, "Starters", coursestatus.Cleared, now)
			},
			course:  "Mains",
			wantErr: false,
		},
		{
			name:    "unknownCourseRejected",
			setup:   func(*Ticket) {},
			course:  "Cheese",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := testTicket()
			tt.setup(ticket)
			err := CanCallAway(ticket, tt.course)
			if (err != nil) != tt.wantErr {
				t.Errorf("CanCallAway(%q) error = %v, wantErr %v", tt.course, err, tt.wantErr)
			}
		})
	}
}

func TestCanMarkSent(t *testing.T) {
	now := time.Now().UTC()

	ticket := testTicket()
	if err := CanMarkSent(ticket, "Starters"); err == nil {
		t.Error("CanMarkSent() on pending course should fail")
	}

	setState(ticket, "Starters", coursestatus.Away, now)
	if err := CanMarkSent(ticket, "Starters"); err != nil {
		t.Errorf("CanMarkSent() on away course failed: %v", err)
	}

	// Already sent reads as satisfied, not as an error; the handler short
	// circuits before the POS call.
	setState(ticket, "Starters", coursestatus.Sent, now)
	if err := CanMarkSent(ticket, "Starters"); err != nil {
		t.Errorf("CanMarkSent() on sent course failed: %v", err)
	}

	if err := CanMarkSent(ticket, "Cheese"); err == nil {
		t.Error("CanMarkSent() on unknown course should fail")
	}
}

func TestCanBump(t *testing.T) {
	now := time.Now().UTC()

	ticket := testTicket()
	if err := CanBump(ticket); err == nil {
		t.Error("CanBump() with pending courses should fail")
	}

	setState(ticket, "Starters", coursestatus.Sent, now)
	if err := CanBump(ticket); err == nil {
		t.Error("CanBump() with one unsent course should fail")
	}

	setState(ticket, "Mains", coursestatus.Away, now)
	if err := CanBump(ticket); err == nil {
		t.Error("CanBump() with an away course should fail")
	}

	setState(ticket, "Mains", coursestatus.Sent, now)
	if err := CanBump(ticket); err != nil {
		t.Errorf("CanBump() with all courses sent failed: %v", err)
	}

	setState(ticket, "Starters", coursestatus.Cleared, now)
	if err := CanBump(ticket); err != nil {
		t.Errorf("CanBump() with cleared course failed: %v", err)
	}
}

func TestDisplaySuppressed(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name   string
		setup  func(*Ticket)
		course string
		want   bool
	}{
		{
			name:   "pendingNotSuppressed",
			setup:  func(*Ticket) {},
			course: "Starters",
			want:   false,
		},
		{
			name: "sentAloneNotSuppressed",
			setup: func(tk *Ticket) {
				setState(tk, "Starters", coursestatus.Sent, now)
			},
			course: "Starters",
			want:   false,
		},
		{
			name: "sentSuppressedOnceNextAway",
			setup: func(tk *Ticket) {
				setState(tk, "Starters", coursestatus.Sent, now)
				setState(tk, "Mains", coursestatus.Away, now)
			},
			course: "Starters",
			want:   true,
		},
		{
			name: "clearedAlwaysSuppressed",
			setup: func(tk *Ticket) {
				setState(tk, "Starters", coursestatus.Cleared, now)
			},
			course: "Starters",
			want:   true,
		},
		{
			name: "awayNeverSuppressed",
			setup: func(tk *Ticket) {
				setState(tk, "Starters", coursestatus.Sent, now)
				setState(tk, "Mains", coursestatus.Away, now)
			},
			course: "Mains",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := testTicket()
			tt.setup(ticket)
			if got := DisplaySuppressed(ticket, tt.course); got != tt.want {
				t.Errorf("DisplaySuppressed(%q) = %v, want %v", tt.course, got, tt.want)
			}
		})
	}
}

func TestDisplaySuppressedLeavesStatusAlone(t *testing.T) {
	now := time.Now().UTC()
	ticket := testTicket()
	setState(ticket, "Starters", coursestatus.Sent, now)
	setState(ticket, "Mains", coursestatus.Away, now)

	DisplaySuppressed(ticket, "Starters")

	// The derived display rule never writes back into the POS-reported
	// state.
	if ticket.State("Starters").Status != coursestatus.Sent {
		t.Errorf("Starters status = %v, want sent", ticket.State("Starters").Status)
	}
}
