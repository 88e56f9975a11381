package kds

import "context"

// POSClient is the backend collaborator that owns ticket state. The engine
// only reads snapshots and requests transitions; it never mutates state
// locally.
type POSClient interface {
	Snapshot(ctx context.Context) ([]Ticket, error)
	Settings(ctx context.Context) (Settings, error)
	CallAway(ctx context.Context, id TicketID, course string) error
	MarkSent(ctx context.Context, id TicketID, course string) error
	Bump(ctx context.Context, id TicketID) error
}

// CommandError is a POS rejection of a transition request. The reason is
// suitable for direct display next to the affected ticket.
type CommandError struct {
	Reason string
}

func (e *CommandError) Error() string {
	return e.Reason
}
