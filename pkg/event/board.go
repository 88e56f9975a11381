package event

import "time"

const (
	BoardTopic        = "kds.board"
	EventBoardChanged = "kds.board.changed"
)

// BoardChangedEvent is published after every applied snapshot so other
// screens and services can refetch without polling. Consumers must not rely
// on it for correctness; the board poll loop is the floor.
type BoardChangedEvent struct {
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
	FetchedAt   time.Time `json:"fetched_at"`
	TicketCount int       `json:"ticket_count"`
}
