package kds

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/kds/pkg/event"
)

// Board holds the current ticket snapshot. Writes are wholesale swaps by the
// Syncer; readers always see either the prior complete snapshot or the new
// one, never a mix. Nothing merges into it.
type Board struct {
	mu        sync.RWMutex
	tickets   []Ticket
	fetchedAt time.Time
	settings  Settings
}

func NewBoard() *Board {
	return &Board{settings: DefaultSettings()}
}

// Replace swaps in a new snapshot. Out-of-order refresh triggers are
// harmless: the last snapshot to apply wins.
func (b *Board) Replace(tickets []Ticket, fetchedAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tickets = tickets
	b.fetchedAt = fetchedAt
}

// Snapshot returns the current ticket list and when it was fetched. Callers
// treat the slice as read-only; it is never mutated in place.
func (b *Board) Snapshot() ([]Ticket, time.Time) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tickets, b.fetchedAt
}

// Ticket returns a copy of the identified ticket from the current snapshot.
func (b *Board) Ticket(id TicketID) (Ticket, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for i := range b.tickets {
		if b.tickets[i].ID == id {
			return b.tickets[i], true
		}
	}
	return Ticket{}, false
}

// SetSettings installs the session settings, normalized.
func (b *Board) SetSettings(s Settings) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settings = s.Normalized()
}

// Settings returns the session settings value.
func (b *Board) Settings() Settings {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.settings
}

// Syncer keeps the Board current. Two refresh triggers run independently:
// the poll loop on the settings interval, and Kick, fired by the POS change
// subscriber and by successful commands. Push is a latency shortcut only;
// correctness rests on the polling floor.
type Syncer struct {
	board     *Board
	client    POSClient
	publisher events.Publisher
	logger    apt.Logger

	kick     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewSyncer(board *Board, client POSClient, publisher events.Publisher, logger apt.Logger) *Syncer {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Syncer{
		board:     board,
		client:    client,
		publisher: publisher,
		logger:    logger,
		kick:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Start fetches settings and the initial snapshot, then runs the poll loop.
// Non-blocking. A failed initial fetch is not fatal; the loop retries on the
// next tick.
func (s *Syncer) Start(ctx context.Context) error {
	settings, err := s.client.Settings(ctx)
	if err != nil {
		s.logger.Info("settings fetch failed, using defaults", "error", err)
	} else {
		s.board.SetSettings(settings)
	}

	if err := s.Refresh(ctx); err != nil {
		s.logger.Info("initial snapshot fetch failed, board starts empty", "error", err)
	}

	interval := s.board.Settings().PollInterval()
	s.wg.Add(1)
	go s.run(ctx, interval)

	s.logger.Info("syncer started", "poll_interval", interval.String())
	return nil
}

func (s *Syncer) run(ctx context.Context, interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-s.kick:
		}
		if err := s.Refresh(ctx); err != nil {
			// Keep the last-known-good snapshot; a stale board is
			// more useful to the kitchen than a blank one.
			s.logger.Info("snapshot refresh failed", "error", err)
		}
	}
}

// Kick requests an out-of-cycle refresh. Non-blocking; bursts coalesce into
// a single refetch.
func (s *Syncer) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Refresh fetches the snapshot and swaps it in. Idempotent full replacement:
// a lost race between two refreshes is a harmless no-op.
func (s *Syncer) Refresh(ctx context.Context) error {
	tickets, err := s.client.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}
	for i := range tickets {
		tickets[i].NormalizeStates()
	}
	fetchedAt := time.Now().UTC()
	s.board.Replace(tickets, fetchedAt)
	s.publishBoardChanged(ctx, len(tickets), fetchedAt)
	return nil
}

// Stop tears the poll loop down. Idempotent; Kick after Stop is a no-op.
func (s *Syncer) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.done) })
	s.wg.Wait()
	return nil
}

func (s *Syncer) publishBoardChanged(ctx context.Context, ticketCount int, fetchedAt time.Time) {
	if s.publisher == nil {
		return
	}
	payload := event.BoardChangedEvent{
		EventType:   event.EventBoardChanged,
		OccurredAt:  time.Now().UTC(),
		FetchedAt:   fetchedAt,
		TicketCount: ticketCount,
	}
	bytes, _ := json.Marshal(payload)
	if err := s.publisher.Publish(ctx, event.BoardTopic, bytes); err != nil {
		s.logger.Errorf("Failed to publish board.changed event: %v", err)
	}
}
