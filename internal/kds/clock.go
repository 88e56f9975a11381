package kds

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Clock is the single ticking source of "now" shared by every presentation
// computation. It caches the wall clock once per second so all tiers on one
// rendered board agree on the same instant. Elapsed values are always
// now minus a stored server timestamp, never an incremented counter, so a
// delayed or throttled tick snaps to the correct value instead of drifting.
type Clock struct {
	now      atomic.Pointer[time.Time]
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewClock() *Clock {
	c := &Clock{done: make(chan struct{})}
	t := time.Now()
	c.now.Store(&t)
	return c
}

// Start begins the 1 Hz tick. Non-blocking; the ticker goroutine runs until
// Stop.
func (c *Clock) Start(ctx context.Context) error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-c.done:
				return
			case tick := <-ticker.C:
				c.now.Store(&tick)
			}
		}
	}()
	return nil
}

// Stop tears the ticker down. Idempotent; no tick lands after it returns.
func (c *Clock) Stop(ctx context.Context) error {
	c.stopOnce.Do(func() { close(c.done) })
	c.wg.Wait()
	return nil
}

// Now returns the cached tick instant.
func (c *Clock) Now() time.Time {
	return *c.now.Load()
}
