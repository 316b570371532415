package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Debouncer delays a call until no newer call arrived within the window.
type Debouncer struct {
	window time.Duration

	mu      sync.Mutex
	pending chan struct{}
}

// NewDebouncer creates a Debouncer with the given quiet window
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Do waits out the window and then runs fn. A call that is replaced while
// waiting returns ErrSuperseded without running fn.
func (d *Debouncer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	mine := make(chan struct{})

	d.mu.Lock()
	if d.pending != nil {
		close(d.pending)
	}
	d.pending = mine
	d.mu.Unlock()

	timer := time.NewTimer(d.window)
	defer timer.Stop()

	select {
	case <-mine:
		return ErrSuperseded
	case <-ctx.Done():
		d.release(mine)
		return ctx.Err()
	case <-timer.C:
	}

	if !d.release(mine) {
		return ErrSuperseded
	}
	return fn(ctx)
}

// release clears the pending slot if it still belongs to mine.
func (d *Debouncer) release(mine chan struct{}) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != mine {
		return false
	}
	d.pending = nil
	return true
}

// Sequence hands out increasing tickets and tells whether a ticket is still
// the newest one issued.
type Sequence struct {
	n atomic.Uint64
}

// Next issues a new ticket.
func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}

// Latest reports whether ticket is the most recent one.
func (s *Sequence) Latest(ticket uint64) bool {
	return s.n.Load() == ticket
}
