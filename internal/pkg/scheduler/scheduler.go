// Package scheduler owns the client's timers: periodic polls that stop
// deterministically and a latest-wins debouncer.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned to a debounced or sequenced call that a newer
// call replaced.
var ErrSuperseded = errors.New("superseded by a newer request")

// Task is a running periodic job.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Every runs fn every interval until the parent context ends or Stop is
// called. The first run happens one interval after start. Runs never overlap.
func Every(parent context.Context, interval time.Duration, fn func(ctx context.Context)) *Task {
	ctx, cancel := context.WithCancel(parent)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	ticker := time.NewTicker(interval)
	go func() {
		defer close(t.done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
	return t
}

// Stop cancels the task and waits for its goroutine to exit. It is safe to
// call more than once and on a nil Task.
func (t *Task) Stop() {
	if t == nil {
		return
	}
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed once the task goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Slot holds at most one task. Starting a new one stops the old one first.
type Slot struct {
	mu   sync.Mutex
	task *Task
}

// Replace stops the current task, then stores next. next may be nil.
func (s *Slot) Replace(next *Task) {
	s.mu.Lock()
	prev := s.task
	s.task = next
	s.mu.Unlock()
	prev.Stop()
}

// Stop stops and clears the current task.
func (s *Slot) Stop() {
	s.Replace(nil)
}

// Active reports whether the slot holds a task.
func (s *Slot) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task != nil
}
