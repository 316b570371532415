package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEveryRunsUntilStopped(t *testing.T) {
	var runs atomic.Int32
	task := Every(context.Background(), 5*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})

	deadline := time.Now().Add(time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	task.Stop()

	if runs.Load() < 3 {
		t.Fatalf("expected at least 3 runs, got %d", runs.Load())
	}

	select {
	case <-task.Done():
	default:
		t.Fatal("task goroutine still running after Stop")
	}

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	if runs.Load() != after {
		t.Fatalf("task ran after Stop: %d -> %d", after, runs.Load())
	}
}

func TestStopIsIdempotent(t *testing.T) {
	task := Every(context.Background(), time.Hour, func(ctx context.Context) {})
	task.Stop()
	task.Stop()

	var nilTask *Task
	nilTask.Stop()
}

func TestEveryStopsWithParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := Every(ctx, time.Hour, func(ctx context.Context) {})
	cancel()

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not exit after parent cancel")
	}
}

func TestSlotReplaceStopsPrevious(t *testing.T) {
	var slot Slot
	first := Every(context.Background(), time.Hour, func(ctx context.Context) {})
	slot.Replace(first)

	second := Every(context.Background(), time.Hour, func(ctx context.Context) {})
	slot.Replace(second)

	select {
	case <-first.Done():
	default:
		t.Fatal("first task was not stopped by Replace")
	}
	if !slot.Active() {
		t.Fatal("slot should hold the second task")
	}

	slot.Stop()
	select {
	case <-second.Done():
	default:
		t.Fatal("second task was not stopped")
	}
	if slot.Active() {
		t.Fatal("slot should be empty")
	}
}

func TestDebouncerKeepsOnlyLatest(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var mu sync.Mutex
	var ran []string
	results := make([]error, 3)

	var wg sync.WaitGroup
	for i, q := range []string{"c", "co", "com"} {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			results[i] = d.Do(context.Background(), func(ctx context.Context) error {
				mu.Lock()
				ran = append(ran, q)
				mu.Unlock()
				return nil
			})
		}(i, q)
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	if len(ran) != 1 || ran[0] != "com" {
		t.Fatalf("expected only the last input to run, got %v", ran)
	}
	for i := 0; i < 2; i++ {
		if !errors.Is(results[i], ErrSuperseded) {
			t.Errorf("call %d: expected ErrSuperseded, got %v", i, results[i])
		}
	}
	if results[2] != nil {
		t.Errorf("last call: unexpected error %v", results[2])
	}
}

func TestDebouncerHonoursContext(t *testing.T) {
	d := NewDebouncer(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Do(ctx, func(ctx context.Context) error {
		t.Fatal("fn must not run")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSequence(t *testing.T) {
	var s Sequence
	a := s.Next()
	b := s.Next()
	if s.Latest(a) {
		t.Fatal("older ticket reported as latest")
	}
	if !s.Latest(b) {
		t.Fatal("newest ticket not reported as latest")
	}
}
