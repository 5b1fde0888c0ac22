package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestEveryKeepsRunningAfterFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan struct{})

	s := New(nil)
	s.Every(ctx, "flaky", time.Millisecond, func(context.Context) error {
		if n := runs.Add(1); n == 3 {
			close(done)
		}
		return errors.New("cycle failed")
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task stopped running after a failed cycle")
	}

	cancel()
	s.Wait()
}

func TestEveryStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var runs atomic.Int32
	s := New(nil)
	s.Every(ctx, "steady", time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	for runs.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	cancel()
	s.Wait()

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	if runs.Load() != after {
		t.Fatal("task kept running after cancellation")
	}
}

func TestDynamicUsesTaskDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delays := make(chan time.Time, 3)
	s := New(nil)
	s.Dynamic(ctx, "dynamic", func(context.Context) (time.Duration, error) {
		select {
		case delays <- time.Now():
		default:
		}
		return 5 * time.Millisecond, nil
	})

	first := <-delays
	second := <-delays
	if gap := second.Sub(first); gap < 5*time.Millisecond {
		t.Fatalf("expected at least the requested delay between runs, got %v", gap)
	}

	cancel()
	s.Wait()
}
