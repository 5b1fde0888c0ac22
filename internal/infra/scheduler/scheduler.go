// Package scheduler runs the exporter's background refresh loops. Each task
// owns its own timer; a failed cycle is logged and retried on the next tick,
// never stopping the loop or the process.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task runs one refresh cycle.
type Task func(ctx context.Context) error

// DynamicTask runs one cycle and reports the delay before the next one.
type DynamicTask func(ctx context.Context) (time.Duration, error)

// Scheduler starts background loops and waits for them on shutdown.
type Scheduler struct {
	logger *zap.Logger
	wg     sync.WaitGroup
}

// New constructs a scheduler.
func New(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{logger: log}
}

// Every runs the task immediately and then at the fixed interval until the
// context is cancelled.
func (s *Scheduler) Every(ctx context.Context, name string, interval time.Duration, task Task) {
	s.run(ctx, name, func(ctx context.Context) (time.Duration, error) {
		return interval, task(ctx)
	})
}

// Dynamic runs the task immediately and lets each cycle pick the delay before
// the next one. Used by the token loop, whose cadence follows the granted
// token lifetime.
func (s *Scheduler) Dynamic(ctx context.Context, name string, task DynamicTask) {
	s.run(ctx, name, task)
}

func (s *Scheduler) run(ctx context.Context, name string, task DynamicTask) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			start := time.Now()
			delay, err := task(ctx)
			elapsed := time.Since(start)

			if ctx.Err() != nil {
				return
			}

			if err != nil {
				s.logger.Error("task failed",
					zap.String("task", name),
					zap.Duration("took", elapsed),
					zap.Duration("next_run_in", delay),
					zap.Error(err),
				)
			} else {
				s.logger.Info("task completed",
					zap.String("task", name),
					zap.Duration("took", elapsed),
					zap.Duration("next_run_in", delay),
				)
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}
	}()
}

// Wait blocks until every started loop has observed cancellation and exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
