package indexer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Task is a unit of background work. The context is canceled when the queue
// shuts down.
type Task func(ctx context.Context)

// TaskQueue schedules fire-and-forget background work. Enqueue never blocks
// the caller; the optional delay debounces bursts of mutations to the same
// document.
type TaskQueue interface {
	Enqueue(task Task, delay time.Duration)
	Shutdown()
}

type inProcessQueue struct {
	ctx    context.Context
	cancel context.CancelFunc
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewInProcessQueue creates a queue that runs tasks on goroutines, with at
// most concurrency tasks executing at once.
func NewInProcessQueue(concurrency int64, logger *slog.Logger) TaskQueue {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &inProcessQueue{
		ctx:    ctx,
		cancel: cancel,
		sem:    semaphore.NewWeighted(concurrency),
		logger: logger,
	}
}

func (q *inProcessQueue) Enqueue(task Task, delay time.Duration) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-q.ctx.Done():
				timer.Stop()
				return
			}
		}

		if err := q.sem.Acquire(q.ctx, 1); err != nil {
			return
		}
		defer q.sem.Release(1)

		defer func() {
			if r := recover(); r != nil {
				q.logger.Error("background task panicked", slog.Any("panic", r))
			}
		}()
		task(q.ctx)
	}()
}

// Shutdown cancels pending and running tasks and waits for them to return.
func (q *inProcessQueue) Shutdown() {
	q.cancel()
	q.wg.Wait()
}
