// Package worker runs storage jobs off the caller's goroutine. A Worker owns a
// single goroutine, so jobs never overlap and writes are serialised.
package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is delivered for jobs submitted after Stop.
var ErrStopped = errors.New("worker stopped")

// Result carries the outcome of one job.
type Result[T any] struct {
	Value T
	Err   error
}

// Worker executes submitted jobs one at a time in submission order.
type Worker struct {
	mu      sync.Mutex
	jobs    chan func()
	stopped bool
	done    chan struct{}
}

// New starts a worker with a queue of the given capacity.
func New(queue int) *Worker {
	if queue < 0 {
		queue = 0
	}
	w := &Worker{
		jobs: make(chan func(), queue),
		done: make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *Worker) loop() {
	defer close(w.done)
	for job := range w.jobs {
		job()
	}
}

// Stop rejects further submissions and waits for queued jobs to finish.
// Calling Stop more than once is safe.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.jobs)
	}
	w.mu.Unlock()
	<-w.done
}

// Submit queues fn and returns a channel that receives exactly one Result.
// If ctx is done before fn starts, including while waiting for room in the
// queue, the result carries ctx.Err() and fn is not run.
func Submit[T any](ctx context.Context, w *Worker, fn func(context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)

	job := func() {
		if err := ctx.Err(); err != nil {
			out <- Result[T]{Err: err}
			return
		}
		v, err := fn(ctx)
		out <- Result[T]{Value: v, Err: err}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		out <- Result[T]{Err: ErrStopped}
		return out
	}
	// Holding mu while blocked on a full queue keeps Stop from closing the
	// channel under us; the loop goroutine never takes mu.
	select {
	case w.jobs <- job:
	case <-ctx.Done():
		out <- Result[T]{Err: ctx.Err()}
	}
	return out
}
