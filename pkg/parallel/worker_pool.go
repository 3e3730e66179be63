// Package parallel runs independent scoring tasks on a bounded pool of
// goroutines.
package parallel

import (
	"context"
	"fmt"
	"math"
	"sync"
)

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
	onPanic   func(recovered any)
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// ErrPoolClosed is returned by ForEach when a task could not be submitted.
var ErrPoolClosed = fmt.Errorf("worker pool closed")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// PoolOption configures a WorkerPool
type PoolOption func(*WorkerPool)

// WithPanicHandler sets the function called with the value of a recovered
// task panic. The worker keeps running afterwards.
func WithPanicHandler(fn func(recovered any)) PoolOption {
	return func(wp *WorkerPool) { wp.onPanic = fn }
}

// NewWorkerPool creates a new worker pool with specified number of workers.
// Returns an error if the worker count exceeds MaxWorkers.
func NewWorkerPool(workers int, opts ...PoolOption) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}

	// Prevent overflow in buffer size calculation
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2), // Buffer for 2x workers
		onPanic:   func(any) {},
	}
	for _, opt := range opts {
		opt(pool)
	}

	pool.start()
	return pool, nil
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// start initializes the worker goroutines
func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// worker processes tasks from the queue
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		// Recover from panics in tasks to prevent worker crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					wp.onPanic(r)
				}
			}()
			task()
		}()
	}
}

// Submit adds a task to the worker pool
// Returns false if the pool is closed, true if task was submitted
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	// Check if pool is closed while holding read lock
	if wp.closed {
		return false
	}

	// Safe to send because we hold the lock and pool is not closed
	wp.taskQueue <- task
	return true
}

// Close shuts down the worker pool
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		// Acquire write lock before closing
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait waits for all submitted tasks to complete
func (wp *WorkerPool) Wait() {
	// Close the queue and wait for workers to finish
	wp.Close()
}

// PanicError reports a task that panicked inside ForEach.
type PanicError struct {
	Index int
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task %d panicked: %v", e.Index, e.Value)
}

// ForEach runs fn(ctx, i) for i in [0, n) on a pool of the given size and
// waits for completion. Tasks must only write state owned by their index.
// Once ctx is done no further tasks are submitted. The error returned is
// the first task error by index, a *PanicError, or ctx.Err().
func ForEach(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) error {
	errs := make([]error, n)

	pool, err := NewWorkerPool(workers)
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		idx := i
		submitted := pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					errs[idx] = &PanicError{Index: idx, Value: r}
				}
			}()
			if ctx.Err() != nil {
				return
			}
			errs[idx] = fn(ctx, idx)
		})
		if !submitted {
			pool.Wait()
			return ErrPoolClosed
		}
	}
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
