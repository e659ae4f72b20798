package api

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned if a Submit is attempted after Close.
var ErrPoolClosed = errors.New("worker pool closed")

// Task is a unit of work submitted to the WorkerPool.
type Task func(ctx context.Context) error

// WorkerPool runs ingestion tasks on a fixed number of goroutines so that
// uploads cannot start unbounded generation work.
type WorkerPool struct {
	tasks   chan Task
	done    chan struct{}
	wg      sync.WaitGroup
	workers int
	onError func(error)

	// mu guards closing tasks; Submit holds the read side while sending.
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewWorkerPool creates a pool with the given number of workers and queue
// capacity. onError, when set, receives task failures.
func NewWorkerPool(workers, queue int, onError func(error)) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 4
	}
	return &WorkerPool{
		tasks:   make(chan Task, queue),
		done:    make(chan struct{}),
		workers: workers,
		onError: onError,
	}
}

// Start launches the workers. They exit when ctx is done or Close is called.
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case task, ok := <-p.tasks:
					if !ok {
						return
					}
					if err := task(ctx); err != nil && p.onError != nil {
						p.onError(err)
					}
				}
			}
		}()
	}
}

// Submit enqueues a task, blocking while the queue is full until ctx is done
// or the pool is closed.
func (p *WorkerPool) Submit(ctx context.Context, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	case <-p.done:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks, releases blocked submitters and waits for the
// workers to exit.
func (p *WorkerPool) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
	})
	p.wg.Wait()
}
