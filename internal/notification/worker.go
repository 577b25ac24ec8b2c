package notification

import (
	"context"
	"log"
	"sync"

	"concierge-backend/internal/model"
)

// WorkerPool runs the dispatcher off the request path.
type WorkerPool struct {
	size       int
	jobs       chan model.Request
	dispatcher *Dispatcher
	wg         sync.WaitGroup
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, dispatcher *Dispatcher) *WorkerPool {
	return &WorkerPool{
		size:       size,
		jobs:       make(chan model.Request, size*16),
		dispatcher: dispatcher,
	}
}

// Start launches the worker goroutines. When ctx is done they drain the
// queued requests and exit. Dispatches are not cut short by ctx.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log.Printf("Worker %d started", id)
	dispatchCtx := context.WithoutCancel(ctx)
	for {
		select {
		case req := <-wp.jobs:
			wp.dispatcher.NotifyNewRequest(dispatchCtx, req)
		case <-ctx.Done():
			n := wp.drain(dispatchCtx)
			log.Printf("Worker %d shutting down after draining %d queued notifications", id, n)
			return
		}
	}
}

// drain dispatches whatever is still queued without blocking for more.
func (wp *WorkerPool) drain(ctx context.Context) int {
	n := 0
	for {
		select {
		case req := <-wp.jobs:
			wp.dispatcher.NotifyNewRequest(ctx, req)
			n++
		default:
			return n
		}
	}
}

// NotifyNewRequest queues req. When the queue is full the notification is
// sent on the caller's goroutine, detached from its cancellation.
func (wp *WorkerPool) NotifyNewRequest(ctx context.Context, req model.Request) {
	select {
	case wp.jobs <- req:
	default:
		log.Printf("Notification queue full; sending request %d inline", req.ID)
		wp.dispatcher.NotifyNewRequest(context.WithoutCancel(ctx), req)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan model.Request {
	return wp.jobs
}
