package concurrent

import (
	"context"
	"sync"
)

type JobFunc[T any, G any] func(ctx context.Context, job T) G

// WorkerPool. fixed number of goroutines applying a JobFunc to queued jobs.
// results come back in completion order, callers that need input order carry an index in the job.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

// worker. once ctx is done the remaining jobs are drained without running them
func (wp *WorkerPool[T, G]) worker(ctx context.Context, jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		if ctx.Err() != nil {
			continue
		}
		wp.results <- jobFunc(ctx, job)
	}
}

func (wp *WorkerPool[T, G]) Start(ctx context.Context, jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, jobFunc)
	}
}

// Wait. blocks until every worker returned, then closes the results channel. call after Close.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

// Close. no more jobs
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

func (wp *WorkerPool[T, G]) NumWorkers() int {
	return wp.numWorkers
}
