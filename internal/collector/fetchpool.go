package collector

import (
	"context"
	"sync"
)

// fetchJob is one outbound fetch waiting for a worker slot
type fetchJob struct {
	ctx  context.Context
	run  func(ctx context.Context) (RawPayload, error)
	done chan fetchResult
}

type fetchResult struct {
	payload RawPayload
	err     error
}

// FetchPool bounds the number of concurrent outbound fetches so a burst of
// normalize calls cannot open unbounded connections to third-party sites.
// Calls beyond the bound queue instead of spawning.
type FetchPool struct {
	jobs chan fetchJob
	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// FetchPoolError provides a typed error for pool operations
type FetchPoolError struct{ msg string }

func (e *FetchPoolError) Error() string { return e.msg }

// ErrPoolClosed is returned when a fetch is attempted after Close
var ErrPoolClosed = &FetchPoolError{"fetch pool closed"}

// NewFetchPool starts workers goroutines servicing the queue. A queue
// capacity <= 0 defaults to twice the worker count.
func NewFetchPool(workers, queue int) *FetchPool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	p := &FetchPool{
		jobs: make(chan fetchJob, queue),
		quit: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *FetchPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case job := <-p.jobs:
			// Skip work the caller already abandoned while queued
			if job.ctx.Err() != nil {
				job.done <- fetchResult{err: job.ctx.Err()}
				continue
			}
			payload, err := job.run(job.ctx)
			job.done <- fetchResult{payload: payload, err: err}
		}
	}
}

// Do runs fn on a pool worker and waits for its result. Both the queue wait
// and the result wait give up as soon as ctx is cancelled, even when the
// queue is full, so an abandoned fetch never wedges its caller.
func (p *FetchPool) Do(ctx context.Context, fn func(ctx context.Context) (RawPayload, error)) (RawPayload, error) {
	job := fetchJob{ctx: ctx, run: fn, done: make(chan fetchResult, 1)}

	select {
	case p.jobs <- job:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.quit:
		return nil, ErrPoolClosed
	}

	select {
	case res := <-job.done:
		return res.payload, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.quit:
		return nil, ErrPoolClosed
	}
}

// Close stops the pool and waits for in-flight fetches to finish. Jobs
// still queued are abandoned; their callers get ErrPoolClosed.
func (p *FetchPool) Close() {
	p.once.Do(func() { close(p.quit) })
	p.wg.Wait()
}
