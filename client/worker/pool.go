// Package worker runs request I/O on background goroutines with an
// optional concurrency limit.
package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrShutdown is returned by [Pool.Go] after [Pool.Shutdown].
var ErrShutdown = errors.New("worker pool shut down")

// WorkFunc is the signature for pooled work.
type WorkFunc func(ctx context.Context)

// Pool manages concurrently running work.
type Pool struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	sem      chan struct{}
	shutdown bool
}

// NewPool creates a Pool that runs at most maxConcurrent functions at once.
// If maxConcurrent <= 0, concurrency is unlimited.
func NewPool(maxConcurrent int) *Pool {
	p := &Pool{}
	if maxConcurrent > 0 {
		p.sem = make(chan struct{}, maxConcurrent)
	}
	return p
}

// Go launches fn in a new goroutine managed by the pool and returns
// immediately. Once accepted, fn always runs, even if ctx ends while it
// waits for a slot; fn is expected to observe ctx itself.
func (p *Pool) Go(ctx context.Context, fn WorkFunc) error {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return ErrShutdown
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()

		if p.sem != nil {
			p.sem <- struct{}{}
			defer func() {
				<-p.sem
			}()
		}

		fn(ctx)
	}()

	return nil
}

// Shutdown prevents new work from being accepted. Work already accepted
// still runs to completion.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.shutdown = true
}

// Wait blocks until all accepted work completes.
func (p *Pool) Wait() {
	p.wg.Wait()
}
