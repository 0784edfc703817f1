// Package dispatch provides the execution context on which request
// outcomes are delivered.
//
// A [Loop] runs every posted function on one goroutine, in the order it
// was posted. Applications that already own a primary loop (a UI thread,
// an event queue) can adapt it with [ExecutorFunc] instead.
package dispatch

import (
	"errors"
	"sync"
)

// ErrClosed is returned by [Loop.Post] once the loop has been closed.
var ErrClosed = errors.New("dispatch loop closed")

// Executor runs fn on its designated execution context.
type Executor interface {
	Post(fn func()) error
}

// ExecutorFunc adapts an ordinary function to an [Executor].
type ExecutorFunc func(fn func()) error

func (f ExecutorFunc) Post(fn func()) error {
	return f(fn)
}

// Loop is a serial executor backed by a single goroutine.
type Loop struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

// NewLoop starts a Loop. Callers must Close it to release the goroutine.
func NewLoop() *Loop {
	l := &Loop{done: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)

	go l.run()

	return l
}

// Post queues fn without blocking the caller.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	l.queue = append(l.queue, fn)
	l.cond.Signal()

	return nil
}

// Close stops accepting work, runs everything already queued, and
// returns once the loop goroutine has exited.
func (l *Loop) Close() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		l.cond.Signal()
	}
	l.mu.Unlock()

	<-l.done
}

func (l *Loop) run() {
	defer close(l.done)

	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.cond.Wait()
		}
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}

		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}
