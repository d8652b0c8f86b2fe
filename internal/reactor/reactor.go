// Package reactor implements a small completion-handler reactor: a Context
// queues handlers and runs them on the goroutine that calls Run, and Timers
// schedule handlers against a Context.
//
// Run blocks its caller until the Context has no queued handlers and no
// outstanding asynchronous operations. A caller that must stay responsive
// has to run it on a dedicated goroutine; handlers then execute there.
//
// Each method is safe to call from any goroutine. Closing a Context while
// another goroutine is inside Run makes that Run return ErrClosed; callers
// should still stop the reactor before deleting it.
package reactor

import (
	"errors"
	"sync"
)

var (
	// ErrClosed is returned by operations on a closed Context or on a Timer
	// whose Context has been closed.
	ErrClosed = errors.New("reactor: context closed")

	// ErrAborted is passed to wait handlers whose operation was cancelled.
	ErrAborted = errors.New("reactor: operation aborted")
)

// Handler is a queued completion handler. A non-nil error returned by a
// handler stops the current Run and is returned from it.
type Handler func() error

// Context owns a handler queue and the timers created against it.
type Context struct {
	mu          sync.Mutex
	cond        *sync.Cond
	queue       []Handler
	outstanding int
	stopped     bool
	closed      bool
	timers      map[*Timer]struct{}
}

// New creates an empty Context.
func New() *Context {
	c := &Context{timers: make(map[*Timer]struct{})}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Post queues h for execution by Run.
func (c *Context) Post(h Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.queue = append(c.queue, h)
	c.cond.Broadcast()
	return nil
}

// Run executes queued handlers until there is no more work, Stop is called,
// a handler fails, or the Context is closed. It returns the number of
// handlers executed. A stopped Context is restarted when Run returns.
func (c *Context) Run() (int, error) {
	n := 0
	c.mu.Lock()
	defer func() {
		c.stopped = false
		c.mu.Unlock()
	}()
	for {
		if c.closed {
			return n, ErrClosed
		}
		if c.stopped {
			return n, nil
		}
		if len(c.queue) > 0 {
			h := c.queue[0]
			c.queue[0] = nil
			c.queue = c.queue[1:]
			c.mu.Unlock()
			err := h()
			c.mu.Lock()
			n++
			if err != nil {
				return n, err
			}
			continue
		}
		if c.outstanding == 0 {
			return n, nil
		}
		c.cond.Wait()
	}
}

// Stop makes the current or next Run return as soon as the running handler,
// if any, completes.
func (c *Context) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.cond.Broadcast()
}

// Pending returns the number of queued handlers and outstanding operations.
func (c *Context) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue) + c.outstanding
}

// Close cancels every timer, drops queued handlers without running them and
// marks the Context closed. Close is idempotent.
func (c *Context) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	timers := make([]*Timer, 0, len(c.timers))
	for t := range c.timers {
		timers = append(timers, t)
	}
	c.timers = nil
	c.queue = nil
	c.outstanding = 0
	c.cond.Broadcast()
	c.mu.Unlock()

	for _, t := range timers {
		t.stop()
	}
	return nil
}

// Closed reports whether Close has been called.
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// begin registers an outstanding operation.
func (c *Context) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.outstanding++
	return nil
}

// complete retires an outstanding operation by queueing its handler.
func (c *Context) complete(h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.outstanding--
	c.queue = append(c.queue, h)
	c.cond.Broadcast()
}
