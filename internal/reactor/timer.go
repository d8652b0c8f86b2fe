package reactor

import (
	"sync"
	"time"
)

// WaitHandler receives the outcome of an asynchronous wait: nil when the
// timer expired, ErrAborted when the wait was cancelled.
type WaitHandler func(err error) error

// Timer is a steady timer bound to a Context. It must not be used after its
// Context is closed; doing so returns ErrClosed.
type Timer struct {
	ctx *Context

	mu     sync.Mutex
	expiry time.Time
	waits  map[*wait]struct{}
	closed bool
}

type wait struct {
	h     WaitHandler
	timer *time.Timer
}

// NewTimer creates a timer against c. A new timer is already expired.
func (c *Context) NewTimer() (*Timer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	t := &Timer{ctx: c, waits: make(map[*wait]struct{})}
	c.timers[t] = struct{}{}
	return t, nil
}

// Context returns the Context the timer was created against.
func (t *Timer) Context() *Context {
	return t.ctx
}

// ExpiresAfter sets the expiry to d from now. Pending waits are cancelled;
// the number cancelled is returned.
func (t *Timer) ExpiresAfter(d time.Duration) (int, error) {
	if t.ctx.Closed() {
		return 0, ErrClosed
	}
	n := t.Cancel()
	t.mu.Lock()
	t.expiry = time.Now().Add(d)
	t.mu.Unlock()
	return n, nil
}

// Expiry returns the current expiry time.
func (t *Timer) Expiry() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expiry
}

// AsyncWait queues h to run on the Context once the timer expires. The wait
// counts as outstanding work, so Run blocks until it completes.
func (t *Timer) AsyncWait(h WaitHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if err := t.ctx.begin(); err != nil {
		return err
	}
	w := &wait{h: h}
	t.waits[w] = struct{}{}
	w.timer = time.AfterFunc(time.Until(t.expiry), func() { t.finish(w, nil) })
	return nil
}

// Cancel aborts every pending wait; their handlers run with ErrAborted.
// It returns the number of waits cancelled.
func (t *Timer) Cancel() int {
	t.mu.Lock()
	pending := make([]*wait, 0, len(t.waits))
	for w := range t.waits {
		pending = append(pending, w)
	}
	t.mu.Unlock()

	n := 0
	for _, w := range pending {
		w.timer.Stop()
		if t.finish(w, ErrAborted) {
			n++
		}
	}
	return n
}

// Close cancels pending waits and detaches the timer from its Context.
func (t *Timer) Close() {
	t.Cancel()
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	t.ctx.mu.Lock()
	delete(t.ctx.timers, t)
	t.ctx.mu.Unlock()
}

// finish completes w exactly once. It reports whether this call completed it.
func (t *Timer) finish(w *wait, err error) bool {
	t.mu.Lock()
	if _, ok := t.waits[w]; !ok {
		t.mu.Unlock()
		return false
	}
	delete(t.waits, w)
	t.mu.Unlock()

	t.ctx.complete(func() error { return w.h(err) })
	return true
}

// stop is called by Context.Close. Handlers are not queued.
func (t *Timer) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for w := range t.waits {
		w.timer.Stop()
	}
	t.waits = make(map[*wait]struct{})
	t.closed = true
}
