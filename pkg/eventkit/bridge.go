package eventkit

import (
	"sync"
	"time"
)

// resultCell adapts a one-shot asynchronous completion into a blocking call:
// a single-assignment slot guarded by a mutex and condition variable. The
// initiating goroutine installs a completion handler that writes the result
// with put -- from whatever goroutine the store delivers it on -- and blocks
// in wait until the slot is populated.
//
// wait has no timeout: if the store never signals completion, it blocks
// forever. That is deliberate; callers that need a bound use waitUntil and
// report ErrOperationTimedOut themselves, and the late completion is then
// absorbed by the cell as a no-op.
type resultCell[T any] struct {
	mu   sync.Mutex
	cond *sync.Cond
	set  bool
	val  T
}

func newResultCell[T any]() *resultCell[T] {
	c := &resultCell[T]{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// put stores the result and wakes the waiter. The first write wins;
// subsequent calls do nothing.
func (c *resultCell[T]) put(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.set {
		return
	}
	c.val = v
	c.set = true
	c.cond.Broadcast()
}

// wait blocks until the slot is populated.
func (c *resultCell[T]) wait() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	for !c.set {
		c.cond.Wait()
	}
	return c.val
}

// waitUntil blocks until the slot is populated or the deadline passes. The
// second return is false on expiry.
func (c *resultCell[T]) waitUntil(deadline time.Time) (T, bool) {
	// sync.Cond has no timed wait; a timer wakes the loop at the deadline.
	timer := time.AfterFunc(time.Until(deadline), func() {
		c.mu.Lock()
		c.cond.Broadcast()
		c.mu.Unlock()
	})
	defer timer.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	for !c.set {
		if !time.Now().Before(deadline) {
			var zero T
			return zero, false
		}
		c.cond.Wait()
	}
	return c.val, true
}
