// Package clock provides the monotonic time source that drives the pattern
// state machines.
package clock

import (
	"sync"
	"time"
)

// Clock is a monotonic clock. Now returns the time elapsed since an arbitrary
// fixed origin and never goes backwards.
type Clock interface {
	Now() time.Duration
}

// System is a Clock backed by the runtime's monotonic clock.
type System struct {
	origin time.Time
}

// NewSystem creates a System clock whose origin is the current time.
func NewSystem() System {
	return System{origin: time.Now()}
}

// Now implements Clock.
func (c System) Now() time.Duration {
	return time.Since(c.origin)
}

// Manual is a Clock that only moves when told to. It is safe for concurrent
// use.
type Manual struct {
	mu  sync.Mutex
	now time.Duration
}

// NewManual creates a Manual clock reading start.
func NewManual(start time.Duration) *Manual {
	return &Manual{now: start}
}

// Now implements Clock.
func (c *Manual) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative values are ignored.
func (c *Manual) Advance(d time.Duration) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d > 0 {
		c.now += d
	}
	return c.now
}
