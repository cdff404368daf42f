package game

import (
	"sync"
	"time"
)

// Clock reports elapsed time since an arbitrary fixed origin.
type Clock interface {
	Now() time.Duration
}

// RealClock is a monotonic wall clock starting at construction.
type RealClock struct {
	start time.Time
}

// NewRealClock creates a clock whose origin is now.
func NewRealClock() *RealClock {
	return &RealClock{start: time.Now()}
}

// Now returns the time elapsed since the clock was created.
func (c *RealClock) Now() time.Duration {
	return time.Since(c.start)
}

// ManualClock is a Clock that only moves when told to. Useful in tests.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Duration) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}
