// Package testutil holds shared test doubles for time and identity so
// store-backed tests can assert exact rows.
package testutil

import (
	"sync"
	"time"
)

// FixedClock provides a thread-safe, manually advanced wall clock for tests.
//
// Production code takes a `func() time.Time`; tests pass FixedClock.Now so
// fetched_at and created_at columns are exact, assertable values.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock creates a clock pinned at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

// Now returns the pinned time. Method value `clock.Now` satisfies the
// `func() time.Time` dependency.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the pinned time forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// Set pins the clock to an exact time.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}
