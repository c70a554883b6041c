// Package clock provides the time sources used by the simulation and a small
// timer value type shared by every cooldown-gated behavior.
package clock

import (
	"sync"
	"time"
)

// Clock is a monotonic time source. The session runner derives per-tick
// deltas from it, so tests can drive the simulation with a Manual clock.
type Clock interface {
	Now() time.Time
}

// Real is a Clock backed by the wall clock.
type Real struct{}

// Now returns the current wall-clock time.
func (Real) Now() time.Time { return time.Now() }

// Manual is a Clock that only moves when Advance is called.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a manual clock starting at the given instant.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the manual clock's current instant.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Delta computes the elapsed time between two samples and guards against
// non-positive and oversized steps. ok is false when the step must be skipped.
func Delta(prev, now time.Time, max time.Duration) (d time.Duration, ok bool) {
	d = now.Sub(prev)
	if d <= 0 {
		return 0, false
	}
	if max > 0 && d > max {
		d = max
	}
	return d, true
}
