package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerCooldown(t *testing.T) {
	cd := NewTimer(800 * time.Millisecond)
	assert.True(t, cd.Ready(0), "fresh timer is ready")
	assert.False(t, cd.Active(0))

	cd.Start(time.Second)
	assert.False(t, cd.Ready(time.Second+799*time.Millisecond))
	assert.True(t, cd.Ready(time.Second+800*time.Millisecond))
	assert.Equal(t, 300*time.Millisecond, cd.Remaining(time.Second+500*time.Millisecond))
}

func TestTimerWindow(t *testing.T) {
	var w Timer
	w.StartWith(2*time.Second, 2*time.Second)

	assert.True(t, w.Active(3*time.Second))
	assert.False(t, w.Done(3*time.Second))
	assert.InDelta(t, 0.5, w.Progress(3*time.Second), 1e-9)

	assert.True(t, w.Done(4*time.Second))
	assert.Equal(t, 1.0, w.Progress(10*time.Second))

	w.Stop()
	assert.False(t, w.Active(3*time.Second))
	assert.True(t, w.Ready(3*time.Second))
	assert.Equal(t, time.Duration(0), w.Elapsed(3*time.Second))
}

func TestDeltaGuard(t *testing.T) {
	base := time.Unix(100, 0)

	_, ok := Delta(base, base, time.Second)
	assert.False(t, ok, "zero delta is skipped")

	_, ok = Delta(base, base.Add(-time.Millisecond), time.Second)
	assert.False(t, ok, "negative delta is skipped")

	d, ok := Delta(base, base.Add(5*time.Second), 250*time.Millisecond)
	assert.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, d)
}

func TestManualClock(t *testing.T) {
	start := time.Unix(0, 0)
	m := NewManual(start)
	m.Advance(16 * time.Millisecond)
	assert.Equal(t, start.Add(16*time.Millisecond), m.Now())
}
