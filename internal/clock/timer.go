package clock

import "time"

// Timer measures one period on the simulation timeline. Instants are the
// simulation's elapsed time, so a paused simulation freezes every Timer.
//
// The same type serves both as a cooldown (Ready/Start) and as a bounded
// effect window (Active/Done).
type Timer struct {
	Period  time.Duration
	started time.Duration
	running bool
}

// NewTimer returns a stopped timer with the given period.
func NewTimer(period time.Duration) Timer {
	return Timer{Period: period}
}

// Start (re)starts the timer at now.
func (t *Timer) Start(now time.Duration) {
	t.started = now
	t.running = true
}

// StartWith replaces the period and starts the timer at now.
func (t *Timer) StartWith(now, period time.Duration) {
	t.Period = period
	t.Start(now)
}

// Stop disarms the timer. A stopped timer is Ready and never Active.
func (t *Timer) Stop() {
	t.running = false
}

// Running reports whether the timer has been started and not stopped.
func (t Timer) Running() bool {
	return t.running
}

// StartedAt returns the instant of the last Start.
func (t Timer) StartedAt() time.Duration {
	return t.started
}

// Elapsed returns the time since Start, or 0 when stopped.
func (t Timer) Elapsed(now time.Duration) time.Duration {
	if !t.running || now < t.started {
		return 0
	}
	return now - t.started
}

// Active reports whether the timer is running and its period has not elapsed.
func (t Timer) Active(now time.Duration) bool {
	return t.running && t.Elapsed(now) < t.Period
}

// Done reports whether the timer is running and its period has elapsed.
func (t Timer) Done(now time.Duration) bool {
	return t.running && t.Elapsed(now) >= t.Period
}

// Ready reports whether a cooldown may be triggered again.
func (t Timer) Ready(now time.Duration) bool {
	return !t.running || t.Elapsed(now) >= t.Period
}

// Remaining returns the time left in the period, never negative.
func (t Timer) Remaining(now time.Duration) time.Duration {
	if !t.running {
		return 0
	}
	left := t.Period - t.Elapsed(now)
	if left < 0 {
		return 0
	}
	return left
}

// Progress returns the elapsed fraction of the period in [0, 1].
func (t Timer) Progress(now time.Duration) float64 {
	if !t.running {
		return 0
	}
	if t.Period <= 0 {
		return 1
	}
	p := float64(t.Elapsed(now)) / float64(t.Period)
	if p > 1 {
		return 1
	}
	return p
}
