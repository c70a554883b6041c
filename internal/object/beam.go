package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/starfall/internal/clock"
	"github.com/tomz197/starfall/internal/physics"
)

// Beam tuning.
const (
	BeamChargeTime   = 2000 * time.Millisecond
	BeamLockTime     = 700 * time.Millisecond
	BeamCooldownTime = 4000 * time.Millisecond
	BeamMinDamage    = 20
	BeamMaxDamage    = 30
	BeamHalfWidth    = 5.0 // Added to the target's hitbox radius
	BeamLength       = 2000.0
)

// BeamState is a phase of the charge-lock-fire cycle.
type BeamState int

const (
	BeamCharging BeamState = iota
	BeamLocked
	BeamFiring
	BeamCooldown
	BeamFinished
)

func (s BeamState) String() string {
	switch s {
	case BeamCharging:
		return "charging"
	case BeamLocked:
		return "locked"
	case BeamFiring:
		return "firing"
	case BeamCooldown:
		return "cooldown"
	default:
		return "finished"
	}
}

// Beam is the charged laser of a TYPE1 enemy. Its origin follows the enemy,
// its direction is frozen when charging starts and it strikes at most once.
type Beam struct {
	OriginX, OriginY float64
	Angle            float64
	Damage           int
	State            BeamState
	Progress         float64 // Charge ramp 0..1

	phase clock.Timer
	spent bool
}

// NewBeam starts charging a beam from (ox, oy) toward (tx, ty).
func NewBeam(ox, oy, tx, ty float64, rng *rand.Rand, now time.Duration) *Beam {
	b := &Beam{
		OriginX: ox,
		OriginY: oy,
		Angle:   math.Atan2(ty-oy, tx-ox),
		Damage:  randRange(rng, BeamMinDamage, BeamMaxDamage),
		State:   BeamCharging,
	}
	b.phase.StartWith(now, BeamChargeTime)
	return b
}

// Update moves the origin and advances the state machine. FIRING lasts
// exactly one tick: the tick that enters it is the tick that strikes.
func (b *Beam) Update(ox, oy float64, now time.Duration) {
	b.OriginX = ox
	b.OriginY = oy

	switch b.State {
	case BeamCharging:
		b.Progress = b.phase.Progress(now)
		if b.phase.Done(now) {
			b.Progress = 1
			b.enter(BeamLocked, BeamLockTime, now)
		}
	case BeamLocked:
		if b.phase.Done(now) {
			b.enter(BeamFiring, 0, now)
		}
	case BeamFiring:
		b.spent = true
		b.enter(BeamCooldown, BeamCooldownTime, now)
	case BeamCooldown:
		if b.phase.Done(now) {
			b.State = BeamFinished
			b.phase.Stop()
		}
	}
}

func (b *Beam) enter(s BeamState, d time.Duration, now time.Duration) {
	b.State = s
	b.phase.StartWith(now, d)
}

// Armed reports whether the beam can strike this tick.
func (b *Beam) Armed() bool {
	return b.State == BeamFiring && !b.spent
}

// Hits tests a target circle against the firing ray.
func (b *Beam) Hits(x, y, radius float64) bool {
	if !b.Armed() {
		return false
	}
	return physics.RayHit(x, y, b.OriginX, b.OriginY, b.Angle, radius+BeamHalfWidth)
}

// Spend consumes the strike; later Hits calls return false.
func (b *Beam) Spend() {
	b.spent = true
}

// Visible reports whether a renderer should draw the beam.
func (b *Beam) Visible() bool {
	return b.State == BeamCharging || b.State == BeamLocked || b.State == BeamFiring
}

// Finished reports whether the beam completed its cooldown.
func (b *Beam) Finished() bool {
	return b.State == BeamFinished
}

// End returns the far end of the beam for drawing.
func (b *Beam) End() (float64, float64) {
	return b.OriginX + math.Cos(b.Angle)*BeamLength, b.OriginY + math.Sin(b.Angle)*BeamLength
}
