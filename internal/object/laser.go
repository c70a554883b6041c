package object

import (
	"math"
	"time"

	"github.com/tomz197/starfall/internal/physics"
)

// Boss laser tuning.
const (
	LaserCount       = 6
	LaserLength      = 1200.0
	LaserDamage      = 15
	LaserWarmup      = 2 * time.Second
	LaserSpinSpeed   = 0.8 // Radians per second
	LaserHalfWidth   = 4.0 // Added to the target's hitbox radius
	LaserHitCooldown = 500 * time.Millisecond
)

// Laser is one spoke of the boss's rotating laser group. It starts at the
// boss hitbox edge and rotates once warmed up.
type Laser struct {
	Angle     float64 // Current absolute angle
	Dir       float64 // +1 or -1
	Length    float64
	Damage    int
	Created   time.Duration
	OriginX   float64
	OriginY   float64
	Inner     float64 // Distance from the boss center where the beam starts
	destroyed bool
}

// NewLaserGroup creates count lasers evenly spaced around (x, y), all
// rotating in dir.
func NewLaserGroup(count int, x, y, inner, dir float64, now time.Duration) []*Laser {
	lasers := make([]*Laser, count)
	for i := range lasers {
		lasers[i] = &Laser{
			Angle:   2 * math.Pi * float64(i) / float64(count),
			Dir:     dir,
			Length:  LaserLength,
			Damage:  LaserDamage,
			Created: now,
			OriginX: x,
			OriginY: y,
			Inner:   inner,
		}
	}
	return lasers
}

// WarmedUp reports whether the laser damages and rotates.
func (l *Laser) WarmedUp(now time.Duration) bool {
	return now-l.Created >= LaserWarmup
}

// Track moves the laser origin with the boss and rotates it once warmed up.
func (l *Laser) Track(x, y float64, now time.Duration, dt float64) {
	l.OriginX = x
	l.OriginY = y
	if l.WarmedUp(now) {
		l.Angle = physics.NormalizeAngle(l.Angle + l.Dir*LaserSpinSpeed*dt)
	}
}

// Segment returns the damaging segment's endpoints.
func (l *Laser) Segment() (ax, ay, bx, by float64) {
	cos, sin := math.Cos(l.Angle), math.Sin(l.Angle)
	ax = l.OriginX + cos*l.Inner
	ay = l.OriginY + sin*l.Inner
	bx = l.OriginX + cos*(l.Inner+l.Length)
	by = l.OriginY + sin*(l.Inner+l.Length)
	return ax, ay, bx, by
}

// Hits tests a target circle against the laser segment.
func (l *Laser) Hits(x, y, radius float64, now time.Duration) bool {
	if l.destroyed || !l.WarmedUp(now) {
		return false
	}
	ax, ay, bx, by := l.Segment()
	return physics.PointSegmentDistance(x, y, ax, ay, bx, by) <= radius+LaserHalfWidth
}

// MarkDestroyed deactivates the laser.
func (l *Laser) MarkDestroyed() {
	l.destroyed = true
}

// IsDestroyed reports whether the laser was deactivated.
func (l *Laser) IsDestroyed() bool {
	return l.destroyed
}
