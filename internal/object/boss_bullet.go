package object

import (
	"math"
	"time"
)

// Boss bullet tuning. Homing constants are per 60 Hz reference frame.
const (
	BarrageBulletSpeed    = 300.0
	BarrageBulletDamage   = 8
	BarrageBulletRadius   = 6.0
	HomingSpeedPerFrame   = 7.0
	HomingSpeed           = HomingSpeedPerFrame * 60
	HomingTurnRate        = 0.03
	HomingBulletDamage    = 10
	HomingBulletRadius    = 8.0
	HomingMaxRedirects    = 1
	homingMinPassSpeed    = 1.0 * 60 // One pixel per reference frame
	BossBulletLifetime    = 60 * time.Second
	BossBulletWorldMargin = 50.0
)

// BossBullet is a projectile fired by the boss. Homing bullets steer toward
// the target and give up after passing it more than MaxRedirects times.
type BossBullet struct {
	X, Y         float64
	VX, VY       float64
	Damage       int
	Radius       float64
	Born         time.Duration
	Homing       bool
	Redirects    int
	MaxRedirects int
	destroyed    bool
}

// NewBarrageBullet creates a straight shot along angle.
func NewBarrageBullet(x, y, angle float64, now time.Duration) *BossBullet {
	return &BossBullet{
		X:      x,
		Y:      y,
		VX:     math.Cos(angle) * BarrageBulletSpeed,
		VY:     math.Sin(angle) * BarrageBulletSpeed,
		Damage: BarrageBulletDamage,
		Radius: BarrageBulletRadius,
		Born:   now,
	}
}

// NewHomingBullet creates a homing shot at rest; it accelerates toward the target.
func NewHomingBullet(x, y float64, maxRedirects int, now time.Duration) *BossBullet {
	return &BossBullet{
		X:            x,
		Y:            y,
		Damage:       HomingBulletDamage,
		Radius:       HomingBulletRadius,
		Born:         now,
		Homing:       true,
		MaxRedirects: maxRedirects,
	}
}

// Steering reports whether the bullet still homes.
func (b *BossBullet) Steering() bool {
	return b.Homing && b.Redirects <= b.MaxRedirects
}

// MarkDestroyed marks the bullet for removal.
func (b *BossBullet) MarkDestroyed() {
	b.destroyed = true
}

// IsDestroyed returns true if the bullet is marked for destruction.
func (b *BossBullet) IsDestroyed() bool {
	return b.destroyed
}

// Update steers toward ctx.Target when homing, then moves and expires the bullet.
func (b *BossBullet) Update(ctx UpdateContext) bool {
	if ctx.Now-b.Born > BossBulletLifetime {
		return true
	}
	dt := ctx.Delta.Seconds()

	if b.Steering() && ctx.Target != nil {
		b.steer(ctx.Target.X, ctx.Target.Y, dt, ctx.Frames())
	}

	b.X += b.VX * dt
	b.Y += b.VY * dt
	return !ctx.World.ContainsMargin(b.X, b.Y, BossBulletWorldMargin)
}

// steer lerps the velocity toward the target and counts passes.
func (b *BossBullet) steer(tx, ty, dt, frames float64) {
	dx := tx - b.X
	dy := ty - b.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return
	}

	// Frame-rate independent form of v += (target - v) * rate per frame
	k := 1 - math.Pow(1-HomingTurnRate, frames)
	b.VX += (dx/dist*HomingSpeed - b.VX) * k
	b.VY += (dy/dist*HomingSpeed - b.VY) * k

	speed := math.Hypot(b.VX, b.VY)
	if speed > HomingSpeed {
		b.VX = b.VX / speed * HomingSpeed
		b.VY = b.VY / speed * HomingSpeed
		speed = HomingSpeed
	}

	nextDist := math.Hypot(tx-(b.X+b.VX*dt), ty-(b.Y+b.VY*dt))
	if nextDist > dist && speed > homingMinPassSpeed {
		b.Redirects++
		if b.Redirects > b.MaxRedirects {
			b.Homing = false
		}
	}
}
