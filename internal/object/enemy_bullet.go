package object

import (
	"math"
	"time"
)

// Enemy bullet tuning.
const (
	EnemyBulletSpeed      = 180.0 // Aimed shot, pixels per second
	EnemyBulletMinDamage  = 3
	EnemyBulletMaxDamage  = 6
	RingBulletSpeed       = 120.0 // Initial speed of accelerating shots
	RingBulletAccel       = 180.0 // Pixels per second²
	RingBulletMinDamage   = 4
	RingBulletMaxDamage   = 8
	EnemyBulletLifetime   = 60 * time.Second
	EnemyBulletWorldSlack = 50.0
)

// EnemyBullet is a projectile fired by a regular enemy. Accelerating shots
// steer toward the point they were aimed at until they pass it.
type EnemyBullet struct {
	X, Y         float64
	VX, VY       float64
	Damage       int
	Born         time.Duration
	Accelerating bool
	AimX, AimY   float64
	destroyed    bool
}

// NewAimedBullet creates a straight shot toward (tx, ty).
func NewAimedBullet(x, y, tx, ty float64, damage int, now time.Duration) *EnemyBullet {
	dx, dy := tx-x, ty-y
	dist := math.Hypot(dx, dy)
	b := &EnemyBullet{X: x, Y: y, Damage: damage, Born: now}
	if dist > 0 {
		b.VX = dx / dist * EnemyBulletSpeed
		b.VY = dy / dist * EnemyBulletSpeed
	}
	return b
}

// NewRingBullet creates an accelerating shot leaving at angle and curving
// toward (aimX, aimY).
func NewRingBullet(x, y, angle, aimX, aimY float64, damage int, now time.Duration) *EnemyBullet {
	return &EnemyBullet{
		X:            x,
		Y:            y,
		VX:           math.Cos(angle) * RingBulletSpeed,
		VY:           math.Sin(angle) * RingBulletSpeed,
		Damage:       damage,
		Born:         now,
		Accelerating: true,
		AimX:         aimX,
		AimY:         aimY,
	}
}

// MarkDestroyed marks the bullet for removal.
func (b *EnemyBullet) MarkDestroyed() {
	b.destroyed = true
}

// IsDestroyed returns true if the bullet is marked for destruction.
func (b *EnemyBullet) IsDestroyed() bool {
	return b.destroyed
}

// Update steers, moves and expires the bullet.
func (b *EnemyBullet) Update(ctx UpdateContext) bool {
	if ctx.Now-b.Born > EnemyBulletLifetime {
		return true
	}
	dt := ctx.Delta.Seconds()

	if b.Accelerating {
		toX := b.AimX - b.X
		toY := b.AimY - b.Y
		if toX*b.VX+toY*b.VY < 0 {
			// Passed the aimed point: fly straight from now on
			b.Accelerating = false
		} else if dist := math.Hypot(toX, toY); dist > 0 {
			b.VX += toX / dist * RingBulletAccel * dt
			b.VY += toY / dist * RingBulletAccel * dt
		}
	}

	b.X += b.VX * dt
	b.Y += b.VY * dt
	return !ctx.World.ContainsMargin(b.X, b.Y, EnemyBulletWorldSlack)
}
