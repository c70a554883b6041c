package object

import (
	"math"
	"math/rand"
	"time"
)

// Player bullet tuning.
const (
	BulletSpeed      = 600.0 // Pixels per second
	BulletLifetime   = 60 * time.Second
	BulletBaseDamage = 8
	BulletDamageRoll = 4 // Damage is base + [0, roll]
	ManualMultiplier = 1.5
)

// RollBulletDamage rolls player bullet damage and applies the multiplier
// with rounding.
func RollBulletDamage(rng *rand.Rand, multiplier float64) int {
	dmg := BulletBaseDamage + rng.Intn(BulletDamageRoll+1)
	if multiplier <= 0 || multiplier == 1 {
		return dmg
	}
	return int(math.Round(float64(dmg) * multiplier))
}

// Bullet is a projectile fired by a player.
type Bullet struct {
	X, Y      float64 // Position
	VX, VY    float64 // Velocity
	Damage    int
	Owner     int           // Player index that fired it
	Born      time.Duration // Simulation time of creation
	destroyed bool
}

// NewBullet creates a bullet traveling along angle.
func NewBullet(x, y, angle float64, damage, owner int, now time.Duration) *Bullet {
	return &Bullet{
		X:      x,
		Y:      y,
		VX:     math.Cos(angle) * BulletSpeed,
		VY:     math.Sin(angle) * BulletSpeed,
		Damage: damage,
		Owner:  owner,
		Born:   now,
	}
}

// Expired reports whether the bullet outlived its lifetime.
func (b *Bullet) Expired(now time.Duration) bool {
	return now-b.Born > BulletLifetime
}

// MarkDestroyed marks the bullet for removal.
func (b *Bullet) MarkDestroyed() {
	b.destroyed = true
}

// IsDestroyed returns true if the bullet is marked for destruction.
func (b *Bullet) IsDestroyed() bool {
	return b.destroyed
}

// Update moves the bullet. Bullets leaving the world are removed; lifetime
// expiry is checked by the combat pass so it precedes hit tests.
func (b *Bullet) Update(ctx UpdateContext) bool {
	dt := ctx.Delta.Seconds()
	b.X += b.VX * dt
	b.Y += b.VY * dt
	return !ctx.World.Contains(b.X, b.Y)
}
