package object

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Particle tuning. Speeds and drag are per 60 Hz reference frame.
const (
	ParticleLifetime      = 1500 * time.Millisecond
	ParticleMinSpeed      = 2.0
	ParticleMaxSpeed      = 8.0
	ParticleDrag          = 0.98
	KillParticles         = 12
	BossDeathParticles    = 50
	DeathCircleLifetime   = 1200 * time.Millisecond
	DeathCircleMaxRadius  = 160.0
	BossDeathCircleCount  = 3
	deathCircleStagger    = 300 * time.Millisecond
	particleFramesPerSec  = 60
	deathCircleStartScale = 0.1
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived explosion fragment. Cosmetic only.
type Particle struct {
	X, Y      float64 // Position
	VX, VY    float64 // Velocity in pixels per second
	Born      time.Duration
	Lifetime  time.Duration
	Drag      float64 // Velocity kept per reference frame
	Alpha     float64
	Hot       bool // Boss debris, drawn differently
	destroyed bool
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy float64, now, lifetime time.Duration) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		X:        x,
		Y:        y,
		VX:       vx,
		VY:       vy,
		Born:     now,
		Lifetime: lifetime,
		Drag:     ParticleDrag,
		Alpha:    1,
	}
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the world.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnExplosion creates particles in a circular burst pattern.
func SpawnExplosion(x, y float64, count int, hot bool, rng *rand.Rand, now time.Duration, spawner Spawner) {
	if spawner == nil {
		return
	}

	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		speed := (ParticleMinSpeed + rng.Float64()*(ParticleMaxSpeed-ParticleMinSpeed)) * particleFramesPerSec

		p := NewParticle(x, y, math.Cos(angle)*speed, math.Sin(angle)*speed, now, ParticleLifetime)
		p.Hot = hot
		spawner.Spawn(p)
	}
}

// MarkDestroyed marks the particle for removal.
func (p *Particle) MarkDestroyed() {
	p.destroyed = true
}

// IsDestroyed returns true if the particle is marked for destruction.
func (p *Particle) IsDestroyed() bool {
	return p.destroyed
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(ctx UpdateContext) bool {
	age := ctx.Now - p.Born
	if age >= p.Lifetime {
		return true
	}

	drag := math.Pow(p.Drag, ctx.Frames())
	p.VX *= drag
	p.VY *= drag

	dt := ctx.Delta.Seconds()
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.Alpha = 1 - float64(age)/float64(p.Lifetime)
	return false
}

// DeathCircle is an expanding ring played when the boss dies. Cosmetic only.
type DeathCircle struct {
	X, Y      float64
	Radius    float64
	Alpha     float64
	Start     time.Duration // Rings can be scheduled to start later
	destroyed bool
}

// SpawnDeathCircles schedules staggered rings at (x, y).
func SpawnDeathCircles(x, y float64, now time.Duration, spawner Spawner) {
	if spawner == nil {
		return
	}
	for i := 0; i < BossDeathCircleCount; i++ {
		spawner.Spawn(&DeathCircle{X: x, Y: y, Start: now + time.Duration(i)*deathCircleStagger})
	}
}

// MarkDestroyed marks the ring for removal.
func (c *DeathCircle) MarkDestroyed() {
	c.destroyed = true
}

// IsDestroyed returns true if the ring is marked for destruction.
func (c *DeathCircle) IsDestroyed() bool {
	return c.destroyed
}

// Update grows and fades the ring.
func (c *DeathCircle) Update(ctx UpdateContext) bool {
	if ctx.Now < c.Start {
		c.Alpha = 0
		return false
	}
	t := float64(ctx.Now-c.Start) / float64(DeathCircleLifetime)
	if t >= 1 {
		return true
	}
	c.Radius = DeathCircleMaxRadius * (deathCircleStartScale + (1-deathCircleStartScale)*t)
	c.Alpha = 1 - t
	return false
}
