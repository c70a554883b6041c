package object

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulletDamageRange(t *testing.T) {
	rng := newRand(7)

	tests := []struct {
		name       string
		multiplier float64
		lo, hi     int
	}{
		{"auto", 1, 8, 12},
		{"manual", ManualMultiplier, 12, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := map[int]bool{}
			for i := 0; i < 2000; i++ {
				d := RollBulletDamage(rng, tt.multiplier)
				require.GreaterOrEqual(t, d, tt.lo)
				require.LessOrEqual(t, d, tt.hi)
				seen[d] = true
			}
			assert.True(t, seen[tt.lo], "lower bound reachable")
			assert.True(t, seen[tt.hi], "upper bound reachable")
		})
	}
}

func TestBulletLeavesWorld(t *testing.T) {
	world := Bounds{W: 100, H: 100}
	b := NewBullet(95, 50, 0, 10, 0, 0)

	assert.False(t, b.Update(UpdateContext{Delta: time.Millisecond, World: world}))
	assert.True(t, b.Update(UpdateContext{Delta: 100 * time.Millisecond, World: world}))
	assert.False(t, b.Expired(BulletLifetime))
	assert.True(t, b.Expired(BulletLifetime+time.Millisecond))
}

func TestBeamFiresOnce(t *testing.T) {
	beam := NewBeam(0, 0, 100, 0, newRand(1), 0)
	require.GreaterOrEqual(t, beam.Damage, BeamMinDamage)
	require.LessOrEqual(t, beam.Damage, BeamMaxDamage)

	var hits, firingTicks int
	var states []BeamState
	for i := 0; i <= 80; i++ {
		now := time.Duration(i) * 100 * time.Millisecond
		beam.Update(0, 0, now)
		if len(states) == 0 || states[len(states)-1] != beam.State {
			states = append(states, beam.State)
		}
		if beam.State == BeamFiring {
			firingTicks++
		}
		if beam.Hits(50, 0, 12) {
			hits++
			beam.Spend()
		}
	}

	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, firingTicks, "firing lasts one tick")
	assert.Equal(t, []BeamState{BeamCharging, BeamLocked, BeamFiring, BeamCooldown, BeamFinished}, states)
}

func TestBeamChargeProgress(t *testing.T) {
	beam := NewBeam(0, 0, 0, 100, newRand(1), 0)
	beam.Update(0, 0, BeamChargeTime/2)
	assert.InDelta(t, 0.5, beam.Progress, 1e-9)
	assert.True(t, beam.Visible())
	assert.False(t, beam.Armed())
}

func TestBeamFollowsOriginWithFrozenAim(t *testing.T) {
	beam := NewBeam(0, 0, 100, 0, newRand(1), 0)
	beam.Update(0, 500, BeamChargeTime)
	beam.Update(0, 500, BeamChargeTime+BeamLockTime)
	require.True(t, beam.Armed())

	assert.InDelta(t, 0, beam.Angle, 1e-12, "aim frozen at creation")
	assert.False(t, beam.Hits(300, 0, 12), "ray moved with the enemy")
	assert.True(t, beam.Hits(300, 510, 12))
	assert.False(t, beam.Hits(-300, 500, 12), "behind the origin")
}

func TestHomingBulletStopsSteering(t *testing.T) {
	world := Bounds{W: 4000, H: 4000}
	target := &Player{X: 1300, Y: 1000}
	b := NewHomingBullet(1000, 1000, HomingMaxRedirects, 0)

	ctx := UpdateContext{Delta: tick, World: world, Target: target}
	for i := 0; i < 600 && b.Steering(); i++ {
		ctx.Now += tick
		require.False(t, b.Update(ctx))
	}
	require.False(t, b.Steering(), "bullet passed the target and gave up")
	assert.Equal(t, HomingMaxRedirects+1, b.Redirects)

	// Move the target: a bullet that stopped steering keeps its velocity
	target.X, target.Y = 0, 0
	vx, vy := b.VX, b.VY
	for i := 0; i < 10; i++ {
		ctx.Now += tick
		b.Update(ctx)
		assert.Equal(t, vx, b.VX)
		assert.Equal(t, vy, b.VY)
	}
	assert.LessOrEqual(t, math.Hypot(vx, vy), HomingSpeed+1e-9)
}

func TestBarrageBulletsTravelStraight(t *testing.T) {
	b := NewBarrageBullet(100, 100, 0, 0)
	ctx := UpdateContext{Delta: time.Second, World: Bounds{W: 1000, H: 1000}}
	b.Update(ctx)
	assert.InDelta(t, 400, b.X, 1e-9)
	assert.InDelta(t, 100, b.Y, 1e-9)
	assert.False(t, b.Steering())
}

func TestRingBulletStopsAcceleratingPastAim(t *testing.T) {
	world := Bounds{W: 2000, H: 2000}
	b := NewRingBullet(1000, 1000, 0, 1100, 1000, 5, 0)
	ctx := UpdateContext{Delta: tick, World: world}

	for i := 0; i < 300 && b.Accelerating; i++ {
		ctx.Now += tick
		b.Update(ctx)
	}
	require.False(t, b.Accelerating)
	assert.Greater(t, b.X, 1100.0)

	vx := b.VX
	ctx.Now += tick
	b.Update(ctx)
	assert.Equal(t, vx, b.VX, "constant velocity after the aim point")
}

func TestEnemyBulletExpires(t *testing.T) {
	b := NewAimedBullet(100, 100, 200, 100, 4, 0)
	assert.InDelta(t, EnemyBulletSpeed, b.VX, 1e-9)

	world := Bounds{W: 1000, H: 1000}
	assert.True(t, b.Update(UpdateContext{Delta: tick, Now: EnemyBulletLifetime + time.Millisecond, World: world}))

	out := NewAimedBullet(1040, 100, 2000, 100, 4, 0)
	assert.False(t, out.Update(UpdateContext{Delta: time.Millisecond, World: world}), "inside the slack")
	assert.True(t, out.Update(UpdateContext{Delta: 100 * time.Millisecond, World: world}))
}

func TestLaserWarmupAndHit(t *testing.T) {
	lasers := NewLaserGroup(LaserCount, 500, 500, BossHitbox, 1, 0)
	require.Len(t, lasers, LaserCount)
	l := lasers[0] // Pointing along +x

	assert.False(t, l.Hits(700, 500, 12, time.Second), "warming up")
	assert.True(t, l.Hits(700, 500, 12, LaserWarmup))
	assert.False(t, l.Hits(520, 500, 0, LaserWarmup), "segment starts at the hitbox edge")

	l.Track(510, 500, LaserWarmup/2, 1)
	assert.Equal(t, 0.0, l.Angle, "no rotation during warmup")
	l.Track(510, 500, LaserWarmup, 1)
	assert.InDelta(t, LaserSpinSpeed, l.Angle, 1e-9)
	assert.Equal(t, 510.0, l.OriginX)
}
