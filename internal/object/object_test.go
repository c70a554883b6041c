package object

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/starfall/internal/event"
)

// collector is a Spawner that records spawned objects.
type collector struct {
	objects []Object
}

func (c *collector) Spawn(obj Object) {
	c.objects = append(c.objects, obj)
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestCompactKeepsOrder(t *testing.T) {
	items := []*Bullet{{Damage: 1}, {Damage: 2}, {Damage: 3}, {Damage: 4}}
	items[1].MarkDestroyed()
	items[3].MarkDestroyed()
	backing := items

	kept := Compact(items)

	require.Len(t, kept, 2)
	assert.Equal(t, 1, kept[0].Damage)
	assert.Equal(t, 3, kept[1].Damage)
	assert.Nil(t, backing[2], "tail is cleared")
	assert.Nil(t, backing[3])
}

func TestUpdateAllMarksRemoved(t *testing.T) {
	ctx := UpdateContext{Delta: tick, Now: 2 * PopupLifetime}
	popups := []*Popup{
		NewPopup(0, 0, "old", PopupPickup, 0),
		NewPopup(0, 0, "new", PopupPickup, 2*PopupLifetime-time.Millisecond),
	}

	UpdateAll(popups, ctx)

	assert.True(t, popups[0].IsDestroyed())
	assert.False(t, popups[1].IsDestroyed())
	assert.Less(t, popups[1].Y, 0.0, "popups rise")
}

func TestParticlesReturnToPool(t *testing.T) {
	sp := &collector{}
	SpawnExplosion(100, 100, KillParticles, false, newRand(3), 0, sp)
	require.Len(t, sp.objects, KillParticles)

	particles := make([]*Particle, 0, len(sp.objects))
	for _, o := range sp.objects {
		p, ok := o.(*Particle)
		require.True(t, ok)
		speed := p.VX*p.VX + p.VY*p.VY
		assert.GreaterOrEqual(t, speed, (ParticleMinSpeed*60)*(ParticleMinSpeed*60)-1e-6)
		assert.LessOrEqual(t, speed, (ParticleMaxSpeed*60)*(ParticleMaxSpeed*60)+1e-6)
		particles = append(particles, p)
	}

	UpdateAll(particles, UpdateContext{Delta: tick, Now: ParticleLifetime})
	particles = Compact(particles)
	assert.Empty(t, particles)
}

func TestDeathCirclesStagger(t *testing.T) {
	sp := &collector{}
	SpawnDeathCircles(50, 50, time.Second, sp)
	require.Len(t, sp.objects, BossDeathCircleCount)

	first := sp.objects[0].(*DeathCircle)
	last := sp.objects[BossDeathCircleCount-1].(*DeathCircle)

	ctx := UpdateContext{Now: time.Second + 500*time.Millisecond}
	assert.False(t, first.Update(ctx))
	assert.Greater(t, first.Radius, 0.0)
	assert.False(t, last.Update(ctx))
	assert.Zero(t, last.Alpha, "not started yet")

	assert.True(t, first.Update(UpdateContext{Now: time.Second + DeathCircleLifetime}))
}

func TestCameraFollowClampsToWorld(t *testing.T) {
	world := Bounds{W: 2000, H: 1500}
	cam := Camera{W: 800, H: 600}

	cam.Follow(10, 10, world)
	assert.Equal(t, 400.0, cam.X)
	assert.Equal(t, 300.0, cam.Y)

	cam.Follow(1000, 1400, world)
	assert.Equal(t, 1000.0, cam.X)
	assert.Equal(t, 1200.0, cam.Y)

	small := Camera{W: 3000, H: 600}
	small.Follow(0, 0, world)
	assert.Equal(t, 1000.0, small.X, "view wider than the world is centered")
}

// eventRecorder keeps the details of boss phase events.
type eventRecorder struct {
	details []string
}

func (r *eventRecorder) Emit(e event.Event) {
	if e.Kind == event.BossPhaseChanged {
		r.details = append(r.details, e.Detail)
	}
}
