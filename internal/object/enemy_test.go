package object

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enemyContext(players ...*Player) UpdateContext {
	return UpdateContext{
		Delta:   tick,
		Rand:    newRand(11),
		World:   Bounds{W: 2000, H: 2000},
		Camera:  Camera{X: 1000, Y: 1000, W: 800, H: 600},
		Players: players,
	}
}

func TestEnemyStatsTable(t *testing.T) {
	tests := []struct {
		typ      EnemyType
		health   int
		speed    float64
		interval time.Duration
		size     float64
		attack   Attack
	}{
		{EnemyType1, 50, 90, 3 * time.Second, 60, AttackBeam},
		{EnemyType2, DefaultType2Hits, 60, 5 * time.Second, 120, AttackRing},
		{EnemyType3, 50, 90, 3 * time.Second, 60, AttackAimed},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			e := NewEnemy(tt.typ, 0, 0, 0)
			assert.Equal(t, tt.health, e.Health)
			assert.Equal(t, tt.speed, e.Speed)
			assert.Equal(t, tt.interval, e.Stats().FireInterval)
			assert.Equal(t, tt.size, e.Size)
			assert.Equal(t, tt.attack, e.Stats().Attack)
			assert.Equal(t, EnemyContactDamage, e.Stats().ContactDamage)
		})
	}
}

func TestType2CountsHits(t *testing.T) {
	e := NewEnemy(EnemyType2, 0, 0, 2)

	applied, killed := e.TakeHit(50)
	assert.Equal(t, 1, applied)
	assert.False(t, killed)

	_, killed = e.TakeHit(1)
	assert.True(t, killed)
	assert.Zero(t, e.Health)
}

func TestDamageHealthNeverNegative(t *testing.T) {
	e := NewEnemy(EnemyType3, 0, 0, 0)
	applied, killed := e.TakeHit(80)
	assert.Equal(t, 50, applied)
	assert.True(t, killed)
	assert.Zero(t, e.Health)
}

func TestEnemyChasesNearestPlayer(t *testing.T) {
	near := &Player{X: 1100, Y: 1000, Health: 10}
	far := &Player{X: 600, Y: 1000, Health: 10}
	e := NewEnemy(EnemyType3, 1000, 1000, 0)

	assert.False(t, e.Update(enemyContext(far, near)))
	assert.InDelta(t, 1000+90*tick.Seconds(), e.X, 1e-9)

	near.Health = 0
	e.Update(enemyContext(far, near))
	assert.Less(t, e.X, 1000+90*tick.Seconds(), "dead players are ignored")
}

func TestEnemyRemovedOffscreen(t *testing.T) {
	p := &Player{X: 1000, Y: 1000, Health: 10}
	ctx := enemyContext(p)

	inside := NewEnemy(EnemyType1, 1000+400+190, 1000, 0)
	assert.False(t, inside.Update(ctx), "within the buffer")

	outside := NewEnemy(EnemyType1, 1000+400+260, 1000, 0)
	assert.True(t, outside.Update(ctx))
}

func TestEscortCulledOnlyAfterArriving(t *testing.T) {
	p := &Player{X: 1000, Y: 1000, Health: 10}
	ctx := enemyContext(p)

	e := NewEscort(EnemyType3, 1000+400+600, 1000, 0)
	for i := 0; i < 5; i++ {
		assert.False(t, e.Update(ctx), "still arriving")
	}

	e.X = 1000
	assert.False(t, e.Update(ctx))

	e.X = 1000 + 400 + 260
	assert.True(t, e.Update(ctx), "culled like any enemy once it has been in range")
}

func TestEnemyAttacks(t *testing.T) {
	p := &Player{X: 1200, Y: 1000, Health: 10}

	t.Run("aimed", func(t *testing.T) {
		sp := &collector{}
		ctx := enemyContext(p)
		ctx.Spawner = sp
		e := NewEnemy(EnemyType3, 1000, 1000, 0)

		e.Update(ctx)
		assert.Empty(t, sp.objects, "first window starts on spawn")

		ctx.Now = 3 * time.Second
		e.Update(ctx)
		require.Len(t, sp.objects, 1)
		b := sp.objects[0].(*EnemyBullet)
		assert.GreaterOrEqual(t, b.Damage, EnemyBulletMinDamage)
		assert.LessOrEqual(t, b.Damage, EnemyBulletMaxDamage)
		assert.Greater(t, b.VX, 0.0)
	})

	t.Run("ring", func(t *testing.T) {
		sp := &collector{}
		ctx := enemyContext(p)
		ctx.Spawner = sp
		e := NewEnemy(EnemyType2, 1000, 1000, 0)

		e.Update(ctx)
		ctx.Now = 5 * time.Second
		e.Update(ctx)
		require.Len(t, sp.objects, 6)
		for _, o := range sp.objects {
			b := o.(*EnemyBullet)
			assert.True(t, b.Accelerating)
			assert.GreaterOrEqual(t, b.Damage, RingBulletMinDamage)
			assert.LessOrEqual(t, b.Damage, RingBulletMaxDamage)
		}
	})

	t.Run("beam", func(t *testing.T) {
		ctx := enemyContext(p)
		e := NewEnemy(EnemyType1, 1000, 1000, 0)

		e.Update(ctx)
		ctx.Now = 3 * time.Second
		e.Update(ctx)
		require.NotNil(t, e.Beam)
		assert.Equal(t, BeamCharging, e.Beam.State)

		// A cycling beam blocks the next fire window
		first := e.Beam
		ctx.Now = 6 * time.Second
		e.Update(ctx)
		assert.Same(t, first, e.Beam)
	})
}
