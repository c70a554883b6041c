package world

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/starfall/internal/event"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

const tick = time.Second / 60

func newTestWorld(t *testing.T, opts ...func(*Config)) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 7
	for _, o := range opts {
		o(&cfg)
	}
	w, err := New(cfg)
	require.NoError(t, err)
	return w
}

func startedWorld(t *testing.T, opts ...func(*Config)) *World {
	t.Helper()
	w := newTestWorld(t, opts...)
	require.NoError(t, w.Start(object.ClassLarge))
	return w
}

func countKind(evts []event.Event, kind event.Kind) int {
	n := 0
	for _, e := range evts {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestTickGuards(t *testing.T) {
	w := newTestWorld(t)
	assert.False(t, w.Tick(tick), "idle world does not tick")

	require.NoError(t, w.Start(object.ClassLarge))
	assert.False(t, w.Tick(0))
	assert.False(t, w.Tick(-tick))
	assert.Equal(t, time.Duration(0), w.Now())

	assert.True(t, w.Tick(time.Hour))
	assert.Equal(t, MaxDelta, w.Now(), "oversized delta is clamped")
}

func TestStartRejectsUnknownClass(t *testing.T) {
	w := newTestWorld(t)
	err := w.Start(object.Class(42))
	require.ErrorIs(t, err, object.ErrUnknownClass)
	assert.Equal(t, StateIdle, w.State())
}

func TestContactDamageRemovesEnemy(t *testing.T) {
	w := startedWorld(t)
	p := w.players[0]
	w.enemies = append(w.enemies, object.NewEnemy(object.EnemyType3, p.X+40, p.Y, 0))

	require.True(t, w.Tick(tick))

	assert.Equal(t, p.MaxHealth-object.EnemyContactDamage, p.Health)
	assert.Empty(t, w.enemies, "rammer is removed the same tick")
	assert.Zero(t, w.Score(), "contact kills award no score")

	evts := w.Events()
	require.Equal(t, 1, countKind(evts, event.PlayerDamaged))
	for _, e := range evts {
		if e.Kind == event.PlayerDamaged {
			assert.Equal(t, "contact", e.Detail)
			assert.Equal(t, object.EnemyContactDamage, e.Amount)
		}
	}
}

func TestBulletKillsEnemy(t *testing.T) {
	w := startedWorld(t)
	p := w.players[0]
	e := object.NewEnemy(object.EnemyType3, p.X+400, p.Y, 0)
	w.enemies = append(w.enemies, e)
	w.bullets = append(w.bullets, object.NewBullet(e.X, e.Y, 0, 60, 0, 0))

	require.True(t, w.Tick(tick))

	assert.Empty(t, w.enemies)
	assert.Equal(t, ScorePerKill, w.Score())
	assert.Equal(t, 1, countKind(w.Events(), event.EnemyKilled))
}

func TestBulletHitsEnemyBeforeBoss(t *testing.T) {
	w := startedWorld(t)
	p := w.players[0]
	x, y := p.X, p.Y-400
	e := object.NewEnemy(object.EnemyType3, x, y, 0)
	w.enemies = append(w.enemies, e)
	w.boss = object.NewBoss(x, y)
	w.bossSpawned = true
	w.bullets = append(w.bullets, object.NewBullet(x, y, 0, 20, 0, 0))

	require.True(t, w.Tick(tick))

	assert.Equal(t, 30, e.Health)
	assert.Equal(t, object.BossMaxHealth, w.boss.Health)
}

func TestBossDefeatedOnce(t *testing.T) {
	w := startedWorld(t)
	p := w.players[0]
	boss := object.NewBoss(p.X, p.Y-400)
	boss.Health = 10
	w.boss = boss
	w.bossSpawned = true
	w.bullets = append(w.bullets,
		object.NewBullet(boss.X, boss.Y, 0, 20, 0, 0),
		object.NewBullet(boss.X, boss.Y, 0, 20, 0, 0),
	)

	require.True(t, w.Tick(tick))
	assert.True(t, boss.Dying)
	assert.Equal(t, ScorePerBoss, w.Score())
	assert.Equal(t, 1, countKind(w.Events(), event.BossDefeated))
	assert.NotEmpty(t, w.particles)
	assert.Len(t, w.circles, object.BossDeathCircleCount)

	for i := 0; i < 180 && w.State() == StateRunning; i++ {
		w.Tick(tick)
	}
	assert.Nil(t, w.Boss(), "boss is removed after the death animation")
	assert.Equal(t, ScorePerBoss, w.Score())
	assert.Empty(t, w.enemies, "no spawns once the boss is dead")
	assert.True(t, w.Snapshot().BossDefeated)
}

func TestBeamStrikesCoopPoolOnce(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.ToggleCoop()
	require.NoError(t, err)
	require.NoError(t, w.Start(object.ClassLarge))
	require.Len(t, w.players, 2)

	p1, p2 := w.players[0], w.players[1]
	require.Equal(t, p1.Y, p2.Y)

	e := object.NewEnemy(object.EnemyType1, p1.X-300, p1.Y, 0)
	e.Beam = object.NewBeam(e.X, e.Y, p1.X, p1.Y, rand.New(rand.NewSource(1)), 0)
	e.Beam.State = object.BeamFiring
	w.enemies = append(w.enemies, e)

	w.beamHits(w.context(tick))
	w.beamHits(w.context(tick))

	assert.Equal(t, p1.MaxHealth-e.Beam.Damage, p1.Health)
	assert.Equal(t, p1.Health, p2.Health, "partner mirrors the shared pool")
	assert.Equal(t, 1, countKind(w.Events(), event.PlayerDamaged))
}

func TestDestroyedEnemyBeamIsHarmless(t *testing.T) {
	w := startedWorld(t)
	p := w.players[0]

	e := object.NewEnemy(object.EnemyType1, p.X-300, p.Y, 0)
	e.Beam = object.NewBeam(e.X, e.Y, p.X, p.Y, rand.New(rand.NewSource(1)), 0)
	e.Beam.State = object.BeamFiring
	e.MarkDestroyed()
	w.enemies = append(w.enemies, e)

	w.beamHits(w.context(tick))

	assert.Equal(t, p.MaxHealth, p.Health)
	assert.Zero(t, countKind(w.Events(), event.PlayerDamaged))
}

func TestCoopHealthPickupHealsPool(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.ToggleCoop()
	require.NoError(t, err)
	require.NoError(t, w.Start(object.ClassLarge))

	p1, p2 := w.players[0], w.players[1]
	p1.Health = 300
	w.powerUps = append(w.powerUps, object.NewPowerUp(p2.X, p2.Y, object.PowerUpHealth, 0))

	w.collectPowerUps(w.context(tick))

	assert.Equal(t, 300+object.PowerUpHeal, p1.Health)
	assert.Equal(t, p1.Health, p2.Health)
	assert.True(t, w.powerUps[0].IsDestroyed())
}

func TestModeToggles(t *testing.T) {
	w := newTestWorld(t)

	on, err := w.ToggleManualAim()
	require.NoError(t, err)
	assert.True(t, on)

	on, err = w.ToggleCoop()
	require.ErrorIs(t, err, ErrModeConflict)
	assert.False(t, on)

	_, err = w.ToggleManualAim()
	require.NoError(t, err)
	on, err = w.ToggleCoop()
	require.NoError(t, err)
	assert.True(t, on)

	_, err = w.ToggleManualAim()
	require.ErrorIs(t, err, ErrModeConflict)
	assert.False(t, w.Options().ManualAim)

	assert.False(t, w.ToggleAutoFire())
	assert.True(t, w.ToggleAutoFire())
}

func TestCoopJoinsAndLeavesDuringRun(t *testing.T) {
	w := startedWorld(t)
	require.Len(t, w.Players(), 1)

	_, err := w.ToggleCoop()
	require.NoError(t, err)
	require.Len(t, w.Players(), 2)
	assert.Equal(t, 1, w.Players()[1].Index)

	_, err = w.ToggleCoop()
	require.NoError(t, err)
	assert.Len(t, w.Players(), 1)
}

func TestPauseFreezesSimulation(t *testing.T) {
	w := startedWorld(t)
	for i := 0; i < 10; i++ {
		w.Tick(tick)
	}
	before := w.Now()

	require.NoError(t, w.Pause())
	assert.False(t, w.Tick(tick))
	assert.Equal(t, before, w.Now())
	require.ErrorIs(t, w.Pause(), ErrNotRunning)

	require.NoError(t, w.Resume())
	require.ErrorIs(t, w.Resume(), ErrNotRunning)
	assert.True(t, w.Tick(tick))
	assert.Equal(t, before+tick, w.Now())
}

func TestBossSpawnsAbovePlayer(t *testing.T) {
	w := startedWorld(t, func(c *Config) { c.BossSpawnAfter = time.Second })
	p := w.players[0]

	for i := 0; i < 120 && w.Boss() == nil; i++ {
		w.Tick(tick)
	}
	require.NotNil(t, w.Boss())
	assert.GreaterOrEqual(t, w.Now(), time.Second)
	assert.InDelta(t, p.X, w.Boss().X, 2)
	assert.InDelta(t, p.Y-DefaultBossSpawnOffset, w.Boss().Y, 2)
	assert.Equal(t, 1, countKind(w.Events(), event.BossSpawned))
}

func TestBossSpawnClampedToWorld(t *testing.T) {
	w := startedWorld(t, func(c *Config) { c.BossSpawnAfter = tick })
	w.players[0].Y = object.PlayerHeight / 2

	w.Tick(tick)
	require.NotNil(t, w.Boss())
	assert.InDelta(t, object.BossHeight/2, w.Boss().Y, 2)
}

func TestBossSpawnsAtWorldCenter(t *testing.T) {
	w := startedWorld(t, func(c *Config) {
		c.BossSpawnAfter = tick
		c.BossSpawn = BossSpawnWorldCenter
	})
	w.players[0].X, w.players[0].Y = 200, 200

	w.Tick(tick)
	require.NotNil(t, w.Boss())
	assert.InDelta(t, DefaultWorldWidth/2, w.Boss().X, 2)
	assert.InDelta(t, DefaultWorldHeight/2, w.Boss().Y, 2)
}

func TestPickEnemyTypeHonoursRareCap(t *testing.T) {
	w := newTestWorld(t)

	seen := map[object.EnemyType]int{}
	for i := 0; i < 2000; i++ {
		seen[w.pickEnemyType(0)]++
	}
	assert.Zero(t, seen[object.EnemyType2])
	assert.Positive(t, seen[object.EnemyType1])
	assert.Positive(t, seen[object.EnemyType3])

	rare := 0
	for i := 0; i < 2000; i++ {
		if w.pickEnemyType(1) == object.EnemyType2 {
			rare++
		}
	}
	assert.InDelta(t, 200, rare, 60)
}

func TestSpawnEnemyStaysInWorld(t *testing.T) {
	w := startedWorld(t)
	w.camera.Follow(0, 0, w.bounds) // View pinned to the top-left corner

	spawned := 0
	for i := 0; i < 200; i++ {
		if w.spawnEnemy() {
			spawned++
		}
	}
	assert.Less(t, spawned, 200, "top and left edges fall outside the world")
	assert.Positive(t, spawned)
	assert.Len(t, w.toSpawn, spawned)
	for _, obj := range w.toSpawn {
		e := obj.(*object.Enemy)
		assert.True(t, w.bounds.Contains(e.X, e.Y))
	}
}

func TestRegularSpawnsFollowInterval(t *testing.T) {
	w := startedWorld(t)
	for w.Now() < SpawnInterval(1)-tick {
		w.Tick(tick)
	}
	assert.Empty(t, w.enemies)

	w.Tick(tick)
	assert.Len(t, w.enemies, 1, "first spawn once the interval elapses")
}

func TestProgression(t *testing.T) {
	assert.Equal(t, 1, LevelAt(0))
	assert.Equal(t, 1, LevelAt(LevelDuration-time.Millisecond))
	assert.Equal(t, 2, LevelAt(LevelDuration))
	assert.Equal(t, 900*time.Millisecond, SpawnInterval(1))
	assert.Equal(t, MinSpawnInterval, SpawnInterval(8))
	assert.Equal(t, MinSpawnInterval, SpawnInterval(30))

	var p progression
	p.level = 1
	assert.False(t, p.update(time.Second))
	assert.True(t, p.update(LevelDuration))
	assert.Equal(t, 2, p.level)
}

func TestGameOverAndRestart(t *testing.T) {
	w := startedWorld(t)
	p := w.players[0]
	p.Health = 5
	w.enemies = append(w.enemies, object.NewEnemy(object.EnemyType3, p.X+40, p.Y, 0))

	w.Tick(tick)
	require.Equal(t, StateOver, w.State())
	assert.Equal(t, 1, countKind(w.Events(), event.GameOver))
	assert.False(t, w.Tick(tick))

	first := w.RunID()
	require.NoError(t, w.Restart())
	assert.Equal(t, StateRunning, w.State())
	assert.NotEqual(t, first, w.RunID())
	assert.Zero(t, w.Now())
	assert.Empty(t, w.enemies)
	assert.Equal(t, object.ClassLarge, w.players[0].Class)
}

func TestStopReturnsToIdle(t *testing.T) {
	w := startedWorld(t)
	w.Tick(tick)
	w.Stop()

	assert.Equal(t, StateIdle, w.State())
	require.ErrorIs(t, w.Restart(), ErrNotRunning)

	snap := w.Snapshot()
	assert.Empty(t, snap.Players)
	assert.Nil(t, snap.Boss)
}

func TestSpecialIntentIsLatched(t *testing.T) {
	w := startedWorld(t)
	w.SetIntent(0, Intent{Special: true})
	w.SetIntent(0, Intent{MoveX: 1})
	assert.True(t, w.intents[0].Special)

	w.Tick(tick)
	assert.False(t, w.intents[0].Special)
	assert.Positive(t, w.players[0].Shield)
}

func TestManualFireNeedsTrigger(t *testing.T) {
	w := startedWorld(t, func(c *Config) { c.AutoFire = false })
	_, err := w.ToggleManualAim()
	require.NoError(t, err)

	w.Tick(tick)
	assert.Empty(t, w.bullets)

	w.SetIntent(0, Intent{Fire: true, AimAngle: 0, HasAim: true})
	w.Tick(tick)
	require.Len(t, w.bullets, 1)
	assert.Equal(t, 0, w.bullets[0].Owner)
}

func TestAutoFireNeedsTarget(t *testing.T) {
	w := startedWorld(t)
	w.Tick(tick)
	assert.Empty(t, w.bullets)

	p := w.players[0]
	w.enemies = append(w.enemies, object.NewEnemy(object.EnemyType3, p.X+300, p.Y, 0))
	w.Tick(tick)
	assert.Len(t, w.bullets, 1)
}

func TestSnapshotIsDetached(t *testing.T) {
	w := startedWorld(t)
	snap := w.Snapshot()
	hp := snap.Players[0].Health

	w.players[0].Health -= 50
	assert.Equal(t, hp, snap.Players[0].Health)

	pv, ok := snap.Player(0)
	assert.True(t, ok)
	assert.Equal(t, object.ClassLarge, pv.Class)
	_, ok = snap.Player(1)
	assert.False(t, ok)
}

func TestBossReinforcementsSurviveOffscreen(t *testing.T) {
	w := startedWorld(t, func(c *Config) {
		c.BossSpawnAfter = 0
		c.BossSpawn = BossSpawnWorldCenter
	})
	p := w.players[0]
	pin := func() {
		// Bottom-left corner keeps the ring around the boss far outside the view.
		p.X, p.Y, p.VX, p.VY = 200, w.bounds.H-200, 0, 0
		p.Health = p.MaxHealth
	}

	for w.Now() < 20*time.Second && len(w.enemies) == 0 {
		pin()
		require.True(t, w.Tick(tick))
	}
	require.NotNil(t, w.boss)
	require.NotEmpty(t, w.enemies, "a batch arrives within the first window")

	batch := len(w.enemies)
	assert.GreaterOrEqual(t, batch, ReinforceMinCount)
	assert.LessOrEqual(t, batch, ReinforceMaxCount)

	rare, outside := 0, 0
	view := w.camera.Rect().Expand(object.EnemyOffscreenBuffer)
	for _, e := range w.enemies {
		if e.Type == object.EnemyType2 {
			rare++
		}
		if !view.Contains(e.X, e.Y) {
			outside++
		}
		assert.LessOrEqual(t, physics.Distance(e.X, e.Y, w.boss.X, w.boss.Y), ReinforceRingMax+2)
	}
	assert.LessOrEqual(t, rare, ReinforceRareCap)
	require.Positive(t, outside, "some escorts start beyond the cull distance")

	for i := 0; i < 30; i++ {
		pin()
		require.True(t, w.Tick(tick))
	}
	assert.Len(t, w.enemies, batch, "escorts are not culled on their way in")
}

// pooledSpy records whether it was handed back to its pool.
type pooledSpy struct{ released bool }

func (s *pooledSpy) Update(object.UpdateContext) bool { return false }
func (s *pooledSpy) Release() { s.released = true }

func TestResetReleasesQueuedObjects(t *testing.T) {
	w := startedWorld(t)
	spy := &pooledSpy{}
	w.Spawn(spy)

	w.reset()

	assert.True(t, spy.released)
	assert.Empty(t, w.toSpawn)
}
