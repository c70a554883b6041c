package world

import (
	"math"
	"time"

	"github.com/tomz197/starfall/internal/clock"
	"github.com/tomz197/starfall/internal/event"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

// Spawner tuning.
const (
	SpawnEdgeMargin   = 50.0 // Distance outside the camera where enemies appear
	RareSpawnPercent  = 10
	Type1SpawnPercent = 40
	RareCapMin        = 1
	RareCapMax        = 3
	RareCapPeriod     = 15 * time.Second
	ReinforceMinCount = 5
	ReinforceMaxCount = 10
	ReinforceRingMin  = 250.0
	ReinforceRingMax  = 400.0
	ReinforceRareCap  = 2
)

// spawner holds the enemy spawn cadence and the rare-type cap.
type spawner struct {
	next      clock.Timer // Time between enemy spawns
	reshuffle clock.Timer // Rare cap re-roll period
	rareCap   int
}

// spawn runs the spawner stage of a tick: rare cap re-roll, boss arrival,
// then either reinforcements or the regular edge spawn.
func (w *World) spawn(ctx object.UpdateContext) {
	s := &w.spawner
	if s.reshuffle.Ready(ctx.Now) {
		s.rareCap = RareCapMin + w.rng.Intn(RareCapMax-RareCapMin+1)
		s.reshuffle.StartWith(ctx.Now, RareCapPeriod)
	}

	if !w.bossSpawned && ctx.Now >= w.cfg.BossSpawnAfter {
		w.spawnBoss(ctx)
	}

	if w.bossSpawned {
		if w.boss != nil && w.boss.ShouldReinforce(ctx.Now, w.rng) {
			w.reinforce(ctx)
		}
		return
	}

	if s.next.Ready(ctx.Now) {
		s.next.StartWith(ctx.Now, w.progress.spawnInterval())
		w.spawnEnemy()
	}
}

// spawnEnemy places one enemy just outside a random camera edge. Positions
// outside the world are rejected and nothing spawns this attempt.
func (w *World) spawnEnemy() bool {
	view := w.camera.Rect()

	var x, y float64
	switch w.rng.Intn(4) {
	case 0: // Top
		x = view.X + w.rng.Float64()*view.W
		y = view.Y - SpawnEdgeMargin
	case 1: // Right
		x = view.X + view.W + SpawnEdgeMargin
		y = view.Y + w.rng.Float64()*view.H
	case 2: // Bottom
		x = view.X + w.rng.Float64()*view.W
		y = view.Y + view.H + SpawnEdgeMargin
	default: // Left
		x = view.X - SpawnEdgeMargin
		y = view.Y + w.rng.Float64()*view.H
	}

	if !w.bounds.Contains(x, y) {
		return false
	}

	typ := w.pickEnemyType(w.spawner.rareCap - w.countEnemies(object.EnemyType2))
	w.Spawn(object.NewEnemy(typ, x, y, w.cfg.Type2HitsToKill))
	return true
}

// pickEnemyType draws a type from the spawn weights. The rare roll falls
// through to the next bucket when rareRoom is exhausted.
func (w *World) pickEnemyType(rareRoom int) object.EnemyType {
	roll := w.rng.Intn(100)
	switch {
	case roll < RareSpawnPercent && rareRoom > 0:
		return object.EnemyType2
	case roll < RareSpawnPercent+Type1SpawnPercent:
		return object.EnemyType1
	default:
		return object.EnemyType3
	}
}

// countEnemies counts live enemies of a type.
func (w *World) countEnemies(t object.EnemyType) int {
	n := 0
	for _, e := range w.enemies {
		if e.Type == t && !e.IsDestroyed() {
			n++
		}
	}
	return n
}

// spawnBoss creates the boss once per run according to the configured rule.
func (w *World) spawnBoss(ctx object.UpdateContext) {
	x, y := w.bounds.W/2, w.bounds.H/2
	if w.cfg.BossSpawn == BossSpawnAbovePlayer {
		p := w.players[0]
		x, y = p.X, p.Y-w.cfg.BossSpawnOffset
	}
	x, y, _, _ = w.bounds.ClampBox(x, y, object.BossWidth, object.BossHeight)

	w.boss = object.NewBoss(x, y)
	w.bossSpawned = true
	ctx.Emit(event.Event{Kind: event.BossSpawned, X: x, Y: y})
	w.log.Info("boss spawned", "run", w.runID, "at", ctx.Now.Round(time.Millisecond), "rule", w.cfg.BossSpawn)
}

// reinforce spawns a batch of enemies on a ring around the boss.
func (w *World) reinforce(ctx object.UpdateContext) {
	n := ReinforceMinCount + w.rng.Intn(ReinforceMaxCount-ReinforceMinCount+1)
	rare := 0
	for i := 0; i < n; i++ {
		angle := w.rng.Float64() * 2 * math.Pi
		dist := ReinforceRingMin + w.rng.Float64()*(ReinforceRingMax-ReinforceRingMin)
		x := physics.Clamp(w.boss.X+math.Cos(angle)*dist, 0, w.bounds.W)
		y := physics.Clamp(w.boss.Y+math.Sin(angle)*dist, 0, w.bounds.H)

		typ := w.pickEnemyType(ReinforceRareCap - rare)
		if typ == object.EnemyType2 {
			rare++
		}
		w.Spawn(object.NewEscort(typ, x, y, w.cfg.Type2HitsToKill))
	}
	w.log.Debug("boss reinforcements", "run", w.runID, "count", n, "rare", rare, "at", ctx.Now.Round(time.Millisecond))
}
