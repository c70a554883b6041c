// Package world advances the combat simulation one tick at a time. It owns
// every entity collection and runs the fixed per-tick pipeline: players,
// spawner, entity updates, combat, pickups and progression, then the spawn
// flush and compaction.
//
// A World is not safe for concurrent use; the session runner owns it.
package world

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/starfall/internal/event"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

// Intent is one player's per-tick input.
type Intent = object.Intent

// State is the run state of the world.
type State int

const (
	StateIdle    State = iota // No run (menu)
	StateRunning              // Ticking
	StatePaused               // Frozen, Tick is a no-op
	StateOver                 // Player one died
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateOver:
		return "over"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options are the player-facing mode toggles.
type Options struct {
	ManualAim bool
	Coop      bool
	AutoFire  bool
}

// enemyGridCellSize must be at least half the largest enemy side so a point
// inside an enemy box is always in a neighbouring cell of the enemy center.
const enemyGridCellSize = 128.0

// World holds the complete simulation state of one run.
type World struct {
	cfg    Config
	log    *log.Logger
	rng    *rand.Rand
	bounds object.Bounds
	camera object.Camera

	state State
	runID uuid.UUID
	class object.Class
	now   time.Duration // Sum of accepted deltas since Start
	opts  Options

	players      []*object.Player // Player one first; player two only in co-op
	intents      [2]Intent
	bullets      []*object.Bullet
	enemies      []*object.Enemy
	enemyBullets []*object.EnemyBullet
	bossBullets  []*object.BossBullet
	boss         *object.Boss
	powerUps     []*object.PowerUp
	popups       []*object.Popup
	particles    []*object.Particle
	circles      []*object.DeathCircle

	toSpawn []object.Object // Objects to add after the current tick
	events  event.Buffer

	progress    progression
	spawner     spawner
	bossSpawned bool
	bossKilled  bool

	grid *physics.SpatialGrid
}

// New creates an idle world. Call Start to begin a run.
func New(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	w := &World{
		cfg:    cfg,
		log:    cfg.logger(),
		rng:    rand.New(rand.NewSource(seed)),
		bounds: object.Bounds{W: cfg.Width, H: cfg.Height},
		camera: object.Camera{X: cfg.Width / 2, Y: cfg.Height / 2, W: cfg.ViewWidth, H: cfg.ViewHeight},
		opts:   Options{AutoFire: cfg.AutoFire},
		grid:   physics.NewSpatialGrid(cfg.Width, cfg.Height, enemyGridCellSize),
	}
	return w, nil
}

// Spawn queues an object to join the world after the current tick.
// Implements object.Spawner.
func (w *World) Spawn(obj object.Object) {
	w.toSpawn = append(w.toSpawn, obj)
}

// Tick advances the simulation by dt. Non-positive deltas and ticks outside
// a running state are ignored; dt is clamped to MaxDelta. Returns whether
// the tick ran.
func (w *World) Tick(dt time.Duration) bool {
	if w.state != StateRunning || dt <= 0 {
		return false
	}
	if dt > MaxDelta {
		dt = MaxDelta
	}
	w.now += dt

	ctx := w.context(dt)

	w.updatePlayers(ctx)
	w.followCamera()
	ctx.Camera = w.camera

	w.spawn(ctx)

	object.UpdateAll(w.enemies, ctx)
	object.UpdateAll(w.bullets, ctx)
	object.UpdateAll(w.enemyBullets, ctx)
	object.UpdateAll(w.bossBullets, ctx)
	if w.boss != nil && w.boss.Update(ctx) {
		w.log.Debug("boss removed", "run", w.runID)
		w.boss = nil
	}

	w.resolveCombat(ctx)

	object.UpdateAll(w.powerUps, ctx)
	w.collectPowerUps(ctx)
	if w.progress.update(w.now) {
		w.log.Debug("level up", "run", w.runID, "level", w.progress.level)
	}

	object.UpdateAll(w.popups, ctx)
	object.UpdateAll(w.particles, ctx)
	object.UpdateAll(w.circles, ctx)

	w.flushSpawned()
	w.compact()

	if !w.players[0].Alive() {
		w.gameOver()
	}
	return true
}

// context builds the update context shared by every entity this tick.
func (w *World) context(dt time.Duration) object.UpdateContext {
	return object.UpdateContext{
		Delta:   dt,
		Now:     w.now,
		Rand:    w.rng,
		World:   w.bounds,
		Camera:  w.camera,
		Spawner: w,
		Events:  &w.events,
		Target:  w.players[0],
		Players: w.players,
	}
}

// followCamera centers the view on player one, or on the midpoint of both
// players in co-op.
func (w *World) followCamera() {
	p1 := w.players[0]
	x, y := p1.X, p1.Y
	if len(w.players) > 1 {
		p2 := w.players[1]
		x = (p1.X + p2.X) / 2
		y = (p1.Y + p2.Y) / 2
	}
	w.camera.Follow(x, y, w.bounds)
}

// flushSpawned moves queued objects into their collections.
func (w *World) flushSpawned() {
	for _, obj := range w.toSpawn {
		switch o := obj.(type) {
		case *object.Bullet:
			w.bullets = append(w.bullets, o)
		case *object.Enemy:
			w.enemies = append(w.enemies, o)
		case *object.EnemyBullet:
			w.enemyBullets = append(w.enemyBullets, o)
		case *object.BossBullet:
			w.bossBullets = append(w.bossBullets, o)
		case *object.PowerUp:
			w.powerUps = append(w.powerUps, o)
		case *object.Popup:
			w.popups = append(w.popups, o)
		case *object.Particle:
			w.particles = append(w.particles, o)
		case *object.DeathCircle:
			w.circles = append(w.circles, o)
		default:
			w.log.Warn("dropping unknown spawned object", "type", fmt.Sprintf("%T", obj))
		}
	}
	clear(w.toSpawn)
	w.toSpawn = w.toSpawn[:0]
}

// compact drops every entity marked destroyed this tick.
func (w *World) compact() {
	w.bullets = object.Compact(w.bullets)
	w.enemies = object.Compact(w.enemies)
	w.enemyBullets = object.Compact(w.enemyBullets)
	w.bossBullets = object.Compact(w.bossBullets)
	w.powerUps = object.Compact(w.powerUps)
	w.popups = object.Compact(w.popups)
	w.particles = object.Compact(w.particles)
	w.circles = object.Compact(w.circles)
}

// reset clears every collection and the boss in one step.
func (w *World) reset() {
	for _, p := range w.particles {
		p.Release()
	}
	w.players = nil
	w.intents = [2]Intent{}
	w.bullets = nil
	w.enemies = nil
	w.enemyBullets = nil
	w.bossBullets = nil
	w.boss = nil
	w.powerUps = nil
	w.popups = nil
	w.particles = nil
	w.circles = nil
	for _, obj := range w.toSpawn {
		object.ReleaseObject(obj)
	}
	clear(w.toSpawn)
	w.toSpawn = w.toSpawn[:0]
	w.events.Drain()

	w.now = 0
	w.progress = progression{}
	w.spawner = spawner{}
	w.bossSpawned = false
	w.bossKilled = false
	w.camera.X, w.camera.Y = w.bounds.W/2, w.bounds.H/2
}

// Now returns the simulation time of the current run.
func (w *World) Now() time.Duration {
	return w.now
}

// State returns the run state.
func (w *World) State() State {
	return w.state
}

// Options returns the current mode toggles.
func (w *World) Options() Options {
	return w.opts
}

// Score returns the current score.
func (w *World) Score() int {
	return w.progress.score
}

// Level returns the current difficulty level.
func (w *World) Level() int {
	return w.progress.level
}

// RunID identifies the current run.
func (w *World) RunID() uuid.UUID {
	return w.runID
}

// Events drains the events emitted since the last call.
func (w *World) Events() []event.Event {
	return w.events.Drain()
}

// Players returns the live players. The slice must not be modified.
func (w *World) Players() []*object.Player {
	return w.players
}

// Enemies returns the live enemies. The slice must not be modified.
func (w *World) Enemies() []*object.Enemy {
	return w.enemies
}

// Boss returns the boss, or nil.
func (w *World) Boss() *object.Boss {
	return w.boss
}

// Bounds returns the world size.
func (w *World) Bounds() object.Bounds {
	return w.bounds
}

// bossCountdown returns the time until the boss appears, or 0 once spawned.
func (w *World) bossCountdown() time.Duration {
	if w.bossSpawned {
		return 0
	}
	return max(0, w.cfg.BossSpawnAfter-w.now)
}

var _ object.Spawner = (*World)(nil)
