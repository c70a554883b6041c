package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/starfall/internal/clock"
	"github.com/tomz197/starfall/internal/event"
)

// Phase is the boss's current attack pattern.
type Phase int

const (
	PhaseBarrage Phase = iota
	PhaseLaserSpin
	PhaseHoming
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseBarrage:
		return "barrage"
	case PhaseLaserSpin:
		return "laser_spin"
	case PhaseHoming:
		return "homing"
	default:
		return "unknown"
	}
}

// Boss tuning.
const (
	BossWidth           = 120.0
	BossHeight          = 120.0
	BossMaxHealth       = 1000
	BossHitPadding      = 4.0 // Added to the hitbox when testing player bullets
	BossPhaseMin        = 8 * time.Second
	BossPhaseMax        = 12 * time.Second
	BossFixedPhases     = 3 // Phases completed before selection turns random
	BarrageInterval     = 600 * time.Millisecond
	BarrageSpread       = 0.2 // Radians between spread bullets
	BarrageLead         = 0.3 // Seconds of target velocity to lead by
	HomingInterval      = 1500 * time.Millisecond
	HomingVolley        = 3
	HomingRingRadius    = 60.0
	BossWanderSpeed     = 60.0
	BossWanderArrive    = 10.0
	BossContactDamage   = 20
	BossContactCooldown = 1000 * time.Millisecond
	BossDeathDuration   = 2500 * time.Millisecond
	BossScoreBonus      = 500
	ReinforceMinWait    = 10 * time.Second
	ReinforceMaxWait    = 15 * time.Second
)

// BossHitbox is the boss's circular collision radius.
var BossHitbox = math.Floor(math.Min(BossWidth, BossHeight) * 0.8 / 2)

// Boss is the end-of-run enemy with a three-phase attack cycle, slow
// wandering movement and periodic reinforcements.
type Boss struct {
	X, Y              float64
	Health, MaxHealth int
	Phase             Phase
	PhasesCompleted   int
	Lasers            []*Laser
	WanderX, WanderY  float64
	Dying             bool
	Alpha             float64 // 1 while alive, fades to 0 while dying

	started    bool
	phaseTimer clock.Timer
	shotTimer  clock.Timer
	reinforce  clock.Timer
	contactCD  clock.Timer
	laserCD    clock.Timer
	deathTimer clock.Timer
	defeated   bool
}

// NewBoss creates a boss centered at (x, y).
func NewBoss(x, y float64) *Boss {
	return &Boss{
		X:          x,
		Y:          y,
		Health:     BossMaxHealth,
		MaxHealth:  BossMaxHealth,
		Alpha:      1,
		contactCD:  clock.NewTimer(BossContactCooldown),
		laserCD:    clock.NewTimer(LaserHitCooldown),
		deathTimer: clock.NewTimer(BossDeathDuration),
	}
}

// Update runs the death animation, or the wander, phase machine and the
// current attack. Returns true once the death animation has finished.
func (b *Boss) Update(ctx UpdateContext) bool {
	if !b.started {
		b.start(ctx)
	}

	if b.Dying {
		b.Alpha = 1 - b.deathTimer.Progress(ctx.Now)
		return b.deathTimer.Done(ctx.Now)
	}

	b.wander(ctx)

	if b.phaseTimer.Done(ctx.Now) {
		b.advancePhase(ctx)
	}

	switch b.Phase {
	case PhaseBarrage:
		b.barrage(ctx)
	case PhaseHoming:
		b.homing(ctx)
	}

	dt := ctx.Delta.Seconds()
	for _, l := range b.Lasers {
		l.Track(b.X, b.Y, ctx.Now, dt)
	}
	return false
}

func (b *Boss) start(ctx UpdateContext) {
	b.started = true
	b.pickWanderTarget(ctx.Rand, ctx.World)
	b.reinforce.StartWith(ctx.Now, randDuration(ctx.Rand, ReinforceMinWait, ReinforceMaxWait))
	b.enterPhase(ctx, PhaseBarrage)
}

// advancePhase leaves the current phase and picks the next one: the fixed
// order for the first pass, uniformly random afterwards.
func (b *Boss) advancePhase(ctx UpdateContext) {
	if b.Phase == PhaseLaserSpin {
		b.ClearLasers()
	}
	b.PhasesCompleted++

	var next Phase
	if b.PhasesCompleted < BossFixedPhases {
		next = (b.Phase + 1) % phaseCount
	} else {
		next = Phase(ctx.Rand.Intn(int(phaseCount)))
	}
	b.enterPhase(ctx, next)
}

func (b *Boss) enterPhase(ctx UpdateContext, p Phase) {
	b.Phase = p
	b.phaseTimer.StartWith(ctx.Now, randDuration(ctx.Rand, BossPhaseMin, BossPhaseMax))

	switch p {
	case PhaseBarrage:
		b.shotTimer.StartWith(ctx.Now, BarrageInterval)
	case PhaseHoming:
		b.shotTimer.StartWith(ctx.Now, HomingInterval)
	case PhaseLaserSpin:
		dir := 1.0
		if ctx.Rand.Intn(2) == 0 {
			dir = -1
		}
		b.Lasers = NewLaserGroup(LaserCount, b.X, b.Y, BossHitbox, dir, ctx.Now)
	}

	ctx.Emit(event.Event{Kind: event.BossPhaseChanged, X: b.X, Y: b.Y, Detail: p.String()})
}

// barrage fires a three-bullet spread at the target's predicted position.
func (b *Boss) barrage(ctx UpdateContext) {
	if ctx.Target == nil || !b.shotTimer.Done(ctx.Now) {
		return
	}
	b.shotTimer.Start(ctx.Now)

	tx := ctx.Target.X + ctx.Target.VX*BarrageLead
	ty := ctx.Target.Y + ctx.Target.VY*BarrageLead
	base := math.Atan2(ty-b.Y, tx-b.X)
	for i := -1; i <= 1; i++ {
		ctx.Spawn(NewBarrageBullet(b.X, b.Y, base+float64(i)*BarrageSpread, ctx.Now))
	}
}

// homing places a ring of homing bullets around the boss.
func (b *Boss) homing(ctx UpdateContext) {
	if !b.shotTimer.Done(ctx.Now) {
		return
	}
	b.shotTimer.Start(ctx.Now)

	for i := 0; i < HomingVolley; i++ {
		a := 2 * math.Pi * float64(i) / HomingVolley
		x := b.X + math.Cos(a)*HomingRingRadius
		y := b.Y + math.Sin(a)*HomingRingRadius
		ctx.Spawn(NewHomingBullet(x, y, HomingMaxRedirects, ctx.Now))
	}
}

// wander drifts toward a point near the top of the world.
func (b *Boss) wander(ctx UpdateContext) {
	dx := b.WanderX - b.X
	dy := b.WanderY - b.Y
	dist := math.Hypot(dx, dy)
	if dist <= BossWanderArrive {
		b.pickWanderTarget(ctx.Rand, ctx.World)
		return
	}
	step := math.Min(BossWanderSpeed*ctx.Delta.Seconds(), dist)
	b.X += dx / dist * step
	b.Y += dy / dist * step
}

func (b *Boss) pickWanderTarget(rng *rand.Rand, world Bounds) {
	minX, maxX := BossWidth/2, world.W-BossWidth/2
	minY, maxY := BossHeight/2, world.H/3
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}
	b.WanderX = minX + rng.Float64()*(maxX-minX)
	b.WanderY = minY + rng.Float64()*(maxY-minY)
}

// ShouldReinforce reports whether a reinforcement batch is due and, if so,
// re-arms the randomized window.
func (b *Boss) ShouldReinforce(now time.Duration, rng *rand.Rand) bool {
	if b.Dying || !b.started || !b.reinforce.Done(now) {
		return false
	}
	b.reinforce.StartWith(now, randDuration(rng, ReinforceMinWait, ReinforceMaxWait))
	return true
}

// ClearLasers deactivates and drops the laser group.
func (b *Boss) ClearLasers() {
	for _, l := range b.Lasers {
		l.MarkDestroyed()
	}
	b.Lasers = nil
}

// TakeHit applies bullet damage. Returns the health removed and whether
// the hit brought the boss to zero.
func (b *Boss) TakeHit(damage int) (applied int, killed bool) {
	if b.Dying {
		return 0, false
	}
	applied = min(max(damage, 0), b.Health)
	b.Health -= applied
	return applied, b.Health <= 0
}

// Defeat starts the death animation. It returns true only the first time,
// so score and events for the kill are applied exactly once.
func (b *Boss) Defeat(now time.Duration) bool {
	if b.defeated {
		return false
	}
	b.defeated = true
	b.Dying = true
	b.ClearLasers()
	b.deathTimer.Start(now)
	return true
}

// Defeated reports whether the boss has been killed.
func (b *Boss) Defeated() bool {
	return b.defeated
}

// Targetable reports whether bullets and contact tests apply.
func (b *Boss) Targetable() bool {
	return !b.Dying
}

// ContactReady reports whether body contact may deal damage, and arms the
// cooldown when it does.
func (b *Boss) ContactReady(now time.Duration) bool {
	if !b.contactCD.Ready(now) {
		return false
	}
	b.contactCD.Start(now)
	return true
}

// LaserReady is ContactReady for the laser group.
func (b *Boss) LaserReady(now time.Duration) bool {
	if !b.laserCD.Ready(now) {
		return false
	}
	b.laserCD.Start(now)
	return true
}

// PhaseRemaining returns the time left in the current phase.
func (b *Boss) PhaseRemaining(now time.Duration) time.Duration {
	return b.phaseTimer.Remaining(now)
}
