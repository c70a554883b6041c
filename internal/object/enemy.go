package object

import (
	"fmt"
	"math"
	"time"

	"github.com/tomz197/starfall/internal/clock"
	"github.com/tomz197/starfall/internal/physics"
)

// EnemyType tags the three enemy variants.
type EnemyType int

const (
	EnemyType1 EnemyType = iota // Common, charges a beam
	EnemyType2                  // Rare, fires an accelerating ring
	EnemyType3                  // Common, fires one aimed shot
)

func (t EnemyType) String() string {
	switch t {
	case EnemyType1:
		return "type1"
	case EnemyType2:
		return "type2"
	case EnemyType3:
		return "type3"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Attack selects how an enemy fires.
type Attack int

const (
	AttackBeam Attack = iota
	AttackRing
	AttackAimed
)

// EnemyStats holds every per-type constant.
type EnemyStats struct {
	Health        int     // Damage-based health; ignored when the type counts hits
	CountsHits    bool    // Health is a hit counter (hits-to-kill)
	Speed         float64 // Pixels per second
	FireInterval  time.Duration
	Size          float64 // Square sprite side
	Attack        Attack
	ContactDamage int
	RingShots     int
}

// Enemy tuning shared by all types.
const (
	EnemyContactDamage   = 10
	EnemyOffscreenBuffer = 200.0
	DefaultType2Hits     = 3
)

var enemyTable = map[EnemyType]EnemyStats{
	EnemyType1: {Health: 50, Speed: 90, FireInterval: 3000 * time.Millisecond, Size: 2 * PlayerWidth, Attack: AttackBeam, ContactDamage: EnemyContactDamage},
	EnemyType2: {Health: 100, CountsHits: true, Speed: 60, FireInterval: 5000 * time.Millisecond, Size: 4 * PlayerWidth, Attack: AttackRing, ContactDamage: EnemyContactDamage, RingShots: 6},
	EnemyType3: {Health: 50, Speed: 90, FireInterval: 3000 * time.Millisecond, Size: 2 * PlayerWidth, Attack: AttackAimed, ContactDamage: EnemyContactDamage},
}

// EnemyStatsFor looks up the enemy table. Unknown types fall back to TYPE3.
func EnemyStatsFor(t EnemyType) EnemyStats {
	if s, ok := enemyTable[t]; ok {
		return s
	}
	return enemyTable[EnemyType3]
}

// Enemy is a hostile ship that chases the nearest player.
type Enemy struct {
	Type              EnemyType
	X, Y              float64 // Center position
	Health, MaxHealth int
	Speed             float64
	Size              float64
	Beam              *Beam // TYPE1 only

	stats     EnemyStats
	fire      clock.Timer
	arriving  bool // Not culled until it first reaches the buffered view
	destroyed bool
}

// NewEnemy creates an enemy centered at (x, y). hitsToKill applies to types
// whose health is a hit counter; values < 1 use the default.
func NewEnemy(t EnemyType, x, y float64, hitsToKill int) *Enemy {
	stats := EnemyStatsFor(t)
	health := stats.Health
	if stats.CountsHits {
		if hitsToKill < 1 {
			hitsToKill = DefaultType2Hits
		}
		health = hitsToKill
	}
	return &Enemy{
		Type:      t,
		X:         x,
		Y:         y,
		Health:    health,
		MaxHealth: health,
		Speed:     stats.Speed,
		Size:      stats.Size,
		stats:     stats,
		fire:      clock.NewTimer(stats.FireInterval),
	}
}

// NewEscort creates an enemy that may start far outside the view, such as
// boss reinforcements. It is only culled after it has come into range once.
func NewEscort(t EnemyType, x, y float64, hitsToKill int) *Enemy {
	e := NewEnemy(t, x, y, hitsToKill)
	e.arriving = true
	return e
}

// Stats returns the type's table entry.
func (e *Enemy) Stats() EnemyStats {
	return e.stats
}

// Box returns the enemy's collision box.
func (e *Enemy) Box() physics.Rect {
	return physics.RectAround(e.X, e.Y, e.Size, e.Size)
}

// MarkDestroyed marks the enemy for removal.
func (e *Enemy) MarkDestroyed() {
	e.destroyed = true
}

// IsDestroyed returns true if the enemy is marked for destruction.
func (e *Enemy) IsDestroyed() bool {
	return e.destroyed
}

// TakeHit applies a bullet hit. Hit-counting types lose one point per hit.
// Returns the health removed and whether the enemy died.
func (e *Enemy) TakeHit(damage int) (applied int, killed bool) {
	if e.stats.CountsHits {
		damage = 1
	}
	applied = min(damage, e.Health)
	e.Health -= applied
	return applied, e.Health <= 0
}

// Update chases the target, advances the beam, fires when the interval
// allows and asks for removal once far outside the camera. Escorts still
// arriving are never removed.
func (e *Enemy) Update(ctx UpdateContext) bool {
	if !e.fire.Running() {
		e.fire.Start(ctx.Now)
	}

	target := nearestPlayer(ctx.Players, e.X, e.Y)
	if target != nil {
		dx := target.X - e.X
		dy := target.Y - e.Y
		if dist := math.Hypot(dx, dy); dist > 0 {
			step := math.Min(e.Speed*ctx.Delta.Seconds(), dist)
			e.X += dx / dist * step
			e.Y += dy / dist * step
		}
	}

	if e.Beam != nil {
		e.Beam.Update(e.X, e.Y, ctx.Now)
		if e.Beam.Finished() {
			e.Beam = nil
		}
	}

	if target != nil && e.fire.Ready(ctx.Now) {
		if e.shoot(ctx, target) {
			e.fire.Start(ctx.Now)
		}
	}

	inView := ctx.Camera.Rect().Expand(EnemyOffscreenBuffer).Contains(e.X, e.Y)
	if e.arriving {
		e.arriving = !inView
		return false
	}
	return !inView
}

// shoot fires the type's attack. Returns false when the attack is blocked
// (a beam is still cycling).
func (e *Enemy) shoot(ctx UpdateContext, target *Player) bool {
	switch e.stats.Attack {
	case AttackBeam:
		if e.Beam != nil {
			return false
		}
		e.Beam = NewBeam(e.X, e.Y, target.X, target.Y, ctx.Rand, ctx.Now)
	case AttackRing:
		n := e.stats.RingShots
		for i := 0; i < n; i++ {
			angle := 2 * math.Pi * float64(i) / float64(n)
			dmg := randRange(ctx.Rand, RingBulletMinDamage, RingBulletMaxDamage)
			ctx.Spawn(NewRingBullet(e.X, e.Y, angle, target.X, target.Y, dmg, ctx.Now))
		}
	case AttackAimed:
		dmg := randRange(ctx.Rand, EnemyBulletMinDamage, EnemyBulletMaxDamage)
		ctx.Spawn(NewAimedBullet(e.X, e.Y, target.X, target.Y, dmg, ctx.Now))
	}
	return true
}

// nearestPlayer returns the closest live player, or nil.
func nearestPlayer(players []*Player, x, y float64) *Player {
	var best *Player
	bestDist := math.Inf(1)
	for _, p := range players {
		if p == nil || !p.Alive() {
			continue
		}
		if d := physics.DistanceSquared(x, y, p.X, p.Y); d < bestDist {
			best = p
			bestDist = d
		}
	}
	return best
}
