package object

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tomz197/starfall/internal/clock"
	"github.com/tomz197/starfall/internal/event"
	"github.com/tomz197/starfall/internal/physics"
)

// ErrUnknownClass is returned when a spacecraft class is not in the class table.
var ErrUnknownClass = errors.New("unknown spacecraft class")

// Class is a player spacecraft archetype.
type Class int

const (
	ClassLarge Class = iota
	ClassMedium
	ClassSmall
)

func (c Class) String() string {
	switch c {
	case ClassLarge:
		return "large"
	case ClassMedium:
		return "medium"
	case ClassSmall:
		return "small"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Special identifies a class-specific ability.
type Special int

const (
	SpecialShield Special = iota
	SpecialDoubleFire
	SpecialTeleport
)

func (s Special) String() string {
	switch s {
	case SpecialShield:
		return "shield"
	case SpecialDoubleFire:
		return "double fire"
	case SpecialTeleport:
		return "teleport"
	default:
		return "none"
	}
}

// ClassStats holds every per-class constant.
type ClassStats struct {
	MaxHealth       int
	Speed           float64 // Pixels per second
	ShotsPerMinute  int
	Special         Special
	SpecialCooldown time.Duration
}

// FireInterval converts the shot rate to the time between shots.
func (s ClassStats) FireInterval() time.Duration {
	return time.Minute / time.Duration(s.ShotsPerMinute)
}

var classTable = map[Class]ClassStats{
	ClassLarge:  {MaxHealth: 400, Speed: 70, ShotsPerMinute: 75, Special: SpecialShield, SpecialCooldown: 30 * time.Second},
	ClassMedium: {MaxHealth: 200, Speed: 100, ShotsPerMinute: 85, Special: SpecialDoubleFire, SpecialCooldown: 18 * time.Second},
	ClassSmall:  {MaxHealth: 75, Speed: 170, ShotsPerMinute: 120, Special: SpecialTeleport, SpecialCooldown: 8 * time.Second},
}

// StatsForClass looks up the class table.
func StatsForClass(c Class) (ClassStats, error) {
	s, ok := classTable[c]
	if !ok {
		return ClassStats{}, fmt.Errorf("%w: %d", ErrUnknownClass, int(c))
	}
	return s, nil
}

// Player movement and ability tuning.
const (
	PlayerWidth        = 30.0
	PlayerHeight       = 30.0
	PlayerAccel        = 1200.0      // Pixels per second²
	PlayerDamping      = 6.0         // Per second, scaled by speed
	PlayerTurnRate     = 4 * math.Pi // Radians per second
	ShieldFraction     = 0.5
	DoubleFireDuration = 18 * time.Second
	DoubleFireFloor    = 50 * time.Millisecond
	TeleportDistance   = 300.0
	MinFireInterval    = 100 * time.Millisecond // Power-up floor
)

// Intent is one player's input for a tick.
type Intent struct {
	MoveX, MoveY int     // -1, 0 or 1 per axis
	Fire         bool    // Held fire (ignored when auto-fire is on)
	Special      bool    // Edge: request the class ability this tick
	AimAngle     float64 // Explicit aim in manual mode
	HasAim       bool
}

// Player is a player-controlled spacecraft.
type Player struct {
	Index  int     // 0 for player one, 1 for the co-op partner
	X, Y   float64 // Center position
	VX, VY float64 // Velocity in pixels per second

	Facing       float64 // Current facing in radians
	TargetFacing float64 // Facing the ship turns toward

	Health, MaxHealth int
	Shield, ShieldMax int
	Speed             float64
	FireInterval      time.Duration
	Class             Class
	Hitbox            float64

	intent        Intent
	special       Special
	lastShot      clock.Timer
	specialCD     clock.Timer
	doubleFire    clock.Timer
	savedInterval time.Duration
}

// NewPlayer creates a player of the given class centered at (x, y).
func NewPlayer(class Class, x, y float64) (*Player, error) {
	stats, err := StatsForClass(class)
	if err != nil {
		return nil, err
	}
	interval := stats.FireInterval()
	return &Player{
		X:            x,
		Y:            y,
		Facing:       -math.Pi / 2, // Start pointing up
		TargetFacing: -math.Pi / 2,
		Health:       stats.MaxHealth,
		MaxHealth:    stats.MaxHealth,
		Speed:        stats.Speed,
		FireInterval: interval,
		Class:        class,
		Hitbox:       math.Floor(math.Min(PlayerWidth, PlayerHeight) * 0.8 / 2),
		special:      stats.Special,
		lastShot:     clock.NewTimer(interval),
		specialCD:    clock.NewTimer(stats.SpecialCooldown),
		doubleFire:   clock.NewTimer(DoubleFireDuration),
	}, nil
}

// SetIntent stores the input for the next update.
func (p *Player) SetIntent(in Intent) {
	p.intent = in
}

// Intent returns the last stored input.
func (p *Player) Intent() Intent {
	return p.intent
}

// Update expires timed effects, resolves the special edge, integrates
// movement and smooths the facing angle. Players are never removed here.
func (p *Player) Update(ctx UpdateContext) bool {
	p.updateSpecials(ctx.Now)

	if p.intent.Special {
		p.UseSpecial(ctx.Now, ctx.World)
		p.intent.Special = false
	}

	dt := ctx.Delta.Seconds()
	p.integrate(dt, ctx.World)
	p.Facing = physics.RotateTowards(p.Facing, p.TargetFacing, PlayerTurnRate*dt)
	return false
}

// integrate applies inertial movement and clamps the ship to the world.
func (p *Player) integrate(dt float64, world Bounds) {
	p.VX = p.steerAxis(p.VX, p.intent.MoveX, dt)
	p.VY = p.steerAxis(p.VY, p.intent.MoveY, dt)

	nx := p.X + p.VX*dt
	ny := p.Y + p.VY*dt

	var clampedX, clampedY bool
	p.X, p.Y, clampedX, clampedY = world.ClampBox(nx, ny, PlayerWidth, PlayerHeight)
	if clampedX {
		p.VX = 0
	}
	if clampedY {
		p.VY = 0
	}
}

// steerAxis moves one velocity component toward intent×speed, or damps it.
func (p *Player) steerAxis(v float64, intent int, dt float64) float64 {
	if intent != 0 {
		target := float64(sign(intent)) * p.Speed
		return physics.Approach(v, target, PlayerAccel*dt)
	}
	return physics.Approach(v, 0, PlayerDamping*dt*p.Speed)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// updateSpecials restores the fire interval once double fire expires.
func (p *Player) updateSpecials(now time.Duration) {
	if p.doubleFire.Done(now) {
		p.doubleFire.Stop()
		p.FireInterval = p.savedInterval
		p.lastShot.Period = p.FireInterval
	}
}

// UseSpecial triggers the class ability. On cooldown it does nothing and
// returns false.
func (p *Player) UseSpecial(now time.Duration, world Bounds) bool {
	if !p.specialCD.Ready(now) {
		return false
	}
	p.specialCD.Start(now)

	switch p.special {
	case SpecialShield:
		p.ShieldMax = max(1, int(float64(p.MaxHealth)*ShieldFraction))
		p.Shield = p.ShieldMax
	case SpecialDoubleFire:
		if !p.doubleFire.Active(now) {
			p.savedInterval = p.FireInterval
			p.FireInterval = max(DoubleFireFloor, p.FireInterval/2)
			p.lastShot.Period = p.FireInterval
			p.doubleFire.Start(now)
		}
	case SpecialTeleport:
		nx := p.X + math.Cos(p.Facing)*TeleportDistance
		ny := p.Y + math.Sin(p.Facing)*TeleportDistance
		p.X, p.Y, _, _ = world.ClampBox(nx, ny, PlayerWidth, PlayerHeight)
	}
	return true
}

// SpecialReady reports whether the ability can be used at now.
func (p *Player) SpecialReady(now time.Duration) bool {
	return p.specialCD.Ready(now)
}

// SpecialRemaining returns the cooldown left on the ability.
func (p *Player) SpecialRemaining(now time.Duration) time.Duration {
	return p.specialCD.Remaining(now)
}

// SpecialKind returns the class ability.
func (p *Player) SpecialKind() Special {
	return p.special
}

// DoubleFireActive reports whether the medium-class ability is running.
func (p *Player) DoubleFireActive(now time.Duration) bool {
	return p.doubleFire.Active(now)
}

// CanFire reports whether the fire interval has elapsed.
func (p *Player) CanFire(now time.Duration) bool {
	return p.lastShot.Ready(now)
}

// Fire spawns a bullet along the current facing if the interval allows.
// The multiplier scales the rolled damage (1.5 in manual aim mode).
func (p *Player) Fire(ctx UpdateContext, multiplier float64) bool {
	if !p.CanFire(ctx.Now) {
		return false
	}
	p.lastShot.Period = p.FireInterval
	p.lastShot.Start(ctx.Now)

	noseX := p.X + math.Cos(p.Facing)*PlayerWidth/2
	noseY := p.Y + math.Sin(p.Facing)*PlayerHeight/2
	b := NewBullet(noseX, noseY, p.Facing, RollBulletDamage(ctx.Rand, multiplier), p.Index, ctx.Now)
	ctx.Spawn(b)
	ctx.Emit(event.Event{Kind: event.BulletFired, X: noseX, Y: noseY, Player: p.Index})
	return true
}

// ConsumeDamage deducts damage from the shield first and the remainder from
// health. Returns how much each pool absorbed.
func (p *Player) ConsumeDamage(amount int) (shield, health int) {
	if amount <= 0 {
		return 0, 0
	}
	shield = min(amount, p.Shield)
	p.Shield -= shield
	rest := amount - shield

	health = min(rest, p.Health)
	p.Health -= health
	return shield, health
}

// Heal restores health up to the maximum.
func (p *Player) Heal(amount int) {
	if amount <= 0 {
		return
	}
	p.Health = min(p.MaxHealth, p.Health+amount)
}

// AddSpeed permanently raises the movement speed.
func (p *Player) AddSpeed(amount float64) {
	p.Speed += amount
}

// ReduceFireInterval permanently shortens the fire interval, floored.
// A running double fire keeps its halved interval and restores the reduced one.
func (p *Player) ReduceFireInterval(by time.Duration, now time.Duration) {
	if p.doubleFire.Active(now) {
		p.savedInterval = max(MinFireInterval, p.savedInterval-by)
		return
	}
	p.FireInterval = max(MinFireInterval, p.FireInterval-by)
	p.lastShot.Period = p.FireInterval
}

// Alive reports whether the player has health left.
func (p *Player) Alive() bool {
	return p.Health > 0
}

// Box returns the player's sprite box.
func (p *Player) Box() physics.Rect {
	return physics.RectAround(p.X, p.Y, PlayerWidth, PlayerHeight)
}

// AimAt sets the target facing toward a world point.
func (p *Player) AimAt(x, y float64) {
	p.TargetFacing = math.Atan2(y-p.Y, x-p.X)
}
