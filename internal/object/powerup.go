package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/starfall/internal/physics"
)

// PowerUpType selects the pickup effect.
type PowerUpType int

const (
	PowerUpHealth PowerUpType = iota
	PowerUpSpeed
	PowerUpFireRate
	powerUpTypes
)

func (t PowerUpType) String() string {
	switch t {
	case PowerUpHealth:
		return "health"
	case PowerUpSpeed:
		return "speed"
	case PowerUpFireRate:
		return "fire_rate"
	default:
		return "unknown"
	}
}

// Power-up tuning.
const (
	PowerUpSize        = 20.0
	PowerUpLifetime    = 10 * time.Second
	PowerUpBlinkWindow = 3 * time.Second // Blinks this long before expiring
	PowerUpBlinkHz     = 4.0
	PowerUpDropChance  = 10 // One in N kills
	PowerUpHeal        = 20
	PowerUpSpeedBonus  = 10.0 // Pixels per second
	PowerUpFireRateCut = 50 * time.Millisecond
)

// PowerUp is a collectible dropped by killed enemies.
type PowerUp struct {
	X, Y      float64
	Type      PowerUpType
	Born      time.Duration
	destroyed bool
}

// NewPowerUp creates a power-up at (x, y).
func NewPowerUp(x, y float64, t PowerUpType, now time.Duration) *PowerUp {
	return &PowerUp{X: x, Y: y, Type: t, Born: now}
}

// RollPowerUpDrop decides whether a kill drops a power-up and of which type.
func RollPowerUpDrop(rng *rand.Rand) (PowerUpType, bool) {
	if rng.Intn(PowerUpDropChance) != 0 {
		return 0, false
	}
	return PowerUpType(rng.Intn(int(powerUpTypes))), true
}

// Box returns the pickup box.
func (p *PowerUp) Box() physics.Rect {
	return physics.RectAround(p.X, p.Y, PowerUpSize, PowerUpSize)
}

// Remaining returns the time until the power-up expires.
func (p *PowerUp) Remaining(now time.Duration) time.Duration {
	return max(0, PowerUpLifetime-(now-p.Born))
}

// Visible reports whether the power-up is drawn at now. It blinks during
// the last PowerUpBlinkWindow of its lifetime.
func (p *PowerUp) Visible(now time.Duration) bool {
	left := p.Remaining(now)
	if left > PowerUpBlinkWindow {
		return true
	}
	return ShouldRenderBlink(left.Seconds(), PowerUpBlinkHz)
}

// Apply grants the effect to a player.
func (p *PowerUp) Apply(pl *Player, now time.Duration) {
	switch p.Type {
	case PowerUpHealth:
		pl.Heal(PowerUpHeal)
	case PowerUpSpeed:
		pl.AddSpeed(PowerUpSpeedBonus)
	case PowerUpFireRate:
		pl.ReduceFireInterval(PowerUpFireRateCut, now)
	}
}

// MarkDestroyed marks the power-up for removal.
func (p *PowerUp) MarkDestroyed() {
	p.destroyed = true
}

// IsDestroyed returns true if the power-up is marked for destruction.
func (p *PowerUp) IsDestroyed() bool {
	return p.destroyed
}

// Update expires the power-up.
func (p *PowerUp) Update(ctx UpdateContext) bool {
	return ctx.Now-p.Born >= PowerUpLifetime
}
