package object

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPowerUpDropRate(t *testing.T) {
	rng := newRand(42)
	const kills = 10000

	drops := 0
	types := map[PowerUpType]int{}
	for i := 0; i < kills; i++ {
		if typ, ok := RollPowerUpDrop(rng); ok {
			drops++
			types[typ]++
		}
	}

	// Binomial(10000, 0.1) has a standard deviation of 30
	assert.InDelta(t, kills/PowerUpDropChance, drops, 150)
	assert.Len(t, types, int(powerUpTypes))
}

func TestPowerUpEffects(t *testing.T) {
	t.Run("health", func(t *testing.T) {
		p := newTestPlayer(t, ClassLarge, 0, 0)
		p.ConsumeDamage(50)
		NewPowerUp(0, 0, PowerUpHealth, 0).Apply(p, 0)
		assert.Equal(t, 370, p.Health)
	})

	t.Run("speed", func(t *testing.T) {
		p := newTestPlayer(t, ClassLarge, 0, 0)
		NewPowerUp(0, 0, PowerUpSpeed, 0).Apply(p, 0)
		assert.Equal(t, 80.0, p.Speed)
	})

	t.Run("fire rate", func(t *testing.T) {
		p := newTestPlayer(t, ClassLarge, 0, 0)
		NewPowerUp(0, 0, PowerUpFireRate, 0).Apply(p, 0)
		assert.Equal(t, 750*time.Millisecond, p.FireInterval)
	})
}

func TestPowerUpExpires(t *testing.T) {
	pu := NewPowerUp(10, 10, PowerUpSpeed, time.Second)

	assert.False(t, pu.Update(UpdateContext{Now: time.Second + PowerUpLifetime - time.Millisecond}))
	assert.True(t, pu.Update(UpdateContext{Now: time.Second + PowerUpLifetime}))
	assert.Equal(t, 4*time.Second, pu.Remaining(7*time.Second))
}

func TestPowerUpPickupBox(t *testing.T) {
	p := newTestPlayer(t, ClassSmall, 100, 100)

	assert.True(t, NewPowerUp(120, 100, PowerUpHealth, 0).Box().Overlaps(p.Box()))
	assert.False(t, NewPowerUp(130, 100, PowerUpHealth, 0).Box().Overlaps(p.Box()))
}

func TestPowerUpBlinksBeforeExpiry(t *testing.T) {
	pu := NewPowerUp(0, 0, PowerUpSpeed, 0)

	assert.True(t, pu.Visible(5*time.Second))
	assert.True(t, pu.Visible(9700*time.Millisecond))  // 0.3s left
	assert.False(t, pu.Visible(9900*time.Millisecond)) // 0.1s left
}
