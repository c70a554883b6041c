package world

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfall/internal/object"
)

// ErrInvalidConfig is returned by New and Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid world config")

// BossSpawnRule selects where the boss appears.
type BossSpawnRule int

const (
	BossSpawnAbovePlayer BossSpawnRule = iota // Offset above player one, clamped to the world
	BossSpawnWorldCenter
)

func (r BossSpawnRule) String() string {
	switch r {
	case BossSpawnAbovePlayer:
		return "above-player"
	case BossSpawnWorldCenter:
		return "center"
	default:
		return fmt.Sprintf("rule(%d)", int(r))
	}
}

// ParseBossSpawnRule maps a configuration string to a rule.
func ParseBossSpawnRule(s string) (BossSpawnRule, error) {
	switch s {
	case "", "above-player", "player":
		return BossSpawnAbovePlayer, nil
	case "center", "centre":
		return BossSpawnWorldCenter, nil
	}
	return 0, fmt.Errorf("%w: unknown boss spawn rule %q", ErrInvalidConfig, s)
}

// Default world geometry and run tuning.
const (
	DefaultWorldWidth      = 3000.0
	DefaultWorldHeight     = 2100.0
	DefaultViewWidth       = 1000.0
	DefaultViewHeight      = 700.0
	DefaultBossSpawnAfter  = 210 * time.Second
	DefaultBossSpawnOffset = 300.0
	MaxDelta               = 250 * time.Millisecond
)

// Config holds the world's construction parameters.
type Config struct {
	Width, Height         float64 // World size
	ViewWidth, ViewHeight float64 // Camera viewport in world units

	BossSpawnAfter  time.Duration // Run time before the boss appears
	BossSpawn       BossSpawnRule
	BossSpawnOffset float64 // Distance above the player for BossSpawnAbovePlayer
	Type2HitsToKill int     // Hits a rare enemy absorbs

	AutoFire bool  // Fire without holding the fire key
	Seed     int64 // Random seed; 0 picks one from the wall clock

	Logger *log.Logger
}

// DefaultConfig returns the standard run configuration.
func DefaultConfig() Config {
	return Config{
		Width:           DefaultWorldWidth,
		Height:          DefaultWorldHeight,
		ViewWidth:       DefaultViewWidth,
		ViewHeight:      DefaultViewHeight,
		BossSpawnAfter:  DefaultBossSpawnAfter,
		BossSpawn:       BossSpawnAbovePlayer,
		BossSpawnOffset: DefaultBossSpawnOffset,
		Type2HitsToKill: object.DefaultType2Hits,
		AutoFire:        true,
	}
}

// Validate checks the configuration for values the simulation cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: world size %vx%v", ErrInvalidConfig, c.Width, c.Height)
	case c.ViewWidth <= 0 || c.ViewHeight <= 0:
		return fmt.Errorf("%w: view size %vx%v", ErrInvalidConfig, c.ViewWidth, c.ViewHeight)
	case c.Width < object.BossWidth || c.Height < object.BossHeight:
		return fmt.Errorf("%w: world smaller than the boss", ErrInvalidConfig)
	case c.BossSpawnAfter < 0:
		return fmt.Errorf("%w: negative boss spawn time %v", ErrInvalidConfig, c.BossSpawnAfter)
	case c.BossSpawn != BossSpawnAbovePlayer && c.BossSpawn != BossSpawnWorldCenter:
		return fmt.Errorf("%w: boss spawn rule %v", ErrInvalidConfig, c.BossSpawn)
	case c.Type2HitsToKill < 1:
		return fmt.Errorf("%w: type2 hits to kill %d", ErrInvalidConfig, c.Type2HitsToKill)
	}
	return nil
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.New(io.Discard)
}
