package world

import (
	"errors"
	"fmt"

	"github.com/tomz197/starfall/internal/config"
)

// ConfigFromEnv applies STARFALL_* environment overrides to base. Every bad
// value is reported, not only the first.
func ConfigFromEnv(base Config) (Config, error) {
	cfg := base
	var errs []error

	if d, err := config.GetEnvDuration("STARFALL_BOSS_AFTER", cfg.BossSpawnAfter); err != nil {
		errs = append(errs, err)
	} else {
		cfg.BossSpawnAfter = d
	}

	if rule, err := ParseBossSpawnRule(config.GetEnv("STARFALL_BOSS_SPAWN", cfg.BossSpawn.String())); err != nil {
		errs = append(errs, fmt.Errorf("STARFALL_BOSS_SPAWN: %w", err))
	} else {
		cfg.BossSpawn = rule
	}

	if n, err := config.GetEnvInt("STARFALL_TYPE2_HITS", cfg.Type2HitsToKill); err != nil {
		errs = append(errs, err)
	} else {
		cfg.Type2HitsToKill = n
	}

	if seed, err := config.GetEnvInt64("STARFALL_SEED", cfg.Seed); err != nil {
		errs = append(errs, err)
	} else {
		cfg.Seed = seed
	}

	if on, err := config.GetEnvBool("STARFALL_AUTOFIRE", cfg.AutoFire); err != nil {
		errs = append(errs, err)
	} else {
		cfg.AutoFire = on
	}

	if err := errors.Join(errs...); err != nil {
		return base, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}
