package world

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("STARFALL_BOSS_AFTER", "90")
	t.Setenv("STARFALL_BOSS_SPAWN", "center")
	t.Setenv("STARFALL_TYPE2_HITS", "5")
	t.Setenv("STARFALL_SEED", "42")
	t.Setenv("STARFALL_AUTOFIRE", "off")

	cfg, err := ConfigFromEnv(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.BossSpawnAfter)
	assert.Equal(t, BossSpawnWorldCenter, cfg.BossSpawn)
	assert.Equal(t, 5, cfg.Type2HitsToKill)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.False(t, cfg.AutoFire)
}

func TestConfigFromEnvDefaults(t *testing.T) {
	cfg, err := ConfigFromEnv(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().BossSpawnAfter, cfg.BossSpawnAfter)
	assert.Equal(t, BossSpawnAbovePlayer, cfg.BossSpawn)
}

func TestConfigFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("STARFALL_BOSS_SPAWN", "sideways")
	t.Setenv("STARFALL_TYPE2_HITS", "many")

	cfg, err := ConfigFromEnv(DefaultConfig())
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "STARFALL_BOSS_SPAWN")
	assert.Contains(t, err.Error(), "STARFALL_TYPE2_HITS")
	assert.Equal(t, DefaultConfig().Type2HitsToKill, cfg.Type2HitsToKill)
}

func TestConfigFromEnvValidates(t *testing.T) {
	t.Setenv("STARFALL_TYPE2_HITS", "0")
	_, err := ConfigFromEnv(DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
