package world

import (
	"time"

	"github.com/tomz197/starfall/internal/object"
)

// Scoring and difficulty tuning.
const (
	ScorePerKill      = 10
	ScorePerBoss      = object.BossScoreBonus
	LevelDuration     = 20 * time.Second
	BaseSpawnInterval = 1000 * time.Millisecond
	SpawnIntervalStep = 100 * time.Millisecond
	MinSpawnInterval  = 200 * time.Millisecond
)

// LevelAt returns the difficulty level after elapsed run time.
func LevelAt(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	return int(elapsed/LevelDuration) + 1
}

// SpawnInterval returns the time between enemy spawns at a level.
func SpawnInterval(level int) time.Duration {
	return max(MinSpawnInterval, BaseSpawnInterval-time.Duration(level)*SpawnIntervalStep)
}

// progression tracks score and level for a run.
type progression struct {
	score int
	level int
}

// update recomputes the level. Returns true when it went up.
func (p *progression) update(now time.Duration) bool {
	lvl := LevelAt(now)
	if lvl == p.level {
		return false
	}
	up := lvl > p.level
	p.level = lvl
	return up
}

func (p *progression) add(points int) {
	p.score += points
}

func (p *progression) spawnInterval() time.Duration {
	return SpawnInterval(max(p.level, 1))
}
