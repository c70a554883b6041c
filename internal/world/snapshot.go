package world

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomz197/starfall/internal/object"
)

// Snapshot is an immutable copy of everything a renderer needs for one
// frame. It shares no memory with the World.
type Snapshot struct {
	RunID        uuid.UUID
	State        State
	Elapsed      time.Duration
	Score        int
	Level        int
	BossIn       time.Duration // Countdown until the boss; 0 once spawned
	BossSpawned  bool
	BossDefeated bool
	Options      Options
	Camera       object.Camera
	World        object.Bounds

	Players   []PlayerView
	Enemies   []EnemyView
	Bullets   []BulletView
	Boss      *BossView
	PowerUps  []PowerUpView
	Popups    []PopupView
	Particles []ParticleView
	Circles   []CircleView
}

// PlayerView is a player as seen by the HUD and renderer.
type PlayerView struct {
	Index             int
	X, Y              float64
	Facing            float64
	Health, MaxHealth int
	Shield, ShieldMax int
	Class             object.Class
	Special           object.Special
	SpecialIn         time.Duration // Cooldown left; 0 means ready
	DoubleFire        bool
}

// BeamView is the visible part of a TYPE1 beam.
type BeamView struct {
	X1, Y1, X2, Y2 float64
	State          object.BeamState
	Progress       float64
}

// EnemyView is a drawable enemy.
type EnemyView struct {
	Type              object.EnemyType
	X, Y              float64
	Size              float64
	Health, MaxHealth int
	Beam              *BeamView
}

// BulletKind tells the renderer which projectile sprite to use.
type BulletKind int

const (
	BulletPlayer BulletKind = iota
	BulletEnemy
	BulletBoss
	BulletHoming
)

// BulletView is a drawable projectile of any owner.
type BulletView struct {
	Kind   BulletKind
	X, Y   float64
	VX, VY float64
	Radius float64
}

// LaserView is one boss laser spoke.
type LaserView struct {
	X1, Y1, X2, Y2 float64
	WarmedUp       bool
}

// BossView is the drawable boss.
type BossView struct {
	X, Y              float64
	Health, MaxHealth int
	Phase             object.Phase
	PhaseLeft         time.Duration
	Dying             bool
	Alpha             float64
	Lasers            []LaserView
}

// PowerUpView is a drawable power-up.
type PowerUpView struct {
	Type    object.PowerUpType
	X, Y    float64
	Visible bool // False on the off-beat of the expiry blink
}

// PopupView is floating text.
type PopupView struct {
	X, Y  float64
	Text  string
	Kind  object.PopupKind
	Alpha float64
}

// ParticleView is an explosion fragment.
type ParticleView struct {
	X, Y  float64
	Alpha float64
	Hot   bool
}

// CircleView is a boss death ring.
type CircleView struct {
	X, Y   float64
	Radius float64
	Alpha  float64
}

// Snapshot copies the current state. It is valid in every state, including
// idle where all collections are empty.
func (w *World) Snapshot() *Snapshot {
	now := w.now
	s := &Snapshot{
		RunID:        w.runID,
		State:        w.state,
		Elapsed:      now,
		Score:        w.progress.score,
		Level:        w.progress.level,
		BossIn:       w.bossCountdown(),
		BossSpawned:  w.bossSpawned,
		BossDefeated: w.bossKilled,
		Options:      w.opts,
		Camera:       w.camera,
		World:        w.bounds,
	}

	s.Players = make([]PlayerView, 0, len(w.players))
	for _, p := range w.players {
		s.Players = append(s.Players, PlayerView{
			Index:      p.Index,
			X:          p.X,
			Y:          p.Y,
			Facing:     p.Facing,
			Health:     p.Health,
			MaxHealth:  p.MaxHealth,
			Shield:     p.Shield,
			ShieldMax:  p.ShieldMax,
			Class:      p.Class,
			Special:    p.SpecialKind(),
			SpecialIn:  p.SpecialRemaining(now),
			DoubleFire: p.DoubleFireActive(now),
		})
	}

	s.Enemies = make([]EnemyView, 0, len(w.enemies))
	for _, e := range w.enemies {
		v := EnemyView{Type: e.Type, X: e.X, Y: e.Y, Size: e.Size, Health: e.Health, MaxHealth: e.MaxHealth}
		if e.Beam != nil && e.Beam.Visible() {
			x2, y2 := e.Beam.End()
			v.Beam = &BeamView{
				X1: e.Beam.OriginX, Y1: e.Beam.OriginY, X2: x2, Y2: y2,
				State:    e.Beam.State,
				Progress: e.Beam.Progress,
			}
		}
		s.Enemies = append(s.Enemies, v)
	}

	s.Bullets = make([]BulletView, 0, len(w.bullets)+len(w.enemyBullets)+len(w.bossBullets))
	for _, b := range w.bullets {
		s.Bullets = append(s.Bullets, BulletView{Kind: BulletPlayer, X: b.X, Y: b.Y, VX: b.VX, VY: b.VY})
	}
	for _, b := range w.enemyBullets {
		s.Bullets = append(s.Bullets, BulletView{Kind: BulletEnemy, X: b.X, Y: b.Y, VX: b.VX, VY: b.VY})
	}
	for _, b := range w.bossBullets {
		kind := BulletBoss
		if b.Homing {
			kind = BulletHoming
		}
		s.Bullets = append(s.Bullets, BulletView{Kind: kind, X: b.X, Y: b.Y, VX: b.VX, VY: b.VY, Radius: b.Radius})
	}

	if b := w.boss; b != nil {
		v := &BossView{
			X:         b.X,
			Y:         b.Y,
			Health:    b.Health,
			MaxHealth: b.MaxHealth,
			Phase:     b.Phase,
			PhaseLeft: b.PhaseRemaining(now),
			Dying:     b.Dying,
			Alpha:     b.Alpha,
		}
		for _, l := range b.Lasers {
			ax, ay, bx, by := l.Segment()
			v.Lasers = append(v.Lasers, LaserView{X1: ax, Y1: ay, X2: bx, Y2: by, WarmedUp: l.WarmedUp(now)})
		}
		s.Boss = v
	}

	s.PowerUps = make([]PowerUpView, 0, len(w.powerUps))
	for _, p := range w.powerUps {
		s.PowerUps = append(s.PowerUps, PowerUpView{Type: p.Type, X: p.X, Y: p.Y, Visible: p.Visible(now)})
	}

	s.Popups = make([]PopupView, 0, len(w.popups))
	for _, p := range w.popups {
		s.Popups = append(s.Popups, PopupView{X: p.X, Y: p.Y, Text: p.Text, Kind: p.Kind, Alpha: p.Alpha})
	}

	s.Particles = make([]ParticleView, 0, len(w.particles))
	for _, p := range w.particles {
		s.Particles = append(s.Particles, ParticleView{X: p.X, Y: p.Y, Alpha: p.Alpha, Hot: p.Hot})
	}

	s.Circles = make([]CircleView, 0, len(w.circles))
	for _, c := range w.circles {
		s.Circles = append(s.Circles, CircleView{X: c.X, Y: c.Y, Radius: c.Radius, Alpha: c.Alpha})
	}

	return s
}

// Player returns the view of player i, or false.
func (s *Snapshot) Player(i int) (PlayerView, bool) {
	if i < 0 || i >= len(s.Players) {
		return PlayerView{}, false
	}
	return s.Players[i], true
}
