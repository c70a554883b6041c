package world

import (
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

// coopSpawnOffset is how far from player one the partner ship appears.
const coopSpawnOffset = 60.0

// updatePlayers applies intents, aims, moves and fires every player.
func (w *World) updatePlayers(ctx object.UpdateContext) {
	multiplier := 1.0
	if w.opts.ManualAim {
		multiplier = object.ManualMultiplier
	}

	for i, p := range w.players {
		in := w.intents[i]
		w.intents[i].Special = false // Edge, consumed once
		p.SetIntent(in)

		hasTarget := w.aim(p, in)
		p.Update(ctx)

		if w.wantsFire(in, hasTarget) {
			p.Fire(ctx, multiplier)
		}
	}
	w.shareCoopPool()
}

// aim sets the player's target facing. Manual mode follows the explicit aim
// angle; auto mode turns toward the nearest live enemy or the boss. Returns
// whether a target exists.
func (w *World) aim(p *object.Player, in Intent) bool {
	if w.opts.ManualAim {
		if in.HasAim {
			p.TargetFacing = in.AimAngle
		}
		return true
	}

	x, y, ok := w.nearestTarget(p.X, p.Y)
	if ok {
		p.AimAt(x, y)
	}
	return ok
}

func (w *World) wantsFire(in Intent, hasTarget bool) bool {
	if !hasTarget {
		return false
	}
	return in.Fire || w.opts.AutoFire
}

// nearestTarget finds the closest live enemy or targetable boss.
func (w *World) nearestTarget(x, y float64) (tx, ty float64, ok bool) {
	best := -1.0
	for _, e := range w.enemies {
		if e.IsDestroyed() {
			continue
		}
		d := physics.DistanceSquared(x, y, e.X, e.Y)
		if best < 0 || d < best {
			best, tx, ty = d, e.X, e.Y
		}
	}
	if w.boss != nil && w.boss.Targetable() {
		d := physics.DistanceSquared(x, y, w.boss.X, w.boss.Y)
		if best < 0 || d < best {
			best, tx, ty = d, w.boss.X, w.boss.Y
		}
	}
	return tx, ty, best >= 0
}

// shareCoopPool keeps the partner on player one's pools: a shield granted
// to player two moves to the shared pool, and its health mirrors player one.
func (w *World) shareCoopPool() {
	if len(w.players) < 2 {
		return
	}
	p1, p2 := w.players[0], w.players[1]
	if p2.Shield > 0 {
		p1.ShieldMax = max(p1.ShieldMax, p2.ShieldMax)
		p1.Shield = min(p1.ShieldMax, max(p1.Shield, p2.Shield))
		p2.Shield, p2.ShieldMax = 0, 0
	}
	p2.Health = p1.Health
	p2.MaxHealth = p1.MaxHealth
}

// addPartner creates player two next to player one.
func (w *World) addPartner() error {
	p1 := w.players[0]
	x, y, _, _ := w.bounds.ClampBox(p1.X+coopSpawnOffset, p1.Y, object.PlayerWidth, object.PlayerHeight)
	p2, err := object.NewPlayer(w.class, x, y)
	if err != nil {
		return err
	}
	p2.Index = 1
	w.players = append(w.players, p2)
	w.shareCoopPool()
	return nil
}

// dropPartner removes player two.
func (w *World) dropPartner() {
	if len(w.players) > 1 {
		w.players[1] = nil
		w.players = w.players[:1]
	}
	w.intents[1] = Intent{}
}

// pool returns the player whose health and shield absorb damage.
func (w *World) pool() *object.Player {
	return w.players[0]
}
