package world

import (
	"fmt"

	"github.com/tomz197/starfall/internal/event"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

// resolveCombat runs every collision test of the tick after all movement
// has completed. Entities are only marked; compaction happens later.
func (w *World) resolveCombat(ctx object.UpdateContext) {
	w.indexEnemies()

	w.playerBulletHits(ctx)
	w.enemyBulletHits(ctx)
	w.bossBulletHits(ctx)
	w.enemyContacts(ctx)
	w.beamHits(ctx)
	w.bossContacts(ctx)

	w.shareCoopPool()
}

// indexEnemies rebuilds the broad-phase grid of live enemies.
func (w *World) indexEnemies() {
	w.grid.Clear()
	for i, e := range w.enemies {
		if !e.IsDestroyed() {
			w.grid.Insert(e.X, e.Y, i)
		}
	}
}

// playerBulletHits tests player bullets against enemies, then the boss.
// A bullet that hits an enemy is not tested against the boss.
func (w *World) playerBulletHits(ctx object.UpdateContext) {
	for _, b := range w.bullets {
		if b.IsDestroyed() {
			continue
		}
		if b.Expired(ctx.Now) {
			b.MarkDestroyed()
			continue
		}

		idx := w.grid.FirstAround(b.X, b.Y, func(i int) bool {
			e := w.enemies[i]
			return !e.IsDestroyed() && e.Box().Contains(b.X, b.Y)
		})
		if idx >= 0 {
			w.hitEnemy(ctx, w.enemies[idx], b)
			continue
		}

		if w.boss != nil && w.boss.Targetable() &&
			physics.PointInCircle(b.X, b.Y, w.boss.X, w.boss.Y, object.BossHitbox+object.BossHitPadding) {
			w.hitBoss(ctx, b)
		}
	}
}

func (w *World) hitEnemy(ctx object.UpdateContext, e *object.Enemy, b *object.Bullet) {
	b.MarkDestroyed()
	_, killed := e.TakeHit(b.Damage)
	w.Spawn(object.NewDamagePopup(e.X, e.Y-e.Size/2, b.Damage, object.PopupDamageDealt, ctx.Now))
	if !killed {
		return
	}

	e.MarkDestroyed()
	w.progress.add(ScorePerKill)
	object.SpawnExplosion(e.X, e.Y, object.KillParticles, false, w.rng, ctx.Now, w)
	if typ, ok := object.RollPowerUpDrop(w.rng); ok {
		w.Spawn(object.NewPowerUp(e.X, e.Y, typ, ctx.Now))
	}
	ctx.Emit(event.Event{
		Kind:   event.EnemyKilled,
		X:      e.X,
		Y:      e.Y,
		Amount: ScorePerKill,
		Player: b.Owner,
		Detail: e.Type.String(),
	})
}

func (w *World) hitBoss(ctx object.UpdateContext, b *object.Bullet) {
	boss := w.boss
	b.MarkDestroyed()
	_, killed := boss.TakeHit(b.Damage)
	w.Spawn(object.NewDamagePopup(boss.X, boss.Y-object.BossHeight/2, b.Damage, object.PopupDamageDealt, ctx.Now))
	if !killed || !boss.Defeat(ctx.Now) {
		return
	}

	w.bossKilled = true
	w.progress.add(ScorePerBoss)
	object.SpawnExplosion(boss.X, boss.Y, object.BossDeathParticles, true, w.rng, ctx.Now, w)
	object.SpawnDeathCircles(boss.X, boss.Y, ctx.Now, w)
	ctx.Emit(event.Event{Kind: event.BossDefeated, X: boss.X, Y: boss.Y, Amount: ScorePerBoss, Player: b.Owner})
	w.log.Info("boss defeated", "run", w.runID, "score", w.progress.score)
}

// enemyBulletHits tests enemy bullets against the player hitbox circles.
func (w *World) enemyBulletHits(ctx object.UpdateContext) {
	for _, b := range w.enemyBullets {
		if b.IsDestroyed() {
			continue
		}
		for _, p := range w.players {
			if physics.PointInCircle(b.X, b.Y, p.X, p.Y, p.Hitbox) {
				b.MarkDestroyed()
				w.damagePlayer(ctx, p, b.Damage, "enemy_bullet")
				break
			}
		}
	}
}

// bossBulletHits tests boss bullets, which have a radius, against players.
func (w *World) bossBulletHits(ctx object.UpdateContext) {
	for _, b := range w.bossBullets {
		if b.IsDestroyed() {
			continue
		}
		for _, p := range w.players {
			if physics.CirclesOverlap(b.X, b.Y, b.Radius, p.X, p.Y, p.Hitbox) {
				b.MarkDestroyed()
				w.damagePlayer(ctx, p, b.Damage, "boss_bullet")
				break
			}
		}
	}
}

// enemyContacts applies ramming damage. The enemy dies without score.
func (w *World) enemyContacts(ctx object.UpdateContext) {
	for _, e := range w.enemies {
		if e.IsDestroyed() {
			continue
		}
		box := e.Box()
		for _, p := range w.players {
			if box.CircleOverlaps(p.X, p.Y, p.Hitbox) {
				e.MarkDestroyed()
				w.damagePlayer(ctx, p, e.Stats().ContactDamage, "contact")
				object.SpawnExplosion(e.X, e.Y, object.KillParticles/2, false, w.rng, ctx.Now, w)
				break
			}
		}
	}
}

// beamHits strikes players with firing beams. A beam deals damage once,
// even when it crosses both co-op ships.
func (w *World) beamHits(ctx object.UpdateContext) {
	for _, e := range w.enemies {
		if e.IsDestroyed() {
			continue
		}
		beam := e.Beam
		if beam == nil || !beam.Armed() {
			continue
		}
		for _, p := range w.players {
			if beam.Hits(p.X, p.Y, p.Hitbox) {
				beam.Spend()
				w.damagePlayer(ctx, p, beam.Damage, "beam")
				break
			}
		}
	}
}

// bossContacts applies the rate-limited boss body and laser damage.
func (w *World) bossContacts(ctx object.UpdateContext) {
	boss := w.boss
	if boss == nil || !boss.Targetable() {
		return
	}

	for _, p := range w.players {
		if physics.CirclesOverlap(p.X, p.Y, p.Hitbox, boss.X, boss.Y, object.BossHitbox) && boss.ContactReady(ctx.Now) {
			w.damagePlayer(ctx, p, object.BossContactDamage, "boss_body")
			break
		}
	}

	for _, p := range w.players {
		if w.laserHits(p, ctx) && boss.LaserReady(ctx.Now) {
			w.damagePlayer(ctx, p, object.LaserDamage, "laser")
			break
		}
	}
}

func (w *World) laserHits(p *object.Player, ctx object.UpdateContext) bool {
	for _, l := range w.boss.Lasers {
		if l.Hits(p.X, p.Y, p.Hitbox, ctx.Now) {
			return true
		}
	}
	return false
}

// damagePlayer applies damage to the shared pool and emits the popup and
// event. p is the ship that was hit; in co-op that may be player two.
func (w *World) damagePlayer(ctx object.UpdateContext, p *object.Player, amount int, source string) {
	shield, health := w.pool().ConsumeDamage(amount)
	if shield > 0 {
		w.Spawn(object.NewPopup(p.X, p.Y-object.PlayerHeight, fmt.Sprintf("-%d", shield), object.PopupShield, ctx.Now))
	}
	if health > 0 {
		w.Spawn(object.NewPopup(p.X, p.Y-object.PlayerHeight/2, fmt.Sprintf("-%d", health), object.PopupDamageTaken, ctx.Now))
	}
	ctx.Emit(event.Event{
		Kind:   event.PlayerDamaged,
		X:      p.X,
		Y:      p.Y,
		Amount: amount,
		Player: p.Index,
		Detail: source,
	})
}

// collectPowerUps applies power-ups touched by any player. Healing goes to
// the shared pool.
func (w *World) collectPowerUps(ctx object.UpdateContext) {
	for _, pu := range w.powerUps {
		if pu.IsDestroyed() {
			continue
		}
		box := pu.Box()
		for _, p := range w.players {
			if !box.Overlaps(p.Box()) {
				continue
			}
			target := p
			if pu.Type == object.PowerUpHealth {
				target = w.pool()
			}
			pu.Apply(target, ctx.Now)
			pu.MarkDestroyed()
			w.Spawn(object.NewPopup(pu.X, pu.Y, "+"+pu.Type.String(), object.PopupPickup, ctx.Now))
			ctx.Emit(event.Event{Kind: event.PowerUpCollected, X: pu.X, Y: pu.Y, Player: p.Index, Detail: pu.Type.String()})
			break
		}
	}
	w.shareCoopPool()
}
