package client

import (
	"math"

	"github.com/tomz197/starfall/internal/draw"
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/world"
)

// skin is a color scheme. The alternate skin is cosmetic only.
type skin struct {
	players   [2]draw.Color
	shield    draw.Color
	enemies   map[object.EnemyType]draw.Color
	boss      draw.Color
	bullets   map[world.BulletKind]draw.Color
	powerUps  map[object.PowerUpType]draw.Color
	border    draw.Color
	particles [2]draw.Color // Cool, hot
}

var classicSkin = skin{
	players: [2]draw.Color{draw.ColorCyan, draw.ColorGreen},
	shield:  draw.ColorBlue,
	enemies: map[object.EnemyType]draw.Color{
		object.EnemyType1: draw.ColorRed,
		object.EnemyType2: draw.ColorMagenta,
		object.EnemyType3: draw.ColorOrange,
	},
	boss: draw.ColorMagenta,
	bullets: map[world.BulletKind]draw.Color{
		world.BulletPlayer: draw.ColorYellow,
		world.BulletEnemy:  draw.ColorOrange,
		world.BulletBoss:   draw.ColorRed,
		world.BulletHoming: draw.ColorPink,
	},
	powerUps: map[object.PowerUpType]draw.Color{
		object.PowerUpHealth:   draw.ColorGreen,
		object.PowerUpSpeed:    draw.ColorCyan,
		object.PowerUpFireRate: draw.ColorYellow,
	},
	border:    draw.ColorDim,
	particles: [2]draw.Color{draw.ColorRed, draw.ColorYellow},
}

var altSkin = skin{
	players: [2]draw.Color{draw.ColorPink, draw.ColorYellow},
	shield:  draw.ColorWhite,
	enemies: map[object.EnemyType]draw.Color{
		object.EnemyType1: draw.ColorGreen,
		object.EnemyType2: draw.ColorBlue,
		object.EnemyType3: draw.ColorCyan,
	},
	boss: draw.ColorOrange,
	bullets: map[world.BulletKind]draw.Color{
		world.BulletPlayer: draw.ColorWhite,
		world.BulletEnemy:  draw.ColorGreen,
		world.BulletBoss:   draw.ColorOrange,
		world.BulletHoming: draw.ColorYellow,
	},
	powerUps: map[object.PowerUpType]draw.Color{
		object.PowerUpHealth:   draw.ColorPink,
		object.PowerUpSpeed:    draw.ColorBlue,
		object.PowerUpFireRate: draw.ColorOrange,
	},
	border:    draw.ColorGray,
	particles: [2]draw.Color{draw.ColorBlue, draw.ColorCyan},
}

func skinFor(alt bool) *skin {
	if alt {
		return &altSkin
	}
	return &classicSkin
}

// view maps world coordinates through the camera onto the logical canvas.
type view struct {
	cam    object.Camera
	scaleX float64
	scaleY float64
}

func newView(cam object.Camera) view {
	v := view{cam: cam, scaleX: 1, scaleY: 1}
	if cam.W > 0 && cam.H > 0 {
		v.scaleX = config.ViewWidth / cam.W
		v.scaleY = config.ViewHeight / cam.H
	}
	return v
}

func (v view) point(x, y float64) draw.Point {
	return draw.Point{
		X: (x - v.cam.X + v.cam.W/2) * v.scaleX,
		Y: (y - v.cam.Y + v.cam.H/2) * v.scaleY,
	}
}

func (v view) length(d float64) float64 {
	return d * v.scaleX
}

// visible reports whether a box of half-size r around (x, y) touches the
// camera rectangle.
func (v view) visible(x, y, r float64) bool {
	return math.Abs(x-v.cam.X) <= v.cam.W/2+r && math.Abs(y-v.cam.Y) <= v.cam.H/2+r
}

// drawWorld paints the run's entities onto the canvas. Text overlays
// (popups, HUD) are written separately after the canvas renders.
func drawWorld(c *draw.Canvas, s *world.Snapshot, sk *skin) {
	v := newView(s.Camera)

	drawBounds(c, v, s.World, sk)

	for _, ci := range s.Circles {
		col := draw.ColorWhite.Fade(ci.Alpha)
		if col == draw.ColorNone {
			continue
		}
		c.SetColor(col)
		c.DrawCircle(v.point(ci.X, ci.Y), v.length(ci.Radius), false)
	}

	for _, pu := range s.PowerUps {
		if !pu.Visible || !v.visible(pu.X, pu.Y, object.PowerUpSize) {
			continue
		}
		c.SetColor(sk.powerUps[pu.Type])
		drawBox(c, v, pu.X, pu.Y, object.PowerUpSize, true)
	}

	for _, e := range s.Enemies {
		if e.Beam != nil {
			drawBeam(c, v, e.Beam)
		}
		if !v.visible(e.X, e.Y, e.Size) {
			continue
		}
		c.SetColor(sk.enemies[e.Type])
		drawBox(c, v, e.X, e.Y, e.Size, e.Type == object.EnemyType2)
	}

	if b := s.Boss; b != nil {
		drawBoss(c, v, b, sk)
	}

	for _, b := range s.Bullets {
		if !v.visible(b.X, b.Y, 0) {
			continue
		}
		c.SetColor(sk.bullets[b.Kind])
		pt := v.point(b.X, b.Y)
		if r := v.length(b.Radius); r >= 1 {
			c.DrawCircle(pt, r, true)
		} else {
			c.SetFloat(pt.X, pt.Y)
		}
	}

	for _, p := range s.Players {
		drawShip(c, v, p, sk)
	}

	for _, p := range s.Particles {
		col := sk.particles[0]
		if p.Hot {
			col = sk.particles[1]
		}
		col = col.Fade(p.Alpha)
		if col == draw.ColorNone {
			continue
		}
		c.SetColor(col)
		pt := v.point(p.X, p.Y)
		c.SetFloat(pt.X, pt.Y)
	}

	c.SetColor(draw.ColorWhite)
}

// drawBounds outlines the edges of the world that are in view.
func drawBounds(c *draw.Canvas, v view, b object.Bounds, sk *skin) {
	c.SetColor(sk.border)
	tl, tr := v.point(0, 0), v.point(b.W, 0)
	bl, br := v.point(0, b.H), v.point(b.W, b.H)
	c.DrawLine(tl, tr)
	c.DrawLine(tr, br)
	c.DrawLine(br, bl)
	c.DrawLine(bl, tl)
}

func drawBox(c *draw.Canvas, v view, x, y, size float64, filled bool) {
	h := size / 2
	pts := c.BorrowPoints(4)
	pts[0] = v.point(x-h, y-h)
	pts[1] = v.point(x+h, y-h)
	pts[2] = v.point(x+h, y+h)
	pts[3] = v.point(x-h, y+h)
	c.DrawPolygon(pts, filled)
}

// drawShip draws a player as a dart pointing along its facing.
func drawShip(c *draw.Canvas, v view, p world.PlayerView, sk *skin) {
	const nose, tail, wing = 18.0, 12.0, 2.4
	pts := c.BorrowPoints(3)
	pts[0] = v.point(p.X+math.Cos(p.Facing)*nose, p.Y+math.Sin(p.Facing)*nose)
	pts[1] = v.point(p.X+math.Cos(p.Facing+wing)*tail, p.Y+math.Sin(p.Facing+wing)*tail)
	pts[2] = v.point(p.X+math.Cos(p.Facing-wing)*tail, p.Y+math.Sin(p.Facing-wing)*tail)

	col := sk.players[0]
	if p.Index > 0 {
		col = sk.players[1]
	}
	c.SetColor(col)
	c.DrawPolygon(pts, true)

	if p.Shield > 0 {
		c.SetColor(sk.shield)
		c.DrawCircle(v.point(p.X, p.Y), v.length(object.PlayerWidth*0.75), false)
	}
}

func drawBeam(c *draw.Canvas, v view, b *world.BeamView) {
	from, to := v.point(b.X1, b.Y1), v.point(b.X2, b.Y2)
	switch b.State {
	case object.BeamCharging:
		c.SetColor(draw.ColorDim)
		to = draw.Point{X: from.X + (to.X-from.X)*b.Progress, Y: from.Y + (to.Y-from.Y)*b.Progress}
	case object.BeamLocked:
		c.SetColor(draw.ColorYellow)
	case object.BeamFiring:
		c.SetColor(draw.ColorWhite)
	default:
		return
	}
	c.DrawLine(from, to)
}

func drawBoss(c *draw.Canvas, v view, b *world.BossView, sk *skin) {
	for _, l := range b.Lasers {
		if l.WarmedUp {
			c.SetColor(draw.ColorRed)
		} else {
			c.SetColor(draw.ColorDim)
		}
		c.DrawLine(v.point(l.X1, l.Y1), v.point(l.X2, l.Y2))
	}
	if !v.visible(b.X, b.Y, object.BossWidth) {
		return
	}
	alpha := 1.0
	if b.Dying {
		alpha = b.Alpha
	}
	col := sk.boss.Fade(alpha)
	if col == draw.ColorNone {
		return
	}
	c.SetColor(col)
	center := v.point(b.X, b.Y)
	c.DrawCircle(center, v.length(object.BossWidth/2), false)
	c.DrawCircle(center, v.length(object.BossHitbox/2), true)
}
