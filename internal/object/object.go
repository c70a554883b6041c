// Package object holds the simulation entities: players, enemies, the boss,
// projectiles, beams, lasers, power-ups and cosmetic effects.
package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/starfall/internal/event"
	"github.com/tomz197/starfall/internal/physics"
)

// Spawner allows objects to spawn new objects during update.
// Spawned objects join the world after the current tick.
type Spawner interface {
	Spawn(obj Object)
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration // Accepted tick delta
	Now     time.Duration // Simulation time since run start
	Rand    *rand.Rand
	World   Bounds
	Camera  Camera
	Spawner Spawner
	Events  event.Sink
	Target  *Player   // Primary target for enemy AI (player 1)
	Players []*Player // All live players
}

// Emit forwards an event to the context's sink, if any.
func (ctx UpdateContext) Emit(e event.Event) {
	if ctx.Events != nil {
		ctx.Events.Emit(e)
	}
}

// Spawn forwards to the context's spawner, if any.
func (ctx UpdateContext) Spawn(obj Object) {
	if ctx.Spawner != nil {
		ctx.Spawner.Spawn(obj)
	}
}

// Frames converts the delta to 60 Hz reference frames. Constants tuned per
// frame are scaled by this to stay frame-rate independent.
func (ctx UpdateContext) Frames() float64 {
	return ctx.Delta.Seconds() * 60
}

// Bounds is the size of the world. The world spans [0,W]×[0,H].
type Bounds struct {
	W, H float64
}

// Contains reports whether a point is inside the world.
func (b Bounds) Contains(x, y float64) bool {
	return x >= 0 && x <= b.W && y >= 0 && y <= b.H
}

// ContainsMargin reports whether a point is inside the world grown by m.
func (b Bounds) ContainsMargin(x, y, m float64) bool {
	return x >= -m && x <= b.W+m && y >= -m && y <= b.H+m
}

// ClampBox clamps a center position so a w×h box stays inside the world.
// It also reports which axes were clamped.
func (b Bounds) ClampBox(x, y, w, h float64) (cx, cy float64, clampedX, clampedY bool) {
	cx = physics.Clamp(x, w/2, b.W-w/2)
	cy = physics.Clamp(y, h/2, b.H-h/2)
	return cx, cy, cx != x, cy != y
}

// Camera represents the viewport in world space.
type Camera struct {
	X, Y float64 // Camera center position in world coordinates
	W, H float64 // Viewport size in world units
}

// Rect returns the camera's visible area.
func (c Camera) Rect() physics.Rect {
	return physics.RectAround(c.X, c.Y, c.W, c.H)
}

// Follow centers the camera on (x, y), clamped so the view stays inside the world.
func (c *Camera) Follow(x, y float64, world Bounds) {
	c.X = x
	c.Y = y
	if world.W > c.W {
		c.X = physics.Clamp(x, c.W/2, world.W-c.W/2)
	} else {
		c.X = world.W / 2
	}
	if world.H > c.H {
		c.Y = physics.Clamp(y, c.H/2, world.H-c.H/2)
	} else {
		c.Y = world.H / 2
	}
}

// Object is an updatable world entity.
type Object interface {
	// Update advances the object by one tick. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool)
}

// Destructible is implemented by objects that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed marks the object for removal on the next compaction.
	MarkDestroyed()
	// IsDestroyed returns true if the object is marked for destruction.
	IsDestroyed() bool
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// Compact removes destroyed entries in place and returns the shortened slice.
// Removed entries are released if pooled.
func Compact[T interface {
	Object
	Destructible
}](items []T) []T {
	kept := items[:0] // reuse backing array
	for _, it := range items {
		if it.IsDestroyed() {
			ReleaseObject(it)
			continue
		}
		kept = append(kept, it)
	}
	// Clear the tail so dropped pointers can be collected.
	var zero T
	for i := len(kept); i < len(items); i++ {
		items[i] = zero
	}
	return kept
}

// UpdateAll runs Update on every item and marks the ones that ask to be removed.
func UpdateAll[T interface {
	Object
	Destructible
}](items []T, ctx UpdateContext) {
	for _, it := range items {
		if it.IsDestroyed() {
			continue
		}
		if it.Update(ctx) {
			it.MarkDestroyed()
		}
	}
}

// randRange returns a uniform integer in [lo, hi].
func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// randDuration returns a uniform duration in [lo, hi].
func randDuration(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Int63n(int64(hi-lo)+1))
}

// ShouldRenderBlink reports whether something that is about to expire is
// drawn this frame. remaining is in seconds; zero or less always draws.
func ShouldRenderBlink(remaining, frequency float64) bool {
	if remaining <= 0 {
		return true
	}
	return int(remaining*frequency)%2 != 0
}
