// Package physics provides collision detection and distance utilities.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) <= radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < minDist*minDist
}

// Rect is an axis-aligned box given by its top-left corner and size.
type Rect struct {
	X, Y, W, H float64
}

// RectAround returns the box of size w×h centered on (cx, cy).
func RectAround(cx, cy, w, h float64) Rect {
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// Contains reports whether the point lies inside the box (edges included).
func (r Rect) Contains(px, py float64) bool {
	return px >= r.X && px <= r.X+r.W && py >= r.Y && py <= r.Y+r.H
}

// Overlaps reports whether two boxes intersect.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// CircleOverlaps reports whether a circle touches the box.
func (r Rect) CircleOverlaps(cx, cy, radius float64) bool {
	nx := Clamp(cx, r.X, r.X+r.W)
	ny := Clamp(cy, r.Y, r.Y+r.H)
	return DistanceSquared(cx, cy, nx, ny) <= radius*radius
}

// Expand grows the box by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// PointSegmentDistance returns the distance from p to the segment a-b.
func PointSegmentDistance(px, py, ax, ay, bx, by float64) float64 {
	abx := bx - ax
	aby := by - ay
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return Distance(px, py, ax, ay)
	}
	t := ((px-ax)*abx + (py-ay)*aby) / lenSq
	t = Clamp(t, 0, 1)
	return Distance(px, py, ax+t*abx, ay+t*aby)
}

// RayHit reports whether p lies within halfWidth of the ray starting at
// (ox, oy) heading along angle. Points behind the origin never hit.
func RayHit(px, py, ox, oy, angle, halfWidth float64) bool {
	dx := px - ox
	dy := py - oy
	cos, sin := math.Cos(angle), math.Sin(angle)

	projection := dx*cos + dy*sin
	if projection < 0 {
		return false
	}
	perp := math.Abs(dx*sin - dy*cos)
	return perp < halfWidth
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Approach moves v toward target by at most step.
func Approach(v, target, step float64) float64 {
	if v < target {
		return math.Min(v+step, target)
	}
	return math.Max(v-step, target)
}

// NormalizeAngle wraps an angle to [-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// RotateTowards turns current toward target by at most maxStep radians,
// taking the shorter direction. The result is normalized.
func RotateTowards(current, target, maxStep float64) float64 {
	diff := NormalizeAngle(target - current)
	if math.Abs(diff) <= maxStep {
		return NormalizeAngle(target)
	}
	if diff > 0 {
		return NormalizeAngle(current + maxStep)
	}
	return NormalizeAngle(current - maxStep)
}

// Normalize returns the unit vector of (x, y), or zero for a zero vector.
func Normalize(x, y float64) (float64, float64) {
	l := math.Hypot(x, y)
	if l == 0 {
		return 0, 0
	}
	return x / l, y / l
}
