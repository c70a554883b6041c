package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRayHitIgnoresPointsBehindOrigin(t *testing.T) {
	// Ray pointing right from the origin.
	assert.True(t, RayHit(100, 3, 0, 0, 0, 5))
	assert.False(t, RayHit(100, 6, 0, 0, 0, 5), "outside half width")
	assert.False(t, RayHit(-10, 0, 0, 0, 0, 5), "behind origin")
	assert.True(t, RayHit(0, 100, 0, 0, math.Pi/2, 5))
}

func TestPointSegmentDistance(t *testing.T) {
	tests := []struct {
		name           string
		px, py         float64
		ax, ay, bx, by float64
		want           float64
	}{
		{"perpendicular", 5, 3, 0, 0, 10, 0, 3},
		{"beyond end", 13, 4, 0, 0, 10, 0, 5},
		{"before start", -3, 0, 0, 0, 10, 0, 3},
		{"degenerate", 3, 4, 0, 0, 0, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointSegmentDistance(tt.px, tt.py, tt.ax, tt.ay, tt.bx, tt.by)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRotateTowardsTakesShorterWay(t *testing.T) {
	// From just below +π to just above -π the short way crosses the seam.
	got := RotateTowards(math.Pi-0.1, -math.Pi+0.1, 0.05)
	assert.InDelta(t, math.Pi-0.05, got, 1e-9)

	got = RotateTowards(0, 1, 0.25)
	assert.InDelta(t, 0.25, got, 1e-9)

	got = RotateTowards(0, 0.1, 0.25)
	assert.InDelta(t, 0.1, got, 1e-9)
}

func TestRectCircleOverlap(t *testing.T) {
	r := RectAround(100, 100, 60, 60)
	assert.True(t, r.Contains(100, 100))
	assert.True(t, r.CircleOverlaps(140, 100, 12))
	assert.False(t, r.CircleOverlaps(143, 100, 12))
	assert.True(t, r.Overlaps(RectAround(145, 100, 40, 40)))
	assert.False(t, r.Overlaps(RectAround(200, 100, 40, 40)))
}

func TestApproach(t *testing.T) {
	assert.Equal(t, 5.0, Approach(0, 10, 5))
	assert.Equal(t, 10.0, Approach(8, 10, 5))
	assert.Equal(t, -3.0, Approach(2, -10, 5))
}

func TestSpatialGridFirstAroundPrefersLowestIndex(t *testing.T) {
	g := NewSpatialGrid(1000, 1000, 128)
	g.Insert(300, 300, 4)
	g.Insert(200, 200, 1)
	g.Insert(900, 900, 0)

	got := g.FirstAround(250, 250, func(int) bool { return true })
	assert.Equal(t, 1, got)

	got = g.FirstAround(250, 250, func(i int) bool { return i == 4 })
	assert.Equal(t, 4, got)

	got = g.FirstAround(10, 900, func(int) bool { return true })
	assert.Equal(t, -1, got)

	g.Clear()
	assert.Equal(t, -1, g.FirstAround(900, 900, func(int) bool { return true }))
}
