package physics

import "math"

// SpatialGrid buckets indices by position so a lookup only visits the 3x3
// block of cells around a point. The cell size must be at least the largest
// interaction distance of what is inserted.
type SpatialGrid struct {
	size       float64
	cols, rows int
	buckets    [][]int // row-major, emptied but not freed by Clear
}

func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := max(1, int(math.Ceil(width/cellSize)))
	rows := max(1, int(math.Ceil(height/cellSize)))
	return &SpatialGrid{
		size:    cellSize,
		cols:    cols,
		rows:    rows,
		buckets: make([][]int, cols*rows),
	}
}

func (g *SpatialGrid) Clear() {
	for i := range g.buckets {
		g.buckets[i] = g.buckets[i][:0]
	}
}

// Insert files index under the cell containing (x, y). Points outside the
// grid go to the closest edge cell.
func (g *SpatialGrid) Insert(x, y float64, index int) {
	col, row := g.cell(x, y)
	b := row*g.cols + col
	g.buckets[b] = append(g.buckets[b], index)
}

// FirstAround returns the smallest index near (x, y) accepted by match, or
// -1. The smallest index wins so results follow insertion order rather than
// cell layout.
func (g *SpatialGrid) FirstAround(x, y float64, match func(index int) bool) int {
	col, row := g.cell(x, y)
	best := -1
	for r := max(0, row-1); r <= min(g.rows-1, row+1); r++ {
		for c := max(0, col-1); c <= min(g.cols-1, col+1); c++ {
			for _, i := range g.buckets[r*g.cols+c] {
				if (best < 0 || i < best) && match(i) {
					best = i
				}
			}
		}
	}
	return best
}

func (g *SpatialGrid) cell(x, y float64) (col, row int) {
	col = int(Clamp(math.Floor(x/g.size), 0, float64(g.cols-1)))
	row = int(Clamp(math.Floor(y/g.size), 0, float64(g.rows-1)))
	return col, row
}
