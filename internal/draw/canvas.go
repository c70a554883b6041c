package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// cell is what a terminal cell showed after the last Render.
type cell struct {
	top, bottom Color
}

// Canvas is a color drawing buffer with 2x vertical resolution using
// half-block characters. It maps logical coordinates onto the terminal and
// only rewrites cells that changed since the previous Render.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x], ColorNone if empty
	shown          []cell  // Last rendered state per terminal cell
	textDirty      []bool  // Cells overwritten by text since the last Render
	forceRedraw    bool
	pen            Color

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64 // In sub-pixels
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets for centering the render area
	offsetCol int
	offsetRow int

	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewCanvas creates an unscaled canvas for the given terminal dimensions.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to
// terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		pen:           ColorWhite,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size. A size change forces a full redraw.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	if c.pixels == nil || termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.shown = make([]cell, termWidth*termHeight)
		c.textDirty = make([]bool, termWidth*termHeight)
		c.forceRedraw = true
	}
	if c.logicalWidth > 0 {
		c.scaleX = float64(termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.forceRedraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render rewrite every cell, for use after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// MarkTextDirty records that text was written over n cells starting at the
// 1-based canvas position (col, row), so the next Render repaints them.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for i := 0; i < n; i++ {
		x := col - 1 + i
		if x >= 0 && x < c.termWidth {
			c.textDirty[r*c.termWidth+x] = true
		}
	}
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// SetColor sets the pen used by the drawing methods.
func (c *Canvas) SetColor(col Color) {
	c.pen = col
}

// Pen returns the current pen color.
func (c *Canvas) Pen() Color {
	return c.pen
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = c.pen
	}
}

// Set sets a pixel at logical coordinates.
func (c *Canvas) Set(x, y int) {
	c.SetFloat(float64(x), float64(y))
}

// SetFloat sets a pixel using float logical coordinates.
func (c *Canvas) SetFloat(x, y float64) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)))
}

// At returns the color of the pixel at terminal pixel coordinates.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return ColorNone
	}
	return c.pixels[y*c.termWidth+x]
}

// DrawLine draws a line with Bresenham's algorithm. Coordinates are
// logical and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	// Lines far outside the canvas are skipped instead of walked pixel by pixel
	if (x1 < 0 && x2 < 0) || (y1 < 0 && y2 < 0) ||
		(x1 >= c.termWidth && x2 >= c.termWidth) || (y1 >= c.subPixelHeight && y2 >= c.subPixelHeight) {
		return
	}

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		c.setPixel(x1, y1)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon outline, filling the interior first when
// filled is true.
func (c *Canvas) DrawPolygon(points []Point, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points)
	}
	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n])
	}
}

// DrawCircle draws a circle outline of logical radius r.
func (c *Canvas) DrawCircle(center Point, r float64, filled bool) {
	if r <= 0 {
		c.SetFloat(center.X, center.Y)
		return
	}
	// One segment per couple of pixels along the circumference
	segments := int(2 * math.Pi * r * max(c.scaleX, c.scaleY) / 2)
	segments = min(max(segments, 8), 96)

	pts := c.BorrowPoints(segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = Point{X: center.X + math.Cos(a)*r, Y: center.Y + math.Sin(a)*r}
	}
	c.DrawPolygon(pts, filled)
}

// fillPolygon fills a polygon with a scanline pass in pixel space.
func (c *Canvas) fillPolygon(points []Point) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5
		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections
		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := max(int(math.Ceil(intersections[i])), 0)
			xEnd := min(int(math.Floor(intersections[i+1])), c.termWidth-1)
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y)
			}
		}
	}
}

// Render writes every cell that changed since the previous Render using
// half-block characters with 256-color escapes.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	var fg, bg Color = ColorNone, ColorNone
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		for col := 0; col < c.termWidth; col++ {
			i := row*c.termWidth + col
			now := cell{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			if !c.forceRedraw && !c.textDirty[i] && now == c.shown[i] {
				continue
			}
			c.shown[i] = now
			c.textDirty[i] = false

			c.moveTo(col, row)
			ch, wantFg, wantBg := glyph(now)
			if wantFg != fg || wantBg != bg {
				c.renderBuf.WriteString(sgr(wantFg, wantBg))
				fg, bg = wantFg, wantBg
			}
			c.renderBuf.WriteRune(ch)
		}
	}
	if fg != ColorNone || bg != ColorNone {
		c.renderBuf.WriteString(ColorReset)
	}
	c.forceRedraw = false

	_ = writeChunks(w, c.renderBuf.String())
}

func (c *Canvas) moveTo(col, row int) {
	appendCursor(&c.renderBuf, &c.numBuf, col+1+c.offsetCol, row+1+c.offsetRow)
}

// glyph picks the half-block character and colors for a cell.
func glyph(cl cell) (ch rune, fg, bg Color) {
	switch {
	case cl.top == ColorNone && cl.bottom == ColorNone:
		return BlockEmpty, ColorNone, ColorNone
	case cl.top == cl.bottom:
		return BlockFull, cl.top, ColorNone
	case cl.bottom == ColorNone:
		return BlockUpperHalf, cl.top, ColorNone
	case cl.top == ColorNone:
		return BlockLowerHalf, cl.bottom, ColorNone
	default:
		return BlockUpperHalf, cl.top, cl.bottom
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right bars
	hasV := c.offsetRow >= 1 // Room for top/bottom bars
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			writeAt(&buf, left, top, "┌"+line+"┐")
			writeAt(&buf, left, bottom, "└"+line+"┘")
		} else {
			writeAt(&buf, c.offsetCol+1, top, line)
			writeAt(&buf, c.offsetCol+1, bottom, line)
		}
	}
	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			writeAt(&buf, left, row, "│")
			writeAt(&buf, right, row, "│")
		}
	}
	io.WriteString(w, buf.String())
}

func writeAt(b *strings.Builder, col, row int, s string) {
	b.WriteString("\033[")
	b.WriteString(strconv.Itoa(row))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(col))
	b.WriteByte('H')
	b.WriteString(s)
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height, in sub-pixels.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based canvas
// position (col, row), for text placed over drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The slice is only valid until the next call.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}
