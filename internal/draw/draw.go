// Package draw renders to ANSI terminals: a scaled half-block color canvas,
// a chunked text writer and a few escape helpers.
package draw

import (
	"strconv"
	"strings"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Shade characters from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockLight     = '░'
	BlockMedium    = '▒'
	BlockDark      = '▓'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a canvas palette entry. ColorNone marks an empty pixel.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorGray
	ColorDim
	ColorRed
	ColorOrange
	ColorYellow
	ColorGreen
	ColorCyan
	ColorBlue
	ColorMagenta
	ColorPink
	colorCount
)

// xterm-256 codes per palette entry.
var palette = [colorCount]int{
	ColorNone:    0,
	ColorWhite:   255,
	ColorGray:    246,
	ColorDim:     239,
	ColorRed:     196,
	ColorOrange:  208,
	ColorYellow:  226,
	ColorGreen:   46,
	ColorCyan:    51,
	ColorBlue:    33,
	ColorMagenta: 201,
	ColorPink:    213,
}

// Code returns the xterm-256 code of the color.
func (c Color) Code() int {
	if c >= colorCount {
		return palette[ColorWhite]
	}
	return palette[c]
}

// Fade returns a dimmer color for alpha below the thresholds, so fading
// entities step down through gray on a terminal without transparency.
func (c Color) Fade(alpha float64) Color {
	switch {
	case alpha <= 0.05:
		return ColorNone
	case alpha < 0.35:
		return ColorDim
	case alpha < 0.6 && c != ColorDim:
		return ColorGray
	}
	return c
}

// Text escapes.
const (
	ColorReset      = "\033[0m"
	ColorBold       = "\033[1m"
	ColorBrightCyan = "\033[96m"
)

// sgr returns the escape that selects fg and bg, resetting everything else.
func sgr(fg, bg Color) string {
	if fg == ColorNone && bg == ColorNone {
		return ColorReset
	}
	var b strings.Builder
	b.WriteString("\033[0")
	if fg != ColorNone {
		b.WriteString(";38;5;")
		b.WriteString(strconv.Itoa(fg.Code()))
	}
	if bg != ColorNone {
		b.WriteString(";48;5;")
		b.WriteString(strconv.Itoa(bg.Code()))
	}
	b.WriteByte('m')
	return b.String()
}

// Paint wraps s in the escape for a foreground color.
func Paint(c Color, s string) string {
	if c == ColorNone {
		return s
	}
	return sgr(c, ColorNone) + s + ColorReset
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
