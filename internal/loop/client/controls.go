package client

import (
	"math"

	"github.com/tomz197/starfall/internal/input"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/world"
)

// intents maps one frame of keys to the players' intents. Player one always
// uses WASD, Space and E. The arrow keys belong to player two in co-op, aim
// in manual mode, and otherwise double as player one's movement.
func intents(in input.Input, opts world.Options) (p1 world.Intent, p2 world.Intent, hasP2 bool) {
	p1 = world.Intent{
		MoveX:   in.Axis(input.KeyLeft, input.KeyRight),
		MoveY:   in.Axis(input.KeyUp, input.KeyDown),
		Fire:    in.Down(input.KeyFire),
		Special: in.Tapped(input.KeySpecial),
	}

	arrowX := in.Axis(input.KeyArrowLeft, input.KeyArrowRight)
	arrowY := in.Axis(input.KeyArrowUp, input.KeyArrowDown)

	switch {
	case opts.Coop:
		p2 = world.Intent{
			MoveX:   arrowX,
			MoveY:   arrowY,
			Fire:    in.Down(input.KeyEnter),
			Special: in.Tapped(input.KeyAltSpecial),
		}
		return p1, p2, true
	case opts.ManualAim:
		if arrowX != 0 || arrowY != 0 {
			p1.AimAngle = math.Atan2(float64(arrowY), float64(arrowX))
			p1.HasAim = true
		}
	default:
		if p1.MoveX == 0 {
			p1.MoveX = arrowX
		}
		if p1.MoveY == 0 {
			p1.MoveY = arrowY
		}
		p1.Fire = p1.Fire || in.Down(input.KeyEnter)
	}
	return p1, p2, false
}

// classForChoice maps the select screen's 1-3 keys to classes.
func classForChoice(n int) (object.Class, bool) {
	switch n {
	case 1:
		return object.ClassLarge, true
	case 2:
		return object.ClassMedium, true
	case 3:
		return object.ClassSmall, true
	}
	return 0, false
}

// sequence matches a typed key sequence across frames.
type sequence struct {
	want string
	pos  int
}

// feed consumes bytes and reports whether the sequence completed. busy is
// true while a partial match is pending, so single-key shortcuts that happen
// to be part of the sequence can be ignored.
func (s *sequence) feed(b []byte) (done, busy bool) {
	for _, c := range b {
		if c == s.want[s.pos] {
			s.pos++
			if s.pos == len(s.want) {
				s.pos = 0
				done = true
			}
			continue
		}
		s.pos = 0
		if c == s.want[0] {
			s.pos = 1
		}
	}
	return done, done || s.pos > 0
}
