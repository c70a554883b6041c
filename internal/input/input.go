// Package input decodes a raw terminal byte stream into key state. A
// terminal only reports key presses, so a key counts as held for a short
// window after its last press (auto-repeat keeps it alive).
package input

import (
	"bufio"
	"slices"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 120 * time.Millisecond

// Key is a logical key.
type Key int

const (
	KeyNone Key = iota
	KeyUp       // W
	KeyDown     // S
	KeyLeft     // A
	KeyRight    // D
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyFire       // Space
	KeySpecial    // E
	KeyAltSpecial // '/', player two in co-op
	KeyEnter      // Also player two's fire in co-op
	KeyEscape
	KeyPause   // P
	KeyQuit    // Q
	KeyYes     // Y
	KeyNo      // N
	KeyOptions // O
	KeyRestart // R
	KeyMenu    // M
	keyCount
)

// Input represents the current frame's input state.
type Input struct {
	Held    [keyCount]bool // Pressed within the hold window
	Pressed []Key          // Keys pressed this frame, in order
	Number  int            // Digit pressed this frame, or -1
	Raw     []byte         // Bytes read this frame
	Closed  bool           // The reader is gone
}

// Down reports whether k is held.
func (in Input) Down(k Key) bool {
	return in.Held[k]
}

// Tapped reports whether k was pressed this frame.
func (in Input) Tapped(k Key) bool {
	return slices.Contains(in.Pressed, k)
}

// Axis returns -1, 0 or 1 from a pair of held keys.
func (in Input) Axis(neg, pos Key) int {
	v := 0
	if in.Held[neg] {
		v--
	}
	if in.Held[pos] {
		v++
	}
	return v
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	last   [keyCount]time.Time
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 128)}
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	var buf []byte
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	return s.parse(buf, time.Now())
}

// Reset forgets held keys, so a key that started a screen transition does
// not leak into the next screen.
func (s *Stream) Reset() {
	s.last = [keyCount]time.Time{}
}

// parse decodes buf, updates the key timestamps and builds the frame's Input.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	in := Input{Number: -1, Raw: buf, Closed: s.closed}

	press := func(k Key) {
		s.last[k] = now
		in.Pressed = append(in.Pressed, k)
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if k, ok := arrowKey(buf[i+2]); ok {
				press(k)
				i += 2
				continue
			}
		}

		if b >= '0' && b <= '9' {
			in.Number = int(b - '0')
			continue
		}
		if k := byteKey(b); k != KeyNone {
			press(k)
		}
	}

	for k := range in.Held {
		in.Held[k] = !s.last[k].IsZero() && now.Sub(s.last[k]) < keyHoldDuration
	}
	return in
}

func arrowKey(code byte) (Key, bool) {
	switch code {
	case 'A':
		return KeyArrowUp, true
	case 'B':
		return KeyArrowDown, true
	case 'C':
		return KeyArrowRight, true
	case 'D':
		return KeyArrowLeft, true
	}
	return KeyNone, false
}

// byteKey maps a single byte to its key.
func byteKey(b byte) Key {
	switch b {
	case 'q', 'Q', '\x03': // Ctrl+C
		return KeyQuit
	case 'w', 'W':
		return KeyUp
	case 's', 'S':
		return KeyDown
	case 'a', 'A':
		return KeyLeft
	case 'd', 'D':
		return KeyRight
	case 'e', 'E':
		return KeySpecial
	case 'p', 'P':
		return KeyPause
	case 'y', 'Y':
		return KeyYes
	case 'n', 'N':
		return KeyNo
	case 'o', 'O':
		return KeyOptions
	case 'r', 'R':
		return KeyRestart
	case 'm', 'M':
		return KeyMenu
	case ' ':
		return KeyFire
	case '/':
		return KeyAltSpecial
	case '\n', '\r':
		return KeyEnter
	case '\x1b':
		return KeyEscape
	}
	return KeyNone
}
