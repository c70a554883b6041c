package input

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeysAndArrows(t *testing.T) {
	s := newStream()
	now := time.Unix(100, 0)

	in := s.parse([]byte("wd \x1b[A\x1b[Dx"), now)

	assert.Equal(t, []Key{KeyUp, KeyRight, KeyFire, KeyArrowUp, KeyArrowLeft}, in.Pressed)
	assert.True(t, in.Down(KeyUp))
	assert.True(t, in.Down(KeyArrowLeft))
	assert.False(t, in.Down(KeyEscape), "escape that starts an arrow sequence is not a key")
	assert.Equal(t, 1, in.Axis(KeyLeft, KeyRight))
	assert.Equal(t, -1, in.Axis(KeyUp, KeyDown))
	assert.Equal(t, -1, in.Number)
}

func TestLoneEscape(t *testing.T) {
	s := newStream()
	in := s.parse([]byte{'\x1b'}, time.Unix(0, 0))
	assert.True(t, in.Tapped(KeyEscape))
}

func TestHoldWindow(t *testing.T) {
	s := newStream()
	start := time.Unix(100, 0)
	s.parse([]byte("a"), start)

	in := s.parse(nil, start.Add(keyHoldDuration/2))
	assert.True(t, in.Down(KeyLeft), "still held between auto-repeats")
	assert.False(t, in.Tapped(KeyLeft))

	in = s.parse(nil, start.Add(keyHoldDuration))
	assert.False(t, in.Down(KeyLeft))
}

func TestResetReleasesKeys(t *testing.T) {
	s := newStream()
	now := time.Unix(100, 0)
	s.parse([]byte(" "), now)
	s.Reset()
	assert.False(t, s.parse(nil, now).Down(KeyFire))
}

func TestDigits(t *testing.T) {
	s := newStream()
	in := s.parse([]byte("2"), time.Unix(0, 0))
	assert.Equal(t, 2, in.Number)
	assert.Empty(t, in.Pressed)
}

func TestReadInputFromReader(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("q")))

	var in Input
	require.Eventually(t, func() bool {
		in = ReadInput(s)
		return in.Closed
	}, time.Second, time.Millisecond)

	// The quit byte may arrive in an earlier frame than the close.
	assert.True(t, s.closed)
	assert.False(t, ReadInput(s).Tapped(KeyQuit), "a closed stream yields no new keys")
}
