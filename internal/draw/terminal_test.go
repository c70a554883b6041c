package draw

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingWriter records the size of every write it receives.
type countingWriter struct {
	sizes []int
	buf   bytes.Buffer
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.sizes = append(w.sizes, len(p))
	return w.buf.Write(p)
}

func TestChunkWriterAppliesOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 4, 2)
	cw.WriteAt(1, 1, "hi")
	assert.Zero(t, out.Len(), "nothing is written before Flush")

	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[3;5Hhi", out.String())
	assert.Zero(t, cw.Pending())

	out.Reset()
	cw.SetOffset(0, 0)
	cw.WriteAtColor(2, 3, ColorRed, "x")
	require.NoError(t, cw.Flush())
	assert.True(t, strings.HasPrefix(out.String(), "\033[3;2H"))
	assert.Contains(t, out.String(), "x")
}

func TestFlushSplitsLargeFrames(t *testing.T) {
	w := &countingWriter{}
	cw := NewChunkWriter(w, 0, 0)
	_, _ = cw.Write([]byte(strings.Repeat("a", maxChunkSize*2+10)))
	require.NoError(t, cw.Flush())

	assert.Equal(t, []int{maxChunkSize, maxChunkSize, 10}, w.sizes)
}

func TestTerminalSizeUsesGivenFunc(t *testing.T) {
	w, h, err := TerminalSize(func() (int, int, error) { return 80, 24, nil })
	require.NoError(t, err)
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)

	boom := errors.New("no tty")
	_, _, err = TerminalSize(func() (int, int, error) { return 0, 0, boom })
	assert.ErrorIs(t, err, boom)
}
