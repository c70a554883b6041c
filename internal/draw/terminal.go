package draw

import (
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Terminal control sequences.
const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
)

// maxChunkSize is the maximum bytes to write at once for smooth SSH flow.
const maxChunkSize = 1400

// appendCursor writes a 1-based cursor position sequence into b.
func appendCursor(b *strings.Builder, scratch *[20]byte, col, row int) {
	b.WriteString("\033[")
	b.Write(strconv.AppendInt(scratch[:0], int64(row), 10))
	b.WriteByte(';')
	b.Write(strconv.AppendInt(scratch[:0], int64(col), 10))
	b.WriteByte('H')
}

// writeChunks writes data in pieces no larger than maxChunkSize.
func writeChunks(w io.Writer, data string) error {
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := io.WriteString(w, data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// ChunkWriter collects the text layer of a frame (HUD, menus, popups) and
// flushes it after the canvas. Positions are canvas cells; the centering
// offset is added on write.
type ChunkWriter struct {
	out     io.Writer
	buf     strings.Builder
	scratch [20]byte
	offCol  int
	offRow  int
}

func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{out: w, offCol: offsetCol, offRow: offsetRow}
}

// SetOffset updates the centering offset after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol, cw.offRow = offsetCol, offsetRow
}

func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.buf.Write(p)
}

// WriteAt places s at a 1-based canvas position.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	appendCursor(&cw.buf, &cw.scratch, col+cw.offCol, row+cw.offRow)
	cw.buf.WriteString(s)
}

func (cw *ChunkWriter) WriteAtColor(col, row int, c Color, s string) {
	cw.WriteAt(col, row, Paint(c, s))
}

// Pending reports how many bytes wait for the next Flush.
func (cw *ChunkWriter) Pending() int {
	return cw.buf.Len()
}

// Flush sends everything collected since the last Flush and empties the
// buffer even when the write fails.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	return writeChunks(cw.out, data)
}

var _ io.Writer = (*ChunkWriter)(nil)

// TermSizeFunc reports terminal columns and rows.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of the local stdout terminal.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// TerminalSize asks size for the current dimensions, falling back to the
// local terminal when size is nil.
func TerminalSize(size TermSizeFunc) (width, height int, err error) {
	if size == nil {
		size = DefaultTermSizeFunc
	}
	return size()
}

func ClearScreen(w io.Writer) { _, _ = io.WriteString(w, seqClear) }
func HideCursor(w io.Writer) { _, _ = io.WriteString(w, seqHideCursor) }
func ShowCursor(w io.Writer) { _, _ = io.WriteString(w, seqShowCursor) }
