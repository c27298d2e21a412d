// Package terminal runs the CHIP-8 display and keypad on a text terminal.
// Two pixel rows are combined into one character line using half blocks.
package terminal

import (
	"bytes"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/display"
)

const (
	escClearScreen = "\x1b[2J"
	escCursorHome  = "\x1b[H"
	escHideCursor  = "\x1b[?25l"
	escShowCursor  = "\x1b[?25h"
)

// Lines is the number of terminal lines a frame needs.
const Lines = display.Height / 2

var halfBlocks = [4]string{
	" ", // no pixel set
	"▀", // upper pixel set
	"▄", // lower pixel set
	"█", // both pixels set
}

// Renderer draws frames to a terminal writer.
type Renderer struct {
	w       io.Writer
	buf     bytes.Buffer
	started bool
}

// NewRenderer returns a renderer that writes to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Render draws the frame. The first call clears the screen, every frame
// is drawn from the top left corner.
func (r *Renderer) Render(rows display.Rows) error {
	r.buf.Reset()
	if !r.started {
		r.buf.WriteString(escHideCursor + escClearScreen)
		r.started = true
	}
	r.buf.WriteString(escCursorHome)
	writeFrame(&r.buf, rows)

	if _, err := r.w.Write(r.buf.Bytes()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Close shows the cursor again if a frame was rendered.
func (r *Renderer) Close() error {
	if !r.started {
		return nil
	}
	if _, err := io.WriteString(r.w, escShowCursor+"\r\n"); err != nil {
		return fmt.Errorf("restoring cursor: %w", err)
	}
	return nil
}

// writeFrame writes the frame as text lines. Lines end with CRLF as the
// terminal is in raw mode while the emulator runs.
func writeFrame(buf *bytes.Buffer, rows display.Rows) {
	for y := 0; y < display.Height; y += 2 {
		upper, lower := rows[y], rows[y+1]
		for x := range display.Width {
			cell := upper>>x&1 | (lower>>x&1)<<1
			buf.WriteString(halfBlocks[cell])
		}
		buf.WriteString("\r\n")
	}
}
