package display

import "sync"

// Renderer presents a frame on a host surface.
type Renderer interface {
	Render(rows Rows) error
}

// NopRenderer discards all frames.
type NopRenderer struct{}

// Render implements Renderer.
func (NopRenderer) Render(Rows) error { return nil }

// Screen is a frame buffer attached to a renderer. The CPU draws into it and
// flushes, renderers may read the latest flushed frame from other goroutines.
type Screen struct {
	buf      Buffer
	renderer Renderer

	mu      sync.Mutex
	flushed Rows
	frames  uint64
	err     error
}

// NewScreen returns a screen that presents flushed frames with the renderer.
// A nil renderer discards them.
func NewScreen(renderer Renderer) *Screen {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	return &Screen{renderer: renderer}
}

// WriteSprite draws a sprite, see Buffer.WriteSprite.
func (s *Screen) WriteSprite(x, y int, sprite []byte) bool {
	return s.buf.WriteSprite(x, y, sprite)
}

// Clear resets every pixel of the working frame.
func (s *Screen) Clear() {
	s.buf.Clear()
}

// Flush publishes the working frame and hands it to the renderer.
// A render error is kept and returned by Err, later flushes keep rendering.
func (s *Screen) Flush() {
	rows := s.buf.Rows()

	s.mu.Lock()
	s.flushed = rows
	s.frames++
	s.mu.Unlock()

	if err := s.renderer.Render(rows); err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}
}

// Frame returns the last flushed frame and the number of flushes so far.
func (s *Screen) Frame() (Rows, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushed, s.frames
}

// Err returns the last render error.
func (s *Screen) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
