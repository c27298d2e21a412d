// Package display implements the CHIP-8 monochrome frame buffer and the XOR
// sprite compositor.
package display

import "math/bits"

const (
	// Width is the number of pixel columns.
	Width = 64
	// Height is the number of pixel rows.
	Height = 32
	// MaxSpriteRows is the maximum height of a sprite in rows.
	MaxSpriteRows = 15
)

// Rows is the raw frame: one word per row, bit 0 is the leftmost column.
type Rows [Height]uint64

// Buffer is a 64x32 one bit per pixel frame buffer.
// The zero value is an empty frame ready for use.
type Buffer struct {
	rows Rows
}

// WriteSprite XORs the sprite onto the frame with its top left corner at
// column x and row y and returns whether any set pixel was cleared.
// The origin wraps around the screen, the sprite itself is clipped at the
// right and bottom edges.
func (b *Buffer) WriteSprite(x, y int, sprite []byte) bool {
	if x >= Width {
		x %= Width
	}
	if y >= Height {
		y %= Height
	}
	if x < 0 || y < 0 {
		return false
	}

	collided := false
	for i, line := range sprite {
		if i >= MaxSpriteRows || y+i >= Height {
			break
		}

		// sprite bytes are MSB first from the left, rows store the leftmost
		// column in bit 0
		shifted := uint64(bits.Reverse8(line)) << uint(x)

		row := &b.rows[y+i]
		collided = collided || *row&shifted != 0
		*row ^= shifted
	}
	return collided
}

// Clear resets every pixel.
func (b *Buffer) Clear() {
	b.rows = Rows{}
}

// Rows returns a copy of the raw frame.
func (b *Buffer) Rows() Rows {
	return b.rows
}

// Pixel returns whether the pixel at column x and row y is set.
// Coordinates outside of the screen report an unset pixel.
func (b *Buffer) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return b.rows[y]&(1<<uint(x)) != 0
}
