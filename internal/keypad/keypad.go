// Package keypad provides the CHIP-8 hex keypad state shared between host
// input handlers and the CPU.
package keypad

import (
	"math/bits"
	"sync/atomic"
)

// KeyCount is the number of keys of the hex keypad.
const KeyCount = 16

// State is the set of currently pressed keys. Input goroutines update it,
// the CPU polls it. The zero value has no key pressed.
type State struct {
	pressed atomic.Uint32
}

// Press marks the key as pressed. Keys outside of 0-F are ignored.
func (s *State) Press(key uint8) {
	if key >= KeyCount {
		return
	}
	s.pressed.Or(uint32(1) << key)
}

// Release marks the key as released.
func (s *State) Release(key uint8) {
	if key >= KeyCount {
		return
	}
	s.pressed.And(^(uint32(1) << key))
}

// Set replaces the pressed keys with the bit mask, bit n is key n.
func (s *State) Set(mask uint16) {
	s.pressed.Store(uint32(mask))
}

// Mask returns the pressed keys as bit mask.
func (s *State) Mask() uint16 {
	return uint16(s.pressed.Load())
}

// PressedKey returns the lowest pressed key.
func (s *State) PressedKey() (uint8, bool) {
	mask := s.pressed.Load()
	if mask == 0 {
		return 0, false
	}
	return uint8(bits.TrailingZeros32(mask)), true
}

// IsPressed returns whether the key is pressed.
func (s *State) IsPressed(key uint8) bool {
	if key >= KeyCount {
		return false
	}
	return s.pressed.Load()&(1<<key) != 0
}
