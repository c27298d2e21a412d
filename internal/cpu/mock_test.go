package cpu

import (
	"math/bits"
	"testing"

	"github.com/retroenv/retrochip8/internal/display"
)

// mockDisplay records the calls of the CPU into a real frame buffer.
type mockDisplay struct {
	buf     display.Buffer
	clears  int
	flushes int
}

func (m *mockDisplay) WriteSprite(x, y int, sprite []byte) bool {
	return m.buf.WriteSprite(x, y, sprite)
}

func (m *mockDisplay) Clear() {
	m.clears++
	m.buf.Clear()
}

func (m *mockDisplay) Flush() {
	m.flushes++
}

// mockKeypad holds a set of pressed keys, bit n is key n.
type mockKeypad struct {
	mask uint16
}

func (m *mockKeypad) PressedKey() (uint8, bool) {
	if m.mask == 0 {
		return 0, false
	}
	return uint8(bits.TrailingZeros16(m.mask)), true
}

func (m *mockKeypad) IsPressed(key uint8) bool {
	return key < 16 && m.mask&(1<<key) != 0
}

func (m *mockKeypad) press(key uint8) {
	m.mask |= 1 << key
}

func (m *mockKeypad) release() {
	m.mask = 0
}

// mockTimer returns the queued tick counts, one per call.
type mockTimer struct {
	ticks []uint
	calls int
}

func (m *mockTimer) ElapsedTicks() uint {
	m.calls++
	if len(m.ticks) == 0 {
		return 0
	}
	t := m.ticks[0]
	m.ticks = m.ticks[1:]
	return t
}

type testCPU struct {
	*CPU
	display *mockDisplay
	keypad  *mockKeypad
	timer   *mockTimer
}

// newTestCPU returns a CPU with the program words loaded.
func newTestCPU(t *testing.T, words []uint16, opts ...Option) *testCPU {
	t.Helper()

	rom := make([]byte, 0, len(words)*2)
	for _, w := range words {
		rom = append(rom, byte(w>>8), byte(w))
	}

	tc := &testCPU{
		display: &mockDisplay{},
		keypad:  &mockKeypad{},
		timer:   &mockTimer{},
	}
	tc.CPU = New(tc.display, tc.keypad, tc.timer, opts...)
	if err := tc.InitMemory(rom); err != nil {
		t.Fatalf("loading rom: %v", err)
	}
	return tc
}

// steps executes n instructions and fails on the first error.
func (tc *testCPU) steps(t *testing.T, n int) {
	t.Helper()
	for range n {
		if err := tc.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
}
