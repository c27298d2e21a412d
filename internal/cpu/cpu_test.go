package cpu

import (
	"errors"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestInitMemory(t *testing.T) {
	tc := newTestCPU(t, []uint16{0x1234})

	for i, b := range chip8.Font {
		assert.Equal(t, b, tc.Memory(uint16(i)))
	}
	assert.Equal(t, byte(0x12), tc.Memory(0x200))
	assert.Equal(t, byte(0x34), tc.Memory(0x201))

	regs := tc.Registers()
	assert.Equal(t, uint16(chip8.ProgramStart), regs.PC)
	assert.Equal(t, 1, tc.display.clears)
}

func TestInitMemory_Boundary(t *testing.T) {
	c := New(&mockDisplay{}, &mockKeypad{}, &mockTimer{})

	err := c.InitMemory(make([]byte, chip8.MemorySize-chip8.ProgramStart))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrROMTooBig))

	var tooBig *ROMTooBigError
	assert.True(t, errors.As(err, &tooBig))
	assert.Equal(t, chip8.MemorySize-chip8.ProgramStart, tooBig.Size)

	err = c.InitMemory(make([]byte, chip8.MemorySize-chip8.ProgramStart-1))
	assert.NoError(t, err)
}

func TestInitMemory_ResetsState(t *testing.T) {
	tc := newTestCPU(t, []uint16{0x6042, 0xA123, 0x2200})
	tc.steps(t, 3)

	assert.NoError(t, tc.InitMemory([]byte{0x00, 0xE0}))
	regs := tc.Registers()
	assert.Equal(t, uint8(0), regs.V[0])
	assert.Equal(t, uint16(0), regs.I)
	assert.Equal(t, uint16(chip8.ProgramStart), regs.PC)
	assert.Len(t, regs.Stack, 0)
	assert.Equal(t, byte(0), tc.Memory(0x202))
}

func TestStep_AddReg(t *testing.T) {
	tests := []struct {
		name   string
		vx, vy uint8
		result uint8
		flag   uint8
	}{
		{"overflow", 0xFF, 0x01, 0x00, 1},
		{"no overflow", 0x01, 0x01, 0x02, 0},
		{"max without overflow", 0xFE, 0x01, 0xFF, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCPU(t, []uint16{0x6000 | uint16(tt.vx), 0x6100 | uint16(tt.vy), 0x8014})
			tc.steps(t, 3)

			regs := tc.Registers()
			assert.Equal(t, tt.result, regs.V[0])
			assert.Equal(t, tt.flag, regs.V[0xF])
		})
	}
}

func TestStep_AddImm(t *testing.T) {
	tc := newTestCPU(t, []uint16{0x60FF, 0x7002})
	tc.steps(t, 2)
	regs := tc.Registers()
	assert.Equal(t, uint8(0x01), regs.V[0])
	assert.Equal(t, uint8(1), regs.V[0xF])

	tc = newTestCPU(t, []uint16{0x6F07, 0x60FF, 0x7002}, WithQuirks(Quirks{AddImmKeepsVF: true}))
	tc.steps(t, 3)
	regs = tc.Registers()
	assert.Equal(t, uint8(0x01), regs.V[0])
	assert.Equal(t, uint8(7), regs.V[0xF])
}

func TestStep_Subtract(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		vx, vy uint8
		result uint8
		flag   uint8
	}{
		{"sub no borrow", 0x8015, 0x05, 0x03, 0x02, 1},
		{"sub borrow", 0x8015, 0x03, 0x05, 0xFE, 0},
		{"sub equal", 0x8015, 0x07, 0x07, 0x00, 1},
		{"subn no borrow", 0x8017, 0x03, 0x05, 0x02, 1},
		{"subn borrow", 0x8017, 0x05, 0x03, 0xFE, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCPU(t, []uint16{0x6000 | uint16(tt.vx), 0x6100 | uint16(tt.vy), tt.opcode})
			tc.steps(t, 3)

			regs := tc.Registers()
			assert.Equal(t, tt.result, regs.V[0])
			assert.Equal(t, tt.flag, regs.V[0xF])
		})
	}
}

func TestStep_FlagWrittenAfterResult(t *testing.T) {
	tc := newTestCPU(t, []uint16{0x6FFF, 0x6101, 0x8F14})
	tc.steps(t, 3)
	assert.Equal(t, uint8(1), tc.Registers().V[0xF])
}

func TestStep_Shift(t *testing.T) {
	tests := []struct {
		name   string
		words  []uint16
		quirks Quirks
		result uint8
		flag   uint8
	}{
		{"right", []uint16{0x6003, 0x8006}, Quirks{}, 0x01, 1},
		{"right no carry", []uint16{0x6002, 0x8006}, Quirks{}, 0x01, 0},
		{"left", []uint16{0x6081, 0x800E}, Quirks{}, 0x02, 1},
		{"left no carry", []uint16{0x6001, 0x800E}, Quirks{}, 0x02, 0},
		{"right ignores vy", []uint16{0x6004, 0x61FF, 0x8016}, Quirks{}, 0x02, 0},
		{"right vy quirk", []uint16{0x6004, 0x6103, 0x8016}, Quirks{ShiftUsesVY: true}, 0x01, 1},
		{"left vy quirk", []uint16{0x6004, 0x6181, 0x801E}, Quirks{ShiftUsesVY: true}, 0x02, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCPU(t, tt.words, WithQuirks(tt.quirks))
			tc.steps(t, len(tt.words))

			regs := tc.Registers()
			assert.Equal(t, tt.result, regs.V[0])
			assert.Equal(t, tt.flag, regs.V[0xF])
		})
	}
}

func TestStep_Logic(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		result uint8
	}{
		{"load", 0x8010, 0x0F},
		{"or", 0x8011, 0x3F},
		{"and", 0x8012, 0x0C},
		{"xor", 0x8013, 0x33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCPU(t, []uint16{0x603C, 0x610F, tt.opcode})
			tc.steps(t, 3)
			assert.Equal(t, tt.result, tc.Registers().V[0])
		})
	}
}

func TestStep_RegisterRoundTrip(t *testing.T) {
	values := [][4]uint8{
		{0x00, 0x00, 0x00, 0x00},
		{0xFF, 0xFF, 0xFF, 0xFF},
		{0x01, 0x80, 0x7F, 0xFE},
		{0x12, 0x34, 0x56, 0x78},
	}

	for _, v := range values {
		words := []uint16{
			0x6000 | uint16(v[0]),
			0x6100 | uint16(v[1]),
			0x6200 | uint16(v[2]),
			0x6300 | uint16(v[3]),
			0x64AA,
			0xA300,
			0xF355, // store V0..V3
			0x6000, 0x6100, 0x6200, 0x6300,
			0xF365, // load V0..V3
		}
		tc := newTestCPU(t, words)
		tc.steps(t, len(words))

		regs := tc.Registers()
		for n := range 4 {
			assert.Equal(t, v[n], regs.V[n])
			assert.Equal(t, v[n], tc.Memory(0x300+uint16(n)))
		}
		assert.Equal(t, uint8(0xAA), regs.V[4])
		assert.Equal(t, byte(0), tc.Memory(0x304))
		assert.Equal(t, uint16(0x300), regs.I)
	}
}

func TestStep_DrawCollision(t *testing.T) {
	tc := newTestCPU(t, []uint16{0x6000, 0x6100, 0xF029, 0xD015, 0xD015})
	tc.steps(t, 4)

	assert.Equal(t, uint8(0), tc.Registers().V[0xF])
	assert.True(t, tc.display.buf.Pixel(0, 0))
	assert.Equal(t, 1, tc.display.flushes)

	tc.steps(t, 1)
	assert.Equal(t, uint8(1), tc.Registers().V[0xF])
	assert.False(t, tc.display.buf.Pixel(0, 0))
	assert.Equal(t, 2, tc.display.flushes)
}

func TestStep_DrawWrapsMemory(t *testing.T) {
	tc := newTestCPU(t, []uint16{0xAFFF, 0xD01F})
	tc.steps(t, 2)
	assert.Equal(t, uint8(0), tc.Registers().V[0xF])
}

func TestStep_ClearScreen(t *testing.T) {
	tc := newTestCPU(t, []uint16{0xD015, 0x00E0})
	tc.steps(t, 2)
	assert.Equal(t, 2, tc.display.clears)
	assert.Equal(t, 2, tc.display.flushes)
	assert.False(t, tc.display.buf.Pixel(0, 0))
}

func TestStep_JumpCallReturn(t *testing.T) {
	tc := newTestCPU(t, []uint16{
		0x2206, // 200: call 206
		0x1204, // 202: jp 204
		0x120A, // 204: jp 20A
		0x00EE, // 206: ret
	})

	tc.steps(t, 1)
	regs := tc.Registers()
	assert.Equal(t, uint16(0x206), regs.PC)
	assert.Equal(t, []uint16{0x202}, regs.Stack)

	tc.steps(t, 1)
	regs = tc.Registers()
	assert.Equal(t, uint16(0x202), regs.PC)
	assert.Len(t, regs.Stack, 0)

	tc.steps(t, 2)
	assert.Equal(t, uint16(0x20A), tc.Registers().PC)
}

func TestStep_ReturnEmptyStack(t *testing.T) {
	tc := newTestCPU(t, []uint16{0x1204, 0x0000, 0x00EE})
	tc.steps(t, 2)
	assert.Equal(t, uint16(chip8.ProgramStart), tc.Registers().PC)

	tc = newTestCPU(t, []uint16{0x00EE}, WithUnderflowPolicy(UnderflowError))
	err := tc.Step()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestStep_StackOverflow(t *testing.T) {
	tc := newTestCPU(t, []uint16{0x2200})
	tc.steps(t, chip8.StackSize)
	assert.Len(t, tc.Registers().Stack, chip8.StackSize)

	err := tc.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))

	tc = newTestCPU(t, []uint16{0x2200}, WithStackLimit(2))
	tc.steps(t, 2)
	assert.True(t, errors.Is(tc.Step(), ErrStackOverflow))
}

func TestStep_Skips(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		pc     uint16
	}{
		{"se immediate taken", 0x3005, 0x208},
		{"se immediate not taken", 0x3006, 0x206},
		{"sne immediate taken", 0x4006, 0x208},
		{"sne immediate not taken", 0x4005, 0x206},
		{"se register taken", 0x5010, 0x208},
		{"se register not taken", 0x5020, 0x206},
		{"sne register taken", 0x9020, 0x208},
		{"sne register not taken", 0x9010, 0x206},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCPU(t, []uint16{0x6005, 0x6105, tt.opcode})
			tc.steps(t, 3)
			assert.Equal(t, tt.pc, tc.Registers().PC)
		})
	}
}

func TestStep_KeySkips(t *testing.T) {
	tests := []struct {
		name    string
		opcode  uint16
		key     uint8
		pressed bool
		pc      uint16
	}{
		{"skp pressed", 0xE09E, 0x7, true, 0x206},
		{"skp other key", 0xE09E, 0x3, true, 0x204},
		{"skp released", 0xE09E, 0x7, false, 0x204},
		{"sknp pressed", 0xE0A1, 0x7, true, 0x204},
		{"sknp other key", 0xE0A1, 0x3, true, 0x206},
		{"sknp released", 0xE0A1, 0x7, false, 0x206},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCPU(t, []uint16{0x6007, tt.opcode})
			if tt.pressed {
				tc.keypad.press(tt.key)
			}
			tc.steps(t, 2)
			assert.Equal(t, tt.pc, tc.Registers().PC)
		})
	}
}

func TestStep_KeySkipsWithLowerKeyHeld(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		pc     uint16
	}{
		{"skp", 0xE09E, 0x206},
		{"sknp", 0xE0A1, 0x204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCPU(t, []uint16{0x600C, tt.opcode})
			tc.keypad.press(0x1)
			tc.keypad.press(0xC)
			tc.steps(t, 2)
			assert.Equal(t, tt.pc, tc.Registers().PC)
		})
	}
}

func TestStep_KeySkipsKeypadState(t *testing.T) {
	keys := &keypad.State{}
	keys.Press(0x1)
	keys.Press(0xC)

	c := New(&mockDisplay{}, keys, &mockTimer{})
	assert.NoError(t, c.InitMemory([]byte{0x60, 0x0C, 0xE0, 0x9E}))
	assert.NoError(t, c.Step())
	assert.NoError(t, c.Step())
	assert.Equal(t, uint16(0x206), c.Registers().PC)
}

func TestStep_WaitKey(t *testing.T) {
	tc := newTestCPU(t, []uint16{0xF30A})

	tc.steps(t, 3)
	assert.Equal(t, uint16(0x200), tc.Registers().PC)

	tc.keypad.press(0xB)
	tc.steps(t, 1)
	regs := tc.Registers()
	assert.Equal(t, uint16(0x202), regs.PC)
	assert.Equal(t, uint8(0xB), regs.V[3])

	tc.keypad.release()
}

func TestStep_Timers(t *testing.T) {
	tc := newTestCPU(t, []uint16{0x603C, 0xF015, 0xF018, 0xF107, 0xF207})
	tc.timer.ticks = []uint{0, 0, 0, 10, 1000}

	tc.steps(t, 3)
	regs := tc.Registers()
	assert.Equal(t, uint8(60), regs.Delay)
	assert.Equal(t, uint8(60), regs.Sound)
	assert.True(t, tc.SoundActive())

	tc.steps(t, 1)
	assert.Equal(t, uint8(50), tc.Registers().V[1])

	tc.steps(t, 1)
	regs = tc.Registers()
	assert.Equal(t, uint8(0), regs.V[2])
	assert.Equal(t, uint8(0), regs.Sound)
	assert.False(t, tc.SoundActive())
	assert.Equal(t, 5, tc.timer.calls)
}

func TestStep_AddressOps(t *testing.T) {
	tc := newTestCPU(t, []uint16{0x60FE, 0xA300, 0xF033})
	tc.steps(t, 3)
	assert.Equal(t, byte(2), tc.Memory(0x300))
	assert.Equal(t, byte(5), tc.Memory(0x301))
	assert.Equal(t, byte(4), tc.Memory(0x302))

	tc = newTestCPU(t, []uint16{0x600A, 0xF029})
	tc.steps(t, 2)
	assert.Equal(t, uint16(50), tc.Registers().I)

	tc = newTestCPU(t, []uint16{0x6005, 0xA100, 0xF01E})
	tc.steps(t, 3)
	regs := tc.Registers()
	assert.Equal(t, uint16(0x105), regs.I)
	assert.Equal(t, uint8(0), regs.V[0xF])
}

func TestStep_JumpV0(t *testing.T) {
	tc := newTestCPU(t, []uint16{0x6004, 0xB300})
	tc.steps(t, 2)
	assert.Equal(t, uint16(0x304), tc.Registers().PC)
}

func TestStep_Random(t *testing.T) {
	tc := newTestCPU(t, []uint16{0xC00F}, WithRandom(func() byte { return 0xAB }))
	tc.steps(t, 1)
	assert.Equal(t, uint8(0x0B), tc.Registers().V[0])
}

func TestStep_InvalidInstruction(t *testing.T) {
	tc := newTestCPU(t, []uint16{0x6001, 0x0123})
	tc.steps(t, 1)

	err := tc.Step()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInstruction))

	var invalid *InvalidInstructionError
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, uint16(0x0123), invalid.Opcode)
	assert.Equal(t, uint16(0x202), invalid.Address)
}

func TestHandlers_Complete(t *testing.T) {
	for op := chip8.OpInvalid + 1; int(op) <= chip8.OpCount; op++ {
		assert.True(t, handlers[op] != nil, "missing handler for op %d", op)
	}
}

func TestStep_Trace(t *testing.T) {
	tc := newTestCPU(t, []uint16{0x6001, 0x7001},
		WithLogger(log.NewTestLogger(t)), WithTrace(true))
	tc.steps(t, 2)
	assert.Equal(t, uint8(2), tc.Registers().V[0])
}

func TestNotImplementedError(t *testing.T) {
	err := &NotImplementedError{Instruction: chip8.Instruction{Op: chip8.OpDraw, X: 1, Y: 2, N: 3}}
	assert.True(t, errors.Is(err, ErrInstructionNotImplemented))
	assert.Equal(t, "instruction not implemented: drw V1, V2, $3", err.Error())
}
