// Package cpu implements the CHIP-8 virtual CPU: memory, registers, call
// stack and the fetch-decode-execute cycle.
package cpu

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// Display is the sink for all drawing done by the CPU.
type Display interface {
	// WriteSprite XORs a sprite onto the frame and returns whether a set
	// pixel was cleared.
	WriteSprite(x, y int, sprite []byte) bool
	// Clear resets all pixels.
	Clear()
	// Flush signals that the frame changed and should be presented.
	Flush()
}

// Keypad reports the pressed hex keys. It must never block.
type Keypad interface {
	// PressedKey returns the lowest pressed key.
	PressedKey() (uint8, bool)
	// IsPressed returns whether the key is held.
	IsPressed(key uint8) bool
}

// Timer reports the number of 60 Hz intervals since its last call.
type Timer interface {
	ElapsedTicks() uint
}

// Registers is a snapshot of the CPU register state.
type Registers struct {
	V     [chip8.RegisterCount]uint8
	I     uint16
	PC    uint16
	Delay uint8
	Sound uint8
	Stack []uint16
}

// CPU is a CHIP-8 virtual CPU. It exclusively owns its memory, registers
// and stack and is not safe for concurrent use.
type CPU struct {
	memory [chip8.MemorySize]byte

	v     [chip8.RegisterCount]uint8
	i     uint16
	pc    uint16
	delay uint8
	sound uint8
	stack []uint16

	display Display
	keypad  Keypad
	timer   Timer

	logger     *log.Logger
	random     func() byte
	quirks     Quirks
	underflow  UnderflowPolicy
	stackLimit int
	trace      bool
}

// New returns a new CPU that draws to the display, polls the keypad and
// counts down its timers from the timer source.
func New(display Display, keypad Keypad, timer Timer, opts ...Option) *CPU {
	c := &CPU{
		display:    display,
		keypad:     keypad,
		timer:      timer,
		random:     randomByte,
		stackLimit: chip8.StackSize,
		pc:         chip8.ProgramStart,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.stack = make([]uint16, 0, c.stackLimit)
	return c
}

// InitMemory resets the CPU, copies the font to the start of memory and the
// ROM to the program start address.
func (c *CPU) InitMemory(rom []byte) error {
	// the last byte of memory stays reserved
	if chip8.ProgramStart+len(rom) >= chip8.MemorySize {
		return &ROMTooBigError{Size: len(rom)}
	}

	c.memory = [chip8.MemorySize]byte{}
	copy(c.memory[chip8.FontStart:], chip8.Font[:])
	copy(c.memory[chip8.ProgramStart:], rom)

	c.v = [chip8.RegisterCount]uint8{}
	c.i = 0
	c.pc = chip8.ProgramStart
	c.delay = 0
	c.sound = 0
	c.stack = c.stack[:0]
	c.display.Clear()

	if c.logger != nil {
		c.logger.Debug("ROM loaded",
			log.Int("size", len(rom)),
			log.Hex("start", uint16(chip8.ProgramStart)))
	}
	return nil
}

// Step executes a single instruction.
func (c *CPU) Step() error {
	c.tickTimers()

	address := c.pc
	opcode := chip8.FetchOpcode(c.read(address), c.read(address+1))
	c.pc += chip8.OpcodeSize

	ins, err := chip8.Decode(opcode)
	if err != nil {
		return &InvalidInstructionError{Opcode: opcode, Address: address}
	}

	if c.trace && c.logger != nil {
		c.logger.Debug("Execute",
			log.Hex("address", address),
			log.Hex("opcode", opcode),
			log.String("instruction", ins.String()))
	}

	handler := handlers[ins.Op]
	if handler == nil {
		return &NotImplementedError{Instruction: ins}
	}
	if err := handler(c, ins); err != nil {
		return fmt.Errorf("executing %s at $%04X: %w", ins, address, err)
	}
	return nil
}

// Registers returns a snapshot of the registers and the call stack.
func (c *CPU) Registers() Registers {
	stack := make([]uint16, len(c.stack))
	copy(stack, c.stack)
	return Registers{
		V:     c.v,
		I:     c.i,
		PC:    c.pc,
		Delay: c.delay,
		Sound: c.sound,
		Stack: stack,
	}
}

// Memory returns the byte at the address, wrapped into the address space.
func (c *CPU) Memory(address uint16) byte {
	return c.read(address)
}

// SoundActive returns whether the sound timer is running.
func (c *CPU) SoundActive() bool {
	return c.sound > 0
}

// tickTimers counts both timers down by the elapsed ticks, stopping at 0.
func (c *CPU) tickTimers() {
	ticks := c.timer.ElapsedTicks()
	if ticks == 0 {
		return
	}
	c.delay = countDown(c.delay, ticks)
	c.sound = countDown(c.sound, ticks)
}

func countDown(value uint8, ticks uint) uint8 {
	if uint(value) <= ticks {
		return 0
	}
	return value - uint8(ticks)
}

func (c *CPU) read(address uint16) byte {
	return c.memory[address&chip8.MaxAddress]
}

func (c *CPU) write(address uint16, value byte) {
	c.memory[address&chip8.MaxAddress] = value
}
