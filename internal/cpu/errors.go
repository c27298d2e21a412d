package cpu

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// Errors returned by the CPU. All of them are fatal for the current session.
var (
	ErrROMTooBig                 = errors.New("rom too big")
	ErrInvalidInstruction        = errors.New("invalid instruction")
	ErrInstructionNotImplemented = errors.New("instruction not implemented")
	ErrStackOverflow             = errors.New("call stack overflow")
	ErrStackUnderflow            = errors.New("return with empty call stack")
)

// ROMTooBigError is returned when a ROM does not fit into program memory.
type ROMTooBigError struct {
	Size int
}

func (e *ROMTooBigError) Error() string {
	return fmt.Sprintf("%s: %d bytes", ErrROMTooBig, e.Size)
}

func (e *ROMTooBigError) Unwrap() error {
	return ErrROMTooBig
}

// InvalidInstructionError is returned when the word at an address does not
// decode to an instruction.
type InvalidInstructionError struct {
	Opcode  uint16
	Address uint16
}

func (e *InvalidInstructionError) Error() string {
	return fmt.Sprintf("%s $%04X at $%04X", ErrInvalidInstruction, e.Opcode, e.Address)
}

func (e *InvalidInstructionError) Unwrap() error {
	return ErrInvalidInstruction
}

// NotImplementedError is returned for a decoded instruction that has no
// execution handler.
type NotImplementedError struct {
	Instruction chip8.Instruction
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInstructionNotImplemented, e.Instruction)
}

func (e *NotImplementedError) Unwrap() error {
	return ErrInstructionNotImplemented
}
