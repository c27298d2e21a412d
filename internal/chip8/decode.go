package chip8

import (
	"errors"
	"fmt"
)

// ErrUnknownOpcode is returned when an opcode word matches no instruction form.
var ErrUnknownOpcode = errors.New("unknown opcode")

// DecodeError reports an opcode word that could not be decoded.
type DecodeError struct {
	Opcode uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s $%04X", ErrUnknownOpcode, e.Opcode)
}

func (e *DecodeError) Unwrap() error {
	return ErrUnknownOpcode
}

// Decode maps an opcode word to its instruction. The mapping is total:
// every word either yields exactly one instruction or a *DecodeError.
func Decode(opcode uint16) (Instruction, error) {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)
	kk := extractByte(opcode)
	nnn := extractAddress(opcode)

	switch opcode >> 12 {
	case 0x0:
		return decodeSystem(opcode)
	case 0x1:
		return Instruction{Op: OpJump, NNN: nnn}, nil
	case 0x2:
		return Instruction{Op: OpCall, NNN: nnn}, nil
	case 0x3:
		return Instruction{Op: OpSkipEqualImm, X: x, KK: kk}, nil
	case 0x4:
		return Instruction{Op: OpSkipNotEqualImm, X: x, KK: kk}, nil
	case 0x5:
		return Instruction{Op: OpSkipEqualReg, X: x, Y: y}, nil
	case 0x6:
		return Instruction{Op: OpLoadImm, X: x, KK: kk}, nil
	case 0x7:
		return Instruction{Op: OpAddImm, X: x, KK: kk}, nil
	case 0x8:
		return decodeArithmetic(opcode)
	case 0x9:
		return Instruction{Op: OpSkipNotEqualReg, X: x, Y: y}, nil
	case 0xA:
		return Instruction{Op: OpLoadAddress, NNN: nnn}, nil
	case 0xB:
		return Instruction{Op: OpJumpV0, NNN: nnn}, nil
	case 0xC:
		return Instruction{Op: OpRandom, X: x, KK: kk}, nil
	case 0xD:
		return Instruction{Op: OpDraw, X: x, Y: y, N: extractNibble(opcode)}, nil
	case 0xE:
		return decodeKeypad(opcode)
	default:
		return decodeMisc(opcode)
	}
}

// decodeSystem decodes the 0x0 family by the low byte. Machine code
// routine calls (0nnn) are not supported.
func decodeSystem(opcode uint16) (Instruction, error) {
	switch extractByte(opcode) {
	case 0xE0:
		return Instruction{Op: OpClearScreen}, nil
	case 0xEE:
		return Instruction{Op: OpReturn}, nil
	}
	return Instruction{}, &DecodeError{Opcode: opcode}
}

var arithmeticOps = [16]Op{
	0x0: OpLoadReg,
	0x1: OpOr,
	0x2: OpAnd,
	0x3: OpXor,
	0x4: OpAddReg,
	0x5: OpSub,
	0x6: OpShiftRight,
	0x7: OpSubSwapped,
	0xE: OpShiftLeft,
}

// decodeArithmetic decodes the 0x8 family by the low nibble.
func decodeArithmetic(opcode uint16) (Instruction, error) {
	op := arithmeticOps[extractNibble(opcode)]
	if op == OpInvalid {
		return Instruction{}, &DecodeError{Opcode: opcode}
	}
	return Instruction{
		Op: op,
		X:  extractRegisterX(opcode),
		Y:  extractRegisterY(opcode),
	}, nil
}

// decodeKeypad decodes the 0xE family by the low byte.
func decodeKeypad(opcode uint16) (Instruction, error) {
	x := extractRegisterX(opcode)
	switch extractByte(opcode) {
	case 0x9E:
		return Instruction{Op: OpSkipPressed, X: x}, nil
	case 0xA1:
		return Instruction{Op: OpSkipNotPressed, X: x}, nil
	}
	return Instruction{}, &DecodeError{Opcode: opcode}
}

var miscOps = map[uint8]Op{
	0x07: OpLoadDelay,
	0x0A: OpWaitKey,
	0x15: OpSetDelay,
	0x18: OpSetSound,
	0x1E: OpAddAddress,
	0x29: OpLoadGlyph,
	0x33: OpStoreBCD,
	0x55: OpStoreRegisters,
	0x65: OpLoadRegisters,
}

// decodeMisc decodes the 0xF family by the low byte.
func decodeMisc(opcode uint16) (Instruction, error) {
	op, ok := miscOps[extractByte(opcode)]
	if !ok {
		return Instruction{}, &DecodeError{Opcode: opcode}
	}
	return Instruction{Op: op, X: extractRegisterX(opcode)}, nil
}
