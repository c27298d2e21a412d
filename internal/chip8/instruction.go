package chip8

import (
	"fmt"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Op identifies one of the CHIP-8 instruction forms.
type Op uint8

// Instruction forms, named by what they do. The comment shows the opcode
// pattern of each form.
const (
	OpInvalid             Op = iota
	OpClearScreen            // 00E0
	OpReturn                 // 00EE
	OpJump                   // 1nnn
	OpCall                   // 2nnn
	OpSkipEqualImm           // 3xkk
	OpSkipNotEqualImm        // 4xkk
	OpSkipEqualReg           // 5xy0
	OpLoadImm                // 6xkk
	OpAddImm                 // 7xkk
	OpLoadReg                // 8xy0
	OpOr                     // 8xy1
	OpAnd                    // 8xy2
	OpXor                    // 8xy3
	OpAddReg                 // 8xy4
	OpSub                    // 8xy5
	OpShiftRight             // 8xy6
	OpSubSwapped             // 8xy7
	OpShiftLeft              // 8xyE
	OpSkipNotEqualReg        // 9xy0
	OpLoadAddress            // Annn
	OpJumpV0                 // Bnnn
	OpRandom                 // Cxkk
	OpDraw                   // Dxyn
	OpSkipPressed            // Ex9E
	OpSkipNotPressed         // ExA1
	OpLoadDelay              // Fx07
	OpWaitKey                // Fx0A
	OpSetDelay               // Fx15
	OpSetSound               // Fx18
	OpAddAddress             // Fx1E
	OpLoadGlyph              // Fx29
	OpStoreBCD               // Fx33
	OpStoreRegisters         // Fx55
	OpLoadRegisters          // Fx65

	opCount
)

// OpCount is the number of valid instruction forms.
const OpCount = int(opCount) - 1

// mnemonics maps every instruction form to the retrogolib instruction that
// carries its assembler name.
var mnemonics = [opCount]*chip8cpu.Instruction{
	OpClearScreen:     chip8cpu.ClsInst,
	OpReturn:          chip8cpu.RetInst,
	OpJump:            chip8cpu.JpInst,
	OpCall:            chip8cpu.CallInst,
	OpSkipEqualImm:    chip8cpu.SeInst,
	OpSkipNotEqualImm: chip8cpu.SneInst,
	OpSkipEqualReg:    chip8cpu.SeInst,
	OpLoadImm:         chip8cpu.LdInst,
	OpAddImm:          chip8cpu.AddInst,
	OpLoadReg:         chip8cpu.LdInst,
	OpOr:              chip8cpu.OrInst,
	OpAnd:             chip8cpu.AndInst,
	OpXor:             chip8cpu.XorInst,
	OpAddReg:          chip8cpu.AddInst,
	OpSub:             chip8cpu.SubInst,
	OpShiftRight:      chip8cpu.ShrInst,
	OpSubSwapped:      chip8cpu.SubnInst,
	OpShiftLeft:       chip8cpu.ShlInst,
	OpSkipNotEqualReg: chip8cpu.SneInst,
	OpLoadAddress:     chip8cpu.LdInst,
	OpJumpV0:          chip8cpu.JpInst,
	OpRandom:          chip8cpu.RndInst,
	OpDraw:            chip8cpu.DrwInst,
	OpSkipPressed:     chip8cpu.SkpInst,
	OpSkipNotPressed:  chip8cpu.SknpInst,
	OpLoadDelay:       chip8cpu.LdInst,
	OpWaitKey:         chip8cpu.LdInst,
	OpSetDelay:        chip8cpu.LdInst,
	OpSetSound:        chip8cpu.LdInst,
	OpAddAddress:      chip8cpu.AddInst,
	OpLoadGlyph:       chip8cpu.LdInst,
	OpStoreBCD:        chip8cpu.LdInst,
	OpStoreRegisters:  chip8cpu.LdInst,
	OpLoadRegisters:   chip8cpu.LdInst,
}

// Valid returns whether the op is one of the decodable instruction forms.
func (o Op) Valid() bool {
	return o > OpInvalid && o < opCount
}

// Instruction is a decoded CHIP-8 instruction. Only the operand fields used
// by the Op are set, all others are zero.
type Instruction struct {
	Op  Op
	X   uint8  // register index from the low nibble of the first byte
	Y   uint8  // register index from the high nibble of the second byte
	KK  uint8  // 8 bit immediate
	NNN uint16 // 12 bit address
	N   uint8  // 4 bit count
}

// Mnemonic returns the retrogolib instruction describing the assembler
// mnemonic of this instruction, or nil for an invalid instruction.
func (i Instruction) Mnemonic() *chip8cpu.Instruction {
	if !i.Op.Valid() {
		return nil
	}
	return mnemonics[i.Op]
}

// Name returns the assembler mnemonic of the instruction.
func (i Instruction) Name() string {
	m := i.Mnemonic()
	if m == nil {
		return ""
	}
	return m.Name
}

// IsJump returns true if the instruction unconditionally transfers control.
func (i Instruction) IsJump() bool {
	return i.Op == OpJump || i.Op == OpJumpV0
}

// IsCall returns true if the instruction is a subroutine call.
func (i Instruction) IsCall() bool {
	return i.Op == OpCall
}

// IsReturn returns true if the instruction returns from a subroutine.
func (i Instruction) IsReturn() bool {
	return i.Op == OpReturn
}

// IsSkip returns true if the instruction is a conditional skip instruction.
func (i Instruction) IsSkip() bool {
	if i.Op == OpInvalid {
		return false
	}
	return chip8cpu.SkipInstructions.Contains(i.Name())
}

// String returns the instruction in assembler notation.
func (i Instruction) String() string {
	name := i.Name()
	if name == "" {
		return "invalid"
	}
	if params := i.formatParams(); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

// formatParams formats the operands of the instruction.
func (i Instruction) formatParams() string {
	switch i.Op {
	case OpClearScreen, OpReturn:
		return ""
	case OpJump, OpCall:
		return fmt.Sprintf("$%03X", i.NNN)
	case OpJumpV0:
		return fmt.Sprintf("V0, $%03X", i.NNN)
	case OpLoadAddress:
		return fmt.Sprintf("I, $%03X", i.NNN)
	case OpSkipEqualImm, OpSkipNotEqualImm, OpLoadImm, OpAddImm, OpRandom:
		return fmt.Sprintf("V%X, $%02X", i.X, i.KK)
	case OpSkipEqualReg, OpSkipNotEqualReg, OpLoadReg, OpOr, OpAnd, OpXor,
		OpAddReg, OpSub, OpSubSwapped:
		return fmt.Sprintf("V%X, V%X", i.X, i.Y)
	case OpDraw:
		return fmt.Sprintf("V%X, V%X, $%X", i.X, i.Y, i.N)
	case OpShiftRight, OpShiftLeft, OpSkipPressed, OpSkipNotPressed:
		return fmt.Sprintf("V%X", i.X)
	}
	return i.formatTimerAndMemory()
}

// formatTimerAndMemory formats the Fx family of load forms.
func (i Instruction) formatTimerAndMemory() string {
	switch i.Op {
	case OpLoadDelay:
		return fmt.Sprintf("V%X, DT", i.X)
	case OpWaitKey:
		return fmt.Sprintf("V%X, K", i.X)
	case OpSetDelay:
		return fmt.Sprintf("DT, V%X", i.X)
	case OpSetSound:
		return fmt.Sprintf("ST, V%X", i.X)
	case OpAddAddress:
		return fmt.Sprintf("I, V%X", i.X)
	case OpLoadGlyph:
		return fmt.Sprintf("F, V%X", i.X)
	case OpStoreBCD:
		return fmt.Sprintf("B, V%X", i.X)
	case OpStoreRegisters:
		return fmt.Sprintf("[I], V%X", i.X)
	case OpLoadRegisters:
		return fmt.Sprintf("V%X, [I]", i.X)
	}
	return ""
}
