// Package chip8 provides the CHIP-8 instruction set: memory layout constants,
// the built-in font and a pure decoder from opcode words to instructions.
package chip8

// CHIP-8 memory layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x04F: Built-in hex font (16 glyphs, 5 bytes each)
//	0x050-0x1FF: Reserved for the interpreter
//	0x200-0xFFF: User program space
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// ProgramStart is the memory address where CHIP-8 programs are loaded
	// and where execution begins.
	ProgramStart = 0x200

	// MaxAddress is the highest valid address in CHIP-8 memory space.
	MaxAddress = 0xFFF

	// FontStart is the memory address of the first font glyph.
	FontStart = 0x000

	// GlyphSize is the number of bytes of a single font glyph.
	GlyphSize = 5

	// RegisterCount is the number of general purpose V registers.
	RegisterCount = 16

	// FlagRegister is the index of VF, which doubles as the flags register.
	FlagRegister = 0xF

	// StackSize is the default limit of the call stack.
	StackSize = 16

	// OpcodeSize is the size of a CHIP-8 instruction in bytes.
	OpcodeSize = 2
)

// Font is the built-in hex digit font, copied to FontStart on memory init.
var Font = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// GlyphAddress returns the memory address of the font glyph for the hex
// digit in the low nibble of digit.
func GlyphAddress(digit uint8) uint16 {
	return FontStart + uint16(digit&0x0F)*GlyphSize
}

// FetchOpcode builds the big-endian opcode word from its two bytes.
func FetchOpcode(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

// extractAddress extracts the 12 bit address operand from a CHIP-8 opcode.
func extractAddress(opcode uint16) uint16 {
	return opcode & 0x0FFF
}

// extractRegisterX extracts the X register nibble from a CHIP-8 opcode.
func extractRegisterX(opcode uint16) uint8 {
	return uint8((opcode & 0x0F00) >> 8)
}

// extractRegisterY extracts the Y register nibble from a CHIP-8 opcode.
func extractRegisterY(opcode uint16) uint8 {
	return uint8((opcode & 0x00F0) >> 4)
}

// extractByte extracts the 8 bit immediate from a CHIP-8 opcode.
func extractByte(opcode uint16) uint8 {
	return uint8(opcode & 0x00FF)
}

// extractNibble extracts the 4 bit count from a CHIP-8 opcode.
func extractNibble(opcode uint16) uint8 {
	return uint8(opcode & 0x000F)
}
