// Package options contains the program options.
package options

// Run modes of the program.
const (
	ModeWindow   = "window"
	ModeTerminal = "terminal"
	ModeDisasm   = "disasm"
)

// Underflow policy names accepted on the command line.
const (
	UnderflowReset = "reset"
	UnderflowError = "error"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string // ROM file
	Output string // listing file of the disasm mode, stdout if empty
}

// Flags contains behavior options.
type Flags struct {
	Mode                 string // one of the Mode constants
	InstructionsPerFrame int    // executed per 60 Hz frame
	Scale                int    // window pixel scale
	Underflow            string // one of the Underflow constants
	Trace                bool   // log every executed instruction
	Debug                bool
	Quiet                bool
}

// QuirkFlags contains interpreter compatibility switches.
type QuirkFlags struct {
	ShiftUsesVY   bool
	AddImmKeepsVF bool
}

// OutputFlags contains disassembly formatting options.
type OutputFlags struct {
	NoHexComments bool
	NoOffsets     bool
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	QuirkFlags
	OutputFlags
}

// Disassembler defines options to control the disassembly listing.
type Disassembler struct {
	HexComments    bool
	OffsetComments bool
}

// NewDisassembler returns a new options instance with default options.
func NewDisassembler() Disassembler {
	return Disassembler{
		HexComments:    true,
		OffsetComments: true,
	}
}
