// Package disasm traces the control flow of a CHIP-8 ROM and writes an
// assembler listing of the reachable code, with the remaining bytes output
// as data.
package disasm

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const (
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
	dataNaming  = "_data_%04x"
	startLabel  = "Start"
)

type offsetType uint8

const (
	unknownOffset offsetType = iota
	codeOffset               // first byte of an instruction
	codeOperand              // second byte of an instruction
	dataOffset               // referenced by a ld I instruction
)

type offset struct {
	typ         offsetType
	instruction chip8.Instruction
	label       string

	branchDestination bool
	callDestination   bool
	dataReference     bool
}

// Disasm implements a CHIP-8 disassembler.
type Disasm struct {
	logger  *log.Logger
	options options.Disassembler

	rom     []byte
	offsets []offset // indexed by address - chip8.ProgramStart

	offsetsToParse      []uint16
	offsetsToParseAdded set.Set[uint16]
}

// New returns a disassembler for the ROM, which is mapped to the CHIP-8
// program start address.
func New(logger *log.Logger, rom []byte, opts options.Disassembler) (*Disasm, error) {
	if chip8.ProgramStart+len(rom) >= chip8.MemorySize {
		return nil, &cpu.ROMTooBigError{Size: len(rom)}
	}

	dis := &Disasm{
		logger:  logger,
		options: opts,
		rom:     rom,
		offsets: make([]offset, len(rom)),

		offsetsToParseAdded: set.New[uint16](),
	}
	return dis, nil
}

// Process traces the code of the ROM starting at the program start address
// and writes the resulting listing to the writer.
func (dis *Disasm) Process(ctx context.Context, w io.Writer) error {
	if len(dis.offsets) > 0 {
		dis.offsets[0].label = startLabel
	}
	dis.addAddressToParse(chip8.ProgramStart)

	if err := dis.followExecutionFlow(ctx); err != nil {
		return err
	}
	dis.processLabels()

	if err := dis.write(w); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// followExecutionFlow parses all queued addresses until no new code is found.
func (dis *Disasm) followExecutionFlow(ctx context.Context) error {
	for len(dis.offsetsToParse) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("tracing code: %w", err)
		}

		address := dis.offsetsToParse[0]
		dis.offsetsToParse = dis.offsetsToParse[1:]
		dis.processOffset(address)
	}
	return nil
}

func (dis *Disasm) processOffset(address uint16) {
	index, ok := dis.index(address)
	if !ok || index+1 >= len(dis.rom) {
		dis.logger.Debug("Code address outside of ROM", log.Hex("address", address))
		return
	}

	first, second := &dis.offsets[index], &dis.offsets[index+1]
	if first.typ == codeOffset {
		return
	}
	if first.typ == codeOperand || second.typ == codeOffset || second.typ == codeOperand {
		dis.logger.Debug("Branch into instruction detected", log.Hex("address", address))
		return
	}

	opcode := chip8.FetchOpcode(dis.rom[index], dis.rom[index+1])
	ins, err := chip8.Decode(opcode)
	if err != nil {
		dis.logger.Debug("Stopping trace at unknown opcode",
			log.Hex("address", address), log.Hex("opcode", opcode))
		return
	}

	first.typ = codeOffset
	first.instruction = ins
	second.typ = codeOperand

	dis.handleControlFlow(address, ins)
}

// handleControlFlow queues the addresses that can execute after the
// instruction at the given address.
func (dis *Disasm) handleControlFlow(address uint16, ins chip8.Instruction) {
	next := address + chip8.OpcodeSize

	switch {
	case ins.Op == chip8.OpJump:
		dis.markDestination(ins.NNN, false)
		dis.addAddressToParse(ins.NNN)

	case ins.IsJump():
		// the target of jp V0 depends on a register value

	case ins.IsCall():
		dis.markDestination(ins.NNN, true)
		dis.addAddressToParse(ins.NNN)
		dis.addAddressToParse(next)

	case ins.IsSkip():
		dis.addAddressToParse(next)
		dis.addAddressToParse(next + chip8.OpcodeSize)

	case ins.Op == chip8.OpLoadAddress:
		dis.markDataReference(ins.NNN)
		dis.addAddressToParse(next)

	case !ins.IsReturn():
		dis.addAddressToParse(next)
	}
}

// addAddressToParse queues an address for tracing, every address is only
// queued once.
func (dis *Disasm) addAddressToParse(address uint16) {
	if dis.offsetsToParseAdded.Contains(address) {
		return
	}
	dis.offsetsToParseAdded.Add(address)
	dis.offsetsToParse = append(dis.offsetsToParse, address)
}

func (dis *Disasm) markDestination(address uint16, call bool) {
	index, ok := dis.index(address)
	if !ok {
		return
	}
	if call {
		dis.offsets[index].callDestination = true
	} else {
		dis.offsets[index].branchDestination = true
	}
}

func (dis *Disasm) markDataReference(address uint16) {
	index, ok := dis.index(address)
	if !ok {
		return
	}
	o := &dis.offsets[index]
	o.dataReference = true
	if o.typ == unknownOffset {
		o.typ = dataOffset
	}
}

// processLabels names all referenced offsets that do not have a label yet.
// Offsets inside of an instruction can not carry a label.
func (dis *Disasm) processLabels() {
	for index := range dis.offsets {
		o := &dis.offsets[index]
		if o.label != "" || o.typ == codeOperand {
			continue
		}

		address := chip8.ProgramStart + uint16(index)
		switch {
		case o.callDestination:
			o.label = fmt.Sprintf(funcNaming, address)
		case o.branchDestination:
			o.label = fmt.Sprintf(labelNaming, address)
		case o.dataReference:
			o.label = fmt.Sprintf(dataNaming, address)
		}
	}
}

// index returns the ROM index of a memory address.
func (dis *Disasm) index(address uint16) (int, bool) {
	if address < chip8.ProgramStart {
		return 0, false
	}
	index := int(address - chip8.ProgramStart)
	return index, index < len(dis.rom)
}

// label returns the label of the memory address, or an empty string.
func (dis *Disasm) label(address uint16) string {
	index, ok := dis.index(address)
	if !ok {
		return ""
	}
	return dis.offsets[index].label
}
