package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
)

const dataBytesPerLine = 16

// write outputs the traced program as assembler listing.
func (dis *Disasm) write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "; CHIP-8 ROM Disassembly\n; ROM size: %d bytes\n\n", len(dis.rom)); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}
	if _, err := fmt.Fprintf(w, ".org $%04X\n\n", chip8.ProgramStart); err != nil {
		return fmt.Errorf("writing org directive: %w", err)
	}

	for index := 0; index < len(dis.offsets); {
		o := dis.offsets[index]
		if err := writeLabel(w, index, o.label); err != nil {
			return err
		}

		if o.typ == codeOffset {
			if err := dis.writeCodeLine(w, index); err != nil {
				return err
			}
			index += chip8.OpcodeSize
			continue
		}

		count := dis.dataRunLength(index)
		if err := dis.writeDataLine(w, index, count); err != nil {
			return err
		}
		index += count
	}
	return nil
}

func writeLabel(w io.Writer, index int, label string) error {
	if label == "" {
		return nil
	}

	if index > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "%s:\n", label); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

func (dis *Disasm) writeCodeLine(w io.Writer, index int) error {
	code := dis.formatCode(dis.offsets[index].instruction)
	comment := dis.comment(index, dis.rom[index:index+chip8.OpcodeSize], true)
	return writeLine(w, code, comment)
}

func (dis *Disasm) writeDataLine(w io.Writer, index, count int) error {
	buf := &strings.Builder{}
	buf.WriteString(".byte ")
	for i, b := range dis.rom[index : index+count] {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(fmt.Sprintf("$%02x", b))
	}

	comment := dis.comment(index, nil, false)
	return writeLine(w, buf.String(), comment)
}

func writeLine(w io.Writer, line, comment string) error {
	var err error
	if comment == "" {
		_, err = fmt.Fprintf(w, "  %s\n", line)
	} else {
		_, err = fmt.Fprintf(w, "  %-30s ; %s\n", line, comment)
	}
	if err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

// dataRunLength returns the number of bytes starting at index that are
// output in a single data line. A run ends at code, at a label or after
// dataBytesPerLine bytes.
func (dis *Disasm) dataRunLength(index int) int {
	count := 1
	for i := index + 1; i < len(dis.offsets) && count < dataBytesPerLine; i++ {
		o := dis.offsets[i]
		if o.typ == codeOffset || o.label != "" {
			break
		}
		count++
	}
	return count
}

// formatCode returns the assembler text of the instruction, with known
// address operands replaced by their label.
func (dis *Disasm) formatCode(ins chip8.Instruction) string {
	label := dis.label(ins.NNN)
	if label == "" {
		return ins.String()
	}

	switch ins.Op {
	case chip8.OpJump, chip8.OpCall:
		return ins.Name() + " " + label
	case chip8.OpLoadAddress:
		return ins.Name() + " I, " + label
	default:
		return ins.String()
	}
}

func (dis *Disasm) comment(index int, data []byte, hex bool) string {
	var comments []string
	if dis.options.OffsetComments {
		comments = append(comments, fmt.Sprintf("$%04X", chip8.ProgramStart+index))
	}
	if hex && dis.options.HexComments {
		comments = append(comments, fmt.Sprintf("% X", data))
	}
	return strings.Join(comments, "  ")
}
