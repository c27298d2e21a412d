// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
)

var validModes = []string{options.ModeWindow, options.ModeTerminal, options.ModeDisasm}

// ParseFlags parses command line flags and returns program and disassembler options
func ParseFlags() (options.Program, options.Disassembler, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)
	readQuirkFlags(flags, &opts)
	readDisasmOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, options.Disassembler{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Disassembler{}, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, options.Disassembler{}, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}

	disasmOptions := options.NewDisassembler()
	disasmOptions.HexComments = !opts.NoHexComments
	disasmOptions.OffsetComments = !opts.NoOffsets

	return opts, disasmOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
	fmt.Println("keys: 1234/QWER/ASDF/ZXCV map to the hex keypad 123C/456D/789E/A0BF")
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Mode = strings.ToLower(opts.Mode)
	if !slices.Contains(validModes, opts.Mode) {
		return fmt.Errorf("unsupported mode: %s. Valid options: %s",
			opts.Mode, strings.Join(validModes, ", "))
	}

	opts.Underflow = strings.ToLower(opts.Underflow)
	if opts.Underflow != options.UnderflowReset && opts.Underflow != options.UnderflowError {
		return fmt.Errorf("unsupported underflow policy: %s. Valid options: %s, %s",
			opts.Underflow, options.UnderflowReset, options.UnderflowError)
	}

	if opts.InstructionsPerFrame < 1 {
		return fmt.Errorf("instructions per frame must be positive, got %d", opts.InstructionsPerFrame)
	}
	if opts.Scale < 1 {
		return fmt.Errorf("window scale must be positive, got %d", opts.Scale)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the output .asm file of the disasm mode, printed on console if no name given")
	flags.StringVar(&opts.Mode, "mode", options.ModeWindow, "run mode (window/terminal/disasm)")
	flags.IntVar(&opts.InstructionsPerFrame, "ipf", 10, "instructions executed per 60 Hz frame")
	flags.IntVar(&opts.Scale, "scale", 10, "size of a pixel in the window mode")
	flags.StringVar(&opts.Underflow, "underflow", options.UnderflowReset, "behavior of a return with empty call stack (reset/error)")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, requires -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

func readQuirkFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.BoolVar(&opts.ShiftUsesVY, "shift-vy", false, "shift instructions shift VY into VX")
	flags.BoolVar(&opts.AddImmKeepsVF, "add-keeps-vf", false, "add immediate does not set the carry flag")
}

func readDisasmOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.BoolVar(&opts.NoHexComments, "nohexcomments", false, "do not output opcode bytes as hex values in comments")
	flags.BoolVar(&opts.NoOffsets, "nooffsets", false, "do not output offsets in comments")
}
