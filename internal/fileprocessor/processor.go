// Package fileprocessor loads a ROM file and runs it in the selected mode.
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/host"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/terminal"
	"github.com/retroenv/retrochip8/internal/timer"
	"github.com/retroenv/retrochip8/internal/window"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, disasmOptions options.Disassembler) error {
	rom, err := loader.New().Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}
	printInfo(logger, opts, rom)

	switch opts.Mode {
	case options.ModeDisasm:
		return disassemble(ctx, logger, rom, opts, disasmOptions)
	case options.ModeTerminal:
		return runTerminal(ctx, logger, rom, opts)
	default:
		return runWindow(ctx, logger, rom, opts)
	}
}

// machine is a CPU with its attached devices.
type machine struct {
	cpu    *cpu.CPU
	screen *display.Screen
	keys   *keypad.State
}

func newMachine(logger *log.Logger, rom []byte, opts options.Program, renderer display.Renderer) (*machine, error) {
	cpuOptions, err := config.CreateCPUOptions(logger, opts)
	if err != nil {
		return nil, fmt.Errorf("creating cpu options: %w", err)
	}

	m := &machine{
		screen: display.NewScreen(renderer),
		keys:   &keypad.State{},
	}
	m.cpu = cpu.New(m.screen, m.keys, timer.New(), cpuOptions...)

	if err := m.cpu.InitMemory(rom); err != nil {
		return nil, fmt.Errorf("initializing memory: %w", err)
	}
	return m, nil
}

func (m *machine) newRunner(logger *log.Logger, opts options.Program) *host.Runner {
	return host.New(logger, m.cpu,
		host.WithInstructionsPerFrame(opts.InstructionsPerFrame),
		host.WithFrameCheck(m.screen.Err))
}

func disassemble(ctx context.Context, logger *log.Logger, rom []byte,
	opts options.Program, disasmOptions options.Disassembler) error {

	dis, err := disasm.New(logger, rom, disasmOptions)
	if err != nil {
		return fmt.Errorf("creating disassembler: %w", err)
	}

	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() { _ = writer.Close() }()

	if err := dis.Process(ctx, writer); err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}
	return nil
}

func runTerminal(ctx context.Context, logger *log.Logger, rom []byte, opts options.Program) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if width, height, ok := terminal.Size(int(os.Stdout.Fd())); !ok {
		logger.Info("Terminal is smaller than the display",
			log.String("size", fmt.Sprintf("%dx%d", width, height)),
			log.String("needed", fmt.Sprintf("%dx%d", display.Width, terminal.Lines)))
	}

	renderer := terminal.NewRenderer(os.Stdout)
	m, err := newMachine(logger, rom, opts, renderer)
	if err != nil {
		return err
	}

	input := terminal.NewInput(logger, m.keys, cancel)
	if err := input.Start(); err != nil {
		return fmt.Errorf("starting terminal input: %w", err)
	}
	defer input.Stop()
	defer func() { _ = renderer.Close() }()

	if err := m.newRunner(logger, opts).Run(ctx); err != nil {
		return fmt.Errorf("running rom: %w", err)
	}
	return nil
}

func runWindow(ctx context.Context, logger *log.Logger, rom []byte, opts options.Program) error {
	m, err := newMachine(logger, rom, opts, nil)
	if err != nil {
		return err
	}

	game := window.New(ctx, logger, m.newRunner(logger, opts), m.screen, m.keys, opts.Scale)
	if err := game.Run(); err != nil {
		return fmt.Errorf("running rom: %w", err)
	}
	return nil
}

func createWriter(opts options.Program) (io.WriteCloser, error) {
	if opts.Output == "" {
		return &nopCloser{os.Stdout}, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// printInfo prints the information about the input file.
func printInfo(logger *log.Logger, opts options.Program, rom []byte) {
	if opts.Quiet {
		return
	}

	logger.Info("Processing CHIP-8 ROM",
		log.String("file", opts.Input),
		log.String("mode", opts.Mode),
		log.Int("size", len(rom)),
	)

	var quirks []string
	if opts.ShiftUsesVY {
		quirks = append(quirks, "shift-vy")
	}
	if opts.AddImmKeepsVF {
		quirks = append(quirks, "add-keeps-vf")
	}
	if len(quirks) > 0 {
		logger.Info("Compatibility quirks enabled", log.String("quirks", strings.Join(quirks, ", ")))
	}
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("retrochip8 - CHIP-8 emulator", log.String("version", buildinfo.Version(version, commit, date)))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Debug("Build", log.String("date", date))
	}
}

// nopCloser wraps an io.Writer to add a no-op Close method
type nopCloser struct {
	io.Writer
}

func (nc *nopCloser) Close() error {
	return nil
}
