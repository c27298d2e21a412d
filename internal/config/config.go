// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateCPUOptions returns the CPU options for the program options.
func CreateCPUOptions(logger *log.Logger, opts options.Program) ([]cpu.Option, error) {
	policy, err := underflowPolicy(opts.Underflow)
	if err != nil {
		return nil, err
	}

	return []cpu.Option{
		cpu.WithLogger(logger),
		cpu.WithUnderflowPolicy(policy),
		cpu.WithQuirks(cpu.Quirks{
			ShiftUsesVY:   opts.ShiftUsesVY,
			AddImmKeepsVF: opts.AddImmKeepsVF,
		}),
		cpu.WithTrace(opts.Trace),
	}, nil
}

func underflowPolicy(name string) (cpu.UnderflowPolicy, error) {
	switch name {
	case options.UnderflowReset, "":
		return cpu.UnderflowResetPC, nil
	case options.UnderflowError:
		return cpu.UnderflowError, nil
	default:
		return 0, fmt.Errorf("unsupported underflow policy: %s. Valid options: %s, %s",
			name, options.UnderflowReset, options.UnderflowError)
	}
}
