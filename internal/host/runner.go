// Package host drives a CHIP-8 CPU at a fixed frame rate.
package host

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/timer"
	"github.com/retroenv/retrogolib/log"
)

// DefaultInstructionsPerFrame is the number of instructions executed per
// frame, which results in 600 instructions per second.
const DefaultInstructionsPerFrame = 10

// Stepper executes a single instruction.
type Stepper interface {
	Step() error
}

// Option configures a Runner.
type Option func(*Runner)

// WithInstructionsPerFrame sets the number of instructions executed per
// frame. Values below 1 are ignored.
func WithInstructionsPerFrame(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.instructionsPerFrame = n
		}
	}
}

// WithFrameInterval sets the duration of a frame.
func WithFrameInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.frameInterval = d
		}
	}
}

// WithFrameCheck sets a function that is called after every frame, an
// error returned by it stops the runner. It is used to surface render
// errors of the display.
func WithFrameCheck(check func() error) Option {
	return func(r *Runner) {
		r.frameCheck = check
	}
}

// Runner owns a CPU and steps it until the context is cancelled or an
// error occurs.
type Runner struct {
	logger *log.Logger
	cpu    Stepper

	instructionsPerFrame int
	frameInterval        time.Duration
	frameCheck           func() error

	frames uint64
}

// New returns a runner for the CPU.
func New(logger *log.Logger, cpu Stepper, opts ...Option) *Runner {
	r := &Runner{
		logger:               logger,
		cpu:                  cpu,
		instructionsPerFrame: DefaultInstructionsPerFrame,
		frameInterval:        timer.Period,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes frames until the context is cancelled, which is not an
// error, or the CPU returns an error, which is returned wrapped.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.frameInterval)
	defer ticker.Stop()

	r.logger.Debug("Starting emulation",
		log.String("frame_interval", r.frameInterval.String()),
		log.Int("instructions_per_frame", r.instructionsPerFrame))

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("Emulation stopped", log.String("reason", ctx.Err().Error()))
			return nil

		case <-ticker.C:
			if ctx.Err() != nil {
				continue // cancelled while the tick was pending
			}
			if err := r.RunFrame(); err != nil {
				return err
			}
		}
	}
}

// RunFrame executes the instructions of a single frame.
func (r *Runner) RunFrame() error {
	for range r.instructionsPerFrame {
		if err := r.cpu.Step(); err != nil {
			return fmt.Errorf("frame %d: %w", r.frames, err)
		}
	}
	r.frames++

	if r.frameCheck != nil {
		if err := r.frameCheck(); err != nil {
			return fmt.Errorf("frame %d: %w", r.frames, err)
		}
	}
	return nil
}

// Frames returns the number of completed frames.
func (r *Runner) Frames() uint64 {
	return r.frames
}
