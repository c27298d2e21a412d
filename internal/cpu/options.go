package cpu

import (
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
)

// UnderflowPolicy defines what a return with an empty call stack does.
type UnderflowPolicy int

const (
	// UnderflowResetPC restarts the program at the program start address.
	UnderflowResetPC UnderflowPolicy = iota
	// UnderflowError stops execution with ErrStackUnderflow.
	UnderflowError
)

// Quirks selects alternative behaviors that some ROMs depend on.
// The zero value selects the default behavior.
type Quirks struct {
	// ShiftUsesVY makes 8xy6 and 8xyE shift Vy into Vx instead of
	// shifting Vx in place.
	ShiftUsesVY bool
	// AddImmKeepsVF makes 7xkk leave VF unchanged instead of setting
	// the carry flag.
	AddImmKeepsVF bool
}

// Option configures a CPU.
type Option func(*CPU)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(c *CPU) {
		c.logger = logger
	}
}

// WithRandom sets the random byte source of the RND instruction.
func WithRandom(random func() byte) Option {
	return func(c *CPU) {
		c.random = random
	}
}

// WithQuirks sets the compatibility quirks.
func WithQuirks(quirks Quirks) Option {
	return func(c *CPU) {
		c.quirks = quirks
	}
}

// WithUnderflowPolicy sets the behavior of a return with an empty stack.
func WithUnderflowPolicy(policy UnderflowPolicy) Option {
	return func(c *CPU) {
		c.underflow = policy
	}
}

// WithStackLimit sets the maximum call depth.
func WithStackLimit(limit int) Option {
	return func(c *CPU) {
		if limit > 0 {
			c.stackLimit = limit
		}
	}
}

// WithTrace enables debug logging of every executed instruction.
func WithTrace(trace bool) Option {
	return func(c *CPU) {
		c.trace = trace
	}
}

func randomByte() byte {
	return byte(rand.UintN(256))
}
