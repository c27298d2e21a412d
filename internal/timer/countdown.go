// Package timer provides the 60 Hz tick source that drives the CHIP-8 delay
// and sound timers.
package timer

import "time"

// Rate is the frequency of the CHIP-8 timers.
const Rate = 60

// Period is the duration of a single timer tick.
const Period = time.Second / Rate

// Countdown counts the 60 Hz intervals that passed between calls.
// It is owned by a single CPU and not safe for concurrent use.
type Countdown struct {
	now  func() time.Time
	last time.Time
}

// New returns a countdown that uses the monotonic system clock.
func New() *Countdown {
	return NewWithClock(time.Now)
}

// NewWithClock returns a countdown that reads the time from now.
func NewWithClock(now func() time.Time) *Countdown {
	return &Countdown{
		now:  now,
		last: now(),
	}
}

// ElapsedTicks returns the number of whole ticks since the last call.
// The fraction of an unfinished tick is carried over to the next call.
func (c *Countdown) ElapsedTicks() uint {
	elapsed := c.now().Sub(c.last)
	if elapsed < Period {
		return 0
	}

	ticks := elapsed / Period
	c.last = c.last.Add(ticks * Period)
	return uint(ticks)
}

// Reset discards the time that passed since the last call.
func (c *Countdown) Reset() {
	c.last = c.now()
}
