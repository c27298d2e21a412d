package terminal

import (
	"errors"
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// HoldDuration is how long a key counts as pressed after its character was
// read. Terminals do not report key releases, key repeat keeps a held key
// pressed.
const HoldDuration = 150 * time.Millisecond

const ctrlC = 0x03

// ErrNotTerminal is returned when the input is not a terminal.
var ErrNotTerminal = errors.New("input is not a terminal")

// Input reads raw keyboard input from a terminal into the keypad state.
type Input struct {
	logger *log.Logger
	keys   *keypad.State
	quit   func()
	now    func() time.Time

	releaseAt [keypad.KeyCount]time.Time

	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

// NewInput returns an input reader that updates keys. quit is called when
// Ctrl+C is read, as raw mode disables the interrupt signal.
func NewInput(logger *log.Logger, keys *keypad.State, quit func()) *Input {
	return &Input{
		logger: logger,
		keys:   keys,
		quit:   quit,
		now:    time.Now,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Size returns the width and height of the terminal of the file descriptor
// and whether a frame fits into it.
func Size(fd int) (int, int, bool) {
	width, height, err := term.GetSize(fd)
	if err != nil {
		return 0, 0, false
	}
	return width, height, width >= display.Width && height >= Lines
}

// handleByte processes a single byte read from the terminal.
func (in *Input) handleByte(b byte, now time.Time) {
	if b == ctrlC {
		in.logger.Debug("Quit key read")
		if in.quit != nil {
			in.quit()
		}
		return
	}

	key, ok := keypad.KeyForRune(rune(b))
	if !ok {
		return
	}
	in.keys.Press(key)
	in.releaseAt[key] = now.Add(HoldDuration)
}

// releaseExpired releases all keys whose hold time passed.
func (in *Input) releaseExpired(now time.Time) {
	for key, at := range in.releaseAt {
		if at.IsZero() || now.Before(at) {
			continue
		}
		in.keys.Release(uint8(key))
		in.releaseAt[key] = time.Time{}
	}
}

// Stop terminates the reading goroutine and restores the terminal state.
func (in *Input) Stop() {
	in.stopped.Do(func() {
		close(in.stopCh)
	})
	<-in.done
	in.restore()
}
