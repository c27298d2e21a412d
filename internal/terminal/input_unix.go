//go:build unix

package terminal

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

const pollInterval = 5 * time.Millisecond

// Start puts stdin into raw non-blocking mode and begins reading keys in a
// goroutine. Call Stop to restore stdin.
func (in *Input) Start() error {
	in.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(in.fd) {
		close(in.done)
		return ErrNotTerminal
	}

	oldState, err := term.MakeRaw(in.fd)
	if err != nil {
		close(in.done)
		return fmt.Errorf("setting raw mode: %w", err)
	}
	in.oldTermState = oldState

	if err := syscall.SetNonblock(in.fd, true); err != nil {
		in.restore()
		close(in.done)
		return fmt.Errorf("setting non-blocking stdin: %w", err)
	}
	in.nonblockSet = true

	go in.readLoop()
	return nil
}

func (in *Input) readLoop() {
	defer close(in.done)
	buf := make([]byte, 16)

	for {
		select {
		case <-in.stopCh:
			return
		default:
		}

		n, err := syscall.Read(in.fd, buf)
		now := in.now()
		for _, b := range buf[:max(n, 0)] {
			in.handleByte(b, now)
		}
		in.releaseExpired(now)

		if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK) || (err == nil && n == 0) {
			time.Sleep(pollInterval)
			continue
		}
		if err != nil {
			in.logger.Error("Reading terminal input failed", log.Err(err))
			return
		}
	}
}

func (in *Input) restore() {
	if in.nonblockSet {
		_ = syscall.SetNonblock(in.fd, false)
		in.nonblockSet = false
	}
	if in.oldTermState != nil {
		_ = term.Restore(in.fd, in.oldTermState)
		in.oldTermState = nil
	}
}
