//go:build !unix

package terminal

import "errors"

// Start is not supported on this platform, the window mode has to be used.
func (in *Input) Start() error {
	close(in.done)
	return errors.New("terminal input is only supported on unix systems")
}

func (in *Input) restore() {}
