// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/cpu"
)

// MaxSize is the largest ROM that fits into the program memory.
const MaxSize = chip8.MemorySize - chip8.ProgramStart - 1

// ErrEmptyROM is returned for a ROM file without content.
var ErrEmptyROM = errors.New("rom file is empty")

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the ROM file. CHIP-8 ROMs have no header, the content is the
// program as it is mapped to the program start address.
func (l *Loader) Load(fileName string) ([]byte, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", fileName, err)
	}
	defer func() { _ = file.Close() }()

	return l.LoadFromReader(file)
}

// LoadFromReader reads a ROM from the reader.
func (l *Loader) LoadFromReader(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}

	switch {
	case len(data) == 0:
		return nil, ErrEmptyROM
	case len(data) > MaxSize:
		return nil, &cpu.ROMTooBigError{Size: len(data)}
	}
	return data, nil
}
