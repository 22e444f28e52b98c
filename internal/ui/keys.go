package ui

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

const (
	keyCtrlC rune = 0x03
	keyCtrlD rune = 0x04
)

// KeyReader yields one keystroke at a time without waiting for Enter.
type KeyReader interface {
	ReadKey() (rune, error)
}

// termKeyReader reads single bytes from the terminal, toggling raw mode
// around each read so the terminal is never left in a broken state.
type termKeyReader struct {
	in *os.File
}

// NewTermKeyReader returns a KeyReader bound to stdin.
func NewTermKeyReader() KeyReader {
	return &termKeyReader{in: os.Stdin}
}

func (r *termKeyReader) ReadKey() (rune, error) {
	fd := int(r.in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return 0, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	var buf [1]byte
	if _, err := r.in.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to read key: %w", err)
	}
	return rune(buf[0]), nil
}
