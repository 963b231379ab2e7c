package pty

import (
	"fmt"
	"os"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// Terminal is the controlling terminal the TUI is shown on
type Terminal struct {
	fd    int
	state *term.State
}

// OpenTerminal wraps f, which must be a terminal
func OpenTerminal(f *os.File) (*Terminal, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", f.Name())
	}
	return &Terminal{fd: fd}, nil
}

// MakeRaw switches the terminal to raw mode so key presses reach the TUI
// unprocessed
func (t *Terminal) MakeRaw() error {
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	t.state = state
	return nil
}

// Restore undoes MakeRaw
func (t *Terminal) Restore() error {
	if t.state == nil {
		return nil
	}
	err := term.Restore(t.fd, t.state)
	t.state = nil
	return err
}

// Size returns the terminal size as a PTY window size
func (t *Terminal) Size() (*pty.Winsize, error) {
	cols, rows, err := term.GetSize(t.fd)
	if err != nil {
		return nil, fmt.Errorf("failed to get terminal size: %w", err)
	}
	return &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}, nil
}

// Width returns the column count of the terminal on f, or fallback when f
// is not a terminal
func Width(f *os.File, fallback int) int {
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return fallback
	}
	return cols
}
