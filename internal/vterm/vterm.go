// Package vterm is the terminal provider: a pseudo-terminal pair with a
// window size, which scripts drive as a virtual terminal.
package vterm

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/creack/pty"
)

// ErrClosed is returned by operations on a freed terminal.
var ErrClosed = errors.New("vterm: closed")

// Terminal is a pseudo-terminal of a fixed size.
type Terminal struct {
	mu     sync.Mutex
	master *os.File
	slave  *os.File
	closed bool
}

// New allocates a pseudo-terminal with the given size.
func New(rows, cols int) (*Terminal, error) {
	ws, err := winsize(rows, cols)
	if err != nil {
		return nil, err
	}
	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("vterm: %w", err)
	}
	if err := pty.Setsize(master, ws); err != nil {
		_ = master.Close()
		_ = slave.Close()
		return nil, fmt.Errorf("vterm: %w", err)
	}
	return &Terminal{master: master, slave: slave}, nil
}

// SetSize resizes the terminal.
func (t *Terminal) SetSize(rows, cols int) error {
	ws, err := winsize(rows, cols)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	return pty.Setsize(t.master, ws)
}

// Size returns the current size.
func (t *Terminal) Size() (rows, cols int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, 0, ErrClosed
	}
	return pty.Getsize(t.slave)
}

// Master returns the controlling side of the pair.
func (t *Terminal) Master() *os.File {
	return t.master
}

// Slave returns the terminal side of the pair, to be handed to a child.
func (t *Terminal) Slave() *os.File {
	return t.slave
}

// Close frees both sides of the pair.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.closed = true
	return errors.Join(t.slave.Close(), t.master.Close())
}

func winsize(rows, cols int) (*pty.Winsize, error) {
	if rows <= 0 || cols <= 0 || rows > math.MaxUint16 || cols > math.MaxUint16 {
		return nil, fmt.Errorf("vterm: invalid size %dx%d", rows, cols)
	}
	return &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}, nil
}
