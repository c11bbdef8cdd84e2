// This file is part of sidekicknet.
//
// sidekicknet is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// sidekicknet is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with sidekicknet.  If not, see <https://www.gnu.org/licenses/>.

package terminal

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/term/termios"
	"golang.org/x/term"

	"github.com/sidekick64/sidekicknet/curated"
)

// Sentinal errors.
const (
	NotATerminal = "terminal: %s is not a terminal"
	TermError    = "terminal: %v"
)

// Geometry of the terminal in characters.
type Geometry struct {
	Cols int
	Rows int
}

// Terminal wraps the input and output files of an interactive terminal.
type Terminal struct {
	input  *os.File
	output *os.File

	// state of the terminal before RawMode() was called
	canonical *term.State

	mu       sync.Mutex
	geometry Geometry

	sigwinch chan os.Signal
	done     chan bool
}

// NewTerminal is the preferred method of initialisation for the Terminal
// type. The input file must be a terminal.
func NewTerminal(input *os.File, output *os.File) (*Terminal, error) {
	if !term.IsTerminal(int(input.Fd())) {
		return nil, curated.Errorf(NotATerminal, input.Name())
	}

	pt := &Terminal{
		input:    input,
		output:   output,
		sigwinch: make(chan os.Signal, 1),
		done:     make(chan bool),
	}
	_ = pt.UpdateGeometry()

	signal.Notify(pt.sigwinch, syscall.SIGWINCH)
	go func() {
		for {
			select {
			case <-pt.sigwinch:
				_ = pt.UpdateGeometry()
			case <-pt.done:
				return
			}
		}
	}()

	return pt, nil
}

// CleanUp restores the terminal and stops the geometry handler.
func (pt *Terminal) CleanUp() {
	signal.Stop(pt.sigwinch)
	close(pt.done)
	pt.CanonicalMode()
}

// UpdateGeometry reads the current dimensions of the output terminal.
func (pt *Terminal) UpdateGeometry() error {
	cols, rows, err := term.GetSize(int(pt.output.Fd()))
	if err != nil {
		return curated.Errorf(TermError, err)
	}
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.geometry = Geometry{Cols: cols, Rows: rows}
	return nil
}

// Geometry returns the most recent terminal dimensions.
func (pt *Terminal) Geometry() Geometry {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.geometry
}

// RawMode puts the terminal into raw mode. Every key press is passed to the
// modem unprocessed.
func (pt *Terminal) RawMode() error {
	if pt.canonical != nil {
		return nil
	}
	st, err := term.MakeRaw(int(pt.input.Fd()))
	if err != nil {
		return curated.Errorf(TermError, err)
	}
	pt.canonical = st
	return nil
}

// CanonicalMode returns the terminal to the state it was in before RawMode().
func (pt *Terminal) CanonicalMode() {
	if pt.canonical == nil {
		return
	}
	_ = term.Restore(int(pt.input.Fd()), pt.canonical)
	pt.canonical = nil
}

// Flush discards unread input and unwritten output.
func (pt *Terminal) Flush() error {
	if err := termios.Tcflush(pt.input.Fd(), termios.TCIFLUSH); err != nil {
		return curated.Errorf(TermError, err)
	}
	if err := termios.Tcflush(pt.output.Fd(), termios.TCOFLUSH); err != nil {
		return curated.Errorf(TermError, err)
	}
	return nil
}
