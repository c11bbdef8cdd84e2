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
	"io"

	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/hardware"
	"github.com/sidekick64/sidekicknet/hardware/host"
	"github.com/sidekick64/sidekicknet/logger"
)

// Quit is returned by Modem.Step() when the user has asked to leave or the
// input has been closed.
const Quit = "terminal: quit"

// EscapeKey ends the terminal session (ctrl-]).
const EscapeKey = 0x1d

// the host computer's delete key
const hostDelete = 20

// Modem is a terminal program on the host computer. It implements the
// scheduler.Host interface.
type Modem struct {
	out  io.Writer
	keys chan uint8

	baud int
	dial string

	h      *host.Host
	opened bool

	// a carriage return was the last byte written to the output
	lastCR bool
}

// NewModem is the preferred method of initialisation for the Modem type. Key
// presses are read from in and modem output is written to out. The dial
// string, if not empty, is sent as an ATD command as soon as the modem is
// opened.
func NewModem(in io.Reader, out io.Writer, baud int, dial string) *Modem {
	m := &Modem{
		out:  out,
		keys: make(chan uint8, 256),
		baud: baud,
		dial: dial,
	}

	go func() {
		defer close(m.keys)
		buf := make([]byte, 64)
		for {
			n, err := in.Read(buf)
			for _, b := range buf[:n] {
				m.keys <- b
			}
			if err != nil {
				return
			}
		}
	}()

	return m
}

// Step implements the scheduler.Host interface.
func (m *Modem) Step(sk *hardware.Sidekick) error {
	if !m.opened {
		m.open(sk)
	}

	// one key per step. a terminal program does not type faster than that
	select {
	case k, ok := <-m.keys:
		if !ok || k == EscapeKey {
			return curated.Errorf(Quit)
		}
		if b, ok := translateKey(k); ok {
			m.h.Send(b)
		}
	default:
	}

	if b, ok := m.h.Receive(); ok {
		if err := m.print(b); err != nil {
			return err
		}
	}

	return nil
}

func (m *Modem) open(sk *hardware.Sidekick) {
	m.h = host.NewHost(sk)
	if !sk.Cart.Disabled() {
		load, data := m.h.Load()
		logger.Logf(logger.Allow, "terminal", "loaded %d bytes at $%04x", len(data), load)
		m.h.Disable()
	}
	m.h.OpenModem(m.baud)
	if m.dial != "" {
		m.h.SendString("atd" + m.dial + "\r")
	}
	m.opened = true
}

func (m *Modem) print(b uint8) error {
	var err error
	switch b {
	case '\r':
		_, err = m.out.Write([]byte("\r\n"))
	case '\n':
		if !m.lastCR {
			_, err = m.out.Write([]byte("\r\n"))
		}
	default:
		_, err = m.out.Write([]byte{b})
	}
	m.lastCR = b == '\r'
	return err
}

// translateKey converts a key from the terminal to the byte the host
// computer's keyboard would produce.
func translateKey(k uint8) (uint8, bool) {
	switch k {
	case '\n', '\r':
		return '\r', true
	case 0x7f, 0x08:
		return hostDelete, true
	}
	if k < 0x20 || k > 0x7e {
		return 0, false
	}
	return k, true
}
