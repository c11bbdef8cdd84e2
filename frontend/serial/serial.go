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

// Package serial bridges the modem byte stream to a serial device. It is the
// frontend for the userport USB modem type: the host computer's end of the
// link is a USB serial adaptor rather than the bus, so bytes from the host
// arrive on the device and bytes for the host are written to it.
package serial

import (
	"io"

	"github.com/jacobsa/go-serial/serial"

	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/hardware/queue"
	"github.com/sidekick64/sidekicknet/logger"
)

// Sentinal errors.
const (
	OpenError = "serial: cannot open %s: %v"
)

// maximum number of bytes moved in each direction by a single Exchange()
const exchangeLimit = 256

// Port is a serial link to the host. It implements the scheduler.Port
// interface.
type Port struct {
	rwc io.ReadWriteCloser

	// bytes read from the device by the reader goroutine
	received chan uint8

	// blocks of bytes for the writer goroutine
	send chan []byte

	// a received byte that did not fit in the queue on the last exchange
	held    uint8
	holding bool
}

// Open the named serial device at the baud rate.
func Open(device string, baud int) (*Port, error) {
	options := serial.OpenOptions{
		PortName:        device,
		BaudRate:        uint(baud),
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	}

	rwc, err := serial.Open(options)
	if err != nil {
		return nil, curated.Errorf(OpenError, device, err)
	}

	logger.Logf(logger.Allow, "serial", "opened %s at %d baud", device, baud)

	return NewPort(rwc), nil
}

// NewPort is the preferred method of initialisation for the Port type when
// the device is already open.
func NewPort(rwc io.ReadWriteCloser) *Port {
	p := &Port{
		rwc:      rwc,
		received: make(chan uint8, exchangeLimit*4),
		send:     make(chan []byte, 64),
	}

	go func() {
		defer close(p.received)
		buf := make([]byte, 64)
		for {
			n, err := rwc.Read(buf)
			for _, b := range buf[:n] {
				p.received <- b
			}
			if err != nil {
				if err != io.EOF {
					logger.Logf(logger.Allow, "serial", "read: %v", err)
				}
				return
			}
		}
	}()

	go func() {
		for b := range p.send {
			if _, err := rwc.Write(b); err != nil {
				logger.Logf(logger.Allow, "serial", "write: %v", err)
			}
		}
	}()

	return p
}

// Exchange implements the scheduler.Port interface. It only blocks if the
// writer has fallen a long way behind the device.
func (p *Port) Exchange(toHost *queue.ByteQueue, fromHost *queue.ByteQueue) {
	if p.holding {
		if !fromHost.Push(p.held) {
			return
		}
		p.holding = false
	}

	for i := 0; i < exchangeLimit; i++ {
		var b uint8
		var ok bool
		select {
		case b, ok = <-p.received:
		default:
		}
		if !ok {
			break
		}
		if !fromHost.Push(b) {
			p.held = b
			p.holding = true
			break
		}
	}

	if toHost.Empty() {
		return
	}

	// the drained slice is only valid until the next push to the queue
	d := toHost.Drain(exchangeLimit)
	c := make([]byte, len(d))
	copy(c, d)

	p.send <- c
}

// Close the device.
func (p *Port) Close() error {
	close(p.send)
	return p.rwc.Close()
}
