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

// Package userport emulates the register side of a WiC64 style userport
// network adaptor, remapped into the IO1 window.
//
// The host sends a command as a framed byte stream:
//
//	[0x57] [length low] [length high] [command] [payload ...]
//
// where the length includes the four header bytes. The payload is forwarded
// byte by byte into the outbound queue. The response is written by the
// scheduler into the inbound queue as:
//
//	[0x41] [length high] [length low] [payload ...]
package userport

import (
	"fmt"

	"github.com/sidekick64/sidekicknet/hardware/irq"
	"github.com/sidekick64/sidekicknet/hardware/queue"
)

// Framing bytes.
const (
	CommandMagic  = 0x57
	ResponseMagic = 0x41
)

// HeaderLength is the number of framing bytes counted by the length field.
const HeaderLength = 4

// Register offsets in the IO1 window.
const (
	RegisterDirection = 0x00
	RegisterData      = 0x01
	RegisterMode      = 0x03
	RegisterHandshake = 0x0d
)

// Values returned by the handshake register.
const (
	HandshakeReady   = 16
	HandshakeWaiting = 1
)

// State of the command framing.
type State int

// List of valid State values.
const (
	AwaitingMagic State = iota
	LengthLow
	LengthHigh
	Command
	Payload
	Complete
)

func (s State) String() string {
	switch s {
	case AwaitingMagic:
		return "awaiting magic"
	case LengthLow:
		return "length low"
	case LengthHigh:
		return "length high"
	case Command:
		return "command"
	case Payload:
		return "payload"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// Direction of the userport data lines.
type Direction int

// List of valid Direction values.
const (
	HostWrites Direction = iota
	HostReads
)

// Userport is the register file and framing state of the adaptor.
type Userport struct {
	irq *irq.Controller

	inbound  *queue.ByteQueue
	outbound *queue.ByteQueue

	State     State
	CommandID uint8
	Length    int
	Remaining int

	// the next byte for the host and whether it is valid
	Response    uint8
	GotResponse bool

	Direction        Direction
	DirectionChanges int

	// payload bytes of the current frame that did not fit in the outbound
	// queue
	Dropped int

	// the last write to the direction register
	lastDirection uint8
}

// NewUserport is the preferred method of initialisation for the Userport type.
func NewUserport(c *irq.Controller, inbound, outbound *queue.ByteQueue) *Userport {
	u := &Userport{
		irq:      c,
		inbound:  inbound,
		outbound: outbound,
	}
	return u
}

func (u *Userport) String() string {
	return fmt.Sprintf("%s cmd=%d remaining=%d dir=%d", u.State, u.CommandID, u.Remaining, u.DirectionChanges)
}

// CommandReady returns true if a complete frame is waiting for TakeCommand().
func (u *Userport) CommandReady() bool {
	return u.State == Complete
}

// Reset the framing and the response latch.
func (u *Userport) Reset() {
	u.State = AwaitingMagic
	u.CommandID = 0
	u.Length = 0
	u.Remaining = 0
	u.Response = 0
	u.GotResponse = false
	u.Direction = HostWrites
	u.Dropped = 0
}

// Read a register on behalf of the host.
func (u *Userport) Read(register uint8) uint8 {
	switch register {
	case RegisterHandshake:
		if u.State < Complete || u.GotResponse {
			return HandshakeReady
		}
		return HandshakeWaiting
	case RegisterData:
		v := u.Response
		u.Response = 0
		u.GotResponse = false
		return v
	}
	return 0
}

// Write a register on behalf of the host.
func (u *Userport) Write(register uint8, data uint8) {
	switch register {
	case RegisterData:
		u.feed(data)
	case RegisterMode:
		if data == 0xff {
			u.Direction = HostWrites
		} else {
			u.Direction = HostReads
		}
	case RegisterDirection:
		d := data & 0x08
		if d != u.lastDirection {
			u.DirectionChanges++
			u.lastDirection = d
		}
		if d != 0 {
			u.Direction = HostReads
		} else {
			u.Direction = HostWrites
		}
	}
}

func (u *Userport) feed(data uint8) {
	switch u.State {
	case AwaitingMagic:
		if data == CommandMagic {
			u.Dropped = 0
			u.State = LengthLow
		}
	case LengthLow:
		u.Length = int(data)
		u.State = LengthHigh
	case LengthHigh:
		u.Length += int(data) << 8
		u.State = Command
	case Command:
		u.CommandID = data
		u.Remaining = u.Length - HeaderLength
		if u.Remaining > 0 {
			u.State = Payload
		} else {
			u.Remaining = 0
			u.State = Complete
		}
	case Payload:
		if !u.outbound.Push(data) {
			u.Dropped++
		}
		u.Remaining--
		if u.Remaining == 0 {
			u.State = Complete
		}
	case Complete:
		// further bytes are ignored until the command has been taken
	}
}

// TakeCommand returns the command and payload of a completed frame. The
// framing is reset and the outbound queue drained so a completed frame is
// only returned once. The Dropped field is left untouched until the next
// frame begins so the caller can report a truncated payload.
//
// Scheduler side.
func (u *Userport) TakeCommand() (uint8, []byte, bool) {
	u.irq.AssertMasked("userport")
	if u.State != Complete {
		return 0, nil, false
	}
	cmd := u.CommandID
	payload := append([]byte(nil), u.outbound.Drain(u.outbound.Len())...)
	u.State = AwaitingMagic
	u.CommandID = 0
	u.Length = 0
	u.Remaining = 0
	return cmd, payload, true
}

// SetResponse writes a framed response into the inbound queue.
//
// Scheduler side.
func (u *Userport) SetResponse(payload []byte) {
	u.irq.AssertMasked("userport")
	n := len(payload)
	u.inbound.Push(ResponseMagic)
	u.inbound.Push(uint8(n >> 8))
	u.inbound.Push(uint8(n))
	u.inbound.PushBytes(payload)
}

// LoadResponse moves the next inbound byte into the data register if the host
// has read the previous one.
//
// Scheduler side.
func (u *Userport) LoadResponse() {
	u.irq.AssertMasked("userport")
	if u.GotResponse {
		return
	}
	if b, ok := u.inbound.Pop(); ok {
		u.Response = b
		u.GotResponse = true
	}
}
