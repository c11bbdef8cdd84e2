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

// Package host drives the bus on behalf of a program running on the host
// computer. It is used by the frontends, by scripts and by tests to stand in
// for the host software: a terminal program talking to the modem or a program
// using the userport adaptor.
//
// Every access goes through Sidekick.Cycle() so the host sees exactly what
// the bus handler drives, including nothing at all if the interrupt is
// masked.
package host

import (
	"github.com/sidekick64/sidekicknet/hardware"
	"github.com/sidekick64/sidekicknet/hardware/bus"
	"github.com/sidekick64/sidekicknet/hardware/cartridge"
	"github.com/sidekick64/sidekicknet/hardware/modem"
	"github.com/sidekick64/sidekicknet/hardware/userport"
)

// Host is the host side of the bus.
type Host struct {
	sk *hardware.Sidekick
}

// NewHost is the preferred method of initialisation for the Host type.
func NewHost(sk *hardware.Sidekick) *Host {
	return &Host{sk: sk}
}

// Read the address. The second return value is false if nothing drove the
// data lines.
func (h *Host) Read(address uint16) (uint8, bool) {
	return h.sk.Cycle(bus.Signals{Address: address, Read: true})
}

// Write data to the address.
func (h *Host) Write(address uint16, data uint8) {
	h.sk.Cycle(bus.Signals{Address: address, Data: data})
}

// Reset holds the reset line for long enough to be recognised.
func (h *Host) Reset() {
	for i := 0; i <= hardware.ResetThreshold; i++ {
		h.sk.Cycle(bus.Signals{Reset: true, Read: true})
	}
	h.sk.Cycle(bus.Signals{Read: true})
}

// Disable the cartridge as the launcher does once the program has been
// copied.
func (h *Host) Disable() {
	h.Write(bus.IO2Origin+cartridge.DisableRegister, cartridge.DisableCode)
}

// Load copies the program in the cartridge through the transfer registers
// and returns the load address and the bytes read. This is what the
// launcher stub does before disabling the cartridge.
func (h *Host) Load() (uint16, []uint8) {
	lo, _ := h.Read(bus.IO1Origin + cartridge.RegisterEndLow)
	hi, _ := h.Read(bus.IO1Origin + cartridge.RegisterEndHigh)
	szHi, _ := h.Read(bus.IO1Origin + cartridge.RegisterFullPages)
	szLo, _ := h.Read(bus.IO1Origin + cartridge.RegisterRemainder)

	end := uint16(lo) | uint16(hi)<<8
	size := int(szHi)<<8 | int(szLo)
	load := end - uint16(size)

	data := make([]uint8, 0, size)

	// the part below the split then the part above
	h.Write(bus.IO1Origin+cartridge.RegisterData, 0)
	for i := 0; i < size; i++ {
		if uint32(load)+uint32(i) == 0xa000 {
			h.Write(bus.IO1Origin+cartridge.RegisterRestartAbove, 0)
		}
		d, _ := h.Read(bus.IO1Origin + cartridge.RegisterData)
		data = append(data, d)
	}

	return load, data
}

// OpenModem sets the baud rate and enables the receive interrupt, the way a
// terminal program initialises the SwiftLink.
func (h *Host) OpenModem(bps int) {
	idx, ok := modem.BaudIndex(bps)
	if !ok {
		idx, _ = modem.BaudIndex(1200)
	}
	h.Write(bus.IO1Origin+modem.RegisterControl, 0x10|idx)
	h.Write(bus.IO1Origin+modem.RegisterCommand, 0x08|modem.CommandDTR)
}

// Send a byte to the modem.
func (h *Host) Send(b uint8) {
	h.Write(bus.IO1Origin+modem.RegisterData, b)
}

// SendString sends every byte in the string to the modem.
func (h *Host) SendString(s string) {
	for i := 0; i < len(s); i++ {
		h.Send(s[i])
	}
}

// Receive services the NMI as a terminal program would. If the NMI line is
// asserted and the status register reports a received byte then the byte is
// read and returned.
func (h *Host) Receive() (uint8, bool) {
	if h.sk.Mode != hardware.ModeSwiftLink || !h.sk.Modem.NMI() {
		return 0, false
	}
	st, _ := h.Read(bus.IO1Origin + modem.RegisterStatus)
	if st&modem.StatusReceiveFull != modem.StatusReceiveFull {
		return 0, false
	}
	return h.Read(bus.IO1Origin + modem.RegisterData)
}

// SendCommand writes a framed userport command.
func (h *Host) SendCommand(cmd uint8, payload []byte) {
	n := len(payload) + userport.HeaderLength
	h.Write(bus.IO1Origin+userport.RegisterMode, 0xff)
	h.Write(bus.IO1Origin+userport.RegisterDirection, 0x00)
	h.Write(bus.IO1Origin+userport.RegisterData, userport.CommandMagic)
	h.Write(bus.IO1Origin+userport.RegisterData, uint8(n))
	h.Write(bus.IO1Origin+userport.RegisterData, uint8(n>>8))
	h.Write(bus.IO1Origin+userport.RegisterData, cmd)
	for _, b := range payload {
		h.Write(bus.IO1Origin+userport.RegisterData, b)
	}
	h.Write(bus.IO1Origin+userport.RegisterDirection, 0x08)
	h.Write(bus.IO1Origin+userport.RegisterMode, 0x00)
}

// ReceiveUserport reads the next response byte if the handshake line says
// one is ready.
func (h *Host) ReceiveUserport() (uint8, bool) {
	if !h.sk.Userport.GotResponse {
		return 0, false
	}
	return h.Read(bus.IO1Origin + userport.RegisterData)
}
