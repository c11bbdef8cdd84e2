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

package cartridge

import (
	"fmt"
)

// Register numbers in the IO1 window.
const (
	RegisterData      = 0x00
	RegisterPages     = 0x01
	RegisterEndLow    = 0x02
	RegisterEndHigh   = 0x03
	RegisterFullPages = 0x04
	RegisterRemainder = 0x05

	// writing to this register restarts the transfer above the split
	RegisterRestartAbove = 0x02
)

// DisableRegister is the register in the IO2 window that accepts the
// DisableCode.
const DisableRegister = 0x00

// DisableCode is the value that disables the cartridge.
const DisableCode = 123

// Part identifies which side of the split address the transfer is on.
type Part int

// List of valid Part values.
const (
	PartBelow Part = iota
	PartAbove
)

func (p Part) String() string {
	if p == PartAbove {
		return "above"
	}
	return "below"
}

// TransferState is the state of the cartridge while it serves a launch. It is
// only ever changed from the bus handler.
type TransferState struct {
	Disabled        bool
	TransferStarted bool
	CurrentOffset   uint32
	Part            Part

	// number of ROML reads since the last reset
	LauncherReads int
}

func (s TransferState) String() string {
	return fmt.Sprintf("disabled=%v started=%v offset=%d part=%s", s.Disabled, s.TransferStarted, s.CurrentOffset, s.Part)
}

// reset the state to how it should be after a host reset.
func (s *TransferState) reset() {
	s.Disabled = false
	s.TransferStarted = false
	s.CurrentOffset = 0
	s.Part = PartAbove
	s.LauncherReads = 0
}

// Cartridge serves the ROM window and the PRG register file.
type Cartridge struct {
	State TransferState

	launcher *Launcher
	program  *ProgramImage
}

// NewCartridge is the preferred method of initialisation for the Cartridge
// type. If launcher is nil the default launcher is used.
func NewCartridge(launcher *Launcher) *Cartridge {
	if launcher == nil {
		launcher = DefaultLauncher()
	}
	cart := &Cartridge{
		launcher: launcher,
	}
	cart.State.reset()
	return cart
}

// Insert a program. Any transfer in progress is abandoned.
func (cart *Cartridge) Insert(p *ProgramImage) {
	cart.program = p
	cart.State.reset()
}

// Program returns the inserted program. Can be nil.
func (cart *Cartridge) Program() *ProgramImage {
	return cart.program
}

// Reset is called on a host reset.
func (cart *Cartridge) Reset() {
	cart.State.reset()
}

// ReadROM answers a read in the ROML window.
func (cart *Cartridge) ReadROM(offset uint16) uint8 {
	cart.State.LauncherReads++
	return cart.launcher.Read(offset)
}

// Restart the transfer in response to a write to the register file.
func (cart *Cartridge) Restart(register uint8) {
	cart.State.TransferStarted = true
	if register == RegisterRestartAbove {
		cart.State.Part = PartAbove
		if cart.program != nil {
			cart.State.CurrentOffset = uint32(cart.program.SizeBelowSplit + HeaderSize)
		}
		return
	}
	cart.State.Part = PartBelow
	cart.State.CurrentOffset = HeaderSize
}

// ReadRegister answers a read of the register file.
func (cart *Cartridge) ReadRegister(register uint8) uint8 {
	p := cart.program
	if p == nil {
		return 0
	}

	switch register {
	case RegisterPages:
		if cart.State.Part == PartAbove {
			return uint8((p.SizeAboveSplit + 255) >> 8)
		}
		return uint8((p.SizeBelowSplit + 255) >> 8)
	case RegisterFullPages:
		return uint8((p.Size() - HeaderSize) >> 8)
	case RegisterRemainder:
		return uint8((p.Size() - HeaderSize) & 0xff)
	case RegisterEndLow:
		return uint8(p.EndAddress)
	case RegisterEndHigh:
		return uint8(p.EndAddress >> 8)
	}

	if cart.State.CurrentOffset >= uint32(len(p.Data)) {
		return 0
	}
	d := p.Data[cart.State.CurrentOffset]
	cart.State.CurrentOffset++
	return d
}

// WriteIO2 handles a write to the IO2 window. Returns true if the write
// disabled the cartridge.
func (cart *Cartridge) WriteIO2(register uint8, data uint8) bool {
	if register == DisableRegister && data == DisableCode {
		cart.State.Disabled = true
		return true
	}
	return false
}

// Disabled returns true once the launcher has handed over to the program.
func (cart *Cartridge) Disabled() bool {
	return cart.State.Disabled
}

// Warm touches the data read on the next bus cycles. A bus cycle must never
// be the first to touch the program or launcher data.
func (cart *Cartridge) Warm() uint8 {
	var sink uint8
	sink ^= cart.launcher.Read(0)
	if cart.program != nil && cart.State.CurrentOffset < uint32(len(cart.program.Data)) {
		sink ^= cart.program.Data[cart.State.CurrentOffset]
	}
	return sink
}
