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
	"github.com/sidekick64/sidekicknet/curated"
)

// SplitAddress is the host address at which a program is divided into two
// transfer parts. Memory above it is underneath the BASIC ROM.
const SplitAddress = 0xa000

// HeaderSize is the size of the load address header of a PRG.
const HeaderSize = 2

// Sentinal errors for program loading.
const (
	ProgramTooShort = "program: too short (%d bytes)"
	ProgramTooLong  = "program: does not fit in memory (load $%04x, %d bytes)"
)

// ProgramImage is a PRG prepared for transfer. It is immutable once created.
type ProgramImage struct {
	// the complete file including the load address header
	Data []byte

	LoadAddress uint16
	EndAddress  uint16

	// page counting sizes of the two transfer parts. the above size includes
	// the header so it can overstate the payload by two bytes
	SizeBelowSplit int
	SizeAboveSplit int
}

// NewProgramImage prepares the PRG data for transfer. The data is copied.
func NewProgramImage(data []byte) (*ProgramImage, error) {
	if len(data) <= HeaderSize {
		return nil, curated.Errorf(ProgramTooShort, len(data))
	}

	p := &ProgramImage{
		Data:        make([]byte, len(data)),
		LoadAddress: uint16(data[0]) | uint16(data[1])<<8,
	}
	copy(p.Data, data)

	payload := len(data) - HeaderSize
	if int(p.LoadAddress)+payload > 0x10000 {
		return nil, curated.Errorf(ProgramTooLong, p.LoadAddress, payload)
	}
	p.EndAddress = uint16(int(p.LoadAddress) + payload)

	p.SizeBelowSplit = SplitAddress - int(p.LoadAddress)
	if p.SizeBelowSplit < 0 {
		p.SizeBelowSplit = 0
	}
	if p.SizeBelowSplit > payload {
		p.SizeBelowSplit = payload
		p.SizeAboveSplit = 0
	} else {
		p.SizeAboveSplit = len(data) - p.SizeBelowSplit
	}

	return p, nil
}

// Size of the complete file including the header.
func (p *ProgramImage) Size() int {
	return len(p.Data)
}

// Payload returns the program without the load address header.
func (p *ProgramImage) Payload() []byte {
	return p.Data[HeaderSize:]
}
