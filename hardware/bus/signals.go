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

package bus

import "fmt"

// Signals are the raw lines latched at the start of a bus cycle.
type Signals struct {
	Address uint16

	// the value on the data lines. only meaningful for a write cycle
	Data uint8

	// the R/W line. true when the CPU is reading
	Read bool

	// the reset line. true when asserted
	Reset bool
}

func (s Signals) String() string {
	if s.Read {
		return fmt.Sprintf("read $%04x", s.Address)
	}
	return fmt.Sprintf("write $%04x <- $%02x", s.Address, s.Data)
}

// Region identifies which select line is asserted for the address.
type Region int

// List of valid Region values.
const (
	RegionNone Region = iota
	RegionROML
	RegionROMH
	RegionIO1
	RegionIO2
	numRegions
)

// NumRegions is the number of Region values. Useful for sizing dispatch
// tables.
const NumRegions = int(numRegions)

func (r Region) String() string {
	switch r {
	case RegionROML:
		return "ROML"
	case RegionROMH:
		return "ROMH"
	case RegionIO1:
		return "IO1"
	case RegionIO2:
		return "IO2"
	}
	return "none"
}

// Base addresses and sizes of the regions.
const (
	ROMLOrigin = uint16(0x8000)
	ROMHOrigin = uint16(0xa000)
	ROMSize    = uint16(0x2000)
	IO1Origin  = uint16(0xde00)
	IO2Origin  = uint16(0xdf00)
	IOSize     = uint16(0x0100)
)

// Cycle is a decoded bus cycle.
type Cycle struct {
	Region Region

	// address relative to the origin of the region
	Offset uint16

	Write bool
	Data  uint8
}

// Register returns the offset as a register number. Only meaningful for the
// IO regions.
func (c Cycle) Register() uint8 {
	return uint8(c.Offset)
}

func (c Cycle) String() string {
	if c.Write {
		return fmt.Sprintf("%s+$%02x <- $%02x", c.Region, c.Offset, c.Data)
	}
	return fmt.Sprintf("%s+$%02x", c.Region, c.Offset)
}

// Decode the latched signals into a Cycle. Decode does not allocate.
func Decode(sig Signals) Cycle {
	cyc := Cycle{
		Write: !sig.Read,
		Data:  sig.Data,
	}

	switch sig.Address & 0xe000 {
	case ROMLOrigin:
		cyc.Region = RegionROML
		cyc.Offset = sig.Address - ROMLOrigin
		return cyc
	case ROMHOrigin:
		cyc.Region = RegionROMH
		cyc.Offset = sig.Address - ROMHOrigin
		return cyc
	}

	switch sig.Address & 0xff00 {
	case IO1Origin:
		cyc.Region = RegionIO1
		cyc.Offset = sig.Address - IO1Origin
	case IO2Origin:
		cyc.Region = RegionIO2
		cyc.Offset = sig.Address - IO2Origin
	default:
		cyc.Region = RegionNone
		cyc.Offset = sig.Address
	}

	return cyc
}
