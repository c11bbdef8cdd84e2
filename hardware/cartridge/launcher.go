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
	"bytes"

	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/hardware/bus"
)

// Sentinal error for launcher images.
const LauncherTooLarge = "launcher: image too large (%d bytes)"

// Launcher is the image answered in the ROML window while the cartridge is
// enabled.
type Launcher struct {
	rom  []uint8
	skip uint16
}

// NewLauncher creates a launcher from an image of up to 8K after the first
// skip bytes. Shorter images are padded with zero.
func NewLauncher(image []uint8, skip uint16) (*Launcher, error) {
	if len(image) > int(bus.ROMSize)+int(skip) {
		return nil, curated.Errorf(LauncherTooLarge, len(image))
	}
	l := &Launcher{
		rom:  make([]uint8, int(bus.ROMSize)+int(skip)),
		skip: skip,
	}
	copy(l.rom, image)
	return l, nil
}

// DefaultLauncher returns the built-in launcher stub.
func DefaultLauncher() *Launcher {
	l, _ := NewLauncher(defaultStub, 0)
	return l
}

// HeaderSkip returns the number of bytes to skip before the CBM80 autostart
// header. An image saved as a PRG file carries a two byte load address in
// front of it. Raw images need no skip.
func HeaderSkip(image []uint8) uint16 {
	if bytes.HasPrefix(image, []uint8{0x00, 0x80}) && len(image) >= 11 && bytes.Equal(image[6:11], cbm80) {
		return 2
	}
	return 0
}

// Read the launcher at the offset into the ROML window.
func (l *Launcher) Read(offset uint16) uint8 {
	return l.rom[offset&(bus.ROMSize-1)+l.skip]
}

var cbm80 = []uint8{0xc3, 0xc2, 0xcd, 0x38, 0x30}

// the default stub is a CBM80 autostart cartridge. it copies the program
// into memory through the register file, sets the BASIC end pointers, queues
// RUN in the keyboard buffer and then disables the cartridge from a
// trampoline in the cassette buffer before entering BASIC.
var defaultStub = []uint8{
	0x09, 0x80,                   // $8000 cold start vector
	0x09, 0x80,                   // $8002 warm start vector
	0xc3, 0xc2, 0xcd, 0x38, 0x30, // $8004 CBM80

	0x78,             // $8009 SEI
	0xa2, 0xff,       // LDX #$FF
	0x9a,             // TXS
	0xd8,             // CLD
	0x20, 0x84, 0xff, // JSR IOINIT
	0x20, 0x87, 0xff, // JSR RAMTAS
	0x20, 0x8a, 0xff, // JSR RESTOR
	0x20, 0x81, 0xff, // JSR CINT
	0x20, 0x53, 0xe4, // JSR $E453 BASIC vectors
	0x20, 0xbf, 0xe3, // JSR $E3BF BASIC RAM

	0x8d, 0x00, 0xde, // $8020 STA $DE00 restart below split

	// destination = end address - payload size
	0x38,             // SEC
	0xad, 0x02, 0xde, // LDA $DE02
	0xed, 0x05, 0xde, // SBC $DE05
	0x85, 0xfb,       // STA $FB
	0xad, 0x03, 0xde, // LDA $DE03
	0xed, 0x04, 0xde, // SBC $DE04
	0x85, 0xfc,       // STA $FC

	// remaining = payload size
	0xad, 0x05, 0xde, // LDA $DE05
	0x85, 0xfd,       // STA $FD
	0xad, 0x04, 0xde, // LDA $DE04
	0x85, 0xfe,       // STA $FE
	0xa0, 0x00,       // LDY #$00

	0xa5, 0xfd,       // $8040 LDA $FD
	0x05, 0xfe,       // ORA $FE
	0xf0, 0x16,       // BEQ $805C
	0xad, 0x00, 0xde, // LDA $DE00
	0x91, 0xfb,       // STA ($FB),Y
	0xe6, 0xfb,       // INC $FB
	0xd0, 0x02,       // BNE $8051
	0xe6, 0xfc,       // INC $FC
	0xa5, 0xfd,       // $8051 LDA $FD
	0xd0, 0x02,       // BNE $8057
	0xc6, 0xfe,       // DEC $FE
	0xc6, 0xfd,       // $8057 DEC $FD
	0x4c, 0x40, 0x80, // JMP $8040

	// end of BASIC program and variables
	0xad, 0x02, 0xde, // $805C LDA $DE02
	0x85, 0x2d,       // STA $2D
	0x85, 0xae,       // STA $AE
	0xad, 0x03, 0xde, // LDA $DE03
	0x85, 0x2e,       // STA $2E
	0x85, 0xaf,       // STA $AF

	// RUN into the keyboard buffer
	0xa2, 0x03,       // $806A LDX #$03
	0xbd, 0x89, 0x80, // $806C LDA $8089,X
	0x9d, 0x77, 0x02, // STA $0277,X
	0xca,             // DEX
	0x10, 0xf7,       // BPL $806C
	0xa9, 0x04,       // LDA #$04
	0x85, 0xc6,       // STA $C6

	// copy trampoline to the cassette buffer and run it
	0xa2, 0x00,       // $8079 LDX #$00
	0xbd, 0x8d, 0x80, // $807B LDA $808D,X
	0x9d, 0x40, 0x03, // STA $0340,X
	0xe8,             // INX
	0xe0, 0x0c,       // CPX #$0C
	0xd0, 0xf5,       // BNE $807B
	0x4c, 0x40, 0x03, // JMP $0340

	0x52, 0x55, 0x4e, 0x0d, // $8089 "RUN\r"

	0xa9, DisableCode, // $808D LDA #DisableCode
	0x8d, 0x00, 0xdf,  // STA $DF00
	0xa2, 0xfb,        // LDX #$FB
	0x9a,              // TXS
	0x58,              // CLI
	0x4c, 0x86, 0xe3,  // JMP $E386 BASIC warm start
}
