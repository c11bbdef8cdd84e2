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

package modem

// EnhancedBaud is the rate used for control register index zero. On a real
// SwiftLink index zero selects the 16x external clock.
const EnhancedBaud = 99999

// FallbackBaud is used for the undefined control register indexes.
const FallbackBaud = 77777

// baud rate for each value of the low nibble of the control register.
var baudTable = [16]int{
	EnhancedBaud,
	FallbackBaud, FallbackBaud, FallbackBaud, FallbackBaud,
	300, 600, 1200, 2400, 3300, 4800, 7200, 9600, 14400, 19200, 38400,
}

// BaudRate returns the baud rate selected by the control register index.
// Only the low nibble of index is used.
func BaudRate(index uint8) int {
	return baudTable[index&0x0f]
}

// BaudIndex returns the control register index for the baud rate. The
// second return value is false if the rate is not in the table.
func BaudIndex(bps int) (uint8, bool) {
	for i := 5; i < len(baudTable); i++ {
		if baudTable[i] == bps {
			return uint8(i), true
		}
	}
	if bps == EnhancedBaud {
		return 0, true
	}
	return 0, false
}

// NMIDelay returns the number of scheduler passes between a byte arriving and
// the receive interrupt being raised, for the baud rate. The numerator is the
// tunable timing.nmi.numerator preference.
func NMIDelay(numerator int, bps int) int {
	if bps <= 0 {
		bps = FallbackBaud
	}
	d := numerator / bps
	if d < 1 {
		d = 1
	}
	return d
}

// the rates cycled through by IterateBaud()
var baudIteration = [...]int{300, 1200, 2400, 4800, 9600}

// NextBaud returns the rate after bps in the iteration sequence. Rates outside
// the sequence return to the start.
func NextBaud(bps int) int {
	for i, b := range baudIteration {
		if b == bps {
			return baudIteration[(i+1)%len(baudIteration)]
		}
	}
	return baudIteration[0]
}
