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

// opcodes with an absolute address operand that can refer to the userport
var userportOpcodes = [...]uint8{
	0xad, // LDA abs
	0xae, // LDX abs
	0xac, // LDY abs
	0x8d, // STA abs
	0x8e, // STX abs
	0x8c, // STY abs
}

// PatchUserportAccess redirects absolute accesses to the CIA2 page ($DDxx)
// into the IO1 window ($DExx) so that a program written for a userport
// device talks to the emulated device instead. The data is modified in place
// and the number of patched bytes is returned.
//
// The header is not patched.
func PatchUserportAccess(data []uint8) int {
	n := 0
	for i := HeaderSize + 2; i < len(data); i++ {
		if data[i] != 0xdd {
			continue
		}
		for _, op := range userportOpcodes {
			if data[i-2] == op {
				data[i] = 0xde
				n++
				break
			}
		}
	}
	return n
}
