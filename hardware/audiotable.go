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

package hardware

// AudioTableRegister is the IO2 register that returns successive table bytes
// in the audio table mode.
const AudioTableRegister = 0x55

// AudioTableSize is the number of bytes in the table. Must be a power of two.
const AudioTableSize = 1024

// AudioTable is the read-only table served in the audio table mode.
type AudioTable struct {
	data [AudioTableSize]uint8
	idx  int
}

// NewAudioTable creates an AudioTable from data. Data is truncated or zero
// padded to AudioTableSize.
func NewAudioTable(data []uint8) *AudioTable {
	t := &AudioTable{}
	copy(t.data[:], data)
	return t
}

// Next returns the next byte of the table, wrapping at the end.
func (t *AudioTable) Next() uint8 {
	d := t.data[t.idx]
	t.idx = (t.idx + 1) & (AudioTableSize - 1)
	return d
}

// Index returns the position of the next byte.
func (t *AudioTable) Index() int {
	return t.idx
}
