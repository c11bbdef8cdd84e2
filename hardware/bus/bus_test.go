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

package bus_test

import (
	"testing"

	"github.com/sidekick64/sidekicknet/hardware/bus"
	"github.com/sidekick64/sidekicknet/test"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		sig    bus.Signals
		region bus.Region
		offset uint16
		write  bool
	}{
		{bus.Signals{Address: 0x8000, Read: true}, bus.RegionROML, 0x0000, false},
		{bus.Signals{Address: 0x9fff, Read: true}, bus.RegionROML, 0x1fff, false},
		{bus.Signals{Address: 0xa000, Read: true}, bus.RegionROMH, 0x0000, false},
		{bus.Signals{Address: 0xbfff, Read: true}, bus.RegionROMH, 0x1fff, false},
		{bus.Signals{Address: 0xde00, Data: 0x01}, bus.RegionIO1, 0x00, true},
		{bus.Signals{Address: 0xde0d, Read: true}, bus.RegionIO1, 0x0d, false},
		{bus.Signals{Address: 0xdf00, Data: 123}, bus.RegionIO2, 0x00, true},
		{bus.Signals{Address: 0xdfff, Read: true}, bus.RegionIO2, 0xff, false},
		{bus.Signals{Address: 0xdd01, Read: true}, bus.RegionNone, 0xdd01, false},
		{bus.Signals{Address: 0x0801, Read: true}, bus.RegionNone, 0x0801, false},
		{bus.Signals{Address: 0xe000, Read: true}, bus.RegionNone, 0xe000, false},
	}

	for _, tt := range tests {
		cyc := bus.Decode(tt.sig)
		test.ExpectEquality(t, cyc.Region, tt.region, tt.sig)
		test.ExpectEquality(t, cyc.Offset, tt.offset, tt.sig)
		test.ExpectEquality(t, cyc.Write, tt.write, tt.sig)
	}
}

func TestWriteData(t *testing.T) {
	cyc := bus.Decode(bus.Signals{Address: 0xde03, Data: 0x1c})
	test.ExpectEquality(t, cyc.Data, uint8(0x1c))
	test.ExpectEquality(t, cyc.Register(), uint8(3))
	test.ExpectEquality(t, cyc.String(), "IO1+$03 <- $1c")
}
