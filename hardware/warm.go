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

// WarmCaches runs the given number of passes over the data the bus handler
// touches first after the interrupt is re-armed. It is called at the end of
// every masked window, before Unmask().
//
// The return value has no meaning. It exists so that the reads cannot be
// optimised away.
func (sk *Sidekick) WarmCaches(passes int) uint8 {
	var sink uint8
	for i := 0; i < passes; i++ {
		sink ^= sk.Cart.Warm()
		sink ^= sk.Modem.Response
		sink ^= sk.Userport.Response
		sink ^= sk.Audio.data[sk.Audio.idx]
		if sk.enabled[0] != nil && sk.disabled[0] != nil {
			sink++
		}
	}
	return sink
}
