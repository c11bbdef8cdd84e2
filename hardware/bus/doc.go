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

// Package bus classifies the state of the expansion port on a single bus
// cycle. The decoder has no state of its own; it turns the latched lines into
// a Cycle that names the chip-select region, the offset within that region and
// the direction of the access.
//
// Regions follow the expansion port select lines of the host:
//
//	ROML  $8000-$9FFF   cartridge ROM window
//	ROMH  $A000-$BFFF   upper cartridge ROM window (unused here but decoded)
//	IO1   $DE00-$DEFF   register window
//	IO2   $DF00-$DFFF   second register window
package bus
