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

// Package cartridge emulates the cartridge side of a program launch: the ROM
// window answered from a launcher stub and the small register file through
// which the launcher copies a PRG into host memory one byte per bus cycle.
//
// Register map, relative to the IO1 origin, while the cartridge is enabled:
//
//	+0 read   next program byte (auto-increment)
//	+1 read   page count of the current transfer part
//	+2 read   end address low byte
//	+3 read   end address high byte
//	+4 read   full page count of the program payload
//	+5 read   remainder byte count of the program payload
//	+2 write  restart the transfer at the part above the split address
//	+n write  restart the transfer at the part below the split address
//
// Writing DisableCode to IO2+0 disables the cartridge. Once disabled, only a
// host reset re-enables it.
package cartridge
