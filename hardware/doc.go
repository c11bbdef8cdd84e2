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

// Package hardware is the base package for the cartridge emulation. It and
// its sub-packages contain everything touched by the bus handler.
//
// The Sidekick type is the root of the emulation and contains references to
// all the sub-systems. Cycle() is the bus handler: it is called once for every
// bus cycle of the host and must return before the host samples the data
// lines. Cycle() never blocks, never allocates and never logs.
//
// Everything else in the emulation happens in the scheduler (see the network
// package), which only touches state shared with the bus handler while the
// interrupt is masked.
package hardware
