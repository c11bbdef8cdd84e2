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

import (
	"github.com/sidekick64/sidekicknet/hardware/cartridge"
	"github.com/sidekick64/sidekicknet/hardware/modem"
	"github.com/sidekick64/sidekicknet/hardware/userport"
)

// State is a copy of the emulated registers at a moment in time. It is
// produced by the Snapshot() function and is used for state dumps and tests.
type State struct {
	Mode     Mode
	Transfer cartridge.TransferState
	Modem    modem.SwiftLink
	Userport userport.Userport

	ResetCounter int
	HostCycles   uint64
	Resets       int

	InboundLen  int
	OutboundLen int

	MissedCycles uint64
	Violations   int
}

// Snapshot the state of the sub-systems. Must not be called from the bus
// handler.
func (sk *Sidekick) Snapshot() *State {
	return &State{
		Mode:         sk.Mode,
		Transfer:     sk.Cart.State,
		Modem:        *sk.Modem,
		Userport:     *sk.Userport,
		ResetCounter: sk.ResetCounter,
		HostCycles:   sk.HostCycles,
		Resets:       sk.resets,
		InboundLen:   sk.Inbound.Len(),
		OutboundLen:  sk.Outbound.Len(),
		MissedCycles: sk.IRQ.MissedCycles(),
		Violations:   sk.IRQ.Violations(),
	}
}
