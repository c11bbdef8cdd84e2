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
	"github.com/sidekick64/sidekicknet/environment"
	"github.com/sidekick64/sidekicknet/hardware/bus"
	"github.com/sidekick64/sidekicknet/hardware/cartridge"
	"github.com/sidekick64/sidekicknet/hardware/irq"
	"github.com/sidekick64/sidekicknet/hardware/modem"
	"github.com/sidekick64/sidekicknet/hardware/queue"
	"github.com/sidekick64/sidekicknet/hardware/userport"
	"github.com/sidekick64/sidekicknet/logger"
)

// ResetThreshold is the number of consecutive bus cycles with the reset line
// asserted before the host is considered to have been reset.
const ResetThreshold = 3

// Sidekick is the main container for the emulated components of the
// cartridge.
type Sidekick struct {
	Env *environment.Environment

	IRQ      *irq.Controller
	Cart     *cartridge.Cartridge
	Modem    *modem.SwiftLink
	Userport *userport.Userport

	// bytes to the host and bytes from the host
	Inbound  *queue.ByteQueue
	Outbound *queue.ByteQueue

	Audio *AudioTable

	// the mode used once the cartridge has been disabled
	Mode Mode

	ResetCounter int
	HostCycles   uint64

	// progress through the reset-from-code write sequence. see ResetArmed
	resetFromCode int

	// dispatch tables. enabled is used while the cartridge is serving the
	// launcher and disabled afterwards. both are resolved by SelectMode()
	enabled  [bus.NumRegions]access
	disabled [bus.NumRegions]access

	// count of host resets
	resets int
}

// NewSidekick creates a new Sidekick and everything associated with the
// hardware. If launcher is nil the built in launcher is used.
func NewSidekick(env *environment.Environment, launcher *cartridge.Launcher) *Sidekick {
	if env == nil {
		env = environment.NewEnvironment(environment.MainEmulation, nil)
	}

	sk := &Sidekick{
		Env:      env,
		IRQ:      irq.NewController(),
		Cart:     cartridge.NewCartridge(launcher),
		Inbound:  queue.NewByteQueue(queue.DefaultCapacity),
		Outbound: queue.NewByteQueue(queue.DefaultCapacity),
		Audio:    NewAudioTable(nil),
	}

	t := &env.Prefs.Timing
	sk.Modem = modem.NewSwiftLink(sk.IRQ, sk.Inbound, sk.Outbound, t.NMINumerator.Int(), t.DMAReleaseDelay.Int())
	sk.Userport = userport.NewUserport(sk.IRQ, sk.Inbound, sk.Outbound)

	sk.SelectMode(ModeForModemType(env.Prefs.Modem.Type.Int()))

	return sk
}

// Insert a program into the cartridge. The program is patched for the
// userport adaptor if that is the selected mode.
func (sk *Sidekick) Insert(p *cartridge.ProgramImage) {
	if sk.Mode == ModeUserport {
		n := cartridge.PatchUserportAccess(p.Data)
		logger.Logf(sk.Env, "sidekick", "patched %d userport accesses", n)
	}
	sk.Cart.Insert(p)
	sk.resetFromCode = 0
}

// HostReset reinitialises the transfer and register state. It is called by
// Cycle() when the reset line has been held for long enough but can also be
// called directly.
func (sk *Sidekick) HostReset() {
	sk.Cart.Reset()
	sk.Modem.Reset()
	sk.Userport.Reset()
	sk.ResetCounter = 0
	sk.resets++
}

// Resets returns the number of host resets seen.
func (sk *Sidekick) Resets() int {
	return sk.resets
}

// ResetArmed returns true once the program has written the reset-from-code
// sequence. While armed a host reset does not re-enable the cartridge and the
// scheduler should return to the menu.
func (sk *Sidekick) ResetArmed() bool {
	return sk.resetFromCode == 2
}
