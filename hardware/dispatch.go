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
	"github.com/sidekick64/sidekicknet/hardware/bus"
	"github.com/sidekick64/sidekicknet/hardware/cartridge"
)

// access is an entry in a dispatch table. It returns the value to drive onto
// the data lines and whether the lines should be driven at all.
type access func(sk *Sidekick, cyc bus.Cycle) (uint8, bool)

// Cycle is the bus handler. It is called once per host bus cycle with the
// latched signals and returns the value for the data lines, if any.
//
// Cycle must not block, allocate or log.
func (sk *Sidekick) Cycle(sig bus.Signals) (uint8, bool) {
	if sk.IRQ.Masked() {
		sk.IRQ.Missed()
		return 0, false
	}

	sk.HostCycles++

	if sig.Reset {
		sk.ResetCounter++
	} else {
		sk.ResetCounter = 0
	}

	if sk.ResetCounter > ResetThreshold && sk.resetFromCode != 2 {
		sk.HostReset()
		return 0, false
	}

	cyc := bus.Decode(sig)
	if sk.Cart.State.Disabled {
		return sk.disabled[cyc.Region](sk, cyc)
	}
	return sk.enabled[cyc.Region](sk, cyc)
}

func accessIgnore(_ *Sidekick, _ bus.Cycle) (uint8, bool) {
	return 0, false
}

func accessLauncher(sk *Sidekick, cyc bus.Cycle) (uint8, bool) {
	if cyc.Write {
		return 0, false
	}
	return sk.Cart.ReadROM(cyc.Offset), true
}

func accessTransfer(sk *Sidekick, cyc bus.Cycle) (uint8, bool) {
	if cyc.Write {
		sk.Cart.Restart(cyc.Register())
		sk.Cart.Warm()
		return 0, false
	}
	return sk.Cart.ReadRegister(cyc.Register()), true
}

func accessDisable(sk *Sidekick, cyc bus.Cycle) (uint8, bool) {
	if cyc.Write {
		sk.Cart.WriteIO2(cyc.Register(), cyc.Data)
	}
	return 0, false
}

func accessSwiftLink(sk *Sidekick, cyc bus.Cycle) (uint8, bool) {
	if cyc.Offset > 0x03 {
		return 0, false
	}
	if cyc.Write {
		sk.Modem.Write(cyc.Register(), cyc.Data)
		return 0, false
	}
	return sk.Modem.Read(cyc.Register()), true
}

func accessSwiftLinkIO2(_ *Sidekick, cyc bus.Cycle) (uint8, bool) {
	if cyc.Write {
		return 0, false
	}
	return 0, true
}

func accessUserport(sk *Sidekick, cyc bus.Cycle) (uint8, bool) {
	if cyc.Write {
		sk.Userport.Write(cyc.Register(), cyc.Data)
		return 0, false
	}
	return sk.Userport.Read(cyc.Register()), true
}

// registers and values of the reset-from-code sequence.
const (
	resetFromCodeRegA = 0x11
	resetFromCodeValA = 0x22
	resetFromCodeRegB = 0x33
	resetFromCodeValB = 0x44
)

func accessAudioTable(sk *Sidekick, cyc bus.Cycle) (uint8, bool) {
	if !cyc.Write {
		if cyc.Register() == AudioTableRegister {
			return sk.Audio.Next(), true
		}
		return 0, false
	}

	switch {
	case sk.resetFromCode == 0 && cyc.Register() == resetFromCodeRegA:
		if cyc.Data == resetFromCodeValA {
			sk.resetFromCode = 1
		}
	case sk.resetFromCode == 1 && cyc.Register() == resetFromCodeRegB:
		if cyc.Data == resetFromCodeValB {
			sk.resetFromCode = 2
		}
	}
	return 0, false
}

// disable is the signal sequence that disables the cartridge. Useful for
// frontends and tests that drive the handler directly.
var disable = bus.Signals{
	Address: bus.IO2Origin + cartridge.DisableRegister,
	Data:    cartridge.DisableCode,
}

// Disable drives the bus cycle that disables the cartridge.
func (sk *Sidekick) Disable() {
	sk.Cycle(disable)
}
