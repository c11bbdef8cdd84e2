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
	"github.com/sidekick64/sidekicknet/hardware/preferences"
)

// Mode is the emulation used once the cartridge has been disabled.
type Mode int

// List of valid Mode values.
const (
	ModeNone Mode = iota
	ModeSwiftLink
	ModeUserport
	ModeAudioTable
)

func (m Mode) String() string {
	switch m {
	case ModeSwiftLink:
		return "swiftlink"
	case ModeUserport:
		return "userport"
	case ModeAudioTable:
		return "audio table"
	}
	return "none"
}

// ModeForModemType returns the bus mode for a modem.type preference value.
// The userport USB modem type has no bus side. Its bytes arrive through the
// serial frontend.
func ModeForModemType(t int) Mode {
	switch t {
	case preferences.ModemSwiftLink:
		return ModeSwiftLink
	case preferences.ModemWiC64:
		return ModeUserport
	}
	return ModeNone
}

// SelectMode resolves the dispatch tables for the mode. It must not be called
// from the bus handler.
func (sk *Sidekick) SelectMode(mode Mode) {
	sk.Mode = mode

	sk.enabled = [...]access{
		bus.RegionNone: accessIgnore,
		bus.RegionROML: accessLauncher,
		bus.RegionROMH: accessIgnore,
		bus.RegionIO1:  accessTransfer,
		bus.RegionIO2:  accessDisable,
	}

	sk.disabled = [...]access{
		bus.RegionNone: accessIgnore,
		bus.RegionROML: accessIgnore,
		bus.RegionROMH: accessIgnore,
		bus.RegionIO1:  accessIgnore,
		bus.RegionIO2:  accessIgnore,
	}

	switch mode {
	case ModeSwiftLink:
		sk.disabled[bus.RegionIO1] = accessSwiftLink
		sk.disabled[bus.RegionIO2] = accessSwiftLinkIO2
	case ModeUserport:
		sk.disabled[bus.RegionIO1] = accessUserport
	case ModeAudioTable:
		sk.disabled[bus.RegionIO2] = accessAudioTable
	}
}
