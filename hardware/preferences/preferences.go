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

// Package preferences holds the tunable values used by the hardware and
// network packages. The real-time timing values are empirical and can be
// changed from the prefs file or the command line without rebuilding.
package preferences

import (
	"github.com/sidekick64/sidekicknet/paths"
	"github.com/sidekick64/sidekicknet/prefs"
)

// ModemType values. These are the values stored in the modem.type
// preference.
const (
	ModemNone = iota
	ModemSwiftLink
	ModemUserportUSB
	ModemWiC64
)

// Preferences for the emulation. Create with NewPreferences() to have the
// values backed by the preferences file or NewDefaults() for an instance that
// is never saved.
type Preferences struct {
	dsk *prefs.Disk

	Modem   ModemPreferences
	Timing  TimingPreferences
	Network NetworkPreferences
}

// ModemPreferences configure the type of modem emulated.
type ModemPreferences struct {
	// one of the Modem* constants
	Type prefs.Int

	// the controller reaches the network over a wireless link. a wireless
	// link is slower to respond and all follow-up delays are lengthened
	WLAN prefs.Bool

	// baud rate the serial device is opened at for the userport USB modem
	// type
	DefaultBaud prefs.Int

	// the device to use for the userport USB modem type
	SerialDevice prefs.String
}

// NewDefaults returns a Preferences instance set to the default values and not
// backed by a file.
func NewDefaults() *Preferences {
	p := &Preferences{}
	p.SetDefaults()
	return p
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the preferences file in the
// resource directory.
func NewPreferences() (*Preferences, error) {
	p := NewDefaults()

	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	for k, v := range p.entries() {
		if err := p.dsk.Add(k, v); err != nil {
			return nil, err
		}
	}

	if err := p.dsk.Load(true); err != nil {
		return nil, err
	}

	return p, nil
}

type entry interface {
	String() string
	Set(value prefs.Value) error
	Get() prefs.Value
	Reset() error
}

func (p *Preferences) entries() map[string]entry {
	return map[string]entry{
		"modem.type":               &p.Modem.Type,
		"modem.wlan":               &p.Modem.WLAN,
		"modem.baud":               &p.Modem.DefaultBaud,
		"modem.serial":             &p.Modem.SerialDevice,
		"timing.idle":              &p.Timing.IdleDelay,
		"timing.idle.audio":        &p.Timing.AudioIdleDelay,
		"timing.followup":          &p.Timing.FollowUpDelay,
		"timing.followup.usb":      &p.Timing.USBFollowUpDelay,
		"timing.wlan.multiplier":   &p.Timing.WLANMultiplier,
		"timing.nmi.hold":          &p.Timing.NMIHold,
		"timing.nmi.hold.wlan":     &p.Timing.NMIHoldWLAN,
		"timing.nmi.numerator":     &p.Timing.NMINumerator,
		"timing.dma.release":       &p.Timing.DMAReleaseDelay,
		"timing.warm":              &p.Timing.WarmPasses,
		"network.receive.attempts": &p.Network.ReceiveAttempts,
		"network.resolve.attempts": &p.Network.ResolveAttempts,
		"network.wic.target":       &p.Network.DefaultTarget,
		"network.link":             &p.Network.LinkName,
		"network.screen.server":    &p.Network.ScreenServer,
		"network.screen.user":      &p.Network.ScreenUser,
		"network.screen.password":  &p.Network.ScreenPassword,
		"network.downloads":        &p.Network.DownloadPath,
	}
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	_ = p.Modem.Type.Set(ModemSwiftLink)
	_ = p.Modem.WLAN.Set(false)
	_ = p.Modem.DefaultBaud.Set(1200)
	_ = p.Modem.SerialDevice.Set("/dev/ttyUSB0")
	p.Timing.SetDefaults()
	p.Network.SetDefaults()
}

// Load preferences from disk. Does nothing if the instance is not backed by a
// file.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Load(false)
}

// Save preferences to disk. Does nothing if the instance is not backed by a
// file.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Save()
}
