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

package preferences

import "github.com/sidekick64/sidekicknet/prefs"

// TimingPreferences are the real-time budgets of the scheduler. All values
// are counted in scheduler passes.
type TimingPreferences struct {
	// passes before the first network slot after the cartridge is disabled
	IdleDelay prefs.Int

	// as above but when the audio table is active
	AudioIdleDelay prefs.Int

	// passes between network slots once running. the USB value is used for
	// the userport USB modem type
	FollowUpDelay    prefs.Int
	USBFollowUpDelay prefs.Int

	// multiplier applied to the follow-up delay over a wireless link
	WLANMultiplier prefs.Int

	// passes the NMI line is held low
	NMIHold     prefs.Int
	NMIHoldWLAN prefs.Int

	// the NMI delay for a baud rate is NMINumerator / baud
	NMINumerator prefs.Int

	// reload value of the countdown that limits how often a register read can
	// request a DMA release
	DMAReleaseDelay prefs.Int

	// number of cache warming passes before the interrupt is re-armed
	WarmPasses prefs.Int
}

// SetDefaults reverts the timing preferences to their default values.
func (p *TimingPreferences) SetDefaults() {
	_ = p.IdleDelay.Set(3500000)
	_ = p.AudioIdleDelay.Set(180000000)
	_ = p.FollowUpDelay.Set(300000)
	_ = p.USBFollowUpDelay.Set(300)
	_ = p.WLANMultiplier.Set(10)
	_ = p.NMIHold.Set(4)
	_ = p.NMIHoldWLAN.Set(20)
	_ = p.NMINumerator.Set(20000 * 2400)
	_ = p.DMAReleaseDelay.Set(60000)
	_ = p.WarmPasses.Set(3)
}
