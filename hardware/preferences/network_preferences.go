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

// NetworkPreferences configure the socket bridge and the HTTP based services.
type NetworkPreferences struct {
	// bounded number of receive attempts per connected session pass
	ReceiveAttempts prefs.Int

	// bounded number of DNS resolve attempts
	ResolveAttempts prefs.Int

	// URL used by the userport fetch command when the URL begins with '!'
	DefaultTarget prefs.String

	// name returned by the userport link name command
	LinkName prefs.String

	// server for the screen protocol and the optional credentials
	ScreenServer   prefs.String
	ScreenUser     prefs.String
	ScreenPassword prefs.String

	// directory (relative to the resource path) that downloads are saved to
	DownloadPath prefs.String
}

// SetDefaults reverts the network preferences to their default values.
func (p *NetworkPreferences) SetDefaults() {
	_ = p.ReceiveAttempts.Set(5)
	_ = p.ResolveAttempts.Set(3)
	_ = p.DefaultTarget.Set("")
	_ = p.LinkName.Set("sidekickwlan")
	_ = p.ScreenServer.Set("")
	_ = p.ScreenUser.Set("")
	_ = p.ScreenPassword.Set("")
	_ = p.DownloadPath.Set("downloads")
}
