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

// Package prefs holds typed preference values and saves them to disk.
//
// Preference values are declared as fields of a struct owned by the package
// that uses them (for example hardware.Preferences) and registered with a
// Disk instance under a dotted key. Values are read and written atomically
// so that they can be changed from a different goroutine to the one reading
// them.
//
// Values can be overridden from the command line with a string of key/value
// pairs:
//
//	modem.baud::2400; modem.wlan::true
//
// Command line values are consumed by the first Disk.Load() that sees the
// key.
package prefs
