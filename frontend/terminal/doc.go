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

// Package terminal connects the user's terminal to the emulated modem. The
// Modem type stands in for a terminal program running on the host computer:
// it loads the program through the launcher registers, opens the SwiftLink
// and then types whatever is read from the input into the modem, echoing
// everything the modem sends back to the output.
//
// The Terminal type looks after the state of the controlling terminal
// (raw mode, geometry and flushing).
package terminal
