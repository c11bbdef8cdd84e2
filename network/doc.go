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

// Package network contains the collaborators used by the scheduler to reach
// the outside world: host name resolution, HTTP GET and the storage medium.
// Each is an interface so that tests (and alternative frontends) can replace
// them.
//
// The sub-packages implement the protocols layered on the modem and userport
// byte queues: the AT command parser, the socket session, the userport
// commands, the screen protocol client and the scheduler that drives them.
package network
