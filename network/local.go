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

package network

import (
	"net"
)

// LocalIP returns the first non-loopback IPv4 address of the machine. The
// unspecified address is returned if there is no such address.
func LocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return net.IPv4zero.String()
	}
	for _, a := range addrs {
		n, ok := a.(*net.IPNet)
		if !ok || n.IP.IsLoopback() {
			continue
		}
		if ip := n.IP.To4(); ip != nil {
			return ip.String()
		}
	}
	return net.IPv4zero.String()
}
