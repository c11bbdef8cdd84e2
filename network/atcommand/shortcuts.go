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

package atcommand

// Shortcut is a dial keyword that resolves to a fixed service.
type Shortcut struct {
	Host string
	Port int

	// zero keeps the current baud rate
	Baud int
}

// the keys are matched against the text following "atd", after case folding
// and trimming.
var shortcuts = map[string]Shortcut{
	// quantum link
	"t 5551212": {Host: "q-link.net", Port: 5190, Baud: 1200},
	"t5551212":  {Host: "q-link.net", Port: 5190, Baud: 1200},

	// bildschirmtext. the plus/4 number dials at 2400
	"t01910": {Host: "static.166.94.201.195.clients.your-server.de", Port: 20000, Baud: 2400},
	"190":    {Host: "static.166.94.201.195.clients.your-server.de", Port: 20000, Baud: 1200},
	"btx":    {Host: "static.166.94.201.195.clients.your-server.de", Port: 20000, Baud: 1200},

	"@habitat": {Host: "neohabitat.demo.spi.ne", Port: 1986, Baud: 1200},
	"@qw":      {Host: "ryzentux", Port: 64128},
	"@rf":      {Host: "rapidfire.hopto.org", Port: 64128},
	"@ro":      {Host: "raveolution.hopto.org", Port: 64128},
	"@rc":      {Host: "bbs.retrocampus.com", Port: 6510},
	"@cm":      {Host: "coffeemud.net", Port: 2323},

	// never resolves. useful for testing
	"@dnsfail": {Host: "doesnotexist246789.hopto.org.bla", Port: 64128},
}

// LookupShortcut returns the Shortcut for the keyword.
func LookupShortcut(keyword string) (Shortcut, bool) {
	s, ok := shortcuts[keyword]
	return s, ok
}
