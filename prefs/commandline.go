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

package prefs

import (
	"strings"
	"sync"
)

var commandLine struct {
	crit   sync.Mutex
	values map[string]string
}

// SetCommandLinePrefs adds key/value pairs from a string of the form
// "key::value; key::value". Malformed pairs are ignored.
func SetCommandLinePrefs(prefs string) {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()

	if commandLine.values == nil {
		commandLine.values = make(map[string]string)
	}

	for _, p := range strings.Split(prefs, ";") {
		kv := strings.Split(p, "::")
		if len(kv) == 2 {
			commandLine.values[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}
}

// takeCommandLinePref returns the value for the key if one was specified on
// the command line. The entry is removed so that it is only applied once.
func takeCommandLinePref(key string) (string, bool) {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()

	v, ok := commandLine.values[key]
	if ok {
		delete(commandLine.values, key)
	}
	return v, ok
}
