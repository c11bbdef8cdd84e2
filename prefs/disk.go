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
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sidekick64/sidekicknet/curated"
)

// WarningBoilerPlate is written to the top of every prefs file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// DefaultPrefsFile is the name of the prefs file in the resource directory.
const DefaultPrefsFile = "preferences"

const separator = " :: "

// Sentinal errors returned by the Disk type.
const (
	DiskError      = "prefs: %v"
	DuplicateEntry = "prefs: key already added (%s)"
)

// Disk represents preference values as stored on disk. Many Disk instances
// can share the same file; entries that do not belong to an instance are
// preserved when that instance saves.
type Disk struct {
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Add a preference value to the Disk under the key.
func (dsk *Disk) Add(key string, p pref) error {
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf(DuplicateEntry, key)
	}
	dsk.entries[key] = p
	return nil
}

func (dsk *Disk) read() (map[string]string, error) {
	data := make(map[string]string)

	f, err := os.Open(dsk.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		kv := strings.SplitN(scanner.Text(), separator, 2)
		if len(kv) == 2 {
			data[kv[0]] = kv[1]
		}
	}

	return data, scanner.Err()
}

// Load values from disk. If saveOnFail is true and the file does not exist
// then the current values are saved to a new file. Command line values are
// applied after the file values.
func (dsk *Disk) Load(saveOnFail bool) error {
	data, err := dsk.read()
	if err != nil {
		if !os.IsNotExist(err) {
			return curated.Errorf(DiskError, err)
		}
		if saveOnFail {
			if err := dsk.Save(); err != nil {
				return err
			}
		}
	}

	for k, p := range dsk.entries {
		if v, ok := data[k]; ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf(DiskError, err)
			}
		}
		if v, ok := takeCommandLinePref(k); ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf(DiskError, err)
			}
		}
	}

	return nil
}

// Save current values to disk.
func (dsk *Disk) Save() error {
	data, err := dsk.read()
	if err != nil {
		if !os.IsNotExist(err) {
			return curated.Errorf(DiskError, err)
		}
		data = make(map[string]string)
	}

	for k, p := range dsk.entries {
		data[k] = p.String()
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(dsk.path)
	if err != nil {
		return curated.Errorf(DiskError, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, WarningBoilerPlate)
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s%s\n", k, separator, data[k])
	}

	if err := w.Flush(); err != nil {
		return curated.Errorf(DiskError, err)
	}

	return nil
}

// DoesNotHaveEntry returns true if the file on disk has no entry for the key.
func (dsk *Disk) DoesNotHaveEntry(key string) (bool, error) {
	data, err := dsk.read()
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, curated.Errorf(DiskError, err)
	}
	_, ok := data[key]
	return !ok, nil
}
