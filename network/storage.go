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
	"os"
	"path/filepath"
	"strings"

	"github.com/sidekick64/sidekicknet/curated"
)

// Storage is the storage medium used for launching programs and saving
// downloads. It must only be used with the bus interrupt masked.
type Storage interface {
	ReadFile(drive string, path string) ([]byte, error)
	WriteFile(drive string, path string, data []byte) error
}

// DiskStorage is a Storage backed by a directory on the local filesystem.
// Each drive is a sub-directory of the base.
type DiskStorage struct {
	Base string
}

func (s DiskStorage) filename(drive string, path string) (string, error) {
	drive = strings.TrimSuffix(drive, ":")
	clean := filepath.Clean("/" + path)
	if drive == "" {
		return "", curated.Errorf(StorageError, "no drive")
	}
	return filepath.Join(s.Base, drive, clean), nil
}

// ReadFile implements the Storage interface.
func (s DiskStorage) ReadFile(drive string, path string) ([]byte, error) {
	fn, err := s.filename(drive, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, curated.Errorf(StorageError, err)
	}
	return data, nil
}

// WriteFile implements the Storage interface. Missing directories are
// created.
func (s DiskStorage) WriteFile(drive string, path string, data []byte) error {
	fn, err := s.filename(drive, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fn), 0700); err != nil {
		return curated.Errorf(StorageError, err)
	}
	if err := os.WriteFile(fn, data, 0600); err != nil {
		return curated.Errorf(StorageError, err)
	}
	return nil
}
