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

package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const baseResourcePath = ".sidekicknet"

// ResourcePath returns the full path to a file in the resource directory. The
// directory part of the path is created if it does not exist. Either argument
// can be empty.
func ResourcePath(path string, file string) (string, error) {
	base, err := getBasePath()
	if err != nil {
		return "", err
	}
	return joinPath(base, path, file)
}

func joinPath(base string, path string, file string) (string, error) {
	dir := filepath.Join(base, path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("paths: %w", err)
	}
	return filepath.Join(dir, file), nil
}

func getBasePath() (string, error) {
	if _, err := os.Stat(baseResourcePath); err == nil {
		return baseResourcePath, nil
	}

	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("paths: %w", err)
	}

	return filepath.Join(cfg, strings.TrimPrefix(baseResourcePath, ".")), nil
}

// UniqueFilename creates a filename that (assuming a functioning clock) should
// not collide with any existing file. Useful for saved downloads and captures.
func UniqueFilename(prepend string, name string) string {
	n := time.Now()
	timestamp := fmt.Sprintf("%04d%02d%02d_%02d%02d%02d", n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), n.Second())

	name = strings.TrimSpace(name)
	if len(name) > 0 {
		return fmt.Sprintf("%s_%s_%s", prepend, name, timestamp)
	}
	return fmt.Sprintf("%s_%s", prepend, timestamp)
}
