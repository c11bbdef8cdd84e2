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

package screen

import (
	"path"
	"strings"

	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/network"
)

// DownloadError is returned by ParseDownloadCommand for malformed commands.
const DownloadError = "screen: download command: %v"

// Download describes a binary the server asked the host to fetch.
type Download struct {
	Target    network.Target
	Filename  string
	Extension string

	// the downloaded file should be written to storage rather than
	// launched
	Save bool
}

// ParseDownloadCommand decodes a download reply. The reply layout is the type
// byte followed by [urlLen][nameLen][save][url][name].
func ParseDownloadCommand(data []byte) (Download, error) {
	if len(data) < 4 || data[0] != TypeDownload {
		return Download{}, curated.Errorf(DownloadError, "not a download reply")
	}

	urlLen := int(data[1])
	nameLen := int(data[2])
	if len(data) < 4+urlLen+nameLen {
		return Download{}, curated.Errorf(DownloadError, "reply truncated")
	}

	var dl Download
	var err error

	dl.Save = data[3] == 1
	dl.Target, err = network.ParseURL(string(data[4 : 4+urlLen]))
	if err != nil {
		return Download{}, curated.Errorf(DownloadError, err)
	}

	dl.Filename = string(data[4+urlLen : 4+urlLen+nameLen])

	// the extension is taken from the last three characters of the filename
	ext := dl.Filename
	if len(ext) > 3 {
		ext = ext[len(ext)-3:]
	}
	dl.Extension = strings.ToLower(strings.TrimPrefix(ext, "."))

	return dl, nil
}

// musicTypes are the module formats stored alongside SID files.
var musicTypes = map[string]bool{
	"mod": true,
	"xm":  true,
	"s3m": true,
	"it":  true,
	"mtm": true,
}

// SavePath returns the storage path for the download. The directory is chosen
// by extension with subfolder appended to it.
func (dl Download) SavePath(subfolder string) string {
	var dir string

	switch dl.Extension {
	case "prg":
		dir = "PRG"
	case "crt":
		dir = "CRT"
	case "d64":
		dir = "D64"
	case "bin":
		dir = "KERNAL"
	case "sid":
		dir = "SID"
	default:
		if musicTypes[dl.Extension] {
			dir = "MUSIC"
		}
	}

	return path.Join(dir, subfolder, dl.Filename)
}
