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
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/sidekick64/sidekicknet/curated"
)

// Sentinal errors.
const (
	ParseURLError = "url: %v"
	ResolveError  = "resolve: %s: %v"
	HTTPError     = "http: %v"
	StatusError   = "http: %s: status %d"
	StorageError  = "storage: %v"
)

// Target is a remote HTTP server and a path on that server.
type Target struct {
	Host   string
	Port   int
	Path   string
	Secure bool
}

func (t Target) String() string {
	return t.URL(t.Path)
}

// IsZero returns true if the Target has not been set.
func (t Target) IsZero() bool {
	return t.Host == ""
}

func (t Target) scheme() string {
	if t.Secure {
		return "https"
	}
	return "http"
}

// URL returns the full URL for path on the target's server.
func (t Target) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if (t.Secure && t.Port == 443) || (!t.Secure && t.Port == 80) {
		return fmt.Sprintf("%s://%s%s", t.scheme(), t.Host, path)
	}
	return fmt.Sprintf("%s://%s:%d%s", t.scheme(), t.Host, t.Port, path)
}

// WithSuffix returns a copy of the target with suffix appended to the path.
func (t Target) WithSuffix(suffix string) Target {
	t.Path += suffix
	return t
}

const (
	// max host length(s) defined by DNS specifications
	maxHostLength        = 253
	maxHostElementLength = 63

	// there is no upper limit for path size but 1024 bytes is more than enough
	maxPathLength = 1024

	// shortest possible URL. "http://a/"
	minURLLength = 9
)

// ParseURL parses a URL of the form http[s]://host[:port][/path]. The port
// defaults to 80 or 443 depending on the scheme and the path defaults to "/".
func ParseURL(s string) (Target, error) {
	var t Target

	if len(s) < minURLLength {
		return t, curated.Errorf(ParseURLError, "too short")
	}

	l := strings.ToLower(s)
	switch {
	case strings.HasPrefix(l, "https://"):
		t.Secure = true
		t.Port = 443
		s = s[len("https://"):]
	case strings.HasPrefix(l, "http://"):
		t.Port = 80
		s = s[len("http://"):]
	default:
		return t, curated.Errorf(ParseURLError, "not http or https")
	}

	end := strings.IndexAny(s, "/:")
	if end == -1 {
		end = len(s)
	}
	t.Host = s[:end]
	s = s[end:]

	if !isHostValid(t.Host) {
		return t, curated.Errorf(ParseURLError, fmt.Sprintf("invalid host (%s)", t.Host))
	}

	if strings.HasPrefix(s, ":") {
		end = strings.Index(s, "/")
		if end == -1 {
			end = len(s)
		}
		p, err := strconv.Atoi(s[1:end])
		if err != nil || p < 1 || p > 65535 {
			return t, curated.Errorf(ParseURLError, fmt.Sprintf("invalid port (%s)", s[1:end]))
		}
		t.Port = p
		s = s[end:]
	}

	if s == "" {
		s = "/"
	}
	if !isPathValid(s) {
		return t, curated.Errorf(ParseURLError, "invalid path")
	}
	t.Path = s

	return t, nil
}

func isHostValid(host string) bool {
	if len(host) == 0 || len(host) > maxHostLength {
		return false
	}

	labels := strings.Split(host, ".")
	for _, l := range labels {
		if len(l) < 1 || len(l) > maxHostElementLength {
			return false
		}

		// check for valid characters: letters (upper/lower), digits or hyphen
		for _, c := range l {
			if !isValidHostRune(c) {
				return false
			}
		}

		// a hostname may not start with a hyphen
		if l[0] == '-' {
			return false
		}
	}

	return true
}

func isPathValid(path string) bool {
	if len(path) > maxPathLength {
		return false
	}
	_, err := url.Parse(path)
	return err == nil
}

func isValidHostRune(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-'
}
