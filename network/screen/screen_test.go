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

package screen_test

import (
	"context"
	"strings"
	"testing"

	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/logger"
	"github.com/sidekick64/sidekicknet/network"
	"github.com/sidekick64/sidekicknet/network/screen"
	"github.com/sidekick64/sidekicknet/test"
)

const sessionID = "0123456789abcdef0123456789"

// server is a scripted screen server. page replies are consumed in order.
type server struct {
	requests  []string
	handshake []byte
	pages     [][]byte
}

func (s *server) Get(_ context.Context, _ network.Target, path string) ([]byte, error) {
	s.requests = append(s.requests, path)
	if strings.Contains(path, "session=new") {
		if s.handshake == nil {
			return nil, curated.Errorf(network.HTTPError, "refused")
		}
		return s.handshake, nil
	}
	if len(s.pages) == 0 {
		return nil, curated.Errorf(network.HTTPError, "no page")
	}
	p := s.pages[0]
	s.pages = s.pages[1:]
	return p, nil
}

func newClient(s *server) *screen.Client {
	t, _ := network.ParseURL("http://sktp.example.com/")
	c := screen.NewClient(logger.Allow, s, t)
	c.Active = true
	return c
}

func TestHandshake(t *testing.T) {
	s := &server{handshake: []byte(sessionID)}
	c := newClient(s)
	c.User = "alice"
	c.Password = "secret"

	test.ExpectSuccess(t, c.Open(context.Background()))
	test.ExpectEquality(t, c.SessionID(), sessionID)
	test.ExpectEquality(t, s.requests[0], "/sktp.php?session=new&username=alice&password=secret&sktpv=5&type=64")

	// password without user is not sent
	c.User = ""
	test.ExpectSuccess(t, c.Open(context.Background()))
	test.ExpectEquality(t, s.requests[1], "/sktp.php?session=new&sktpv=5&type=64")
}

func TestHandshakeFailures(t *testing.T) {
	s := &server{handshake: []byte{1}}
	c := newClient(s)
	err := c.Open(context.Background())
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, screen.ClientError))
	test.ExpectEquality(t, c.ErrorCode, screen.ErrorRefused)

	s.handshake = nil
	test.ExpectFailure(t, c.Open(context.Background()))
	test.ExpectEquality(t, c.ErrorCode, screen.ErrorHandshake)

	s.handshake = []byte("short")
	test.ExpectFailure(t, c.Open(context.Background()))
	test.ExpectEquality(t, c.ErrorCode, screen.ErrorHandshake)

	c.Server = network.Target{}
	test.ExpectFailure(t, c.Open(context.Background()))
	test.ExpectEquality(t, c.ErrorCode, screen.ErrorNoServer)
}

func TestFetch(t *testing.T) {
	s := &server{
		handshake: []byte(sessionID),
		pages:     [][]byte{{0, 1, 2}, {1, 5}},
	}
	c := newClient(s)

	p, err := c.Fetch(context.Background(), 0x85)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(p), 3)
	test.ExpectEquality(t, s.requests[1], "/sktp.php?&key=85&sessionid="+sessionID)

	c.Redraw()
	_, err = c.Fetch(context.Background(), 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s.requests[2], "/sktp.php?&key=00&sessionid="+sessionID+"&redraw=1")

	// the session is still open so there is no second handshake
	test.ExpectEquality(t, len(s.requests), 3)

	// no more pages
	_, err = c.Fetch(context.Background(), 0)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, c.ErrorCode, screen.ErrorFetch)

	c.Active = false
	_, err = c.Fetch(context.Background(), 0)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, c.ErrorCode, screen.ErrorInactive)
}

func TestExpiredSession(t *testing.T) {
	s := &server{
		handshake: []byte(sessionID),
		pages:     [][]byte{{screen.TypeExpired}, {1, 9}},
	}
	c := newClient(s)

	p, err := c.Fetch(context.Background(), 0x41)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p[1], uint8(9))

	// handshake, page, handshake, page with the key dropped
	test.ExpectEquality(t, len(s.requests), 4)
	test.ExpectEquality(t, s.requests[3], "/sktp.php?&key=00&sessionid="+sessionID)

	// expiry twice in a row is an error
	s.pages = [][]byte{{screen.TypeExpired}, {screen.TypeExpired}}
	_, err = c.Fetch(context.Background(), 0)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, c.ErrorCode, screen.ErrorExpired)
}

func downloadReply(url string, name string, save bool) []byte {
	b := []byte{screen.TypeDownload, uint8(len(url)), uint8(len(name)), 0}
	if save {
		b[3] = 1
	}
	b = append(b, url...)
	return append(b, name...)
}

func TestDownloadCommand(t *testing.T) {
	dl, err := screen.ParseDownloadCommand(downloadReply("https://csdb.example.com/getinternalfile.php/123", "Game.PRG", true))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, dl.Save)
	test.ExpectEquality(t, dl.Target.Host, "csdb.example.com")
	test.ExpectEquality(t, dl.Target.Path, "/getinternalfile.php/123")
	test.ExpectEquality(t, dl.Filename, "Game.PRG")
	test.ExpectEquality(t, dl.Extension, "prg")
	test.ExpectEquality(t, dl.SavePath("downloads"), "PRG/downloads/Game.PRG")

	// two character extension
	dl, err = screen.ParseDownloadCommand(downloadReply("http://a.example.com/x", "tune.xm", false))
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, dl.Save)
	test.ExpectEquality(t, dl.Extension, "xm")
	test.ExpectEquality(t, dl.SavePath("downloads"), "MUSIC/downloads/tune.xm")

	_, err = screen.ParseDownloadCommand([]byte{1, 2, 3, 4})
	test.ExpectFailure(t, err)

	b := downloadReply("http://a.example.com/x", "tune.xm", false)
	_, err = screen.ParseDownloadCommand(b[:len(b)-2])
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, screen.DownloadError))

	_, err = screen.ParseDownloadCommand(downloadReply("ftp://a.example.com/x", "a.prg", false))
	test.ExpectFailure(t, err)
}
