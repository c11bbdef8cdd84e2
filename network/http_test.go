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

package network_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/logger"
	"github.com/sidekick64/sidekicknet/network"
	"github.com/sidekick64/sidekicknet/test"
)

// resolves every name to the loopback address.
type loopback struct {
	calls int
}

func (l *loopback) Resolve(_ context.Context, host string) (string, error) {
	l.calls++
	if host == "nowhere.invalid" {
		return "", curated.Errorf(network.ResolveError, host, "no such host")
	}
	return "127.0.0.1", nil
}

func targetFor(t *testing.T, srv *httptest.Server, host string) network.Target {
	t.Helper()
	_, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	test.DemandSuccess(t, err)
	p, err := strconv.Atoi(port)
	test.DemandSuccess(t, err)
	tg, err := network.ParseURL(fmt.Sprintf("http://%s:%d/", host, p))
	test.DemandSuccess(t, err)
	return tg
}

func TestHTTPGetter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/hello":
			fmt.Fprintf(w, "hello %s", r.URL.Query().Get("name"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	res := &loopback{}
	g := network.NewHTTPGetter(logger.Allow, res, time.Second)
	tg := targetFor(t, srv, "bbs.example.com")

	data, err := g.Get(context.Background(), tg, "/hello?name=c64")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(data), "hello c64")
	test.ExpectEquality(t, res.calls, 1)

	_, err = g.Get(context.Background(), tg, "/missing")
	test.ExpectSuccess(t, curated.Is(err, network.StatusError))

	_, err = g.Get(context.Background(), targetFor(t, srv, "nowhere.invalid"), "/hello")
	test.ExpectFailure(t, err)
}

func TestDiskStorage(t *testing.T) {
	s := network.DiskStorage{Base: t.TempDir()}

	test.DemandSuccess(t, s.WriteFile("SD:", "PRG/downloads/game.prg", []byte{1, 8, 0xa9}))
	data, err := s.ReadFile("SD", "PRG/downloads/game.prg")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(data), 3)

	// paths cannot escape the drive
	test.DemandSuccess(t, s.WriteFile("SD", "../../escape.prg", []byte{0}))
	_, err = s.ReadFile("SD", "escape.prg")
	test.ExpectSuccess(t, err)

	_, err = s.ReadFile("SD", "missing.prg")
	test.ExpectSuccess(t, curated.Is(err, network.StorageError))

	_, err = s.ReadFile("", "x")
	test.ExpectFailure(t, err)
}
