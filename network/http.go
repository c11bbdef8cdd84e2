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
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/logger"
)

// Getter performs an HTTP GET of a path on a Target.
type Getter interface {
	Get(ctx context.Context, target Target, path string) ([]byte, error)
}

// MaxResponse is the largest response body accepted by HTTPGetter.
const MaxResponse = 1024 * 500

// HTTPGetter is a Getter that uses net/http. Host names are resolved with the
// supplied Resolver so that resolution is bounded and cached in the same way
// as for socket sessions.
type HTTPGetter struct {
	perm     logger.Permission
	resolver Resolver
	dialer   net.Dialer
	client   *http.Client
}

// NewHTTPGetter is the preferred method of initialisation for the HTTPGetter
// type.
func NewHTTPGetter(perm logger.Permission, resolver Resolver, timeout time.Duration) *HTTPGetter {
	g := &HTTPGetter{
		perm:     perm,
		resolver: resolver,
		dialer: net.Dialer{
			Timeout: timeout,
		},
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = g.dial
	transport.Proxy = nil

	g.client = &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}

	return g
}

func (g *HTTPGetter) dial(ctx context.Context, network string, address string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}
	ip, err := g.resolver.Resolve(ctx, host)
	if err != nil {
		return nil, err
	}
	return g.dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
}

// Get implements the Getter interface.
func (g *HTTPGetter) Get(ctx context.Context, target Target, path string) ([]byte, error) {
	url := target.URL(path)
	logger.Logf(g.perm, "net [http]", "GET %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, curated.Errorf(HTTPError, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, curated.Errorf(HTTPError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, curated.Errorf(StatusError, url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponse+1))
	if err != nil {
		return nil, curated.Errorf(HTTPError, err)
	}
	if len(data) > MaxResponse {
		return nil, curated.Errorf(HTTPError, "response too large")
	}

	logger.Logf(g.perm, "net [http]", "received %d bytes", len(data))
	return data, nil
}
