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

// Package screen is a client for the screen server. The server describes
// host-screen updates as a chunked byte stream which is handed unchanged to
// the screen consumer. The only reply types interpreted here are download
// commands and session expiry.
package screen

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/logger"
	"github.com/sidekick64/sidekicknet/network"
)

// ClientError is the pattern for all errors returned by the client. The
// integer is the code also stored in Client.ErrorCode.
const ClientError = "screen: error %d: %s"

// Error codes. The codes are shown to the user by the screen consumer.
const (
	ErrorNone      = 0
	ErrorNoServer  = 1
	ErrorFetch     = 2
	ErrorInactive  = 3
	ErrorNoPort    = 4
	ErrorHandshake = 5
	ErrorRefused   = 6
	ErrorExpired   = 7
)

// Reply types.
const (
	TypeClear    = 0
	TypeDownload = 2
	TypeExpired  = 3
)

// ProtocolVersion is sent with the session handshake.
const ProtocolVersion = 5

// MachineType is sent with the session handshake.
const MachineType = 64

type sessionState int

const (
	sessionNone sessionState = iota
	sessionOpen
	sessionRedraw
)

// Client of the screen server.
type Client struct {
	perm   logger.Permission
	getter network.Getter

	Server   network.Target
	User     string
	Password string

	// the screen consumer sets Active when the screen is showing. pages are
	// not fetched unless it is set
	Active bool

	// most recent error code. ErrorNone after a successful fetch
	ErrorCode int

	sessionID string
	state     sessionState
}

// NewClient is the preferred method of initialisation for the Client type.
func NewClient(perm logger.Permission, getter network.Getter, server network.Target) *Client {
	return &Client{
		perm:   perm,
		getter: getter,
		Server: server,
	}
}

func (c *Client) fail(code int, detail string) error {
	c.ErrorCode = code
	return curated.Errorf(ClientError, code, detail)
}

// SessionID returns the current session ID. Empty if there is no session.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Redraw forces the next page fetch to request a full redraw.
func (c *Client) Redraw() {
	if c.state == sessionOpen {
		c.state = sessionRedraw
	}
}

// Reset forgets the current session.
func (c *Client) Reset() {
	c.state = sessionNone
	c.sessionID = ""
}

func (c *Client) handshakePath() string {
	s := "/sktp.php?session=new"
	if c.User != "" {
		s = fmt.Sprintf("%s&username=%s", s, url.QueryEscape(c.User))
		if c.Password != "" {
			s = fmt.Sprintf("%s&password=%s", s, url.QueryEscape(c.Password))
		}
	}
	return fmt.Sprintf("%s&sktpv=%d&type=%d", s, ProtocolVersion, MachineType)
}

func (c *Client) pagePath(key uint8) string {
	s := fmt.Sprintf("/sktp.php?&key=%02X&sessionid=%s", key, c.sessionID)
	if c.state == sessionRedraw {
		c.state = sessionOpen
		s = fmt.Sprintf("%s&redraw=1", s)
	}
	return s
}

// Open starts a new session with the server.
func (c *Client) Open(ctx context.Context) error {
	c.Reset()

	if c.Server.Host == "" {
		return c.fail(ErrorNoServer, "no server configured")
	}
	if c.Server.Port == 0 {
		return c.fail(ErrorNoPort, "no server port")
	}

	data, err := c.getter.Get(ctx, c.Server, c.handshakePath())
	if err != nil {
		logger.Logf(c.perm, "screen", "handshake: %v", err)
		return c.fail(ErrorHandshake, "could not get session id")
	}

	switch {
	case len(data) == 1:
		return c.fail(ErrorRefused, "session refused")
	case len(data) > 25 && len(data) < 34:
		c.sessionID = string(data)
		c.state = sessionOpen
		logger.Logf(c.perm, "screen", "session id %s", c.sessionID)
	default:
		return c.fail(ErrorHandshake, fmt.Sprintf("unexpected session reply of %d bytes", len(data)))
	}

	c.ErrorCode = ErrorNone
	return nil
}

// Fetch the page for the keypress. A key of zero is a plain refresh. A new
// session is started if required, and once more if the server reports that
// the session has expired.
//
// The reply is returned unchanged. Callers should check for TypeDownload
// replies with ParseDownloadCommand().
func (c *Client) Fetch(ctx context.Context, key uint8) ([]byte, error) {
	if !c.Active {
		return nil, c.fail(ErrorInactive, "screen not active")
	}

	for restarted := false; ; restarted = true {
		if c.state == sessionNone {
			if err := c.Open(ctx); err != nil {
				return nil, err
			}
		}

		data, err := c.getter.Get(ctx, c.Server, c.pagePath(key))
		if err != nil {
			logger.Logf(c.perm, "screen", "fetch: %v", err)
			return nil, c.fail(ErrorFetch, "page fetch failed")
		}

		if len(data) > 0 && data[0] == TypeExpired {
			logger.Log(c.perm, "screen", "session has expired")
			c.Reset()
			if restarted {
				return nil, c.fail(ErrorExpired, "session expired")
			}

			// the key press has no meaning in the new session
			key = 0
			continue
		}

		c.ErrorCode = ErrorNone
		return data, nil
	}
}
