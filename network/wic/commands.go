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

// Package wic executes the commands received through the userport framing.
package wic

import (
	"context"
	"fmt"

	"github.com/sidekick64/sidekicknet/logger"
	"github.com/sidekick64/sidekicknet/network"
)

// Command codes.
const (
	CommandFetch      = 1
	CommandLocalIP    = 6
	CommandSetDefault = 8
	CommandComment    = 9
	CommandLinkName   = 10
)

// ShorthandPrefix at the start of a fetch URL means the rest of the URL is
// appended to the default target.
const ShorthandPrefix = '!'

// Commands executes userport commands.
type Commands struct {
	perm   logger.Permission
	getter network.Getter

	// the target used for shorthand fetches. set by CommandSetDefault
	Default network.Target

	LinkName string
	LocalIP  func() string
}

// NewCommands is the preferred method of initialisation for the Commands
// type.
func NewCommands(perm logger.Permission, getter network.Getter) *Commands {
	return &Commands{
		perm:    perm,
		getter:  getter,
		LocalIP: func() string { return "0.0.0.0" },
	}
}

// printable replaces non-printable characters in the payload.
func printable(payload []byte) string {
	b := make([]byte, len(payload))
	for i, c := range payload {
		if c > 31 && c < 126 {
			b[i] = c
		} else {
			b[i] = '~'
		}
	}
	return string(b)
}

// Execute the command with the payload. If the command produces a response
// the payload of the response is returned along with true. The response
// framing is added by the caller.
func (c *Commands) Execute(ctx context.Context, cmd uint8, payload []byte) ([]byte, bool) {
	arg := printable(payload)

	switch cmd {
	case CommandFetch:
		return c.fetch(ctx, arg)

	case CommandLocalIP:
		logger.Log(c.perm, "wic", "get ip address")
		return []byte(c.LocalIP()), true

	case CommandSetDefault:
		t, err := network.ParseURL(arg)
		if err != nil {
			logger.Logf(c.perm, "wic", "set default: %v", err)
			return nil, false
		}
		c.Default = t
		logger.Logf(c.perm, "wic", "default target is %s", t)
		return nil, false

	case CommandComment:
		logger.Logf(c.perm, "wic", "rem: %s", arg)
		return nil, false

	case CommandLinkName:
		return []byte(c.LinkName), true
	}

	logger.Logf(c.perm, "wic", "ignoring unhandled command %d", cmd)
	return nil, false
}

func (c *Commands) fetch(ctx context.Context, arg string) ([]byte, bool) {
	var t network.Target

	if len(arg) > 0 && arg[0] == ShorthandPrefix {
		if c.Default.IsZero() {
			logger.Log(c.perm, "wic", "shorthand fetch without a default target")
			return nil, false
		}
		t = c.Default.WithSuffix(arg[1:])
	} else {
		var err error
		t, err = network.ParseURL(arg)
		if err != nil {
			logger.Logf(c.perm, "wic", "fetch: %v", err)
			return nil, false
		}
	}

	data, err := c.getter.Get(ctx, t, t.Path)
	if err != nil {
		logger.Logf(c.perm, "wic", "fetch: %v", err)
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	if len(data) > 0xffff {
		logger.Log(c.perm, "wic", fmt.Sprintf("response truncated from %d bytes", len(data)))
		data = data[:0xffff]
	}

	return data, true
}
