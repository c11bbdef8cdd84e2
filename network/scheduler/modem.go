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

package scheduler

import (
	"context"

	"github.com/sidekick64/sidekicknet/logger"
	"github.com/sidekick64/sidekicknet/network/atcommand"
	"github.com/sidekick64/sidekicknet/network/session"
)

// modemPass is the modem handling of a network slot. Either the connected
// session is serviced or the command mode parser is run.
func (s *Scheduler) modemPass(ctx context.Context) {
	sk := s.sk

	if s.port != nil {
		s.port.Exchange(sk.Inbound, sk.Outbound)
	}

	switch {
	case s.session.Connected:
		switch s.session.Pass(sk.Outbound, sk.Inbound, s.teardown) {
		case session.HungUp, session.NoCarrier:
			sk.Modem.SetOnline(false)
		}

	case s.pendingDial != nil:
		// dial recorded by the silent pass
		d := *s.pendingDial
		s.pendingDial = nil
		s.dial(ctx, d)

	default:
		s.commandPass(ctx, false)
	}

	if s.port != nil {
		s.port.Exchange(sk.Inbound, sk.Outbound)
	}
}

// commandPass feeds the bytes written by the host to the command parser. In
// silent mode a dial is recorded rather than performed.
func (s *Scheduler) commandPass(ctx context.Context, silent bool) {
	sk := s.sk
	sk.IRQ.AssertMasked("scheduler")

	s.parser.Silent = silent

	for {
		c, ok := sk.Outbound.Pop()
		if !ok {
			break
		}

		r := s.parser.Feed(c)
		switch r.Action {
		case atcommand.ActionBaud:
			sk.Modem.SetBaudRate(r.Baud)
			logger.Logf(sk.Env, "scheduler", "baud set to %d", r.Baud)

		case atcommand.ActionDial:
			if r.Baud > 0 {
				sk.Modem.SetBaudRate(r.Baud)
			}
			if silent {
				s.pendingDial = &r
				return
			}
			s.dial(ctx, r)
			return
		}
	}
}

func (s *Scheduler) dial(ctx context.Context, r atcommand.Result) {
	sk := s.sk
	if err := s.session.Dial(ctx, r.Host, r.Port, sk.Inbound); err != nil {
		logger.Log(sk.Env, "scheduler", err)
	}
	sk.Modem.SetOnline(s.session.Connected)
}

// teardown clears everything associated with a session. It is called by the
// session before the hang up or no carrier message is written.
func (s *Scheduler) teardown() {
	sk := s.sk
	sk.IRQ.AssertMasked("scheduler")

	s.session.Close()
	s.parser.Reset()
	s.pendingDial = nil
	sk.Inbound.Reset()
	sk.Outbound.Reset()
	sk.Modem.SetOnline(false)
}

// launchCommand executes a completed userport command and queues the
// response for the host.
func (s *Scheduler) launchCommand(ctx context.Context) {
	sk := s.sk

	changes := sk.Userport.DirectionChanges
	cmd, payload, ok := sk.Userport.TakeCommand()
	if !ok {
		return
	}

	logger.Logf(sk.Env, "scheduler", "userport command %d with %d bytes (%d direction changes)", cmd, len(payload), changes)
	if sk.Userport.Dropped > 0 {
		logger.Logf(sk.Env, "scheduler", "userport command %d: payload truncated by %d bytes", cmd, sk.Userport.Dropped)
	}
	sk.Userport.DirectionChanges = 0

	resp, ok := s.commands.Execute(ctx, cmd, payload)
	if ok {
		sk.Userport.SetResponse(resp)
	}
}
