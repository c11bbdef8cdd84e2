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

// Package session bridges the modem byte queues to a TCP connection once a
// dial has succeeded.
//
// Each call to Pass() sends whatever the host has written since the last pass
// and then makes a bounded number of receive attempts. The number of attempts
// is the network.receive.attempts preference. Only the first attempt after a
// send may wait for data; the others return immediately if nothing has
// arrived.
package session

import (
	"context"
	"errors"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/hardware/queue"
	"github.com/sidekick64/sidekicknet/logger"
	"github.com/sidekick64/sidekicknet/network"
)

// Sentinal errors.
const (
	DNSError     = "session: dns: %v"
	ConnectError = "session: connect: %v"
	NotConnected = "session: not connected"
)

// Strings written to the host.
const (
	ResponseConnect    = "CONNECT\r\n"
	ResponseFailedDNS  = "FAILED DNS\r\n"
	ResponseFailedPort = "FAILED PORT\r\n"
	ResponseHangUp     = "hanging up\r"
	ResponseNoCarrier  = "no carrier\r"
)

// EscapeLength is the number of consecutive '+' characters that end a
// session.
const EscapeLength = 3

// Dialer opens the transport connection.
type Dialer interface {
	DialContext(ctx context.Context, network string, address string) (net.Conn, error)
}

// Status is returned by Pass().
type Status int

// List of valid Status values.
const (
	Idle Status = iota
	Active
	HungUp
	NoCarrier
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case HungUp:
		return "hung up"
	case NoCarrier:
		return "no carrier"
	}
	return "idle"
}

// Timeouts used for the receive attempts.
const (
	BlockingReceive    = 250 * time.Millisecond
	NonBlockingReceive = time.Millisecond
	SendTimeout        = 5 * time.Second
)

// maximum number of bytes sent or received in one pass.
const burstSize = 4096

// Session is the state of the connection to a remote service.
type Session struct {
	perm     logger.Permission
	resolver network.Resolver
	dialer   Dialer

	conn net.Conn

	Connected    bool
	FirstReceive bool
	EscapeCount  int

	// number of receive attempts per pass
	Attempts int

	recv [burstSize]byte
}

// NewSession is the preferred method of initialisation for the Session type.
func NewSession(perm logger.Permission, resolver network.Resolver, dialer Dialer, attempts int) *Session {
	if dialer == nil {
		dialer = &net.Dialer{Timeout: 10 * time.Second}
	}
	if attempts < 1 {
		attempts = 1
	}
	return &Session{
		perm:     perm,
		resolver: resolver,
		dialer:   dialer,
		Attempts: attempts,
	}
}

// Dial host and port. The outcome is written to the host as one of the
// Response strings. The returned error is for logging only.
func (s *Session) Dial(ctx context.Context, host string, port int, toHost network.Frontend) error {
	s.Close()

	addr, err := s.resolver.Resolve(ctx, host)
	if err != nil {
		toHost.PushString(ResponseFailedDNS)
		logger.Logf(s.perm, "net [session]", "couldn't resolve IP address for %s", host)
		return curated.Errorf(DNSError, err)
	}

	conn, err := s.dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr, strconv.Itoa(port)))
	if err != nil {
		toHost.PushString(ResponseFailedPort)
		logger.Logf(s.perm, "net [session]", "socket connect failed at port %d", port)
		return curated.Errorf(ConnectError, err)
	}

	s.Attach(conn)
	toHost.PushString(ResponseConnect)
	logger.Logf(s.perm, "net [session]", "connected to %s:%d", host, port)

	return nil
}

// Attach an already open connection to the session.
func (s *Session) Attach(conn net.Conn) {
	s.conn = conn
	s.Connected = true
	s.FirstReceive = true
	s.EscapeCount = 0
}

// Close the connection. It is safe to call Close() when not connected.
func (s *Session) Close() {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.Connected = false
	s.FirstReceive = false
	s.EscapeCount = 0
}

// Pass runs one connected pass. Bytes written by the host are taken from
// fromHost and received bytes are written to toHost.
//
// On a HungUp or NoCarrier status the session has been closed and the
// appropriate response has been written to toHost. Clearing the queues and
// the command buffer is the responsibility of the caller and should be done
// before the response is written.
func (s *Session) Pass(fromHost *queue.ByteQueue, toHost network.Frontend, teardown func()) Status {
	if !s.Connected {
		return Idle
	}

	status := Idle

	out := fromHost.Drain(burstSize)
	if len(out) > 0 {
		status = Active

		// count the escape sequence. bytes before the final '+' are sent
		n := len(out)
		for i, b := range out {
			if b == '+' {
				s.EscapeCount++
			} else {
				s.EscapeCount = 0
			}
			if s.EscapeCount >= EscapeLength {
				n = i
				break
			}
		}

		if n > 0 {
			if err := s.send(out[:n]); err != nil {
				logger.Logf(s.perm, "net [session]", "error on socket send: %v", err)
				return s.end(NoCarrier, toHost, teardown)
			}
			s.FirstReceive = true
		}

		if s.EscapeCount >= EscapeLength {
			logger.Log(s.perm, "net [session]", "+++ hanging up")
			return s.end(HungUp, toHost, teardown)
		}
	}

	for i := 0; i < s.Attempts; i++ {
		timeout := NonBlockingReceive
		if s.FirstReceive {
			timeout = BlockingReceive
		}
		s.FirstReceive = false

		_ = s.conn.SetReadDeadline(time.Now().Add(timeout))
		n, err := s.conn.Read(s.recv[:])
		if n > 0 {
			toHost.PushBytes(s.recv[:n])
			status = Active
		}
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			logger.Logf(s.perm, "net [session]", "error on socket receive: %v", err)
			return s.end(NoCarrier, toHost, teardown)
		}
	}

	return status
}

func (s *Session) send(p []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(SendTimeout))
	_, err := s.conn.Write(p)
	return err
}

func (s *Session) end(status Status, toHost network.Frontend, teardown func()) Status {
	s.Close()
	if teardown != nil {
		teardown()
	}
	if status == HungUp {
		toHost.PushString(ResponseHangUp)
	} else {
		toHost.PushString(ResponseNoCarrier)
	}
	return status
}
