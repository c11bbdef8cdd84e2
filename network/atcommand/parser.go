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

// Package atcommand interprets the bytes sent by the host while no session is
// connected as Hayes style modem commands.
//
// Characters are accumulated and echoed until a carriage return, at which
// point the line is evaluated. Responses are written to the Frontend. A dial
// command is not acted on by the parser: it is returned as a Result for the
// caller to perform.
package atcommand

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sidekick64/sidekicknet/logger"
	"github.com/sidekick64/sidekicknet/network"
)

// Fixed responses.
const (
	ResponseOK    = "OK\r"
	ResponseError = "ERROR\r"
)

// Character codes with special meaning.
const (
	CharDelete = 20
	CharReturn = 13
)

// MaxCommandLength is the length of the command buffer. Characters beyond
// this length are discarded.
const MaxCommandLength = 255

// Info is the source of the information returned by the "i" commands.
type Info interface {
	BaudRate() int
	LocalIP() string
	Time() string
}

// Action is the kind of Result.
type Action int

// List of valid Action values.
const (
	ActionNone Action = iota
	ActionDial
	ActionBaud
)

// Result is returned by Feed() and Evaluate() when the command requires the
// caller to do something.
type Result struct {
	Action Action

	// valid for ActionDial
	Host string
	Port int

	// valid for ActionBaud and for ActionDial when a shortcut forces a rate.
	// zero otherwise
	Baud int
}

func (r Result) String() string {
	switch r.Action {
	case ActionDial:
		if r.Baud > 0 {
			return fmt.Sprintf("dial %s:%d @%d", r.Host, r.Port, r.Baud)
		}
		return fmt.Sprintf("dial %s:%d", r.Host, r.Port)
	case ActionBaud:
		return fmt.Sprintf("baud %d", r.Baud)
	}
	return "none"
}

// Parser is the command mode line buffer.
type Parser struct {
	env  logger.Permission
	out  network.Frontend
	info Info

	// the identity line differs for the userport modem
	Userport bool

	// silent suppresses logging
	Silent bool

	buf [MaxCommandLength]byte
	n   int
}

// NewParser is the preferred method of initialisation for the Parser type.
func NewParser(env logger.Permission, out network.Frontend, info Info) *Parser {
	return &Parser{
		env:  env,
		out:  out,
		info: info,
	}
}

// Command returns the contents of the command buffer.
func (p *Parser) Command() string {
	return string(p.buf[:p.n])
}

// Reset clears the command buffer.
func (p *Parser) Reset() {
	p.n = 0
}

func (p *Parser) logf(format string, args ...any) {
	if p.Silent {
		return
	}
	logger.Logf(p.env, "modem [at]", format, args...)
}

// fold returns the lower case form of c. PETSCII shifted letters are folded
// to their ASCII lower case equivalent.
func fold(c byte) byte {
	switch {
	case c >= 'A' && c <= 'Z':
		return c + ('a' - 'A')
	case c >= 193 && c <= 218:
		return c - 193 + 'a'
	}
	return c
}

// ignored returns true if c is not accepted into the command buffer.
func ignored(c byte) bool {
	if c == CharReturn {
		return false
	}
	return c < 32 || (c > 127 && c < 193) || c > 218
}

// Feed one character from the host. The returned Result is only meaningful
// when the character completed a line.
func (p *Parser) Feed(c byte) Result {
	switch {
	case c == CharDelete:
		p.out.Push(c)
		if p.n > 0 {
			p.n--
		}
		return Result{}
	case ignored(c):
		p.logf("ignored char %d", c)
		return Result{}
	case c != CharReturn:
		p.out.Push(c)
		if p.n < len(p.buf) {
			p.buf[p.n] = fold(c)
			p.n++
		}
		return Result{}
	}

	p.out.Push(c)
	cmd := p.Command()
	p.Reset()
	return p.Evaluate(cmd)
}

func (p *Parser) fail(reason string) Result {
	p.logf("ERROR - %s", reason)
	p.out.PushString(ResponseError)
	return Result{}
}

var baudCommands = map[string]int{
	"b300":  300,
	"b1200": 1200,
	"b2400": 2400,
	"b4800": 4800,
	"b9600": 9600,
}

// Evaluate a complete command line. The line is expected to be case folded.
func (p *Parser) Evaluate(cmd string) Result {
	if len(cmd) == 0 {
		return Result{}
	}

	p.logf("command %q", cmd)

	if len(cmd) < 2 {
		return p.fail("command too short")
	}

	if cmd[0] != 'a' && cmd[0] != 't' {
		return p.fail("cmd has to start with at")
	}

	body := strings.Trim(cmd[2:], " ")
	if len(body) == 0 {
		return p.fail("no chars after at")
	}

	switch body[0] {
	case 'd':
		return p.dial(strings.TrimLeft(body[1:], " "))
	case 'b':
		if bps, ok := baudCommands[body]; ok {
			p.out.PushString(ResponseOK)
			return Result{Action: ActionBaud, Baud: bps}
		}
		return p.fail("unsupported baud rate")
	case 'i':
		return p.identify(body[1:])
	case 'v':
		p.logf("command tolerated but not implemented")
		p.out.PushString(ResponseOK)
		return Result{}
	}

	return p.fail("unknown command")
}

func (p *Parser) dial(number string) Result {
	if s, ok := LookupShortcut(number); ok {
		p.logf("shortcut %q", number)
		return Result{Action: ActionDial, Host: s.Host, Port: s.Port, Baud: s.Baud}
	}

	switch {
	case len(number) >= 2 && number[0] == '"' && number[len(number)-1] == '"':
		number = number[1 : len(number)-1]
	case len(number) >= 2 && number[0] == '"':
		number = number[1:]
	case len(number) >= 1 && number[0] == 't':
		number = strings.TrimLeft(number[1:], " ")
	}

	if len(number) == 0 {
		return p.fail("no chars between quotes")
	}

	if strings.Count(number, ":") > 1 {
		return p.fail("more than one separator")
	}
	if strings.ContainsRune(number, ' ') {
		return p.fail("no blanks allowed in here")
	}

	sep := strings.IndexRune(number, ':')
	if sep <= 0 || sep == len(number)-1 {
		return p.fail("no separator found between hostname and port")
	}

	port, err := strconv.Atoi(number[sep+1:])
	if err != nil || port < 1 || port > 65535 {
		return p.fail("invalid port")
	}

	return Result{Action: ActionDial, Host: number[:sep], Port: port}
}

func (p *Parser) identify(arg string) Result {
	switch arg {
	case "":
		if p.Userport {
			p.out.PushString("sidekick64 userport modem emulation\rhave fun!\r")
		} else {
			p.out.PushString("sidekick64 swiftlink modem emulation\rhave fun!\r")
		}
		p.out.PushString(fmt.Sprintf("current baudrate: %d\r", p.info.BaudRate()))
	case "7":
		p.out.PushString(p.info.Time() + "\r")
	case "2":
		p.out.PushString(p.info.LocalIP() + "\r")
	default:
		return p.fail("unknown info command")
	}
	return Result{}
}
