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

package atcommand_test

import (
	"testing"

	"github.com/sidekick64/sidekicknet/hardware/queue"
	"github.com/sidekick64/sidekicknet/logger"
	"github.com/sidekick64/sidekicknet/network/atcommand"
	"github.com/sidekick64/sidekicknet/test"
)

type info struct{}

func (info) BaudRate() int   { return 2400 }
func (info) LocalIP() string { return "192.168.0.64" }
func (info) Time() string    { return "12:00:00" }

func newParser() (*atcommand.Parser, *queue.ByteQueue) {
	q := queue.NewByteQueue(1024)
	return atcommand.NewParser(logger.Allow, q, info{}), q
}

// type a line into the parser and return the result and everything written
// back, with the echo removed.
func typeLine(p *atcommand.Parser, q *queue.ByteQueue, line string) (atcommand.Result, string) {
	q.Reset()
	var r atcommand.Result
	for i := 0; i < len(line); i++ {
		r = p.Feed(line[i])
	}
	r = p.Feed(atcommand.CharReturn)
	out := string(q.Drain(0))
	echo := ""
	for i := 0; i < len(line); i++ {
		if line[i] >= 32 {
			echo += line[i : i+1]
		}
	}
	echo += "\r"
	if len(out) >= len(echo) && out[:len(echo)] == echo {
		out = out[len(echo):]
	}
	return r, out
}

func TestMalformed(t *testing.T) {
	p, q := newParser()

	for _, line := range []string{
		"A",
		"AT",
		"AT   ",
		"XY",
		`ATD""`,
		"ATDhost:port:extra",
		"ATDhost:",
		"ATD:1234",
		"ATDhost name:1234",
		"ATDhost",
		"ATDhost:abc",
		"ATB1234",
		"ATI9",
		"ATZ",
	} {
		r, out := typeLine(p, q, line)
		test.ExpectEquality(t, r.Action, atcommand.ActionNone, line)
		test.ExpectEquality(t, out, atcommand.ResponseError, line)
		test.ExpectEquality(t, p.Command(), "", line)
	}
}

func TestDial(t *testing.T) {
	p, q := newParser()

	for _, line := range []string{
		"ATDhost:1234",
		"ATDThost:1234",
		"atdt host:1234",
		`ATD"host:1234"`,
		`ATD"host:1234`,
		"  ATDhost:1234",
	} {
		if line[0] == ' ' {
			// leading spaces are part of the command and make it invalid
			_, out := typeLine(p, q, line)
			test.ExpectEquality(t, out, atcommand.ResponseError)
			continue
		}
		r, out := typeLine(p, q, line)
		test.ExpectEquality(t, r.Action, atcommand.ActionDial, line)
		test.ExpectEquality(t, r.Host, "host", line)
		test.ExpectEquality(t, r.Port, 1234, line)
		test.ExpectEquality(t, out, "", line)
	}
}

func TestShortcuts(t *testing.T) {
	p, q := newParser()

	r, _ := typeLine(p, q, "ATD@habitat")
	test.ExpectEquality(t, r.Action, atcommand.ActionDial)
	test.ExpectEquality(t, r.Host, "neohabitat.demo.spi.ne")
	test.ExpectEquality(t, r.Port, 1986)
	test.ExpectEquality(t, r.Baud, 1200)

	r, _ = typeLine(p, q, "ATDT5551212")
	test.ExpectEquality(t, r.Host, "q-link.net")
	test.ExpectEquality(t, r.Port, 5190)

	r, _ = typeLine(p, q, "ATDT01910")
	test.ExpectEquality(t, r.Baud, 2400)

	r, _ = typeLine(p, q, "ATD@rc")
	test.ExpectEquality(t, r.Host, "bbs.retrocampus.com")
	test.ExpectEquality(t, r.Baud, 0)

	_, ok := atcommand.LookupShortcut("@nothing")
	test.ExpectFailure(t, ok)
}

func TestBaud(t *testing.T) {
	p, q := newParser()
	for _, bps := range []int{300, 1200, 2400, 4800, 9600} {
		r, out := typeLine(p, q, "ATB"+itoa(bps))
		test.ExpectEquality(t, r.Action, atcommand.ActionBaud)
		test.ExpectEquality(t, r.Baud, bps)
		test.ExpectEquality(t, out, atcommand.ResponseOK)
	}
}

func itoa(v int) string {
	s := ""
	for v > 0 {
		s = string(rune('0'+v%10)) + s
		v /= 10
	}
	return s
}

func TestInfo(t *testing.T) {
	p, q := newParser()

	_, out := typeLine(p, q, "ATI")
	test.ExpectEquality(t, out, "sidekick64 swiftlink modem emulation\rhave fun!\rcurrent baudrate: 2400\r")

	p.Userport = true
	_, out = typeLine(p, q, "ATI")
	test.ExpectEquality(t, out, "sidekick64 userport modem emulation\rhave fun!\rcurrent baudrate: 2400\r")

	_, out = typeLine(p, q, "ATI2")
	test.ExpectEquality(t, out, "192.168.0.64\r")
	_, out = typeLine(p, q, "ATI7")
	test.ExpectEquality(t, out, "12:00:00\r")
	_, out = typeLine(p, q, "ATV1")
	test.ExpectEquality(t, out, atcommand.ResponseOK)
}

func TestInputFilter(t *testing.T) {
	p, q := newParser()

	// control characters and the upper PETSCII range are ignored and not
	// echoed
	for _, c := range []byte{1, 27, 130, 192, 220} {
		p.Feed(c)
	}
	test.ExpectEquality(t, q.Len(), 0)
	test.ExpectEquality(t, p.Command(), "")

	// shifted PETSCII letters are folded
	p.Feed(193)
	p.Feed('T')
	test.ExpectEquality(t, p.Command(), "at")

	// delete is echoed and removes a character
	p.Feed('x')
	p.Feed(atcommand.CharDelete)
	test.ExpectEquality(t, p.Command(), "at")
	test.ExpectEquality(t, string(q.Drain(0)), "\xc1Tx\x14")

	// delete on an empty buffer is harmless
	p.Reset()
	p.Feed(atcommand.CharDelete)
	test.ExpectEquality(t, p.Command(), "")

	// an empty line produces no response
	q.Reset()
	r := p.Feed(atcommand.CharReturn)
	test.ExpectEquality(t, r.Action, atcommand.ActionNone)
	test.ExpectEquality(t, string(q.Drain(0)), "\r")
}
