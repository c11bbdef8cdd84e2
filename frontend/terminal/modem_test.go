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

package terminal_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/environment"
	"github.com/sidekick64/sidekicknet/frontend/terminal"
	"github.com/sidekick64/sidekicknet/hardware"
	"github.com/sidekick64/sidekicknet/hardware/cartridge"
	"github.com/sidekick64/sidekicknet/hardware/preferences"
	"github.com/sidekick64/sidekicknet/network/scheduler"
	"github.com/sidekick64/sidekicknet/test"
)

func emulation(t *testing.T) (*hardware.Sidekick, *scheduler.Scheduler) {
	t.Helper()

	p := preferences.NewDefaults()
	test.DemandSuccess(t, p.Modem.Type.Set(preferences.ModemSwiftLink))
	test.DemandSuccess(t, p.Timing.IdleDelay.Set(2))
	test.DemandSuccess(t, p.Timing.FollowUpDelay.Set(3))
	test.DemandSuccess(t, p.Timing.NMIHold.Set(2))
	test.DemandSuccess(t, p.Timing.NMINumerator.Set(2*1200))
	test.DemandSuccess(t, p.Timing.WarmPasses.Set(1))

	sk := hardware.NewSidekick(environment.NewEnvironment(environment.MainEmulation, p), nil)

	d := make([]uint8, 0x20)
	d[0] = 0x01
	d[1] = 0x08
	prg, err := cartridge.NewProgramImage(d)
	test.DemandSuccess(t, err)
	sk.Insert(prg)

	s := scheduler.NewScheduler(sk, scheduler.Collaborators{
		LocalIP: func() string { return "10.0.0.64" },
	})

	return sk, s
}

// run steps the modem and the scheduler until the output contains the
// wanted string or the modem returns an error.
func run(t *testing.T, sk *hardware.Sidekick, s *scheduler.Scheduler, m *terminal.Modem, out *bytes.Buffer, want string) error {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if err := m.Step(sk); err != nil {
			return err
		}
		s.Pass(context.Background())
		if want != "" && strings.Contains(out.String(), want) {
			return nil
		}
	}
	t.Errorf("did not receive %q. got %q", want, out.String())
	return nil
}

func TestModemCommand(t *testing.T) {
	sk, s := emulation(t)

	pr, pw := io.Pipe()
	defer pw.Close()

	out := &bytes.Buffer{}
	m := terminal.NewModem(pr, out, 1200, "")

	go func() {
		_, _ = pw.Write([]byte("ATI\n"))
	}()

	err := run(t, sk, s, m, out, "current baudrate: 1200\r\n")
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, sk.Cart.Disabled())
	test.ExpectSuccess(t, strings.HasPrefix(out.String(), "ATI\r\n"))
	test.ExpectSuccess(t, strings.Contains(out.String(), "have fun!\r\n"))
}

func TestModemDelete(t *testing.T) {
	sk, s := emulation(t)

	pr, pw := io.Pipe()
	defer pw.Close()

	out := &bytes.Buffer{}
	m := terminal.NewModem(pr, out, 2400, "")

	go func() {
		_, _ = pw.Write([]byte("ATX\x7fI2\r"))
	}()

	err := run(t, sk, s, m, out, "10.0.0.64\r\n")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, sk.Modem.BaudRate(), 2400)
}

func TestModemQuit(t *testing.T) {
	sk, s := emulation(t)

	out := &bytes.Buffer{}
	m := terminal.NewModem(strings.NewReader("\x1d"), out, 1200, "")

	err := run(t, sk, s, m, out, "")
	test.ExpectSuccess(t, curated.Is(err, terminal.Quit))
}

func TestModemInputClosed(t *testing.T) {
	sk, s := emulation(t)

	out := &bytes.Buffer{}
	m := terminal.NewModem(strings.NewReader(""), out, 1200, "")

	err := run(t, sk, s, m, out, "")
	test.ExpectSuccess(t, curated.Is(err, terminal.Quit))
}
