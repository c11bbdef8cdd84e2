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

package script_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/environment"
	"github.com/sidekick64/sidekicknet/hardware"
	"github.com/sidekick64/sidekicknet/hardware/cartridge"
	"github.com/sidekick64/sidekicknet/hardware/preferences"
	"github.com/sidekick64/sidekicknet/network/scheduler"
	"github.com/sidekick64/sidekicknet/script"
	"github.com/sidekick64/sidekicknet/test"
)

func newScript(t *testing.T) (*script.Script, *hardware.Sidekick, *test.CompareWriter) {
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

	out := &test.CompareWriter{}
	sc := script.NewScript(sk, s, out)
	t.Cleanup(sc.Close)

	return sc, sk, out
}

func TestRegisters(t *testing.T) {
	sc, sk, out := newScript(t)

	err := sc.RunString(context.Background(), `
print(read(0xde04), read(0xde05))
local addr, n = load()
print(addr, n)
disable()
`)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, out.String(), "0\t30\n2049\t30\n")
	test.ExpectSuccess(t, sk.Cart.Disabled())
}

func TestModemSession(t *testing.T) {
	sc, _, out := newScript(t)

	err := sc.RunString(context.Background(), `
disable()
open(1200)
send("ati2\r")
print(wait("10.0.0.64\r", 5000))
`)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, out.String(), "true\n")
}

func TestReceived(t *testing.T) {
	sc, _, out := newScript(t)

	err := sc.RunString(context.Background(), `
disable()
open(1200)
send("atx\r")
wait("ERROR\r", 5000)
local r = received()
print(r:find("ERROR", 1, true) ~= nil)
print(#received())
`)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, out.String(), "true\n0\n")
}

func TestScriptError(t *testing.T) {
	sc, _, _ := newScript(t)

	err := sc.RunString(context.Background(), `write(0x10000, 1)`)
	test.ExpectSuccess(t, curated.Is(err, script.ScriptError))
	test.ExpectSuccess(t, strings.Contains(err.Error(), "address out of range"))

	err = sc.RunString(context.Background(), `write(0xde00)`)
	test.ExpectFailure(t, err)
}

func TestRunFile(t *testing.T) {
	sc, _, out := newScript(t)

	fn := filepath.Join(t.TempDir(), "test.lua")
	test.DemandSuccess(t, os.WriteFile(fn, []byte(`log("from file") print("ok")`), 0o644))
	test.DemandSuccess(t, sc.RunFile(context.Background(), fn))
	test.ExpectEquality(t, out.String(), "ok\n")

	test.ExpectFailure(t, sc.RunFile(context.Background(), fn+".missing"))
}
