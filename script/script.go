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

// Package script runs Lua scripts against the emulation. A script stands in
// for the host computer: it drives bus cycles and runs scheduler passes,
// which makes it useful for reproducing a session without a real host.
//
// The following functions are available to scripts:
//
//	read(address)          value on the data bus or nil if nothing drove it
//	write(address, value)  write to the bus
//	reset()                hold the reset line
//	load()                 copy the program as the launcher does. returns
//	                       the load address and the number of bytes
//	disable()              disable the cartridge
//	open(baud)             open the modem with DTR set
//	send(string)           type the string into the modem
//	command(cmd, payload)  send a framed userport command
//	pass([n])              run n scheduler passes (default 1)
//	wait(string, [max])    run passes until the string has been received.
//	                       returns true if it was
//	received()             the bytes received since the last call
//	log(message)           add the message to the central log
//	print(...)             write to the script output
package script

import (
	"context"
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/hardware"
	"github.com/sidekick64/sidekicknet/hardware/host"
	"github.com/sidekick64/sidekicknet/logger"
	"github.com/sidekick64/sidekicknet/network/scheduler"
)

// Sentinal errors.
const (
	ScriptError = "script: %v"
)

// DefaultWait is the number of passes wait() runs if no maximum is given.
const DefaultWait = 100000

// Script is a Lua state bound to an emulation.
type Script struct {
	L   *lua.LState
	ctx context.Context

	sk  *hardware.Sidekick
	s   *scheduler.Scheduler
	h   *host.Host
	out io.Writer

	// bytes received by the host and not yet returned by received()
	received []byte
}

// NewScript is the preferred method of initialisation for the Script type.
// Output from print() is written to out.
func NewScript(sk *hardware.Sidekick, s *scheduler.Scheduler, out io.Writer) *Script {
	sc := &Script{
		L:   lua.NewState(),
		ctx: context.Background(),
		sk:  sk,
		s:   s,
		h:   host.NewHost(sk),
		out: out,
	}

	for name, fn := range map[string]lua.LGFunction{
		"read":     sc.read,
		"write":    sc.write,
		"reset":    sc.reset,
		"load":     sc.load,
		"disable":  sc.disable,
		"open":     sc.open,
		"send":     sc.send,
		"command":  sc.command,
		"pass":     sc.pass,
		"wait":     sc.wait,
		"received": sc.takeReceived,
		"log":      sc.log,
		"print":    sc.print,
	} {
		sc.L.SetGlobal(name, sc.L.NewFunction(fn))
	}

	return sc
}

// Close the Lua state.
func (sc *Script) Close() {
	sc.L.Close()
}

// RunString runs the Lua source. The script is stopped if the context is
// cancelled.
func (sc *Script) RunString(ctx context.Context, src string) error {
	sc.ctx = ctx
	sc.L.SetContext(ctx)
	if err := sc.L.DoString(src); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return nil
}

// RunFile runs the Lua script in the named file.
func (sc *Script) RunFile(ctx context.Context, filename string) error {
	sc.ctx = ctx
	sc.L.SetContext(ctx)
	logger.Logf(logger.Allow, "script", "running %s", filename)
	if err := sc.L.DoFile(filename); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return nil
}

func (sc *Script) address(L *lua.LState, n int) uint16 {
	a := L.CheckInt(n)
	if a < 0 || a > 0xffff {
		L.ArgError(n, "address out of range")
	}
	return uint16(a)
}

func (sc *Script) read(L *lua.LState) int {
	d, ok := sc.h.Read(sc.address(L, 1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(d))
	return 1
}

func (sc *Script) write(L *lua.LState) int {
	a := sc.address(L, 1)
	v := L.CheckInt(2)
	if v < 0 || v > 0xff {
		L.ArgError(2, "value out of range")
	}
	sc.h.Write(a, uint8(v))
	return 0
}

func (sc *Script) reset(L *lua.LState) int {
	sc.h.Reset()
	return 0
}

func (sc *Script) load(L *lua.LState) int {
	load, data := sc.h.Load()
	L.Push(lua.LNumber(load))
	L.Push(lua.LNumber(len(data)))
	return 2
}

func (sc *Script) disable(L *lua.LState) int {
	sc.h.Disable()
	return 0
}

func (sc *Script) open(L *lua.LState) int {
	sc.h.OpenModem(L.OptInt(1, 1200))
	return 0
}

func (sc *Script) send(L *lua.LState) int {
	sc.h.SendString(L.CheckString(1))
	return 0
}

func (sc *Script) command(L *lua.LState) int {
	cmd := L.CheckInt(1)
	if cmd < 0 || cmd > 0xff {
		L.ArgError(1, "command out of range")
	}
	sc.h.SendCommand(uint8(cmd), []byte(L.OptString(2, "")))
	return 0
}

// step runs a single pass and collects anything the host receives.
func (sc *Script) step() {
	sc.s.Pass(sc.ctx)
	if b, ok := sc.h.Receive(); ok {
		sc.received = append(sc.received, b)
	}
	if b, ok := sc.h.ReceiveUserport(); ok {
		sc.received = append(sc.received, b)
	}
}

func (sc *Script) pass(L *lua.LState) int {
	n := L.OptInt(1, 1)
	for i := 0; i < n; i++ {
		sc.step()
	}
	return 0
}

func (sc *Script) wait(L *lua.LState) int {
	want := L.CheckString(1)
	max := L.OptInt(2, DefaultWait)
	for i := 0; i < max; i++ {
		if strings.Contains(string(sc.received), want) {
			L.Push(lua.LTrue)
			return 1
		}
		if sc.ctx.Err() != nil {
			break
		}
		sc.step()
	}
	L.Push(lua.LBool(strings.Contains(string(sc.received), want)))
	return 1
}

func (sc *Script) takeReceived(L *lua.LState) int {
	L.Push(lua.LString(sc.received))
	sc.received = sc.received[:0]
	return 1
}

func (sc *Script) log(L *lua.LState) int {
	logger.Log(logger.Allow, "script", L.CheckString(1))
	return 0
}

func (sc *Script) print(L *lua.LState) int {
	s := make([]string, L.GetTop())
	for i := range s {
		s[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	fmt.Fprintln(sc.out, strings.Join(s, "\t"))
	return 0
}
