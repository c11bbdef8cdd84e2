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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/sidekick64/sidekicknet/capture"
	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/dump"
	"github.com/sidekick64/sidekicknet/environment"
	"github.com/sidekick64/sidekicknet/frontend/serial"
	"github.com/sidekick64/sidekicknet/frontend/terminal"
	"github.com/sidekick64/sidekicknet/hardware"
	"github.com/sidekick64/sidekicknet/hardware/cartridge"
	"github.com/sidekick64/sidekicknet/hardware/host"
	"github.com/sidekick64/sidekicknet/hardware/preferences"
	"github.com/sidekick64/sidekicknet/hardware/userport"
	"github.com/sidekick64/sidekicknet/logger"
	"github.com/sidekick64/sidekicknet/modalflag"
	"github.com/sidekick64/sidekicknet/network"
	"github.com/sidekick64/sidekicknet/network/scheduler"
	"github.com/sidekick64/sidekicknet/paths"
	"github.com/sidekick64/sidekicknet/prefs"
	"github.com/sidekick64/sidekicknet/script"
	"github.com/sidekick64/sidekicknet/statsview"
	"github.com/sidekick64/sidekicknet/version"
)

// used when no program is given on the command line. a BASIC program with
// no lines
var emptyProgram = []uint8{0x01, 0x08, 0x00, 0x00, 0x00}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := launch(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Printf("* %v\n", err)
		stop()
		os.Exit(20)
	}
}

// launch parses the command line and runs the selected mode.
func launch(ctx context.Context, args []string, output io.Writer) error {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("RUN", "MODEM", "SERIAL", "WIC", "DUMP", "VERSION")

	log := md.AddBool("log", false, "echo log to stdout")
	cmdPrefs := md.AddString("prefs", "", "preference overrides: \"key::value; key::value\"")
	var stats *bool
	if statsview.Available() {
		stats = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	if *log {
		logger.SetEcho(output)
	} else {
		logger.SetEcho(nil)
	}

	if *cmdPrefs != "" {
		prefs.SetCommandLinePrefs(*cmdPrefs)
	}

	if stats != nil && *stats {
		statsview.Launch(ctx, output)
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md, output)
	case "MODEM":
		err = modem(ctx, md, output)
	case "SERIAL":
		err = serialModem(ctx, md, output)
	case "WIC":
		err = wic(ctx, md, output)
	case "DUMP":
		err = dumpState(ctx, md, output)
	case "VERSION":
		fmt.Fprintln(output, version.String())
	}

	if err != nil {
		return fmt.Errorf("error in %s mode: %w", md, err)
	}
	return nil
}

// emulation is the sidekick and the scheduler created for every mode.
type emulation struct {
	sk *hardware.Sidekick
	s  *scheduler.Scheduler
}

// newEmulation loads the preferences, sets the modem type and inserts the
// program. If filename is empty a program with no lines is inserted.
func newEmulation(filename string, modemType int, launcherFile string) (*emulation, error) {
	p, err := preferences.NewPreferences()
	if err != nil {
		return nil, err
	}
	if modemType >= 0 {
		if err := p.Modem.Type.Set(modemType); err != nil {
			return nil, err
		}
	}

	var launcher *cartridge.Launcher
	if launcherFile != "" {
		d, err := os.ReadFile(launcherFile)
		if err != nil {
			return nil, err
		}
		launcher, err = cartridge.NewLauncher(d, cartridge.HeaderSkip(d))
		if err != nil {
			return nil, err
		}
	}

	env := environment.NewEnvironment(environment.MainEmulation, p)
	sk := hardware.NewSidekick(env, launcher)

	data := emptyProgram
	if filename != "" {
		data, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	prg, err := cartridge.NewProgramImage(data)
	if err != nil {
		return nil, err
	}
	sk.Insert(prg)

	base, err := paths.ResourcePath("storage", "")
	if err != nil {
		return nil, err
	}

	s := scheduler.NewScheduler(sk, scheduler.Collaborators{
		Storage: network.DiskStorage{Base: base},
		Screen: func(data []byte) {
			logger.Logf(env, "screen", "%d bytes of screen data", len(data))
		},
	})

	return &emulation{sk: sk, s: s}, nil
}

// launchOnce copies the program and disables the cartridge as the launcher
// stub would. It implements scheduler.Host.
type launchOnce struct {
	h *host.Host

	// stop after the number of steps if limit is true
	steps int
	limit bool
}

func (l *launchOnce) Step(sk *hardware.Sidekick) error {
	if l.h == nil {
		l.h = host.NewHost(sk)
		load, data := l.h.Load()
		logger.Logf(sk.Env, "launch", "loaded %d bytes at $%04x", len(data), load)
		l.h.Disable()
	}
	if l.limit {
		l.steps--
		if l.steps < 0 {
			return curated.Errorf(passLimit)
		}
	}
	return nil
}

const passLimit = "pass limit reached"

// runHost runs the scheduler until the context is done or the host returns
// an error. Reaching the pass limit is not an error.
func runHost(ctx context.Context, e *emulation, h scheduler.Host) error {
	err := e.s.Run(ctx, h)
	if curated.Is(err, passLimit) {
		return nil
	}
	return err
}

func run(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	modemType := md.AddInt("type", -1, "modem type: 0 none, 1 swiftlink, 2 userport usb, 3 wic64")
	launcher := md.AddString("launcher", "", "launcher image to use instead of the built in stub")
	scriptFile := md.AddString("script", "", "lua script to drive the host")
	wav := md.AddString("capture", "", "record nmi, slot and dma lines to wav file")
	passes := md.AddInt("passes", 0, "number of passes to run. zero runs until interrupted")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 1 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	e, err := newEmulation(md.GetArg(0), *modemType, *launcher)
	if err != nil {
		return err
	}

	if *wav != "" {
		rec := capture.NewRecorder(*wav)
		e.s.AttachProbe(rec)
		defer func() {
			if err := rec.End(); err != nil {
				logger.Log(logger.Allow, "run", err)
			}
		}()
	}

	if *scriptFile != "" {
		sc := script.NewScript(e.sk, e.s, output)
		defer sc.Close()
		return sc.RunFile(ctx, *scriptFile)
	}

	return runHost(ctx, e, &launchOnce{steps: *passes, limit: *passes > 0})
}

func modem(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	baud := md.AddInt("baud", 1200, "baud rate the terminal opens the modem at")
	dial := md.AddString("dial", "", "dial on start")
	launcher := md.AddString("launcher", "", "launcher image to use instead of the built in stub")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	e, err := newEmulation(md.GetArg(0), preferences.ModemSwiftLink, *launcher)
	if err != nil {
		return err
	}

	term, err := terminal.NewTerminal(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer term.CleanUp()

	if err := term.RawMode(); err != nil {
		return err
	}

	g := term.Geometry()
	fmt.Fprintf(output, "%s: %dx%d terminal. ctrl-] to quit\r\n", version.ApplicationName, g.Cols, g.Rows)

	err = e.s.Run(ctx, terminal.NewModem(os.Stdin, output, *baud, *dial))
	if curated.Is(err, terminal.Quit) {
		return term.Flush()
	}
	return err
}

func serialModem(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	device := md.AddString("device", "", "serial device. defaults to the modem.serial preference")
	launcher := md.AddString("launcher", "", "launcher image to use instead of the built in stub")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	e, err := newEmulation(md.GetArg(0), preferences.ModemUserportUSB, *launcher)
	if err != nil {
		return err
	}

	mp := &e.sk.Env.Prefs.Modem
	dev := *device
	if dev == "" {
		dev = mp.SerialDevice.String()
	}

	port, err := serial.Open(dev, mp.DefaultBaud.Int())
	if err != nil {
		return err
	}
	defer port.Close()

	e.s.AttachPort(port)

	return runHost(ctx, e, &launchOnce{})
}

// wic sends one userport command and prints the response payload.
func wic(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	timeout := md.AddDuration("timeout", 30*time.Second, "maximum time to wait for a response")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) == 0 {
		return fmt.Errorf("command number required for %s mode", md)
	}

	cmd, err := strconv.ParseUint(md.GetArg(0), 0, 8)
	if err != nil {
		return fmt.Errorf("command number: %w", err)
	}

	e, err := newEmulation("", preferences.ModemWiC64, "")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	h := host.NewHost(e.sk)
	h.Disable()
	for ctx.Err() == nil && !e.s.Running() {
		e.s.Pass(ctx)
	}
	if !e.s.Running() {
		return fmt.Errorf("userport handling did not start")
	}

	h.SendCommand(uint8(cmd), []byte(md.GetArg(1)))

	var resp []uint8
	for ctx.Err() == nil {
		e.s.Pass(ctx)
		if b, ok := h.ReceiveUserport(); ok {
			resp = append(resp, b)
		}
		if len(resp) >= 3 && resp[0] == userport.ResponseMagic {
			n := int(resp[1])<<8 | int(resp[2])
			if len(resp) == n+3 {
				fmt.Fprintln(output, string(resp[3:]))
				return nil
			}
		}
	}

	return fmt.Errorf("no response to command %d", cmd)
}

func dumpState(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	modemType := md.AddInt("type", -1, "modem type: 0 none, 1 swiftlink, 2 userport usb, 3 wic64")
	passes := md.AddInt("passes", 100, "number of passes to run before the dump")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	e, err := newEmulation(md.GetArg(0), *modemType, "")
	if err != nil {
		return err
	}

	if err := runHost(ctx, e, &launchOnce{steps: *passes, limit: true}); err != nil {
		return err
	}

	dump.Dump(output, e.sk, e.s)
	return nil
}
