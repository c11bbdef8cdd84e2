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

// Package scheduler is the cooperative loop that runs between activations of
// the bus handler. It owns every blocking operation in the system: DNS
// lookups, socket traffic, HTTP requests and storage access.
//
// Each call to Pass() is one iteration of the loop. Most passes only step the
// NMI timing. When the idle countdown reaches zero the pass runs a network
// slot: the bus interrupt is masked, pending work is done, the caches used by
// the bus handler are warmed and the interrupt is unmasked again. Every
// change to state shared with the bus handler happens inside a masked
// window.
package scheduler

import (
	"context"
	"time"

	"github.com/sidekick64/sidekicknet/hardware"
	"github.com/sidekick64/sidekicknet/hardware/preferences"
	"github.com/sidekick64/sidekicknet/hardware/queue"
	"github.com/sidekick64/sidekicknet/logger"
	"github.com/sidekick64/sidekicknet/network"
	"github.com/sidekick64/sidekicknet/network/atcommand"
	"github.com/sidekick64/sidekicknet/network/screen"
	"github.com/sidekick64/sidekicknet/network/session"
	"github.com/sidekick64/sidekicknet/network/wic"
)

// Drive is the storage drive used for downloads.
const Drive = "SD"

// Collaborators are the services used by the scheduler. Any nil field is
// replaced by the default implementation.
type Collaborators struct {
	Resolver network.Resolver
	Getter   network.Getter
	Dialer   session.Dialer
	Storage  network.Storage

	// receives screen server replies that are not download commands
	Screen func(data []byte)

	LocalIP func() string
	Clock   func() time.Time
}

// Port is a byte stream to the host that does not go through the bus. The
// userport USB modem type uses a Port.
type Port interface {
	// Exchange is called with the bus interrupt masked. Bytes received from
	// the host are pushed to fromHost and bytes for the host are taken from
	// toHost.
	Exchange(toHost *queue.ByteQueue, fromHost *queue.ByteQueue)
}

// Probe receives the state of the output lines at the end of every pass.
type Probe interface {
	Sample(nmi bool, slot bool, dma bool) error
}

// Scheduler is the network action scheduler.
type Scheduler struct {
	sk    *hardware.Sidekick
	prefs *preferences.Preferences
	col   Collaborators

	parser   *atcommand.Parser
	session  *session.Session
	commands *wic.Commands
	screen   *screen.Client

	port  Port
	probe Probe

	// passes until the next network slot
	idle int

	// modem and userport handling is enabled by the first slot after the
	// cartridge is disabled
	running     bool
	wasDisabled bool

	// the reset-from-code sequence has been seen
	resetArmed bool

	// dial recorded by a silent command pass. performed by the next slot
	pendingDial *atcommand.Result

	actions actions

	// number of passes and slots run
	Passes uint64
	Slots  uint64

	// per pass values for the probe
	slotRun bool
	dmaTake bool
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type.
func NewScheduler(sk *hardware.Sidekick, col Collaborators) *Scheduler {
	p := sk.Env.Prefs

	if col.Resolver == nil {
		col.Resolver = network.NewNetResolver(sk.Env, p.Network.ResolveAttempts.Int())
	}
	if col.Getter == nil {
		col.Getter = network.NewHTTPGetter(sk.Env, col.Resolver, 10*time.Second)
	}
	if col.LocalIP == nil {
		col.LocalIP = network.LocalIP
	}
	if col.Clock == nil {
		col.Clock = time.Now
	}

	s := &Scheduler{
		sk:    sk,
		prefs: p,
		col:   col,
	}

	s.parser = atcommand.NewParser(sk.Env, sk.Inbound, s)
	s.parser.Userport = p.Modem.Type.Int() == preferences.ModemUserportUSB
	s.session = session.NewSession(sk.Env, col.Resolver, col.Dialer, p.Network.ReceiveAttempts.Int())

	s.commands = wic.NewCommands(sk.Env, col.Getter)
	s.commands.LinkName = p.Network.LinkName.String()
	s.commands.LocalIP = col.LocalIP
	if t, err := network.ParseURL(p.Network.DefaultTarget.String()); err == nil {
		s.commands.Default = t
	}

	var server network.Target
	if p.Network.ScreenServer.String() != "" {
		var err error
		server, err = network.ParseURL(p.Network.ScreenServer.String())
		if err != nil {
			logger.Logf(sk.Env, "scheduler", "screen server: %v", err)
		}
	}
	s.screen = screen.NewClient(sk.Env, col.Getter, server)
	s.screen.User = p.Network.ScreenUser.String()
	s.screen.Password = p.Network.ScreenPassword.String()

	return s
}

// AttachPort connects the Port used by the userport USB modem type.
func (s *Scheduler) AttachPort(p Port) {
	s.port = p
}

// AttachProbe connects a Probe. A nil value disconnects the current probe.
func (s *Scheduler) AttachProbe(p Probe) {
	s.probe = p
}

// Screen returns the screen server client.
func (s *Scheduler) Screen() *screen.Client {
	return s.screen
}

// Session returns the socket session.
func (s *Scheduler) Session() *session.Session {
	return s.session
}

// Running returns true once the modem or userport handling has been enabled.
func (s *Scheduler) Running() bool {
	return s.running
}

// BaudRate implements the atcommand.Info interface.
func (s *Scheduler) BaudRate() int {
	return s.sk.Modem.BaudRate()
}

// LocalIP implements the atcommand.Info interface.
func (s *Scheduler) LocalIP() string {
	return s.col.LocalIP()
}

// Time implements the atcommand.Info interface.
func (s *Scheduler) Time() string {
	return s.col.Clock().Format("15:04:05")
}

// GetModemEmuType returns the modem type. One of the preferences.Modem*
// values.
func (s *Scheduler) GetModemEmuType() int {
	return s.prefs.Modem.Type.Int()
}

// SetModemEmuType changes the modem type. Any connected session is closed and
// the byte queues are cleared.
func (s *Scheduler) SetModemEmuType(t int) error {
	if err := s.prefs.Modem.Type.Set(t); err != nil {
		return err
	}
	s.sk.IRQ.Critical(func() {
		s.teardown()
		s.sk.SelectMode(hardware.ModeForModemType(t))
		s.parser.Userport = t == preferences.ModemUserportUSB
	})
	logger.Logf(s.sk.Env, "scheduler", "modem type is now %d (%s)", t, s.sk.Mode)
	return nil
}

func (s *Scheduler) nmiHold() int {
	if s.prefs.Modem.WLAN.Get().(bool) {
		return s.prefs.Timing.NMIHoldWLAN.Int()
	}
	return s.prefs.Timing.NMIHold.Int()
}

func (s *Scheduler) initialDelay() int {
	if s.sk.Mode == hardware.ModeAudioTable {
		return s.prefs.Timing.AudioIdleDelay.Int()
	}
	return s.prefs.Timing.IdleDelay.Int()
}

func (s *Scheduler) followUpDelay() int {
	if s.prefs.Modem.Type.Int() == preferences.ModemUserportUSB {
		return s.prefs.Timing.USBFollowUpDelay.Int()
	}
	d := s.prefs.Timing.FollowUpDelay.Int()
	if s.prefs.Modem.WLAN.Get().(bool) {
		d *= s.prefs.Timing.WLANMultiplier.Int()
	}
	return d
}

// Pass runs one iteration of the scheduler loop.
func (s *Scheduler) Pass(ctx context.Context) {
	s.Passes++
	s.slotRun = false
	s.dmaTake = false

	sk := s.sk
	disabled := sk.Cart.Disabled()

	if disabled && !s.wasDisabled {
		s.idle = s.initialDelay()
	}
	s.wasDisabled = disabled

	sk.IRQ.Critical(func() {
		sk.Modem.StepNMI()
		if !s.running {
			return
		}
		switch sk.Mode {
		case hardware.ModeSwiftLink:
			if sk.Modem.TakeDMARelease() {
				s.dmaTake = true
				s.idle = 0
			}
		case hardware.ModeUserport:
			// the userport slot only runs for a completed command
			if sk.Userport.CommandReady() {
				s.idle = 0
			} else {
				s.idle = s.followUpDelay() + 1
			}
			sk.Userport.LoadResponse()
		}
	})

	if disabled || s.actions.any() {
		if s.idle > 0 {
			s.idle--
		}
		if s.idle == 0 {
			s.slot(ctx, disabled)
		}
	}

	if s.running && sk.Mode == hardware.ModeSwiftLink {
		sk.IRQ.Critical(func() {
			if !s.session.Connected {
				s.commandPass(ctx, true)
			}
			sk.Modem.ArmNMI(s.nmiHold())
		})
	}

	if s.probe != nil {
		if err := s.probe.Sample(sk.Modem.NMI(), s.slotRun, s.dmaTake); err != nil {
			logger.Logf(sk.Env, "scheduler", "probe: %v", err)
			s.probe = nil
		}
	}
}

// slot is the network slot. The interrupt is masked for its whole duration.
func (s *Scheduler) slot(ctx context.Context, disabled bool) {
	sk := s.sk

	sk.IRQ.Mask()
	s.Slots++
	s.slotRun = true

	if disabled {
		if !s.running {
			s.running = true
			logger.Logf(sk.Env, "scheduler", "%s handling unlocked", sk.Mode)
		}

		if sk.Modem.ApplyBaud() {
			logger.Logf(sk.Env, "scheduler", "baud change to %d, nmi delay = %d", sk.Modem.BaudRate(), sk.Modem.NMIDelay())
		}

		if sk.ResetArmed() && !s.resetArmed {
			s.actions.returnToMenu = true
		}
		s.resetArmed = sk.ResetArmed()
	}

	if !s.actions.returnToMenu {
		s.serviceActions(ctx)

		if disabled {
			switch sk.Mode {
			case hardware.ModeUserport:
				s.launchCommand(ctx)
			case hardware.ModeSwiftLink:
				s.modemPass(ctx)
			default:
				if s.prefs.Modem.Type.Int() == preferences.ModemUserportUSB {
					s.modemPass(ctx)
				}
			}
		}
	}

	sk.WarmCaches(s.prefs.Timing.WarmPasses.Int())
	if disabled {
		s.idle = s.followUpDelay()
	} else {
		s.idle = 0
	}
	sk.IRQ.Unmask()
}

// Host is the host side of the system. It is called once per pass, with the
// interrupt unmasked, to drive bus cycles.
type Host interface {
	Step(sk *hardware.Sidekick) error
}

// Run the scheduler loop until the context is cancelled or the Host returns
// an error. The Host may be nil.
func (s *Scheduler) Run(ctx context.Context, host Host) error {
	defer s.session.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if host != nil {
			if err := host.Step(s.sk); err != nil {
				return err
			}
		}

		s.Pass(ctx)
	}
}
