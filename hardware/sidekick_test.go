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

package hardware_test

import (
	"testing"

	"github.com/sidekick64/sidekicknet/environment"
	"github.com/sidekick64/sidekicknet/hardware"
	"github.com/sidekick64/sidekicknet/hardware/bus"
	"github.com/sidekick64/sidekicknet/hardware/cartridge"
	"github.com/sidekick64/sidekicknet/hardware/modem"
	"github.com/sidekick64/sidekicknet/hardware/preferences"
	"github.com/sidekick64/sidekicknet/hardware/userport"
	"github.com/sidekick64/sidekicknet/test"
)

func newSidekick(t *testing.T, modemType int) *hardware.Sidekick {
	t.Helper()
	p := preferences.NewDefaults()
	test.DemandSuccess(t, p.Modem.Type.Set(modemType))
	env := environment.NewEnvironment(environment.MainEmulation, p)
	return hardware.NewSidekick(env, nil)
}

func read(sk *hardware.Sidekick, address uint16) (uint8, bool) {
	return sk.Cycle(bus.Signals{Address: address, Read: true})
}

func write(sk *hardware.Sidekick, address uint16, data uint8) {
	sk.Cycle(bus.Signals{Address: address, Data: data})
}

func program(load uint16, size int) *cartridge.ProgramImage {
	d := make([]uint8, size)
	d[0] = uint8(load)
	d[1] = uint8(load >> 8)
	for i := 2; i < size; i++ {
		d[i] = uint8(i * 7)
	}
	p, err := cartridge.NewProgramImage(d)
	if err != nil {
		panic(err)
	}
	return p
}

func TestModeForModemType(t *testing.T) {
	test.ExpectEquality(t, hardware.ModeForModemType(preferences.ModemNone), hardware.ModeNone)
	test.ExpectEquality(t, hardware.ModeForModemType(preferences.ModemSwiftLink), hardware.ModeSwiftLink)
	test.ExpectEquality(t, hardware.ModeForModemType(preferences.ModemUserportUSB), hardware.ModeNone)
	test.ExpectEquality(t, hardware.ModeForModemType(preferences.ModemWiC64), hardware.ModeUserport)
}

func TestLaunch(t *testing.T) {
	sk := newSidekick(t, preferences.ModemSwiftLink)
	p := program(0x0801, 0x100)
	sk.Insert(p)

	// launcher is served from the ROM window
	d, ok := read(sk, bus.ROMLOrigin)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, d, cartridge.DefaultLauncher().Read(0))

	// ROMH is not driven
	_, ok = read(sk, bus.ROMHOrigin)
	test.ExpectFailure(t, ok)

	d, _ = read(sk, bus.IO1Origin+cartridge.RegisterEndLow)
	test.ExpectEquality(t, d, uint8(p.EndAddress))
	d, _ = read(sk, bus.IO1Origin+cartridge.RegisterEndHigh)
	test.ExpectEquality(t, d, uint8(p.EndAddress>>8))

	// restart below and read the payload
	write(sk, bus.IO1Origin+cartridge.RegisterData, 0)
	for i, b := range p.Payload() {
		d, ok = read(sk, bus.IO1Origin+cartridge.RegisterData)
		test.ExpectSuccess(t, ok)
		if !test.ExpectEquality(t, d, b, i) {
			break
		}
	}
}

func TestDisableAndReset(t *testing.T) {
	sk := newSidekick(t, preferences.ModemSwiftLink)
	sk.Insert(program(0x0801, 0x40))

	sk.Disable()
	test.ExpectSuccess(t, sk.Cart.Disabled())

	// ROM window is no longer served
	_, ok := read(sk, bus.ROMLOrigin)
	test.ExpectFailure(t, ok)

	// disable is idempotent and nothing but a reset re-enables
	for i := 0; i < 10; i++ {
		write(sk, bus.IO2Origin+cartridge.DisableRegister, cartridge.DisableCode)
		write(sk, bus.IO2Origin+cartridge.DisableRegister, 0)
		test.ExpectSuccess(t, sk.Cart.Disabled())
	}

	// a short reset pulse is not a reset
	for i := 0; i < hardware.ResetThreshold; i++ {
		sk.Cycle(bus.Signals{Reset: true, Read: true})
	}
	test.ExpectSuccess(t, sk.Cart.Disabled())
	sk.Cycle(bus.Signals{Read: true})

	for i := 0; i <= hardware.ResetThreshold; i++ {
		sk.Cycle(bus.Signals{Reset: true, Read: true})
	}
	test.ExpectFailure(t, sk.Cart.Disabled())
	test.ExpectEquality(t, sk.Resets(), 1)
	test.ExpectEquality(t, sk.Cart.State.Part, cartridge.PartAbove)
}

func TestSwiftLinkMode(t *testing.T) {
	sk := newSidekick(t, preferences.ModemSwiftLink)
	sk.Disable()

	d, ok := read(sk, bus.IO1Origin+modem.RegisterStatus)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, d, uint8(modem.StatusTransmitEmpty|modem.StatusNoCarrier))

	d, _ = read(sk, bus.IO1Origin+modem.RegisterData)
	test.ExpectEquality(t, d, uint8(modem.FillerByte))

	write(sk, bus.IO1Origin+modem.RegisterData, 'a')
	test.ExpectEquality(t, sk.Outbound.Len(), 1)

	write(sk, bus.IO1Origin+modem.RegisterControl, 0x18)
	test.ExpectEquality(t, sk.Modem.BaudRate(), 2400)

	// IO2 reads as zero
	d, ok = read(sk, bus.IO2Origin+0x10)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, d, uint8(0))

	// registers beyond the 6551 are not driven
	_, ok = read(sk, bus.IO1Origin+0x10)
	test.ExpectFailure(t, ok)
}

func TestUserportMode(t *testing.T) {
	sk := newSidekick(t, preferences.ModemWiC64)
	test.ExpectEquality(t, sk.Mode, hardware.ModeUserport)
	sk.Disable()

	d, _ := read(sk, bus.IO1Origin+userport.RegisterHandshake)
	test.ExpectEquality(t, d, uint8(userport.HandshakeReady))

	for _, b := range []uint8{userport.CommandMagic, 4, 0, 10} {
		write(sk, bus.IO1Origin+userport.RegisterData, b)
	}
	test.ExpectEquality(t, sk.Userport.State, userport.Complete)

	d, _ = read(sk, bus.IO1Origin+userport.RegisterHandshake)
	test.ExpectEquality(t, d, uint8(userport.HandshakeWaiting))
}

func TestUserportPatch(t *testing.T) {
	sk := newSidekick(t, preferences.ModemWiC64)
	p := program(0x0801, 16)
	copy(p.Data[4:], []uint8{0xad, 0x01, 0xdd})
	sk.Insert(p)
	test.ExpectEquality(t, p.Data[6], uint8(0xde))
}

func TestAudioTableMode(t *testing.T) {
	sk := newSidekick(t, preferences.ModemNone)
	sk.Audio = hardware.NewAudioTable([]uint8{10, 20, 30})
	sk.SelectMode(hardware.ModeAudioTable)
	sk.Disable()

	for _, v := range []uint8{10, 20, 30, 0} {
		d, ok := read(sk, bus.IO2Origin+hardware.AudioTableRegister)
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, d, v)
	}

	// wrong second value does not arm
	write(sk, bus.IO2Origin+0x11, 0x22)
	write(sk, bus.IO2Origin+0x33, 0x45)
	test.ExpectFailure(t, sk.ResetArmed())
	write(sk, bus.IO2Origin+0x33, 0x44)
	test.ExpectSuccess(t, sk.ResetArmed())

	// an armed reset-from-code keeps the cartridge disabled through a reset
	for i := 0; i < 10; i++ {
		sk.Cycle(bus.Signals{Reset: true, Read: true})
	}
	test.ExpectSuccess(t, sk.Cart.Disabled())
	test.ExpectEquality(t, sk.Resets(), 0)
}

func TestMaskedCycles(t *testing.T) {
	sk := newSidekick(t, preferences.ModemSwiftLink)
	sk.IRQ.Critical(func() {
		_, ok := read(sk, bus.ROMLOrigin)
		test.ExpectFailure(t, ok)
		read(sk, bus.ROMLOrigin+1)
	})
	test.ExpectEquality(t, sk.IRQ.MissedCycles(), uint64(2))
	test.ExpectEquality(t, sk.HostCycles, uint64(0))

	_, ok := read(sk, bus.ROMLOrigin)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, sk.HostCycles, uint64(1))

	s := sk.Snapshot()
	test.ExpectEquality(t, s.Transfer.LauncherReads, 1)
	test.ExpectEquality(t, s.MissedCycles, uint64(2))
}

func TestCycleDoesNotAllocate(t *testing.T) {
	sk := newSidekick(t, preferences.ModemSwiftLink)
	sk.Insert(program(0x0801, 0x200))

	allocs := testing.AllocsPerRun(100, func() {
		read(sk, bus.ROMLOrigin+10)
		write(sk, bus.IO1Origin+cartridge.RegisterData, 0)
		read(sk, bus.IO1Origin+cartridge.RegisterData)
		read(sk, bus.IO1Origin+cartridge.RegisterPages)
	})
	test.ExpectEquality(t, allocs, 0.0)
}
