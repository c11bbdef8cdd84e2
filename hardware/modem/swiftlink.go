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

// Package modem emulates the registers of a SwiftLink cartridge: a 6551 ACIA
// mapped into the IO1 window, with the receive interrupt wired to NMI.
//
// The bus handler calls Read() and Write() on behalf of the host. The
// scheduler moves inbound bytes into the data register and runs the
// interrupt timing. Scheduler side functions must only be called with the
// bus interrupt masked.
package modem

import (
	"fmt"

	"github.com/sidekick64/sidekicknet/hardware/irq"
	"github.com/sidekick64/sidekicknet/hardware/queue"
)

// Register numbers in the IO1 window.
const (
	RegisterData    = 0x00
	RegisterStatus  = 0x01
	RegisterCommand = 0x02
	RegisterControl = 0x03
)

// Status register bits.
const (
	StatusReceiveFull   = 0x08
	StatusTransmitEmpty = 0x10
	StatusNoCarrier     = 0x20
)

// CommandDTR is the command register bit that enables the receive interrupt.
const CommandDTR = 0x01

// FillerByte is returned by a data register read when there is nothing to
// receive.
const FillerByte = 72

// LineTerminator written to the data register requests a DMA release even
// without a connection, so that a typed command is handled promptly.
const LineTerminator = 13

// SwiftLink is the register file of the emulated modem.
type SwiftLink struct {
	irq *irq.Controller

	inbound  *queue.ByteQueue
	outbound *queue.ByteQueue

	Command uint8
	Control uint8

	// the byte the host will receive on the next data register read. zero
	// means nothing is pending
	Response uint8

	// passes until the receive interrupt is raised. zero when not counting
	NMICountdown int

	// passes the NMI line is still to be held low
	KeepNMILow int

	// a register access has asked the scheduler to run a network slot
	DMAReleasePending bool

	// limits how often a read can request a release while data is queued
	DMACountdown int
	dmaReload    int

	// a socket session is connected. set by the scheduler
	Online bool

	// the baud index last applied to the NMI delay
	appliedIndex uint8
	nmiDelay     int
	numerator    int

	nmi bool
}

// NewSwiftLink is the preferred method of initialisation for the SwiftLink
// type. The numerator and dmaReload arguments are the timing.nmi.numerator
// and timing.dma.release preferences.
func NewSwiftLink(c *irq.Controller, inbound, outbound *queue.ByteQueue, numerator int, dmaReload int) *SwiftLink {
	m := &SwiftLink{
		irq:       c,
		inbound:   inbound,
		outbound:  outbound,
		numerator: numerator,
		dmaReload: dmaReload,
	}
	m.Reset()
	return m
}

func (m *SwiftLink) String() string {
	return fmt.Sprintf("cmd=%02x ctrl=%02x resp=%02x baud=%d nmi=%v", m.Command, m.Control, m.Response, m.BaudRate(), m.nmi)
}

// Reset the registers to their power-on state. The baud rate set by the
// control register is kept.
func (m *SwiftLink) Reset() {
	m.Command = 0
	m.Response = 0
	m.NMICountdown = 0
	m.KeepNMILow = 0
	m.DMAReleasePending = false
	m.DMACountdown = m.dmaReload
	m.nmi = false
	m.appliedIndex = m.Control & 0x0f
	m.nmiDelay = NMIDelay(m.numerator, BaudRate(m.appliedIndex))
}

// Read a register on behalf of the host.
func (m *SwiftLink) Read(register uint8) uint8 {
	switch register & 0x03 {
	case RegisterData:
		d := uint8(FillerByte)
		if m.Response != 0 {
			d = m.Response
			m.Response = 0
		}
		m.requestReleaseOnRead()
		return d
	case RegisterStatus:
		m.requestReleaseOnRead()
		if m.Response == 0 {
			return StatusTransmitEmpty | StatusNoCarrier
		}
		return StatusReceiveFull
	case RegisterCommand:
		return m.Command
	}
	return m.Control
}

func (m *SwiftLink) requestReleaseOnRead() {
	if m.Online && (m.inbound.Empty() || m.DMACountdown < 1) {
		m.DMAReleasePending = true
		m.DMACountdown = m.dmaReload
	}
}

// Write a register on behalf of the host.
func (m *SwiftLink) Write(register uint8, data uint8) {
	switch register & 0x03 {
	case RegisterData:
		m.outbound.Push(data)
		if m.Online || data == LineTerminator {
			m.DMAReleasePending = true
			m.DMACountdown = m.dmaReload
		}
	case RegisterStatus:
		// a write to the status register is a programmed reset on a 6551
		m.Command &= 0xe0
	case RegisterCommand:
		m.Command = data
	case RegisterControl:
		m.Control = data
	}
}

// NMI returns the state of the NMI line. True means asserted (pulled low).
func (m *SwiftLink) NMI() bool {
	return m.nmi
}

// BaudRate returns the baud rate currently selected by the control register.
func (m *SwiftLink) BaudRate() int {
	return BaudRate(m.Control)
}

// NMIDelay returns the delay for the applied baud rate.
func (m *SwiftLink) NMIDelay() int {
	return m.nmiDelay
}

// ApplyBaud recomputes the NMI delay if the control register selects a
// different baud rate to the one last applied. Returns true if the rate
// changed.
//
// Scheduler side.
func (m *SwiftLink) ApplyBaud() bool {
	m.irq.AssertMasked("modem")
	idx := m.Control & 0x0f
	if idx == m.appliedIndex {
		return false
	}
	m.appliedIndex = idx
	m.nmiDelay = NMIDelay(m.numerator, BaudRate(idx))
	return true
}

// SetBaudRate selects the baud rate as though the host had written the
// control register. Returns false if the rate is not in the table.
//
// Scheduler side.
func (m *SwiftLink) SetBaudRate(bps int) bool {
	m.irq.AssertMasked("modem")
	idx, ok := BaudIndex(bps)
	if !ok {
		return false
	}
	m.Control = (m.Control & 0xf0) | idx
	m.ApplyBaud()
	return true
}

// IterateBaud steps to the next rate in the baud iteration sequence and
// returns the new rate.
//
// Scheduler side.
func (m *SwiftLink) IterateBaud() int {
	bps := NextBaud(m.BaudRate())
	m.SetBaudRate(bps)
	return bps
}

// SetOnline records whether a socket session is connected.
//
// Scheduler side.
func (m *SwiftLink) SetOnline(online bool) {
	m.irq.AssertMasked("modem")
	m.Online = online
}

// TakeDMARelease returns true if a DMA release was requested since the last
// call.
//
// Scheduler side.
func (m *SwiftLink) TakeDMARelease() bool {
	m.irq.AssertMasked("modem")
	r := m.DMAReleasePending
	m.DMAReleasePending = false
	return r
}

// StepNMI counts down the low-hold of the NMI line and releases the line when
// the hold expires.
//
// Scheduler side.
func (m *SwiftLink) StepNMI() {
	m.irq.AssertMasked("modem")
	if m.KeepNMILow > 0 {
		m.KeepNMILow--
		if m.KeepNMILow == 0 {
			m.nmi = false
		}
	}
	if m.Online && m.Response == 0 && m.DMACountdown > 0 {
		m.DMACountdown--
	}
}

// ArmNMI moves the next inbound byte into the data register and runs the
// receive interrupt countdown. The hold argument is the number of passes the
// NMI line is held low once raised.
//
// Scheduler side.
func (m *SwiftLink) ArmNMI(hold int) {
	m.irq.AssertMasked("modem")

	if m.KeepNMILow == 0 && m.NMICountdown == 0 {
		if m.Response == 0 {
			if b, ok := m.inbound.Pop(); ok {
				m.Response = b
				m.NMICountdown = m.nmiDelay
			}
		} else {
			// the host has not read the pending byte. signal it again
			m.NMICountdown = m.nmiDelay
		}
	}

	if m.NMICountdown > 1 {
		m.NMICountdown--
	}

	if m.NMICountdown == 1 {
		m.NMICountdown = 0
		if m.Command&CommandDTR == CommandDTR {
			m.KeepNMILow = hold
			m.nmi = true
		}
	}
}
