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

// Package irq models the bus interrupt that drives the bus handler. The
// scheduler masks the interrupt for as long as it touches state shared with
// the handler; unmasking is the synchronisation point between the two.
//
// There are no locks. Shared state is protected by the discipline that the
// scheduler only mutates it while the interrupt is masked. AssertMasked()
// checks that discipline at runtime.
package irq

import (
	"github.com/sidekick64/sidekicknet/logger"
)

// Controller is the interrupt enable line of the bus handler.
type Controller struct {
	masked bool

	// bus cycles that arrived while masked. the handler does not drive the
	// bus for these cycles
	missed uint64

	// number of scheduler mutations seen while unmasked
	violations int

	// number of completed masked windows
	windows int
}

// NewController returns an unmasked Controller.
func NewController() *Controller {
	return &Controller{}
}

// Mask the interrupt. Bus cycles are not serviced until Unmask() is called.
func (c *Controller) Mask() {
	c.masked = true
}

// Unmask the interrupt.
func (c *Controller) Unmask() {
	if c.masked {
		c.windows++
	}
	c.masked = false
}

// Masked returns true if the interrupt is currently masked.
func (c *Controller) Masked() bool {
	return c.masked
}

// Critical runs f with the interrupt masked. The previous mask state is
// restored afterwards, so calls can be nested.
func (c *Controller) Critical(f func()) {
	if c.masked {
		f()
		return
	}
	c.Mask()
	defer c.Unmask()
	f()
}

// AssertMasked is called by any scheduler side function that mutates state
// shared with the bus handler.
func (c *Controller) AssertMasked(tag string) {
	if !c.masked {
		c.violations++
		logger.Logf(logger.Allow, "irq", "%s: shared state changed with interrupt unmasked", tag)
	}
}

// Violations returns the number of times AssertMasked() found the interrupt
// unmasked.
func (c *Controller) Violations() int {
	return c.violations
}

// Missed records a bus cycle that arrived while masked.
func (c *Controller) Missed() {
	c.missed++
}

// MissedCycles returns the number of bus cycles that arrived while masked.
func (c *Controller) MissedCycles() uint64 {
	return c.missed
}

// Windows returns the number of completed masked windows.
func (c *Controller) Windows() int {
	return c.windows
}
