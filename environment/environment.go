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

// Package environment bundles the preferences and identity of an emulator
// instance so that they can be plumbed into every component that needs them.
package environment

import (
	"github.com/sidekick64/sidekicknet/hardware/preferences"
)

// Label is used to name the environment.
type Label string

// MainEmulation is the label used for the main emulation.
const MainEmulation = Label("")

// Environment is used to provide context for an emulation.
type Environment struct {
	Label Label

	// the emulation preferences
	Prefs *preferences.Preferences
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type. If prefs is nil then a default set of preferences, not
// backed by a file, is created.
func NewEnvironment(label Label, prefs *preferences.Preferences) *Environment {
	if prefs == nil {
		prefs = preferences.NewDefaults()
	}
	return &Environment{
		Label: label,
		Prefs: prefs,
	}
}

// IsMainEmulation returns true if the environment is for the main emulation.
func (env *Environment) IsMainEmulation() bool {
	return env.Label == MainEmulation
}

// AllowLogging implements the logger.Permission interface. Only the main
// emulation is allowed to log.
func (env *Environment) AllowLogging() bool {
	return env.IsMainEmulation()
}
