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

// Package modalflag wraps the flag package from the standard library to
// handle program modes. A mode is a command line argument that changes what
// the program does and which flags it accepts.
//
// Arguments are given once with NewArgs(). Flags and sub-modes are then added
// before each call to Parse():
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "MODEM", "DUMP")
//	logging := md.AddBool("log", false, "echo log to stdout")
//
//	switch r, err := md.Parse(); r {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
// After a successful Parse() the selected mode is returned by Mode(). Calling
// NewMode() then allows the selected mode to declare its own flags, which are
// parsed from the arguments that follow the mode name:
//
//	switch md.Mode() {
//	case "MODEM":
//		md.NewMode()
//		baud := md.AddInt("baud", 1200, "baud rate")
//		md.Parse()
//	}
//
// Mode comparisons are case insensitive. The first sub-mode added is the
// default and is selected when the first non-flag argument is not a mode
// name. Path() returns every mode selected so far, separated by a slash.
package modalflag
