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

// Package statsview serves runtime statistics over HTTP. The server is only
// included when the program is built with the statsview build tag. Without
// the tag Available() returns false and Launch() does nothing but say so.
//
// The statistics page is at:
//
//	localhost:12600/debug/statsview
//
// And the standard pprof pages are at:
//
//	localhost:12600/debug/pprof/
package statsview

// Address the statistics server listens on.
const Address = "localhost:12600"

const url = "/debug/statsview"
