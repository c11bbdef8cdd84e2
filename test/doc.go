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

// Package test contains helper functions for use with the standard go test
// harness. The Expect*() functions report a failure and allow the test to
// continue; the Demand*() functions stop the test immediately.
//
// The tags argument accepted by most functions is prepended to any failure
// message and is useful for identifying the iteration of a table driven test.
package test
