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

// Package curated wraps the plain error type so that errors can be identified
// by the pattern that created them rather than by their formatted text.
//
// Errors are created with Errorf(), which takes the same arguments as
// fmt.Errorf() but defers formatting until Error() is called. Is() compares an
// error against a pattern and Has() searches the whole chain of wrapped
// curated errors:
//
//	e := curated.Errorf("session: %v", curated.Errorf(session.DNSError, host))
//	curated.Is(e, session.DNSError)  // false
//	curated.Has(e, session.DNSError) // true
//
// Patterns should be exported as constants by the package that creates them so
// that callers and tests never compare error strings.
//
// When formatted, adjacent duplicate parts of the chain are collapsed. A chain
// is made of parts separated by ": ", so wrapping "modem: bad baud" with the
// pattern "modem: %v" prints "modem: bad baud" and not "modem: modem: bad
// baud".
package curated
