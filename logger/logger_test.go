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

package logger_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/sidekick64/sidekicknet/logger"
	"github.com/sidekick64/sidekicknet/test"
)

func TestLogger(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "modem", "baud changed")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "modem: baud changed\n")

	w.Reset()
	log.Log(logger.Allow, "wic", errors.New("unknown command"))
	log.Write(w)
	test.ExpectEquality(t, w.String(), "modem: baud changed\nwic: unknown command\n")

	w.Reset()
	log.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "modem: baud changed\nwic: unknown command\n")

	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "wic: unknown command\n")

	w.Reset()
	log.Tail(w, 0)
	test.ExpectEquality(t, w.String(), "")
}

func TestRepeatedEntries(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Logf(logger.Allow, "scheduler", "pass %d", 1)
	log.Logf(logger.Allow, "scheduler", "pass %d", 1)
	log.Logf(logger.Allow, "scheduler", "pass %d", 1)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "scheduler: pass 1 (repeat x3)\n")
}

func TestCap(t *testing.T) {
	log := logger.NewLogger(3)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		log.Log(logger.Allow, "tag", s)
	}
	e := log.Entries()
	test.DemandEquality(t, len(e), 3)
	test.ExpectEquality(t, e[0].Detail, "c")
	test.ExpectEquality(t, e[2].Detail, "e")
}

type prohibit struct{}

func (prohibit) AllowLogging() bool {
	return false
}

func TestPermission(t *testing.T) {
	log := logger.NewLogger(10)
	log.Log(prohibit{}, "tag", "should not appear")
	test.ExpectEquality(t, len(log.Entries()), 0)

	echo := &test.CompareWriter{}
	log.SetEcho(echo)
	log.Log(logger.Allow, "tag", "echoed")
	test.ExpectSuccess(t, echo.Compare("tag: echoed\n"))
}
