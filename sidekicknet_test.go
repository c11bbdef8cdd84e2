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

package main

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/sidekick64/sidekicknet/test"
)

// inTempDir runs the test with a resource directory of its own.
func inTempDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	test.DemandSuccess(t, err)

	dir := t.TempDir()
	test.DemandSuccess(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	test.DemandSuccess(t, os.Mkdir(".sidekicknet", 0o700))
}

func TestHelp(t *testing.T) {
	w := &test.CompareWriter{}
	test.ExpectSuccess(t, launch(context.Background(), []string{"-help"}, w))
	test.ExpectSuccess(t, strings.Contains(w.String(), "available modes: RUN, MODEM, SERIAL, WIC, DUMP, VERSION"))
}

func TestBadFlag(t *testing.T) {
	inTempDir(t)
	w := &test.CompareWriter{}
	test.ExpectFailure(t, launch(context.Background(), []string{"-nosuchflag"}, w))
}

func TestVersion(t *testing.T) {
	w := &test.CompareWriter{}
	test.ExpectSuccess(t, launch(context.Background(), []string{"version"}, w))
	test.ExpectSuccess(t, strings.HasPrefix(w.String(), "sidekicknet "))
}

func TestWIC(t *testing.T) {
	inTempDir(t)
	w := &test.CompareWriter{}
	err := launch(context.Background(), []string{"-prefs", "timing.idle::2", "wic", "10"}, w)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, w.String(), "sidekickwlan\n")

	w.Clear()
	err = launch(context.Background(), []string{"wic"}, w)
	test.ExpectFailure(t, err)
}

func TestDump(t *testing.T) {
	inTempDir(t)
	w := &test.CompareWriter{}
	err := launch(context.Background(), []string{"dump", "-passes", "10"}, w)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, strings.HasPrefix(w.String(), "digraph"))
}

func TestRunPasses(t *testing.T) {
	inTempDir(t)

	prg := []byte{0x01, 0x08, 0x0b, 0x08, 0x0a, 0x00, 0x9e, 0x32, 0x30, 0x36, 0x31, 0x00, 0x00, 0x00}
	test.DemandSuccess(t, os.WriteFile("test.prg", prg, 0o600))

	w := &test.CompareWriter{}
	err := launch(context.Background(), []string{"run", "-passes", "20", "-capture", "lines.wav", "test.prg"}, w)
	test.ExpectSuccess(t, err)

	st, err := os.Stat("lines.wav")
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, st.Size() > 44)

	err = launch(context.Background(), []string{"run", "missing.prg"}, w)
	test.ExpectFailure(t, err)
}
