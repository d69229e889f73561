// This file is part of GopherAdvance.
//
// GopherAdvance is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherAdvance is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherAdvance.  If not, see <https://www.gnu.org/licenses/>.

package preferences_test

import (
	"path/filepath"
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/preferences"
	"github.com/jetsetilly/gopheradvance/prefs"
	"github.com/jetsetilly/gopheradvance/test"
)

func TestDefaults(t *testing.T) {
	p, err := preferences.NewPreferencesWithPath(filepath.Join(t.TempDir(), "prefs"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.SkipBIOS.Get().(bool), true)
	test.ExpectEquality(t, p.BIOSFile.Get().(string), "")
	test.ExpectEquality(t, p.LogUndefined.Get().(bool), false)
}

func TestSaveLoad(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "prefs")

	p, err := preferences.NewPreferencesWithPath(pth)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.SkipBIOS.Set(false))
	test.DemandSuccess(t, p.BIOSFile.Set("gba_bios.bin"))
	test.DemandSuccess(t, p.Save())

	q, err := preferences.NewPreferencesWithPath(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.SkipBIOS.Get().(bool), false)
	test.ExpectEquality(t, q.BIOSFile.Get().(string), "gba_bios.bin")
}

func TestCommandLine(t *testing.T) {
	prefs.PushCommandLineStack("hardware.logUndefined::true")
	defer prefs.PopCommandLineStack()

	p, err := preferences.NewPreferencesWithPath(filepath.Join(t.TempDir(), "prefs"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.LogUndefined.Get().(bool), true)
}
