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

package prefs_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/prefs"
	"github.com/jetsetilly/gopheradvance/test"
)

func cmpFile(t *testing.T, pth string, expected string) {
	t.Helper()
	b, err := os.ReadFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), expected)
}

func TestTypes(t *testing.T) {
	var b prefs.Bool
	test.ExpectEquality(t, b.String(), "false")
	test.ExpectSuccess(t, b.Set("TRUE"))
	test.ExpectEquality(t, b.Get().(bool), true)
	test.ExpectSuccess(t, b.Set("foo"))
	test.ExpectEquality(t, b.Get().(bool), false)
	test.ExpectFailure(t, b.Set(10))

	var i prefs.Int
	test.ExpectEquality(t, i.String(), "0")
	test.ExpectSuccess(t, i.Set("100"))
	test.ExpectEquality(t, i.Get().(int), 100)
	test.ExpectFailure(t, i.Set("foo"))
	test.ExpectEquality(t, i.Get().(int), 100)
	test.ExpectSuccess(t, i.Reset())
	test.ExpectEquality(t, i.Get().(int), 0)

	var s prefs.String
	test.ExpectSuccess(t, s.Set(42))
	test.ExpectEquality(t, s.String(), "42")
}

func TestHooks(t *testing.T) {
	var i prefs.Int

	var post int
	i.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 {
			return errors.New("negative")
		}
		return nil
	})
	i.SetHookPost(func(v prefs.Value) error {
		post = v.(int)
		return nil
	})

	test.ExpectSuccess(t, i.Set(10))
	test.ExpectEquality(t, post, 10)

	// pre-hook prevents the update
	test.ExpectFailure(t, i.Set(-1))
	test.ExpectEquality(t, i.Get().(int), 10)
	test.ExpectEquality(t, post, 10)
}

func TestDisk(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "test_disk")

	dsk, err := prefs.NewDisk(pth)
	test.DemandSuccess(t, err)

	var v prefs.Bool
	var w prefs.String
	var x prefs.Int
	test.DemandSuccess(t, dsk.Add("test", &v))
	test.DemandSuccess(t, dsk.Add("foo", &w))
	test.DemandSuccess(t, dsk.Add("bar", &x))

	// keys must be unique and well formed
	test.ExpectFailure(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, curated.Is(dsk.Add("a b", &v), prefs.BadPrefsKey))

	// a missing file is not an error
	test.ExpectSuccess(t, dsk.Load())

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, w.Set("baz"))
	test.ExpectSuccess(t, x.Set(12))
	test.DemandSuccess(t, dsk.Save())

	cmpFile(t, pth, prefs.WarningBoilerPlate+"\n"+
		"bar :: 12\n"+
		"foo :: baz\n"+
		"test :: true\n")

	test.ExpectSuccess(t, dsk.Reset())
	test.ExpectEquality(t, v.String(), "false")
	test.ExpectSuccess(t, dsk.Load())
	test.ExpectEquality(t, v.String(), "true")
	test.ExpectEquality(t, w.String(), "baz")
	test.ExpectEquality(t, x.String(), "12")
}

func TestDiskMerge(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "test_merge")

	dskA, err := prefs.NewDisk(pth)
	test.DemandSuccess(t, err)
	var a prefs.Int
	test.DemandSuccess(t, dskA.Add("a", &a))
	test.ExpectSuccess(t, a.Set(1))
	test.DemandSuccess(t, dskA.Save())

	dskB, err := prefs.NewDisk(pth)
	test.DemandSuccess(t, err)
	var b prefs.Int
	test.DemandSuccess(t, dskB.Add("b", &b))
	test.ExpectSuccess(t, b.Set(2))
	test.DemandSuccess(t, dskB.Save())

	// saving dskB has not removed the entry from dskA
	cmpFile(t, pth, prefs.WarningBoilerPlate+"\n"+
		"a :: 1\n"+
		"b :: 2\n")
}

func TestDiskCommandLine(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "test_commandline")

	dsk, err := prefs.NewDisk(pth)
	test.DemandSuccess(t, err)
	var v prefs.Int
	test.DemandSuccess(t, dsk.Add("value", &v))
	test.ExpectSuccess(t, v.Set(5))
	test.DemandSuccess(t, dsk.Save())

	prefs.PushCommandLineStack("value::99; unused::1")
	test.ExpectSuccess(t, dsk.Load())
	test.ExpectEquality(t, v.Get().(int), 99)
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "unused::1")
}

func TestBadFile(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "test_bad")
	test.DemandSuccess(t, os.WriteFile(pth, []byte("foo :: bar\n"), 0600))

	dsk, err := prefs.NewDisk(pth)
	test.DemandSuccess(t, err)
	var v prefs.String
	test.DemandSuccess(t, dsk.Add("foo", &v))
	test.ExpectFailure(t, dsk.Load())
}
