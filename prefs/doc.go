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

// Package prefs stores user preferences on disk and makes them available to
// the rest of the program.
//
// Preference values are represented by the Bool, Int and String types. The
// values are safe to read and write from more than one goroutine. A value is
// associated with a key and a file on disk with the Disk type:
//
//	dsk, err := prefs.NewDisk(pth)
//	err = dsk.Add("hardware.skipBIOS", &p.SkipBIOS)
//	err = dsk.Load()
//
// More than one Disk instance can refer to the same file. Saving a Disk
// instance will not remove the entries written by another instance.
//
// Preferences can be overridden on the command line with a string of the
// form:
//
//	"key::value; key::value"
//
// The string is pushed onto a stack with PushCommandLineStack(). Overrides
// are applied by Disk.Load() and are consumed as they are applied. The
// unused overrides are returned by PopCommandLineStack().
package prefs
