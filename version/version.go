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

package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is the name to use when referring to the application.
const ApplicationName = "GopherAdvance"

// set by the linker for release builds
var number string

var (
	version  string
	revision string
)

// Version returns the version string, the revision string and whether this
// is a numbered release.
//
// A version of "unreleased" means the program was built from a repository
// without a version number. A version of "local" means there is no version
// number and no repository information, for example when using "go run".
func Version() (string, string, bool) {
	return version, revision, number != "" && version == number
}

// String returns a single line summary of the version information.
func String() string {
	v, r, release := Version()
	if release {
		return fmt.Sprintf("%s %s", ApplicationName, v)
	}
	return fmt.Sprintf("%s %s (%s)", ApplicationName, v, r)
}

func init() {
	var inRepo bool
	var modified bool

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs":
				inRepo = true
			case "vcs.revision":
				revision = s.Value
			case "vcs.modified":
				modified = s.Value == "true"
			}
		}
	}

	switch {
	case revision == "":
		revision = "no revision information"
	case modified:
		revision += "+dirty"
	}

	switch {
	case number != "":
		version = number
	case inRepo:
		version = "unreleased"
	default:
		version = "local"
	}
}
