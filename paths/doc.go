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

// Package paths contains functions to prepare paths to gopheradvance
// resources.
//
// The ResourcePath() function prepends the supplied path and filename with
// the appropriate config directory. For example, the preferences file:
//
//	d, err := paths.ResourcePath("", "preferences")
//
// In non-release builds the base path is ".gopheradvance" in the current
// working directory. In release builds (built with the "release" tag) the base
// path is "gopheradvance" in the user's config directory, as returned by
// os.UserConfigDir().
//
// In both cases the directory is created if it does not exist.
package paths
