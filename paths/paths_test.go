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

package paths_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/gopheradvance/paths"
	"github.com/jetsetilly/gopheradvance/test"
)

func TestPaths(t *testing.T) {
	// run in a temporary directory so that the resource directory can be
	// created without affecting the source tree
	wd, err := os.Getwd()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	pth, err := paths.ResourcePath("foo/bar", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".gopheradvance", "foo", "bar", "baz"))

	pth, err = paths.ResourcePath("", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".gopheradvance", "baz"))

	pth, err = paths.ResourcePath("", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".gopheradvance")

	_, err = os.Stat(filepath.Join(".gopheradvance", "foo", "bar"))
	test.ExpectSuccess(t, err)
}

func TestUniqueFilename(t *testing.T) {
	fn := paths.UniqueFilename("state", "  TITLE ")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "state_TITLE_"))

	fn = paths.UniqueFilename("state", "")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "state_"))
	test.ExpectEquality(t, len(fn), len("state_YYYYMMDD_HHMMSS"))
}
