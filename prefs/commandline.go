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

package prefs

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// the command line stack is rarely used but it is accessed by Disk.Load(),
// which may be called from any goroutine
var commandLine struct {
	crit  sync.Mutex
	stack []map[string]string
}

// SizeCommandLineStack returns the number of groups that have been added with
// PushCommandLineStack().
func SizeCommandLineStack() int {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()
	return len(commandLine.stack)
}

// PushCommandLineStack parses a preferences string and adds it as a new
// group. Entries that are not of the form "key::value" are ignored.
func PushCommandLineStack(prefs string) {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()

	grp := make(map[string]string)
	for _, p := range strings.Split(prefs, ";") {
		k, v, ok := strings.Cut(p, "::")
		if ok {
			grp[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	commandLine.stack = append(commandLine.stack, grp)
}

// PopCommandLineStack forgets the most recent group added by
// PushCommandLineStack(). Returns the entries of the group that were never
// used, as a sorted preferences string.
func PopCommandLineStack() string {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()

	if len(commandLine.stack) == 0 {
		return ""
	}

	grp := commandLine.stack[len(commandLine.stack)-1]
	commandLine.stack = commandLine.stack[:len(commandLine.stack)-1]

	keys := make([]string, 0, len(grp))
	for k := range grp {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := make([]string, 0, len(keys))
	for _, k := range keys {
		s = append(s, fmt.Sprintf("%s::%s", k, grp[k]))
	}
	return strings.Join(s, "; ")
}

// GetCommandLinePref returns the value for the key in the top group. The
// value is deleted when it is returned.
func GetCommandLinePref(key string) (bool, string) {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()

	if len(commandLine.stack) == 0 {
		return false, ""
	}

	grp := commandLine.stack[len(commandLine.stack)-1]
	if v, ok := grp[key]; ok {
		delete(grp, key)
		return true, v
	}
	return false, ""
}
