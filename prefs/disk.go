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
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jetsetilly/gopheradvance/curated"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is the first line of every preferences file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// separates key and value in the preferences file.
const keySep = " :: "

// Sentinal errors.
const (
	NoPrefsFile = "prefs: no prefs file (%s)"
	BadPrefsKey = "prefs: bad key (%s)"
)

// Disk represents preference values as stored on disk.
type Disk struct {
	path    string
	entries map[string]pref
}

func (dsk *Disk) String() string {
	keys := dsk.sortedKeys()
	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, keySep, dsk.entries[k]))
	}
	return s.String()
}

func (dsk *Disk) sortedKeys() []string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Add preference value to list of values to store/load from Disk. The key
// is used to identify the value in the file and must be unique for the
// instance and must not contain the key separator.
func (dsk *Disk) Add(key string, p pref) error {
	if key == "" || strings.Contains(key, strings.TrimSpace(keySep)) || strings.ContainsAny(key, " \n") {
		return curated.Errorf(BadPrefsKey, key)
	}
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf(BadPrefsKey, fmt.Sprintf("%s already added", key))
	}
	dsk.entries[key] = p
	return nil
}

// Reset all entries to their default values.
func (dsk *Disk) Reset() error {
	for _, p := range dsk.entries {
		if err := p.Reset(); err != nil {
			return curated.Errorf("prefs: %v", err)
		}
	}
	return nil
}

// readFile returns the contents of the preferences file as a map. entries
// with keys that are not recognised by this instance are included so that
// they can be written back by Save().
func (dsk *Disk) readFile() (map[string]string, error) {
	entries := make(map[string]string)

	f, err := os.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, curated.Errorf(NoPrefsFile, dsk.path)
		}
		return entries, curated.Errorf("prefs: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// the first line must be the boiler plate
	if !scanner.Scan() || scanner.Text() != WarningBoilerPlate {
		return entries, curated.Errorf("prefs: %v", fmt.Errorf("not a valid prefs file (%s)", dsk.path))
	}

	for scanner.Scan() {
		k, v, ok := strings.Cut(scanner.Text(), keySep)
		if !ok {
			continue
		}
		entries[k] = v
	}
	if err := scanner.Err(); err != nil {
		return entries, curated.Errorf("prefs: %v", err)
	}

	return entries, nil
}

// Save current preference values to disk. Entries in the file that do not
// belong to this instance are preserved.
func (dsk *Disk) Save() error {
	entries, err := dsk.readFile()
	if err != nil && !curated.Is(err, NoPrefsFile) {
		return err
	}

	for k, p := range dsk.entries {
		entries[k] = p.String()
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(dsk.path)
	if err != nil {
		return curated.Errorf("prefs: %v", err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s\n", WarningBoilerPlate)
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s%s\n", k, keySep, entries[k])
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return curated.Errorf("prefs: %v", err)
	}
	if err := f.Close(); err != nil {
		return curated.Errorf("prefs: %v", err)
	}

	return nil
}

// Load preference values from disk. Values overridden by the command line
// stack are applied after the values on disk, whether or not the file
// exists. A missing file is not an error.
func (dsk *Disk) Load() error {
	entries, err := dsk.readFile()
	if err != nil && !curated.Is(err, NoPrefsFile) {
		return err
	}

	for k, v := range entries {
		if p, ok := dsk.entries[k]; ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf("prefs: %v", err)
			}
		}
	}

	for _, k := range dsk.sortedKeys() {
		if ok, v := GetCommandLinePref(k); ok {
			if err := dsk.entries[k].Set(v); err != nil {
				return curated.Errorf("prefs: %v", err)
			}
		}
	}

	return nil
}
