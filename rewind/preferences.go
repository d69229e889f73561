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

package rewind

import (
	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/paths"
	"github.com/jetsetilly/gopheradvance/prefs"
)

// Preferences for the rewind system.
type Preferences struct {
	dsk *prefs.Disk

	// the maximum number of snapshots to keep before the earliest are
	// forgotten
	MaxEntries prefs.Int

	// a snapshot is taken every Frequency frames
	Frequency prefs.Int
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// default values.
const (
	maxEntries = 100
	frequency  = 1
)

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the default preferences file.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return NewPreferencesWithPath(pth)
}

// NewPreferencesWithPath is like NewPreferences() but with the preferences
// file specified.
func NewPreferencesWithPath(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	// values less than one make no sense for either preference
	atLeastOne := func(v prefs.Value) error {
		if v.(int) < 1 {
			return curated.Errorf(BadPreference, v)
		}
		return nil
	}
	p.MaxEntries.SetHookPre(atLeastOne)
	p.Frequency.SetHookPre(atLeastOne)

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("rewind.maxEntries", &p.MaxEntries)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("rewind.frequency", &p.Frequency)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	p.MaxEntries.Set(maxEntries)
	p.Frequency.Set(frequency)
}

// Load rewind preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current rewind preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
