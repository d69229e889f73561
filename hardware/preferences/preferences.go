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

package preferences

import (
	"github.com/jetsetilly/gopheradvance/paths"
	"github.com/jetsetilly/gopheradvance/prefs"
)

// Preferences defines and collates all the preference values used by the
// hardware.
type Preferences struct {
	dsk *prefs.Disk

	// start execution at the cartridge with the state the BIOS would leave
	// the hardware in
	SkipBIOS prefs.Bool

	// the file containing the BIOS image. the built-in BIOS is used if the
	// string is empty
	BIOSFile prefs.String

	// log every undefined instruction that is executed
	LogUndefined prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

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

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.skipBIOS", &p.SkipBIOS)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.biosFile", &p.BIOSFile)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.logUndefined", &p.LogUndefined)
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
	p.SkipBIOS.Set(true)
	p.BIOSFile.Set("")
	p.LogUndefined.Set(false)
}

// Load current hardware preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current hardware preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
