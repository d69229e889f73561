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

package memory

import (
	"fmt"
	"strings"
)

// Header is the information in the cartridge header.
type Header struct {
	Title    string
	GameCode string
	Maker    string
	Version  uint8
}

func (h Header) String() string {
	return fmt.Sprintf("%s [%s] maker %s v%d", h.Title, h.GameCode, h.Maker, h.Version)
}

// header layout
const (
	headerTitle    = 0xa0
	headerGameCode = 0xac
	headerMaker    = 0xb0
	headerFixed    = 0xb2
	headerVersion  = 0xbc
	headerChecksum = 0xbd
	headerSize     = 0xc0
)

// ParseHeader returns the cartridge header. Returns false if the ROM is too
// small to have a header or if the header checksum is wrong.
func ParseHeader(rom []uint8) (Header, bool) {
	if len(rom) < headerSize {
		return Header{}, false
	}

	// the fixed value is always 0x96
	if rom[headerFixed] != 0x96 {
		return Header{}, false
	}

	var chk uint8
	for _, v := range rom[headerTitle:headerChecksum] {
		chk -= v
	}
	chk -= 0x19
	if chk != rom[headerChecksum] {
		return Header{}, false
	}

	field := func(b []uint8) string {
		return strings.TrimRight(string(b), "\x00 ")
	}

	return Header{
		Title:    field(rom[headerTitle:headerGameCode]),
		GameCode: field(rom[headerGameCode:headerMaker]),
		Maker:    field(rom[headerMaker:headerFixed]),
		Version:  rom[headerVersion],
	}, true
}
