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

package memorymap

import (
	"fmt"
	"strings"
)

// the addresses at which the area of an address may change. the list is in
// ascending order and the last entry is the top of the address space
var boundaries = []uint32{
	OriginBIOS, MemtopBIOS + 1,
	OriginEWRAM, OriginIWRAM, OriginIO, MemtopIO + 1,
	OriginPalette, OriginVRAM, OriginOAM,
	OriginROM0, OriginROM1, OriginROM2, OriginSRAM,
	MemtopSRAM + 1,
}

// Summary returns a single multiline string detailing all the areas in
// memory. Adjacent ranges in the same area are merged.
func Summary() string {
	s := strings.Builder{}

	start := uint32(0)
	_, current := MapAddress(start)

	for _, b := range boundaries[1:] {
		_, a := MapAddress(b)
		if a != current {
			s.WriteString(fmt.Sprintf("%08x -> %08x\t%s\n", start, b-1, current))
			start = b
			current = a
		}
	}

	// everything above the last boundary is unmapped
	s.WriteString(fmt.Sprintf("%08x -> %08x\t%s\n", start, uint32(0xffffffff), current))

	return s.String()
}
