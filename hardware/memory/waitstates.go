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

	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
)

// the number of cycles for the first access to each of the ROM windows and
// to SRAM. indexed by the two bit field in WAITCNT
var firstAccess = [4]int{4, 3, 2, 8}

// the number of cycles for sequential accesses to each of the ROM windows.
// indexed by the one bit field in WAITCNT
var secondAccess = [3][2]int{
	{2, 1},
	{4, 1},
	{8, 1},
}

// WAITCNT bits that can be written. the top bit is the gamepak type and is
// always zero
const waitcntMask = 0x5fff

const numAreas = int(memorymap.SRAM) + 1

// WaitStates is the table of access costs. Costs include the base cycle of the
// access.
type WaitStates struct {
	// indexed by area, then by whether the access is 32bit and then by
	// sequentiality
	table [numAreas][2][2]int
}

// NewWaitStates returns the table for the WAITCNT value.
func NewWaitStates(waitcnt uint16) WaitStates {
	var ws WaitStates

	set := func(area memorymap.Area, narrow int, wide int) {
		ws.table[area][0][memorymap.NonSequential] = narrow
		ws.table[area][0][memorymap.Sequential] = narrow
		ws.table[area][1][memorymap.NonSequential] = wide
		ws.table[area][1][memorymap.Sequential] = wide
	}

	set(memorymap.Unmapped, 1, 1)
	set(memorymap.BIOS, 1, 1)
	set(memorymap.IWRAM, 1, 1)
	set(memorymap.IO, 1, 1)
	set(memorymap.OAM, 1, 1)
	set(memorymap.EWRAM, 3, 6)
	set(memorymap.Palette, 1, 2)
	set(memorymap.VRAM, 1, 2)

	sram := 1 + firstAccess[waitcnt&0x03]
	set(memorymap.SRAM, sram, sram)

	for i, area := range []memorymap.Area{memorymap.ROM0, memorymap.ROM1, memorymap.ROM2} {
		shift := 2 + i*3
		n := 1 + firstAccess[(waitcnt>>shift)&0x03]
		s := 1 + secondAccess[i][(waitcnt>>(shift+2))&0x01]
		ws.table[area][0][memorymap.NonSequential] = n
		ws.table[area][0][memorymap.Sequential] = s
		ws.table[area][1][memorymap.NonSequential] = n + s
		ws.table[area][1][memorymap.Sequential] = s * 2
	}

	return ws
}

// Cost returns the number of cycles for an access to the area.
func (ws WaitStates) Cost(addr uint32, area memorymap.Area, width memorymap.Width, kind memorymap.Access) int {
	// the ROM sequential counter doesn't cross a 128KB boundary
	if area.IsROM() && addr&0x1ffff == 0 {
		kind = memorymap.NonSequential
	}
	var wide int
	if width == memorymap.Word {
		wide = 1
	}
	return ws.table[area][wide][kind]
}

func (ws WaitStates) String() string {
	s := strings.Builder{}
	for a := range numAreas {
		t := ws.table[a]
		s.WriteString(fmt.Sprintf("%-10s N%d S%d (32bit N%d S%d)\n", memorymap.Area(a),
			t[0][memorymap.NonSequential], t[0][memorymap.Sequential],
			t[1][memorymap.NonSequential], t[1][memorymap.Sequential]))
	}
	return s.String()
}
