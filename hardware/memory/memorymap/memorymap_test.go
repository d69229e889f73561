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

package memorymap_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
	"github.com/jetsetilly/gopheradvance/test"
)

const validMemMap = `00000000 -> 00003fff	BIOS
00004000 -> 01ffffff	unmapped
02000000 -> 02ffffff	EWRAM
03000000 -> 03ffffff	IWRAM
04000000 -> 040003ff	IO
04000400 -> 04ffffff	unmapped
05000000 -> 05ffffff	Palette
06000000 -> 06ffffff	VRAM
07000000 -> 07ffffff	OAM
08000000 -> 09ffffff	ROM (WS0)
0a000000 -> 0bffffff	ROM (WS1)
0c000000 -> 0dffffff	ROM (WS2)
0e000000 -> 0fffffff	SRAM
10000000 -> ffffffff	unmapped
`

func TestSummary(t *testing.T) {
	test.ExpectEquality(t, memorymap.Summary(), validMemMap)
}

func TestMirrors(t *testing.T) {
	type mirror struct {
		addr   uint32
		offset uint32
		area   memorymap.Area
	}

	for _, m := range []mirror{
		{0x00000010, 0x0010, memorymap.BIOS},
		{0x00004000, 0x4000, memorymap.Unmapped},
		{0x02040004, 0x0004, memorymap.EWRAM},
		{0x03008000, 0x0000, memorymap.IWRAM},
		{0x03ffff00, 0x7f00, memorymap.IWRAM},
		{0x04000202, 0x0202, memorymap.IO},
		{0x05000400, 0x0000, memorymap.Palette},
		{0x06010000, 0x10000, memorymap.VRAM},
		{0x06018000, 0x10000, memorymap.VRAM},
		{0x0601fffe, 0x17ffe, memorymap.VRAM},
		{0x06020004, 0x0004, memorymap.VRAM},
		{0x07000404, 0x0004, memorymap.OAM},
		{0x08000100, 0x0100, memorymap.ROM0},
		{0x0a000100, 0x0100, memorymap.ROM1},
		{0x0d000100, 0x1000100, memorymap.ROM2},
		{0x0e010001, 0x0001, memorymap.SRAM},
	} {
		o, a := memorymap.MapAddress(m.addr)
		test.ExpectEquality(t, a, m.area, m.addr)
		if a != memorymap.Unmapped {
			test.ExpectEquality(t, o, m.offset, m.addr)
		}
	}
}

func TestWidth(t *testing.T) {
	test.ExpectEquality(t, memorymap.Word.Align(0x03000003), 0x03000000)
	test.ExpectEquality(t, memorymap.Halfword.Align(0x03000003), 0x03000002)
	test.ExpectEquality(t, memorymap.Byte.Align(0x03000003), 0x03000003)
	test.ExpectSuccess(t, memorymap.ROM1.IsROM())
	test.ExpectFailure(t, memorymap.SRAM.IsROM())
}
