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

import "fmt"

// Width of a memory access.
type Width int

// List of valid Width values. The value is the number of bytes in the access.
const (
	Byte     Width = 1
	Halfword Width = 2
	Word     Width = 4
)

func (w Width) String() string {
	switch w {
	case Byte:
		return "8bit"
	case Halfword:
		return "16bit"
	case Word:
		return "32bit"
	}
	return fmt.Sprintf("width(%d)", int(w))
}

// Align returns the address with the bits below the width cleared.
func (w Width) Align(addr uint32) uint32 {
	return addr &^ (uint32(w) - 1)
}

// Area represents the different areas of memory.
type Area int

// List of valid Area values.
const (
	Unmapped Area = iota
	BIOS
	EWRAM
	IWRAM
	IO
	Palette
	VRAM
	OAM
	ROM0
	ROM1
	ROM2
	SRAM
)

func (a Area) String() string {
	switch a {
	case BIOS:
		return "BIOS"
	case EWRAM:
		return "EWRAM"
	case IWRAM:
		return "IWRAM"
	case IO:
		return "IO"
	case Palette:
		return "Palette"
	case VRAM:
		return "VRAM"
	case OAM:
		return "OAM"
	case ROM0:
		return "ROM (WS0)"
	case ROM1:
		return "ROM (WS1)"
	case ROM2:
		return "ROM (WS2)"
	case SRAM:
		return "SRAM"
	}
	return "unmapped"
}

// IsROM returns true if the area is one of the three cartridge ROM windows.
func (a Area) IsROM() bool {
	return a == ROM0 || a == ROM1 || a == ROM2
}

// Origin and memtop of each area. The memtop is the top of the window in
// which the area is mirrored, not the top of the backing memory.
const (
	OriginBIOS    = uint32(0x00000000)
	MemtopBIOS    = uint32(0x00003fff)
	OriginEWRAM   = uint32(0x02000000)
	MemtopEWRAM   = uint32(0x02ffffff)
	OriginIWRAM   = uint32(0x03000000)
	MemtopIWRAM   = uint32(0x03ffffff)
	OriginIO      = uint32(0x04000000)
	MemtopIO      = uint32(0x040003ff)
	OriginPalette = uint32(0x05000000)
	MemtopPalette = uint32(0x05ffffff)
	OriginVRAM    = uint32(0x06000000)
	MemtopVRAM    = uint32(0x06ffffff)
	OriginOAM     = uint32(0x07000000)
	MemtopOAM     = uint32(0x07ffffff)
	OriginROM0    = uint32(0x08000000)
	MemtopROM0    = uint32(0x09ffffff)
	OriginROM1    = uint32(0x0a000000)
	MemtopROM1    = uint32(0x0bffffff)
	OriginROM2    = uint32(0x0c000000)
	MemtopROM2    = uint32(0x0dffffff)
	OriginSRAM    = uint32(0x0e000000)
	MemtopSRAM    = uint32(0x0fffffff)
)

// Sizes of the backing memory for each area.
const (
	SizeBIOS    = 0x4000
	SizeEWRAM   = 0x40000
	SizeIWRAM   = 0x8000
	SizeIO      = 0x400
	SizePalette = 0x400
	SizeVRAM    = 0x18000
	SizeOAM     = 0x400
	SizeROM     = 0x2000000
	SizeSRAM    = 0x10000
)

// Masks to bring an address into the range of the backing memory.
const (
	MaskEWRAM   = uint32(SizeEWRAM - 1)
	MaskIWRAM   = uint32(SizeIWRAM - 1)
	MaskPalette = uint32(SizePalette - 1)
	MaskOAM     = uint32(SizeOAM - 1)
	MaskROM     = uint32(SizeROM - 1)
	MaskSRAM    = uint32(SizeSRAM - 1)

	// VRAM is mirrored every 128KB but only 96KB exists. the top 32KB of
	// the 128KB mirrors the 64KB to 96KB range
	MaskVRAM = uint32(0x1ffff)
)

// MapAddress translates the address argument from mirror space to primary
// space. The returned offset is relative to the start of the area's backing
// memory. Offsets for Unmapped addresses are meaningless.
func MapAddress(addr uint32) (uint32, Area) {
	switch addr >> 24 {
	case 0x00:
		if addr <= MemtopBIOS {
			return addr, BIOS
		}
	case 0x02:
		return addr & MaskEWRAM, EWRAM
	case 0x03:
		return addr & MaskIWRAM, IWRAM
	case 0x04:
		if addr <= MemtopIO {
			return addr - OriginIO, IO
		}
	case 0x05:
		return addr & MaskPalette, Palette
	case 0x06:
		o := addr & MaskVRAM
		if o >= SizeVRAM {
			o -= 0x8000
		}
		return o, VRAM
	case 0x07:
		return addr & MaskOAM, OAM
	case 0x08, 0x09:
		return addr & MaskROM, ROM0
	case 0x0a, 0x0b:
		return addr & MaskROM, ROM1
	case 0x0c, 0x0d:
		return addr & MaskROM, ROM2
	case 0x0e, 0x0f:
		return addr & MaskSRAM, SRAM
	}
	return addr, Unmapped
}

// Access describes the sequentiality of a memory access. A sequential access
// is to the address immediately following the previous access.
type Access int

// List of valid Access values.
const (
	NonSequential Access = iota
	Sequential
)

func (a Access) String() string {
	if a == Sequential {
		return "S"
	}
	return "N"
}
