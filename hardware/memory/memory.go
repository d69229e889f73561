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
	"encoding/binary"
	"fmt"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
	"github.com/jetsetilly/gopheradvance/logger"
)

// Sentinel error patterns.
const (
	CartridgeTooLarge = "memory: cartridge is too large (%d bytes)"
	BadBIOS           = "memory: BIOS must be %d bytes (%d bytes)"
	CannotPoke        = "memory: cannot poke %s (%08x)"
)

// Bus connects the CPU and the DMA engine to memory and to the registers of
// the peripherals.
type Bus struct {
	bios    []uint8
	ewram   []uint8
	iwram   []uint8
	io      []uint8
	palette []uint8
	vram    []uint8
	oam     []uint8
	rom     []uint8
	sram    []uint8

	periph   Peripherals
	external ExternalIO

	waitcnt uint16
	ws      WaitStates
	postflg uint8
	halt    HaltMode

	// the most recently fetched opcode. thumb opcodes are duplicated into
	// both halves
	openBus uint32

	// the most recently fetched BIOS opcode and whether the most recent
	// fetch was from the BIOS
	biosLatch     uint32
	executingBIOS bool

	// the cost of accesses since the last call to ClearInflight()
	inflight int
}

// NewBus is the preferred method of initialisation for the Bus type. The BIOS
// argument can be nil, in which case the built-in BIOS is used.
func NewBus(rom []uint8, bios []uint8) (*Bus, error) {
	if len(rom) > memorymap.SizeROM {
		return nil, curated.Errorf(CartridgeTooLarge, len(rom))
	}

	if bios == nil {
		bios = StubBIOS()
	} else if len(bios) != memorymap.SizeBIOS {
		return nil, curated.Errorf(BadBIOS, memorymap.SizeBIOS, len(bios))
	}

	b := &Bus{
		bios:    bios,
		ewram:   make([]uint8, memorymap.SizeEWRAM),
		iwram:   make([]uint8, memorymap.SizeIWRAM),
		io:      make([]uint8, memorymap.SizeIO),
		palette: make([]uint8, memorymap.SizePalette),
		vram:    make([]uint8, memorymap.SizeVRAM),
		oam:     make([]uint8, memorymap.SizeOAM),
		rom:     rom,
		sram:    make([]uint8, memorymap.SizeSRAM),
	}

	b.Reset()

	return b, nil
}

// Plumb the peripherals into the Bus.
func (b *Bus) Plumb(periph Peripherals) {
	b.periph = periph
}

// SetExternalIO attaches the component that owns the registers that are not
// part of the core. Can be nil.
func (b *Bus) SetExternalIO(ext ExternalIO) {
	b.external = ext
}

// Reset the work memories and the system control registers. The cartridge
// SRAM is preserved.
func (b *Bus) Reset() {
	clear(b.ewram)
	clear(b.iwram)
	clear(b.io)
	clear(b.palette)
	clear(b.vram)
	clear(b.oam)
	b.waitcnt = 0
	b.ws = NewWaitStates(0)
	b.postflg = 0
	b.halt = Running
	b.openBus = 0
	b.biosLatch = 0
	b.executingBIOS = true
	b.inflight = 0
}

func (b *Bus) String() string {
	return fmt.Sprintf("WAITCNT=%04x POSTFLG=%d open=%08x", b.waitcnt, b.postflg, b.openBus)
}

// ROM returns the cartridge image.
func (b *Bus) ROM() []uint8 {
	return b.rom
}

// WaitStates returns a copy of the current table of access costs.
func (b *Bus) WaitStates() WaitStates {
	return b.ws
}

// SetPostBoot sets the POSTFLG register. This is done when the BIOS is
// skipped.
func (b *Bus) SetPostBoot() {
	b.postflg = 1
}

// Halt returns the state requested by the most recent write to HALTCNT and
// clears the request.
func (b *Bus) Halt() HaltMode {
	h := b.halt
	b.halt = Running
	return h
}

// Inflight returns the total cost of the accesses since the last call to
// ClearInflight().
func (b *Bus) Inflight() int {
	return b.inflight
}

// ClearInflight should be called whenever the clock is settled.
func (b *Bus) ClearInflight() {
	b.inflight = 0
}

// the current time as seen by the peripherals
func (b *Bus) now() uint64 {
	return b.periph.Sched.Now() + uint64(b.inflight)
}

// Fetch reads an opcode. The opcode becomes the open bus value.
func (b *Bus) Fetch(addr uint32, width memorymap.Width, kind memorymap.Access) (uint32, int) {
	addr, offset, area := mapAddress(addr, width)

	b.executingBIOS = area == memorymap.BIOS

	v := b.read(addr, offset, area, width)

	if width == memorymap.Halfword {
		b.openBus = v | (v << 16)
	} else {
		b.openBus = v
	}
	if b.executingBIOS {
		b.biosLatch = b.openBus
	}

	cost := b.ws.Cost(addr, area, width, kind)
	b.inflight += cost
	return v, cost
}

// Read returns the value at the address and the cost of the access. The
// address is aligned to the width. The rotation of misaligned words is
// the responsibility of the CPU.
func (b *Bus) Read(addr uint32, width memorymap.Width, kind memorymap.Access) (uint32, int) {
	addr, offset, area := mapAddress(addr, width)

	var v uint32
	if area == memorymap.BIOS && !b.executingBIOS {
		v = lane(b.biosLatch, addr, width)
	} else {
		v = b.read(addr, offset, area, width)
	}

	cost := b.ws.Cost(addr, area, width, kind)
	b.inflight += cost
	return v, cost
}

// Write the value to the address and return the cost of the access. The
// address is aligned to the width.
func (b *Bus) Write(addr uint32, width memorymap.Width, value uint32, kind memorymap.Access) int {
	addr, offset, area := mapAddress(addr, width)

	switch area {
	case memorymap.EWRAM:
		store(b.ewram, offset, width, value)
	case memorymap.IWRAM:
		store(b.iwram, offset, width, value)
	case memorymap.IO:
		b.writeIO(offset, width, value)
	case memorymap.Palette:
		storeVideo(b.palette, offset, width, value)
	case memorymap.VRAM:
		storeVideo(b.vram, offset, width, value)
	case memorymap.OAM:
		// byte writes to OAM are ignored
		if width != memorymap.Byte {
			store(b.oam, offset, width, value)
		}
	case memorymap.SRAM:
		b.sram[offset] = uint8(value >> ((addr & (uint32(width) - 1)) * 8))
	}

	cost := b.ws.Cost(addr, area, width, kind)
	b.inflight += cost
	return cost
}

func (b *Bus) read(addr uint32, offset uint32, area memorymap.Area, width memorymap.Width) uint32 {
	switch area {
	case memorymap.BIOS:
		return load(b.bios, offset, width)
	case memorymap.EWRAM:
		return load(b.ewram, offset, width)
	case memorymap.IWRAM:
		return load(b.iwram, offset, width)
	case memorymap.IO:
		return b.readIO(offset, width)
	case memorymap.Palette:
		return load(b.palette, offset, width)
	case memorymap.VRAM:
		return load(b.vram, offset, width)
	case memorymap.OAM:
		return load(b.oam, offset, width)
	case memorymap.ROM0, memorymap.ROM1, memorymap.ROM2:
		var v uint32
		for i := range uint32(width) {
			v |= uint32(b.romByte(offset+i)) << (i * 8)
		}
		return v
	case memorymap.SRAM:
		// 8bit bus. wider reads see the byte in every lane
		v := uint32(b.sram[offset])
		switch width {
		case memorymap.Halfword:
			return v * 0x0101
		case memorymap.Word:
			return v * 0x01010101
		}
		return v
	}
	return lane(b.openBus, addr, width)
}

// the address is aligned to the width of the access except for SRAM, which
// is an 8bit bus
func mapAddress(addr uint32, width memorymap.Width) (uint32, uint32, memorymap.Area) {
	offset, area := memorymap.MapAddress(addr)
	if area == memorymap.SRAM {
		return addr, offset, area
	}
	return width.Align(addr), width.Align(offset), area
}

// reads beyond the end of the cartridge image return the address of the
// halfword divided by two
func (b *Bus) romByte(offset uint32) uint8 {
	if offset < uint32(len(b.rom)) {
		return b.rom[offset]
	}
	return uint8(((offset >> 1) & 0xffff) >> ((offset & 0x01) * 8))
}

// lane selects the bytes of a 32bit value that would be seen by an access of
// the width at the address
func lane(v uint32, addr uint32, width memorymap.Width) uint32 {
	switch width {
	case memorymap.Byte:
		return (v >> ((addr & 0x03) * 8)) & 0xff
	case memorymap.Halfword:
		return (v >> ((addr & 0x02) * 8)) & 0xffff
	}
	return v
}

func load(mem []uint8, offset uint32, width memorymap.Width) uint32 {
	switch width {
	case memorymap.Byte:
		return uint32(mem[offset])
	case memorymap.Halfword:
		return uint32(binary.LittleEndian.Uint16(mem[offset:]))
	}
	return binary.LittleEndian.Uint32(mem[offset:])
}

func store(mem []uint8, offset uint32, width memorymap.Width, value uint32) {
	switch width {
	case memorymap.Byte:
		mem[offset] = uint8(value)
	case memorymap.Halfword:
		binary.LittleEndian.PutUint16(mem[offset:], uint16(value))
	default:
		binary.LittleEndian.PutUint32(mem[offset:], value)
	}
}

// byte writes to palette and VRAM store the byte to both halves of the
// halfword
func storeVideo(mem []uint8, offset uint32, width memorymap.Width, value uint32) {
	if width == memorymap.Byte {
		offset &^= 0x01
		mem[offset] = uint8(value)
		mem[offset+1] = uint8(value)
		return
	}
	store(mem, offset, width, value)
}

// Peek returns the value at the address without cost and without side
// effects. BIOS read protection does not apply.
func (b *Bus) Peek(addr uint32, width memorymap.Width) uint32 {
	addr, offset, area := mapAddress(addr, width)
	return b.read(addr, offset, area, width)
}

// Poke writes a byte to the address. Only the memory areas that the CPU can
// write to can be poked. IO registers cannot be poked.
func (b *Bus) Poke(addr uint32, value uint8) error {
	offset, area := memorymap.MapAddress(addr)
	switch area {
	case memorymap.EWRAM:
		b.ewram[offset] = value
	case memorymap.IWRAM:
		b.iwram[offset] = value
	case memorymap.Palette:
		b.palette[offset] = value
	case memorymap.VRAM:
		b.vram[offset] = value
	case memorymap.OAM:
		b.oam[offset] = value
	case memorymap.SRAM:
		b.sram[offset] = value
	default:
		return curated.Errorf(CannotPoke, area, addr)
	}
	return nil
}

// LogHeader writes the details of the cartridge header to the log.
func (b *Bus) LogHeader() {
	h, ok := ParseHeader(b.rom)
	if !ok {
		logger.Log(logger.Allow, "bus", "cartridge has no header")
		return
	}
	logger.Logf(logger.Allow, "bus", "cartridge: %s", h)
}
