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

	"github.com/jetsetilly/gopheradvance/hardware/dma"
	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
	"github.com/jetsetilly/gopheradvance/hardware/timers"
)

// System control registers relative to the start of the IO area.
const (
	RegWAITCNT = 0x204
	RegPOSTFLG = 0x300
	RegHALTCNT = 0x301
)

// bit 7 of HALTCNT selects stop rather than halt
const haltcntStop = 0x80

func (b *Bus) readIO(offset uint32, width memorymap.Width) uint32 {
	switch width {
	case memorymap.Byte:
		return uint32(b.read16(offset&^1)>>((offset&1)*8)) & 0xff
	case memorymap.Halfword:
		return uint32(b.read16(offset))
	}
	return uint32(b.read16(offset)) | uint32(b.read16(offset+2))<<16
}

func (b *Bus) writeIO(offset uint32, width memorymap.Width, value uint32) {
	switch width {
	case memorymap.Byte:
		shift := (offset & 1) * 8
		b.write16(offset&^1, uint16(value<<shift), uint16(0xff<<shift))
	case memorymap.Halfword:
		b.write16(offset, uint16(value), 0xffff)
	default:
		b.write16(offset, uint16(value), 0xffff)
		b.write16(offset+2, uint16(value>>16), 0xffff)
	}
}

// read16 routes the read of the 16bit register to the owning peripheral
func (b *Bus) read16(reg uint32) uint16 {
	switch {
	case reg == RegWAITCNT:
		return b.waitcnt
	case reg == RegPOSTFLG:
		return uint16(b.postflg)
	case reg >= timers.RegOrigin && reg <= timers.RegMemtop:
		v, _ := b.periph.Timers.ReadRegister(reg, b.now())
		return v
	case reg >= dma.RegOrigin && reg <= dma.RegMemtop:
		v, _ := b.periph.DMA.ReadRegister(reg)
		return v
	}

	if v, ok := b.periph.IRQ.ReadRegister(reg); ok {
		return v
	}
	if v, ok := b.periph.Keypad.ReadRegister(reg); ok {
		return v
	}
	if v, ok := b.periph.Display.ReadRegister(reg); ok {
		return v
	}

	if b.external != nil {
		if v, ok := b.external.ReadIO(reg); ok {
			return v
		}
	}

	return binary.LittleEndian.Uint16(b.io[reg:])
}

// write16 routes the write of the 16bit register to the owning peripheral.
// only the bits in the mask are written
func (b *Bus) write16(reg uint32, value uint16, mask uint16) {
	switch {
	case reg == RegWAITCNT:
		b.waitcnt = ((b.waitcnt &^ mask) | (value & mask)) & waitcntMask
		b.ws = NewWaitStates(b.waitcnt)
		return
	case reg == RegPOSTFLG:
		if mask&0x00ff != 0 {
			b.postflg = uint8(value) & 0x01
		}
		if mask&0xff00 != 0 {
			if uint8(value>>8)&haltcntStop == haltcntStop {
				b.halt = Stop
			} else {
				b.halt = Halt
			}
		}
		return
	case reg >= timers.RegOrigin && reg <= timers.RegMemtop:
		b.periph.Timers.WriteRegister(reg, value, mask, b.now(), b.periph.Sched, b.periph.IRQ)
		return
	case reg >= dma.RegOrigin && reg <= dma.RegMemtop:
		b.periph.DMA.WriteRegister(reg, value, mask)
		return
	}

	if b.periph.IRQ.WriteRegister(reg, value, mask) {
		return
	}
	if b.periph.Keypad.WriteRegister(reg, value, mask, b.periph.IRQ) {
		return
	}
	if b.periph.Display.WriteRegister(reg, value, mask) {
		return
	}

	raw := binary.LittleEndian.Uint16(b.io[reg:])
	raw = (raw &^ mask) | (value & mask)
	binary.LittleEndian.PutUint16(b.io[reg:], raw)

	if b.external != nil {
		b.external.WriteIO(reg, value&mask, mask)
	}
}
