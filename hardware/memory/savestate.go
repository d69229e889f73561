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
	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/savestate"
)

// Save the work memories, the raw IO registers, the system control registers
// and the bus latches. The BIOS and cartridge images are not saved.
func (b *Bus) Save(e *savestate.Encoder) {
	e.Section("bus")
	e.Raw(b.ewram)
	e.Raw(b.iwram)
	e.Raw(b.io)
	e.Raw(b.palette)
	e.Raw(b.vram)
	e.Raw(b.oam)
	e.Raw(b.sram)
	e.U16(b.waitcnt)
	e.U8(b.postflg)
	e.U8(uint8(b.halt))
	e.U32(b.openBus)
	e.U32(b.biosLatch)
	e.Bool(b.executingBIOS)
}

// Load bus state.
func (b *Bus) Load(d *savestate.Decoder) error {
	d.Section("bus")
	d.Raw(b.ewram)
	d.Raw(b.iwram)
	d.Raw(b.io)
	d.Raw(b.palette)
	d.Raw(b.vram)
	d.Raw(b.oam)
	d.Raw(b.sram)
	b.waitcnt = d.U16() & waitcntMask
	b.ws = NewWaitStates(b.waitcnt)
	b.postflg = d.U8() & 0x01
	b.halt = HaltMode(d.U8())
	b.openBus = d.U32()
	b.biosLatch = d.U32()
	b.executingBIOS = d.Bool()
	if b.halt > Stop {
		d.Fail(curated.Errorf(savestate.BadValue, "halt mode out of range"))
	}
	b.inflight = 0
	return d.Err()
}
