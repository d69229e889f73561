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

package cpu

import (
	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
	"github.com/jetsetilly/gopheradvance/hardware/savestate"
)

// Save the processor state. The pipeline is saved so that execution resumes
// without refetching.
func (arm *ARM) Save(e *savestate.Encoder) {
	e.Section("cpu")
	for _, r := range arm.registers {
		e.U32(r)
	}
	e.U32(arm.status.pack())
	for _, r := range arm.banked.r8User {
		e.U32(r)
	}
	for _, r := range arm.banked.r8FIQ {
		e.U32(r)
	}
	for b := range numBanks {
		e.U32(arm.banked.r13[b])
		e.U32(arm.banked.r14[b])
		e.U32(arm.banked.spsr[b])
	}
	e.U32(arm.pipeline[0])
	e.U32(arm.pipeline[1])
	e.U8(uint8(arm.fetchKind))
	e.U32(arm.executingAddr)
}

// Load processor state. The decode caches are not affected because decoding
// depends only on the opcode.
func (arm *ARM) Load(d *savestate.Decoder) error {
	d.Section("cpu")
	for i := range arm.registers {
		arm.registers[i] = d.U32()
	}
	cpsr := d.U32()
	for i := range arm.banked.r8User {
		arm.banked.r8User[i] = d.U32()
	}
	for i := range arm.banked.r8FIQ {
		arm.banked.r8FIQ[i] = d.U32()
	}
	for b := range numBanks {
		arm.banked.r13[b] = d.U32()
		arm.banked.r14[b] = d.U32()
		arm.banked.spsr[b] = d.U32()
	}
	arm.pipeline[0] = d.U32()
	arm.pipeline[1] = d.U32()
	arm.fetchKind = memorymap.Access(d.U8())
	arm.executingAddr = d.U32()

	if err := d.Err(); err != nil {
		return err
	}

	if !Mode(cpsr & modeMask).Valid() {
		return curated.Errorf(savestate.BadValue, "invalid processor mode")
	}
	if arm.fetchKind != memorymap.NonSequential && arm.fetchKind != memorymap.Sequential {
		return curated.Errorf(savestate.BadValue, "invalid fetch kind")
	}

	// the active registers were saved as they were. unpacking the status
	// register directly avoids a bank switch
	arm.status.unpack(cpsr)

	arm.cycles = 0
	arm.flushed = false

	return nil
}
