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
	"fmt"
)

// Exception is one of the processor exceptions.
type Exception int

// List of valid Exception values.
const (
	Reset Exception = iota
	Undefined
	SoftwareInterrupt
	PrefetchAbort
	DataAbort
	IRQ
	FIQ
)

func (ex Exception) String() string {
	switch ex {
	case Reset:
		return "reset"
	case Undefined:
		return "undefined"
	case SoftwareInterrupt:
		return "swi"
	case PrefetchAbort:
		return "prefetch abort"
	case DataAbort:
		return "data abort"
	case IRQ:
		return "irq"
	case FIQ:
		return "fiq"
	}
	return fmt.Sprintf("exception(%d)", int(ex))
}

// exception vectors
const (
	vectorReset         = 0x00
	vectorUndefined     = 0x04
	vectorSWI           = 0x08
	vectorPrefetchAbort = 0x0c
	vectorDataAbort     = 0x10
	vectorIRQ           = 0x18
	vectorFIQ           = 0x1c
)

// the entry mode and vector for each exception
var exceptionEntry = [...]struct {
	mode   Mode
	vector uint32
}{
	Reset:             {ModeSupervisor, vectorReset},
	Undefined:         {ModeUndefined, vectorUndefined},
	SoftwareInterrupt: {ModeSupervisor, vectorSWI},
	PrefetchAbort:     {ModeAbort, vectorPrefetchAbort},
	DataAbort:         {ModeAbort, vectorDataAbort},
	IRQ:               {ModeIRQ, vectorIRQ},
	FIQ:               {ModeFIQ, vectorFIQ},
}

// raise enters the exception. the status register is saved to the SPSR of
// the new mode and the link register of the new mode is set to the return
// address
func (arm *ARM) raise(ex Exception, ret uint32) {
	entry := exceptionEntry[ex]

	cpsr := arm.status.pack()
	arm.switchMode(entry.mode)
	arm.setSPSR(cpsr)
	arm.registers[rLR] = ret

	arm.status.thumb = false
	arm.status.irqDisabled = true
	if ex == Reset || ex == FIQ {
		arm.status.fiqDisabled = true
	}

	arm.flush(entry.vector)
}

// Interrupt enters the IRQ exception if the I flag is clear. It should be
// called between instructions. Returns the number of cycles taken, which is
// zero if the interrupt was not taken.
func (arm *ARM) Interrupt() int {
	if arm.status.irqDisabled {
		return 0
	}

	arm.cycles = 0

	// the opcode fetched during the first cycle of exception entry is
	// discarded
	_ = arm.fetch(arm.registers[rPC], arm.fetchKind)

	// the return address is the address of the next instruction plus four,
	// so that SUBS PC, LR, #4 returns to it
	next := arm.registers[rPC] - arm.width()*2
	arm.raise(IRQ, next+4)

	arm.flushed = false
	return arm.cycles
}

// undefined returns the implementation for opcodes that have no meaning. the
// undefined instruction exception is raised
func (arm *ARM) undefined(opcode uint32) decodeFunction {
	return func() {
		if arm.prefs != nil && arm.prefs.LogUndefined.Get().(bool) {
			if arm.status.thumb {
				logf("undefined thumb instruction %04x at %08x", opcode, arm.executingAddr)
			} else {
				logf("undefined instruction %08x at %08x", opcode, arm.executingAddr)
			}
		}
		arm.raise(Undefined, arm.registers[rPC]-arm.width())
	}
}

// the software interrupt. the comment field is ignored, the handler reads
// it from the opcode if it needs it
func (arm *ARM) softwareInterrupt() {
	arm.raise(SoftwareInterrupt, arm.registers[rPC]-arm.width())
}
