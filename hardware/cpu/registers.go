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

// register names.
const (
	rSP = 13 + iota
	rLR
	rPC
	NumRegisters
)

// the banks of R13, R14 and the SPSR. user and system modes share a bank and
// have no SPSR
type bank int

const (
	bankUser bank = iota
	bankFIQ
	bankIRQ
	bankSupervisor
	bankAbort
	bankUndefined
	numBanks
)

func bankForMode(m Mode) bank {
	switch m {
	case ModeUser, ModeSystem:
		return bankUser
	case ModeFIQ:
		return bankFIQ
	case ModeIRQ:
		return bankIRQ
	case ModeSupervisor:
		return bankSupervisor
	case ModeAbort:
		return bankAbort
	case ModeUndefined:
		return bankUndefined
	}
	panic(fmt.Sprintf("ARM7: no register bank for %s", m))
}

// the inactive banked copies of the registers
type banks struct {
	// R8 to R12 are banked for FIQ mode only. the user copy is the copy used
	// by every other mode
	r8User [5]uint32
	r8FIQ  [5]uint32

	r13  [numBanks]uint32
	r14  [numBanks]uint32
	spsr [numBanks]uint32
}

// switchMode saves the active registers to the bank of the current mode and
// loads the registers of the new mode. the mode in the status register is
// updated
func (arm *ARM) switchMode(mode Mode) {
	from := arm.status.mode
	if from == mode {
		return
	}

	if !mode.Valid() {
		panic(fmt.Sprintf("ARM7: switch to invalid mode (%02x)", uint32(mode)))
	}

	fb := bankForMode(from)
	tb := bankForMode(mode)

	r := &arm.banked
	r.r13[fb] = arm.registers[rSP]
	r.r14[fb] = arm.registers[rLR]
	arm.registers[rSP] = r.r13[tb]
	arm.registers[rLR] = r.r14[tb]

	if fb != tb && (fb == bankFIQ || tb == bankFIQ) {
		if fb == bankFIQ {
			copy(r.r8FIQ[:], arm.registers[8:13])
			copy(arm.registers[8:13], r.r8User[:])
		} else {
			copy(r.r8User[:], arm.registers[8:13])
			copy(arm.registers[8:13], r.r8FIQ[:])
		}
	}

	arm.status.mode = mode
}

// userRegister returns the user mode copy of the register regardless of the
// current mode. used by the block transfer instructions with the S bit set
func (arm *ARM) userRegister(reg int) uint32 {
	r := &arm.banked
	b := bankForMode(arm.status.mode)
	switch {
	case reg >= 8 && reg <= 12 && b == bankFIQ:
		return r.r8User[reg-8]
	case reg == rSP && b != bankUser:
		return r.r13[bankUser]
	case reg == rLR && b != bankUser:
		return r.r14[bankUser]
	}
	return arm.registers[reg]
}

func (arm *ARM) setUserRegister(reg int, value uint32) {
	r := &arm.banked
	b := bankForMode(arm.status.mode)
	switch {
	case reg >= 8 && reg <= 12 && b == bankFIQ:
		r.r8User[reg-8] = value
	case reg == rSP && b != bankUser:
		r.r13[bankUser] = value
	case reg == rLR && b != bankUser:
		r.r14[bankUser] = value
	default:
		arm.registers[reg] = value
	}
}

// spsr returns the SPSR of the current mode. returns false if the mode has
// no SPSR
func (arm *ARM) spsr() (uint32, bool) {
	b := bankForMode(arm.status.mode)
	if b == bankUser {
		return 0, false
	}
	return arm.banked.spsr[b], true
}

func (arm *ARM) setSPSR(v uint32) {
	b := bankForMode(arm.status.mode)
	if b == bankUser {
		return
	}
	arm.banked.spsr[b] = v
}

// setCPSR writes the status register, switching the register bank if the
// mode has changed. a value with invalid mode bits keeps the current mode
func (arm *ARM) setCPSR(v uint32) {
	mode := Mode(v & modeMask)
	if !mode.Valid() {
		logf("status register write with invalid mode (%02x)", uint32(mode))
		mode = arm.status.mode
	}
	arm.switchMode(mode)
	arm.status.unpack(v)
	arm.status.mode = mode
}

// restoreCPSR copies the SPSR of the current mode to the CPSR. there is no
// effect in user and system mode
func (arm *ARM) restoreCPSR() {
	if v, ok := arm.spsr(); ok {
		arm.setCPSR(v)
	}
}
