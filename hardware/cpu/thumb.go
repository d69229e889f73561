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
	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
)

// decodeThumb returns the implementation of the 16bit thumb opcode. returns
// nil if the opcode is undefined
//
// the format numbers in the function names are the numbering of the thumb
// instruction formats used in the ARM7TDMI data sheet
func (arm *ARM) decodeThumb(opcode uint16) decodeFunction {
	switch {
	case opcode&0xf800 == 0x1800:
		return arm.decodeThumbAddSubtract(opcode)
	case opcode&0xe000 == 0x0000:
		return arm.decodeThumbMoveShiftedRegister(opcode)
	case opcode&0xe000 == 0x2000:
		return arm.decodeThumbMovCmpAddSubImm(opcode)
	case opcode&0xfc00 == 0x4000:
		return arm.decodeThumbALUoperations(opcode)
	case opcode&0xfc00 == 0x4400:
		return arm.decodeThumbHiRegisterOps(opcode)
	case opcode&0xf800 == 0x4800:
		return arm.decodeThumbPCrelativeLoad(opcode)
	case opcode&0xf200 == 0x5000:
		return arm.decodeThumbLoadStoreWithRegisterOffset(opcode)
	case opcode&0xf200 == 0x5200:
		return arm.decodeThumbLoadStoreSignExtendedByteHalford(opcode)
	case opcode&0xe000 == 0x6000:
		return arm.decodeThumbLoadStoreWithImmOffset(opcode)
	case opcode&0xf000 == 0x8000:
		return arm.decodeThumbLoadStoreHalfword(opcode)
	case opcode&0xf000 == 0x9000:
		return arm.decodeThumbSPRelativeLoadStore(opcode)
	case opcode&0xf000 == 0xa000:
		return arm.decodeThumbLoadAddress(opcode)
	case opcode&0xff00 == 0xb000:
		return arm.decodeThumbAddOffsetToSP(opcode)
	case opcode&0xf600 == 0xb400:
		return arm.decodeThumbPushPopRegisters(opcode)
	case opcode&0xf000 == 0xc000:
		return arm.decodeThumbMultipleLoadStore(opcode)
	case opcode&0xff00 == 0xdf00:
		return arm.softwareInterrupt
	case opcode&0xf000 == 0xd000:
		return arm.decodeThumbConditionalBranch(opcode)
	case opcode&0xf800 == 0xe000:
		return arm.decodeThumbUnconditionalBranch(opcode)
	case opcode&0xf000 == 0xf000:
		return arm.decodeThumbLongBranchWithLink(opcode)
	}

	return nil
}

// format 1
func (arm *ARM) decodeThumbMoveShiftedRegister(opcode uint16) decodeFunction {
	typ := uint32(opcode>>11) & 0x03
	amount := uint32(opcode>>6) & 0x1f
	rs := (opcode >> 3) & 0x07
	rd := opcode & 0x07

	return func() {
		var result uint32
		result, arm.status.carry = shiftImmediate(typ, arm.registers[rs], amount, arm.status.carry)
		arm.status.isZero(result)
		arm.status.isNegative(result)
		arm.registers[rd] = result
	}
}

// format 2
func (arm *ARM) decodeThumbAddSubtract(opcode uint16) decodeFunction {
	immediate := opcode&0x0400 == 0x0400
	subtract := opcode&0x0200 == 0x0200
	rn := uint32(opcode>>6) & 0x07
	rs := (opcode >> 3) & 0x07
	rd := opcode & 0x07

	return func() {
		v := rn
		if !immediate {
			v = arm.registers[rn]
		}

		var result uint32
		if subtract {
			result = arm.add(arm.registers[rs], ^v, 1, true)
		} else {
			result = arm.add(arm.registers[rs], v, 0, true)
		}
		arm.status.isZero(result)
		arm.status.isNegative(result)
		arm.registers[rd] = result
	}
}

// format 3
func (arm *ARM) decodeThumbMovCmpAddSubImm(opcode uint16) decodeFunction {
	op := (opcode >> 11) & 0x03
	rd := (opcode >> 8) & 0x07
	imm := uint32(opcode & 0xff)

	return func() {
		var result uint32
		switch op {
		case 0b00:
			// MOV
			result = imm
		case 0b01:
			// CMP
			result = arm.add(arm.registers[rd], ^imm, 1, true)
		case 0b10:
			// ADD
			result = arm.add(arm.registers[rd], imm, 0, true)
		case 0b11:
			// SUB
			result = arm.add(arm.registers[rd], ^imm, 1, true)
		}

		arm.status.isZero(result)
		arm.status.isNegative(result)
		if op != 0b01 {
			arm.registers[rd] = result
		}
	}
}

// format 4
func (arm *ARM) decodeThumbALUoperations(opcode uint16) decodeFunction {
	op := (opcode >> 6) & 0x0f
	rs := (opcode >> 3) & 0x07
	rd := opcode & 0x07

	return func() {
		a := arm.registers[rd]
		b := arm.registers[rs]

		var result uint32
		write := true

		switch op {
		case 0b0000:
			// AND
			result = a & b
		case 0b0001:
			// EOR
			result = a ^ b
		case 0b0010:
			// LSL
			arm.icycle()
			result, arm.status.carry = shiftRegister(shiftLSL, a, b&0xff, arm.status.carry)
		case 0b0011:
			// LSR
			arm.icycle()
			result, arm.status.carry = shiftRegister(shiftLSR, a, b&0xff, arm.status.carry)
		case 0b0100:
			// ASR
			arm.icycle()
			result, arm.status.carry = shiftRegister(shiftASR, a, b&0xff, arm.status.carry)
		case 0b0101:
			// ADC
			result = arm.add(a, b, arm.status.carryBit(), true)
		case 0b0110:
			// SBC
			result = arm.add(a, ^b, arm.status.carryBit(), true)
		case 0b0111:
			// ROR
			arm.icycle()
			result, arm.status.carry = shiftRegister(shiftROR, a, b&0xff, arm.status.carry)
		case 0b1000:
			// TST
			result = a & b
			write = false
		case 0b1001:
			// NEG
			result = arm.add(0, ^b, 1, true)
		case 0b1010:
			// CMP
			result = arm.add(a, ^b, 1, true)
			write = false
		case 0b1011:
			// CMN
			result = arm.add(a, b, 0, true)
			write = false
		case 0b1100:
			// ORR
			result = a | b
		case 0b1101:
			// MUL
			arm.icycles(multiplyCycles(a, true))
			result = a * b
		case 0b1110:
			// BIC
			result = a &^ b
		case 0b1111:
			// MVN
			result = ^b
		}

		arm.status.isZero(result)
		arm.status.isNegative(result)
		if write {
			arm.registers[rd] = result
		}
	}
}

// format 5
func (arm *ARM) decodeThumbHiRegisterOps(opcode uint16) decodeFunction {
	op := (opcode >> 8) & 0x03
	rs := (opcode >> 3) & 0x0f
	rd := (opcode & 0x07) | ((opcode >> 4) & 0x08)

	return func() {
		v := arm.registers[rs]

		switch op {
		case 0b00:
			// ADD
			result := arm.registers[rd] + v
			if rd == rPC {
				arm.flush(result)
			} else {
				arm.registers[rd] = result
			}
		case 0b01:
			// CMP
			result := arm.add(arm.registers[rd], ^v, 1, true)
			arm.status.isZero(result)
			arm.status.isNegative(result)
		case 0b10:
			// MOV
			if rd == rPC {
				arm.flush(v)
			} else {
				arm.registers[rd] = v
			}
		case 0b11:
			// BX
			arm.exchange(v)
		}
	}
}

// format 6
func (arm *ARM) decodeThumbPCrelativeLoad(opcode uint16) decodeFunction {
	rd := (opcode >> 8) & 0x07
	imm := uint32(opcode&0xff) << 2

	return func() {
		// bit 1 of the program counter is ignored
		addr := (arm.registers[rPC] &^ 0x02) + imm
		arm.registers[rd] = arm.read(addr, memorymap.Word, memorymap.NonSequential)
		arm.icycle()
	}
}

// format 7
func (arm *ARM) decodeThumbLoadStoreWithRegisterOffset(opcode uint16) decodeFunction {
	load := opcode&0x0800 == 0x0800
	byteTransfer := opcode&0x0400 == 0x0400
	ro := (opcode >> 6) & 0x07
	rb := (opcode >> 3) & 0x07
	rd := opcode & 0x07

	return func() {
		addr := arm.registers[rb] + arm.registers[ro]
		arm.loadStore(addr, rd, load, byteTransfer)
	}
}

// loadStore is the word and byte transfer shared by thumb formats 7, 9 and 11
func (arm *ARM) loadStore(addr uint32, rd uint16, load bool, byteTransfer bool) {
	if load {
		if byteTransfer {
			arm.registers[rd] = arm.read(addr, memorymap.Byte, memorymap.NonSequential)
		} else {
			arm.registers[rd] = rotateLoad(arm.read(addr, memorymap.Word, memorymap.NonSequential), addr)
		}
		arm.icycle()
		return
	}

	if byteTransfer {
		arm.write(addr, memorymap.Byte, arm.registers[rd]&0xff, memorymap.NonSequential)
	} else {
		arm.write(addr, memorymap.Word, arm.registers[rd], memorymap.NonSequential)
	}
}

// format 8
func (arm *ARM) decodeThumbLoadStoreSignExtendedByteHalford(opcode uint16) decodeFunction {
	hi := opcode&0x0800 == 0x0800
	sign := opcode&0x0400 == 0x0400
	ro := (opcode >> 6) & 0x07
	rb := (opcode >> 3) & 0x07
	rd := opcode & 0x07

	// the sh field of the equivalent ARM instruction
	var sh uint32
	switch {
	case hi && sign:
		sh = 0b11
	case sign:
		sh = 0b10
	case hi:
		sh = 0b01
	}

	return func() {
		addr := arm.registers[rb] + arm.registers[ro]

		// STRH
		if sh == 0 {
			arm.write(addr, memorymap.Halfword, arm.registers[rd]&0xffff, memorymap.NonSequential)
			return
		}

		arm.registers[rd] = arm.loadHalfword(addr, sh)
		arm.icycle()
	}
}

// format 9
func (arm *ARM) decodeThumbLoadStoreWithImmOffset(opcode uint16) decodeFunction {
	byteTransfer := opcode&0x1000 == 0x1000
	load := opcode&0x0800 == 0x0800
	offset := uint32(opcode>>6) & 0x1f
	rb := (opcode >> 3) & 0x07
	rd := opcode & 0x07

	if !byteTransfer {
		offset <<= 2
	}

	return func() {
		arm.loadStore(arm.registers[rb]+offset, rd, load, byteTransfer)
	}
}

// format 10
func (arm *ARM) decodeThumbLoadStoreHalfword(opcode uint16) decodeFunction {
	load := opcode&0x0800 == 0x0800
	offset := (uint32(opcode>>6) & 0x1f) << 1
	rb := (opcode >> 3) & 0x07
	rd := opcode & 0x07

	return func() {
		addr := arm.registers[rb] + offset
		if load {
			arm.registers[rd] = arm.loadHalfword(addr, 0b01)
			arm.icycle()
			return
		}
		arm.write(addr, memorymap.Halfword, arm.registers[rd]&0xffff, memorymap.NonSequential)
	}
}

// format 11
func (arm *ARM) decodeThumbSPRelativeLoadStore(opcode uint16) decodeFunction {
	load := opcode&0x0800 == 0x0800
	rd := (opcode >> 8) & 0x07
	offset := uint32(opcode&0xff) << 2

	return func() {
		arm.loadStore(arm.registers[rSP]+offset, rd, load, false)
	}
}

// format 12
func (arm *ARM) decodeThumbLoadAddress(opcode uint16) decodeFunction {
	sp := opcode&0x0800 == 0x0800
	rd := (opcode >> 8) & 0x07
	offset := uint32(opcode&0xff) << 2

	return func() {
		if sp {
			arm.registers[rd] = arm.registers[rSP] + offset
		} else {
			arm.registers[rd] = (arm.registers[rPC] &^ 0x02) + offset
		}
	}
}

// format 13
func (arm *ARM) decodeThumbAddOffsetToSP(opcode uint16) decodeFunction {
	negative := opcode&0x80 == 0x80
	offset := uint32(opcode&0x7f) << 2

	return func() {
		if negative {
			arm.registers[rSP] -= offset
		} else {
			arm.registers[rSP] += offset
		}
	}
}

// format 14
func (arm *ARM) decodeThumbPushPopRegisters(opcode uint16) decodeFunction {
	pop := opcode&0x0800 == 0x0800
	extra := opcode&0x0100 == 0x0100
	list := opcode & 0xff

	// PUSH includes the link register and POP includes the program counter
	if extra {
		if pop {
			list |= 1 << rPC
		} else {
			list |= 1 << rLR
		}
	}

	return func() {
		if pop {
			arm.blockTransfer(rSP, list, false, true, false, true, true)
		} else {
			arm.blockTransfer(rSP, list, true, false, false, true, false)
		}
	}
}

// format 15
func (arm *ARM) decodeThumbMultipleLoadStore(opcode uint16) decodeFunction {
	load := opcode&0x0800 == 0x0800
	rb := int(opcode>>8) & 0x07
	list := opcode & 0xff

	return func() {
		arm.blockTransfer(rb, list, false, true, false, true, load)
	}
}

// format 16
func (arm *ARM) decodeThumbConditionalBranch(opcode uint16) decodeFunction {
	cond := uint32(opcode>>8) & 0x0f

	// the always condition is undefined in this format
	if cond == 0b1110 {
		return nil
	}

	offset := uint32(int32(int8(opcode&0xff)) << 1)

	return func() {
		if arm.status.condition(cond) {
			arm.flush(arm.registers[rPC] + offset)
		}
	}
}

// format 18
func (arm *ARM) decodeThumbUnconditionalBranch(opcode uint16) decodeFunction {
	// sign extend the 11bit offset and multiply by two
	offset := uint32(int32(uint32(opcode)<<21) >> 20)

	return func() {
		arm.flush(arm.registers[rPC] + offset)
	}
}

// format 19
//
// the long branch is a pair of instructions. the first puts the upper part of
// the target in the link register and the second adds the lower part and
// branches. the two halves can be executed separately
func (arm *ARM) decodeThumbLongBranchWithLink(opcode uint16) decodeFunction {
	low := opcode&0x0800 == 0x0800
	offset := uint32(opcode & 0x07ff)

	if !low {
		hi := uint32(int32(offset<<21) >> 9)
		return func() {
			arm.registers[rLR] = arm.registers[rPC] + hi
		}
	}

	return func() {
		target := arm.registers[rLR] + (offset << 1)
		arm.registers[rLR] = (arm.registers[rPC] - 2) | 0x01
		arm.flush(target)
	}
}
