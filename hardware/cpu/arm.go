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
	"math/bits"

	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
)

// decodeARM returns the implementation of the 32bit ARM opcode. returns nil
// if the opcode is undefined. the condition field is checked before the
// implementation is called
//
// the order of the tests matters because the multiply, swap and halfword
// transfer instructions occupy otherwise unused encodings of the data
// processing instructions
func (arm *ARM) decodeARM(opcode uint32) decodeFunction {
	switch {
	case opcode&0x0ffffff0 == 0x012fff10:
		return arm.decodeARMBranchExchange(opcode)
	case opcode&0x0fc000f0 == 0x00000090:
		return arm.decodeARMMultiply(opcode)
	case opcode&0x0f8000f0 == 0x00800090:
		return arm.decodeARMMultiplyLong(opcode)
	case opcode&0x0fb00ff0 == 0x01000090:
		return arm.decodeARMSwap(opcode)
	case opcode&0x0e000090 == 0x00000090:
		return arm.decodeARMHalfwordTransfer(opcode)
	case opcode&0x0fbf0fff == 0x010f0000:
		return arm.decodeARMStatusToRegister(opcode)
	case opcode&0x0db0f000 == 0x0120f000:
		return arm.decodeARMRegisterToStatus(opcode)
	case opcode&0x0c000000 == 0x00000000:
		// the test and compare instructions without the S bit are not
		// data processing instructions
		if opcode&0x01900000 == 0x01000000 {
			return nil
		}
		return arm.decodeARMDataProcessing(opcode)
	case opcode&0x0e000010 == 0x06000010:
		return nil
	case opcode&0x0c000000 == 0x04000000:
		return arm.decodeARMSingleTransfer(opcode)
	case opcode&0x0e000000 == 0x08000000:
		return arm.decodeARMBlockTransfer(opcode)
	case opcode&0x0e000000 == 0x0a000000:
		return arm.decodeARMBranch(opcode)
	case opcode&0x0f000000 == 0x0f000000:
		return arm.softwareInterrupt
	}

	// coprocessor instructions. there is no coprocessor
	return nil
}

// the sum a+b+c with the carry and overflow flags optionally set. the zero
// and negative flags are set by the caller
func (arm *ARM) add(a, b, c uint32, setFlags bool) uint32 {
	if setFlags {
		arm.status.isCarry(a, b, c)
		arm.status.isOverflow(a, b, c)
	}
	return a + b + c
}

func (arm *ARM) decodeARMDataProcessing(opcode uint32) decodeFunction {
	immediate := opcode&0x02000000 == 0x02000000
	op := (opcode >> 21) & 0x0f
	setFlags := opcode&0x00100000 == 0x00100000
	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f

	// logical operations set the carry flag from the shifter
	logical := op <= 0b0001 || op == 0b1000 || op == 0b1001 || op >= 0b1100

	// test operations do not write the result
	test := op >= 0b1000 && op <= 0b1011

	// the immediate operand does not change between executions
	rotate := ((opcode >> 8) & 0x0f) * 2
	imm := bits.RotateLeft32(opcode&0xff, -int(rotate))

	regShift := !immediate && opcode&0x10 == 0x10
	rm := opcode & 0x0f
	rs := (opcode >> 8) & 0x0f
	typ := (opcode >> 5) & 0x03
	amount := (opcode >> 7) & 0x1f

	return func() {
		a := arm.registers[rn]
		carry := arm.status.carry

		var op2 uint32
		switch {
		case immediate:
			op2 = imm
			if rotate != 0 {
				carry = imm&0x80000000 == 0x80000000
			}
		case regShift:
			// the shift amount is read during an extra cycle, by which
			// time R15 has advanced another instruction
			arm.icycle()
			v := arm.registers[rm]
			if rm == rPC {
				v += 4
			}
			if rn == rPC {
				a += 4
			}
			op2, carry = shiftRegister(typ, v, arm.registers[rs]&0xff, carry)
		default:
			op2, carry = shiftImmediate(typ, arm.registers[rm], amount, carry)
		}

		var result uint32

		switch op {
		case 0b0000:
			// AND
			result = a & op2
		case 0b0001:
			// EOR
			result = a ^ op2
		case 0b0010:
			// SUB
			result = arm.add(a, ^op2, 1, setFlags)
		case 0b0011:
			// RSB
			result = arm.add(op2, ^a, 1, setFlags)
		case 0b0100:
			// ADD
			result = arm.add(a, op2, 0, setFlags)
		case 0b0101:
			// ADC
			result = arm.add(a, op2, arm.status.carryBit(), setFlags)
		case 0b0110:
			// SBC
			result = arm.add(a, ^op2, arm.status.carryBit(), setFlags)
		case 0b0111:
			// RSC
			result = arm.add(op2, ^a, arm.status.carryBit(), setFlags)
		case 0b1000:
			// TST
			result = a & op2
		case 0b1001:
			// TEQ
			result = a ^ op2
		case 0b1010:
			// CMP
			result = arm.add(a, ^op2, 1, true)
		case 0b1011:
			// CMN
			result = arm.add(a, op2, 0, true)
		case 0b1100:
			// ORR
			result = a | op2
		case 0b1101:
			// MOV
			result = op2
		case 0b1110:
			// BIC
			result = a &^ op2
		case 0b1111:
			// MVN
			result = ^op2
		}

		if setFlags {
			arm.status.isZero(result)
			arm.status.isNegative(result)
			if logical {
				arm.status.carry = carry
			}
		}

		if test {
			return
		}

		if rd == rPC {
			// with the S bit the status register is restored from the SPSR.
			// this is how an exception handler returns
			if setFlags {
				arm.restoreCPSR()
			}
			arm.flush(result)
			return
		}

		arm.registers[rd] = result
	}
}

// MRS
func (arm *ARM) decodeARMStatusToRegister(opcode uint32) decodeFunction {
	useSPSR := opcode&0x00400000 == 0x00400000
	rd := (opcode >> 12) & 0x0f

	return func() {
		v := arm.status.pack()
		if useSPSR {
			if s, ok := arm.spsr(); ok {
				v = s
			}
		}
		arm.registers[rd] = v
	}
}

// MSR
func (arm *ARM) decodeARMRegisterToStatus(opcode uint32) decodeFunction {
	useSPSR := opcode&0x00400000 == 0x00400000
	immediate := opcode&0x02000000 == 0x02000000
	rm := opcode & 0x0f
	imm := bits.RotateLeft32(opcode&0xff, -int(((opcode>>8)&0x0f)*2))

	// the field mask selects which bytes of the status register are written
	var mask uint32
	for i := range 4 {
		if opcode&(0x00010000<<i) != 0 {
			mask |= 0xff << (i * 8)
		}
	}

	return func() {
		v := imm
		if !immediate {
			v = arm.registers[rm]
		}

		if useSPSR {
			if s, ok := arm.spsr(); ok {
				arm.setSPSR((s &^ mask) | (v & mask))
			}
			return
		}

		m := mask
		if arm.status.mode == ModeUser {
			// only the flags can be changed in user mode
			m &= 0xff000000
		}

		// the thumb flag cannot be changed with MSR
		m &^= flagT

		arm.setCPSR((arm.status.pack() &^ m) | (v & m))
	}
}

// BX
func (arm *ARM) decodeARMBranchExchange(opcode uint32) decodeFunction {
	rm := opcode & 0x0f
	return func() {
		arm.exchange(arm.registers[rm])
	}
}

// B and BL
func (arm *ARM) decodeARMBranch(opcode uint32) decodeFunction {
	link := opcode&0x01000000 == 0x01000000

	// sign extend the 24bit offset and multiply by four
	offset := uint32(int32(opcode<<8) >> 6)

	return func() {
		if link {
			arm.registers[rLR] = arm.registers[rPC] - 4
		}
		arm.flush(arm.registers[rPC] + offset)
	}
}

// MUL and MLA
func (arm *ARM) decodeARMMultiply(opcode uint32) decodeFunction {
	accumulate := opcode&0x00200000 == 0x00200000
	setFlags := opcode&0x00100000 == 0x00100000
	rd := (opcode >> 16) & 0x0f
	rn := (opcode >> 12) & 0x0f
	rs := (opcode >> 8) & 0x0f
	rm := opcode & 0x0f

	return func() {
		m := multiplyCycles(arm.registers[rs], true)
		result := arm.registers[rm] * arm.registers[rs]
		if accumulate {
			result += arm.registers[rn]
			m++
		}
		arm.icycles(m)

		arm.registers[rd] = result

		// the carry flag is meaningless after a multiply and is left
		// unchanged
		if setFlags {
			arm.status.isZero(result)
			arm.status.isNegative(result)
		}
	}
}

// UMULL, UMLAL, SMULL and SMLAL
func (arm *ARM) decodeARMMultiplyLong(opcode uint32) decodeFunction {
	signed := opcode&0x00400000 == 0x00400000
	accumulate := opcode&0x00200000 == 0x00200000
	setFlags := opcode&0x00100000 == 0x00100000
	rdHi := (opcode >> 16) & 0x0f
	rdLo := (opcode >> 12) & 0x0f
	rs := (opcode >> 8) & 0x0f
	rm := opcode & 0x0f

	return func() {
		a := arm.registers[rm]
		b := arm.registers[rs]

		m := multiplyCycles(b, signed) + 1

		var result uint64
		if signed {
			result = uint64(int64(int32(a)) * int64(int32(b)))
		} else {
			result = uint64(a) * uint64(b)
		}

		if accumulate {
			result += uint64(arm.registers[rdHi])<<32 | uint64(arm.registers[rdLo])
			m++
		}
		arm.icycles(m)

		arm.registers[rdLo] = uint32(result)
		arm.registers[rdHi] = uint32(result >> 32)

		if setFlags {
			arm.status.zero = result == 0
			arm.status.negative = result&0x8000000000000000 == 0x8000000000000000
		}
	}
}

// SWP and SWPB
func (arm *ARM) decodeARMSwap(opcode uint32) decodeFunction {
	byteSwap := opcode&0x00400000 == 0x00400000
	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f
	rm := opcode & 0x0f

	return func() {
		addr := arm.registers[rn]
		src := arm.registers[rm]

		var v uint32
		if byteSwap {
			v = arm.read(addr, memorymap.Byte, memorymap.NonSequential)
			arm.write(addr, memorymap.Byte, src&0xff, memorymap.NonSequential)
		} else {
			v = rotateLoad(arm.read(addr, memorymap.Word, memorymap.NonSequential), addr)
			arm.write(addr, memorymap.Word, src, memorymap.NonSequential)
		}
		arm.icycle()

		arm.registers[rd] = v
	}
}

// a misaligned word load rotates the aligned word so that the addressed byte
// is in the bottom byte
func rotateLoad(v uint32, addr uint32) uint32 {
	return bits.RotateLeft32(v, -int((addr&0x03)*8))
}

// addressing shared by the single and halfword transfer instructions. returns
// the address of the transfer and the value of the base register after
// writeback
func transferAddress(base uint32, offset uint32, pre bool, up bool) (uint32, uint32) {
	updated := base - offset
	if up {
		updated = base + offset
	}
	if pre {
		return updated, updated
	}
	return base, updated
}

// LDR, STR, LDRB and STRB
func (arm *ARM) decodeARMSingleTransfer(opcode uint32) decodeFunction {
	regOffset := opcode&0x02000000 == 0x02000000
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	byteTransfer := opcode&0x00400000 == 0x00400000
	load := opcode&0x00100000 == 0x00100000
	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f

	// post-indexed transfers always write back. the W bit in a post-indexed
	// transfer selects the user mode translation, which has no effect
	writeback := !pre || opcode&0x00200000 == 0x00200000
	writeback = writeback && rn != rPC

	imm := opcode & 0x0fff
	rm := opcode & 0x0f
	typ := (opcode >> 5) & 0x03
	amount := (opcode >> 7) & 0x1f

	return func() {
		offset := imm
		if regOffset {
			offset, _ = shiftImmediate(typ, arm.registers[rm], amount, arm.status.carry)
		}
		addr, updated := transferAddress(arm.registers[rn], offset, pre, up)

		if load {
			var v uint32
			if byteTransfer {
				v = arm.read(addr, memorymap.Byte, memorymap.NonSequential)
			} else {
				v = rotateLoad(arm.read(addr, memorymap.Word, memorymap.NonSequential), addr)
			}
			arm.icycle()

			// if the base and destination are the same register the loaded
			// value wins
			if writeback {
				arm.registers[rn] = updated
			}
			if rd == rPC {
				arm.flush(v)
			} else {
				arm.registers[rd] = v
			}
			return
		}

		// a stored R15 is the address of the instruction plus 12
		v := arm.registers[rd]
		if rd == rPC {
			v += 4
		}
		if byteTransfer {
			arm.write(addr, memorymap.Byte, v&0xff, memorymap.NonSequential)
		} else {
			arm.write(addr, memorymap.Word, v, memorymap.NonSequential)
		}
		if writeback {
			arm.registers[rn] = updated
		}
	}
}

// LDRH, STRH, LDRSB and LDRSH
func (arm *ARM) decodeARMHalfwordTransfer(opcode uint32) decodeFunction {
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	immOffset := opcode&0x00400000 == 0x00400000
	load := opcode&0x00100000 == 0x00100000
	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f
	sh := (opcode >> 5) & 0x03

	writeback := !pre || opcode&0x00200000 == 0x00200000
	writeback = writeback && rn != rPC

	imm := ((opcode >> 4) & 0xf0) | (opcode & 0x0f)
	rm := opcode & 0x0f

	// an sh field of zero is the multiply and swap space. the signed stores
	// are doubleword transfers in later architectures
	if sh == 0b00 || (!load && sh != 0b01) {
		return nil
	}

	return func() {
		offset := imm
		if !immOffset {
			offset = arm.registers[rm]
		}
		addr, updated := transferAddress(arm.registers[rn], offset, pre, up)

		if !load {
			v := arm.registers[rd]
			if rd == rPC {
				v += 4
			}
			arm.write(addr, memorymap.Halfword, v&0xffff, memorymap.NonSequential)
			if writeback {
				arm.registers[rn] = updated
			}
			return
		}

		v := arm.loadHalfword(addr, sh)
		arm.icycle()

		if writeback {
			arm.registers[rn] = updated
		}
		if rd == rPC {
			arm.flush(v)
		} else {
			arm.registers[rd] = v
		}
	}
}

// loadHalfword is shared by the ARM and thumb halfword loads. the sh argument
// is 0b01 for unsigned halfwords, 0b10 for signed bytes and 0b11 for signed
// halfwords
func (arm *ARM) loadHalfword(addr uint32, sh uint32) uint32 {
	switch sh {
	case 0b10:
		return uint32(int32(int8(arm.read(addr, memorymap.Byte, memorymap.NonSequential))))
	case 0b11:
		// a misaligned signed halfword load is a signed byte load
		if addr&0x01 == 0x01 {
			return uint32(int32(int8(arm.read(addr, memorymap.Byte, memorymap.NonSequential))))
		}
		return uint32(int32(int16(arm.read(addr, memorymap.Halfword, memorymap.NonSequential))))
	}

	// a misaligned unsigned halfword load is rotated
	v := arm.read(addr, memorymap.Halfword, memorymap.NonSequential)
	if addr&0x01 == 0x01 {
		v = bits.RotateLeft32(v, -8)
	}
	return v
}

// LDM and STM
func (arm *ARM) decodeARMBlockTransfer(opcode uint32) decodeFunction {
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	psr := opcode&0x00400000 == 0x00400000
	writeback := opcode&0x00200000 == 0x00200000
	load := opcode&0x00100000 == 0x00100000
	rn := int((opcode >> 16) & 0x0f)
	list := uint16(opcode)

	writeback = writeback && rn != rPC

	return func() {
		arm.blockTransfer(rn, list, pre, up, psr, writeback, load)
	}
}

// blockTransfer is shared by the ARM block transfer instructions and the
// thumb push, pop and multiple load/store instructions
//
// registers are always transferred lowest first to the lowest address. an
// empty list transfers R15 and moves the base by 0x40
func (arm *ARM) blockTransfer(rn int, list uint16, pre bool, up bool, psr bool, writeback bool, load bool) {
	base := arm.registers[rn]

	n := uint32(bits.OnesCount16(list))
	if list == 0 {
		list = 1 << rPC
		n = 16
	}

	var addr, final uint32
	if up {
		final = base + n*4
		addr = base
		if pre {
			addr += 4
		}
	} else {
		final = base - n*4
		addr = final
		if !pre {
			addr += 4
		}
	}

	// with the S bit the user bank is transferred unless R15 is being loaded
	userBank := psr && (!load || list&(1<<rPC) == 0)

	kind := memorymap.NonSequential

	if load {
		// a loaded base register wins over the writeback
		if writeback {
			arm.registers[rn] = final
		}

		var pc uint32
		var loadPC bool
		for r := range NumRegisters {
			if list&(1<<r) == 0 {
				continue
			}
			v := arm.read(addr, memorymap.Word, kind)
			kind = memorymap.Sequential
			addr += 4

			switch {
			case r == rPC:
				pc = v
				loadPC = true
			case userBank:
				arm.setUserRegister(r, v)
			default:
				arm.registers[r] = v
			}
		}
		arm.icycle()

		if loadPC {
			if psr {
				arm.restoreCPSR()
			}
			arm.flush(pc)
		}
		return
	}

	first := true
	for r := range NumRegisters {
		if list&(1<<r) == 0 {
			continue
		}

		var v uint32
		if userBank {
			v = arm.userRegister(r)
		} else {
			v = arm.registers[r]
		}

		switch {
		case r == rPC:
			v += arm.width()
		case r == rn && writeback && !first:
			// the base has already been written back if it isn't the
			// first register to be stored
			v = final
		}

		arm.write(addr, memorymap.Word, v, kind)
		kind = memorymap.Sequential
		addr += 4
		first = false
	}

	if writeback {
		arm.registers[rn] = final
	}
}
