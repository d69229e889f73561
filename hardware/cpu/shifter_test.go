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
	"testing"

	"github.com/jetsetilly/gopheradvance/test"
)

func TestShiftImmediate(t *testing.T) {
	type result struct {
		v     uint32
		carry bool
	}
	shift := func(typ uint32, v uint32, amount uint32, carry bool) result {
		r, c := shiftImmediate(typ, v, amount, carry)
		return result{r, c}
	}

	// LSL #0 leaves the carry alone
	test.ExpectEquality(t, shift(shiftLSL, 0x80000001, 0, true), result{0x80000001, true})
	test.ExpectEquality(t, shift(shiftLSL, 0x80000001, 1, false), result{0x00000002, true})

	// LSR #0 and ASR #0 are shifts of 32
	test.ExpectEquality(t, shift(shiftLSR, 0x80000000, 0, false), result{0, true})
	test.ExpectEquality(t, shift(shiftASR, 0x80000000, 0, false), result{0xffffffff, true})
	test.ExpectEquality(t, shift(shiftASR, 0x40000000, 0, true), result{0, false})

	// ROR #0 is RRX
	test.ExpectEquality(t, shift(shiftROR, 0x00000003, 0, true), result{0x80000001, true})
	test.ExpectEquality(t, shift(shiftROR, 0x00000002, 0, false), result{0x00000001, false})
	test.ExpectEquality(t, shift(shiftROR, 0x000000f1, 4, false), result{0x1000000f, false})
}

func TestShiftRegister(t *testing.T) {
	type result struct {
		v     uint32
		carry bool
	}
	shift := func(typ uint32, v uint32, amount uint32, carry bool) result {
		r, c := shiftRegister(typ, v, amount, carry)
		return result{r, c}
	}

	// an amount of zero changes nothing for every type
	for typ := range uint32(4) {
		test.ExpectEquality(t, shift(typ, 0x12345678, 0, true), result{0x12345678, true}, typ)
	}

	test.ExpectEquality(t, shift(shiftLSL, 0x00000001, 32, false), result{0, true})
	test.ExpectEquality(t, shift(shiftLSL, 0xffffffff, 33, true), result{0, false})
	test.ExpectEquality(t, shift(shiftLSR, 0x80000000, 32, false), result{0, true})
	test.ExpectEquality(t, shift(shiftLSR, 0x80000000, 40, true), result{0, false})
	test.ExpectEquality(t, shift(shiftASR, 0x80000000, 200, false), result{0xffffffff, true})

	// rotates of multiples of 32 leave the value alone but set the carry
	// from bit 31
	test.ExpectEquality(t, shift(shiftROR, 0x80000000, 32, false), result{0x80000000, true})
	test.ExpectEquality(t, shift(shiftROR, 0x00000001, 33, false), result{0x80000000, true})
}

func TestMultiplyCycles(t *testing.T) {
	test.ExpectEquality(t, multiplyCycles(0x000000ff, false), 1)
	test.ExpectEquality(t, multiplyCycles(0x0000ffff, false), 2)
	test.ExpectEquality(t, multiplyCycles(0x00ffffff, false), 3)
	test.ExpectEquality(t, multiplyCycles(0xffffffff, false), 4)
	test.ExpectEquality(t, multiplyCycles(0xffffffff, true), 1)
	test.ExpectEquality(t, multiplyCycles(0xffff8000, true), 2)
}

func TestBanking(t *testing.T) {
	arm := NewARM(nil, nil)
	arm.status.mode = ModeSystem
	for i := range NumRegisters - 1 {
		arm.registers[i] = uint32(i)
	}

	arm.switchMode(ModeFIQ)
	for i := 8; i < rPC; i++ {
		arm.registers[i] = 0xf0 + uint32(i)
	}
	test.ExpectEquality(t, arm.userRegister(8), uint32(8))
	test.ExpectEquality(t, arm.userRegister(rSP), uint32(rSP))

	arm.switchMode(ModeIRQ)
	test.ExpectEquality(t, arm.registers[8], uint32(8))
	test.ExpectEquality(t, arm.registers[rSP], uint32(0))
	arm.registers[rSP] = 0x1234

	arm.switchMode(ModeUser)
	test.ExpectEquality(t, arm.registers[rSP], uint32(rSP))
	test.ExpectEquality(t, arm.registers[rLR], uint32(rLR))

	arm.switchMode(ModeFIQ)
	test.ExpectEquality(t, arm.registers[12], uint32(0xfc))

	arm.switchMode(ModeIRQ)
	test.ExpectEquality(t, arm.registers[rSP], uint32(0x1234))

	// there is no SPSR in system mode
	arm.switchMode(ModeSystem)
	_, ok := arm.spsr()
	test.ExpectFailure(t, ok)
}
