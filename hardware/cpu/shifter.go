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

import "math/bits"

// the four shift types of the barrel shifter
const (
	shiftLSL = iota
	shiftLSR
	shiftASR
	shiftROR
)

// shiftImmediate applies a shift with an amount taken from the instruction.
// an amount of zero has a special meaning for all types except LSL
//
//	LSL #0 is no shift and the carry is unaffected
//	LSR #0 means LSR #32
//	ASR #0 means ASR #32
//	ROR #0 means RRX, a one bit rotate through the carry flag
func shiftImmediate(typ uint32, v uint32, amount uint32, carry bool) (uint32, bool) {
	switch typ {
	case shiftLSL:
		if amount == 0 {
			return v, carry
		}
		return v << amount, (v>>(32-amount))&0x01 == 0x01
	case shiftLSR:
		if amount == 0 {
			return 0, v&0x80000000 == 0x80000000
		}
		return v >> amount, (v>>(amount-1))&0x01 == 0x01
	case shiftASR:
		if amount == 0 {
			if v&0x80000000 == 0x80000000 {
				return 0xffffffff, true
			}
			return 0, false
		}
		return uint32(int32(v) >> amount), (v>>(amount-1))&0x01 == 0x01
	}

	if amount == 0 {
		r := v >> 1
		if carry {
			r |= 0x80000000
		}
		return r, v&0x01 == 0x01
	}
	return bits.RotateLeft32(v, -int(amount)), (v>>(amount-1))&0x01 == 0x01
}

// shiftRegister applies a shift with an amount taken from the bottom byte of a
// register. an amount of zero is no shift for all types and the carry is
// unaffected
func shiftRegister(typ uint32, v uint32, amount uint32, carry bool) (uint32, bool) {
	if amount == 0 {
		return v, carry
	}

	switch typ {
	case shiftLSL:
		switch {
		case amount < 32:
			return v << amount, (v>>(32-amount))&0x01 == 0x01
		case amount == 32:
			return 0, v&0x01 == 0x01
		}
		return 0, false
	case shiftLSR:
		switch {
		case amount < 32:
			return v >> amount, (v>>(amount-1))&0x01 == 0x01
		case amount == 32:
			return 0, v&0x80000000 == 0x80000000
		}
		return 0, false
	case shiftASR:
		if amount >= 32 {
			if v&0x80000000 == 0x80000000 {
				return 0xffffffff, true
			}
			return 0, false
		}
		return uint32(int32(v) >> amount), (v>>(amount-1))&0x01 == 0x01
	}

	amount &= 0x1f
	if amount == 0 {
		return v, v&0x80000000 == 0x80000000
	}
	return bits.RotateLeft32(v, -int(amount)), (v>>(amount-1))&0x01 == 0x01
}

// multiplyCycles returns the number of internal cycles used by a multiply.
// the multiplier terminates early if the remaining bytes of the operand are
// all zero or (for signed multiplies) all one
func multiplyCycles(rs uint32, signed bool) int {
	for m, mask := range []uint32{0xffffff00, 0xffff0000, 0xff000000} {
		if rs&mask == 0 || (signed && rs&mask == mask) {
			return m + 1
		}
	}
	return 4
}
