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
	"strings"
)

// Mode is the processor mode.
type Mode uint32

// List of valid Mode values. The value is the value of the mode bits in the
// status register.
const (
	ModeUser       Mode = 0x10
	ModeFIQ        Mode = 0x11
	ModeIRQ        Mode = 0x12
	ModeSupervisor Mode = 0x13
	ModeAbort      Mode = 0x17
	ModeUndefined  Mode = 0x1b
	ModeSystem     Mode = 0x1f
)

func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "USR"
	case ModeFIQ:
		return "FIQ"
	case ModeIRQ:
		return "IRQ"
	case ModeSupervisor:
		return "SVC"
	case ModeAbort:
		return "ABT"
	case ModeUndefined:
		return "UND"
	case ModeSystem:
		return "SYS"
	}
	return fmt.Sprintf("mode(%02x)", uint32(m))
}

// Valid returns true if the value is one of the defined modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeUser, ModeFIQ, ModeIRQ, ModeSupervisor, ModeAbort, ModeUndefined, ModeSystem:
		return true
	}
	return false
}

// bits in the status register
const (
	flagN    = 0x80000000
	flagZ    = 0x40000000
	flagC    = 0x20000000
	flagV    = 0x10000000
	flagI    = 0x00000080
	flagF    = 0x00000040
	flagT    = 0x00000020
	modeMask = 0x0000001f
	reserved = 0x0fffff00
)

// the status register (the CPSR). the SPSR copies are stored in their packed
// form
type status struct {
	negative bool
	zero     bool
	carry    bool
	overflow bool

	irqDisabled bool
	fiqDisabled bool
	thumb       bool

	mode Mode

	// the reserved bits have no meaning but are preserved
	reserved uint32
}

func (sr status) String() string {
	s := strings.Builder{}

	flag := func(b bool, set rune, unset rune) {
		if b {
			s.WriteRune(set)
		} else {
			s.WriteRune(unset)
		}
	}

	flag(sr.negative, 'N', 'n')
	flag(sr.zero, 'Z', 'z')
	flag(sr.carry, 'C', 'c')
	flag(sr.overflow, 'V', 'v')
	s.WriteRune(' ')
	flag(sr.irqDisabled, 'I', 'i')
	flag(sr.fiqDisabled, 'F', 'f')
	flag(sr.thumb, 'T', 't')
	s.WriteRune(' ')
	s.WriteString(sr.mode.String())

	return s.String()
}

func (sr status) pack() uint32 {
	v := uint32(sr.mode) | sr.reserved
	if sr.negative {
		v |= flagN
	}
	if sr.zero {
		v |= flagZ
	}
	if sr.carry {
		v |= flagC
	}
	if sr.overflow {
		v |= flagV
	}
	if sr.irqDisabled {
		v |= flagI
	}
	if sr.fiqDisabled {
		v |= flagF
	}
	if sr.thumb {
		v |= flagT
	}
	return v
}

// unpack does not check the validity of the mode bits
func (sr *status) unpack(v uint32) {
	sr.negative = v&flagN == flagN
	sr.zero = v&flagZ == flagZ
	sr.carry = v&flagC == flagC
	sr.overflow = v&flagV == flagV
	sr.irqDisabled = v&flagI == flagI
	sr.fiqDisabled = v&flagF == flagF
	sr.thumb = v&flagT == flagT
	sr.mode = Mode(v & modeMask)
	sr.reserved = v & reserved
}

func (sr *status) isNegative(a uint32) {
	sr.negative = a&0x80000000 == 0x80000000
}

func (sr *status) isZero(a uint32) {
	sr.zero = a == 0x00
}

func (sr *status) isOverflow(a, b, c uint32) {
	d := (a & 0x7fffffff) + (b & 0x7fffffff) + c
	d >>= 31
	e := (d & 0x01) + ((a >> 31) & 0x01) + ((b >> 31) & 0x01)
	e >>= 1
	sr.overflow = (d^e)&0x01 == 0x01
}

func (sr *status) isCarry(a, b, c uint32) {
	d := (a & 0x7fffffff) + (b & 0x7fffffff) + c
	d = (d >> 31) + (a >> 31) + (b >> 31)
	sr.carry = d&0x02 == 0x02
}

// the carry flag as an integer for use in arithmetic
func (sr status) carryBit() uint32 {
	if sr.carry {
		return 1
	}
	return 0
}

// conditional execution information from "4.2 The Condition Field" in
// "ARM7TDMI Data Sheet". the never condition (0b1111) never passes
func (sr status) condition(cond uint32) bool {
	switch cond {
	case 0b0000:
		// equal
		return sr.zero
	case 0b0001:
		// not equal
		return !sr.zero
	case 0b0010:
		// carry set
		return sr.carry
	case 0b0011:
		// carry clear
		return !sr.carry
	case 0b0100:
		// minus
		return sr.negative
	case 0b0101:
		// plus
		return !sr.negative
	case 0b0110:
		// overflow
		return sr.overflow
	case 0b0111:
		// no overflow
		return !sr.overflow
	case 0b1000:
		// unsigned higher C==1 and Z==0
		return sr.carry && !sr.zero
	case 0b1001:
		// unsigned lower or same C==0 or Z==1
		return !sr.carry || sr.zero
	case 0b1010:
		// signed greater than or equal N==V
		return sr.negative == sr.overflow
	case 0b1011:
		// signed less than N!=V
		return sr.negative != sr.overflow
	case 0b1100:
		// signed greater than Z==0 and N==V
		return !sr.zero && sr.negative == sr.overflow
	case 0b1101:
		// signed less than or equal Z==1 or N!=V
		return sr.zero || sr.negative != sr.overflow
	case 0b1110:
		return true
	}
	return false
}
