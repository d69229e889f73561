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

	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
)

// stubBIOS is used when no BIOS image is supplied. The reset handler sets up
// the stack pointers and jumps to the start of the cartridge. The IRQ handler
// calls the address stored at 0x03fffffc (the top of IWRAM) in the same way as
// the real BIOS. Software interrupts return immediately.
var stubBIOS = []uint32{
	// vectors
	0xea00000e, // 0x00 reset:      b 0x40
	0xe1b0f00e, // 0x04 undefined:  movs pc, lr
	0xea00000a, // 0x08 swi:        b 0x38
	0xe25ef004, // 0x0c prefetch:   subs pc, lr, #4
	0xe25ef008, // 0x10 data abort: subs pc, lr, #8
	0xeafffffe, // 0x14 reserved:   b 0x14
	0xea000000, // 0x18 irq:        b 0x20
	0xe25ef004, // 0x1c fiq:        subs pc, lr, #4

	// irq handler
	0xe92d500f, // 0x20 stmfd sp!, {r0-r3, r12, lr}
	0xe3a00301, // 0x24 mov r0, #0x04000000
	0xe28fe000, // 0x28 add lr, pc, #0
	0xe510f004, // 0x2c ldr pc, [r0, #-4]
	0xe8bd500f, // 0x30 ldmfd sp!, {r0-r3, r12, lr}
	0xe25ef004, // 0x34 subs pc, lr, #4

	// swi handler
	0xe1b0f00e, // 0x38 movs pc, lr
	0x00000000, // 0x3c

	// reset handler
	0xe321f0d2, // 0x40 msr cpsr_c, #0xd2
	0xe59fd018, // 0x44 ldr sp, [pc, #0x18]
	0xe321f0d3, // 0x48 msr cpsr_c, #0xd3
	0xe59fd014, // 0x4c ldr sp, [pc, #0x14]
	0xe321f0df, // 0x50 msr cpsr_c, #0xdf
	0xe59fd010, // 0x54 ldr sp, [pc, #0x10]
	0xe3a0e302, // 0x58 mov lr, #0x08000000
	0xe12fff1e, // 0x5c bx lr
	0x00000000, // 0x60

	// stack pointers for irq, supervisor and system modes
	0x03007fa0, // 0x64
	0x03007fe0, // 0x68
	0x03007f00, // 0x6c
}

// StubBIOS returns a BIOS image containing the built-in handlers.
func StubBIOS() []uint8 {
	b := make([]uint8, memorymap.SizeBIOS)
	for i, w := range stubBIOS {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}
