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

package cpu_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/cpu"
	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
	"github.com/jetsetilly/gopheradvance/hardware/savestate"
	"github.com/jetsetilly/gopheradvance/test"
)

// sparse memory where every access costs one cycle
type testMemory struct {
	data map[uint32]uint8
}

func newTestMemory() *testMemory {
	return &testMemory{data: make(map[uint32]uint8)}
}

func (mem *testMemory) load(addr uint32, width memorymap.Width) uint32 {
	addr = width.Align(addr)
	var v uint32
	for i := range uint32(width) {
		v |= uint32(mem.data[addr+i]) << (i * 8)
	}
	return v
}

func (mem *testMemory) store(addr uint32, width memorymap.Width, value uint32) {
	addr = width.Align(addr)
	for i := range uint32(width) {
		mem.data[addr+i] = uint8(value >> (i * 8))
	}
}

func (mem *testMemory) Fetch(addr uint32, width memorymap.Width, _ memorymap.Access) (uint32, int) {
	return mem.load(addr, width), 1
}

func (mem *testMemory) Read(addr uint32, width memorymap.Width, _ memorymap.Access) (uint32, int) {
	return mem.load(addr, width), 1
}

func (mem *testMemory) Write(addr uint32, width memorymap.Width, value uint32, _ memorymap.Access) int {
	mem.store(addr, width, value)
	return 1
}

func (mem *testMemory) arm(addr uint32, opcodes ...uint32) {
	for i, o := range opcodes {
		mem.store(addr+uint32(i)*4, memorymap.Word, o)
	}
}

func (mem *testMemory) thumb(addr uint32, opcodes ...uint16) {
	for i, o := range opcodes {
		mem.store(addr+uint32(i)*2, memorymap.Halfword, uint32(o))
	}
}

const (
	cart     = uint32(0x08000000)
	branchPC = uint32(0xeafffffe)
	movsPCLR = uint32(0xe1b0f00e)
	swi      = uint32(0xef000000)
)

// the ARM is reset with the BIOS skipped so execution begins at the start of
// the cartridge area in system mode
func prepareTestARM(t *testing.T, program ...uint32) (*cpu.ARM, *testMemory) {
	t.Helper()
	mem := newTestMemory()
	mem.arm(cart, program...)
	arm := cpu.NewARM(nil, mem)
	arm.Reset(true)
	test.DemandEquality(t, arm.Mode(), cpu.ModeSystem)
	return arm, mem
}

func steps(arm *cpu.ARM, n int) {
	for range n {
		arm.Step()
	}
}

func TestExceptionRoundTrip(t *testing.T) {
	modes := []cpu.Mode{
		cpu.ModeUser, cpu.ModeFIQ, cpu.ModeIRQ, cpu.ModeSupervisor,
		cpu.ModeAbort, cpu.ModeUndefined, cpu.ModeSystem,
	}

	for _, m := range modes {
		for flags := range uint32(16) {
			arm, mem := prepareTestARM(t,
				0xe321f000|uint32(m),   // msr cpsr_c, #mode
				0xe328f400|(flags<<4), // msr cpsr_f, #flags
				swi,
				branchPC,
			)
			mem.arm(0x08, movsPCLR)

			steps(arm, 2)
			test.ExpectEquality(t, arm.Mode(), m)

			arm.SetRegister(13, 0x03001000+uint32(m))
			arm.SetRegister(14, 0x02000000+uint32(m))
			before := arm.CPSR()
			test.ExpectEquality(t, before>>28, flags, m)

			arm.Step()
			test.ExpectEquality(t, arm.Mode(), cpu.ModeSupervisor, m)
			test.ExpectEquality(t, arm.NextAddress(), uint32(0x08), m)
			spsr, ok := arm.SPSR()
			test.ExpectSuccess(t, ok)
			test.ExpectEquality(t, spsr, before, m)
			test.ExpectSuccess(t, arm.IRQDisabled())

			arm.Step()
			test.ExpectEquality(t, arm.CPSR(), before, m)
			test.ExpectEquality(t, arm.Mode(), m)
			test.ExpectEquality(t, arm.NextAddress(), cart+0x0c, m)

			r := arm.Registers()
			test.ExpectEquality(t, r[13], 0x03001000+uint32(m), m)
			if m != cpu.ModeSupervisor {
				test.ExpectEquality(t, r[14], 0x02000000+uint32(m), m)
			}
		}
	}
}

func TestUndefinedARM(t *testing.T) {
	arm, mem := prepareTestARM(t,
		0xe328f460, // msr cpsr_f, #0x60000000
		0xe7f000f0, // undefined
	)
	mem.arm(0x04, branchPC)

	arm.Step()
	before := arm.CPSR()

	arm.Step()
	test.ExpectEquality(t, arm.Mode(), cpu.ModeUndefined)
	test.ExpectEquality(t, arm.ExecutingAddress(), cart+4)
	spsr, ok := arm.SPSR()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, spsr, before)
	test.ExpectEquality(t, arm.Registers()[14], cart+8)
	test.ExpectEquality(t, arm.NextAddress(), uint32(0x04))
	test.ExpectEquality(t, arm.Pipeline()[0], branchPC)
	test.ExpectSuccess(t, arm.IRQDisabled())
	test.ExpectFailure(t, arm.IsThumb())

	// the handler is running
	arm.Step()
	test.ExpectEquality(t, arm.ExecutingAddress(), uint32(0x04))
}

func TestUndefinedThumb(t *testing.T) {
	arm, mem := prepareTestARM(t,
		0xe28f0001, // add r0, pc, #1
		0xe12fff10, // bx r0
	)
	mem.thumb(cart+8, 0xde00)
	mem.arm(0x04, branchPC)

	steps(arm, 2)
	test.ExpectSuccess(t, arm.IsThumb())
	test.ExpectEquality(t, arm.NextAddress(), cart+8)

	arm.Step()
	test.ExpectEquality(t, arm.Mode(), cpu.ModeUndefined)
	test.ExpectFailure(t, arm.IsThumb())
	test.ExpectEquality(t, arm.Registers()[14], cart+10)
	spsr, _ := arm.SPSR()
	test.ExpectEquality(t, spsr&0x20, uint32(0x20))
}

func TestInterrupt(t *testing.T) {
	arm, mem := prepareTestARM(t,
		0xe1a00000, // nop
		0xe1a00000, // nop
	)
	mem.arm(0x18, branchPC)

	arm.Step()
	c := arm.Interrupt()
	test.ExpectInequality(t, c, 0)
	test.ExpectEquality(t, arm.Mode(), cpu.ModeIRQ)
	test.ExpectEquality(t, arm.NextAddress(), uint32(0x18))

	// subs pc, lr, #4 returns to the instruction that was interrupted
	test.ExpectEquality(t, arm.Registers()[14]-4, cart+4)

	// the I flag is now set
	test.ExpectEquality(t, arm.Interrupt(), 0)
}

func TestCycles(t *testing.T) {
	arm, _ := prepareTestARM(t,
		0xe1a00000, // nop
		0xea000000, // b 0x0800000c
	)

	// a single sequential fetch
	test.ExpectEquality(t, arm.Step(), 1)

	// the branch refills the pipeline
	test.ExpectEquality(t, arm.Step(), 3)
	test.ExpectEquality(t, arm.NextAddress(), cart+0x0c)
}

func TestDataProcessing(t *testing.T) {
	arm, _ := prepareTestARM(t,
		0xe0902001, // adds r2, r0, r1
		0xe0503000, // subs r3, r0, r0
		0xe1b04061, // movs r4, r1, rrx
		0xe1b05130, // movs r5, r0, lsr r1
	)
	arm.SetRegister(0, 0x7fffffff)
	arm.SetRegister(1, 1)

	arm.Step()
	test.ExpectEquality(t, arm.Registers()[2], uint32(0x80000000))
	test.ExpectEquality(t, arm.CPSR()>>28, uint32(0b1001))

	arm.Step()
	test.ExpectEquality(t, arm.Registers()[3], uint32(0))
	test.ExpectEquality(t, arm.CPSR()>>28, uint32(0b0110))

	// carry is set from the previous instruction
	arm.Step()
	test.ExpectEquality(t, arm.Registers()[4], uint32(0x80000000))
	test.ExpectEquality(t, arm.CPSR()>>28, uint32(0b1010))

	// shift by register costs an internal cycle
	test.ExpectEquality(t, arm.Step(), 2)
	test.ExpectEquality(t, arm.Registers()[5], uint32(0x3fffffff))
}

func TestMultiply(t *testing.T) {
	arm, _ := prepareTestARM(t,
		0xe0810392, // umull r0, r1, r2, r3
		0xe0c54392, // smull r4, r5, r2, r3
		0xe0160293, // muls r6, r3, r2
	)
	arm.SetRegister(2, 0xffffffff)
	arm.SetRegister(3, 2)

	arm.Step()
	r := arm.Registers()
	test.ExpectEquality(t, r[0], uint32(0xfffffffe))
	test.ExpectEquality(t, r[1], uint32(0x00000001))

	arm.Step()
	r = arm.Registers()
	test.ExpectEquality(t, r[4], uint32(0xfffffffe))
	test.ExpectEquality(t, r[5], uint32(0xffffffff))

	// an operand of all ones terminates early for a signed multiply
	test.ExpectEquality(t, arm.Step(), 2)
	test.ExpectEquality(t, arm.Registers()[6], uint32(0xfffffffe))
	test.ExpectEquality(t, arm.CPSR()>>31, uint32(1))
}

func TestMisalignedLoads(t *testing.T) {
	arm, mem := prepareTestARM(t,
		0xe5901000, // ldr r1, [r0]
		0xe1d020b0, // ldrh r2, [r0]
		0xe1d030f0, // ldrsh r3, [r0]
		0xe1d040d0, // ldrsb r4, [r0]
	)
	mem.arm(0x03000100, 0x11228344)
	arm.SetRegister(0, 0x03000101)

	steps(arm, 4)
	r := arm.Registers()
	test.ExpectEquality(t, r[1], uint32(0x44112283))
	test.ExpectEquality(t, r[2], uint32(0x44000083))
	test.ExpectEquality(t, r[3], uint32(0xffffff83))
	test.ExpectEquality(t, r[4], uint32(0xffffff83))
}

func TestBlockTransfer(t *testing.T) {
	arm, mem := prepareTestARM(t,
		0xe8a10003, // stmia r1!, {r0, r1}
		0xe8920018, // ldmia r2, {r3, r4}
		0xe8a50000, // stmia r5!, {}
		0xe8a00003, // stmia r0!, {r0, r1}
	)
	arm.SetRegister(0, 0x03000200)
	arm.SetRegister(1, 0x03000100)
	arm.SetRegister(2, 0x03000100)
	arm.SetRegister(5, 0x03000300)

	// the base is not the first register so the written back value is stored
	arm.Step()
	r := arm.Registers()
	test.ExpectEquality(t, r[1], uint32(0x03000108))
	test.ExpectEquality(t, mem.load(0x03000100, memorymap.Word), uint32(0x03000200))
	test.ExpectEquality(t, mem.load(0x03000104, memorymap.Word), uint32(0x03000108))

	arm.Step()
	r = arm.Registers()
	test.ExpectEquality(t, r[3], uint32(0x03000200))
	test.ExpectEquality(t, r[4], uint32(0x03000108))

	// an empty list stores the program counter and moves the base by 0x40
	arm.Step()
	test.ExpectEquality(t, arm.Registers()[5], uint32(0x03000340))
	test.ExpectEquality(t, mem.load(0x03000300, memorymap.Word), cart+0x08+12)

	// the base is the first register so the original value is stored
	arm.Step()
	test.ExpectEquality(t, arm.Registers()[0], uint32(0x03000208))
	test.ExpectEquality(t, mem.load(0x03000200, memorymap.Word), uint32(0x03000200))
}

func TestThumbLongBranch(t *testing.T) {
	arm, mem := prepareTestARM(t,
		0xe28f0001, // add r0, pc, #1
		0xe12fff10, // bx r0
	)
	mem.thumb(cart+8,
		0xf000, // bl 0x08000100 (high)
		0xf87a, // bl 0x08000100 (low)
	)
	mem.thumb(cart+0x100, 0xe7fe)

	steps(arm, 4)
	test.ExpectSuccess(t, arm.IsThumb())
	test.ExpectEquality(t, arm.NextAddress(), cart+0x100)
	test.ExpectEquality(t, arm.Registers()[14], cart+0x0d)

	// thumb branch to self
	arm.Step()
	test.ExpectEquality(t, arm.NextAddress(), cart+0x100)
}

func TestThumbExchangeToARM(t *testing.T) {
	arm, mem := prepareTestARM(t,
		0xe28f0001, // add r0, pc, #1
		0xe12fff10, // bx r0
	)
	mem.thumb(cart+8, 0x4708) // bx r1
	mem.arm(cart+0x100, branchPC)

	steps(arm, 2)
	test.DemandSuccess(t, arm.IsThumb())

	// bit 1 of the target is ignored when changing to the ARM state
	arm.SetRegister(1, cart+0x102)
	arm.Step()
	test.ExpectFailure(t, arm.IsThumb())
	test.ExpectEquality(t, arm.NextAddress(), cart+0x100)

	arm.Step()
	test.ExpectEquality(t, arm.ExecutingAddress(), cart+0x100)
	test.ExpectEquality(t, arm.NextAddress(), cart+0x100)
}

func TestBlockTransferRestoresThumb(t *testing.T) {
	arm, mem := prepareTestARM(t,
		0xe321f012, // msr cpsr_c, #0x12 (irq)
		0xe361f03f, // msr spsr_c, #0x3f (system, thumb)
		0xe8fd8000, // ldmfd sp!, {pc}^
	)
	mem.store(0x03000100, memorymap.Word, cart+0x201)
	mem.thumb(cart+0x200, 0xe7fe)
	systemSP := arm.Registers()[13]

	arm.Step()
	test.DemandEquality(t, arm.Mode(), cpu.ModeIRQ)
	arm.SetRegister(13, 0x03000100)

	arm.Step()
	spsr, ok := arm.SPSR()
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, spsr&0xff, uint32(0x3f))

	// the status register is restored from the SPSR and the return address
	// is aligned for the thumb state
	arm.Step()
	test.ExpectEquality(t, arm.Mode(), cpu.ModeSystem)
	test.ExpectSuccess(t, arm.IsThumb())
	test.ExpectEquality(t, arm.NextAddress(), cart+0x200)
	test.ExpectEquality(t, arm.Registers()[13], systemSP)

	arm.Step()
	test.ExpectEquality(t, arm.NextAddress(), cart+0x200)
}

func TestThumbPushPop(t *testing.T) {
	arm, mem := prepareTestARM(t,
		0xe28f0001, // add r0, pc, #1
		0xe12fff10, // bx r0
	)
	mem.thumb(cart+8,
		0x2105, // movs r1, #5
		0xb502, // push {r1, lr}
		0x2100, // movs r1, #0
		0xbd02, // pop {r1, pc}
	)
	arm.SetRegister(14, 0x08000201)
	mem.thumb(cart+0x200, 0xe7fe)

	steps(arm, 2)
	sp := arm.Registers()[13]

	steps(arm, 2)
	test.ExpectEquality(t, arm.Registers()[13], sp-8)
	test.ExpectEquality(t, mem.load(sp-8, memorymap.Word), uint32(5))

	steps(arm, 2)
	r := arm.Registers()
	test.ExpectEquality(t, r[1], uint32(5))
	test.ExpectEquality(t, r[13], sp)
	test.ExpectEquality(t, arm.NextAddress(), cart+0x200)
	test.ExpectSuccess(t, arm.IsThumb())
}

func TestMSR(t *testing.T) {
	arm, _ := prepareTestARM(t,
		0xe321f010, // msr cpsr_c, #0x10 (user)
		0xe321f01f, // msr cpsr_c, #0x1f (system)
		0xe328f480, // msr cpsr_f, #0x80000000
	)

	arm.Step()
	test.ExpectEquality(t, arm.Mode(), cpu.ModeUser)

	// user mode cannot change the control field
	arm.Step()
	test.ExpectEquality(t, arm.Mode(), cpu.ModeUser)

	arm.Step()
	test.ExpectEquality(t, arm.CPSR()>>28, uint32(0b1000))
}

func TestSaveLoad(t *testing.T) {
	arm, mem := prepareTestARM(t,
		0xe321f012, // msr cpsr_c, #0x12 (irq)
		0xe3a0d0ff, // mov sp, #0xff
		branchPC,
	)
	steps(arm, 2)

	e := savestate.NewEncoder()
	arm.Save(e)

	other := cpu.NewARM(nil, mem)
	other.Reset(false)
	test.ExpectSuccess(t, other.Load(savestate.NewDecoder(e.Bytes())))
	test.ExpectEquality(t, other.Mode(), cpu.ModeIRQ)
	test.ExpectEquality(t, other.Registers(), arm.Registers())
	test.ExpectEquality(t, other.Pipeline(), arm.Pipeline())

	f := savestate.NewEncoder()
	other.Save(f)
	test.ExpectEquality(t, string(f.Bytes()), string(e.Bytes()))

	// execution continues identically
	test.ExpectEquality(t, other.Step(), arm.Step())
	test.ExpectEquality(t, other.Registers(), arm.Registers())

	// the status register is immediately after the section marker and the
	// sixteen registers
	b := append([]byte(nil), e.Bytes()...)
	b[4+16*4] = 0x00
	test.ExpectFailure(t, other.Load(savestate.NewDecoder(b)))
}
