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

	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
	"github.com/jetsetilly/gopheradvance/hardware/preferences"
	"github.com/jetsetilly/gopheradvance/logger"
)

// Memory is the interface to the memory bus used by the CPU. Every access
// returns the number of cycles it took.
type Memory interface {
	Fetch(addr uint32, width memorymap.Width, kind memorymap.Access) (uint32, int)
	Read(addr uint32, width memorymap.Width, kind memorymap.Access) (uint32, int)
	Write(addr uint32, width memorymap.Width, value uint32, kind memorymap.Access) int
}

// decodeFunction is the implementation of a single opcode. decode functions
// are cached so the decoding of an opcode only happens once
type decodeFunction func()

// the ARM decode cache is cleared when it grows beyond this size
const maxARMCache = 0x10000

func logf(format string, args ...any) {
	logger.Logf(logger.Allow, "ARM7", format, args...)
}

// ARM implements the ARM7TDMI processor.
type ARM struct {
	prefs *preferences.Preferences
	mem   Memory

	registers [NumRegisters]uint32
	banked    banks
	status    status

	// the pipeline. the opcode at index 0 is the next opcode to be executed
	// and is at the address R15 minus two instruction widths. the opcode at
	// index 1 is at R15 minus one instruction width
	pipeline [2]uint32

	// the sequentiality of the next opcode fetch. a data access or a
	// pipeline refill makes the next fetch non-sequential
	fetchKind memorymap.Access

	// the pipeline was refilled by the current instruction
	flushed bool

	// the address of the instruction being executed
	executingAddr uint32

	// the number of cycles used by the current instruction
	cycles int

	armCache   map[uint32]decodeFunction
	thumbCache []decodeFunction
}

// NewARM is the preferred method of initialisation for the ARM type. The
// preferences argument can be nil.
func NewARM(prefs *preferences.Preferences, mem Memory) *ARM {
	arm := &ARM{
		prefs:      prefs,
		mem:        mem,
		armCache:   make(map[uint32]decodeFunction),
		thumbCache: make([]decodeFunction, 0x10000),
	}
	arm.status.mode = ModeSupervisor
	return arm
}

// Plumb a new memory bus into the ARM. Used when a System is restored from a
// save-state.
func (arm *ARM) Plumb(mem Memory) {
	arm.mem = mem
}

func (arm *ARM) String() string {
	s := strings.Builder{}
	for i, r := range arm.registers {
		if i > 0 {
			if i%4 == 0 {
				s.WriteString("\n")
			} else {
				s.WriteString("  ")
			}
		}
		s.WriteString(fmt.Sprintf("R%-2d: %08x", i, r))
	}
	s.WriteString("\n")
	s.WriteString(arm.status.String())
	return s.String()
}

// Reset the processor. If skipBIOS is true the registers are set to the
// values the BIOS would leave them with and execution starts at the start of
// the cartridge. Otherwise execution starts at the reset vector in supervisor
// mode with interrupts disabled.
func (arm *ARM) Reset(skipBIOS bool) {
	arm.registers = [NumRegisters]uint32{}
	arm.banked = banks{}
	arm.status = status{}

	if skipBIOS {
		arm.status.mode = ModeSystem
		arm.registers[rSP] = 0x03007f00
		arm.banked.r13[bankSupervisor] = 0x03007fe0
		arm.banked.r13[bankIRQ] = 0x03007fa0
		arm.fetchKind = memorymap.NonSequential
		arm.flush(memorymap.OriginROM0)
	} else {
		arm.status.mode = ModeSupervisor
		arm.status.irqDisabled = true
		arm.status.fiqDisabled = true
		arm.flush(vectorReset)
	}

	arm.cycles = 0
	arm.flushed = false
}

// the width of an instruction in the current state
func (arm *ARM) width() uint32 {
	if arm.status.thumb {
		return 2
	}
	return 4
}

// fetch an opcode. the width of the fetch depends on the thumb flag
func (arm *ARM) fetch(addr uint32, kind memorymap.Access) uint32 {
	w := memorymap.Word
	if arm.status.thumb {
		w = memorymap.Halfword
	}
	v, c := arm.mem.Fetch(addr, w, kind)
	arm.cycles += c
	return v
}

// flush refills the pipeline from the address. the address is aligned for
// the current state. the first fetch is non-sequential and the second is
// sequential
func (arm *ARM) flush(addr uint32) {
	w := arm.width()
	addr &^= w - 1
	arm.pipeline[0] = arm.fetch(addr, memorymap.NonSequential)
	arm.pipeline[1] = arm.fetch(addr+w, memorymap.Sequential)
	arm.registers[rPC] = addr + w*2
	arm.fetchKind = memorymap.Sequential
	arm.flushed = true
}

// exchange sets the program counter and the thumb flag from the address. bit
// zero selects thumb
func (arm *ARM) exchange(addr uint32) {
	arm.status.thumb = addr&0x01 == 0x01
	arm.flush(addr)
}

// read data from memory. the next opcode fetch will be non-sequential
func (arm *ARM) read(addr uint32, width memorymap.Width, kind memorymap.Access) uint32 {
	v, c := arm.mem.Read(addr, width, kind)
	arm.cycles += c
	arm.fetchKind = memorymap.NonSequential
	return v
}

// write data to memory. the next opcode fetch will be non-sequential
func (arm *ARM) write(addr uint32, width memorymap.Width, value uint32, kind memorymap.Access) {
	arm.cycles += arm.mem.Write(addr, width, value, kind)
	arm.fetchKind = memorymap.NonSequential
}

// an internal cycle
func (arm *ARM) icycle() {
	arm.cycles++
}

func (arm *ARM) icycles(n int) {
	arm.cycles += n
}

// Step executes the next instruction and returns the number of cycles it
// took.
func (arm *ARM) Step() int {
	arm.cycles = 0
	arm.flushed = false

	w := arm.width()
	opcode := arm.pipeline[0]
	arm.executingAddr = arm.registers[rPC] - w*2

	arm.pipeline[0] = arm.pipeline[1]
	arm.pipeline[1] = arm.fetch(arm.registers[rPC], arm.fetchKind)
	arm.fetchKind = memorymap.Sequential

	if arm.status.thumb {
		arm.executeThumb(uint16(opcode))
	} else {
		arm.executeARM(opcode)
	}

	if !arm.flushed {
		arm.registers[rPC] += w
	}

	return arm.cycles
}

func (arm *ARM) executeARM(opcode uint32) {
	if !arm.status.condition(opcode >> 28) {
		return
	}

	f, ok := arm.armCache[opcode]
	if !ok {
		f = arm.decodeARM(opcode)
		if f == nil {
			f = arm.undefined(opcode)
		}
		if len(arm.armCache) >= maxARMCache {
			clear(arm.armCache)
		}
		arm.armCache[opcode] = f
	}
	f()
}

func (arm *ARM) executeThumb(opcode uint16) {
	f := arm.thumbCache[opcode]
	if f == nil {
		f = arm.decodeThumb(opcode)
		if f == nil {
			f = arm.undefined(uint32(opcode))
		}
		arm.thumbCache[opcode] = f
	}
	f()
}

// Registers returns the active registers. R15 is the value the executing
// instruction would see, which is the address of the next instruction plus
// two instruction widths.
func (arm *ARM) Registers() [NumRegisters]uint32 {
	return arm.registers
}

// SetRegister sets the value of an active register. Setting R15 refills the
// pipeline.
func (arm *ARM) SetRegister(reg int, value uint32) bool {
	if reg < 0 || reg >= NumRegisters {
		return false
	}
	if reg == rPC {
		arm.cycles = 0
		arm.flush(value)
		arm.flushed = false
		return true
	}
	arm.registers[reg] = value
	return true
}

// Mode returns the current processor mode.
func (arm *ARM) Mode() Mode {
	return arm.status.mode
}

// CPSR returns the packed value of the status register.
func (arm *ARM) CPSR() uint32 {
	return arm.status.pack()
}

// SPSR returns the saved status register of the current mode. Returns false
// for user and system modes.
func (arm *ARM) SPSR() (uint32, bool) {
	return arm.spsr()
}

// IsThumb returns true if the processor is in the thumb state.
func (arm *ARM) IsThumb() bool {
	return arm.status.thumb
}

// IRQDisabled returns true if the I flag is set.
func (arm *ARM) IRQDisabled() bool {
	return arm.status.irqDisabled
}

// ExecutingAddress returns the address of the most recently executed
// instruction.
func (arm *ARM) ExecutingAddress() uint32 {
	return arm.executingAddr
}

// NextAddress returns the address of the instruction that will be executed
// by the next call to Step().
func (arm *ARM) NextAddress() uint32 {
	return arm.registers[rPC] - arm.width()*2
}

// Pipeline returns the two opcodes in the pipeline. The first opcode is the
// next to be executed.
func (arm *ARM) Pipeline() [2]uint32 {
	return arm.pipeline
}
