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

// Package cpu emulates the ARM7TDMI processor. Both the 32bit ARM and the
// 16bit thumb instruction sets are implemented.
//
// The processor is advanced one instruction at a time with the Step()
// function, which returns the number of cycles the instruction took. The
// number of cycles is the sum of the costs returned by the Memory interface
// and the internal cycles of the instruction. The ARM type does not keep a
// clock of its own.
//
// The three stage pipeline is modelled by keeping the two most recently
// fetched opcodes. R15 is always two instructions ahead of the executing
// instruction. Instructions that write to R15 refill the pipeline.
//
// Interrupts are taken between instructions by calling Interrupt(). The ARM
// type knows nothing of the interrupt controller, the caller decides whether
// an interrupt is pending.
//
// Decoded opcodes are cached. The thumb cache has an entry for every
// possible opcode. The ARM cache is a map that is cleared when it grows too
// large.
package cpu
