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

// Package memory implements the Bus. The Bus connects the CPU and the DMA
// engine to the memory areas defined in the memorymap package and to the
// registers of the peripherals.
//
//	                         DMA ENGINE
//
//	                             |
//	                             |
//	                             \/
//
//	    CPU ---- Read/Write ---- BUS ---- IO ---- interrupts
//	                              |          \
//	        Fetch ---------------/            \--- timers, dma, keypad
//	                                           \
//	                                            \-- display, system control
//	                                             \
//	                                              \- ExternalIO
//
// Every access returns the number of cycles the access takes. The cost
// depends on the area, the width of the access and whether the access is
// sequential. The table of costs is the WaitStates type and is rebuilt every
// time the WAITCNT register is written.
//
// The Bus never advances the clock. Accesses made during an instruction are
// totalled as the "inflight" cost so that registers that depend on the time
// (the timer counters) see the correct time. The System clears the inflight
// cost every time the clock is settled.
//
// Reads from unmapped addresses return the open bus value, which is the most
// recently fetched opcode. The BIOS can only be read while the CPU is
// executing from the BIOS. At other times BIOS reads return the most recently
// fetched BIOS opcode.
package memory
