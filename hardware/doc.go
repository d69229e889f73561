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

// Package hardware is the base package for the emulation of the console. The
// System type owns every component of the core and is the only type that
// connects them.
//
// The components do not hold references to each other. Effects that cross
// from one component to another are made through explicit arguments. The
// scheduler dispatches events through the Dispatch() function of the System,
// which routes each event kind to the component that owns it.
//
// The one exception is the memory bus, which is given the peripherals that
// own registers in the IO area when the System is created. The bus never
// advances the clock.
//
// Instructions are executed with Step(). The order of operations for each
// step is:
//
//	1. the CPU executes one instruction and returns the cost
//	2. the clock is settled, dispatching every event that has become due
//	3. pending DMA transfers are performed, each settling the clock
//	4. the interrupt controller is polled and the IRQ exception entered
//
// When the CPU is halted (by a write to the HALTCNT register) the clock jumps
// from event to event until an interrupt is requested.
//
// The state of the System can be saved to and restored from a binary
// snapshot with SaveState() and LoadState().
package hardware
