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

package hardware

import (
	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
)

// Step the System by one CPU instruction. If the CPU is halted the clock is
// advanced to the next event instead.
//
// An error is returned if the instruction enabled a DMA channel with a timing
// the channel cannot use. The System is left in a valid state and Step() can
// be called again.
func (sys *System) Step() error {
	switch sys.halt {
	case memory.Halt:
		return sys.stepHalted()
	case memory.Stop:
		// the clock does not run in the stop state. only a keypad interrupt
		// condition can end it
		if sys.Keypad.WakeFromStop() {
			sys.halt = memory.Running
			sys.interrupt()
		}
		return nil
	}

	sys.settle(sys.CPU.Step())

	if h := sys.Mem.Halt(); h != memory.Running {
		sys.halt = h
	}

	sys.serviceDMA()
	sys.interrupt()

	// the instruction has completed. a DMA channel that could not be armed
	// is disabled and emulation can continue after the error
	return sys.DMA.ArmError()
}

// settle the clock after an operation of the given number of cycles.
func (sys *System) settle(cycles int) {
	sys.Mem.ClearInflight()
	sys.Sched.Settle(sys.Sched.Now()+uint64(cycles), sys)
}

// perform pending DMA transfers in priority order. a transfer can cause
// another channel to become pending because the clock is settled after every
// transfer
func (sys *System) serviceDMA() {
	for sys.DMA.Pending() {
		sys.settle(sys.DMA.Service(sys.Mem, sys.IRQ))
	}
}

// enter the IRQ exception if the interrupt controller is requesting it.
func (sys *System) interrupt() {
	if sys.IRQ.Poll(sys.CPU.IRQDisabled()) {
		sys.settle(sys.CPU.Interrupt())
	}
}

// the halt state ends when any enabled interrupt is requested, regardless of
// IME. the clock jumps to the next event until then
func (sys *System) stepHalted() error {
	if !sys.IRQ.IsEnabled() {
		ev, ok := sys.Sched.Peek()
		if !ok {
			return curated.Errorf(Deadlock)
		}
		sys.Mem.ClearInflight()
		sys.Sched.Settle(ev.When, sys)
		sys.serviceDMA()
	}

	if sys.IRQ.IsEnabled() {
		sys.halt = memory.Running
		sys.interrupt()
	}

	return nil
}
