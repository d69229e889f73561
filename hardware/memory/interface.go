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
	"github.com/jetsetilly/gopheradvance/hardware/display"
	"github.com/jetsetilly/gopheradvance/hardware/dma"
	"github.com/jetsetilly/gopheradvance/hardware/interrupts"
	"github.com/jetsetilly/gopheradvance/hardware/keypad"
	"github.com/jetsetilly/gopheradvance/hardware/scheduler"
	"github.com/jetsetilly/gopheradvance/hardware/timers"
)

// Peripherals are the components that own registers in the IO area. The Bus
// holds a reference to each of them. The scheduler is needed by the timers
// when their registers are written.
type Peripherals struct {
	Sched   *scheduler.Scheduler
	IRQ     *interrupts.Controller
	Timers  *timers.Timers
	DMA     *dma.Engine
	Keypad  *keypad.Keypad
	Display *display.Display
}

// ExternalIO is implemented by components outside of the core that own
// registers in the IO area. For example, the graphics and sound components.
//
// Registers not owned by one of the Peripherals are kept in a backing array
// by the Bus. Writes to those registers are also forwarded to the ExternalIO
// implementation. Reads are first offered to the ExternalIO implementation
// and the backing array value is used if it doesn't claim the register.
type ExternalIO interface {
	ReadIO(reg uint32) (uint16, bool)
	WriteIO(reg uint32, value uint16, mask uint16)
}

// HaltMode is the state requested by a write to the HALTCNT register.
type HaltMode int

// List of valid HaltMode values.
const (
	Running HaltMode = iota
	Halt
	Stop
)

func (h HaltMode) String() string {
	switch h {
	case Halt:
		return "halt"
	case Stop:
		return "stop"
	}
	return "running"
}
