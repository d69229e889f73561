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
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/cpu"
	"github.com/jetsetilly/gopheradvance/hardware/display"
	"github.com/jetsetilly/gopheradvance/hardware/dma"
	"github.com/jetsetilly/gopheradvance/hardware/interrupts"
	"github.com/jetsetilly/gopheradvance/hardware/keypad"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
	"github.com/jetsetilly/gopheradvance/hardware/preferences"
	"github.com/jetsetilly/gopheradvance/hardware/scheduler"
	"github.com/jetsetilly/gopheradvance/hardware/timers"
	"github.com/jetsetilly/gopheradvance/logger"
)

// Sentinal errors.
const (
	NoCartridge = "system: cartridge is too large (%d bytes)"
	Deadlock    = "system: halted with no pending events"
)

// System is the container for every component of the emulated console.
type System struct {
	Prefs *preferences.Preferences

	Sched   *scheduler.Scheduler
	CPU     *cpu.ARM
	Mem     *memory.Bus
	IRQ     *interrupts.Controller
	Timers  *timers.Timers
	DMA     *dma.Engine
	Keypad  *keypad.Keypad
	Display *display.Display

	// the images the system was created with. needed to create a new System
	// when a save-state is loaded
	rom  []uint8
	bios []uint8

	header memory.Header
	crc    uint32

	// the current halt state of the CPU
	halt memory.HaltMode

	// DMA triggers waiting for delivery by the DMAKick event. indexed by
	// dma.Trigger
	kicks [dma.VideoCapture + 1]bool

	// set by the dispatch of the first line of vertical blank
	frameBoundary bool

	// addresses at which RunUntil() stops
	breakpoints map[uint32]bool

	// the component outside the core that owns the remaining IO registers
	external memory.ExternalIO
}

// NewSystem creates a new System. The bios argument can be nil, in which
// case the built-in BIOS is used. The preferences argument can also be nil,
// in which case the BIOS is skipped on reset.
func NewSystem(prefs *preferences.Preferences, rom []uint8, bios []uint8) (*System, error) {
	if len(rom) > memorymap.SizeROM {
		return nil, curated.Errorf(NoCartridge, len(rom))
	}

	sys, err := newSystem(prefs, rom, bios)
	if err != nil {
		return nil, err
	}

	sys.Mem.LogHeader()
	logger.Logf(logger.Allow, "system", "cartridge crc: %08x", sys.crc)

	sys.Reset()

	return sys, nil
}

// newSystem creates the components and plumbs them together. The System is
// not reset.
func newSystem(prefs *preferences.Preferences, rom []uint8, bios []uint8) (*System, error) {
	sys := &System{
		Prefs:       prefs,
		Sched:       scheduler.NewScheduler(),
		IRQ:         interrupts.NewController(),
		Timers:      timers.NewTimers(),
		DMA:         dma.NewEngine(),
		Keypad:      keypad.NewKeypad(),
		Display:     display.NewDisplay(),
		rom:         rom,
		bios:        bios,
		crc:         crc32.ChecksumIEEE(rom),
		breakpoints: make(map[uint32]bool),
	}

	sys.header, _ = memory.ParseHeader(rom)

	var err error
	sys.Mem, err = memory.NewBus(rom, bios)
	if err != nil {
		return nil, err
	}

	sys.Mem.Plumb(memory.Peripherals{
		Sched:   sys.Sched,
		IRQ:     sys.IRQ,
		Timers:  sys.Timers,
		DMA:     sys.DMA,
		Keypad:  sys.Keypad,
		Display: sys.Display,
	})

	sys.CPU = cpu.NewARM(prefs, sys.Mem)

	return sys, nil
}

func (sys *System) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s\n", sys.Sched))
	s.WriteString(fmt.Sprintf("%s\n", sys.Display))
	s.WriteString(fmt.Sprintf("%s\n", sys.CPU))
	s.WriteString(fmt.Sprintf("%s", sys.IRQ))
	if sys.halt != memory.Running {
		s.WriteString(fmt.Sprintf("\n%s", sys.halt))
	}
	return s.String()
}

// skipBIOS returns the value of the skip BIOS preference. The BIOS is
// skipped if there are no preferences.
func (sys *System) skipBIOS() bool {
	if sys.Prefs == nil {
		return true
	}
	return sys.Prefs.SkipBIOS.Get().(bool)
}

// Reset the System to the power-on state. The cartridge SRAM is preserved.
func (sys *System) Reset() {
	sys.Sched.Reset()
	sys.Mem.Reset()
	sys.IRQ.Reset()
	sys.Timers.Reset()
	sys.DMA.Reset()
	sys.Keypad.Reset()
	sys.Display.Reset(sys.Sched.Now(), sys.Sched)

	skip := sys.skipBIOS()
	sys.CPU.Reset(skip)
	if skip {
		sys.Mem.SetPostBoot()
	}

	// the cost of the first pipeline fill is not counted
	sys.Mem.ClearInflight()

	sys.halt = memory.Running
	clear(sys.kicks[:])
	sys.frameBoundary = false
}

// SetExternalIO attaches the component that owns the IO registers that are
// not emulated by the core. Can be nil.
func (sys *System) SetExternalIO(ext memory.ExternalIO) {
	sys.external = ext
	sys.Mem.SetExternalIO(ext)
}

// Dispatch implements the scheduler.Dispatcher interface. It is the only
// place where scheduled events are routed to the components.
func (sys *System) Dispatch(ev scheduler.Event) {
	switch ev.Kind {
	case scheduler.Timer0Overflow, scheduler.Timer1Overflow, scheduler.Timer2Overflow, scheduler.Timer3Overflow:
		sys.Timers.Overflow(int(ev.Kind-scheduler.Timer0Overflow), ev.When, sys.Sched, sys.IRQ)

	case scheduler.DMAKick:
		for t := range sys.kicks {
			if sys.kicks[t] {
				sys.kicks[t] = false
				sys.DMA.Notify(dma.Trigger(t))
			}
		}

	case scheduler.HBlank:
		if sys.Display.HBlank(sys.IRQ) {
			sys.DMA.Notify(dma.HBlank)
		}

	case scheduler.LineEnd:
		s := sys.Display.LineEnd(ev.When, sys.Sched, sys.IRQ)
		if s.VBlankStart {
			sys.DMA.Notify(dma.VBlank)
			sys.frameBoundary = true
		}
		if s.VideoCapture {
			sys.DMA.Notify(dma.VideoCapture)
		}

	default:
		panic(fmt.Sprintf("system: cannot dispatch %s", ev))
	}
}

// NotifyDMA delivers a DMA trigger from a component outside the core. For
// example, a sound FIFO request. The trigger is delivered by a DMAKick event
// at the current cycle.
func (sys *System) NotifyDMA(trigger dma.Trigger) {
	if trigger == dma.Immediate || int(trigger) >= len(sys.kicks) {
		return
	}
	sys.kicks[trigger] = true
	if _, ok := sys.Sched.Scheduled(scheduler.DMAKick); !ok {
		sys.Sched.ScheduleRelative(0, scheduler.DMAKick)
	}
}

// KeyDown presses the key.
func (sys *System) KeyDown(k keypad.Key) {
	sys.Keypad.Press(k, sys.IRQ)
}

// KeyUp releases the key.
func (sys *System) KeyUp(k keypad.Key) {
	sys.Keypad.Release(k, sys.IRQ)
}

// SetKeys sets the state of every key.
func (sys *System) SetKeys(keys keypad.Keys) {
	sys.Keypad.Set(keys, sys.IRQ)
}

// AddBreakpoint adds an address at which RunUntil() will stop. The address
// is compared with the address of the next instruction to be executed.
func (sys *System) AddBreakpoint(addr uint32) {
	sys.breakpoints[addr] = true
}

// ClearBreakpoints removes all breakpoints.
func (sys *System) ClearBreakpoints() {
	clear(sys.breakpoints)
}

// Now returns the current cycle.
func (sys *System) Now() uint64 {
	return sys.Sched.Now()
}

// FrameNum returns the number of frames that have reached vertical blank.
func (sys *System) FrameNum() int {
	return sys.Display.Frame()
}

// Header returns the cartridge header. The header is the zero value if the
// cartridge header is not valid.
func (sys *System) Header() memory.Header {
	return sys.header
}

// CRC returns the CRC32 of the cartridge image.
func (sys *System) CRC() uint32 {
	return sys.crc
}

// Halted returns the halt state of the CPU.
func (sys *System) Halted() memory.HaltMode {
	return sys.halt
}
