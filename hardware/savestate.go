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
	"io"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/hardware/savestate"
	"github.com/jetsetilly/gopheradvance/hardware/scheduler"
	"github.com/jetsetilly/gopheradvance/hardware/timers"
	"github.com/jetsetilly/gopheradvance/logger"
)

// InvalidSaveState is returned by LoadState() for any malformed snapshot.
const InvalidSaveState = "savestate: %v"

// the header of every save-state
const (
	saveStateMagic   = "GBASTATE"
	saveStateVersion = 1
)

// SaveState writes a snapshot of the System. The snapshot is the header
// followed by the state of each component in a fixed order.
func (sys *System) SaveState(w io.Writer) error {
	e := savestate.NewEncoder()
	e.Raw([]byte(saveStateMagic))
	e.U16(saveStateVersion)
	e.U32(sys.crc)
	sys.save(e)

	_, err := w.Write(e.Bytes())
	if err != nil {
		return curated.Errorf("savestate: %v", err)
	}
	return nil
}

func (sys *System) save(e *savestate.Encoder) {
	sys.Sched.Save(e)
	sys.CPU.Save(e)
	sys.Mem.Save(e)
	sys.IRQ.Save(e)
	sys.Timers.Save(e)
	sys.DMA.Save(e)
	sys.Keypad.Save(e)
	sys.Display.Save(e)

	e.Section("system")
	e.U8(uint8(sys.halt))
	for _, k := range sys.kicks {
		e.Bool(k)
	}
}

// LoadState restores a snapshot created by SaveState(). The snapshot is
// decoded into a new System which replaces the current state only if the
// entire snapshot is valid. On error the System is unchanged.
//
// Breakpoints and the ExternalIO implementation are not part of the snapshot
// and are kept.
func (sys *System) LoadState(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return curated.Errorf(InvalidSaveState, err)
	}

	fresh, err := newSystem(sys.Prefs, sys.rom, sys.bios)
	if err != nil {
		return err
	}

	if err := fresh.load(savestate.NewDecoder(data)); err != nil {
		return curated.Errorf(InvalidSaveState, err)
	}

	fresh.header = sys.header
	fresh.breakpoints = sys.breakpoints
	fresh.SetExternalIO(sys.external)
	*sys = *fresh

	logger.Logf(logger.Allow, "savestate", "restored at cycle %d (frame %d)", sys.Now(), sys.FrameNum())

	return nil
}

func (sys *System) load(d *savestate.Decoder) error {
	var magic [len(saveStateMagic)]byte
	d.Raw(magic[:])
	version := d.U16()
	crc := d.U32()
	if err := d.Err(); err != nil {
		return err
	}

	if string(magic[:]) != saveStateMagic {
		return curated.Errorf(savestate.BadValue, "not a save-state")
	}
	if version != saveStateVersion {
		return curated.Errorf(savestate.BadValue, fmt.Sprintf("unsupported version (%d)", version))
	}
	if crc != sys.crc {
		return curated.Errorf(savestate.BadValue, fmt.Sprintf("cartridge does not match (%08x)", crc))
	}

	loaders := []func(*savestate.Decoder) error{
		sys.Sched.Load,
		sys.CPU.Load,
		sys.Mem.Load,
		sys.IRQ.Load,
		sys.Timers.Load,
		sys.DMA.Load,
		sys.Keypad.Load,
		sys.Display.Load,
	}
	for _, l := range loaders {
		if err := l(d); err != nil {
			return err
		}
	}

	d.Section("system")
	sys.halt = memory.HaltMode(d.U8())
	for i := range sys.kicks {
		sys.kicks[i] = d.Bool()
	}
	if err := d.Err(); err != nil {
		return err
	}

	if sys.halt > memory.Stop {
		return curated.Errorf(savestate.BadValue, "halt mode out of range")
	}
	if d.Remaining() != 0 {
		return curated.Errorf(savestate.BadValue, "trailing data")
	}

	return sys.checkEvents()
}

// checkEvents makes sure the scheduled events agree with the state of the
// components that handle them. The components panic when dispatched an event
// they are not expecting.
func (sys *System) checkEvents() error {
	count := make(map[scheduler.Kind]int)
	for _, ev := range sys.Sched.Pending() {
		count[ev.Kind]++
	}

	for i := range timers.NumTimers {
		n := count[scheduler.TimerOverflow(i)]
		if sys.Timers.Running(i) {
			if n != 1 {
				return curated.Errorf(savestate.BadValue, fmt.Sprintf("timer %d is running with %d overflow events", i, n))
			}
		} else if n != 0 {
			return curated.Errorf(savestate.BadValue, fmt.Sprintf("overflow event for timer %d which is not running", i))
		}
	}

	// there is always a line end event. the hblank event for the line is
	// missing once it has happened
	if count[scheduler.LineEnd] != 1 || count[scheduler.HBlank] > 1 {
		return curated.Errorf(savestate.BadValue, "display events are inconsistent")
	}
	if count[scheduler.DMAKick] > 1 {
		return curated.Errorf(savestate.BadValue, "more than one dma kick event")
	}

	return nil
}
