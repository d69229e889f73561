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

package display

import (
	"fmt"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/interrupts"
	"github.com/jetsetilly/gopheradvance/hardware/savestate"
	"github.com/jetsetilly/gopheradvance/hardware/scheduler"
)

// Display timings in cycles and lines.
const (
	CyclesPerLine  = 1232
	HBlankStart    = 960
	LinesPerFrame  = 228
	VisibleLines   = 160
	CyclesPerFrame = CyclesPerLine * LinesPerFrame
)

// ClockRate is the number of cycles per second.
const ClockRate = 16777216

// FramesPerSecond is the refresh rate of the display. About 59.73Hz.
const FramesPerSecond = float64(ClockRate) / CyclesPerFrame

// bits in the DISPSTAT register
const (
	vblankFlag     = 0x0001
	hblankFlag     = 0x0002
	vcountFlag     = 0x0004
	vblankIRQ      = 0x0008
	hblankIRQ      = 0x0010
	vcountIRQ      = 0x0020
	dispstatWrite  = 0xff38
	dispstatLYCBit = 8
)

// Register addresses relative to the start of the IO window.
const (
	RegDISPSTAT = 0x004
	RegVCOUNT   = 0x006
)

// Display is the state of the display timing.
type Display struct {
	line     int
	dispstat uint16
	frame    int

	// timestamp of the start of the current line
	lineStart uint64
}

// NewDisplay is the preferred method of initialisation for the Display type.
func NewDisplay() *Display {
	return &Display{}
}

func (dsp *Display) String() string {
	return fmt.Sprintf("frame %d line %d", dsp.frame, dsp.line)
}

// Reset the display and schedule the events for the first line.
func (dsp *Display) Reset(now uint64, sched *scheduler.Scheduler) {
	dsp.line = 0
	dsp.dispstat = 0
	dsp.frame = 0
	dsp.lineStart = now
	sched.Cancel(scheduler.HBlank)
	sched.Cancel(scheduler.LineEnd)
	sched.ScheduleRelative(HBlankStart, scheduler.HBlank)
	sched.ScheduleRelative(CyclesPerLine, scheduler.LineEnd)
}

// Line returns the current line (the value of VCOUNT).
func (dsp *Display) Line() int {
	return dsp.line
}

// Frame returns the number of frames that have reached vertical blank.
func (dsp *Display) Frame() int {
	return dsp.frame
}

// InVBlank returns true if the display is in vertical blank.
func (dsp *Display) InVBlank() bool {
	return dsp.dispstat&vblankFlag == vblankFlag
}

// HBlank handles the start of horizontal blank. Returns true if the line is a
// visible line. Horizontal blank DMA only happens on visible lines.
func (dsp *Display) HBlank(irq interrupts.Requester) bool {
	dsp.dispstat |= hblankFlag
	if dsp.dispstat&hblankIRQ == hblankIRQ {
		irq.Request(interrupts.HBlank)
	}
	return dsp.line < VisibleLines
}

// Sync describes what happened at the end of a line.
type Sync struct {
	// the new line
	Line int

	// the new line is the first line of vertical blank. this is the frame
	// boundary
	VBlankStart bool

	// the new line is one of the lines on which video capture DMA happens
	VideoCapture bool
}

// LineEnd handles the end of a line. The events for the next line are
// scheduled relative to the time of the event.
func (dsp *Display) LineEnd(when uint64, sched *scheduler.Scheduler, irq interrupts.Requester) Sync {
	dsp.lineStart = when
	dsp.dispstat &^= hblankFlag
	dsp.line++
	if dsp.line >= LinesPerFrame {
		dsp.line = 0
	}

	var s Sync
	s.Line = dsp.line

	switch dsp.line {
	case VisibleLines:
		dsp.dispstat |= vblankFlag
		dsp.frame++
		s.VBlankStart = true
		if dsp.dispstat&vblankIRQ == vblankIRQ {
			irq.Request(interrupts.VBlank)
		}
	case LinesPerFrame - 1:
		// the flag is clear on the last line of vertical blank
		dsp.dispstat &^= vblankFlag
	}

	s.VideoCapture = dsp.line >= 2 && dsp.line < VisibleLines+2

	dsp.matchVCount(irq)

	if err := sched.Schedule(when+HBlankStart, scheduler.HBlank); err != nil {
		panic(err)
	}
	if err := sched.Schedule(when+CyclesPerLine, scheduler.LineEnd); err != nil {
		panic(err)
	}

	return s
}

func (dsp *Display) matchVCount(irq interrupts.Requester) {
	lyc := int(dsp.dispstat >> dispstatLYCBit)
	if dsp.line == lyc {
		dsp.dispstat |= vcountFlag
		if dsp.dispstat&vcountIRQ == vcountIRQ {
			irq.Request(interrupts.VCounter)
		}
	} else {
		dsp.dispstat &^= vcountFlag
	}
}

// ReadRegister returns the value of the register at the IO offset.
func (dsp *Display) ReadRegister(reg uint32) (uint16, bool) {
	switch reg {
	case RegDISPSTAT:
		return dsp.dispstat, true
	case RegVCOUNT:
		return uint16(dsp.line), true
	}
	return 0, false
}

// WriteRegister writes the register at the IO offset. Only the bits in the
// mask are affected. The flag bits of DISPSTAT and the VCOUNT register are
// read-only.
func (dsp *Display) WriteRegister(reg uint32, value uint16, mask uint16) bool {
	switch reg {
	case RegDISPSTAT:
		mask &= dispstatWrite
		dsp.dispstat = (dsp.dispstat &^ mask) | (value & mask)
	case RegVCOUNT:
	default:
		return false
	}
	return true
}

// Save display state.
func (dsp *Display) Save(e *savestate.Encoder) {
	e.Section("display")
	e.U16(uint16(dsp.line))
	e.U16(dsp.dispstat)
	e.Int(dsp.frame)
	e.U64(dsp.lineStart)
}

// Load display state.
func (dsp *Display) Load(d *savestate.Decoder) error {
	d.Section("display")
	dsp.line = int(d.U16())
	dsp.dispstat = d.U16()
	dsp.frame = d.Int()
	dsp.lineStart = d.U64()
	if dsp.line >= LinesPerFrame {
		d.Fail(curated.Errorf(savestate.BadValue, "display line out of range"))
	}
	return d.Err()
}
