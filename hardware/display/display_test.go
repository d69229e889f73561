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

package display_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/display"
	"github.com/jetsetilly/gopheradvance/hardware/interrupts"
	"github.com/jetsetilly/gopheradvance/hardware/savestate"
	"github.com/jetsetilly/gopheradvance/hardware/scheduler"
	"github.com/jetsetilly/gopheradvance/test"
)

type harness struct {
	sched   *scheduler.Scheduler
	dsp     *display.Display
	irq     *interrupts.Controller
	visible int
	capture int
	vblanks []uint64
}

func newHarness() *harness {
	h := &harness{
		sched: scheduler.NewScheduler(),
		dsp:   display.NewDisplay(),
		irq:   interrupts.NewController(),
	}
	h.dsp.Reset(0, h.sched)
	return h
}

func (h *harness) Dispatch(ev scheduler.Event) {
	switch ev.Kind {
	case scheduler.HBlank:
		if h.dsp.HBlank(h.irq) {
			h.visible++
		}
	case scheduler.LineEnd:
		s := h.dsp.LineEnd(ev.When, h.sched, h.irq)
		if s.VBlankStart {
			h.vblanks = append(h.vblanks, ev.When)
		}
		if s.VideoCapture {
			h.capture++
		}
	}
}

func TestFrameTiming(t *testing.T) {
	h := newHarness()

	h.sched.Settle(display.CyclesPerFrame*2, h)
	test.ExpectEquality(t, h.dsp.Frame(), 2)
	test.DemandEquality(t, len(h.vblanks), 2)
	test.ExpectEquality(t, h.vblanks[0], display.CyclesPerLine*display.VisibleLines)
	test.ExpectEquality(t, h.vblanks[1], display.CyclesPerFrame+display.CyclesPerLine*display.VisibleLines)

	// hblank DMA is only for visible lines
	test.ExpectEquality(t, h.visible, display.VisibleLines*2)

	// video capture lines 2 to 161
	test.ExpectEquality(t, h.capture, 160*2)

	// end of the second frame is the start of line 0
	test.ExpectEquality(t, h.dsp.Line(), 0)
}

func TestFlags(t *testing.T) {
	h := newHarness()

	h.sched.Settle(display.HBlankStart, h)
	v, _ := h.dsp.ReadRegister(display.RegDISPSTAT)
	test.ExpectEquality(t, v&0x0002, 0x0002)

	h.sched.Settle(display.CyclesPerLine, h)
	v, _ = h.dsp.ReadRegister(display.RegDISPSTAT)
	test.ExpectEquality(t, v&0x0002, 0)
	v, _ = h.dsp.ReadRegister(display.RegVCOUNT)
	test.ExpectEquality(t, v, 1)

	h.sched.Settle(display.CyclesPerLine*display.VisibleLines, h)
	test.ExpectSuccess(t, h.dsp.InVBlank())

	// the flag is clear on the last line
	h.sched.Settle(display.CyclesPerLine*(display.LinesPerFrame-1), h)
	test.ExpectFailure(t, h.dsp.InVBlank())
}

func TestInterrupts(t *testing.T) {
	h := newHarness()

	// vblank, hblank and vcount IRQs with LYC of 3
	h.dsp.WriteRegister(display.RegDISPSTAT, 0x0338, 0xffff)
	v, _ := h.dsp.ReadRegister(display.RegDISPSTAT)
	test.ExpectEquality(t, v, 0x0338)

	h.sched.Settle(display.HBlankStart, h)
	test.ExpectEquality(t, h.irq.IF, uint16(interrupts.HBlank))
	h.irq.Acknowledge(0xffff)

	h.sched.Settle(display.CyclesPerLine*3, h)
	test.ExpectEquality(t, h.irq.IF&uint16(interrupts.VCounter), uint16(interrupts.VCounter))
	v, _ = h.dsp.ReadRegister(display.RegDISPSTAT)
	test.ExpectEquality(t, v&0x0004, 0x0004)
	h.irq.Acknowledge(0xffff)

	h.sched.Settle(display.CyclesPerLine*display.VisibleLines, h)
	test.ExpectEquality(t, h.irq.IF&uint16(interrupts.VBlank), uint16(interrupts.VBlank))
}

func TestReadOnly(t *testing.T) {
	h := newHarness()
	h.dsp.WriteRegister(display.RegDISPSTAT, 0x0007, 0xffff)
	v, _ := h.dsp.ReadRegister(display.RegDISPSTAT)
	test.ExpectEquality(t, v, 0)
	h.dsp.WriteRegister(display.RegVCOUNT, 100, 0xffff)
	test.ExpectEquality(t, h.dsp.Line(), 0)
}

func TestSaveLoad(t *testing.T) {
	h := newHarness()
	h.sched.Settle(display.CyclesPerFrame+1000, h)

	e := savestate.NewEncoder()
	h.dsp.Save(e)

	l := display.NewDisplay()
	test.DemandSuccess(t, l.Load(savestate.NewDecoder(e.Bytes())))
	test.ExpectEquality(t, *l, *h.dsp)
}
