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

package timers

import (
	"fmt"

	"github.com/jetsetilly/gopheradvance/hardware/interrupts"
	"github.com/jetsetilly/gopheradvance/hardware/savestate"
	"github.com/jetsetilly/gopheradvance/hardware/scheduler"
)

// NumTimers is the number of timers in the console.
const NumTimers = 4

// bits in the control register
const (
	prescalerMask = 0x0003
	cascadeBit    = 0x0004
	irqBit        = 0x0040
	enableBit     = 0x0080
	controlMask   = prescalerMask | cascadeBit | irqBit | enableBit
)

// number of cycles per tick for each prescaler selection
var prescalers = [4]uint64{1, 64, 256, 1024}

// Timer is a single hardware timer.
type Timer struct {
	Reload  uint16
	Control uint16

	// the value of the counter at the latch timestamp
	counter uint16
	latch   uint64
}

func (t Timer) String() string {
	return fmt.Sprintf("reload=%04x control=%04x counter=%04x", t.Reload, t.Control, t.counter)
}

func (t *Timer) enabled() bool {
	return t.Control&enableBit == enableBit
}

func (t *Timer) prescaler() uint64 {
	return prescalers[t.Control&prescalerMask]
}

// Timers is the set of four timers.
type Timers struct {
	timers [NumTimers]Timer
}

// NewTimers is the preferred method of initialisation for the Timers type.
func NewTimers() *Timers {
	return &Timers{}
}

func (tm *Timers) String() string {
	return fmt.Sprintf("0: %s\n1: %s\n2: %s\n3: %s", tm.timers[0], tm.timers[1], tm.timers[2], tm.timers[3])
}

// Reset all timers to the power-on state.
func (tm *Timers) Reset() {
	tm.timers = [NumTimers]Timer{}
}

// Timer returns a copy of the numbered timer.
func (tm *Timers) Timer(idx int) Timer {
	return tm.timers[idx]
}

// cascading returns true if the timer counts the overflows of the preceding
// timer rather than cycles.
func (tm *Timers) cascading(idx int) bool {
	return idx > 0 && tm.timers[idx].Control&cascadeBit == cascadeBit
}

// running returns true if the timer is counting cycles.
func (tm *Timers) running(idx int) bool {
	return tm.timers[idx].enabled() && !tm.cascading(idx)
}

// Counter returns the value of the counter at the given time.
func (tm *Timers) Counter(idx int, now uint64) uint16 {
	t := &tm.timers[idx]
	if !tm.running(idx) {
		return t.counter
	}
	ticks := (now - t.latch) / t.prescaler()

	// the overflow event may not have been dispatched yet
	toOverflow := 0x10000 - uint64(t.counter)
	if ticks >= toOverflow {
		ticks = (ticks - toOverflow) % (0x10000 - uint64(t.Reload))
		return t.Reload + uint16(ticks)
	}
	return t.counter + uint16(ticks)
}

// Period returns the number of cycles between overflows of a running timer.
func (tm *Timers) Period(idx int) uint64 {
	t := &tm.timers[idx]
	return (0x10000 - uint64(t.Reload)) * t.prescaler()
}

// SetReload sets the value loaded into the counter on overflow and when the
// timer is enabled. It does not change the counter.
func (tm *Timers) SetReload(idx int, value uint16) {
	tm.timers[idx].Reload = value
}

// Running returns true if the timer is enabled and counting cycles. Only a
// running timer has an overflow event in the scheduler.
func (tm *Timers) Running(idx int) bool {
	return tm.running(idx)
}

// SetControl writes the control register of the timer. A stale overflow
// event is always removed from the scheduler and a new one is scheduled if
// the timer is running.
//
// The write time can be later than the clock of the scheduler when the write
// happens during an instruction. Overflows due at or before the write time
// happen before the write.
func (tm *Timers) SetControl(idx int, value uint16, now uint64, sched *scheduler.Scheduler, irq interrupts.Requester) {
	t := &tm.timers[idx]

	if when, ok := sched.Scheduled(scheduler.TimerOverflow(idx)); ok && tm.running(idx) {
		for ; when <= now; when += tm.Period(idx) {
			t.counter = t.Reload
			t.latch = when
			tm.overflowed(idx, irq)
		}
	}

	// latch counter with the old settings
	t.counter = tm.Counter(idx, now)
	t.latch = now

	wasEnabled := t.enabled()
	t.Control = value & controlMask

	if !wasEnabled && t.enabled() {
		t.counter = t.Reload
	}

	sched.Cancel(scheduler.TimerOverflow(idx))
	if tm.running(idx) {
		next := now + (0x10000-uint64(t.counter))*t.prescaler()
		if err := sched.Schedule(next, scheduler.TimerOverflow(idx)); err != nil {
			panic(err)
		}
	}
}

// Overflow is called when the scheduler dispatches the overflow event of the
// timer. The overflow time is the timestamp of the event. Cascading timers
// following the timer are incremented and may overflow in turn.
func (tm *Timers) Overflow(idx int, when uint64, sched *scheduler.Scheduler, irq interrupts.Requester) {
	t := &tm.timers[idx]
	if !tm.running(idx) {
		panic(fmt.Sprintf("timers: overflow event for timer %d which is not running", idx))
	}

	t.counter = t.Reload
	t.latch = when
	if err := sched.Schedule(when+tm.Period(idx), scheduler.TimerOverflow(idx)); err != nil {
		panic(err)
	}

	tm.overflowed(idx, irq)
}

// overflowed raises the interrupt for the timer and increments the next timer
// if it is cascading.
func (tm *Timers) overflowed(idx int, irq interrupts.Requester) {
	if tm.timers[idx].Control&irqBit == irqBit {
		irq.Request(interrupts.TimerSource(idx))
	}

	next := idx + 1
	if next >= NumTimers || !tm.timers[next].enabled() || !tm.cascading(next) {
		return
	}

	n := &tm.timers[next]
	n.counter++
	if n.counter == 0 {
		n.counter = n.Reload
		tm.overflowed(next, irq)
	}
}

// Register addresses relative to the start of the IO window.
const (
	RegOrigin = 0x100
	RegMemtop = 0x10f
)

// ReadRegister returns the value of the register at the IO offset.
func (tm *Timers) ReadRegister(reg uint32, now uint64) (uint16, bool) {
	if reg < RegOrigin || reg > RegMemtop {
		return 0, false
	}
	idx := int(reg-RegOrigin) >> 2
	if reg&0x2 == 0 {
		return tm.Counter(idx, now), true
	}
	return tm.timers[idx].Control, true
}

// WriteRegister writes the register at the IO offset. Only the bits in the
// mask are affected.
func (tm *Timers) WriteRegister(reg uint32, value uint16, mask uint16, now uint64, sched *scheduler.Scheduler, irq interrupts.Requester) bool {
	if reg < RegOrigin || reg > RegMemtop {
		return false
	}
	idx := int(reg-RegOrigin) >> 2
	t := &tm.timers[idx]
	if reg&0x2 == 0 {
		tm.SetReload(idx, (t.Reload&^mask)|(value&mask))
	} else {
		tm.SetControl(idx, (t.Control&^mask)|(value&mask), now, sched, irq)
	}
	return true
}

// Save timer state.
func (tm *Timers) Save(e *savestate.Encoder) {
	e.Section("timers")
	for _, t := range tm.timers {
		e.U16(t.Reload)
		e.U16(t.Control)
		e.U16(t.counter)
		e.U64(t.latch)
	}
}

// Load timer state.
func (tm *Timers) Load(d *savestate.Decoder) error {
	d.Section("timers")
	for i := range tm.timers {
		t := &tm.timers[i]
		t.Reload = d.U16()
		t.Control = d.U16() & controlMask
		t.counter = d.U16()
		t.latch = d.U64()
	}
	return d.Err()
}
