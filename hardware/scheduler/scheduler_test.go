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

package scheduler_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/savestate"
	"github.com/jetsetilly/gopheradvance/hardware/scheduler"
	"github.com/jetsetilly/gopheradvance/test"
)

// recorder is a Dispatcher that remembers every event and can optionally
// schedule a follow up event.
type recorder struct {
	sched  *scheduler.Scheduler
	events []scheduler.Event
	now    []uint64
	follow func(ev scheduler.Event)
}

func (r *recorder) Dispatch(ev scheduler.Event) {
	r.events = append(r.events, ev)
	r.now = append(r.now, r.sched.Now())
	if r.follow != nil {
		r.follow(ev)
	}
}

func (r *recorder) kinds() []scheduler.Kind {
	k := make([]scheduler.Kind, 0, len(r.events))
	for _, ev := range r.events {
		k = append(k, ev.Kind)
	}
	return k
}

// permutations of the slice using Heap's algorithm.
func permutations(k []scheduler.Kind) [][]scheduler.Kind {
	var p [][]scheduler.Kind
	var generate func(n int)
	generate = func(n int) {
		if n == 1 {
			p = append(p, append([]scheduler.Kind(nil), k...))
			return
		}
		for i := 0; i < n; i++ {
			generate(n - 1)
			if n%2 == 0 {
				k[i], k[n-1] = k[n-1], k[i]
			} else {
				k[0], k[n-1] = k[n-1], k[0]
			}
		}
	}
	generate(len(k))
	return p
}

func TestPriorityOrder(t *testing.T) {
	priority := []scheduler.Kind{
		scheduler.Timer0Overflow,
		scheduler.Timer1Overflow,
		scheduler.Timer2Overflow,
		scheduler.Timer3Overflow,
		scheduler.DMAKick,
		scheduler.HBlank,
		scheduler.LineEnd,
	}

	perms := permutations(append([]scheduler.Kind(nil), priority...))
	test.DemandEquality(t, len(perms), 5040)

	for _, order := range perms {
		s := scheduler.NewScheduler()
		r := &recorder{sched: s}
		for _, k := range order {
			test.DemandSuccess(t, s.Schedule(100, k))
		}
		test.ExpectSuccess(t, s.AdvanceTo(100, r))
		test.DemandEquality(t, len(r.events), len(priority))
		for i, k := range r.kinds() {
			test.ExpectEquality(t, k, priority[i], order)
		}
	}
}

func TestTimestampOrder(t *testing.T) {
	s := scheduler.NewScheduler()
	r := &recorder{sched: s}

	test.ExpectSuccess(t, s.Schedule(30, scheduler.Timer0Overflow))
	test.ExpectSuccess(t, s.Schedule(10, scheduler.LineEnd))
	test.ExpectSuccess(t, s.Schedule(20, scheduler.HBlank))
	test.ExpectSuccess(t, s.Schedule(50, scheduler.DMAKick))

	test.ExpectSuccess(t, s.AdvanceTo(40, r))
	test.ExpectEquality(t, s.Now(), 40)
	test.DemandEquality(t, len(r.events), 3)
	test.ExpectEquality(t, r.events[0].Kind, scheduler.LineEnd)
	test.ExpectEquality(t, r.events[1].Kind, scheduler.HBlank)
	test.ExpectEquality(t, r.events[2].Kind, scheduler.Timer0Overflow)

	// the clock is at the timestamp of each event as it is dispatched
	test.ExpectEquality(t, r.now[0], 10)
	test.ExpectEquality(t, r.now[1], 20)
	test.ExpectEquality(t, r.now[2], 30)

	ev, ok := s.Peek()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, ev.Kind, scheduler.DMAKick)
}

func TestSameKindFIFO(t *testing.T) {
	s := scheduler.NewScheduler()
	r := &recorder{sched: s}

	test.ExpectSuccess(t, s.Schedule(5, scheduler.DMAKick))
	test.ExpectSuccess(t, s.Schedule(5, scheduler.DMAKick))
	p := s.Pending()
	test.DemandEquality(t, len(p), 2)

	s.Settle(5, r)
	test.ExpectEquality(t, len(r.events), 2)
	test.ExpectEquality(t, len(s.Pending()), 0)
}

func TestDeferredDispatch(t *testing.T) {
	s := scheduler.NewScheduler()
	r := &recorder{sched: s}

	// the timer event schedules a DMA kick for the same cycle and the next
	// timer overflow further ahead
	r.follow = func(ev scheduler.Event) {
		if ev.Kind == scheduler.Timer0Overflow {
			test.ExpectSuccess(t, s.Schedule(s.Now(), scheduler.DMAKick))
			s.ScheduleRelative(10, scheduler.Timer0Overflow)
		}
	}

	test.ExpectSuccess(t, s.Schedule(5, scheduler.Timer0Overflow))
	test.ExpectSuccess(t, s.Schedule(8, scheduler.HBlank))

	// the newly scheduled DMA kick is not dispatched in the same call
	test.ExpectFailure(t, s.AdvanceTo(12, r))
	test.ExpectEquality(t, s.Now(), 5)
	test.ExpectEquality(t, len(r.events), 1)

	test.ExpectSuccess(t, s.AdvanceTo(12, r))
	test.ExpectEquality(t, s.Now(), 12)
	test.DemandEquality(t, len(r.events), 3)
	test.ExpectEquality(t, r.events[1].Kind, scheduler.DMAKick)
	test.ExpectEquality(t, r.now[1], 5)
	test.ExpectEquality(t, r.events[2].Kind, scheduler.HBlank)

	// Settle() loops until the target is reached
	s.Settle(40, r)
	test.ExpectEquality(t, s.Now(), 40)
	test.ExpectEquality(t, r.kinds()[len(r.kinds())-1], scheduler.DMAKick)
	when, ok := s.Scheduled(scheduler.Timer0Overflow)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, when, 45)
}

func TestPastEvent(t *testing.T) {
	s := scheduler.NewScheduler()
	r := &recorder{sched: s}
	s.Settle(100, r)

	err := s.Schedule(99, scheduler.HBlank)
	test.ExpectSuccess(t, curated.Is(err, scheduler.PastEvent))

	// the current cycle is allowed
	test.ExpectSuccess(t, s.Schedule(100, scheduler.HBlank))
}

func TestClockBackwards(t *testing.T) {
	s := scheduler.NewScheduler()
	r := &recorder{sched: s}
	s.Settle(100, r)

	defer func() {
		test.ExpectInequality(t, recover(), nil)
	}()
	s.AdvanceTo(50, r)
}

func TestCancel(t *testing.T) {
	s := scheduler.NewScheduler()
	r := &recorder{sched: s}

	for i := range 8 {
		s.ScheduleRelative(uint64(10+i), scheduler.Timer1Overflow)
		s.ScheduleRelative(uint64(10+i), scheduler.Timer2Overflow)
	}
	test.ExpectEquality(t, s.Cancel(scheduler.Timer1Overflow), 8)
	test.ExpectEquality(t, s.Cancel(scheduler.Timer1Overflow), 0)
	_, ok := s.Scheduled(scheduler.Timer1Overflow)
	test.ExpectFailure(t, ok)

	s.Settle(100, r)
	test.ExpectEquality(t, len(r.events), 8)
	for _, k := range r.kinds() {
		test.ExpectEquality(t, k, scheduler.Timer2Overflow)
	}
}

func TestSaveLoad(t *testing.T) {
	s := scheduler.NewScheduler()
	r := &recorder{sched: s}
	s.Settle(1000, r)
	s.ScheduleRelative(5, scheduler.LineEnd)
	s.ScheduleRelative(5, scheduler.Timer0Overflow)
	s.ScheduleRelative(300, scheduler.HBlank)

	e := savestate.NewEncoder()
	s.Save(e)

	l := scheduler.NewScheduler()
	test.DemandSuccess(t, l.Load(savestate.NewDecoder(e.Bytes())))
	test.ExpectEquality(t, l.Now(), 1000)

	e2 := savestate.NewEncoder()
	l.Save(e2)
	test.ExpectEquality(t, string(e2.Bytes()), string(e.Bytes()))

	// the loaded scheduler dispatches in the same order
	rl := &recorder{sched: l}
	l.Settle(2000, rl)
	s.Settle(2000, r)
	test.ExpectEquality(t, len(rl.events), 3)
	test.ExpectEquality(t, rl.events[0].Kind, scheduler.Timer0Overflow)
	test.ExpectEquality(t, rl.events[1].Kind, scheduler.LineEnd)
	test.ExpectEquality(t, rl.events[2].Kind, scheduler.HBlank)

	// truncated data is an error
	test.ExpectFailure(t, scheduler.NewScheduler().Load(savestate.NewDecoder(e.Bytes()[:20])))
}
