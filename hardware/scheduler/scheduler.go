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

package scheduler

import (
	"container/heap"
	"fmt"
	"slices"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/savestate"
)

// PastEvent is returned when an event is scheduled behind the clock.
const PastEvent = "scheduler: event %v at %d is behind the clock (%d)"

// Scheduler is the global cycle clock and the queue of pending events.
type Scheduler struct {
	now   uint64
	queue queue
	seq   uint64
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type.
func NewScheduler() *Scheduler {
	return &Scheduler{
		queue: make(queue, 0, 16),
	}
}

func (s *Scheduler) String() string {
	return fmt.Sprintf("cycle %d (%d pending)", s.now, len(s.queue))
}

// Reset the clock to zero and remove all pending events.
func (s *Scheduler) Reset() {
	s.now = 0
	s.seq = 0
	s.queue = s.queue[:0]
}

// Now returns the current value of the clock.
func (s *Scheduler) Now() uint64 {
	return s.now
}

// Schedule an event. An event may be scheduled for the current cycle but not
// for a cycle that has already passed.
func (s *Scheduler) Schedule(when uint64, kind Kind) error {
	if when < s.now {
		return curated.Errorf(PastEvent, kind, when, s.now)
	}
	heap.Push(&s.queue, Event{When: when, Kind: kind, seq: s.seq})
	s.seq++
	return nil
}

// ScheduleRelative schedules an event delta cycles from now. This can never
// fail.
func (s *Scheduler) ScheduleRelative(delta uint64, kind Kind) {
	heap.Push(&s.queue, Event{When: s.now + delta, Kind: kind, seq: s.seq})
	s.seq++
}

// Cancel removes every pending event of the kind. Returns the number of
// events removed.
func (s *Scheduler) Cancel(kind Kind) int {
	n := 0
	kept := s.queue[:0]
	for _, ev := range s.queue {
		if ev.Kind == kind {
			n++
			continue // for loop
		}
		kept = append(kept, ev)
	}
	s.queue = kept
	if n > 0 {
		heap.Init(&s.queue)
	}
	return n
}

// Scheduled returns the timestamp of the earliest pending event of the kind.
func (s *Scheduler) Scheduled(kind Kind) (uint64, bool) {
	var found bool
	var when uint64
	for _, ev := range s.queue {
		if ev.Kind == kind && (!found || ev.When < when) {
			when = ev.When
			found = true
		}
	}
	return when, found
}

// Peek returns the next event to be dispatched.
func (s *Scheduler) Peek() (Event, bool) {
	if len(s.queue) == 0 {
		return Event{}, false
	}
	return s.queue[0], true
}

// Pending returns a copy of the pending events in dispatch order.
func (s *Scheduler) Pending() []Event {
	p := slices.Clone(s.queue)
	slices.SortFunc(p, func(a, b Event) int {
		if a.before(b) {
			return -1
		}
		if b.before(a) {
			return 1
		}
		return 0
	})
	return p
}

// AdvanceTo moves the clock forward to the target, dispatching every event
// with a timestamp at or before the target.
//
// Events scheduled by the Dispatcher during the call are not dispatched. If
// such an event is due before or at the target, AdvanceTo() stops with the
// clock at the timestamp of the most recently dispatched event and returns
// false. Returns true if the clock reached the target.
//
// Panics if the target is behind the clock.
func (s *Scheduler) AdvanceTo(target uint64, d Dispatcher) bool {
	if target < s.now {
		panic(fmt.Sprintf("scheduler: clock moving backwards from %d to %d", s.now, target))
	}

	// events with a sequence number at or above the limit were scheduled
	// during this call
	limit := s.seq

	for len(s.queue) > 0 {
		ev := s.queue[0]
		if ev.When > target {
			break // for loop
		}
		if ev.seq >= limit {
			return false
		}
		heap.Pop(&s.queue)
		s.now = ev.When
		d.Dispatch(ev)
	}

	s.now = target
	return true
}

// Settle calls AdvanceTo() until the clock reaches the target.
func (s *Scheduler) Settle(target uint64, d Dispatcher) {
	for !s.AdvanceTo(target, d) {
	}
}

// Save the scheduler state.
func (s *Scheduler) Save(e *savestate.Encoder) {
	e.Section("scheduler")
	e.U64(s.now)
	e.U64(s.seq)
	p := s.Pending()
	e.U32(uint32(len(p)))
	for _, ev := range p {
		e.U64(ev.When)
		e.U8(uint8(ev.Kind))
		e.U64(ev.seq)
	}
}

// the largest queue that can be loaded. there is at most one event of each
// kind in normal operation
const maxLoadedEvents = 256

// Load the scheduler state.
func (s *Scheduler) Load(d *savestate.Decoder) error {
	d.Section("scheduler")
	now := d.U64()
	seq := d.U64()
	n := int(d.U32())
	if d.Err() != nil {
		return d.Err()
	}
	if n > maxLoadedEvents {
		return curated.Errorf(savestate.BadValue, "too many scheduled events")
	}

	q := make(queue, 0, max(n, 16))
	for range n {
		ev := Event{
			When: d.U64(),
			Kind: Kind(d.U8()),
			seq:  d.U64(),
		}
		if ev.Kind < 0 || ev.Kind >= numKinds {
			d.Fail(curated.Errorf(savestate.BadValue, "unknown event kind"))
		}
		if ev.When < now || ev.seq >= seq {
			d.Fail(curated.Errorf(savestate.BadValue, "impossible event"))
		}
		q = append(q, ev)
	}
	if d.Err() != nil {
		return d.Err()
	}

	heap.Init(&q)
	s.now = now
	s.seq = seq
	s.queue = q
	return nil
}
