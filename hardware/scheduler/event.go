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
	"fmt"
)

// Kind identifies the subsystem and the reason for an event. The numeric value
// of a Kind is its dispatch priority when events share a timestamp. Lower
// values are dispatched first.
type Kind int

// List of valid Kind values in priority order.
const (
	Timer0Overflow Kind = iota
	Timer1Overflow
	Timer2Overflow
	Timer3Overflow
	DMAKick
	HBlank
	LineEnd

	numKinds
)

func (k Kind) String() string {
	switch k {
	case Timer0Overflow:
		return "timer0 overflow"
	case Timer1Overflow:
		return "timer1 overflow"
	case Timer2Overflow:
		return "timer2 overflow"
	case Timer3Overflow:
		return "timer3 overflow"
	case DMAKick:
		return "dma kick"
	case HBlank:
		return "hblank"
	case LineEnd:
		return "line end"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// TimerOverflow returns the Kind for the overflow of the numbered timer.
func TimerOverflow(idx int) Kind {
	return Timer0Overflow + Kind(idx)
}

// Event is a single scheduled hardware event.
type Event struct {
	When uint64
	Kind Kind

	// order of scheduling. used to break ties between events of the same
	// kind at the same timestamp
	seq uint64
}

func (ev Event) String() string {
	return fmt.Sprintf("%s @ %d", ev.Kind, ev.When)
}

// before is the dispatch order comparator.
func (ev Event) before(o Event) bool {
	if ev.When != o.When {
		return ev.When < o.When
	}
	if ev.Kind != o.Kind {
		return ev.Kind < o.Kind
	}
	return ev.seq < o.seq
}

// Dispatcher is implemented by the type that routes events to the hardware.
type Dispatcher interface {
	Dispatch(ev Event)
}

// queue implements heap.Interface.
type queue []Event

func (q queue) Len() int           { return len(q) }
func (q queue) Less(i, j int) bool { return q[i].before(q[j]) }
func (q queue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) {
	*q = append(*q, x.(Event))
}

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	*q = old[:n-1]
	return ev
}
