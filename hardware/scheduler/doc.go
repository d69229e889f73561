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

// Package scheduler holds the global cycle clock and the queue of timed
// hardware events.
//
// Events are dispatched in ascending order of timestamp. Events with the same
// timestamp are dispatched in the order of their Kind, with the lowest value
// first. Events with the same timestamp and Kind are dispatched in the order
// they were scheduled.
//
// Dispatch is performed by AdvanceTo(). The Dispatcher it is given may
// schedule new events. AdvanceTo() never dispatches an event that was
// scheduled during the same call. Instead it stops with the clock at the
// timestamp of the last event it dispatched and returns false. The caller
// should call AdvanceTo() again, which is exactly what Settle() does.
//
// This keeps dispatch free of recursion while preserving the exact ordering
// of events, including events scheduled for the current cycle.
package scheduler
