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

// Package timers implements the four 16bit hardware timers.
//
// A running timer does not tick. Instead the counter is latched along with
// the timestamp of the latch, and the current value of the counter is
// calculated from the difference between the current time and the latch
// time. The only event a timer schedules is its next overflow.
//
// Cascading timers (count-up timers) never schedule events. They are
// incremented by the overflow of the preceding timer and their own overflow
// is handled in the same call, so that a chain of timers can overflow in the
// same cycle. Timer 0 cannot cascade.
package timers
