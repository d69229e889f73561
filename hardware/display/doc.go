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

// Package display implements the timing of the display. No pixels are
// produced. The display schedules two events for every line: the start of
// horizontal blank and the end of the line. These events drive the DISPSTAT
// and VCOUNT registers, the display interrupts and the DMA sync points.
//
// The frame boundary is the start of vertical blank.
package display
