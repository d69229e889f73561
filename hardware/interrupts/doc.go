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

// Package interrupts implements the interrupt controller. The controller only
// holds the enable (IE), request (IF) and master enable (IME) state. Entry
// into the IRQ exception is performed by the CPU.
//
// Subsystems that raise interrupts are given a Requester when they need one.
// They never keep a reference to the controller.
package interrupts
