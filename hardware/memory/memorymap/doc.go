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

// Package memorymap describes the address space of the console. It decodes
// addresses into areas and primary (unmirrored) offsets.
//
// Every address in the 32bit space maps to exactly one Area. Addresses that
// have no backing store map to the Unmapped area and a read of such an
// address returns the open bus value.
//
// The Area of an address is found with a switch on the top byte of the
// address. The Summary() function lists the layout in a human readable form.
package memorymap
