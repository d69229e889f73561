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

// Package savestate implements the byte level encoding used by save-state
// snapshots. All values are little-endian.
//
// The Encoder appends values to a growing byte slice. The Decoder reads
// values in the same order. Errors in the Decoder are sticky: after the first
// error every read returns the zero value and Err() returns the error. This
// means a sequence of reads can be checked once at the end.
//
// Sections are named markers that help to detect a snapshot that is out of
// step with the decoding code.
package savestate
