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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface and are created with the
// Errorf() function, which takes a pattern string and placeholder values.
//
// The pattern identifies the error. Patterns that are checked for elsewhere
// in the program should be stored as exported const strings. For example,
// the scheduler package exports:
//
//	const PastEvent = "scheduler: event %v at %d is behind the clock (%d)"
//
// and the caller checks for it with:
//
//	if curated.Is(err, scheduler.PastEvent) {
//		...
//	}
//
// The Has() function is similar but checks whether the pattern occurs
// anywhere in a chain of curated errors. IsAny() answers whether an error
// was created by Errorf() at all, which is useful for separating expected
// errors from unexpected ones.
//
// The Error() function normalises the message so that duplicate adjacent
// parts are removed. Parts are separated by the sub-string ": ". This means
// a function can wrap the errors returned by the functions it calls without
// the message growing with repeated prefixes. For example, wrapping
//
//	curated.Errorf("savestate: %v", curated.Errorf("savestate: truncated"))
//
// results in the message:
//
//	savestate: truncated
package curated
