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

// Package logger is the central log repository for the emulator. Log entries
// are tagged with a short string indicating the part of the emulation that
// made the entry. For example:
//
//	logger.Logf(logger.Allow, "dma", "channel %d: invalid timing", ch)
//
// Log entries that are identical to the previous entry are folded into a
// single entry with a repeat count. The package level functions log to the
// central logger but independent logs can be created with NewLogger().
//
// The Permission interface is used to control whether a log entry should be
// made. logger.Allow can be used when an entry should always be made.
package logger
