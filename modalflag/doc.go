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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It adds the concept of modes to command line parsing.
//
// A mode is a word on the command line that selects the behaviour of the
// program. For example, the gopheradvance program has a RUN mode and a DUMP
// mode:
//
//	gopheradvance run -frames 100 game.gba
//	gopheradvance dump -out mem.dot game.gba
//
// Each mode has its own set of flags. Flags are added to the Modes type in
// the same way as with the flag package, with the Add*() functions, and then
// Parse() is called. The list of sub-modes for the next Parse() is specified
// with AddSubModes(). The first sub-mode in the list is the default sub-mode
// and is chosen if no sub-mode is present on the command line.
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "DUMP")
//
//	p, err := md.Parse()
//	switch p {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		frames := md.AddInt("frames", 0, "number of frames to run")
//		...
//	}
//
// Sub-mode matching is case insensitive. Help messages are generated
// automatically when the -help flag is given. Help is written to the Output
// field of the Modes type.
package modalflag
