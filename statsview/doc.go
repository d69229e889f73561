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

// Package statsview runs a HTTP server on the local machine showing runtime
// statistics of the emulator process. It is useful for watching the
// allocation behaviour of the emulation loop.
//
// The package is only functional when built with the statsview build tag.
// The -statsview flag of the RUN mode launches the server. Graphs will be
// viewable at:
//
//	localhost:12680/debug/statsview
//
// And the standard Go pprof statistics at:
//
//	localhost:12680/debug/pprof/
package statsview
