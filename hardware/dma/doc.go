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

// Package dma implements the four DMA channels.
//
// A channel is armed when the enable bit of its control register changes from
// zero to one. Arming latches the source, destination and count into the
// internal registers of the channel. An armed channel waits for its trigger
// with Notify(). Channels with immediate timing are pending as soon as they
// are armed.
//
// Pending transfers are performed by Service(), one transfer per call, in
// channel priority order. Channel 0 has the highest priority. Every unit of
// a transfer goes through the Memory interface and costs the same as a CPU
// access would.
package dma
