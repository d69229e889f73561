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

package dma

import (
	"fmt"

	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
)

// Trigger is the condition that starts a transfer. The first four values are
// the timing field of the control register.
type Trigger int

// List of valid Trigger values.
const (
	Immediate Trigger = iota
	VBlank
	HBlank

	// special timing for channels 1 and 2 is a request from the sound FIFO
	Special

	// special timing for channel 3 is the video capture request. it is
	// notified separately from the sound FIFO requests
	VideoCapture
)

func (t Trigger) String() string {
	switch t {
	case Immediate:
		return "immediate"
	case VBlank:
		return "vblank"
	case HBlank:
		return "hblank"
	case Special:
		return "special"
	case VideoCapture:
		return "video capture"
	}
	return fmt.Sprintf("trigger(%d)", int(t))
}

// Adjust is how an address changes after each unit of a transfer.
type Adjust int

// List of valid Adjust values.
const (
	Increment Adjust = iota
	Decrement
	Fixed

	// for the destination address, increment and reload the address when a
	// repeating transfer restarts. for the source address this value is
	// prohibited and is treated as Increment
	IncrementReload
)

func (a Adjust) String() string {
	switch a {
	case Increment:
		return "inc"
	case Decrement:
		return "dec"
	case Fixed:
		return "fixed"
	case IncrementReload:
		return "inc/reload"
	}
	return "unknown"
}

// bits in the control register
const (
	destAdjustShift = 5
	srcAdjustShift  = 7
	repeatBit       = 0x0200
	wordBit         = 0x0400
	drqBit          = 0x0800
	timingShift     = 12
	irqBit          = 0x4000
	enableBit       = 0x8000
	controlMask     = 0xffe0
)

// Channel is a single DMA channel.
type Channel struct {
	// programmed values
	Source  uint32
	Dest    uint32
	Count   uint16
	Control uint16

	// internal values latched on arming and updated during transfers
	src     uint32
	dst     uint32
	count   uint32
	pending bool
}

func (c Channel) String() string {
	return fmt.Sprintf("%08x -> %08x (%d %s) %s", c.src, c.dst, c.count, c.Width(), c.Timing())
}

// Enabled returns true if the channel's enable bit is set.
func (c Channel) Enabled() bool {
	return c.Control&enableBit == enableBit
}

// Pending returns true if the channel is waiting to transfer.
func (c Channel) Pending() bool {
	return c.pending
}

// Timing returns the trigger in the control register.
func (c Channel) Timing() Trigger {
	return Trigger((c.Control >> timingShift) & 0x3)
}

// Width returns the unit width of the transfer.
func (c Channel) Width() memorymap.Width {
	if c.Control&wordBit == wordBit {
		return memorymap.Word
	}
	return memorymap.Halfword
}

// DestAdjust returns how the destination address changes.
func (c Channel) DestAdjust() Adjust {
	return Adjust((c.Control >> destAdjustShift) & 0x3)
}

// SourceAdjust returns how the source address changes.
func (c Channel) SourceAdjust() Adjust {
	a := Adjust((c.Control >> srcAdjustShift) & 0x3)
	if a == IncrementReload {
		return Increment
	}
	return a
}

// Repeat returns true if the channel stays armed after a transfer.
func (c Channel) Repeat() bool {
	return c.Control&repeatBit == repeatBit
}

// Internal returns the internal source, destination and remaining count.
func (c Channel) Internal() (uint32, uint32, uint32) {
	return c.src, c.dst, c.count
}
