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
	"strings"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/interrupts"
	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
	"github.com/jetsetilly/gopheradvance/hardware/savestate"
	"github.com/jetsetilly/gopheradvance/logger"
)

// InvalidTrigger is returned by Arm() for a timing the channel cannot use.
const InvalidTrigger = "dma: channel %d cannot use %s timing"

// NumChannels is the number of DMA channels.
const NumChannels = 4

// Memory is the interface the DMA engine uses to transfer data. The returned
// ints are the cost of the access in cycles.
type Memory interface {
	Read(addr uint32, width memorymap.Width, kind memorymap.Access) (uint32, int)
	Write(addr uint32, width memorymap.Width, value uint32, kind memorymap.Access) int
}

// address and count masks for each channel. channel 0 can only access
// internal memory and only channel 3 can write to the cartridge
var (
	sourceMask = [NumChannels]uint32{0x07ffffff, 0x0fffffff, 0x0fffffff, 0x0fffffff}
	destMask   = [NumChannels]uint32{0x07ffffff, 0x07ffffff, 0x07ffffff, 0x0fffffff}
	countMask  = [NumChannels]uint16{0x3fff, 0x3fff, 0x3fff, 0xffff}
	maxCount   = [NumChannels]uint32{0x4000, 0x4000, 0x4000, 0x10000}
)

// number of internal cycles added to every transfer
const transferOverhead = 2

// the number of words transferred by a sound FIFO request
const fifoUnits = 4

// Engine is the set of four DMA channels.
type Engine struct {
	channels [NumChannels]Channel

	// the last value transferred. reads from memory that DMA cannot access
	// return this value
	latch uint32

	// the most recent failure to arm a channel by writing the control
	// register
	armErr error
}

// NewEngine is the preferred method of initialisation for the Engine type.
func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) String() string {
	s := strings.Builder{}
	for i, c := range e.channels {
		if c.Enabled() {
			s.WriteString(fmt.Sprintf("%d: %s\n", i, c))
		} else {
			s.WriteString(fmt.Sprintf("%d: disabled\n", i))
		}
	}
	return s.String()
}

// Reset all channels to the power-on state.
func (e *Engine) Reset() {
	e.channels = [NumChannels]Channel{}
	e.latch = 0
	e.armErr = nil
}

// ArmError returns the error from the most recent failed attempt to arm a
// channel through the control register. The error is forgotten once it has
// been returned.
func (e *Engine) ArmError() error {
	err := e.armErr
	e.armErr = nil
	return err
}

// Channel returns a copy of the numbered channel.
func (e *Engine) Channel(ch int) Channel {
	return e.channels[ch]
}

// normalisedCount returns the programmed count of the channel with a count
// of zero meaning the maximum length.
func (e *Engine) normalisedCount(ch int) uint32 {
	n := uint32(e.channels[ch].Count & countMask[ch])
	if n == 0 {
		return maxCount[ch]
	}
	return n
}

// Arm latches the programmed registers of the channel into the internal
// registers. A channel with immediate timing is made pending. If the timing
// is not possible for the channel the enable bit is cleared and an error is
// returned.
func (e *Engine) Arm(ch int) error {
	c := &e.channels[ch]
	if ch == 0 && c.Timing() == Special {
		c.Control &^= enableBit
		c.pending = false
		return curated.Errorf(InvalidTrigger, ch, Special)
	}

	c.src = c.Source & sourceMask[ch]
	c.dst = c.Dest & destMask[ch]
	c.count = e.normalisedCount(ch)
	c.pending = c.Timing() == Immediate
	return nil
}

// triggeredBy returns true if the channel is waiting for the trigger.
func (e *Engine) triggeredBy(ch int, trigger Trigger) bool {
	c := &e.channels[ch]
	switch trigger {
	case Immediate:
		return false
	case Special:
		return (ch == 1 || ch == 2) && c.Timing() == Special
	case VideoCapture:
		return ch == 3 && c.Timing() == Special
	}
	return c.Timing() == trigger
}

// Notify makes pending every armed channel that is waiting for the trigger.
// Returns true if any channel is now pending.
func (e *Engine) Notify(trigger Trigger) bool {
	var n bool
	for ch := range e.channels {
		c := &e.channels[ch]
		if c.Enabled() && e.triggeredBy(ch, trigger) {
			c.pending = true
			n = true
		}
	}
	return n
}

// Pending returns true if any channel is waiting to transfer.
func (e *Engine) Pending() bool {
	for _, c := range e.channels {
		if c.pending {
			return true
		}
	}
	return false
}

func adjust(addr uint32, a Adjust, unit uint32) uint32 {
	switch a {
	case Decrement:
		return addr - unit
	case Fixed:
		return addr
	}
	return addr + unit
}

// Service performs the transfer of the highest priority pending channel.
// Returns the number of cycles consumed, which is zero if no channel was
// pending.
func (e *Engine) Service(mem Memory, irq interrupts.Requester) int {
	for ch := range e.channels {
		if e.channels[ch].pending {
			return e.transfer(ch, mem, irq)
		}
	}
	return 0
}

func (e *Engine) transfer(ch int, mem Memory, irq interrupts.Requester) int {
	c := &e.channels[ch]
	c.pending = false

	width := c.Width()
	count := c.count

	// sound FIFO requests are always four words to a fixed destination
	fifo := (ch == 1 || ch == 2) && c.Timing() == Special
	if fifo {
		width = memorymap.Word
		count = fifoUnits
	}

	unit := uint32(width)
	srcAdj := c.SourceAdjust()
	dstAdj := c.DestAdjust()
	if fifo {
		dstAdj = Fixed
	}

	cycles := transferOverhead
	kind := memorymap.NonSequential

	for range count {
		var v uint32

		src := width.Align(c.src)
		if src >= memorymap.OriginEWRAM {
			var cost int
			v, cost = mem.Read(src, width, kind)
			cycles += cost
			if width == memorymap.Halfword {
				e.latch = v | (v << 16)
			} else {
				e.latch = v
			}
		} else {
			// source is not accessible to DMA
			cycles++
			v = e.latch
			if width == memorymap.Halfword {
				v = (v >> ((c.dst & 0x2) * 8)) & 0xffff
			}
		}

		cycles += mem.Write(width.Align(c.dst), width, v, kind)
		kind = memorymap.Sequential

		c.src = adjust(c.src, srcAdj, unit)
		c.dst = adjust(c.dst, dstAdj, unit)
	}

	if c.Control&irqBit == irqBit {
		irq.Request(interrupts.DMASource(ch))
	}

	if c.Repeat() && c.Timing() != Immediate {
		c.count = e.normalisedCount(ch)
		if c.DestAdjust() == IncrementReload {
			c.dst = c.Dest & destMask[ch]
		}
	} else {
		c.Control &^= enableBit
	}

	return cycles
}

// Register addresses relative to the start of the IO window. Each channel
// has twelve bytes of registers.
const (
	RegOrigin = 0x0b0
	RegMemtop = 0x0df

	regChannelSize = 12
)

// ReadRegister returns the value of the register at the IO offset. Only the
// control register can be read. The other registers read as zero.
func (e *Engine) ReadRegister(reg uint32) (uint16, bool) {
	if reg < RegOrigin || reg > RegMemtop {
		return 0, false
	}
	ch := int(reg-RegOrigin) / regChannelSize
	if (reg-RegOrigin)%regChannelSize == 10 {
		return e.channels[ch].Control, true
	}
	return 0, true
}

// WriteRegister writes the register at the IO offset. Only the bits in the
// mask are affected. Setting the enable bit arms the channel. An invalid
// configuration leaves the channel disabled and the error is kept for
// ArmError().
func (e *Engine) WriteRegister(reg uint32, value uint16, mask uint16) bool {
	if reg < RegOrigin || reg > RegMemtop {
		return false
	}

	ch := int(reg-RegOrigin) / regChannelSize
	c := &e.channels[ch]

	value &= mask
	wide := uint32(value)
	wideMask := uint32(mask)

	switch (reg - RegOrigin) % regChannelSize {
	case 0:
		c.Source = (c.Source &^ wideMask) | wide
	case 2:
		c.Source = (c.Source &^ (wideMask << 16)) | (wide << 16)
	case 4:
		c.Dest = (c.Dest &^ wideMask) | wide
	case 6:
		c.Dest = (c.Dest &^ (wideMask << 16)) | (wide << 16)
	case 8:
		c.Count = (c.Count &^ mask) | value
	case 10:
		wasEnabled := c.Enabled()
		c.Control = ((c.Control &^ mask) | value) & controlMask
		if !wasEnabled && c.Enabled() {
			if err := e.Arm(ch); err != nil {
				logger.Log(logger.Allow, "dma", err)
				e.armErr = err
			}
		} else if !c.Enabled() {
			c.pending = false
		}
	}

	return true
}

// Save DMA state.
func (e *Engine) Save(enc *savestate.Encoder) {
	enc.Section("dma")
	for _, c := range e.channels {
		enc.U32(c.Source)
		enc.U32(c.Dest)
		enc.U16(c.Count)
		enc.U16(c.Control)
		enc.U32(c.src)
		enc.U32(c.dst)
		enc.U32(c.count)
		enc.Bool(c.pending)
	}
	enc.U32(e.latch)
}

// Load DMA state.
func (e *Engine) Load(d *savestate.Decoder) error {
	d.Section("dma")
	for i := range e.channels {
		c := &e.channels[i]
		c.Source = d.U32()
		c.Dest = d.U32()
		c.Count = d.U16()
		c.Control = d.U16() & controlMask
		c.src = d.U32()
		c.dst = d.U32()
		c.count = d.U32()
		c.pending = d.Bool()
		if c.count > maxCount[i] {
			d.Fail(curated.Errorf(savestate.BadValue, "dma count out of range"))
		}
	}
	e.latch = d.U32()
	return d.Err()
}
