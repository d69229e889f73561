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

package interrupts

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopheradvance/hardware/savestate"
)

// Source is an interrupt source. The value is the bit in the IE and IF
// registers.
type Source uint16

// List of valid Source values.
const (
	VBlank   Source = 1 << 0
	HBlank   Source = 1 << 1
	VCounter Source = 1 << 2
	Timer0   Source = 1 << 3
	Timer1   Source = 1 << 4
	Timer2   Source = 1 << 5
	Timer3   Source = 1 << 6
	Serial   Source = 1 << 7
	DMA0     Source = 1 << 8
	DMA1     Source = 1 << 9
	DMA2     Source = 1 << 10
	DMA3     Source = 1 << 11
	Keypad   Source = 1 << 12
	GamePak  Source = 1 << 13
)

// the bits of IE and IF that are connected to a source
const sourceMask = uint16(0x3fff)

var sourceNames = []string{
	"VBlank", "HBlank", "VCounter",
	"Timer0", "Timer1", "Timer2", "Timer3",
	"Serial",
	"DMA0", "DMA1", "DMA2", "DMA3",
	"Keypad", "GamePak",
}

func (s Source) String() string {
	var n []string
	for i, name := range sourceNames {
		if uint16(s)&(1<<i) != 0 {
			n = append(n, name)
		}
	}
	if len(n) == 0 {
		return "none"
	}
	return strings.Join(n, "|")
}

// TimerSource returns the Source for the numbered timer.
func TimerSource(idx int) Source {
	return Timer0 << idx
}

// DMASource returns the Source for the numbered DMA channel.
func DMASource(ch int) Source {
	return DMA0 << ch
}

// Requester is implemented by types that accept interrupt requests.
type Requester interface {
	Request(src Source)
}

// Controller is the interrupt controller.
type Controller struct {
	IE  uint16
	IF  uint16
	IME bool
}

// NewController is the preferred method of initialisation for the
// Controller type.
func NewController() *Controller {
	return &Controller{}
}

func (c *Controller) String() string {
	return fmt.Sprintf("IE=%04x IF=%04x IME=%v", c.IE, c.IF, c.IME)
}

// Reset the controller to the power-on state.
func (c *Controller) Reset() {
	c.IE = 0
	c.IF = 0
	c.IME = false
}

// Request sets the request bit for the source.
func (c *Controller) Request(src Source) {
	c.IF |= uint16(src) & sourceMask
}

// Acknowledge clears the request bits that are set in the mask. This is the
// effect of writing to the IF register.
func (c *Controller) Acknowledge(mask uint16) {
	c.IF &^= mask
}

// IsEnabled returns true if any source is both enabled and requested. The
// master enable is not considered. This is the condition that ends a halt.
func (c *Controller) IsEnabled() bool {
	return c.IE&c.IF&sourceMask != 0
}

// Poll returns true if an IRQ exception should be taken. The argument is the
// state of the I bit in the CPU's status register.
func (c *Controller) Poll(cpuIRQDisabled bool) bool {
	return c.IME && !cpuIRQDisabled && c.IsEnabled()
}

// Register addresses relative to the start of the IO window.
const (
	RegIE  = 0x200
	RegIF  = 0x202
	RegIME = 0x208
)

// ReadRegister returns the value of the register at the IO offset.
func (c *Controller) ReadRegister(reg uint32) (uint16, bool) {
	switch reg {
	case RegIE:
		return c.IE, true
	case RegIF:
		return c.IF, true
	case RegIME:
		if c.IME {
			return 1, true
		}
		return 0, true
	case RegIME + 2:
		return 0, true
	}
	return 0, false
}

// WriteRegister writes the value to the register at the IO offset. Only the
// bits set in mask are affected. For IF this means that an 8bit write only
// acknowledges the requests in the addressed byte.
func (c *Controller) WriteRegister(reg uint32, value uint16, mask uint16) bool {
	switch reg {
	case RegIE:
		c.IE = (c.IE &^ mask) | (value & mask & sourceMask)
	case RegIF:
		c.Acknowledge(value & mask)
	case RegIME:
		if mask&0x0001 != 0 {
			c.IME = value&0x0001 != 0
		}
	case RegIME + 2:
	default:
		return false
	}
	return true
}

// Save controller state.
func (c *Controller) Save(e *savestate.Encoder) {
	e.Section("interrupts")
	e.U16(c.IE)
	e.U16(c.IF)
	e.Bool(c.IME)
}

// Load controller state.
func (c *Controller) Load(d *savestate.Decoder) error {
	d.Section("interrupts")
	c.IE = d.U16()
	c.IF = d.U16()
	c.IME = d.Bool()
	return d.Err()
}
