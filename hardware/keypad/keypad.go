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

package keypad

import (
	"strings"

	"github.com/jetsetilly/gopheradvance/hardware/interrupts"
	"github.com/jetsetilly/gopheradvance/hardware/savestate"
)

// Key is a single button on the console.
type Key uint16

// List of valid Key values. The value is the bit in the KEYINPUT register.
const (
	A      Key = 1 << 0
	B      Key = 1 << 1
	Select Key = 1 << 2
	Start  Key = 1 << 3
	Right  Key = 1 << 4
	Left   Key = 1 << 5
	Up     Key = 1 << 6
	Down   Key = 1 << 7
	R      Key = 1 << 8
	L      Key = 1 << 9
)

// all keys
const keyMask = 0x03ff

var keyNames = []string{"A", "B", "Select", "Start", "Right", "Left", "Up", "Down", "R", "L"}

// Keys is a set of keys.
type Keys uint16

func (k Keys) String() string {
	var n []string
	for i, name := range keyNames {
		if uint16(k)&(1<<i) != 0 {
			n = append(n, name)
		}
	}
	return strings.Join(n, "+")
}

func (k Key) String() string {
	return Keys(k).String()
}

// KeyFromString returns the Key with the name. The comparison is case
// insensitive.
func KeyFromString(name string) (Key, bool) {
	for i, n := range keyNames {
		if strings.EqualFold(n, name) {
			return Key(1 << i), true
		}
	}
	return 0, false
}

// bits in the KEYCNT register
const (
	irqEnableBit = 0x4000
	conditionAND = 0x8000
	keycntMask   = keyMask | irqEnableBit | conditionAND
)

// Register addresses relative to the start of the IO window.
const (
	RegKEYINPUT = 0x130
	RegKEYCNT   = 0x132
)

// Keypad is the state of the buttons and the keypad interrupt control.
type Keypad struct {
	pressed Keys
	control uint16
}

// NewKeypad is the preferred method of initialisation for the Keypad type.
func NewKeypad() *Keypad {
	return &Keypad{}
}

func (kp *Keypad) String() string {
	return kp.pressed.String()
}

// Reset releases all keys and clears KEYCNT.
func (kp *Keypad) Reset() {
	kp.pressed = 0
	kp.control = 0
}

// Pressed returns the keys that are currently held down.
func (kp *Keypad) Pressed() Keys {
	return kp.pressed
}

// Press the key.
func (kp *Keypad) Press(k Key, irq interrupts.Requester) {
	kp.Set(kp.pressed|Keys(k), irq)
}

// Release the key.
func (kp *Keypad) Release(k Key, irq interrupts.Requester) {
	kp.Set(kp.pressed&^Keys(k), irq)
}

// Set the state of every key at once.
func (kp *Keypad) Set(keys Keys, irq interrupts.Requester) {
	kp.pressed = keys & keyMask
	kp.evaluate(irq)
}

// evaluate the interrupt condition. in OR mode any selected key being
// pressed raises the interrupt. in AND mode every selected key must be
// pressed.
func (kp *Keypad) evaluate(irq interrupts.Requester) {
	if kp.control&irqEnableBit == 0 {
		return
	}

	sel := Keys(kp.control & keyMask)
	if sel == 0 {
		return
	}

	var raise bool
	if kp.control&conditionAND == conditionAND {
		raise = kp.pressed&sel == sel
	} else {
		raise = kp.pressed&sel != 0
	}

	if raise {
		irq.Request(interrupts.Keypad)
	}
}

// WakeFromStop returns true if the keypad interrupt condition is met. This
// is the only condition that ends the stop state.
func (kp *Keypad) WakeFromStop() bool {
	if kp.control&irqEnableBit == 0 {
		return false
	}
	sel := Keys(kp.control & keyMask)
	if kp.control&conditionAND == conditionAND {
		return sel != 0 && kp.pressed&sel == sel
	}
	return kp.pressed&sel != 0
}

// ReadRegister returns the value of the register at the IO offset.
func (kp *Keypad) ReadRegister(reg uint32) (uint16, bool) {
	switch reg {
	case RegKEYINPUT:
		return ^uint16(kp.pressed) & keyMask, true
	case RegKEYCNT:
		return kp.control, true
	}
	return 0, false
}

// WriteRegister writes the register at the IO offset. Only the bits in the
// mask are affected. KEYINPUT is read-only.
func (kp *Keypad) WriteRegister(reg uint32, value uint16, mask uint16, irq interrupts.Requester) bool {
	switch reg {
	case RegKEYINPUT:
	case RegKEYCNT:
		kp.control = ((kp.control &^ mask) | (value & mask)) & keycntMask
		kp.evaluate(irq)
	default:
		return false
	}
	return true
}

// Save keypad state.
func (kp *Keypad) Save(e *savestate.Encoder) {
	e.Section("keypad")
	e.U16(uint16(kp.pressed))
	e.U16(kp.control)
}

// Load keypad state.
func (kp *Keypad) Load(d *savestate.Decoder) error {
	d.Section("keypad")
	kp.pressed = Keys(d.U16()) & keyMask
	kp.control = d.U16() & keycntMask
	return d.Err()
}
