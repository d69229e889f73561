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

package keypad_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/interrupts"
	"github.com/jetsetilly/gopheradvance/hardware/keypad"
	"github.com/jetsetilly/gopheradvance/hardware/savestate"
	"github.com/jetsetilly/gopheradvance/test"
)

func TestKEYINPUT(t *testing.T) {
	kp := keypad.NewKeypad()
	irq := interrupts.NewController()

	v, ok := kp.ReadRegister(keypad.RegKEYINPUT)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0x03ff)

	// active low
	kp.Press(keypad.A, irq)
	kp.Press(keypad.Down, irq)
	v, _ = kp.ReadRegister(keypad.RegKEYINPUT)
	test.ExpectEquality(t, v, 0x037e)

	kp.Release(keypad.A, irq)
	v, _ = kp.ReadRegister(keypad.RegKEYINPUT)
	test.ExpectEquality(t, v, 0x037f)
	test.ExpectEquality(t, kp.Pressed().String(), "Down")

	// no interrupt without KEYCNT
	test.ExpectEquality(t, irq.IF, 0)
}

func TestConditionOR(t *testing.T) {
	kp := keypad.NewKeypad()
	irq := interrupts.NewController()

	kp.WriteRegister(keypad.RegKEYCNT, 0x4000|uint16(keypad.Start|keypad.Select), 0xffff, irq)
	test.ExpectEquality(t, irq.IF, 0)

	kp.Press(keypad.Select, irq)
	test.ExpectEquality(t, irq.IF, uint16(interrupts.Keypad))
}

func TestConditionAND(t *testing.T) {
	kp := keypad.NewKeypad()
	irq := interrupts.NewController()

	kp.WriteRegister(keypad.RegKEYCNT, 0xc000|uint16(keypad.L|keypad.R), 0xffff, irq)
	kp.Press(keypad.L, irq)
	test.ExpectEquality(t, irq.IF, 0)
	test.ExpectFailure(t, kp.WakeFromStop())

	kp.Press(keypad.R, irq)
	test.ExpectEquality(t, irq.IF, uint16(interrupts.Keypad))
	test.ExpectSuccess(t, kp.WakeFromStop())
}

func TestKEYCNTWriteEvaluates(t *testing.T) {
	kp := keypad.NewKeypad()
	irq := interrupts.NewController()

	kp.Set(keypad.Keys(keypad.Up|keypad.B), irq)
	test.ExpectEquality(t, irq.IF, 0)

	// the condition is already met when the register is written
	kp.WriteRegister(keypad.RegKEYCNT, 0x4000|uint16(keypad.Up), 0xffff, irq)
	test.ExpectEquality(t, irq.IF, uint16(interrupts.Keypad))
}

func TestKeyNames(t *testing.T) {
	k, ok := keypad.KeyFromString("start")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, k, keypad.Start)
	_, ok = keypad.KeyFromString("turbo")
	test.ExpectFailure(t, ok)
	test.ExpectEquality(t, keypad.Keys(keypad.A|keypad.L).String(), "A+L")
}

func TestSaveLoad(t *testing.T) {
	kp := keypad.NewKeypad()
	irq := interrupts.NewController()
	kp.Press(keypad.Left, irq)
	kp.WriteRegister(keypad.RegKEYCNT, 0x4001, 0xffff, irq)

	e := savestate.NewEncoder()
	kp.Save(e)

	l := keypad.NewKeypad()
	test.DemandSuccess(t, l.Load(savestate.NewDecoder(e.Bytes())))
	test.ExpectEquality(t, *l, *kp)
}
