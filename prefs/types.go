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

package prefs

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// Value represents the actual Go preference value.
type Value any

// the types supported by the prefs system must implement the pref interface.
type pref interface {
	fmt.Stringer
	Set(value Value) error
	Get() Value
	Reset() error
}

// live is the storage shared by the pref types. a pref's hooks are called
// even if the value hasn't changed.
type live[T any] struct {
	value    atomic.Value
	hookPre  func(value Value) error
	hookPost func(value Value) error
}

func (l *live[T]) load() (T, bool) {
	var zero T
	v := l.value.Load()
	if v == nil {
		return zero, false
	}
	return v.(T), true
}

func (l *live[T]) store(nv T) error {
	if l.hookPre != nil {
		if err := l.hookPre(nv); err != nil {
			return err
		}
	}
	l.value.Store(nv)
	if l.hookPost != nil {
		if err := l.hookPost(nv); err != nil {
			return err
		}
	}
	return nil
}

// SetHookPre sets the callback function to be called just before the value
// is updated. An error from the callback prevents the update.
func (l *live[T]) SetHookPre(f func(value Value) error) {
	l.hookPre = f
}

// SetHookPost sets the callback function to be called just after the value
// is updated.
func (l *live[T]) SetHookPost(f func(value Value) error) {
	l.hookPost = f
}

// Bool implements a boolean type in the prefs system.
type Bool struct {
	live[bool]
}

func (p *Bool) String() string {
	v, _ := p.load()
	return strconv.FormatBool(v)
}

// Set new value to Bool type. New value must be of type bool or string. A
// string value of anything other than "true" (case insensitive) will set the
// value to false.
func (p *Bool) Set(v Value) error {
	switch v := v.(type) {
	case bool:
		return p.store(v)
	case string:
		return p.store(strings.ToLower(strings.TrimSpace(v)) == "true")
	}
	return fmt.Errorf("prefs: cannot convert %T to prefs.Bool", v)
}

// Get returns the raw pref value.
func (p *Bool) Get() Value {
	v, _ := p.load()
	return v
}

// Reset sets the boolean value to false.
func (p *Bool) Reset() error {
	return p.Set(false)
}

// String implements a string type in the prefs system.
type String struct {
	live[string]
}

func (p *String) String() string {
	v, _ := p.load()
	return v
}

// Set new value to String type. Values that are not strings are converted
// with the %v verb.
func (p *String) Set(v Value) error {
	return p.store(fmt.Sprintf("%v", v))
}

// Get returns the raw pref value.
func (p *String) Get() Value {
	return p.String()
}

// Reset sets the string value to the empty string.
func (p *String) Reset() error {
	return p.Set("")
}

// Int implements an integer type in the prefs system.
type Int struct {
	live[int]
}

func (p *Int) String() string {
	v, _ := p.load()
	return strconv.Itoa(v)
}

// Set new value to Int type. New value can be an integer or a string.
func (p *Int) Set(v Value) error {
	switch v := v.(type) {
	case int:
		return p.store(v)
	case int32:
		return p.store(int(v))
	case int64:
		return p.store(int(v))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("prefs: cannot convert %q to prefs.Int: %w", v, err)
		}
		return p.store(n)
	}
	return fmt.Errorf("prefs: cannot convert %T to prefs.Int", v)
}

// Get returns the raw pref value.
func (p *Int) Get() Value {
	v, _ := p.load()
	return v
}

// Reset sets the int value to zero.
func (p *Int) Reset() error {
	return p.Set(0)
}
