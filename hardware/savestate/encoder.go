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

package savestate

import (
	"encoding/binary"
)

// Encoder accumulates a save-state snapshot.
type Encoder struct {
	buf []byte
}

// NewEncoder is the preferred method of initialisation for the Encoder type.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 0x80000)}
}

// Bytes returns the encoded snapshot.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Section writes a named section marker.
func (e *Encoder) Section(name string) {
	e.U8(uint8(len(name)))
	e.buf = append(e.buf, name...)
}

func (e *Encoder) U8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) U16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *Encoder) U32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) U64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

// Int is encoded as a signed 64bit value.
func (e *Encoder) Int(v int) {
	e.U64(uint64(int64(v)))
}

func (e *Encoder) Bool(v bool) {
	if v {
		e.U8(1)
	} else {
		e.U8(0)
	}
}

// Raw appends the bytes without a length. The decoder must know the length.
func (e *Encoder) Raw(b []byte) {
	e.buf = append(e.buf, b...)
}

// Blob appends the bytes preceded by the length.
func (e *Encoder) Blob(b []byte) {
	e.U32(uint32(len(b)))
	e.Raw(b)
}
