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

	"github.com/jetsetilly/gopheradvance/curated"
)

// Sentinal errors.
const (
	Truncated  = "savestate: truncated data"
	BadSection = "savestate: expected %s section (found %q)"
	BadValue   = "savestate: %s"
)

// Decoder reads values from a save-state snapshot.
type Decoder struct {
	buf []byte
	idx int
	err error
}

// NewDecoder is the preferred method of initialisation for the Decoder type.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Err returns the first error encountered by the Decoder.
func (d *Decoder) Err() error {
	return d.err
}

// Fail records a decoding error found by the caller. Only the first error is
// kept.
func (d *Decoder) Fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// Remaining returns the number of bytes not yet read.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.idx
}

func (d *Decoder) next(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.idx+n > len(d.buf) {
		d.err = curated.Errorf(Truncated)
		return nil
	}
	b := d.buf[d.idx : d.idx+n]
	d.idx += n
	return b
}

// Section checks that the next value is the named section marker.
func (d *Decoder) Section(name string) {
	n := d.U8()
	b := d.next(int(n))
	if d.err != nil {
		return
	}
	if string(b) != name {
		d.err = curated.Errorf(BadSection, name, string(b))
	}
}

func (d *Decoder) U8() uint8 {
	b := d.next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *Decoder) U16() uint16 {
	b := d.next(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (d *Decoder) U32() uint32 {
	b := d.next(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *Decoder) U64() uint64 {
	b := d.next(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *Decoder) Int() int {
	return int(int64(d.U64()))
}

// Bool fails if the encoded value is not zero or one.
func (d *Decoder) Bool() bool {
	v := d.U8()
	if v > 1 {
		d.Fail(curated.Errorf(BadValue, "bool out of range"))
		return false
	}
	return v == 1
}

// Raw fills the slice with the next len(b) bytes.
func (d *Decoder) Raw(b []byte) {
	s := d.next(len(b))
	if s != nil {
		copy(b, s)
	}
}

// Blob returns a copy of the next length-prefixed byte sequence. The length
// must not be more than max.
func (d *Decoder) Blob(max int) []byte {
	n := int(d.U32())
	if d.err != nil {
		return nil
	}
	if n > max {
		d.Fail(curated.Errorf(BadValue, "blob too large"))
		return nil
	}
	s := d.next(n)
	if s == nil {
		return nil
	}
	return append([]byte(nil), s...)
}
