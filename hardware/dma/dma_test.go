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

package dma_test

import (
	"encoding/binary"
	"testing"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/dma"
	"github.com/jetsetilly/gopheradvance/hardware/interrupts"
	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
	"github.com/jetsetilly/gopheradvance/hardware/savestate"
	"github.com/jetsetilly/gopheradvance/test"
)

// flatMemory is a sparse memory where every access costs one cycle, plus one
// for non-sequential accesses.
type flatMemory struct {
	data   map[uint32]byte
	reads  int
	writes int
	kinds  []memorymap.Access
}

func newFlatMemory() *flatMemory {
	return &flatMemory{data: make(map[uint32]byte)}
}

func cost(kind memorymap.Access) int {
	if kind == memorymap.NonSequential {
		return 2
	}
	return 1
}

func (m *flatMemory) Read(addr uint32, width memorymap.Width, kind memorymap.Access) (uint32, int) {
	m.reads++
	var v uint32
	for i := range uint32(width) {
		v |= uint32(m.data[addr+i]) << (8 * i)
	}
	return v, cost(kind)
}

func (m *flatMemory) Write(addr uint32, width memorymap.Width, value uint32, kind memorymap.Access) int {
	m.writes++
	m.kinds = append(m.kinds, kind)
	for i := range uint32(width) {
		m.data[addr+i] = byte(value >> (8 * i))
	}
	return cost(kind)
}

func (m *flatMemory) fill(addr uint32, b []byte) {
	for i, v := range b {
		m.data[addr+uint32(i)] = v
	}
}

func (m *flatMemory) bytes(addr uint32, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = m.data[addr+uint32(i)]
	}
	return b
}

type requests []interrupts.Source

func (r *requests) Request(src interrupts.Source) {
	*r = append(*r, src)
}

// program writes the registers of a channel through the register interface.
func program(e *dma.Engine, ch int, src uint32, dst uint32, count uint16, control uint16) {
	base := uint32(dma.RegOrigin + ch*12)
	e.WriteRegister(base+0, uint16(src), 0xffff)
	e.WriteRegister(base+2, uint16(src>>16), 0xffff)
	e.WriteRegister(base+4, uint16(dst), 0xffff)
	e.WriteRegister(base+6, uint16(dst>>16), 0xffff)
	e.WriteRegister(base+8, count, 0xffff)
	e.WriteRegister(base+10, control, 0xffff)
}

const (
	enable    = 0x8000
	irq       = 0x4000
	word      = 0x0400
	repeat    = 0x0200
	vblank    = 1 << 12
	hblank    = 2 << 12
	special   = 3 << 12
	dstDec    = 1 << 5
	dstFixed  = 2 << 5
	dstReload = 3 << 5
	srcFixed  = 2 << 7
)

func TestImmediateHalfwords(t *testing.T) {
	e := dma.NewEngine()
	mem := newFlatMemory()
	var r requests

	src := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	mem.fill(0x02000000, src)

	program(e, 3, 0x02000000, 0x03000000, 4, enable|irq)
	test.ExpectSuccess(t, e.Pending())

	cycles := e.Service(mem, &r)
	test.ExpectEquality(t, string(mem.bytes(0x03000000, 10)), string([]byte{1, 2, 3, 4, 5, 6, 7, 8, 0, 0}))

	// channel disables itself
	c := e.Channel(3)
	test.ExpectFailure(t, c.Enabled())
	test.ExpectFailure(t, e.Pending())
	v, _ := e.ReadRegister(dma.RegOrigin + 3*12 + 10)
	test.ExpectEquality(t, v&enable, 0)

	// interrupt is requested
	test.DemandEquality(t, len(r), 1)
	test.ExpectEquality(t, r[0], interrupts.DMA3)

	// first unit is non-sequential. 2 cycles for the N read and N write, 1
	// cycle for each of the remaining reads and writes and the overhead
	test.ExpectEquality(t, cycles, 2+2+3+3+2)
	test.ExpectEquality(t, mem.kinds[0], memorymap.NonSequential)
	test.ExpectEquality(t, mem.kinds[1], memorymap.Sequential)
}

func TestZeroCount(t *testing.T) {
	for ch := range dma.NumChannels {
		e := dma.NewEngine()
		mem := newFlatMemory()
		var r requests

		program(e, ch, 0x02000000, 0x03000000, 0, enable|word|dstFixed|srcFixed)
		_, _, count := e.Channel(ch).Internal()

		expected := uint32(0x4000)
		if ch == 3 {
			expected = 0x10000
		}
		test.ExpectEquality(t, count, expected, ch)

		e.Service(mem, &r)
		test.ExpectEquality(t, mem.writes, int(expected), ch)
	}
}

func TestAddressAdjust(t *testing.T) {
	e := dma.NewEngine()
	mem := newFlatMemory()
	var r requests
	mem.fill(0x02000000, []byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x11, 0x22})

	// decrementing destination
	program(e, 1, 0x02000000, 0x03000010, 2, enable|word|dstDec)
	e.Service(mem, &r)
	test.ExpectEquality(t, binary.LittleEndian.Uint32(mem.bytes(0x03000010, 4)), 0xddccbbaa)
	test.ExpectEquality(t, binary.LittleEndian.Uint32(mem.bytes(0x0300000c, 4)), 0x2211ffee)

	src, dst, _ := e.Channel(1).Internal()
	test.ExpectEquality(t, src, 0x02000008)
	test.ExpectEquality(t, dst, 0x03000008)
}

func TestRepeatReload(t *testing.T) {
	e := dma.NewEngine()
	mem := newFlatMemory()
	var r requests

	program(e, 1, 0x02000000, 0x03000000, 2, enable|repeat|hblank|dstReload)
	test.ExpectFailure(t, e.Pending())

	// wrong trigger
	test.ExpectFailure(t, e.Notify(dma.VBlank))

	for range 3 {
		test.ExpectSuccess(t, e.Notify(dma.HBlank))
		e.Service(mem, &r)

		c := e.Channel(1)
		test.ExpectSuccess(t, c.Enabled())
		_, dst, count := c.Internal()
		test.ExpectEquality(t, dst, 0x03000000)
		test.ExpectEquality(t, count, 2)
	}

	// source is not reloaded
	c := e.Channel(1)
	src, _, _ := c.Internal()
	test.ExpectEquality(t, src, 0x0200000c)
}

func TestRepeatIncrement(t *testing.T) {
	e := dma.NewEngine()
	mem := newFlatMemory()
	var r requests

	program(e, 2, 0x02000000, 0x03000000, 2, enable|repeat|vblank)
	e.Notify(dma.VBlank)
	e.Service(mem, &r)
	e.Notify(dma.VBlank)
	e.Service(mem, &r)

	c := e.Channel(2)
	_, dst, _ := c.Internal()
	test.ExpectEquality(t, dst, 0x03000008)
}

func TestInvalidTrigger(t *testing.T) {
	e := dma.NewEngine()
	program(e, 0, 0x02000000, 0x03000000, 2, special)

	// set the enable bit directly
	c := e.Channel(0)
	test.ExpectFailure(t, c.Enabled())
	e.WriteRegister(dma.RegOrigin+10, enable|special, 0xffff)
	c = e.Channel(0)
	test.ExpectFailure(t, c.Enabled())

	// the failure is reported once
	test.ExpectSuccess(t, curated.Is(e.ArmError(), dma.InvalidTrigger))
	test.ExpectSuccess(t, e.ArmError())

	err := e.Arm(0)
	test.ExpectSuccess(t, curated.Is(err, dma.InvalidTrigger))
	test.ExpectEquality(t, err.Error(), "dma: channel 0 cannot use special timing")
}

func TestSpecialTriggers(t *testing.T) {
	e := dma.NewEngine()
	mem := newFlatMemory()
	var r requests

	program(e, 1, 0x02000000, 0x040000a0, 1, enable|repeat|special)
	program(e, 3, 0x02000000, 0x06000000, 4, enable|repeat|special)

	// video capture only affects channel 3
	test.ExpectSuccess(t, e.Notify(dma.VideoCapture))
	test.ExpectFailure(t, e.Channel(1).Pending())
	test.ExpectSuccess(t, e.Channel(3).Pending())
	e.Service(mem, &r)

	// sound FIFO request transfers four words to a fixed address
	test.ExpectSuccess(t, e.Notify(dma.Special))
	mem.writes = 0
	e.Service(mem, &r)
	test.ExpectEquality(t, mem.writes, 4)
	c := e.Channel(1)
	_, dst, _ := c.Internal()
	test.ExpectEquality(t, dst, 0x040000a0)
}

func TestPriority(t *testing.T) {
	e := dma.NewEngine()
	mem := newFlatMemory()
	var r requests

	program(e, 3, 0x02000000, 0x03000000, 1, enable|irq)
	program(e, 1, 0x02000000, 0x03000000, 1, enable|irq)

	e.Service(mem, &r)
	e.Service(mem, &r)
	test.ExpectEquality(t, e.Service(mem, &r), 0)

	test.DemandEquality(t, len(r), 2)
	test.ExpectEquality(t, r[0], interrupts.DMA1)
	test.ExpectEquality(t, r[1], interrupts.DMA3)
}

func TestLatch(t *testing.T) {
	e := dma.NewEngine()
	mem := newFlatMemory()
	var r requests
	mem.fill(0x02000000, []byte{0x78, 0x56, 0x34, 0x12})

	program(e, 3, 0x02000000, 0x03000000, 1, enable|word)
	e.Service(mem, &r)

	// reading the BIOS returns the last transferred value
	program(e, 3, 0x00000010, 0x03000010, 1, enable|word)
	e.Service(mem, &r)
	test.ExpectEquality(t, binary.LittleEndian.Uint32(mem.bytes(0x03000010, 4)), 0x12345678)
}

func TestSaveLoad(t *testing.T) {
	e := dma.NewEngine()
	program(e, 2, 0x02000100, 0x03000000, 16, enable|repeat|hblank)
	e.Notify(dma.HBlank)

	enc := savestate.NewEncoder()
	e.Save(enc)

	l := dma.NewEngine()
	test.DemandSuccess(t, l.Load(savestate.NewDecoder(enc.Bytes())))
	test.ExpectEquality(t, l.Channel(2), e.Channel(2))
	test.ExpectSuccess(t, l.Pending())
}
