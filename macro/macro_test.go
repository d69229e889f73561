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

package macro_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/hardware/keypad"
	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
	"github.com/jetsetilly/gopheradvance/macro"
	"github.com/jetsetilly/gopheradvance/test"
)

func newMacro(t *testing.T, script string) (*hardware.System, *macro.Macro, error) {
	t.Helper()

	// b 0x08000000
	rom := []uint8{0xfe, 0xff, 0xff, 0xea}
	sys, err := hardware.NewSystem(nil, rom, nil)
	test.DemandSuccess(t, err)

	fn := filepath.Join(t.TempDir(), "test.lua")
	test.DemandSuccess(t, os.WriteFile(fn, []byte(script), 0o644))

	mcr, err := macro.NewMacro(fn, sys)
	return sys, mcr, err
}

func TestNotAMacro(t *testing.T) {
	_, _, err := newMacro(t, "wait(1)\n")
	test.ExpectSuccess(t, curated.Is(err, macro.NotAMacro))
}

func TestMacro(t *testing.T) {
	sys, mcr, err := newMacro(t, `-- gopheradvance macro
press("a")
press("Start")
release("start")
wait(2)
if frame() ~= 2 then
	error("wrong frame")
end
poke(0x02000000, 0x42)
poke(0x02000001, 0x01)
if peek(0x02000000, 2) ~= 0x0142 then
	error("wrong value")
end
step(10)
log("finished at", cycle())
`)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, mcr.Run(context.Background()))

	test.ExpectEquality(t, sys.Keypad.Pressed(), keypad.Keys(keypad.A))
	test.ExpectEquality(t, sys.Mem.Peek(0x02000000, memorymap.Byte), uint32(0x42))
	test.ExpectEquality(t, sys.FrameNum(), 2)
}

func TestSaveRestore(t *testing.T) {
	sys, mcr, err := newMacro(t, `-- gopheradvance macro
wait(1)
local c = cycle()
save("one")
poke(0x03000000, 0xff)
wait(3)
restore("one")
if frame() ~= 1 or cycle() ~= c then
	error("state not restored")
end
`)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, mcr.Run(context.Background()))
	test.ExpectEquality(t, sys.FrameNum(), 1)
	test.ExpectEquality(t, sys.Mem.Peek(0x03000000, memorymap.Byte), uint32(0))
}

func TestQuit(t *testing.T) {
	sys, mcr, err := newMacro(t, `-- gopheradvance macro
wait(1)
quit()
wait(1)
`)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, mcr.Run(context.Background()))
	test.ExpectEquality(t, sys.FrameNum(), 1)
}

func TestScriptErrors(t *testing.T) {
	for _, s := range []string{
		`press("Z")`,
		`peek(0x02000000, 3)`,
		`poke(0x04000000, 1)`,
		`poke(0x02000000, 256)`,
		`restore("missing")`,
		`this is not lua`,
	} {
		_, mcr, err := newMacro(t, "-- gopheradvance macro\n"+s)
		test.DemandSuccess(t, err)
		err = mcr.Run(context.Background())
		test.ExpectSuccess(t, curated.Is(err, macro.MacroFailed), s)
	}
}

func TestCancel(t *testing.T) {
	_, mcr, err := newMacro(t, `-- gopheradvance macro
while true do
end
`)
	test.DemandSuccess(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	test.ExpectFailure(t, mcr.Run(ctx))
}
