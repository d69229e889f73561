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

package macro

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/hardware/keypad"
	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
	"github.com/jetsetilly/gopheradvance/logger"
)

// Sentinel error patterns.
const (
	NotAMacro   = "macro: %s: not a macro file"
	MacroFailed = "macro: %s: %v"
)

// the first line of every macro file
const headerID = "-- gopheradvance macro"

// the number of frames waited by the wait() function when no argument is
// given
const defaultWait = 60

// Macro controls a System from a Lua script.
type Macro struct {
	sys *hardware.System

	filename string
	script   string

	// save-states taken by the script. keyed by the name given in the script
	states map[string][]byte

	// the quit() function has been called
	quit bool
}

// NewMacro is the preferred method of initialisation for the Macro type. The
// file is read but not run.
func NewMacro(filename string, sys *hardware.System) (*Macro, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, curated.Errorf(MacroFailed, filename, err)
	}
	return newMacro(filename, string(b), sys)
}

func newMacro(filename string, script string, sys *hardware.System) (*Macro, error) {
	if !strings.HasPrefix(script, headerID) {
		return nil, curated.Errorf(NotAMacro, filename)
	}

	return &Macro{
		sys:      sys,
		filename: filename,
		script:   script,
		states:   make(map[string][]byte),
	}, nil
}

// Run the macro to completion. The script is stopped if the context is
// cancelled.
func (mcr *Macro) Run(ctx context.Context) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	mcr.quit = false
	for name, fn := range mcr.functions() {
		L.SetGlobal(name, L.NewFunction(fn))
	}

	err := L.DoString(mcr.script)
	if err != nil {
		if mcr.quit {
			return nil
		}
		return curated.Errorf(MacroFailed, mcr.filename, err)
	}
	return nil
}

func (mcr *Macro) log(detail string) {
	logger.Logf(logger.Allow, "macro", "%s: %s", mcr.filename, detail)
}

// the functions made available to the script
func (mcr *Macro) functions() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"press":   mcr.press,
		"release": mcr.release,
		"wait":    mcr.wait,
		"step":    mcr.step,
		"peek":    mcr.peek,
		"poke":    mcr.poke,
		"save":    mcr.save,
		"restore": mcr.restore,
		"frame":   mcr.frame,
		"cycle":   mcr.cycle,
		"log":     mcr.logFn,
		"quit":    mcr.quitFn,
	}
}

func (mcr *Macro) key(L *lua.LState) keypad.Key {
	name := L.CheckString(1)
	k, ok := keypad.KeyFromString(name)
	if !ok {
		L.ArgError(1, fmt.Sprintf("unrecognised key: %s", name))
	}
	return k
}

// press(key)
func (mcr *Macro) press(L *lua.LState) int {
	mcr.sys.KeyDown(mcr.key(L))
	return 0
}

// release(key)
func (mcr *Macro) release(L *lua.LState) int {
	mcr.sys.KeyUp(mcr.key(L))
	return 0
}

// wait([frames]) runs the System for the number of frames
func (mcr *Macro) wait(L *lua.LState) int {
	n := L.OptInt(1, defaultWait)
	for range n {
		if err := mcr.sys.RunFrame(); err != nil {
			L.RaiseError("%v", err)
		}
		if L.Context() != nil && L.Context().Err() != nil {
			L.RaiseError("%v", L.Context().Err())
		}
	}
	return 0
}

// step([instructions])
func (mcr *Macro) step(L *lua.LState) int {
	n := L.OptInt(1, 1)
	for range n {
		if err := mcr.sys.Step(); err != nil {
			L.RaiseError("%v", err)
		}
	}
	return 0
}

func width(L *lua.LState, idx int) memorymap.Width {
	switch w := L.OptInt(idx, 1); w {
	case 1:
		return memorymap.Byte
	case 2:
		return memorymap.Halfword
	case 4:
		return memorymap.Word
	default:
		L.ArgError(idx, fmt.Sprintf("unsupported width: %d", w))
	}
	return memorymap.Byte
}

// peek(address, [width]) returns the value at the address without side
// effects
func (mcr *Macro) peek(L *lua.LState) int {
	addr := uint32(L.CheckInt64(1))
	w := width(L, 2)
	L.Push(lua.LNumber(mcr.sys.Mem.Peek(addr, w)))
	return 1
}

// poke(address, value)
func (mcr *Macro) poke(L *lua.LState) int {
	addr := uint32(L.CheckInt64(1))
	v := L.CheckInt(2)
	if v < 0 || v > 0xff {
		L.ArgError(2, "value must be a byte")
	}
	if err := mcr.sys.Mem.Poke(addr, uint8(v)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// save(name)
func (mcr *Macro) save(L *lua.LState) int {
	name := L.CheckString(1)
	var b bytes.Buffer
	if err := mcr.sys.SaveState(&b); err != nil {
		L.RaiseError("%v", err)
	}
	mcr.states[name] = b.Bytes()
	return 0
}

// restore(name)
func (mcr *Macro) restore(L *lua.LState) int {
	name := L.CheckString(1)
	b, ok := mcr.states[name]
	if !ok {
		L.ArgError(1, fmt.Sprintf("no save-state named %s", name))
	}
	if err := mcr.sys.LoadState(bytes.NewReader(b)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// frame() returns the current frame number
func (mcr *Macro) frame(L *lua.LState) int {
	L.Push(lua.LNumber(mcr.sys.FrameNum()))
	return 1
}

// cycle() returns the current cycle
func (mcr *Macro) cycle(L *lua.LState) int {
	L.Push(lua.LNumber(mcr.sys.Now()))
	return 1
}

// log(...) writes the arguments to the log
func (mcr *Macro) logFn(L *lua.LState) int {
	var s []string
	for i := 1; i <= L.GetTop(); i++ {
		s = append(s, L.Get(i).String())
	}
	mcr.log(strings.Join(s, " "))
	return 0
}

// quit() ends the macro
func (mcr *Macro) quitFn(L *lua.LState) int {
	mcr.quit = true
	L.RaiseError("quit")
	return 0
}
