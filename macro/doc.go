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

// Package macro drives the System from a Lua script. The script is useful
// for automating input and for running repeatable tests against a cartridge.
//
// A macro file must start with the line:
//
//	-- gopheradvance macro
//
// The following functions are available to the script:
//
//	press(key)              hold down the key. key names are A, B, Select,
//	release(key)            Start, Right, Left, Up, Down, R and L
//	wait([frames])          run the System for the number of frames (default 60)
//	step([instructions])    run the System for the number of instructions
//	peek(address, [width])  read memory without side effects. width is 1, 2 or 4
//	poke(address, value)    write a byte to memory
//	save(name)              take a save-state and keep it under the name
//	restore(name)           restore the named save-state
//	frame()                 the current frame number
//	cycle()                 the current cycle
//	log(...)                write the arguments to the log
//	quit()                  end the macro
//
// For example:
//
//	-- gopheradvance macro
//	wait(120)
//	for i = 1, 10 do
//		press("A")
//		wait(2)
//		release("A")
//		wait(30)
//	end
//	log("score", peek(0x03000100, 2))
//
// Any error in a script ends the macro and is returned by Run().
package macro
