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

package hardware

import (
	"github.com/jetsetilly/gopheradvance/hardware/display"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
)

// StopReason is the reason RunUntil() returned.
type StopReason int

// List of valid StopReason values.
const (
	StopBudget StopReason = iota
	StopFrame
	StopBreakpoint
	StopStopped
)

func (r StopReason) String() string {
	switch r {
	case StopFrame:
		return "frame"
	case StopBreakpoint:
		return "breakpoint"
	case StopStopped:
		return "stopped"
	}
	return "budget"
}

// The continueCheck() function passed to Run() is called after every
// instruction and can be expensive. PerformanceBrake is a standard value
// that can be used to filter out the expensive parts of a continueCheck()
// implementation. For example:
//
//	performanceFilter++
//	if performanceFilter >= hardware.PerformanceBrake {
//		performanceFilter = 0
//		if end_condition == true {
//			return false, nil
//		}
//	}
//	return true, nil
const PerformanceBrake = 100

// RunUntil runs the System for at least the budgeted number of cycles. It
// returns early at the start of vertical blank, when the next instruction is
// at a breakpoint, or when the CPU enters the stop state.
//
// A budget of zero executes nothing. Any other budget executes at least one
// instruction so RunUntil() can be called again to continue from a
// breakpoint.
func (sys *System) RunUntil(budget uint64) (StopReason, error) {
	target := sys.Sched.Now() + budget
	sys.frameBoundary = false

	for sys.Sched.Now() < target {
		if err := sys.Step(); err != nil {
			return StopBudget, err
		}

		if sys.frameBoundary {
			sys.frameBoundary = false
			return StopFrame, nil
		}

		switch sys.halt {
		case memory.Stop:
			return StopStopped, nil
		case memory.Running:
			if sys.breakpoints[sys.CPU.NextAddress()] {
				return StopBreakpoint, nil
			}
		}
	}

	return StopBudget, nil
}

// RunFrame runs the System until the start of the next vertical blank. It
// returns early if a breakpoint is reached or the CPU is stopped.
func (sys *System) RunFrame() error {
	for {
		r, err := sys.RunUntil(display.CyclesPerFrame)
		if err != nil {
			return err
		}
		if r != StopBudget {
			return nil
		}
	}
}

// Run sets the emulation running as quickly as possible. The continueCheck
// function is called after every instruction and the emulation ends when it
// returns false or an error. A nil continueCheck never ends the emulation.
func (sys *System) Run(continueCheck func() (bool, error)) error {
	if continueCheck == nil {
		continueCheck = func() (bool, error) { return true, nil }
	}

	for {
		if err := sys.Step(); err != nil {
			return err
		}

		cont, err := continueCheck()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}
