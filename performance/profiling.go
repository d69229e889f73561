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

package performance

import (
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/jetsetilly/gopheradvance/curated"
)

// Profile specifies which profiling files are created by RunProfiler().
type Profile int

// List of valid Profile values. Values can be combined.
const (
	ProfileNone  Profile = 0
	ProfileCPU   Profile = 0b001
	ProfileMem   Profile = 0b010
	ProfileTrace Profile = 0b100
	ProfileAll   Profile = ProfileCPU | ProfileMem | ProfileTrace
)

// ParseProfileString converts a comma separated list of profile names into a
// Profile value. Names are "CPU", "MEM", "TRACE", "ALL" and "NONE".
func ParseProfileString(s string) (Profile, error) {
	var p Profile
	for _, t := range strings.Split(s, ",") {
		switch strings.ToUpper(strings.TrimSpace(t)) {
		case "", "NONE":
		case "CPU":
			p |= ProfileCPU
		case "MEM":
			p |= ProfileMem
		case "TRACE":
			p |= ProfileTrace
		case "ALL":
			p = ProfileAll
		default:
			return ProfileNone, curated.Errorf("profile: unknown profile type (%s)", t)
		}
	}
	return p, nil
}

// RunProfiler runs the function with the requested profiling. Files are
// created in the current directory with the name as a prefix.
func RunProfiler(profile Profile, name string, run func() error) (rerr error) {
	if profile&ProfileCPU == ProfileCPU {
		f, err := os.Create(name + "_cpu.profile")
		if err != nil {
			return curated.Errorf("profile: %v", err)
		}
		defer f.Close()

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return curated.Errorf("profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	if profile&ProfileTrace == ProfileTrace {
		f, err := os.Create(name + "_trace.profile")
		if err != nil {
			return curated.Errorf("profile: %v", err)
		}
		defer f.Close()

		err = trace.Start(f)
		if err != nil {
			return curated.Errorf("profile: %v", err)
		}
		defer trace.Stop()
	}

	if profile&ProfileMem == ProfileMem {
		defer func() {
			f, err := os.Create(name + "_mem.profile")
			if err != nil {
				rerr = curated.Errorf("profile: %v", err)
				return
			}
			defer f.Close()

			runtime.GC()
			err = pprof.WriteHeapProfile(f)
			if err != nil {
				rerr = curated.Errorf("profile: %v", err)
			}
		}()
	}

	return run()
}
