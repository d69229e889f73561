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
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware"
)

// sentinal error returned by Run() loop.
var timedOut = errors.New("performance timed out")

// the period before measurement begins
const leadTime = 2 * time.Second

// Check the performance of the emulator by running the System for the
// duration. The duration is a string suitable for time.ParseDuration().
//
// Profiling files are created as defined by the Profile argument.
func Check(output io.Writer, profile Profile, sys *hardware.System, duration string) error {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return curated.Errorf("performance: %v", err)
	}

	return check(output, profile, sys, leadTime, dur)
}

func check(output io.Writer, profile Profile, sys *hardware.System, lead time.Duration, dur time.Duration) error {
	startFrame := sys.FrameNum()
	startCycle := sys.Now()

	runner := func() error {
		// signals false when the leadtime has elapsed and true when the
		// measurement period has ended
		timerChan := make(chan bool, 2)
		time.AfterFunc(lead, func() {
			timerChan <- false
			time.AfterFunc(dur, func() {
				timerChan <- true
			})
		})

		// only check for end of measurement period every PerformanceBrake
		// instructions
		brake := 0

		return sys.Run(func() (bool, error) {
			brake++
			if brake < hardware.PerformanceBrake {
				return true, nil
			}
			brake = 0

			select {
			case v := <-timerChan:
				if v {
					return false, timedOut
				}
				startFrame = sys.FrameNum()
				startCycle = sys.Now()
			default:
			}
			return true, nil
		})
	}

	err := RunProfiler(profile, "performance", runner)
	if err != nil && !errors.Is(err, timedOut) {
		return curated.Errorf("performance: %v", err)
	}

	numFrames := sys.FrameNum() - startFrame
	fps, accuracy := CalcFPS(numFrames, dur.Seconds())
	mhz := float64(sys.Now()-startCycle) / dur.Seconds() / 1000000
	fmt.Fprintf(output, "%.2f fps (%d frames in %.2f seconds) %.1f%% %.2fMHz\n", fps, numFrames, dur.Seconds(), accuracy, mhz)

	return nil
}
