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

package rewind

// the number of frames recorded in the Timeline
const timelineLength = 1000

// Timeline provides a summary of the frames seen by the rewind system.
//
// Useful for a frontend, for example, to present the range of frame numbers
// that are available in the rewind history.
type Timeline struct {
	FrameNum []int
	Cycle    []uint64
	KeyInput []bool

	// the earliest and latest frames that are available in the rewind
	// history. the earliest information in the slices may be different
	AvailableStart int
	AvailableEnd   int
}

func (tl *Timeline) add(frame int, cycle uint64, input bool) {
	tl.FrameNum = append(tl.FrameNum, frame)
	tl.Cycle = append(tl.Cycle, cycle)
	tl.KeyInput = append(tl.KeyInput, input)
	if len(tl.FrameNum) > timelineLength {
		tl.FrameNum = tl.FrameNum[1:]
		tl.Cycle = tl.Cycle[1:]
		tl.KeyInput = tl.KeyInput[1:]
	}
}

// remove entries after the frame.
func (tl *Timeline) truncate(frame int) {
	n := len(tl.FrameNum)
	for n > 0 && tl.FrameNum[n-1] > frame {
		n--
	}
	tl.FrameNum = tl.FrameNum[:n]
	tl.Cycle = tl.Cycle[:n]
	tl.KeyInput = tl.KeyInput[:n]
	tl.AvailableEnd = frame
}
