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

import (
	"bytes"
	"fmt"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/logger"
)

// Sentinel error patterns.
const (
	BadPreference = "rewind: value must be at least one (%v)"
	NoSnapshot    = "rewind: frame %d is not in the rewind history"
	RewindFailed  = "rewind: %v"
)

// snapshot is a single entry in the rewind history.
type snapshot struct {
	frame int
	cycle uint64
	state []byte
}

func (s snapshot) String() string {
	return fmt.Sprintf("%d (%d bytes)", s.frame, len(s.state))
}

// Rewind contains a history of save-states for the System. A snapshot is
// taken when the System reaches the start of vertical blank, subject to the
// frequency preference.
type Rewind struct {
	sys   *hardware.System
	Prefs *Preferences

	// snapshots in order of frame number. the earliest snapshot is
	// forgotten when the number of entries exceeds the MaxEntries preference
	entries []snapshot

	// the frame number at the last call to Check()
	lastFrame int

	timeline Timeline
}

// NewRewind is the preferred method of initialisation for the Rewind type.
// The history is reset and contains a snapshot of the current state.
func NewRewind(sys *hardware.System, prefs *Preferences) (*Rewind, error) {
	r := &Rewind{
		sys:   sys,
		Prefs: prefs,
	}
	if err := r.Reset(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rewind) String() string {
	if len(r.entries) == 0 {
		return "empty"
	}
	return fmt.Sprintf("%d snapshots: frames %d to %d", len(r.entries),
		r.entries[0].frame, r.entries[len(r.entries)-1].frame)
}

// Reset removes all entries and takes a snapshot of the current state. This
// should be called whenever the System is reset or a save-state is loaded
// from outside the rewind system.
func (r *Rewind) Reset() error {
	r.entries = r.entries[:0]
	r.timeline = Timeline{}
	r.lastFrame = r.sys.FrameNum()
	return r.append()
}

func (r *Rewind) append() error {
	var b bytes.Buffer
	if err := r.sys.SaveState(&b); err != nil {
		return curated.Errorf(RewindFailed, err)
	}

	s := snapshot{
		frame: r.sys.FrameNum(),
		cycle: r.sys.Now(),
		state: b.Bytes(),
	}

	// a snapshot for the same frame replaces the existing one
	if n := len(r.entries); n > 0 && r.entries[n-1].frame >= s.frame {
		r.entries = r.entries[:n-1]
	}
	r.entries = append(r.entries, s)
	r.trim()
	r.timeline.add(s.frame, s.cycle, r.sys.Keypad.Pressed() != 0)
	r.timeline.AvailableStart = r.entries[0].frame
	r.timeline.AvailableEnd = r.entries[len(r.entries)-1].frame

	return nil
}

// trim the history to the maximum number of entries.
func (r *Rewind) trim() {
	limit := r.Prefs.MaxEntries.Get().(int)
	if len(r.entries) > limit {
		r.entries = append(r.entries[:0], r.entries[len(r.entries)-limit:]...)
	}
}

// Check should be called after the System has run. A snapshot is taken if a
// new frame has been reached and the frequency preference allows it.
func (r *Rewind) Check() error {
	fn := r.sys.FrameNum()
	if fn == r.lastFrame {
		return nil
	}
	r.lastFrame = fn

	if fn%r.Prefs.Frequency.Get().(int) != 0 {
		return nil
	}

	return r.append()
}

// find the latest snapshot at or before the frame.
func (r *Rewind) find(frame int) (int, bool) {
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].frame <= frame {
			return i, true
		}
	}
	return 0, false
}

// GotoFrame restores the System to the start of vertical blank in the
// frame. The nearest snapshot before the frame is loaded and the System run
// forward as required. Snapshots later than the frame are forgotten.
func (r *Rewind) GotoFrame(frame int) error {
	idx, ok := r.find(frame)
	if !ok {
		return curated.Errorf(NoSnapshot, frame)
	}

	if err := r.sys.LoadState(bytes.NewReader(r.entries[idx].state)); err != nil {
		return curated.Errorf(RewindFailed, err)
	}
	r.entries = r.entries[:idx+1]
	r.timeline.truncate(r.entries[idx].frame)

	for r.sys.FrameNum() < frame {
		if err := r.sys.RunFrame(); err != nil {
			return curated.Errorf(RewindFailed, err)
		}
		if r.sys.Halted() == memory.Stop {
			break
		}
	}

	r.lastFrame = r.sys.FrameNum()
	logger.Logf(logger.Allow, "rewind", "restored frame %d", r.lastFrame)

	return nil
}

// GotoLast restores the most recent snapshot.
func (r *Rewind) GotoLast() error {
	if len(r.entries) == 0 {
		return curated.Errorf(NoSnapshot, r.sys.FrameNum())
	}
	return r.GotoFrame(r.entries[len(r.entries)-1].frame)
}

// Back moves the System back by the number of frames. Rewinding beyond the
// earliest snapshot stops at the earliest snapshot.
func (r *Rewind) Back(frames int) error {
	if len(r.entries) == 0 {
		return curated.Errorf(NoSnapshot, r.sys.FrameNum()-frames)
	}
	return r.GotoFrame(max(r.sys.FrameNum()-frames, r.entries[0].frame))
}

// Timeline returns a summary of the rewind history.
func (r *Rewind) Timeline() Timeline {
	return r.timeline
}
