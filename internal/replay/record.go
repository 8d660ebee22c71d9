// Package replay implements inputs-only session recording and
// deterministic playback, plus the RPLK binary container for persisting
// a recorded session to disk.
package replay

import (
	"github.com/chrismaghuhn/rollback-playground/internal/errs"
	"github.com/chrismaghuhn/rollback-playground/internal/sim"
)

// InputPair holds one frame's inputs for both players.
type InputPair struct {
	P1, P2 sim.Input
}

// Replay is an immutable recorded session: a non-zero seed, a start
// frame, and a frozen sequence of input pairs. Construct one with
// Recorder.Build.
type Replay struct {
	Seed       uint32
	StartFrame uint32
	Inputs     []InputPair
}

// Len reports the number of recorded frames.
func (r Replay) Len() int {
	return len(r.Inputs)
}

// Recorder is a stateful builder over a growing input sequence. Build
// freezes the current sequence into an immutable Replay by deep copy;
// the recorder remains usable afterward.
type Recorder struct {
	seed       uint32
	startFrame uint32
	pairs      []InputPair
}

// NewRecorder constructs a Recorder for a non-zero seed, always starting
// at frame 0 (mid-session replays are unsupported, per spec).
func NewRecorder(seed uint32) (*Recorder, error) {
	if seed == 0 {
		return nil, errs.New(errs.InvalidArgument, "replay seed must be non-zero")
	}
	return &Recorder{seed: seed}, nil
}

// Append pushes one frame's input pair and increments the visible count.
func (r *Recorder) Append(p1, p2 sim.Input) {
	r.pairs = append(r.pairs, InputPair{P1: p1, P2: p2})
}

// Len reports the number of frames appended so far.
func (r *Recorder) Len() int {
	return len(r.pairs)
}

// Build returns an immutable Replay holding a deep copy of the recorded
// sequence.
func (r *Recorder) Build() Replay {
	frozen := make([]InputPair, len(r.pairs))
	copy(frozen, r.pairs)
	return Replay{
		Seed:       r.seed,
		StartFrame: r.startFrame,
		Inputs:     frozen,
	}
}
