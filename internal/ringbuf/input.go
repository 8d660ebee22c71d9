// Package ringbuf holds the two fixed-capacity ring buffers the rollback
// engine drives: one for per-frame inputs, one for per-frame state
// snapshots. Both use a parallel frame-number tag array with a sentinel
// value marking "never written" instead of a parallel bool slice — this
// halves the auxiliary memory and removes one branch per lookup.
package ringbuf

import (
	"github.com/chrismaghuhn/rollback-playground/internal/errs"
	"github.com/chrismaghuhn/rollback-playground/internal/sim"
)

// sentinel marks a slot that has never been written.
const sentinel = sim.SentinelFrame

// InputBuffer is a fixed-capacity per-frame input store supporting exact
// lookup and repeat-last-known prediction.
type InputBuffer struct {
	inputs []sim.Input
	tags   []uint32

	hasLatest bool
	latest    uint32
}

// NewInputBuffer constructs an InputBuffer of the given capacity.
// Capacity below 2 is rejected.
func NewInputBuffer(capacity int) (*InputBuffer, error) {
	if capacity < 2 {
		return nil, errs.New(errs.InvalidArgument, "input buffer capacity must be >= 2")
	}
	b := &InputBuffer{
		inputs: make([]sim.Input, capacity),
		tags:   make([]uint32, capacity),
	}
	b.clearTags()
	return b, nil
}

func (b *InputBuffer) clearTags() {
	for i := range b.tags {
		b.tags[i] = sentinel
	}
}

func (b *InputBuffer) cap32() uint32 {
	return uint32(len(b.tags))
}

// Set writes input into the slot for frame, advancing the latest-known
// pointer only if frame is at or beyond it (or the buffer was empty).
func (b *InputBuffer) Set(frame uint32, input sim.Input) {
	slot := frame % b.cap32()
	b.inputs[slot] = input
	b.tags[slot] = frame
	if !b.hasLatest || frame >= b.latest {
		b.hasLatest = true
		b.latest = frame
	}
}

// TryGet returns the stored input for frame iff that exact frame still
// occupies its slot.
func (b *InputBuffer) TryGet(frame uint32) (sim.Input, bool) {
	slot := frame % b.cap32()
	if b.tags[slot] != frame {
		return sim.Neutral, false
	}
	return b.inputs[slot], true
}

// GetOrPredict returns the stored input for frame if present; otherwise
// it predicts by repeating the nearest known input at or before frame,
// falling back to the neutral input. Worst case is O(capacity), with no
// allocation and no underflow at frame 0.
func (b *InputBuffer) GetOrPredict(frame uint32) sim.Input {
	if v, ok := b.TryGet(frame); ok {
		return v
	}
	if !b.hasLatest {
		return sim.Neutral
	}
	if frame > b.latest {
		v, _ := b.TryGet(b.latest)
		return v
	}

	capacity := b.cap32()
	lowerBound := uint32(0)
	if frame > capacity-1 {
		lowerBound = frame - capacity + 1
	}
	for f := frame; f > lowerBound; f-- {
		if v, ok := b.TryGet(f - 1); ok {
			return v
		}
	}
	return sim.Neutral
}

// Clear restores every slot to the sentinel tag and resets the
// latest-known pointer, preserving the underlying allocations.
func (b *InputBuffer) Clear() {
	b.clearTags()
	b.hasLatest = false
	b.latest = 0
}
