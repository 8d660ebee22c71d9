package ringbuf

import (
	"github.com/chrismaghuhn/rollback-playground/internal/errs"
	"github.com/chrismaghuhn/rollback-playground/internal/sim"
)

// StateBuffer is a fixed-capacity per-frame snapshot store. Every
// Save/TryLoad is a deep-by-value copy: sim.State is a plain value type,
// so assignment already produces an independent copy with no aliasing.
type StateBuffer struct {
	states []sim.State
	tags   []uint32

	hasLatest bool
	latest    uint32
}

// NewStateBuffer constructs a StateBuffer of the given capacity. Capacity
// below 2 is rejected.
func NewStateBuffer(capacity int) (*StateBuffer, error) {
	if capacity < 2 {
		return nil, errs.New(errs.InvalidArgument, "state buffer capacity must be >= 2")
	}
	b := &StateBuffer{
		states: make([]sim.State, capacity),
		tags:   make([]uint32, capacity),
	}
	b.clearTags()
	return b, nil
}

func (b *StateBuffer) clearTags() {
	for i := range b.tags {
		b.tags[i] = sentinel
	}
}

func (b *StateBuffer) cap32() uint32 {
	return uint32(len(b.tags))
}

// Save copies state into the slot for frame.
func (b *StateBuffer) Save(frame uint32, state sim.State) {
	slot := frame % b.cap32()
	b.states[slot] = state
	b.tags[slot] = frame
	if !b.hasLatest || frame >= b.latest {
		b.hasLatest = true
		b.latest = frame
	}
}

// TryLoad returns an independent copy of the snapshot saved for frame,
// iff that exact frame still occupies its slot.
func (b *StateBuffer) TryLoad(frame uint32) (sim.State, bool) {
	slot := frame % b.cap32()
	if b.tags[slot] != frame {
		return sim.State{}, false
	}
	return b.states[slot], true
}

// LatestFrame returns the highest frame saved since construction or the
// last Clear.
func (b *StateBuffer) LatestFrame() (uint32, bool) {
	return b.latest, b.hasLatest
}

// Clear restores every slot to the sentinel tag and resets the
// latest-known pointer, preserving the underlying allocations.
func (b *StateBuffer) Clear() {
	b.clearTags()
	b.hasLatest = false
	b.latest = 0
}
