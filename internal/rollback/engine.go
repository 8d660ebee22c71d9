// Package rollback drives the tick loop, detects prediction misses as
// confirmed remote input arrives, and re-simulates from the mispredicted
// frame forward to the present.
package rollback

import (
	"github.com/chrismaghuhn/rollback-playground/internal/errs"
	"github.com/chrismaghuhn/rollback-playground/internal/ringbuf"
	"github.com/chrismaghuhn/rollback-playground/internal/sim"
)

// Role identifies which side of the match the local engine instance
// plays.
type Role int

const (
	RoleP1 Role = iota
	RoleP2
)

// Engine owns one local input ring, one remote input ring, and one
// snapshot ring, all the same capacity, plus the live simulation state.
// It is single-threaded: every method must be called from the one
// goroutine that owns the engine.
type Engine struct {
	role Role

	local  *ringbuf.InputBuffer
	remote *ringbuf.InputBuffer
	states *ringbuf.StateBuffer

	current uint32
	state   sim.State

	RollbackCount      int
	RollbackFramesTotal uint64
	MaxRollbackDepth    uint32
}

// New constructs an Engine from an initial state, a history capacity of
// at least 2, and the local role. Any role other than RoleP1/RoleP2 is
// rejected.
func New(initial sim.State, historyCapacity int, role Role) (*Engine, error) {
	if role != RoleP1 && role != RoleP2 {
		return nil, errs.New(errs.InvalidArgument, "invalid local role")
	}

	local, err := ringbuf.NewInputBuffer(historyCapacity)
	if err != nil {
		return nil, err
	}
	remote, err := ringbuf.NewInputBuffer(historyCapacity)
	if err != nil {
		return nil, err
	}
	states, err := ringbuf.NewStateBuffer(historyCapacity)
	if err != nil {
		return nil, err
	}

	return &Engine{
		role:    role,
		local:   local,
		remote:  remote,
		states:  states,
		current: initial.Frame,
		state:   initial,
	}, nil
}

// CurrentFrame returns the frame the engine's live state sits at.
func (e *Engine) CurrentFrame() uint32 {
	return e.current
}

// CurrentState returns a copy of the live simulation state.
func (e *Engine) CurrentState() sim.State {
	return e.state
}

// mapInputs orders (local, remote) into (p1, p2) according to the local
// role.
func (e *Engine) mapInputs(localInput, remoteInput sim.Input) (sim.Input, sim.Input) {
	if e.role == RoleP1 {
		return localInput, remoteInput
	}
	return remoteInput, localInput
}

// Tick advances the simulation by one frame given this frame's confirmed
// local input. It records the local input, resolves the remote input
// (exact if already confirmed, predicted otherwise — with the prediction
// written back so a later confirmation can be compared against it),
// archives the pre-step state, and steps the simulation forward.
func (e *Engine) Tick(localInput sim.Input) {
	frame := e.current

	e.local.Set(frame, localInput)

	remoteInput, ok := e.remote.TryGet(frame)
	if !ok {
		remoteInput = e.remote.GetOrPredict(frame)
		e.remote.Set(frame, remoteInput)
	}

	e.states.Save(frame, e.state)

	p1, p2 := e.mapInputs(localInput, remoteInput)
	e.state = sim.Step(e.state, p1, p2)
	e.current = frame + 1
}

// SetRemoteInput records a confirmed remote input for frame, which may
// arrive late, out of order, or duplicated. A bit-identical duplicate
// against an already-stored value is a no-op. A genuine change to an
// already-observed frame in the past triggers a rollback to that frame.
// A frame that was never written and still lies ahead of the engine is
// stored with no rollback, since nothing has simulated past it yet. A
// frame that lies in the past but was evicted from the input ring (its
// slot has since been reused by a later frame) cannot be trusted either
// way — the engine cannot tell whether the value it simulated with
// differed from this one — so it is treated the same as a genuine
// change and rolled back to, which fails loudly with InsufficientHistory
// once the matching snapshot has been evicted too.
func (e *Engine) SetRemoteInput(frame uint32, input sim.Input) error {
	existing, ok := e.remote.TryGet(frame)
	if ok && existing == input {
		return nil
	}

	e.remote.Set(frame, input)
	if frame < e.current {
		return e.RollbackTo(frame)
	}
	return nil
}

// RollbackTo restores the snapshot for frame and re-simulates forward to
// the frame the engine was at before the call, using recorded local
// inputs and confirmed-or-predicted remote inputs along the way. Every
// re-simulated frame's snapshot is overwritten in the state ring, making
// the corrected path canonical.
func (e *Engine) RollbackTo(frame uint32) error {
	end := e.current

	restored, ok := e.states.TryLoad(frame)
	if !ok {
		return errs.Newf(errs.InsufficientHistory,
			"rollback target frame %d was evicted; increase history capacity", frame)
	}

	e.RollbackCount++
	depth := end - frame
	e.RollbackFramesTotal += uint64(depth)
	if depth > e.MaxRollbackDepth {
		e.MaxRollbackDepth = depth
	}

	e.state = restored
	e.current = frame

	for f := frame; f < end; f++ {
		localInput, ok := e.local.TryGet(f)
		if !ok {
			return errs.Newf(errs.MissingLocalInput,
				"no recorded local input for frame %d during re-simulation", f)
		}

		remoteInput, ok := e.remote.TryGet(f)
		if !ok {
			remoteInput = e.remote.GetOrPredict(f)
			e.remote.Set(f, remoteInput)
		}

		e.states.Save(f, e.state)

		p1, p2 := e.mapInputs(localInput, remoteInput)
		e.state = sim.Step(e.state, p1, p2)
		e.current = f + 1
	}

	return nil
}
