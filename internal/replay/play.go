package replay

import (
	"github.com/chrismaghuhn/rollback-playground/internal/errs"
	"github.com/chrismaghuhn/rollback-playground/internal/sim"
)

// Play folds the step function over the replay's recorded inputs,
// starting from the state the seed constructs, and returns the final
// state. Non-zero start frames are not supported in this MVP.
func Play(r Replay) (sim.State, error) {
	if r.StartFrame != 0 {
		return sim.State{}, errs.New(errs.Unsupported, "non-zero replay start frame is unsupported")
	}

	s, err := sim.NewState(r.Seed)
	if err != nil {
		return sim.State{}, err
	}

	for _, pair := range r.Inputs {
		s = sim.Step(s, pair.P1, pair.P2)
	}
	return s, nil
}

// PlayAndChecksum plays r to completion and returns the state hash of
// the final state.
func PlayAndChecksum(r Replay) (uint32, error) {
	s, err := Play(r)
	if err != nil {
		return 0, err
	}
	return sim.Hash(s), nil
}
