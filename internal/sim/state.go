package sim

import "github.com/chrismaghuhn/rollback-playground/internal/fixed"

// ActionState is a player's current animation/behavior state.
type ActionState uint8

const (
	ActionIdle ActionState = iota
	ActionRun
	ActionJump
	ActionAttack
	ActionHitstun
)

func (a ActionState) String() string {
	switch a {
	case ActionIdle:
		return "idle"
	case ActionRun:
		return "run"
	case ActionJump:
		return "jump"
	case ActionAttack:
		return "attack"
	case ActionHitstun:
		return "hitstun"
	default:
		return "unknown"
	}
}

// Player holds one combatant's fixed-point state. It is a plain value:
// copying it produces an independent snapshot with no aliasing.
type Player struct {
	X, Y   int32
	Vx, Vy int32
	Facing int32 // +1 or -1

	Action ActionState

	HitstunFrames        int32
	HP                   int32
	AttackCooldownFrames int32
	AttackActiveFrames   int32
	AttackHasHit         uint8 // 0 or 1
}

// newPlayer constructs a player at the given spawn X, facing toward the
// opponent, with full HP and every timer at rest.
func newPlayer(startX int32, facing int32) Player {
	return Player{
		X:      startX,
		Y:      StartY,
		Facing: facing,
		Action: ActionIdle,
		HP:     DefaultHp,
	}
}

// State is the entire simulation value: frame counter, both players, and
// the PRNG state. Copying a State produces a fully independent snapshot.
type State struct {
	Frame uint32
	P1    Player
	P2    Player
	Rand  fixed.Rand
}

// NewState constructs the initial state for a match from a non-zero seed.
func NewState(seed uint32) (State, error) {
	r, err := fixed.NewRand(seed)
	if err != nil {
		return State{}, err
	}
	return State{
		Frame: 0,
		P1:    newPlayer(P1StartX, 1),
		P2:    newPlayer(P2StartX, -1),
		Rand:  r,
	}, nil
}
