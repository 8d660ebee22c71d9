package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedInput reproduces the §8 golden-checksum scenario's scripted
// input sequences for P1 and P2.
func scriptedInput(frame uint32) (Input, Input) {
	var p1 Input
	switch {
	case frame <= 49:
		p1 = ButtonRight
	case frame == 50:
		p1 = ButtonJump
	case frame <= 149:
		p1 = ButtonRight
	case frame <= 199:
		if frame%20 == 0 {
			p1 = ButtonAttack
		}
	default:
		p1 = ButtonLeft
	}

	var p2 Input
	switch {
	case frame <= 99:
		p2 = ButtonLeft
	case frame <= 119:
		p2 = ButtonJump
	}

	return p1, p2
}

func TestStep_GoldenChecksum(t *testing.T) {
	s, err := NewState(1)
	require.NoError(t, err)

	for f := uint32(0); f < 1000; f++ {
		p1, p2 := scriptedInput(f)
		s = Step(s, p1, p2)
	}

	assert.Equal(t, uint32(0x41B73DB7), Hash(s))
}

func TestStep_OverlapIsOpen(t *testing.T) {
	// P1 right at the edge of its hitbox reach, P2 positioned exactly one
	// hitbox-width away: touching edges must not register as a hit.
	s, err := NewState(1)
	require.NoError(t, err)
	s.P1.X = 0
	s.P1.Facing = 1
	s.P1.AttackActiveFrames = AttackActiveFrames
	s.P1.AttackHasHit = 0
	s.P2.X = PlayerWidth + AttackHitboxWidth
	s.P2.Y = 0

	p1Hits := canHit(&s.P1) && overlaps(attackerHitbox(&s.P1), defenderHurtbox(&s.P2))
	assert.False(t, p1Hits)
}

func TestStep_AtMostOneHitPerSwing(t *testing.T) {
	s, err := NewState(1)
	require.NoError(t, err)
	s.P1.X = 0
	s.P1.Facing = 1
	s.P2.X = PlayerWidth
	s.P2.Y = 0

	// Start an attack and let it run its full active window next to the
	// defender; HP should drop by exactly one hit's worth of damage, even
	// though the defender stays in range for the whole window.
	hpBefore := s.P2.HP
	s = Step(s, ButtonAttack, Neutral)
	for i := 0; i < AttackActiveFrames+2; i++ {
		s = Step(s, Neutral, Neutral)
	}
	assert.Equal(t, hpBefore-AttackDamage, s.P2.HP)
}

func TestStep_SimultaneousHitResolution(t *testing.T) {
	// Both players attack into range on the same frame; both hits must
	// land, since hit resolution snapshots both attacks before applying
	// either — neither player's damage can cancel the other's retaliation
	// within the same tick.
	s, err := NewState(1)
	require.NoError(t, err)
	s.P1.X = 0
	s.P1.Facing = 1
	s.P2.X = PlayerWidth
	s.P2.Facing = -1
	s.P2.Y = 0

	s = Step(s, ButtonAttack, ButtonAttack)
	for i := 0; i < AttackActiveFrames; i++ {
		s = Step(s, Neutral, Neutral)
	}
	assert.Equal(t, int32(DefaultHp-AttackDamage), s.P1.HP)
	assert.Equal(t, int32(DefaultHp-AttackDamage), s.P2.HP)
}

func TestStep_JumpReturnsToIdleOnLanding(t *testing.T) {
	s, err := NewState(1)
	require.NoError(t, err)
	s = Step(s, ButtonJump, Neutral)
	assert.Equal(t, ActionJump, s.P1.Action)

	for i := 0; i < 200 && s.P1.Y > GroundY; i++ {
		s = Step(s, Neutral, Neutral)
	}
	assert.Equal(t, int32(GroundY), s.P1.Y)
	assert.Equal(t, ActionIdle, s.P1.Action)
}

func TestStep_AttackCooldownBlocksImmediateReattack(t *testing.T) {
	s, err := NewState(1)
	require.NoError(t, err)
	s = Step(s, ButtonAttack, Neutral)
	require.Equal(t, ActionAttack, s.P1.Action)

	s2 := Step(s, ButtonAttack, Neutral)
	assert.Equal(t, int32(AttackCooldownFrames-1), s2.P1.AttackCooldownFrames)
}

func TestStep_XClampedToArenaBounds(t *testing.T) {
	s, err := NewState(1)
	require.NoError(t, err)
	s.P1.X = MaxX - PlayerWidth
	s = Step(s, ButtonRight, Neutral)
	assert.Equal(t, int32(MaxX-PlayerWidth), s.P1.X)
}

func TestStep_IgnoresReservedInputBits(t *testing.T) {
	s, err := NewState(1)
	require.NoError(t, err)
	a := Step(s, Input(0xFFF0), Neutral)
	b := Step(s, Neutral, Neutral)
	assert.Equal(t, a, b)
}
