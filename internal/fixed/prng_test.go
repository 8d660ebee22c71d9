package fixed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrismaghuhn/rollback-playground/internal/errs"
)

func TestNewRand_RejectsZeroSeed(t *testing.T) {
	_, err := NewRand(0)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.InvalidArgument))
}

func TestNewRand_AcceptsNonZeroSeed(t *testing.T) {
	r, err := NewRand(1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, r.State())
}

func TestRand_NeverBecomesZero(t *testing.T) {
	r, err := NewRand(1)
	require.NoError(t, err)
	for i := 0; i < 1_000_000; i++ {
		if r.Next() == 0 {
			t.Fatalf("state became zero after %d advances", i+1)
		}
	}
}

func TestRand_Deterministic(t *testing.T) {
	a, err := NewRand(12345)
	require.NoError(t, err)
	b, err := NewRand(12345)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestRand_Bounded_RejectsZero(t *testing.T) {
	r, err := NewRand(1)
	require.NoError(t, err)
	_, err = r.Bounded(0)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.InvalidArgument))
}

func TestRand_Bounded_StaysInRange(t *testing.T) {
	r, err := NewRand(7)
	require.NoError(t, err)
	for i := 0; i < 10_000; i++ {
		v, err := r.Bounded(37)
		require.NoError(t, err)
		assert.Less(t, v, uint32(37))
	}
}

func TestRand_NextInt_RejectsMaxLEMin(t *testing.T) {
	r, err := NewRand(1)
	require.NoError(t, err)

	_, err = r.NextInt(5, 5)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.InvalidArgument))

	_, err = r.NextInt(5, 4)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.InvalidArgument))
}

func TestRand_NextInt_StaysInRange(t *testing.T) {
	r, err := NewRand(99)
	require.NoError(t, err)
	for i := 0; i < 10_000; i++ {
		v, err := r.NextInt(-5, 5)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, int32(-5))
		assert.Less(t, v, int32(5))
	}
}
