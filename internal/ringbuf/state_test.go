package ringbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrismaghuhn/rollback-playground/internal/sim"
)

func TestStateBuffer_SaveAndLoad(t *testing.T) {
	b, err := NewStateBuffer(4)
	require.NoError(t, err)

	s, err := sim.NewState(1)
	require.NoError(t, err)
	s.Frame = 7
	b.Save(7, s)

	loaded, ok := b.TryLoad(7)
	require.True(t, ok)
	assert.Equal(t, s, loaded)

	_, ok = b.TryLoad(8)
	assert.False(t, ok)
}

func TestStateBuffer_LoadIsIndependentCopy(t *testing.T) {
	b, err := NewStateBuffer(4)
	require.NoError(t, err)

	s, err := sim.NewState(1)
	require.NoError(t, err)
	b.Save(0, s)

	loaded, ok := b.TryLoad(0)
	require.True(t, ok)
	loaded.P1.HP = 1

	reloaded, ok := b.TryLoad(0)
	require.True(t, ok)
	assert.NotEqual(t, int32(1), reloaded.P1.HP)
}

func TestStateBuffer_EvictionBySlotReuse(t *testing.T) {
	b, err := NewStateBuffer(4)
	require.NoError(t, err)

	s, err := sim.NewState(1)
	require.NoError(t, err)
	b.Save(1, s)
	b.Save(5, s) // same slot (5 % 4 == 1), evicts frame 1

	_, ok := b.TryLoad(1)
	assert.False(t, ok)
	_, ok = b.TryLoad(5)
	assert.True(t, ok)
}

func TestStateBuffer_LatestFrame(t *testing.T) {
	b, err := NewStateBuffer(4)
	require.NoError(t, err)

	_, ok := b.LatestFrame()
	assert.False(t, ok)

	s, err := sim.NewState(1)
	require.NoError(t, err)
	b.Save(3, s)
	b.Save(1, s)

	latest, ok := b.LatestFrame()
	require.True(t, ok)
	assert.Equal(t, uint32(3), latest)
}

func TestStateBuffer_Clear(t *testing.T) {
	b, err := NewStateBuffer(4)
	require.NoError(t, err)

	s, err := sim.NewState(1)
	require.NoError(t, err)
	b.Save(0, s)
	b.Clear()

	_, ok := b.TryLoad(0)
	assert.False(t, ok)
	_, ok = b.LatestFrame()
	assert.False(t, ok)
}
