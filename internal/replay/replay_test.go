package replay

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrismaghuhn/rollback-playground/internal/errs"
	"github.com/chrismaghuhn/rollback-playground/internal/sim"
)

func buildFixture(t *testing.T) Replay {
	rec, err := NewRecorder(1)
	require.NoError(t, err)
	for f := 0; f < 50; f++ {
		rec.Append(sim.ButtonRight, sim.ButtonLeft)
	}
	return rec.Build()
}

func TestRecorder_AppendAndBuild(t *testing.T) {
	rec, err := NewRecorder(7)
	require.NoError(t, err)
	rec.Append(sim.ButtonJump, sim.Neutral)
	rec.Append(sim.Neutral, sim.ButtonAttack)
	assert.Equal(t, 2, rec.Len())

	built := rec.Build()
	assert.Equal(t, 2, built.Len())
	assert.Equal(t, uint32(7), built.Seed)

	// The recorder remains usable and independent of the built value.
	rec.Append(sim.ButtonLeft, sim.Neutral)
	assert.Equal(t, 3, rec.Len())
	assert.Equal(t, 2, built.Len())
}

func TestNewRecorder_RejectsZeroSeed(t *testing.T) {
	_, err := NewRecorder(0)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.InvalidArgument))
}

func TestPlay_Determinism(t *testing.T) {
	r := buildFixture(t)

	a, err := Play(r)
	require.NoError(t, err)
	b, err := Play(r)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, sim.Hash(a), sim.Hash(b))
}

func TestPlay_RejectsNonZeroStartFrame(t *testing.T) {
	r := buildFixture(t)
	r.StartFrame = 1
	_, err := Play(r)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Unsupported))
}

func TestPlayAndChecksum_MatchesPlay(t *testing.T) {
	r := buildFixture(t)
	state, err := Play(r)
	require.NoError(t, err)
	checksum, err := PlayAndChecksum(r)
	require.NoError(t, err)
	assert.Equal(t, sim.Hash(state), checksum)
}

func TestRPLK_RoundTrip(t *testing.T) {
	r := buildFixture(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r))

	decoded, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, r, decoded)
}

func TestRPLK_Write_RejectsNonZeroStartFrame(t *testing.T) {
	r := buildFixture(t)
	r.StartFrame = 5
	var buf bytes.Buffer
	err := Write(&buf, r)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Unsupported))
}

func TestRPLK_Read_RejectsBadMagic(t *testing.T) {
	r := buildFixture(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r))
	data := buf.Bytes()
	data[0] = 'X'

	_, err := Read(bytes.NewReader(data))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Corrupt))
}

func TestRPLK_Read_RejectsWrongVersion(t *testing.T) {
	r := buildFixture(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r))
	data := buf.Bytes()
	data[4] = 2

	_, err := Read(bytes.NewReader(data))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Unsupported))
}

func TestRPLK_Read_RejectsCRCMismatch(t *testing.T) {
	r := buildFixture(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r))
	data := buf.Bytes()
	data[headerSize] ^= 0xFF // flip every bit of the first payload byte

	_, err := Read(bytes.NewReader(data))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Corrupt))
}

func TestRPLK_Read_RejectsTruncatedStream(t *testing.T) {
	r := buildFixture(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r))
	data := buf.Bytes()

	_, err := Read(bytes.NewReader(data[:len(data)-1]))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Truncated))
}

func TestRPLK_Read_RejectsShortHeader(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte{1, 2, 3}))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Truncated))
}
