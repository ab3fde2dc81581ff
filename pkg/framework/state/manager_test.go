package state

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugrt/plugrt/pkg/framework/param"
	"github.com/plugrt/plugrt/pkg/framework/preset"
)

func newTestManager() (*Manager, *param.Set, *preset.Bank) {
	params := param.NewSet().Add(
		param.NewFloat(0, "A", 0, 1, 0.5),
		param.NewFloat(1, "B", 0, 1, 0.25),
		param.NewBool(2, "C", false),
	)
	bank := preset.NewBank(params)
	bank.Add(preset.New("Init", []float64{0.5, 0.25, 0}))
	return NewManager(params, bank, 0x010203), params, bank
}

func TestChunkRoundTrip(t *testing.T) {
	m, params, bank := newTestManager()
	bank.LoadPreset(0)
	params.Get(0).SetFromHost(0.9)
	params.Get(2).SetFromHost(1)

	chunk, err := m.Chunk()
	require.NoError(t, err)

	// Restore into a fresh instance.
	m2, params2, bank2 := newTestManager()
	require.NoError(t, m2.LoadChunk(chunk))

	assert.Equal(t, 0.9, params2.Get(0).Normalized())
	assert.Equal(t, 0.25, params2.Get(1).Normalized())
	assert.Equal(t, 1.0, params2.Get(2).Normalized())
	assert.Equal(t, int32(0), bank2.CurrentIndex())
}

func TestChunkHeaderLayout(t *testing.T) {
	m, _, _ := newTestManager()
	chunk, err := m.Chunk()
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(chunk), 24)
	assert.Equal(t, []byte{'P', 'R', 'T', 'S'}, chunk[:4])
	assert.Equal(t, MajorVersion, binary.LittleEndian.Uint32(chunk[4:8]))
	assert.Equal(t, MinorVersion, binary.LittleEndian.Uint32(chunk[8:12]))
	assert.Equal(t, uint32(0x010203), binary.LittleEndian.Uint32(chunk[12:16]))
	// Current index then parameter count.
	assert.Equal(t, int32(-1), int32(binary.LittleEndian.Uint32(chunk[16:20])))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(chunk[20:24]))
}

func TestLoadRejectsBadMagic(t *testing.T) {
	m, params, _ := newTestManager()
	params.Get(0).SetFromHost(0.7)
	chunk, err := m.Chunk()
	require.NoError(t, err)

	chunk[0] = 'X'
	params.Get(0).SetFromHost(0.3)

	err = m.LoadChunk(chunk)
	require.ErrorIs(t, err, ErrUnrecognizedChunk)
	// Prior state untouched.
	assert.Equal(t, 0.3, params.Get(0).Normalized())
}

func TestLoadRejectsNewerMajor(t *testing.T) {
	m, _, _ := newTestManager()
	chunk, err := m.Chunk()
	require.NoError(t, err)

	binary.LittleEndian.PutUint32(chunk[4:8], MajorVersion+1)
	require.ErrorIs(t, m.LoadChunk(chunk), ErrIncompatibleChunk)
}

func TestLoadAcceptsOlderMinor(t *testing.T) {
	m, _, _ := newTestManager()
	chunk, err := m.Chunk()
	require.NoError(t, err)

	binary.LittleEndian.PutUint32(chunk[8:12], MinorVersion+7)
	assert.NoError(t, m.LoadChunk(chunk))
}

func TestLoadRejectsCorruptValues(t *testing.T) {
	bad := []float32{float32(math.NaN()), float32(math.Inf(1)), -0.5, 2}

	for _, v := range bad {
		m, params, _ := newTestManager()
		chunk, err := m.Chunk()
		require.NoError(t, err)
		binary.LittleEndian.PutUint32(chunk[24:28], math.Float32bits(v))

		params.Get(0).SetFromHost(0.42)
		err = m.LoadChunk(chunk)
		require.ErrorIs(t, err, ErrCorruptParameter)
		assert.Equal(t, 0.42, params.Get(0).Normalized())
	}
}

func TestLoadTruncatedChunk(t *testing.T) {
	m, _, _ := newTestManager()
	chunk, err := m.Chunk()
	require.NoError(t, err)

	for cut := 0; cut < len(chunk); cut++ {
		assert.Error(t, m.LoadChunk(chunk[:cut]), "cut at %d", cut)
	}
}

func TestLoadParameterCountMismatch(t *testing.T) {
	t.Run("stored fewer than live", func(t *testing.T) {
		short := param.NewSet().Add(param.NewFloat(0, "A", 0, 1, 0))
		shortBank := preset.NewBank(short)
		short.Get(0).SetFromHost(0.6)
		chunk, err := NewManager(short, shortBank, 0).Chunk()
		require.NoError(t, err)

		m, params, _ := newTestManager()
		params.Get(1).SetFromHost(0.33)
		require.NoError(t, m.LoadChunk(chunk))
		assert.Equal(t, 0.6, params.Get(0).Normalized())
		// Parameters beyond the stored count keep prior values.
		assert.Equal(t, 0.33, params.Get(1).Normalized())
	})

	t.Run("stored more than live", func(t *testing.T) {
		m, _, _ := newTestManager()
		chunk, err := m.Chunk()
		require.NoError(t, err)

		short := param.NewSet().Add(param.NewFloat(0, "A", 0, 1, 0))
		shortBank := preset.NewBank(short)
		require.NoError(t, NewManager(short, shortBank, 0).LoadChunk(chunk))
	})
}

func TestSaveWritesBackCurrentPreset(t *testing.T) {
	m, params, bank := newTestManager()
	bank.LoadPreset(0)
	params.Get(0).SetFromHost(0.88)

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))

	assert.Equal(t, 0.88, bank.Get(0).Values[0])
}
