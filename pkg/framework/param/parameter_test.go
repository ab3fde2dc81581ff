package param

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatParameter(t *testing.T) {
	p := NewFloat(0, "Gain", -60, 12, 0).WithUnit("dB")

	require.Equal(t, KindFloat, p.Kind)
	assert.InDelta(t, 60.0/72.0, p.NormalizedDefault(), 1e-12)
	assert.InDelta(t, 0.0, p.Plain(), 1e-9)

	p.SetFromHost(1)
	assert.Equal(t, 12.0, p.Plain())
	assert.Equal(t, "12.00 dB", p.String())

	p.SetFromHost(0)
	assert.Equal(t, -60.0, p.Plain())
}

func TestSetFromHostClamps(t *testing.T) {
	p := NewFloat(0, "Gain", 0, 1, 0.5)

	p.SetFromHost(1.5)
	assert.Equal(t, 1.0, p.Normalized())

	p.SetFromHost(-0.5)
	assert.Equal(t, 0.0, p.Normalized())
}

func TestIntParameter(t *testing.T) {
	p := NewInt(0, "Voices", 1, 16, 8)

	p.SetFromHost(0.5)
	assert.Equal(t, 9.0, p.Plain()) // round(1 + 0.5*15)
	assert.Equal(t, "9", p.String())
}

func TestBoolParameter(t *testing.T) {
	p := NewBool(0, "Bypass", false)

	assert.False(t, p.IsOn())
	assert.Equal(t, "Off", p.String())

	p.SetFromHost(0.7)
	assert.True(t, p.IsOn())
	assert.Equal(t, "On", p.String())

	on := NewBool(0, "Bypass", true)
	assert.Equal(t, 1.0, on.NormalizedDefault())
}

func TestEnumParameter(t *testing.T) {
	labels := []string{"Sine", "Saw", "Square", "Noise"}
	p := NewEnum(0, "Wave", labels, 1)

	assert.Equal(t, 1, p.EnumIndex())
	assert.Equal(t, "Saw", p.String())

	p.SetFromHost(1)
	assert.Equal(t, 3, p.EnumIndex())
	assert.Equal(t, "Noise", p.String())

	p.SetFromHost(0)
	assert.Equal(t, 0, p.EnumIndex())
}

func TestSetIndexedAccess(t *testing.T) {
	s := NewSet().Add(
		NewFloat(0, "Gain", 0, 1, 1),
		NewBool(1, "Bypass", false),
	)

	require.Equal(t, int32(2), s.Count())
	assert.Equal(t, "Gain", s.Get(0).Name)
	assert.Equal(t, "Bypass", s.Get(1).Name)
	assert.Nil(t, s.Get(2))
	assert.Nil(t, s.Get(-1))
}

func TestSetSnapshotApply(t *testing.T) {
	s := NewSet().Add(
		NewFloat(0, "A", 0, 1, 0.25),
		NewFloat(1, "B", 0, 1, 0.5),
		NewFloat(2, "C", 0, 1, 0.75),
	)

	snap := s.Snapshot(nil)
	assert.Equal(t, []float64{0.25, 0.5, 0.75}, snap)

	// Short input: parameters beyond it keep their values.
	s.Apply([]float64{0.9})
	assert.Equal(t, 0.9, s.Get(0).Normalized())
	assert.Equal(t, 0.5, s.Get(1).Normalized())

	// Long input: extra values ignored.
	s.Apply([]float64{0.1, 0.2, 0.3, 0.4})
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, s.Snapshot(nil))
}

func TestSetDefaults(t *testing.T) {
	s := NewSet().Add(
		NewFloat(0, "A", 0, 1, 1),
		NewBool(1, "B", true),
	)
	assert.Equal(t, []float64{1, 1}, s.Defaults())
}

// Automation writes race against render-path reads by design; the only
// guarantee is that each individual load observes some stored value.
func TestParameterConcurrentAccess(t *testing.T) {
	p := NewFloat(0, "Gain", 0, 1, 0.5)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			p.SetFromHost(float64(i%100) / 100)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			v := p.Normalized()
			if v < 0 || v > 1 {
				t.Errorf("observed out-of-range value %v", v)
				return
			}
		}
	}()
	wg.Wait()
}
