package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugrt/plugrt/pkg/framework/bus"
	"github.com/plugrt/plugrt/pkg/framework/gui"
	"github.com/plugrt/plugrt/pkg/framework/param"
	"github.com/plugrt/plugrt/pkg/framework/preset"
	"github.com/plugrt/plugrt/pkg/framework/process"
	"github.com/plugrt/plugrt/pkg/midi"
)

type countingRenderer struct {
	calls  int
	frames []int
	notes  []byte
}

func (r *countingRenderer) Render(ctx *process.Context) {
	r.calls++
	r.frames = append(r.frames, ctx.NumSamples())
	for _, e := range ctx.Events {
		if e.IsNoteOn() {
			r.notes = append(r.notes, e.NoteNumber())
		}
	}
	ctx.Clear()
}

type fakeHost struct {
	format  WireFormat
	begins  []int32
	edits   []float64
	ends    []int32
	resized bool
}

func (h *fakeHost) BeginEdit(index int32)                    { h.begins = append(h.begins, index) }
func (h *fakeHost) PerformEdit(index int32, value float64)   { h.edits = append(h.edits, value) }
func (h *fakeHost) EndEdit(index int32)                      { h.ends = append(h.ends, index) }
func (h *fakeHost) RequestResize(w, hgt int32) bool          { h.resized = true; return true }
func (h *fakeHost) AppName() string                          { return "TestHost" }
func (h *fakeHost) WireFormat() WireFormat                   { return h.format }

type stubView struct {
	closed bool
}

func (v *stubView) Open(parent uintptr) error { return nil }
func (v *stubView) Size() (int32, int32)      { return 800, 600 }
func (v *stubView) Close()                    { v.closed = true }

func testInfo(hasGUI bool) Info {
	return Info{
		Vendor:       "Acme Audio",
		Name:         "Test Synth",
		VendorID:     [4]byte{'A', 'c', 'm', 'e'},
		PluginID:     [4]byte{'T', 's', 't', 'S'},
		Version:      Version{1, 2, 3},
		Category:     CategoryInstrument,
		BundlePrefix: "com.acme.audio",
		HasGUI:       hasGUI,
		IsSynth:      true,
		ReceivesMIDI: true,
	}
}

func newTestClient(r process.Renderer, opts ...Option) *Client {
	params := param.NewSet().Add(
		param.NewFloat(0, "Gain", 0, 1, 0.5),
		param.NewFloat(1, "Tone", 0, 1, 0.25),
	)
	return NewClient(testInfo(false), params, bus.NewSynthTable(2), r, opts...)
}

func buffers(channels, frames int) [][]float32 {
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, frames)
	}
	return out
}

func TestClientResetThenProcessSplits(t *testing.T) {
	rec := &countingRenderer{}
	c := newTestClient(rec, WithBufferSplit(512))

	negotiated := c.ResetFromHost(48000, 1000, 0, 2)
	assert.Equal(t, int32(512), negotiated)

	c.ProcessFromHost(nil, buffers(2, 1000), 1000, process.TimeInfo{Tempo: 120})
	assert.Equal(t, []int{512, 488}, rec.frames)
}

func TestClientMIDIFlow(t *testing.T) {
	rec := &countingRenderer{}
	c := newTestClient(rec, WithBufferSplit(256))
	c.ResetFromHost(48000, 4096, 0, 2)

	c.EnqueueMIDIFromHost(midi.NewNoteOn(0, 60, 100, 0))
	c.EnqueueMIDIFromHost(midi.NewNoteOn(0, 64, 100, 300))

	c.ProcessFromHost(nil, buffers(2, 512), 512, process.TimeInfo{})
	assert.Equal(t, []byte{60, 64}, rec.notes)
}

func TestVST3AttachmentForcesSplit(t *testing.T) {
	tests := []struct {
		name      string
		format    WireFormat
		preSplit  int32
		wantSplit int32
	}{
		{name: "vst3 with unset split", format: FormatVST3, preSplit: 0, wantSplit: 512},
		{name: "vst3 with larger split", format: FormatVST3, preSplit: 1024, wantSplit: 512},
		{name: "vst3 keeps smaller split", format: FormatVST3, preSplit: 128, wantSplit: 128},
		{name: "vst2 untouched", format: FormatVST2, preSplit: 0, wantSplit: 0},
		{name: "au untouched", format: FormatAU, preSplit: 1024, wantSplit: 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(&countingRenderer{}, WithBufferSplit(tt.preSplit))
			c.AttachWrapper(&fakeHost{format: tt.format})
			assert.Equal(t, tt.wantSplit, c.BufferSplitMaxFrames())
		})
	}
}

func TestVST3AttachmentPolicyAppliesOnce(t *testing.T) {
	c := newTestClient(&countingRenderer{})
	c.AttachWrapper(&fakeHost{format: FormatVST3})
	require.Equal(t, int32(512), c.BufferSplitMaxFrames())

	// A second attachment must not re-apply the policy over a later
	// explicit configuration.
	c.dispatch.SetMaxFramesInProcess(1024)
	c.AttachWrapper(&fakeHost{format: FormatVST3})
	assert.Equal(t, int32(1024), c.BufferSplitMaxFrames())
}

func TestClientStateRoundTrip(t *testing.T) {
	rec := &countingRenderer{}
	c := newTestClient(rec, WithPresets(preset.New("Init", []float64{0.5, 0.25})))
	c.LoadPresetFromHost(0)
	c.Params().Get(0).SetFromHost(0.9)

	chunk, err := c.GetStateChunkFromCurrentState()
	require.NoError(t, err)

	c2 := newTestClient(&countingRenderer{}, WithPresets(preset.New("Init", []float64{0.5, 0.25})))
	require.NoError(t, c2.LoadStateChunk(chunk))
	assert.Equal(t, 0.9, c2.Params().Get(0).Normalized())
	assert.Equal(t, int32(0), c2.Bank().CurrentIndex())

	chunk[0] = 'X'
	assert.Error(t, c2.LoadStateChunk(chunk))
}

func TestClientPresetNavigationPreservesEdits(t *testing.T) {
	c := newTestClient(&countingRenderer{}, WithPresets(
		preset.New("one", []float64{0.1, 0.1}),
		preset.New("two", []float64{0.9, 0.9}),
	))

	c.LoadPresetFromHost(0)
	c.Params().Get(1).SetFromHost(0.5)
	c.LoadPresetFromHost(1)
	c.LoadPresetFromHost(0)

	assert.Equal(t, 0.5, c.Params().Get(1).Normalized())
}

func TestClientDefaultPreset(t *testing.T) {
	c := newTestClient(&countingRenderer{})
	c.AddNewDefaultPresetFromHost("defaults")

	require.Equal(t, int32(1), c.Bank().Count())
	assert.Equal(t, int32(0), c.Bank().CurrentIndex())
	assert.Equal(t, 0.5, c.Params().Get(0).Normalized())
	assert.Equal(t, 0.25, c.Params().Get(1).Normalized())
}

func TestClientGUILifecycle(t *testing.T) {
	view := &stubView{}
	params := param.NewSet().Add(param.NewFloat(0, "Gain", 0, 1, 0.5))
	c := NewClient(testInfo(true), params, bus.NewStereoTable(), &countingRenderer{},
		WithGUI(func() gui.View { return view }))

	w, h := c.GUISize()
	assert.Equal(t, int32(800), w)
	assert.Equal(t, int32(600), h)
	require.NoError(t, c.OpenGUI(0))

	// Render-path feedback handshake.
	v := c.GUI().Acquire()
	require.NotNil(t, v)
	c.GUI().Release()

	c.CloseGUI()
	assert.True(t, view.closed)
	assert.Nil(t, c.GUI().Acquire())
}

func TestClientWithoutGUIDeclared(t *testing.T) {
	// WithGUI is ignored when Info does not declare a GUI.
	c := newTestClient(&countingRenderer{},
		WithGUI(func() gui.View { return &stubView{} }))

	w, h := c.GUISize()
	assert.Zero(t, w)
	assert.Zero(t, h)
	assert.Nil(t, c.GUI().Acquire())
}

func TestClientEditNotifications(t *testing.T) {
	host := &fakeHost{format: FormatVST2}
	c := newTestClient(&countingRenderer{})
	c.AttachWrapper(host)

	c.BeginEdit(0)
	c.PerformEdit(0, 0.8)
	c.EndEdit(0)

	assert.Equal(t, []int32{0}, host.begins)
	assert.Equal(t, []float64{0.8}, host.edits)
	assert.Equal(t, []int32{0}, host.ends)
	// The edit also lands in the live parameter.
	assert.Equal(t, 0.8, c.Params().Get(0).Normalized())
}

func TestClientRequestResize(t *testing.T) {
	c := newTestClient(&countingRenderer{})
	assert.False(t, c.RequestResize(400, 300), "no wrapper, no window")

	host := &fakeHost{format: FormatVST2}
	c.AttachWrapper(host)
	assert.True(t, c.RequestResize(400, 300))
	assert.True(t, host.resized)
}

func TestClientLegalIO(t *testing.T) {
	c := newTestClient(&countingRenderer{})

	assert.True(t, c.LegalIO().Accepts(0, 2))
	assert.False(t, c.LegalIO().Accepts(2, 2))
	assert.True(t, c.LegalIO().Accepts(-1, 2))
}
