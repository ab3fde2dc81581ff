package plugin

import (
	"go.uber.org/zap"

	"github.com/plugrt/plugrt/pkg/framework/bus"
	"github.com/plugrt/plugrt/pkg/framework/debug"
	"github.com/plugrt/plugrt/pkg/framework/gui"
	"github.com/plugrt/plugrt/pkg/framework/param"
	"github.com/plugrt/plugrt/pkg/framework/preset"
	"github.com/plugrt/plugrt/pkg/framework/process"
	"github.com/plugrt/plugrt/pkg/framework/state"
	"github.com/plugrt/plugrt/pkg/midi"
)

// vst3MaxFrames is forced onto the buffer split when a VST3-style wrapper
// attaches and no smaller split is configured. Bounding slices at 512
// trades throughput for automation precision on that format.
const vst3MaxFrames = 512

// Client is the host-agnostic core of a plugin instance: it owns the
// parameter set, the preset bank, the MIDI queue, the dispatch pipeline,
// the GUI gate, and the state codec, and exposes the surface a format
// wrapper drives. One Client per plugin instance; everything it owns lives
// and dies with it.
type Client struct {
	info     Info
	params   *param.Set
	legalIO  *bus.Table
	bank     *preset.Bank
	queue    *midi.Queue
	dispatch *process.Dispatcher
	gate     *gui.Gate
	state    *state.Manager

	host     HostCallbacks
	attached bool
}

// Option configures a Client at construction.
type Option func(*Client)

// WithGUI supplies the lazy editor constructor. Ignored unless the plugin's
// Info declares HasGUI.
func WithGUI(build func() gui.View) Option {
	return func(c *Client) {
		if c.info.HasGUI {
			c.gate = gui.NewGate(build)
		}
	}
}

// WithBufferSplit configures the maximum frames per render slice; 0 leaves
// host buffers unsplit.
func WithBufferSplit(maxFrames int32) Option {
	return func(c *Client) {
		c.dispatch.SetMaxFramesInProcess(maxFrames)
	}
}

// WithPresets preloads factory presets into the bank.
func WithPresets(presets ...*preset.Preset) Option {
	return func(c *Client) {
		for _, p := range presets {
			c.bank.Add(p)
		}
	}
}

// NewClient builds a plugin instance core. params and legalIO are built by
// the plugin author before construction and owned by the client afterwards.
func NewClient(info Info, params *param.Set, legalIO *bus.Table, r process.Renderer, opts ...Option) *Client {
	queue := midi.NewQueue()
	c := &Client{
		info:     info,
		params:   params,
		legalIO:  legalIO,
		bank:     preset.NewBank(params),
		queue:    queue,
		dispatch: process.NewDispatcher(params, queue, r),
		gate:     gui.NewGate(nil),
	}
	c.state = state.NewManager(params, c.bank, info.Version.Encoded())
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Info returns the plugin's static metadata.
func (c *Client) Info() Info {
	return c.info
}

// Params returns the parameter set.
func (c *Client) Params() *param.Set {
	return c.params
}

// LegalIO returns the supported channel configurations.
func (c *Client) LegalIO() *bus.Table {
	return c.legalIO
}

// Bank returns the preset bank.
func (c *Client) Bank() *preset.Bank {
	return c.bank
}

// GUI returns the handoff gate; render code uses Acquire/Release on it for
// UI feedback.
func (c *Client) GUI() *gui.Gate {
	return c.gate
}

// AttachWrapper registers the format wrapper's callback surface. A
// VST3-style wrapper forces the buffer split down to 512 frames if it is
// unset or larger; the policy applies exactly once, at attachment, never
// per call.
func (c *Client) AttachWrapper(host HostCallbacks) {
	c.host = host
	if c.attached {
		return
	}
	c.attached = true
	if host.WireFormat() == FormatVST3 {
		if n := c.dispatch.MaxFramesInProcess(); n == 0 || n > vst3MaxFrames {
			c.dispatch.SetMaxFramesInProcess(vst3MaxFrames)
		}
	}
	debug.Logger().Info("wrapper attached",
		zap.String("host", host.AppName()),
		zap.Stringer("format", host.WireFormat()),
		zap.Int32("bufferSplitMaxFrames", c.dispatch.MaxFramesInProcess()))
}

// BufferSplitMaxFrames returns the configured split size, 0 when unsplit.
func (c *Client) BufferSplitMaxFrames() int32 {
	return c.dispatch.MaxFramesInProcess()
}

// ResetFromHost renegotiates processing with the host. Pending MIDI is
// dropped, the split clamp is applied to maxFrames, and the author's reset
// hook runs. Returns the negotiated per-slice maximum.
func (c *Client) ResetFromHost(sampleRate float64, maxFrames, numInputs, numOutputs int32) int32 {
	return c.dispatch.Reset(sampleRate, maxFrames, numInputs, numOutputs)
}

// ProcessFromHost is the sole render entry point, called by the wrapper on
// the real-time thread. Strict no-throw, no-allocate zone.
func (c *Client) ProcessFromHost(inputs, outputs [][]float32, frames int32, ti process.TimeInfo) {
	c.dispatch.Process(inputs, outputs, frames, ti)
}

// EnqueueMIDIFromHost queues a MIDI message onto the processing timeline.
// Must be serialized with ProcessFromHost by the wrapper.
func (c *Client) EnqueueMIDIFromHost(msg midi.Message) {
	c.queue.Enqueue(msg)
}

// LoadPresetFromHost switches presets, preserving live edits in the
// outgoing preset.
func (c *Client) LoadPresetFromHost(index int32) {
	c.bank.LoadPreset(index)
}

// AddNewDefaultPresetFromHost appends a preset of parameter defaults and
// loads it.
func (c *Client) AddNewDefaultPresetFromHost(name string) {
	c.bank.AddNewDefaultPreset(name)
}

// GetStateChunkFromCurrentState serializes the full plugin state for the
// host session.
func (c *Client) GetStateChunkFromCurrentState() ([]byte, error) {
	return c.state.Chunk()
}

// LoadStateChunk restores state from a host-provided chunk. On failure the
// prior state is untouched and the error is reported to the host path.
func (c *Client) LoadStateChunk(data []byte) error {
	if err := c.state.LoadChunk(data); err != nil {
		debug.Logger().Warn("state chunk rejected", zap.Error(err))
		return err
	}
	return nil
}

// OpenGUI lazily constructs the editor and opens it in the host window.
func (c *Client) OpenGUI(parent uintptr) error {
	return c.gate.Open(parent)
}

// GUISize returns the editor dimensions, constructing it if needed.
func (c *Client) GUISize() (width, height int32) {
	return c.gate.Size()
}

// CloseGUI tears the editor down, waiting out any in-flight render-path
// access.
func (c *Client) CloseGUI() {
	c.gate.Destroy()
}

// BeginEdit notifies the host a parameter gesture started.
func (c *Client) BeginEdit(index int32) {
	if c.host != nil {
		c.host.BeginEdit(index)
	}
}

// PerformEdit applies a GUI-driven parameter change locally and forwards it
// to the host for automation recording.
func (c *Client) PerformEdit(index int32, normalized float64) {
	if p := c.params.Get(index); p != nil {
		p.SetFromHost(normalized)
	}
	if c.host != nil {
		c.host.PerformEdit(index, normalized)
	}
}

// EndEdit notifies the host a parameter gesture finished.
func (c *Client) EndEdit(index int32) {
	if c.host != nil {
		c.host.EndEdit(index)
	}
}

// RequestResize asks the host to resize the editor's parent window. It
// reports whether the host granted the request; without a wrapper attached
// there is no window, so it reports false.
func (c *Client) RequestResize(width, height int32) bool {
	if c.host == nil {
		return false
	}
	return c.host.RequestResize(width, height)
}
