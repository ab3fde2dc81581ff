package process

import (
	"github.com/plugrt/plugrt/pkg/framework/param"
	"github.com/plugrt/plugrt/pkg/midi"
)

// Renderer is the plugin author's render callback. It is called with a
// Context whose buffers never exceed the negotiated maximum frame count and
// whose channel counts match the last reset. No allocation, no blocking.
type Renderer interface {
	Render(ctx *Context)
}

// Resetter is optionally implemented by renderers that need to observe
// host-driven resets (to resize internal state, drop tails, and so on).
type Resetter interface {
	Reset(sampleRate float64, maxFrames int32)
}

// Dispatcher owns the path between processFromHost and the render callback.
// It re-slices host buffers of arbitrary length into chunks of at most the
// configured maximum, advancing the MIDI queue and the time model per slice.
//
// Splitting bounds worst-case scratch sizing and automation-to-audio
// latency, and keeps memory use constant regardless of host buffer size.
type Dispatcher struct {
	renderer Renderer
	params   *param.Set
	queue    *midi.Queue
	ctx      *Context

	// maxFramesInProcess caps the slice length handed to the renderer;
	// 0 forwards host buffers unsplit.
	maxFramesInProcess int32

	sampleRate       float64
	negotiatedFrames int32
	numInputs        int32
	numOutputs       int32

	inViews  [][]float32
	outViews [][]float32
	batch    []midi.Message
}

// NewDispatcher wires a renderer to the given parameter set and MIDI queue.
// Reset must run before the first Process call.
func NewDispatcher(params *param.Set, queue *midi.Queue, r Renderer) *Dispatcher {
	return &Dispatcher{
		renderer: r,
		params:   params,
		queue:    queue,
		batch:    make([]midi.Message, 0, midi.QueueCapacity),
	}
}

// SetMaxFramesInProcess configures the split size. Takes effect at the next
// Reset; 0 disables splitting.
func (d *Dispatcher) SetMaxFramesInProcess(frames int32) {
	if frames < 0 {
		frames = 0
	}
	d.maxFramesInProcess = frames
}

// MaxFramesInProcess returns the configured split size.
func (d *Dispatcher) MaxFramesInProcess() int32 {
	return d.maxFramesInProcess
}

// NegotiatedFrames returns the per-slice maximum agreed at the last Reset.
func (d *Dispatcher) NegotiatedFrames() int32 {
	return d.negotiatedFrames
}

// Reset renegotiates processing: it clears the MIDI queue (whose timestamps
// the new timeline invalidates), clamps the host's maximum frame count down
// to the configured split size, sizes the render context, and forwards to
// the renderer's reset hook. Returns the negotiated per-slice maximum.
// Not callable concurrently with Process.
func (d *Dispatcher) Reset(sampleRate float64, maxFrames, numInputs, numOutputs int32) int32 {
	if d.maxFramesInProcess > 0 && maxFrames > d.maxFramesInProcess {
		maxFrames = d.maxFramesInProcess
	}

	d.sampleRate = sampleRate
	d.negotiatedFrames = maxFrames
	d.numInputs = numInputs
	d.numOutputs = numOutputs

	d.queue.Initialize()
	d.ctx = newContext(d.params, maxFrames)
	d.inViews = make([][]float32, numInputs)
	d.outViews = make([][]float32, numOutputs)

	if rs, ok := d.renderer.(Resetter); ok {
		rs.Reset(sampleRate, maxFrames)
	}
	return maxFrames
}

// Process accepts one host buffer delivery and drives the renderer over it
// slice by slice. The sum of slice lengths equals frames exactly; timeInfo's
// sample position advances with each slice while tempo and transport state
// carry through unchanged.
func (d *Dispatcher) Process(inputs, outputs [][]float32, frames int32, ti TimeInfo) {
	if frames <= 0 || d.ctx == nil {
		return
	}
	if ti.SampleRate == 0 {
		ti.SampleRate = d.sampleRate
	}

	poisonOutputs(outputs, frames)

	sliceMax := d.maxFramesInProcess
	if sliceMax <= 0 {
		sliceMax = frames
	}

	pos := int32(0)
	for remaining := frames; remaining > 0; {
		n := remaining
		if n > sliceMax {
			n = sliceMax
		}

		for ch := 0; ch < len(d.inViews) && ch < len(inputs); ch++ {
			d.inViews[ch] = inputs[ch][pos : pos+n]
		}
		for ch := 0; ch < len(d.outViews) && ch < len(outputs); ch++ {
			d.outViews[ch] = outputs[ch][pos : pos+n]
		}

		d.ctx.Input = d.inViews
		d.ctx.Output = d.outViews
		d.ctx.Time = ti
		d.ctx.Events = d.queue.NextMessages(n, d.batch[:0])

		d.renderer.Render(d.ctx)

		pos += n
		remaining -= n
		ti.SamplePos += int64(n)
	}
}
