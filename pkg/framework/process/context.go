package process

import (
	"github.com/plugrt/plugrt/pkg/framework/param"
	"github.com/plugrt/plugrt/pkg/midi"
)

// Context is the per-slice view handed to the render callback. Everything it
// references is preallocated by the dispatcher at reset time; render code
// must not grow or retain any of it.
type Context struct {
	Input  [][]float32
	Output [][]float32
	Time   TimeInfo

	// Events holds the MIDI messages falling inside this slice, time-sorted,
	// with offsets relative to the slice start.
	Events []midi.Message

	paramSet   *param.Set
	workBuffer []float32
	tempBuffer []float32
}

func newContext(params *param.Set, maxFrames int32) *Context {
	return &Context{
		paramSet:   params,
		workBuffer: make([]float32, maxFrames),
		tempBuffer: make([]float32, maxFrames),
	}
}

// Param returns a parameter's current normalized value.
func (c *Context) Param(index int32) float64 {
	if p := c.paramSet.Get(index); p != nil {
		return p.Normalized()
	}
	return 0
}

// ParamPlain returns a parameter's current plain value.
func (c *Context) ParamPlain(index int32) float64 {
	if p := c.paramSet.Get(index); p != nil {
		return p.Plain()
	}
	return 0
}

// NumSamples returns the number of samples in this slice.
func (c *Context) NumSamples() int {
	if len(c.Output) > 0 {
		return len(c.Output[0])
	}
	if len(c.Input) > 0 {
		return len(c.Input[0])
	}
	return 0
}

// NumInputChannels returns the number of input channels.
func (c *Context) NumInputChannels() int {
	return len(c.Input)
}

// NumOutputChannels returns the number of output channels.
func (c *Context) NumOutputChannels() int {
	return len(c.Output)
}

// WorkBuffer returns a scratch buffer sized to the current slice.
func (c *Context) WorkBuffer() []float32 {
	return c.workBuffer[:c.NumSamples()]
}

// TempBuffer returns a second scratch buffer sized to the current slice.
func (c *Context) TempBuffer() []float32 {
	return c.tempBuffer[:c.NumSamples()]
}

// PassThrough copies input to output, for bypass.
func (c *Context) PassThrough() {
	n := c.NumInputChannels()
	if c.NumOutputChannels() < n {
		n = c.NumOutputChannels()
	}
	for ch := 0; ch < n; ch++ {
		copy(c.Output[ch], c.Input[ch])
	}
}

// Clear zeroes the output buffers.
func (c *Context) Clear() {
	for ch := range c.Output {
		for i := range c.Output[ch] {
			c.Output[ch][i] = 0
		}
	}
}
