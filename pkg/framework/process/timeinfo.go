// Package process provides the audio dispatch pipeline: it normalizes
// host-delivered buffers into bounded, time-ordered slices and invokes the
// plugin author's render callback.
package process

// TimeInfo carries the host's musical time for one process call. It is
// passed by value; the dispatcher advances SamplePos as it re-slices a host
// buffer, leaving tempo and transport state untouched.
type TimeInfo struct {
	Tempo      float64 // beats per minute
	SamplePos  int64   // absolute sample position since transport start
	Playing    bool
	SampleRate float64
}

// SamplesPerBeat returns the length of one beat in samples, or 0 when the
// tempo is unset.
func (ti TimeInfo) SamplesPerBeat() float64 {
	if ti.Tempo <= 0 {
		return 0
	}
	return ti.SampleRate * 60.0 / ti.Tempo
}
