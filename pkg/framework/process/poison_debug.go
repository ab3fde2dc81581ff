//go:build debug

package process

import "math"

var poisonValue = float32(math.NaN())

// poisonOutputs fills every output sample with NaN before rendering, so a
// renderer that forgets to write part of its outputs is caught immediately
// instead of replaying stale buffer contents.
func poisonOutputs(outputs [][]float32, frames int32) {
	for ch := range outputs {
		buf := outputs[ch]
		if int32(len(buf)) > frames {
			buf = buf[:frames]
		}
		for i := range buf {
			buf[i] = poisonValue
		}
	}
}
