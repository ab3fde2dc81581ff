//go:build !debug

package process

// poisonOutputs is a no-op when not in debug mode.
func poisonOutputs(outputs [][]float32, frames int32) {}
