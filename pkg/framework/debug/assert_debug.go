//go:build debug

package debug

import "fmt"

// Enabled reports whether the framework was built with the 'debug' tag.
const Enabled = true

// Assert panics with msg when cond is false. Compiled out of release builds,
// where contract violations degrade to silent no-ops instead.
func Assert(cond bool, msg string) {
	if !cond {
		panic("assertion failed: " + msg)
	}
}

// Assertf is Assert with a formatted message.
func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic("assertion failed: " + fmt.Sprintf(format, args...))
	}
}
