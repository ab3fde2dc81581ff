//go:build !debug

package debug

// Enabled reports whether the framework was built with the 'debug' tag.
const Enabled = false

// Assert is a no-op when not in debug mode.
func Assert(cond bool, msg string) {}

// Assertf is a no-op when not in debug mode.
func Assertf(cond bool, format string, args ...any) {}
