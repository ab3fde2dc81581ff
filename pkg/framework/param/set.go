package param

import (
	"github.com/plugrt/plugrt/pkg/framework/debug"
)

// Set is the ordered collection of a plugin's parameters. A parameter's
// Index must equal its position in the set, so hosts can address parameters
// stably by index.
//
// The set itself is built once during plugin construction and never mutated
// afterwards; only the contained values change, each independently atomic.
// Observing several parameters together gives no temporal coherence
// guarantee.
type Set struct {
	params []*Parameter
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{}
}

// Add appends parameters. Each parameter's Index must equal its resulting
// position; a mismatch is a plugin-author programming error.
func (s *Set) Add(params ...*Parameter) *Set {
	for _, p := range params {
		debug.Assertf(p.Index == int32(len(s.params)),
			"parameter %q has index %d, expected %d", p.Name, p.Index, len(s.params))
		s.params = append(s.params, p)
	}
	return s
}

// Get returns the parameter at index, or nil when out of bounds.
func (s *Set) Get(index int32) *Parameter {
	if index < 0 || index >= int32(len(s.params)) {
		return nil
	}
	return s.params[index]
}

// Count returns the number of parameters.
func (s *Set) Count() int32 {
	return int32(len(s.params))
}

// All returns the parameters in index order. The returned slice is the
// set's own backing storage; callers must not modify it.
func (s *Set) All() []*Parameter {
	return s.params
}

// Snapshot appends the current normalized values in index order to dst and
// returns the extended slice.
func (s *Set) Snapshot(dst []float64) []float64 {
	for _, p := range s.params {
		dst = append(dst, p.Normalized())
	}
	return dst
}

// Apply stores normalized values by index. Positions beyond either length
// are left alone: extra stored values are ignored and parameters beyond
// the input keep their current value.
func (s *Set) Apply(values []float64) {
	n := len(values)
	if n > len(s.params) {
		n = len(s.params)
	}
	for i := 0; i < n; i++ {
		s.params[i].SetFromHost(values[i])
	}
}

// Defaults returns each parameter's normalized default in index order.
func (s *Set) Defaults() []float64 {
	out := make([]float64, len(s.params))
	for i, p := range s.params {
		out[i] = p.NormalizedDefault()
	}
	return out
}
