// Package bus describes the channel-count configurations a plugin accepts.
package bus

import "fmt"

// LegalIO is one supported (input-channel-count, output-channel-count)
// combination.
type LegalIO struct {
	NumInputs  int32
	NumOutputs int32
}

func (io LegalIO) String() string {
	return fmt.Sprintf("%din/%dout", io.NumInputs, io.NumOutputs)
}

// Table is the finite set of legal I/O combinations, fixed at plugin
// construction.
type Table struct {
	entries []LegalIO
}

// NewTable builds a table from the given combinations.
func NewTable(entries ...LegalIO) *Table {
	t := &Table{entries: make([]LegalIO, len(entries))}
	copy(t.entries, entries)
	return t
}

// NewStereoTable returns the common stereo-in/stereo-out table.
func NewStereoTable() *Table {
	return NewTable(LegalIO{NumInputs: 2, NumOutputs: 2})
}

// NewSynthTable returns a no-input table for instrument plugins.
func NewSynthTable(numOutputs int32) *Table {
	return NewTable(LegalIO{NumInputs: 0, NumOutputs: numOutputs})
}

// Accepts reports whether some entry matches the queried channel counts.
// A negative count leaves that side unconstrained.
func (t *Table) Accepts(numInputs, numOutputs int32) bool {
	for _, e := range t.entries {
		if (numInputs < 0 || e.NumInputs == numInputs) &&
			(numOutputs < 0 || e.NumOutputs == numOutputs) {
			return true
		}
	}
	return false
}

// Count returns the number of entries.
func (t *Table) Count() int32 {
	return int32(len(t.entries))
}

// Get returns the entry at index, or a zero LegalIO when out of bounds.
func (t *Table) Get(index int32) LegalIO {
	if index < 0 || index >= int32(len(t.entries)) {
		return LegalIO{}
	}
	return t.entries[index]
}

// All returns the entries in order. Callers must not modify the slice.
func (t *Table) All() []LegalIO {
	return t.entries
}
