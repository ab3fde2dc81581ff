// Package preset provides named snapshots of normalized parameter values,
// the bank that owns them, and their serialized forms.
package preset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrCorruptValue reports a stored parameter value that is non-finite or
// outside [0,1].
var ErrCorruptValue = errors.New("corrupt parameter value")

// maxSerializedName bounds the name length accepted from serialized data,
// guarding against garbage length prefixes.
const maxSerializedName = 1 << 16

// Preset is a named ordered sequence of normalized parameter values.
type Preset struct {
	Name   string
	Values []float64
}

// New creates a preset. Values are stored as given; serialization validates
// normalization on the way back in.
func New(name string, values []float64) *Preset {
	p := &Preset{Name: name, Values: make([]float64, len(values))}
	copy(p.Values, values)
	return p
}

// ValidNormalized reports whether v is finite and in [0,1].
func ValidNormalized(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0 && v <= 1
}

// Serialize writes the preset as a length-prefixed name followed by a
// length-prefixed float64 array, little-endian throughout. Values are
// copied verbatim, so a round trip is bit-exact.
func (p *Preset) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(p.Name))); err != nil {
		return err
	}
	if _, err := w.Write([]byte(p.Name)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(p.Values))); err != nil {
		return err
	}
	for _, v := range p.Values {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads a preset written by Serialize, validating every value
// as finite and in [0,1]. On error the preset is left unchanged.
func (p *Preset) Deserialize(r io.Reader) error {
	var nameLen uint32
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return err
	}
	if nameLen > maxSerializedName {
		return fmt.Errorf("preset name length %d out of range", nameLen)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return err
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}
	values := make([]float64, count)
	for i := range values {
		var v float64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return err
		}
		if !ValidNormalized(v) {
			return fmt.Errorf("%w: value %d is %v", ErrCorruptValue, i, v)
		}
		values[i] = v
	}

	p.Name = string(name)
	p.Values = values
	return nil
}
