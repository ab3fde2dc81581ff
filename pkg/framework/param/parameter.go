// Package param provides typed, host-automatable plugin parameters with
// atomic cross-context access.
package param

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// Kind discriminates the closed set of parameter variants.
type Kind int32

const (
	KindFloat Kind = iota
	KindInt
	KindBool
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Parameter is one host-automatable value. The current value is stored as a
// normalized float in [0,1]; reads and writes are plain atomics with no
// surrounding critical section, so the render path never blocks on an
// automation write.
//
// Index must equal the parameter's position in the owning Set; Set.Add
// enforces this at construction time.
type Parameter struct {
	Index  int32
	Name   string
	Kind   Kind
	Unit   string
	Min    float64  // plain-value range for float and int kinds
	Max    float64
	Labels []string // enum kind only

	def   float64 // normalized default
	value atomic.Uint64
}

// NewFloat creates a continuous parameter with a plain-value range and
// plain default.
func NewFloat(index int32, name string, min, max, defPlain float64) *Parameter {
	p := &Parameter{Index: index, Name: name, Kind: KindFloat, Min: min, Max: max}
	p.def = p.normalize(defPlain)
	p.value.Store(math.Float64bits(p.def))
	return p
}

// NewInt creates a stepped integer parameter.
func NewInt(index int32, name string, min, max, def int) *Parameter {
	p := &Parameter{Index: index, Name: name, Kind: KindInt, Min: float64(min), Max: float64(max)}
	p.def = p.normalize(float64(def))
	p.value.Store(math.Float64bits(p.def))
	return p
}

// NewBool creates an on/off parameter.
func NewBool(index int32, name string, def bool) *Parameter {
	p := &Parameter{Index: index, Name: name, Kind: KindBool, Max: 1}
	if def {
		p.def = 1
	}
	p.value.Store(math.Float64bits(p.def))
	return p
}

// NewEnum creates a list parameter over the given labels.
func NewEnum(index int32, name string, labels []string, def int) *Parameter {
	p := &Parameter{Index: index, Name: name, Kind: KindEnum, Labels: labels}
	if n := len(labels); n > 1 && def > 0 {
		if def >= n {
			def = n - 1
		}
		p.def = float64(def) / float64(n-1)
	}
	p.value.Store(math.Float64bits(p.def))
	return p
}

// WithUnit sets the display unit and returns the parameter for chaining.
func (p *Parameter) WithUnit(unit string) *Parameter {
	p.Unit = unit
	return p
}

// SetFromHost stores a normalized value arriving from host automation,
// clamped to [0,1].
func (p *Parameter) SetFromHost(normalized float64) {
	if normalized < 0 || math.IsNaN(normalized) {
		normalized = 0
	} else if normalized > 1 {
		normalized = 1
	}
	p.value.Store(math.Float64bits(normalized))
}

// Normalized returns the current value in [0,1].
func (p *Parameter) Normalized() float64 {
	return math.Float64frombits(p.value.Load())
}

// NormalizedDefault returns the construction-time default in [0,1].
func (p *Parameter) NormalizedDefault() float64 {
	return p.def
}

// Plain returns the current value mapped into the parameter's plain range:
// the continuous range for floats, a rounded integer for ints, 0/1 for
// bools, and the label index for enums.
func (p *Parameter) Plain() float64 {
	return p.denormalize(p.Normalized())
}

// EnumIndex returns the selected label index for enum parameters.
func (p *Parameter) EnumIndex() int {
	return int(p.denormalize(p.Normalized()))
}

// IsOn reports the value of a bool parameter.
func (p *Parameter) IsOn() bool {
	return p.Normalized() >= 0.5
}

// FormatValue renders a normalized value for display.
func (p *Parameter) FormatValue(normalized float64) string {
	plain := p.denormalize(normalized)
	switch p.Kind {
	case KindInt:
		return strconv.FormatInt(int64(plain), 10)
	case KindBool:
		if normalized >= 0.5 {
			return "On"
		}
		return "Off"
	case KindEnum:
		i := int(plain)
		if i >= 0 && i < len(p.Labels) {
			return p.Labels[i]
		}
		return ""
	default:
		if p.Unit != "" {
			return fmt.Sprintf("%.2f %s", plain, p.Unit)
		}
		return fmt.Sprintf("%.2f", plain)
	}
}

// String renders the current value.
func (p *Parameter) String() string {
	return p.FormatValue(p.Normalized())
}

func (p *Parameter) normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	n := (plain - p.Min) / (p.Max - p.Min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

func (p *Parameter) denormalize(normalized float64) float64 {
	switch p.Kind {
	case KindInt:
		return math.Round(p.Min + normalized*(p.Max-p.Min))
	case KindBool:
		if normalized >= 0.5 {
			return 1
		}
		return 0
	case KindEnum:
		n := len(p.Labels)
		if n <= 1 {
			return 0
		}
		i := int(normalized * float64(n))
		if i >= n {
			i = n - 1
		}
		return float64(i)
	default:
		return p.Min + normalized*(p.Max-p.Min)
	}
}
