// Package state serializes full plugin state to the versioned binary chunk
// exchanged with the host for session save and restore.
//
// The chunk layout is a hard backward-compatibility contract: a big-endian
// magic constant, little-endian major and minor serialization versions, the
// encoded plugin version, then the current preset index, the parameter
// count, and one float32 per parameter. Hosts persist these bytes inside
// saved sessions, so the header must stay byte-stable across releases.
package state

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/plugrt/plugrt/pkg/framework/param"
	"github.com/plugrt/plugrt/pkg/framework/preset"
)

// Serialization versions. Bump the major on layout changes; chunks with a
// newer major than ours are refused.
const (
	MajorVersion uint32 = 1
	MinorVersion uint32 = 0
)

var chunkMagic = [4]byte{'P', 'R', 'T', 'S'}

var (
	// ErrUnrecognizedChunk reports a magic mismatch.
	ErrUnrecognizedChunk = errors.New("unrecognized chunk")
	// ErrIncompatibleChunk reports a chunk from a newer serialization major.
	ErrIncompatibleChunk = errors.New("incompatible newer chunk")
	// ErrCorruptParameter reports a stored value outside [0,1] or non-finite.
	ErrCorruptParameter = errors.New("corrupt parameter value")
)

// Manager reads and writes state chunks for one plugin instance.
type Manager struct {
	params        *param.Set
	bank          *preset.Bank
	pluginVersion uint32
}

// NewManager creates a manager over the given parameter set and bank.
// pluginVersion is the encoded (major<<16)|(minor<<8)|patch plugin version
// recorded in every chunk.
func NewManager(params *param.Set, bank *preset.Bank, pluginVersion uint32) *Manager {
	return &Manager{params: params, bank: bank, pluginVersion: pluginVersion}
}

// Save writes the current state. The live parameter values are written back
// into the current preset first, so the bank and the chunk agree.
func (m *Manager) Save(w io.Writer) error {
	m.bank.SyncCurrent()

	if _, err := w.Write(chunkMagic[:]); err != nil {
		return err
	}
	for _, v := range []uint32{MajorVersion, MinorVersion, m.pluginVersion} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.LittleEndian, m.bank.CurrentIndex()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.params.Count())); err != nil {
		return err
	}
	for _, p := range m.params.All() {
		if err := binary.Write(w, binary.LittleEndian, float32(p.Normalized())); err != nil {
			return err
		}
	}
	return nil
}

// Load restores state from a chunk. The whole chunk is parsed and validated
// before anything is applied, so a failed load leaves prior state untouched.
// Stored parameters beyond the live count are ignored; live parameters
// beyond the stored count keep their values.
func (m *Manager) Load(r io.Reader) error {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return fmt.Errorf("chunk header: %w", err)
	}
	if magic != chunkMagic {
		return fmt.Errorf("%w: magic %q", ErrUnrecognizedChunk, magic[:])
	}

	var major, minor, pluginVersion uint32
	for _, dst := range []*uint32{&major, &minor, &pluginVersion} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return fmt.Errorf("chunk header: %w", err)
		}
	}
	if major > MajorVersion {
		return fmt.Errorf("%w: chunk major %d, ours %d", ErrIncompatibleChunk, major, MajorVersion)
	}

	var currentIndex int32
	if err := binary.Read(r, binary.LittleEndian, &currentIndex); err != nil {
		return fmt.Errorf("chunk body: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("chunk body: %w", err)
	}

	values := make([]float64, count)
	for i := range values {
		var v float32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return fmt.Errorf("chunk body: %w", err)
		}
		f := float64(v)
		if !preset.ValidNormalized(f) {
			return fmt.Errorf("%w: parameter %d is %v", ErrCorruptParameter, i, f)
		}
		values[i] = f
	}

	m.params.Apply(values)
	m.bank.SetCurrentIndex(currentIndex)
	return nil
}

// Chunk returns the current state as a byte slice.
func (m *Manager) Chunk() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadChunk restores state from a byte slice.
func (m *Manager) LoadChunk(data []byte) error {
	return m.Load(bytes.NewReader(data))
}
