package preset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/plugrt/plugrt/pkg/framework/debug"
)

// Legacy bulk-preset banks are build-time assets bundled with a plugin, not
// user input. The format is a chunked container: an outer length-prefixed
// record framing the bank, then one length-prefixed record per preset. All
// integers and floats are big-endian; names are fixed 28-byte
// null-terminated fields; a 4-character plugin identifier guards against
// loading another plugin's bank.
//
// Any framing or identifier mismatch fails the whole import. Debug builds
// additionally assert, since a malformed bundled asset is an author bug.

const (
	legacyNameLen = 28

	legacyChunkMagic   = "CcnK"
	legacyBankMagic    = "FxBk"
	legacyPresetMagic  = "FxCk"
	legacyChunkVersion = 1
)

var (
	// ErrLegacyFraming reports a malformed legacy bank container.
	ErrLegacyFraming = errors.New("malformed legacy bank chunk")
	// ErrLegacyIdentifier reports a plugin-identifier mismatch.
	ErrLegacyIdentifier = errors.New("legacy bank plugin identifier mismatch")
)

// LoadLegacyBank parses a legacy bank asset and replaces the bank's presets
// with the imported ones in order. The cursor resets to -1 and live
// parameter values are untouched. On any error nothing is replaced.
func (b *Bank) LoadLegacyBank(data []byte, pluginID [4]byte) error {
	presets, err := parseLegacyBank(data, pluginID)
	if err != nil {
		debug.Assertf(false, "legacy bank import failed: %v", err)
		return err
	}
	b.Replace(presets)
	return nil
}

func parseLegacyBank(data []byte, pluginID [4]byte) ([]*Preset, error) {
	r := bytes.NewReader(data)

	size, err := readLegacyRecordHeader(r, legacyBankMagic, pluginID)
	if err != nil {
		return nil, err
	}
	if int64(size)-legacyRecordHeaderTail > int64(r.Len()) {
		return nil, fmt.Errorf("%w: container size %d exceeds data", ErrLegacyFraming, size)
	}

	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: preset count: %v", ErrLegacyFraming, err)
	}

	presets := make([]*Preset, 0, count)
	for i := uint32(0); i < count; i++ {
		p, err := parseLegacyPreset(r, pluginID)
		if err != nil {
			return nil, fmt.Errorf("preset %d: %w", i, err)
		}
		presets = append(presets, p)
	}
	return presets, nil
}

// legacyRecordHeaderTail is the number of header bytes counted by a
// record's size field but already consumed by readLegacyRecordHeader:
// record type, format version, plugin identifier, plugin version.
const legacyRecordHeaderTail = 16

func parseLegacyPreset(r *bytes.Reader, pluginID [4]byte) (*Preset, error) {
	if _, err := readLegacyRecordHeader(r, legacyPresetMagic, pluginID); err != nil {
		return nil, err
	}

	var paramCount uint32
	if err := binary.Read(r, binary.BigEndian, &paramCount); err != nil {
		return nil, fmt.Errorf("%w: parameter count: %v", ErrLegacyFraming, err)
	}

	var name [legacyNameLen]byte
	if _, err := io.ReadFull(r, name[:]); err != nil {
		return nil, fmt.Errorf("%w: name field: %v", ErrLegacyFraming, err)
	}

	values := make([]float64, paramCount)
	for i := range values {
		var v float32
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, fmt.Errorf("%w: value %d: %v", ErrLegacyFraming, i, err)
		}
		f := float64(v)
		if !ValidNormalized(f) {
			return nil, fmt.Errorf("%w: value %d is %v", ErrLegacyFraming, i, f)
		}
		values[i] = f
	}

	return &Preset{Name: trimNul(name[:]), Values: values}, nil
}

// readLegacyRecordHeader consumes one record header: chunk magic, size,
// record type, format version, plugin identifier, plugin version. It
// returns the record's declared byte size.
func readLegacyRecordHeader(r *bytes.Reader, wantType string, pluginID [4]byte) (uint32, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil || string(magic[:]) != legacyChunkMagic {
		return 0, fmt.Errorf("%w: bad chunk magic %q", ErrLegacyFraming, magic[:])
	}

	var size uint32
	if err := binary.Read(r, binary.BigEndian, &size); err != nil {
		return 0, fmt.Errorf("%w: record size: %v", ErrLegacyFraming, err)
	}

	var recType [4]byte
	if _, err := io.ReadFull(r, recType[:]); err != nil || string(recType[:]) != wantType {
		return 0, fmt.Errorf("%w: record type %q, want %q", ErrLegacyFraming, recType[:], wantType)
	}

	var version uint32
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return 0, fmt.Errorf("%w: format version: %v", ErrLegacyFraming, err)
	}

	var id [4]byte
	if _, err := io.ReadFull(r, id[:]); err != nil {
		return 0, fmt.Errorf("%w: plugin identifier: %v", ErrLegacyFraming, err)
	}
	if id != pluginID {
		return 0, fmt.Errorf("%w: asset has %q, plugin is %q", ErrLegacyIdentifier, id[:], pluginID[:])
	}

	var pluginVersion uint32
	if err := binary.Read(r, binary.BigEndian, &pluginVersion); err != nil {
		return 0, fmt.Errorf("%w: plugin version: %v", ErrLegacyFraming, err)
	}

	return size, nil
}

func trimNul(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
