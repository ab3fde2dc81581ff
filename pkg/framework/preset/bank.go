package preset

import (
	"github.com/plugrt/plugrt/pkg/framework/debug"
	"github.com/plugrt/plugrt/pkg/framework/param"
)

// Bank owns a plugin's presets and tracks which one is current. There is
// exactly one bank per client, created with it and destroyed with it.
//
// CurrentIndex is -1 while no preset has been loaded, otherwise in bounds.
type Bank struct {
	params  *param.Set
	presets []*Preset
	current int32
}

// NewBank creates an empty bank over the given parameter set.
func NewBank(params *param.Set) *Bank {
	return &Bank{params: params, current: -1}
}

// Add appends a preset without loading it.
func (b *Bank) Add(p *Preset) {
	b.presets = append(b.presets, p)
}

// Count returns the number of presets.
func (b *Bank) Count() int32 {
	return int32(len(b.presets))
}

// CurrentIndex returns the cursor, -1 when no preset is current.
func (b *Bank) CurrentIndex() int32 {
	return b.current
}

// Get returns the preset at index, or nil when out of bounds.
func (b *Bank) Get(index int32) *Preset {
	if index < 0 || index >= int32(len(b.presets)) {
		return nil
	}
	return b.presets[index]
}

// LoadPreset switches to the preset at index. The live parameter values are
// written back into the currently-selected preset first, then the target's
// values are applied, then the cursor moves. The order matters: moving the
// cursor first would corrupt the preset being navigated away from.
//
// An out-of-bounds index is a plugin-author programming error: debug builds
// assert, release builds ignore the call.
func (b *Bank) LoadPreset(index int32) {
	if index < 0 || index >= int32(len(b.presets)) {
		debug.Assertf(false, "preset index %d out of range [0,%d)", index, len(b.presets))
		return
	}
	b.writeBackCurrent()
	b.params.Apply(b.presets[index].Values)
	b.current = index
}

// AddNewDefaultPreset appends a preset built from every parameter's
// normalized default and loads it through the usual write-back path.
func (b *Bank) AddNewDefaultPreset(name string) {
	b.presets = append(b.presets, New(name, b.params.Defaults()))
	b.LoadPreset(int32(len(b.presets) - 1))
}

// writeBackCurrent snapshots the live parameter values into the current
// preset, so unsaved edits survive a state save or preset switch.
func (b *Bank) writeBackCurrent() {
	cur := b.Get(b.current)
	if cur == nil {
		return
	}
	cur.Values = b.params.Snapshot(cur.Values[:0])
}

// SyncCurrent exposes the write-back for the state codec, which snapshots
// before serializing the bank's view of the world.
func (b *Bank) SyncCurrent() {
	b.writeBackCurrent()
}

// Replace swaps in a new ordered preset list, invalidating the cursor.
// Used by the legacy bank import; live parameter values are untouched.
func (b *Bank) Replace(presets []*Preset) {
	b.presets = presets
	b.current = -1
}

// SetCurrentIndex moves the cursor without touching parameter values.
// Used by the state codec when restoring a chunk that already carries the
// live values. Out-of-range indexes (other than -1) are ignored.
func (b *Bank) SetCurrentIndex(index int32) {
	if index < -1 || index >= int32(len(b.presets)) {
		return
	}
	b.current = index
}
