// Package gui arbitrates access to a plugin's optional editor between the
// real-time render context and the UI context.
package gui

import (
	"runtime"
	"sync/atomic"
)

// View is the plugin author's editor object. The gate treats it as opaque;
// wrappers call Open/Close from the UI context and render code pokes at the
// concrete type between Acquire and Release.
type View interface {
	Open(parent uintptr) error
	Size() (width, height int32)
	Close()
}

// Gate states. The view pointer is written before the state moves to
// available, so any context that observes available (or wins the acquire
// CAS) sees a fully constructed view.
const (
	stateNone int32 = iota
	stateAvailable
	stateAcquired
)

// Gate is a single-slot, non-blocking exclusive gate over a lazily
// constructed View. Acquire fails fast instead of waiting, so the render
// path can skip UI feedback when the editor is absent or mid-teardown.
// Only destruction spins, since it is not latency-sensitive.
type Gate struct {
	build func() View
	view  View
	state atomic.Int32
}

// NewGate creates a gate. build constructs the editor on first use; a nil
// build means the plugin has no GUI and every operation is a no-op.
func NewGate(build func() View) *Gate {
	return &Gate{build: build}
}

// HasView reports whether the editor has been constructed and not destroyed.
func (g *Gate) HasView() bool {
	return g.state.Load() != stateNone
}

// ensure lazily constructs the view. Only the UI context calls this, so the
// plain write to g.view is safe: the state store publishing it is atomic and
// other contexts read the pointer only after observing an available state.
func (g *Gate) ensure() View {
	if g.build == nil {
		return nil
	}
	if g.state.Load() != stateNone {
		return g.view
	}
	g.view = g.build()
	if g.view == nil {
		return nil
	}
	g.state.Store(stateAvailable)
	return g.view
}

// Open lazily constructs the editor and opens it in the host's parent
// window. UI context only.
func (g *Gate) Open(parent uintptr) error {
	v := g.ensure()
	if v == nil {
		return nil
	}
	return v.Open(parent)
}

// Size lazily constructs the editor and returns its dimensions. UI context
// only. Returns zeros when the plugin has no GUI.
func (g *Gate) Size() (width, height int32) {
	v := g.ensure()
	if v == nil {
		return 0, 0
	}
	return v.Size()
}

// Acquire takes exclusive access to the view without blocking. It returns
// nil when the view is absent, already held, or mid-teardown; the caller
// must then skip UI feedback for this call, never retry in a loop.
func (g *Gate) Acquire() View {
	if !g.state.CompareAndSwap(stateAvailable, stateAcquired) {
		return nil
	}
	return g.view
}

// Release returns exclusive access. Must be called exactly once per
// successful Acquire, from the same logical context.
func (g *Gate) Release() {
	g.state.CompareAndSwap(stateAcquired, stateAvailable)
}

// Destroy closes and frees the editor. It spins until it holds the gate, so
// an in-flight render-path access finishes before the view is torn down.
// UI context only.
func (g *Gate) Destroy() {
	for {
		if g.state.CompareAndSwap(stateAvailable, stateAcquired) {
			break
		}
		if g.state.Load() == stateNone {
			return
		}
		runtime.Gosched()
	}
	v := g.view
	g.view = nil
	g.state.Store(stateNone)
	if v != nil {
		v.Close()
	}
}
