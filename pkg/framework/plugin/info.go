// Package plugin ties the runtime core together: static plugin metadata and
// the Client that format wrappers drive.
package plugin

import (
	"fmt"

	"github.com/google/uuid"
)

// Category tags a plugin for host browsers.
type Category string

const (
	CategoryEffect     Category = "Fx"
	CategoryInstrument Category = "Instrument"
	CategoryAnalyzer   Category = "Analyzer"
	CategoryGenerator  Category = "Generator"
)

func validCategory(c Category) bool {
	switch c {
	case CategoryEffect, CategoryInstrument, CategoryAnalyzer, CategoryGenerator:
		return true
	}
	return false
}

// Version is the plugin's semantic version triple.
type Version struct {
	Major uint8
	Minor uint8
	Patch uint8
}

// Encoded packs the triple as (major<<16)|(minor<<8)|patch, the form stored
// in state chunks.
func (v Version) Encoded() uint32 {
	return uint32(v.Major)<<16 | uint32(v.Minor)<<8 | uint32(v.Patch)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Info is a plugin's static descriptive metadata. It is immutable after
// construction; build it once at plugin-description time, typically from a
// manifest via LoadManifest.
type Info struct {
	Vendor       string
	Name         string
	VendorID     [4]byte // host-unique 4-character vendor identifier
	PluginID     [4]byte // host-unique 4-character plugin identifier
	Version      Version
	Category     Category
	Email        string
	Homepage     string
	BundlePrefix string // reverse-DNS prefix for per-format bundle identifiers

	HasGUI       bool
	IsSynth      bool
	ReceivesMIDI bool
}

// UID derives a stable 16-byte identifier from the vendor and plugin IDs,
// for formats that address plugins by GUID.
func (i Info) UID() [16]byte {
	return [16]byte(uuid.NewSHA1(uuid.NameSpaceOID, append(i.VendorID[:], i.PluginID[:]...)))
}

// BundleIdentifier derives the per-format bundle identifier: the prefix,
// the sanitized plugin name, and the format tag, dot-joined. Letters and
// '.' pass through the sanitizer verbatim; every other character becomes
// '-'.
func (i Info) BundleIdentifier(format string) string {
	return i.BundlePrefix + "." + sanitizeIdentifier(i.Name) + "." + format
}

func sanitizeIdentifier(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '.':
			out = append(out, byte(r))
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}
