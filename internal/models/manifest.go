package models

import (
	"maps"
	"slices"
)

// Manifest maps a tracked path to the hash of its blob. Membership is the
// presence of the key; an entry is never represented by an empty hash.
type Manifest map[string]string

// Lookup returns the blob hash for path and whether the path is tracked.
func (m Manifest) Lookup(path string) (string, bool) {
	h, ok := m[path]
	return h, ok
}

// Paths returns the tracked paths in sorted order.
func (m Manifest) Paths() []string {
	return slices.Sorted(maps.Keys(m))
}

// Clone returns a copy that never aliases m. A nil manifest clones to an empty one.
func (m Manifest) Clone() Manifest {
	out := make(Manifest, len(m))
	maps.Copy(out, m)
	return out
}

// Overlay returns a copy of m with every entry of other applied on top.
func (m Manifest) Overlay(other Manifest) Manifest {
	out := m.Clone()
	maps.Copy(out, other)
	return out
}

// Equal treats nil and empty manifests as equal.
func (m Manifest) Equal(o Manifest) bool {
	return maps.Equal(m, o)
}
