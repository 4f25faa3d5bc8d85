// Package analysis contains the per-phase analyses of the pipeline: alias
// (typedef) resolution and by-value-safety classification, plus the shared
// bridge-name uniqueness tracker.
package analysis

import (
	"strconv"

	"crossbind/internal/names"
)

// BridgeNameTracker allocates globally unique leaf names for the flat bridge
// namespace. Source entities live in arbitrary nested namespaces and may
// collide once flattened; the tracker resolves collisions deterministically
// by qualifying the candidate with its namespace segments innermost-first,
// then a counter. Callers must record a rename whenever the returned name
// differs from the candidate.
type BridgeNameTracker struct {
	taken map[string]struct{}
}

func NewBridgeNameTracker() *BridgeNameTracker {
	return &BridgeNameTracker{taken: make(map[string]struct{})}
}

// GetUniqueBridgeName reserves and returns a free flat name for the
// candidate leaf. The same entity must not be allocated twice; re-analysis
// passes reuse the name already recorded on the entity instead of calling
// this again.
func (t *BridgeNameTracker) GetUniqueBridgeName(candidate string, ns names.Namespace) string {
	if t.reserve(candidate) {
		return candidate
	}
	qualified := candidate
	segs := ns.Segments()
	for i := len(segs) - 1; i >= 0; i-- {
		qualified = segs[i] + "_" + qualified
		if t.reserve(qualified) {
			return qualified
		}
	}
	for n := 1; ; n++ {
		numbered := qualified + strconv.Itoa(n)
		if t.reserve(numbered) {
			return numbered
		}
	}
}

func (t *BridgeNameTracker) reserve(name string) bool {
	if _, ok := t.taken[name]; ok {
		return false
	}
	t.taken[name] = struct{}{}
	return true
}
