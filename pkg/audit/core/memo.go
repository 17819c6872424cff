package core

import (
	"github.com/mitchellh/hashstructure"

	"github.com/coursepath/auditengine/pkg/audit/path"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// Memo caches has_potential and all_matches results keyed by a stable
// hash of (rule path, a structural fingerprint of the context's
// transcript). Both functions are pure given an immutable context, so
// caching them is always safe within one audit (spec.md §9
// "Memoisation"). Keys are computed with hashstructure rather than
// Go's built-in equality because the cache key must combine a rule's
// identity (its Path, since rule nodes are frozen and shared) with an
// arbitrary caller-supplied context fingerprint. Memo is owned by
// exactly one Context and is never shared across audits or goroutines,
// matching the engine's single-threaded cooperative model (spec.md §5).
type Memo struct {
	potential map[uint64]bool
	matches   map[uint64][]transcript.Course
}

// NewMemo returns an empty Memo.
func NewMemo() *Memo {
	return &Memo{
		potential: make(map[uint64]bool),
		matches:   make(map[uint64][]transcript.Course),
	}
}

type memoKey struct {
	Path        string
	Fingerprint uint64
}

func (m *Memo) key(p path.Path, fingerprint uint64) uint64 {
	h, err := hashstructure.Hash(memoKey{Path: p.Key(), Fingerprint: fingerprint}, nil)
	if err != nil {
		// hashstructure only fails on unhashable types; memoKey is
		// always hashable, so this path is unreachable in practice.
		// The fallback key is 0.
		return 0
	}
	return h
}

// Potential returns a cached has_potential value, if any.
func (m *Memo) Potential(p path.Path, fingerprint uint64) (bool, bool) {
	v, ok := m.potential[m.key(p, fingerprint)]
	return v, ok
}

// SetPotential stores a has_potential result.
func (m *Memo) SetPotential(p path.Path, fingerprint uint64, v bool) {
	m.potential[m.key(p, fingerprint)] = v
}

// Matches returns a cached all_matches value, if any.
func (m *Memo) Matches(p path.Path, fingerprint uint64) ([]transcript.Course, bool) {
	v, ok := m.matches[m.key(p, fingerprint)]
	return v, ok
}

// SetMatches stores an all_matches result.
func (m *Memo) SetMatches(p path.Path, fingerprint uint64, v []transcript.Course) {
	m.matches[m.key(p, fingerprint)] = v
}
