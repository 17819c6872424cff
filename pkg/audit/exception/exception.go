// Package exception implements the waive/override/insert exception
// model that mutates rule evaluation at specific tree paths (spec.md
// §3, §4.4, §4.5, §9).
package exception

import (
	"github.com/pkg/errors"

	"github.com/coursepath/auditengine/pkg/audit/path"
)

// Kind is the exception variety.
type Kind string

const (
	// Waive forces a Count rule's override short-circuit (spec.md §4.5
	// step 1): the rule yields its children verbatim and stops.
	Waive Kind = "waive"
	// Override forces a Requirement to be treated as satisfied by
	// external evidence without evaluating its child rule (spec.md
	// §4.4 Requirement).
	Override Kind = "override"
	// Insert synthesizes an extra Course child claiming a specific
	// clbid (spec.md §4.5 step 2, §4.2 assertion insertion).
	Insert Kind = "insert"
)

// Exception is one out-of-band directive attached to a rule path.
type Exception struct {
	Path   path.Path
	Kind   Kind
	CLBID  string
	Forced bool
}

// Set indexes exceptions by the path they attach to. A Set is built
// once per audit and never mutated afterward.
type Set struct {
	byPath map[string][]Exception
}

// NewSet validates and indexes exceptions. Per spec.md §7 family 2, an
// exception whose path does not resolve to an existing rule node is a
// fatal data error — callers must supply the set of valid paths
// (gathered while building the rule tree) to validate against.
func NewSet(exceptions []Exception, validPaths map[string]struct{}) (Set, error) {
	set := Set{byPath: make(map[string][]Exception, len(exceptions))}
	for _, e := range exceptions {
		key := e.Path.Key()
		if validPaths != nil {
			if _, ok := validPaths[key]; !ok {
				return Set{}, errors.Errorf("exception: path %s does not refer to any rule node", e.Path)
			}
		}
		if e.Kind == Insert && e.CLBID == "" {
			return Set{}, errors.Errorf("exception: insert at path %s is missing a clbid", e.Path)
		}
		set.byPath[key] = append(set.byPath[key], e)
	}
	return set, nil
}

// Empty returns a Set with no exceptions.
func Empty() Set {
	return Set{byPath: map[string][]Exception{}}
}

// WaivedOrOverridden reports whether a Waive or Override exception
// attaches to p (spec.md §4.4 "If override-waived at its path").
func (s Set) WaivedOrOverridden(p path.Path) bool {
	for _, e := range s.byPath[p.Key()] {
		if e.Kind == Waive || e.Kind == Override {
			return true
		}
	}
	return false
}

// Waived reports whether a Waive exception specifically attaches to p
// (spec.md §4.5 step 1, the Count-rule override short-circuit).
func (s Set) Waived(p path.Path) bool {
	for _, e := range s.byPath[p.Key()] {
		if e.Kind == Waive {
			return true
		}
	}
	return false
}

// Insertions returns every Insert exception attached to p, in the order
// they were supplied.
func (s Set) Insertions(p path.Path) []Exception {
	var out []Exception
	for _, e := range s.byPath[p.Key()] {
		if e.Kind == Insert {
			out = append(out, e)
		}
	}
	return out
}
