// Package path implements the token-sequence identifiers that pin a rule
// node to a specific location in an area's rule tree.
package path

import "strings"

// Path is an ordered sequence of tokens uniquely identifying a node
// within a single area's rule tree, e.g. ["$", ".count", "[2]", "*CSCI 251"].
type Path []string

// Root returns the path identifying the top of an area's rule tree.
func Root() Path {
	return Path{"$"}
}

// Child returns a new Path with tok appended. The receiver is never
// mutated; rule nodes are frozen once built.
func (p Path) Child(tok string) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, tok)
}

// String renders the path using "." as a token separator, matching the
// area specification's own path notation.
func (p Path) String() string {
	return strings.Join([]string(p), ".")
}

// Equal reports whether p and other identify the same node.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Less implements the lexicographic-over-tokens ordering used to sort
// rule children and solutions deterministically (spec §5).
func (p Path) Less(other Path) bool {
	for i := 0; i < len(p) && i < len(other); i++ {
		if p[i] != other[i] {
			return p[i] < other[i]
		}
	}
	return len(p) < len(other)
}

// Key returns a string suitable for use as a map key; distinct Paths
// always yield distinct Keys.
func (p Path) Key() string {
	return p.String()
}
