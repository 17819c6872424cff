package rule

import "github.com/coursepath/auditengine/pkg/audit/core"

// singleIter yields exactly one Solution and then is exhausted. Used by
// rule kinds whose Solutions enumeration is pinned to a single outcome
// (an override, a waive, an audited_by marker, spec.md §4.4).
type singleIter struct {
	sol  core.Solution
	done bool
}

func newSingleIter(sol core.Solution) *singleIter {
	return &singleIter{sol: sol}
}

func (it *singleIter) Next() (core.Solution, bool) {
	if it.done {
		return nil, false
	}
	it.done = true
	return it.sol, true
}

// emptyIter yields no solutions at all.
type emptyIter struct{}

func (emptyIter) Next() (core.Solution, bool) { return nil, false }

// sliceIter walks a pre-materialized list of Solutions. The Count rule
// builds its candidate list eagerly (spec.md §4.5 step 5 enumerates a
// bounded combinatorial space per audit) and then exposes it through
// the same pull-driven Next() contract as every other rule kind.
type sliceIter struct {
	items []core.Solution
	pos   int
}

func newSliceIter(items []core.Solution) *sliceIter {
	return &sliceIter{items: items}
}

func (it *sliceIter) Next() (core.Solution, bool) {
	if it.pos >= len(it.items) {
		return nil, false
	}
	s := it.items[it.pos]
	it.pos++
	return s, true
}
