// Package core declares the phase interfaces (Rule, Solution, Result)
// and the per-audit Context contract shared between pkg/audit/context
// and pkg/audit/rule. Splitting these interfaces into their own package
// (rather than defining them in either context or rule) avoids an
// import cycle: context needs to reference Result values produced by
// rule, and rule needs to reference the Context it is evaluated
// against (spec.md §9 "tagged variants over inheritance" — one
// interface per phase, no class hierarchy).
package core

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/coursepath/auditengine/pkg/audit/areapointer"
	"github.com/coursepath/auditengine/pkg/audit/claims"
	"github.com/coursepath/auditengine/pkg/audit/exception"
	"github.com/coursepath/auditengine/pkg/audit/path"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// Rule is the static-shape phase of a tree node (spec.md §2, §9).
type Rule interface {
	Path() path.Path
	// Solutions returns a pull-driven enumerator of candidate
	// Solutions for this rule under ctx, in deterministic order
	// (spec.md §5).
	Solutions(ctx Context) SolutionIter
}

// SolutionIter is an explicit, resumable enumeration state (spec.md §9
// "generator control flow"): Next returns the next candidate Solution,
// or ok=false once exhausted. No goroutines or channels are involved;
// suspension is just "the caller stops calling Next."
type SolutionIter interface {
	Next() (Solution, bool)
}

// Solution is a candidate assignment being explored (spec.md §2, §9).
type Solution interface {
	Path() path.Path
	// Audit evaluates this candidate against ctx's claim registry and
	// produces a Result. Audit may mutate ctx's Registry.
	Audit(ctx Context) (Result, error)
}

// Result is a solution after claim arbitration and assertion evaluation
// (spec.md §2, §3).
type Result interface {
	Path() path.Path
	Ok() bool
	Rank() decimal.Decimal
	MaxRank() decimal.Decimal
	// Matched returns the transcript items this result claimed or
	// counted, used to build "requirements: [names]" From sources and
	// audit-clause aggregation inputs.
	Matched() []transcript.Course
	// ToMap renders a stable, JSON-friendly tree for the §6 output
	// contract and the §8 round-trip law.
	ToMap() map[string]any
}

// Context is the immutable-per-audit bundle plus the mutable claim
// registry (spec.md §4 component 5). One Context serves exactly one
// audit of one restricted transcript.
type Context interface {
	Transcript() *transcript.Index
	Pointers() []areapointer.Pointer
	Exceptions() exception.Set
	Multicountable() claims.Table
	Registry() *claims.Registry
	Logger() logrus.FieldLogger

	// Requirement resolves a named requirement rule for Reference
	// rules (spec.md §4.4 Reference). Forward references are rejected
	// at build time, not here.
	Requirement(name string) (Rule, bool)

	// LastResult and SetLastResult implement the "requirements:
	// [names...]" From source (spec.md §4.4): each Requirement rule
	// records its own last evaluated Result here as it is audited, and
	// a later From rule reads the concatenation of named requirements'
	// matched items.
	LastResult(name string) (Result, bool)
	SetLastResult(name string, r Result)

	// Memo is the per-audit memoisation table for has_potential and
	// all_matches (spec.md §9 "Memoisation"), safe because both are
	// pure functions of (rule identity, context identity).
	Memo() *Memo

	// Fingerprint identifies this Context's transcript contents (a
	// restricted transcript in a limit-set family differs from
	// another's), used as the second half of a Memo key.
	Fingerprint() uint64
}
