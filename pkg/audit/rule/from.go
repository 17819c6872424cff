package rule

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/coursepath/auditengine/pkg/audit/assertion"
	"github.com/coursepath/auditengine/pkg/audit/claims"
	"github.com/coursepath/auditengine/pkg/audit/clause"
	"github.com/coursepath/auditengine/pkg/audit/core"
	"github.com/coursepath/auditengine/pkg/audit/path"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// SourceKind names a From rule's item source (spec.md §4.4).
type SourceKind int

const (
	SourceStudentCourses SourceKind = iota
	SourceStudentAreas
	SourceRequirements
)

// From filters and aggregates a resolved item set, enumerating subset
// solutions driven by its assertion (spec.md §3, §4.4).
type From struct {
	NodePath         path.Path
	Source           SourceKind
	Repeats          transcript.Repeats // only meaningful for SourceStudentCourses
	RequirementNames []string           // only meaningful for SourceRequirements
	Where            clause.Clause      // optional
	Assert           assertion.Assertion
	AllowClaimed     bool
	Claim            bool
}

var _ core.Rule = (*From)(nil)

func (f *From) Path() path.Path { return f.NodePath }

// resolveSource implements spec.md §4.4's three From sources. Area
// pointers are projected into pseudo-courses carrying only the
// attributes §3 defines for them, so the same Clause/Assertion
// machinery can address either kind of item.
func (f *From) resolveSource(ctx core.Context) []transcript.Course {
	switch f.Source {
	case SourceStudentCourses:
		policy := f.Repeats
		if policy == "" {
			policy = transcript.RepeatsAll
		}
		return transcript.Deduplicate(ctx.Transcript().All(), policy)
	case SourceStudentAreas:
		return nil // area pointers do not participate in course-shaped assertions
	case SourceRequirements:
		var out []transcript.Course
		for _, name := range f.RequirementNames {
			r, ok := ctx.LastResult(name)
			if !ok {
				continue
			}
			out = append(out, r.Matched()...)
		}
		return out
	default:
		return nil
	}
}

func (f *From) filtered(ctx core.Context) []transcript.Course {
	items := f.resolveSource(ctx)
	if f.Where == nil {
		return sortedCourses(items)
	}
	var out []transcript.Course
	for _, c := range items {
		ok, err := f.Where.Evaluate(c)
		if err == nil && ok {
			out = append(out, c)
		}
	}
	return sortedCourses(out)
}

func sortedCourses(cs []transcript.Course) []transcript.Course {
	out := make([]transcript.Course, len(cs))
	copy(out, cs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CLBID < out[j].CLBID })
	return out
}

// Solutions enumerates every minimal-and-beyond subset solution of the
// filtered source per spec.md §4.4: for each subset size r in increasing
// order, every r-combination whose aggregate satisfies the assertion is
// yielded as its own solution (larger subsets naturally accumulate more
// of these once the operator is ≥ or >, since more items push the
// aggregate further past the threshold). If no subset at any size
// satisfies, a single solution containing the full filtered set is
// yielded so audit can still report the gap.
func (f *From) Solutions(ctx core.Context) core.SolutionIter {
	items := f.filtered(ctx)
	solutions := f.satisfyingSubsets(items)
	if len(solutions) == 0 {
		return newSingleIter(&fromSolution{rule: f, items: items})
	}
	return newSliceIter(solutions)
}

// satisfyingSubsets returns one solution per subset of items, across
// every size from 0 to len(items) in that order, whose aggregate
// satisfies f.Assert.
func (f *From) satisfyingSubsets(items []transcript.Course) []core.Solution {
	n := len(items)
	var out []core.Solution
	for r := 0; r <= n; r++ {
		for _, idx := range combinations(n, r) {
			subset := make([]transcript.Course, len(idx))
			for i, j := range idx {
				subset[i] = items[j]
			}
			bound, err := f.Assert.CompareAndResolveWith(subset)
			if err == nil && bound.Ok {
				out = append(out, &fromSolution{rule: f, items: subset})
			}
		}
	}
	return out
}

type fromSolution struct {
	rule  *From
	items []transcript.Course
}

func (s *fromSolution) Path() path.Path { return s.rule.Path() }

// Audit applies insertion exceptions, resolves the bound, and (unless
// claim is false) attempts a claim on each selected course.
func (s *fromSolution) Audit(ctx core.Context) (core.Result, error) {
	wrapped := Assertion{NodePath: s.rule.NodePath.Child(".assert"), Aggregate: s.rule.Assert}
	bound, err := wrapped.Evaluate(ctx, s.items)
	if err != nil {
		return nil, err
	}

	var claimed []transcript.Course
	claim := s.rule.Claim
	for _, c := range bound.Matched {
		if !claim {
			claimed = append(claimed, c)
			continue
		}
		attempt := ctx.Registry().Claim(c.CLBID, c.Code(), s.rule.NodePath, s.rule.AllowClaimed)
		if attempt.Outcome == claims.Ok {
			claimed = append(claimed, c)
		}
	}

	return &FromResult{
		NodePath: s.rule.NodePath,
		Bound:    bound,
		Matched_: claimed,
	}, nil
}

// FromResult is the audited outcome of a From rule.
type FromResult struct {
	NodePath path.Path
	Bound    assertion.Bound
	Matched_ []transcript.Course
}

var _ core.Result = (*FromResult)(nil)

func (r *FromResult) Path() path.Path { return r.NodePath }
func (r *FromResult) Ok() bool        { return r.Bound.Ok }

func (r *FromResult) Rank() decimal.Decimal {
	if r.Bound.Ok {
		return decimal.NewFromInt(1).Add(r.Bound.Rank)
	}
	return r.Bound.Rank
}

func (r *FromResult) MaxRank() decimal.Decimal { return decimal.NewFromInt(2) }

func (r *FromResult) Matched() []transcript.Course { return r.Matched_ }

func (r *FromResult) ToMap() map[string]any {
	m := baseMap(r.NodePath, "from", r.Ok(), r.Rank(), r.MaxRank())
	m["actual"] = r.Bound.Actual
	m["expected"] = r.Bound.Expected
	m["matched"] = coursesToMaps(r.Matched_)
	return m
}
