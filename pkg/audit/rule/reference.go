package rule

import (
	"github.com/shopspring/decimal"

	"github.com/coursepath/auditengine/pkg/audit/core"
	"github.com/coursepath/auditengine/pkg/audit/path"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// Reference delegates entirely to a named Requirement rule elsewhere in
// the tree, without re-enumerating its own solutions (spec.md §4.4
// Reference: "resolves to the named requirement and audits it in
// place; forward references are a build-time error").
type Reference struct {
	NodePath path.Path
	Name     string
}

var _ core.Rule = (*Reference)(nil)

func (r *Reference) Path() path.Path { return r.NodePath }

func (r *Reference) Solutions(ctx core.Context) core.SolutionIter {
	target, ok := ctx.Requirement(r.Name)
	if !ok {
		return emptyIter{}
	}
	return &referenceIter{rule: r, inner: target.Solutions(ctx)}
}

type referenceIter struct {
	rule  *Reference
	inner core.SolutionIter
}

func (it *referenceIter) Next() (core.Solution, bool) {
	inner, ok := it.inner.Next()
	if !ok {
		return nil, false
	}
	return &referenceSolution{rule: it.rule, inner: inner}, true
}

type referenceSolution struct {
	rule  *Reference
	inner core.Solution
}

func (s *referenceSolution) Path() path.Path { return s.rule.Path() }

// Audit delegates to the referenced requirement's own Solution and
// reports its Result unchanged, but under the Reference node's own
// path so the tree renders at the point it was referenced from.
func (s *referenceSolution) Audit(ctx core.Context) (core.Result, error) {
	inner, err := s.inner.Audit(ctx)
	if err != nil {
		return nil, err
	}
	return &ReferenceResult{NodePath: s.rule.Path(), Name: s.rule.Name, Inner: inner}, nil
}

// ReferenceResult forwards every query to the referenced requirement's
// Result, rooted at the Reference node's own path.
type ReferenceResult struct {
	NodePath path.Path
	Name     string
	Inner    core.Result
}

var _ core.Result = (*ReferenceResult)(nil)

func (r *ReferenceResult) Path() path.Path           { return r.NodePath }
func (r *ReferenceResult) Ok() bool                  { return r.Inner.Ok() }
func (r *ReferenceResult) Rank() decimal.Decimal      { return r.Inner.Rank() }
func (r *ReferenceResult) MaxRank() decimal.Decimal   { return r.Inner.MaxRank() }
func (r *ReferenceResult) Matched() []transcript.Course { return r.Inner.Matched() }

func (r *ReferenceResult) ToMap() map[string]any {
	m := baseMap(r.NodePath, "reference", r.Ok(), r.Rank(), r.MaxRank())
	m["name"] = r.Name
	m["result"] = r.Inner.ToMap()
	return m
}
