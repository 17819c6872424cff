package rule

import (
	"github.com/shopspring/decimal"

	"github.com/coursepath/auditengine/pkg/audit/core"
	"github.com/coursepath/auditengine/pkg/audit/path"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// Requirement names a sub-area of the rule tree, optionally delegating
// to registrar/interview/override evidence instead of a child rule
// (spec.md §3, §4.4).
type Requirement struct {
	NodePath  path.Path
	Name      string
	Message   *string
	AuditedBy string // "", "registrar", "interview", "override"
	InGPA     bool
	Contract  bool
	Child     core.Rule // nil when AuditedBy is set
}

var _ core.Rule = (*Requirement)(nil)

func (r *Requirement) Path() path.Path { return r.NodePath }

func (r *Requirement) Solutions(ctx core.Context) core.SolutionIter {
	if ctx.Exceptions().WaivedOrOverridden(r.NodePath) {
		return newSingleIter(&pinnedRequirementSolution{rule: r, ok: true})
	}
	if r.AuditedBy != "" && r.Child == nil {
		return newSingleIter(&pinnedRequirementSolution{rule: r, ok: true})
	}
	if r.Child == nil {
		return newSingleIter(&pinnedRequirementSolution{rule: r, ok: false})
	}
	return &requirementIter{rule: r, inner: r.Child.Solutions(ctx)}
}

type pinnedRequirementSolution struct {
	rule *Requirement
	ok   bool
}

func (s *pinnedRequirementSolution) Path() path.Path { return s.rule.Path() }

func (s *pinnedRequirementSolution) Audit(ctx core.Context) (core.Result, error) {
	result := &RequirementResult{
		NodePath: s.rule.Path(),
		Name:     s.rule.Name,
		OkFlag:   s.ok,
		Pinned:   true,
	}
	ctx.SetLastResult(s.rule.Name, result)
	return result, nil
}

type requirementIter struct {
	rule  *Requirement
	inner core.SolutionIter
}

func (it *requirementIter) Next() (core.Solution, bool) {
	childSol, ok := it.inner.Next()
	if !ok {
		return nil, false
	}
	return &requirementSolution{rule: it.rule, child: childSol}, true
}

type requirementSolution struct {
	rule  *Requirement
	child core.Solution
}

func (s *requirementSolution) Path() path.Path { return s.rule.Path() }

func (s *requirementSolution) Audit(ctx core.Context) (core.Result, error) {
	childResult, err := s.child.Audit(ctx)
	if err != nil {
		return nil, err
	}
	result := &RequirementResult{
		NodePath: s.rule.Path(),
		Name:     s.rule.Name,
		Child:    childResult,
	}
	ctx.SetLastResult(s.rule.Name, result)
	return result, nil
}

// RequirementResult wraps a child Result, or stands alone when pinned
// by an override/waive exception or an audited_by marker.
type RequirementResult struct {
	NodePath path.Path
	Name     string
	Child    core.Result
	OkFlag   bool
	Pinned   bool
}

var _ core.Result = (*RequirementResult)(nil)

func (r *RequirementResult) Path() path.Path { return r.NodePath }

func (r *RequirementResult) Ok() bool {
	if r.Pinned {
		return r.OkFlag
	}
	if r.Child == nil {
		return false
	}
	return r.Child.Ok()
}

func (r *RequirementResult) Rank() decimal.Decimal {
	if r.Pinned {
		if r.OkFlag {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	}
	if r.Child == nil {
		return decimal.Zero
	}
	return r.Child.Rank()
}

func (r *RequirementResult) MaxRank() decimal.Decimal {
	if r.Pinned {
		return decimal.NewFromInt(1)
	}
	if r.Child == nil {
		return decimal.NewFromInt(1)
	}
	return r.Child.MaxRank()
}

func (r *RequirementResult) Matched() []transcript.Course {
	if r.Child == nil {
		return nil
	}
	return r.Child.Matched()
}

func (r *RequirementResult) ToMap() map[string]any {
	m := baseMap(r.NodePath, "requirement", r.Ok(), r.Rank(), r.MaxRank())
	m["name"] = r.Name
	if r.Pinned {
		m["pinned"] = true
	}
	if r.Child != nil {
		m["result"] = r.Child.ToMap()
	}
	return m
}
