package rule

import (
	"github.com/shopspring/decimal"

	"github.com/coursepath/auditengine/pkg/audit/claims"
	"github.com/coursepath/auditengine/pkg/audit/core"
	"github.com/coursepath/auditengine/pkg/audit/grade"
	"github.com/coursepath/auditengine/pkg/audit/path"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// Course is a leaf rule matching a single expected course code
// (spec.md §3, §4.4).
type Course struct {
	NodePath     path.Path
	ExpectedCode string
	MinGrade     *grade.Grade
	GradeOption  *transcript.GradeOption
	Hidden       bool
	AllowClaimed bool
	APIBSource   *transcript.Source
}

var _ core.Rule = (*Course)(nil)

func (c *Course) Path() path.Path { return c.NodePath }

// Solutions yields exactly one candidate: the Course rule itself
// (spec.md §4.4 "solutions yields exactly one candidate").
func (c *Course) Solutions(ctx core.Context) core.SolutionIter {
	return &courseIter{rule: c}
}

type courseIter struct {
	rule *Course
	done bool
}

func (it *courseIter) Next() (core.Solution, bool) {
	if it.done {
		return nil, false
	}
	it.done = true
	return &courseSolution{rule: it.rule}, true
}

type courseSolution struct {
	rule *Course
}

func (s *courseSolution) Path() path.Path { return s.rule.Path() }

func (s *courseSolution) candidates(ctx core.Context) []transcript.Course {
	if s.rule.APIBSource != nil {
		var out []transcript.Course
		for _, c := range ctx.Transcript().MatchCode(s.rule.ExpectedCode) {
			if c.Source == *s.rule.APIBSource {
				out = append(out, c)
			}
		}
		return out
	}
	return ctx.Transcript().MatchCode(s.rule.ExpectedCode)
}

func (s *courseSolution) eligible(c transcript.Course) bool {
	if s.rule.MinGrade != nil && !c.Grade.GE(*s.rule.MinGrade) {
		return false
	}
	if s.rule.GradeOption != nil && c.GradeOption != *s.rule.GradeOption {
		return false
	}
	return true
}

// Audit implements spec.md §4.4 Course audit: try an insertion
// exception first, then (AP/IB source or) transcript matches filtered
// by minimum grade and grade option, claiming the first course that
// doesn't conflict.
func (s *courseSolution) Audit(ctx core.Context) (core.Result, error) {
	p := s.rule.Path()

	for _, ins := range ctx.Exceptions().Insertions(p) {
		for _, c := range ctx.Transcript().All() {
			if c.CLBID != ins.CLBID {
				continue
			}
			attempt := ctx.Registry().Claim(c.CLBID, c.Code(), p, s.rule.AllowClaimed)
			return newCourseResult(p, attempt.Outcome == claims.Ok, &c), nil
		}
	}

	var lastConflict *CourseConflict
	for _, c := range s.candidates(ctx) {
		course := c
		if !s.eligible(course) {
			continue
		}
		attempt := ctx.Registry().Claim(course.CLBID, course.Code(), p, s.rule.AllowClaimed)
		if attempt.Outcome == claims.Ok {
			return newCourseResult(p, true, &course), nil
		}
		lastConflict = &CourseConflict{Course: course, Previous: attempt.Previous}
	}

	result := newCourseResult(p, false, nil)
	result.Conflict = lastConflict
	return result, nil
}

// CourseConflict records the last candidate a Course rule tried to
// claim and the prior claimants that blocked it, so a NotOk
// CourseResult still pinpoints why (spec.md §4.4 "if none succeed
// return NotOk with the last conflict recorded", §7 failure reasons).
type CourseConflict struct {
	Course   transcript.Course
	Previous []claims.Claimant
}

// CourseResult is the audited outcome of a Course rule.
type CourseResult struct {
	NodePath path.Path
	Matched_ *transcript.Course
	OkFlag   bool
	Conflict *CourseConflict
}

var _ core.Result = (*CourseResult)(nil)

func newCourseResult(p path.Path, ok bool, c *transcript.Course) *CourseResult {
	return &CourseResult{NodePath: p, Matched_: c, OkFlag: ok}
}

func (r *CourseResult) Path() path.Path { return r.NodePath }
func (r *CourseResult) Ok() bool        { return r.OkFlag }

func (r *CourseResult) Rank() decimal.Decimal {
	if r.OkFlag {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}

func (r *CourseResult) MaxRank() decimal.Decimal { return decimal.NewFromInt(1) }

func (r *CourseResult) Matched() []transcript.Course {
	if r.Matched_ == nil {
		return nil
	}
	return []transcript.Course{*r.Matched_}
}

func (r *CourseResult) ToMap() map[string]any {
	m := baseMap(r.NodePath, "course", r.OkFlag, r.Rank(), r.MaxRank())
	if r.Matched_ != nil {
		m["claimed_course"] = r.Matched_.CLBID
		m["claimed_code"] = r.Matched_.Code()
	}
	if !r.OkFlag && r.Conflict != nil {
		previous := make([]string, len(r.Conflict.Previous))
		for i, c := range r.Conflict.Previous {
			previous[i] = c.Path.String()
		}
		m["conflict_course"] = r.Conflict.Course.CLBID
		m["conflict_previous_claimants"] = previous
	}
	return m
}
