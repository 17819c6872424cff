package rule

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/coursepath/auditengine/pkg/audit/assertion"
	"github.com/coursepath/auditengine/pkg/audit/clause"
	"github.com/coursepath/auditengine/pkg/audit/core"
	"github.com/coursepath/auditengine/pkg/audit/grade"
	"github.com/coursepath/auditengine/pkg/audit/path"
	"github.com/coursepath/auditengine/pkg/audit/spec"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// SpecError is a specification construction/validation failure (spec.md
// §7 family 1): an invalid rule shape, an unresolvable reference, or a
// cycle among requirements. Exception paths are validated separately by
// exception.NewSet, which reports an unknown path as a plain error.
type SpecError struct {
	Path path.Path
	Err  error
}

func (e *SpecError) Error() string {
	if len(e.Path) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Err)
}

func (e *SpecError) Unwrap() error { return e.Err }

func specErr(p path.Path, format string, args ...any) error {
	return &SpecError{Path: p, Err: errors.Errorf(format, args...)}
}

// Built is the product of Build: the area's top rule, its named
// requirements (for Reference resolution and the "requirements:
// [names]" From source), and the set of valid paths an exception.Set
// must validate against.
type Built struct {
	Result       core.Rule
	Requirements map[string]core.Rule
	ValidPaths   map[string]struct{}
}

type buildState struct {
	requirements map[string]core.Rule
	building     map[string]bool
	validPaths   map[string]struct{}
}

func (bs *buildState) mark(p path.Path) {
	bs.validPaths[p.Key()] = struct{}{}
}

// Build constructs the frozen rule tree for one area specification
// (spec.md §6, §7 family 1). Requirements are built in name-sorted
// order; a Reference naming a requirement not yet built (because it
// sorts later) is a forward-reference error, matching spec.md §4.4
// "forward reference is disallowed at validation."
func Build(area spec.AreaSpec) (*Built, error) {
	bs := &buildState{
		requirements: make(map[string]core.Rule),
		building:     make(map[string]bool),
		validPaths:   make(map[string]struct{}),
	}

	names := make([]string, 0, len(area.Requirements))
	for name := range area.Requirements {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rq := area.Requirements[name]
		p := path.Root().Child("%" + name)
		req, err := buildRequirement(bs, name, rq, p)
		if err != nil {
			return nil, err
		}
		bs.requirements[name] = req
	}

	result, err := buildRule(bs, area.Result, path.Root())
	if err != nil {
		return nil, err
	}

	return &Built{Result: result, Requirements: bs.requirements, ValidPaths: bs.validPaths}, nil
}

func buildRequirement(bs *buildState, name string, rq spec.RequirementSpec, p path.Path) (*Requirement, error) {
	bs.mark(p)

	auditedBy := ""
	switch {
	case rq.Override:
		auditedBy = "override"
	case rq.RegistrarAudited:
		auditedBy = "registrar"
	case rq.InterviewAudited:
		auditedBy = "interview"
	}

	req := &Requirement{
		NodePath:  p,
		Name:      name,
		Message:   rq.Message,
		AuditedBy: auditedBy,
		InGPA:     rq.InGPA,
		Contract:  rq.Contract,
	}

	if rq.Result != nil {
		child, err := buildRule(bs, *rq.Result, p.Child(".result"))
		if err != nil {
			return nil, err
		}
		req.Child = child
	} else if auditedBy == "" {
		return nil, specErr(p, "requirement %q has neither a result rule nor an audited_by marker", name)
	}

	return req, nil
}

func buildRule(bs *buildState, rs spec.RuleSpec, p path.Path) (core.Rule, error) {
	bs.mark(p)

	switch {
	case rs.Course != nil:
		return buildCourse(rs, p)
	case rs.All != nil:
		return buildCount(bs, rs.All, true, 0, false, nil, p)
	case rs.Both != nil:
		return buildCount(bs, rs.Both, true, 0, false, nil, p)
	case rs.Any != nil:
		return buildCount(bs, rs.Any, false, 1, false, nil, p)
	case rs.Either != nil:
		return buildCount(bs, rs.Either, false, 1, false, nil, p)
	case rs.Count != nil || rs.Of != nil:
		return buildCountSpec(bs, rs, p)
	case rs.From != "" || len(rs.Requirements) > 0:
		return buildFrom(bs, rs, p)
	case rs.Requirement != nil:
		if _, ok := bs.requirements[*rs.Requirement]; !ok {
			return nil, specErr(p, "reference to unknown or forward-referenced requirement %q", *rs.Requirement)
		}
		return &Reference{NodePath: p, Name: *rs.Requirement}, nil
	default:
		return nil, specErr(p, "rule spec has no recognised kind (course/all/any/both/either/count/from/requirement)")
	}
}

func buildCourse(rs spec.RuleSpec, p path.Path) (*Course, error) {
	c := &Course{
		NodePath:     p,
		ExpectedCode: *rs.Course,
		Hidden:       rs.Hidden,
		AllowClaimed: rs.IncludingClaimed,
	}
	if rs.Grade != nil {
		g, ok := grade.Parse(*rs.Grade)
		if !ok {
			return nil, specErr(p, "unrecognised minimum grade %q", *rs.Grade)
		}
		c.MinGrade = &g
	}
	if rs.GradeOption != nil {
		switch *rs.GradeOption {
		case string(transcript.Graded):
			opt := transcript.Graded
			c.GradeOption = &opt
		case string(transcript.PassFail):
			opt := transcript.PassFail
			c.GradeOption = &opt
		default:
			return nil, specErr(p, "unrecognised grade_option %q", *rs.GradeOption)
		}
	}
	if rs.APIBSource != nil {
		switch *rs.APIBSource {
		case string(transcript.AP):
			src := transcript.AP
			c.APIBSource = &src
		case string(transcript.IB):
			src := transcript.IB
			c.APIBSource = &src
		default:
			return nil, specErr(p, "unrecognised ap_ib_source %q", *rs.APIBSource)
		}
	}
	return c, nil
}

func buildCountSpec(bs *buildState, rs spec.RuleSpec, p path.Path) (*Count, error) {
	of := rs.Of
	allKind := false
	atMost := rs.AtMost
	k := 0

	if rs.Count == nil {
		return nil, specErr(p, "count rule is missing a count")
	}
	switch rs.Count.Raw {
	case "all":
		allKind = true
		k = len(of)
	case "any":
		k = 1
	case "":
		k = rs.Count.N
	default:
		return nil, specErr(p, "unrecognised count %q", rs.Count.Raw)
	}
	if k < 0 || k > len(of) {
		return nil, specErr(p, "count %d is out of range for %d children", k, len(of))
	}

	return buildCount(bs, of, allKind, k, atMost, rs.Audit, p)
}

func buildCount(bs *buildState, of []spec.RuleSpec, allKind bool, k int, atMost bool, auditSpecs []spec.AssertionSpec, p path.Path) (*Count, error) {
	if allKind && k == 0 {
		k = len(of)
	}
	children := make([]core.Rule, len(of))
	for i, childSpec := range of {
		child, err := buildRule(bs, childSpec, p.Child(fmt.Sprintf("[%d]", i)))
		if err != nil {
			return nil, err
		}
		children[i] = child
	}

	audits := make([]Assertion, len(auditSpecs))
	for i, as := range auditSpecs {
		a, err := buildAssertion(as, p.Child(fmt.Sprintf(".audit[%d]", i)))
		if err != nil {
			return nil, err
		}
		audits[i] = a
	}

	return &Count{
		NodePath: p,
		Min:      k,
		AllKind:  allKind,
		AtMost:   atMost,
		Children: children,
		Audits:   audits,
	}, nil
}

func buildFrom(bs *buildState, rs spec.RuleSpec, p path.Path) (*From, error) {
	f := &From{
		NodePath:     p,
		AllowClaimed: rs.FromAllowClaimed,
		Claim:        true,
	}
	if rs.Claim != nil {
		f.Claim = *rs.Claim
	}

	switch {
	case rs.From == "student.courses":
		f.Source = SourceStudentCourses
		switch rs.Repeats {
		case "", "all":
			f.Repeats = transcript.RepeatsAll
		case "first":
			f.Repeats = transcript.RepeatsFirst
		case "last":
			f.Repeats = transcript.RepeatsLast
		default:
			return nil, specErr(p, "unrecognised repeats policy %q", rs.Repeats)
		}
	case rs.From == "student.areas":
		f.Source = SourceStudentAreas
	case len(rs.Requirements) > 0:
		f.Source = SourceRequirements
		for _, name := range rs.Requirements {
			if _, ok := bs.requirements[name]; !ok {
				return nil, specErr(p, "from rule references unknown or forward-referenced requirement %q", name)
			}
		}
		f.RequirementNames = rs.Requirements
	default:
		return nil, specErr(p, "unrecognised from source %q", rs.From)
	}

	if rs.Where != nil {
		where, err := buildClause(*rs.Where, p.Child(".where"))
		if err != nil {
			return nil, err
		}
		f.Where = where
	}

	if rs.Assert == nil {
		return nil, specErr(p, "from rule is missing an assert clause")
	}
	a, err := buildAssertion(*rs.Assert, p.Child(".assert"))
	if err != nil {
		return nil, err
	}
	f.Assert = a.Aggregate

	return f, nil
}

func buildAssertion(as spec.AssertionSpec, p path.Path) (Assertion, error) {
	op, err := buildOperator(as.Op, p)
	if err != nil {
		return Assertion{}, err
	}
	agg, err := buildAggregation(as.Aggregation, p)
	if err != nil {
		return Assertion{}, err
	}
	expected, err := buildValue(as.Expected.Raw, p)
	if err != nil {
		return Assertion{}, err
	}
	var where clause.Clause
	if as.Where != nil {
		where, err = buildClause(*as.Where, p.Child(".where"))
		if err != nil {
			return Assertion{}, err
		}
	}
	return Assertion{
		NodePath:  p,
		Aggregate: assertion.NewAssertion(p, agg, where, op, expected),
	}, nil
}

func buildAggregation(name string, p path.Path) (assertion.Aggregation, error) {
	switch assertion.Aggregation(name) {
	case assertion.CountCourses, assertion.CountDistinctCourses, assertion.SumCredits, assertion.AverageGrades, assertion.CountTerms:
		return assertion.Aggregation(name), nil
	default:
		return "", specErr(p, "unrecognised aggregation function %q", name)
	}
}

func buildOperator(op string, p path.Path) (clause.Operator, error) {
	switch clause.Operator(op) {
	case clause.LT, clause.LE, clause.GT, clause.GE, clause.EQ, clause.NE, clause.In, clause.NotIn:
		return clause.Operator(op), nil
	default:
		return "", specErr(p, "unrecognised operator %q", op)
	}
}

func buildClause(cs spec.ClauseSpec, p path.Path) (clause.Clause, error) {
	if len(cs.And) > 0 || len(cs.Or) > 0 {
		boolOp := clause.And
		group := cs.And
		if len(cs.Or) > 0 {
			boolOp = clause.Or
			group = cs.Or
		}
		children := make([]clause.Clause, len(group))
		for i, child := range group {
			built, err := buildClause(child, p.Child(fmt.Sprintf(".%s[%d]", boolOp, i)))
			if err != nil {
				return nil, err
			}
			children[i] = built
		}
		return clause.Compound{Op: boolOp, Children: children}, nil
	}

	op, err := buildOperator(cs.Op, p)
	if err != nil {
		return nil, err
	}
	expected, err := buildValue(cs.Expected.Raw, p)
	if err != nil {
		return nil, err
	}
	return clause.NewSingle(cs.Key, op, expected), nil
}

func buildValue(raw any, p path.Path) (clause.Value, error) {
	return valueFromAny(raw, p)
}
