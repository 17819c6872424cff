// Package assertion implements the aggregation + clause comparison
// applied to a matched course set (spec.md §4.2).
package assertion

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/coursepath/auditengine/pkg/audit/clause"
	"github.com/coursepath/auditengine/pkg/audit/path"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// Aggregation is an aggregation function name (spec.md §4.2).
type Aggregation string

const (
	CountCourses         Aggregation = "count(courses)"
	CountDistinctCourses Aggregation = "count(distinct_courses)"
	SumCredits           Aggregation = "sum(credits)"
	AverageGrades        Aggregation = "average(grades)"
	// CountTerms is an addition beyond spec.md's explicit list,
	// recovered from the general "aggregation function" shape of
	// §4.2 and exercised by residency-style requirements
	// (SPEC_FULL.md §4).
	CountTerms Aggregation = "count(terms)"
)

// valueKey is the sentinel attribute name an Assertion's Clause
// addresses: the aggregate result itself, never a real course/pointer
// field.
const valueKey = "value"

// Assertion is a single clause applied to an aggregation over a matched
// course set (spec.md §4.2).
type Assertion struct {
	Path        path.Path
	Aggregation Aggregation
	Where       clause.Clause // optional
	Op          clause.Operator
	Expected    clause.Value
	// Inserted holds clbids added via insertion exceptions at this
	// assertion's path (spec.md §4.2).
	Inserted []string
}

// NewAssertion builds an Assertion whose clause compares the aggregate
// value with op against expected.
func NewAssertion(p path.Path, agg Aggregation, where clause.Clause, op clause.Operator, expected clause.Value) Assertion {
	return Assertion{Path: p, Aggregation: agg, Where: where, Op: op, Expected: expected}
}

// Bound is the evaluated outcome of an Assertion against a concrete item set.
type Bound struct {
	Actual   clause.Value
	Expected clause.Value
	Ok       bool
	Rank     decimal.Decimal
	Matched  []transcript.Course
}

type aggregateSource struct {
	value clause.Value
}

func (a aggregateSource) Attribute(key string) (clause.Value, bool) {
	if key != valueKey {
		return clause.Null(), false
	}
	return a.value, true
}

// CompareAndResolveWith implements §4.2's compare_and_resolve_with:
// filter by where-clause, aggregate, compare, return a Bound.
func (a Assertion) CompareAndResolveWith(items []transcript.Course) (Bound, error) {
	filtered := items
	if a.Where != nil {
		filtered = make([]transcript.Course, 0, len(items))
		for _, c := range items {
			ok, err := a.Where.Evaluate(c)
			if err != nil {
				return Bound{}, errors.Wrapf(err, "assertion %s: where-clause", a.Path)
			}
			if ok {
				filtered = append(filtered, c)
			}
		}
	}

	actual, err := Aggregate(a.Aggregation, filtered)
	if err != nil {
		return Bound{}, errors.Wrapf(err, "assertion %s", a.Path)
	}

	single := clause.NewSingle(valueKey, a.Op, a.Expected)
	src := aggregateSource{actual}
	ok, err := single.Evaluate(src)
	if err != nil {
		return Bound{}, errors.Wrapf(err, "assertion %s", a.Path)
	}

	return Bound{
		Actual:   actual,
		Expected: a.Expected,
		Ok:       ok,
		Rank:     single.Rank(src),
		Matched:  filtered,
	}, nil
}
