package rule

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coursepath/auditengine/pkg/audit/context"
	"github.com/coursepath/auditengine/pkg/audit/core"
	"github.com/coursepath/auditengine/pkg/audit/exception"
	"github.com/coursepath/auditengine/pkg/audit/path"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

func childCourse(name, code string) *Course {
	return &Course{NodePath: path.Root().Child(name), ExpectedCode: code}
}

func auditBestResult(t *testing.T, rule core.Rule, ctx core.Context) core.Result {
	t.Helper()
	it := rule.Solutions(ctx)
	var best core.Result
	for {
		sol, ok := it.Next()
		if !ok {
			break
		}
		r, err := sol.Audit(ctx)
		require.NoError(t, err)
		if best == nil || r.Rank().GreaterThan(best.Rank()) {
			best = r
		}
		if r.Ok() {
			return best
		}
	}
	return best
}

func TestCountTwoOfTwoSatisfied(t *testing.T) {
	p := path.Root().Child(".count")
	n := &Count{
		NodePath: p,
		Min:      2,
		AllKind:  true,
		Children: []core.Rule{childCourse("[0]", "CSCI 251"), childCourse("[1]", "MATH 112")},
	}
	ctx := newTestContext(t, []transcript.Course{
		{CLBID: "1", Subject: "CSCI", Number: "251"},
		{CLBID: "2", Subject: "MATH", Number: "112"},
	})

	result := auditBestResult(t, n, ctx)
	require.True(t, result.Ok())
	require.Len(t, result.Matched(), 2)
}

func TestCountOneOfTwoFailsWhenMinIsTwo(t *testing.T) {
	p := path.Root().Child(".count")
	n := &Count{
		NodePath: p,
		Min:      2,
		AllKind:  true,
		Children: []core.Rule{childCourse("[0]", "CSCI 251"), childCourse("[1]", "MATH 112")},
	}
	ctx := newTestContext(t, []transcript.Course{
		{CLBID: "1", Subject: "CSCI", Number: "251"},
	})

	result := auditBestResult(t, n, ctx)
	require.False(t, result.Ok())
}

func TestCountWaivedShortCircuitsAlwaysOk(t *testing.T) {
	p := path.Root().Child(".count")
	n := &Count{
		NodePath: p,
		Min:      2,
		AllKind:  true,
		Children: []core.Rule{childCourse("[0]", "CSCI 251"), childCourse("[1]", "MATH 112")},
	}

	idx := transcript.NewIndex(nil)
	exceptionSet, err := exception.NewSet([]exception.Exception{{Path: p, Kind: exception.Waive}}, map[string]struct{}{p.Key(): {}})
	require.NoError(t, err)
	ctx := context.New(idx, nil, exceptionSet, nil, nil, nil)

	result := auditBestResult(t, n, ctx)
	require.True(t, result.Ok(), "a waived count rule is always ok regardless of children")
}

func TestCountInsertionGrowsAllRuleMin(t *testing.T) {
	p := path.Root().Child(".count")
	n := &Count{
		NodePath: p,
		Min:      1,
		AllKind:  true,
		Children: []core.Rule{childCourse("[0]", "CSCI 251")},
	}

	idx := transcript.NewIndex([]transcript.Course{
		{CLBID: "1", Subject: "CSCI", Number: "251"},
		{CLBID: "99", Subject: "PHYS", Number: "201"},
	})
	exceptionSet, err := exception.NewSet(
		[]exception.Exception{{Path: p, Kind: exception.Insert, CLBID: "99"}},
		map[string]struct{}{p.Key(): {}},
	)
	require.NoError(t, err)
	ctx := context.New(idx, nil, exceptionSet, nil, nil, nil)

	result := auditBestResult(t, n, ctx)
	require.True(t, result.Ok())
	require.Len(t, result.Matched(), 2, "an 'all' rule grown by insertion must require both the original and inserted child")
}

func TestCountAnyOfTwoSatisfiedKeepsRankBoundedByMaxRank(t *testing.T) {
	p := path.Root().Child(".count")
	n := &Count{
		NodePath: p,
		Min:      1,
		Children: []core.Rule{childCourse("[0]", "CSCI 251"), childCourse("[1]", "MATH 112")},
	}
	ctx := newTestContext(t, []transcript.Course{
		{CLBID: "1", Subject: "CSCI", Number: "251"},
	})

	it := n.Solutions(ctx)
	for {
		sol, ok := it.Next()
		if !ok {
			break
		}
		result, err := sol.Audit(ctx)
		require.NoError(t, err)
		if !result.Ok() {
			continue
		}
		require.True(t, result.Rank().Equal(result.MaxRank()),
			"an ok result with k<n children must not have an unselected child inflate max_rank above rank: rank=%s max_rank=%s",
			result.Rank(), result.MaxRank())
		return
	}
	t.Fatal("expected at least one ok solution for 'any 1 of 2' with one matching course")
}

func TestCountOfZeroIsAlwaysOk(t *testing.T) {
	p := path.Root().Child(".count")
	n := &Count{NodePath: p, Min: 0, Children: nil}
	ctx := newTestContext(t, nil)

	result := auditBestResult(t, n, ctx)
	require.True(t, result.Ok())
}
