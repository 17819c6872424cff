package rule

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/coursepath/auditengine/pkg/audit/context"
	"github.com/coursepath/auditengine/pkg/audit/core"
	"github.com/coursepath/auditengine/pkg/audit/exception"
	"github.com/coursepath/auditengine/pkg/audit/path"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

func TestRequirementAuditedByWithNoChildIsPinnedOk(t *testing.T) {
	p := path.Root().Child(".req")
	r := &Requirement{NodePath: p, Name: "internship", AuditedBy: "registrar"}
	ctx := newTestContext(t, nil)

	sol, _ := r.Solutions(ctx).Next()
	result, err := sol.Audit(ctx)
	require.NoError(t, err)
	require.True(t, result.Ok())
	require.Equal(t, result.Rank(), result.MaxRank(), "Ok must imply Rank()==MaxRank()")
}

func TestRequirementNoChildAndNoAuditedByFails(t *testing.T) {
	p := path.Root().Child(".req")
	r := &Requirement{NodePath: p, Name: "incomplete"}
	ctx := newTestContext(t, nil)

	sol, _ := r.Solutions(ctx).Next()
	result, err := sol.Audit(ctx)
	require.NoError(t, err)
	require.False(t, result.Ok())
	require.NotEqual(t, result.Rank(), result.MaxRank())
}

func TestRequirementWaivedIsPinnedOkEvenWithFailingChild(t *testing.T) {
	p := path.Root().Child(".req")
	child := childCourse(".req[0]", "CSCI 251")
	r := &Requirement{NodePath: p, Name: "core", Child: child}

	idx := transcript.NewIndex(nil)
	exceptionSet, err := exception.NewSet([]exception.Exception{{Path: p, Kind: exception.Waive}}, map[string]struct{}{p.Key(): {}})
	require.NoError(t, err)
	ctx := context.New(idx, nil, exceptionSet, nil, nil, nil)

	sol, _ := r.Solutions(ctx).Next()
	result, err := sol.Audit(ctx)
	require.NoError(t, err)
	require.True(t, result.Ok())
}

func TestRequirementDelegatesToChild(t *testing.T) {
	p := path.Root().Child(".req")
	child := childCourse(".req[0]", "CSCI 251")
	r := &Requirement{NodePath: p, Name: "core", Child: child}

	ctx := newTestContext(t, []transcript.Course{{CLBID: "1", Subject: "CSCI", Number: "251"}})

	sol, _ := r.Solutions(ctx).Next()
	result, err := sol.Audit(ctx)
	require.NoError(t, err)
	require.True(t, result.Ok())
	require.Len(t, result.Matched(), 1)

	stored, ok := ctx.LastResult("core")
	require.True(t, ok)
	require.Same(t, result, stored)
}

func TestRequirementRankInvariantWhenPinnedNotOk(t *testing.T) {
	// A Requirement pinned-but-not-ok (e.g. no child, no audited_by)
	// must never report Rank()==MaxRank() — verified directly against
	// the RequirementResult type rather than through Solutions/Audit.
	rr := &RequirementResult{NodePath: path.Root().Child(".req"), Pinned: true, OkFlag: false}
	require.False(t, rr.Ok())
	require.NotEqual(t, rr.Rank(), rr.MaxRank())
	require.Equal(t, decimal.Zero, rr.Rank())
}
