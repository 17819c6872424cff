package rule

import (
	"github.com/pkg/errors"

	"github.com/coursepath/auditengine/pkg/audit/assertion"
	"github.com/coursepath/auditengine/pkg/audit/core"
	"github.com/coursepath/auditengine/pkg/audit/exception"
	"github.com/coursepath/auditengine/pkg/audit/path"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// Assertion wraps an assertion.Assertion with its tree path so Count
// and From nodes can evaluate it against a concrete item set and apply
// any insertion exception attached at the same path (spec.md §3, §4.2).
type Assertion struct {
	NodePath  path.Path
	Aggregate assertion.Assertion
}

func (a Assertion) Path() path.Path { return a.NodePath }

// Evaluate applies any insertion exceptions at a's path (adding the
// named clbids to items before aggregation, spec.md §4.2 "Assertions
// may be annotated with an inserted list of clbids added via insertion
// exceptions") and then runs compare_and_resolve_with.
func (a Assertion) Evaluate(ctx core.Context, items []transcript.Course) (assertion.Bound, error) {
	ins := ctx.Exceptions().Insertions(a.NodePath)
	augmented := items
	if len(ins) > 0 {
		augmented = append(append([]transcript.Course{}, items...), findByCLBIDs(ctx, ins)...)
	}
	agg := a.Aggregate
	inserted := make([]string, len(ins))
	for i, e := range ins {
		inserted[i] = e.CLBID
	}
	agg.Inserted = inserted
	bound, err := agg.CompareAndResolveWith(augmented)
	if err != nil {
		return assertion.Bound{}, errors.Wrapf(err, "assertion at %s", a.NodePath)
	}
	return bound, nil
}

func findByCLBIDs(ctx core.Context, insertions []exception.Exception) []transcript.Course {
	wanted := make(map[string]struct{}, len(insertions))
	for _, e := range insertions {
		wanted[e.CLBID] = struct{}{}
	}
	var out []transcript.Course
	for _, c := range ctx.Transcript().All() {
		if _, ok := wanted[c.CLBID]; ok {
			out = append(out, c)
		}
	}
	return out
}
