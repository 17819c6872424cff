package rule

import (
	"github.com/coursepath/auditengine/pkg/audit/core"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// hasPotential is the conservative static hint of spec.md §9: a
// conservative guess at whether a rule could conceivably succeed given
// ctx, without actually attempting claims. Results are memoised per
// (rule path, context fingerprint) since both inputs are immutable for
// the lifetime of one audit (spec.md §9 "Memoisation").
func hasPotential(ctx core.Context, r core.Rule) bool {
	if cached, ok := ctx.Memo().Potential(r.Path(), ctx.Fingerprint()); ok {
		return cached
	}
	v := computePotential(ctx, r)
	ctx.Memo().SetPotential(r.Path(), ctx.Fingerprint(), v)
	return v
}

func computePotential(ctx core.Context, r core.Rule) bool {
	switch n := r.(type) {
	case *Course:
		if len(ctx.Exceptions().Insertions(n.Path())) > 0 {
			return true
		}
		return len(allMatches(ctx, n)) > 0
	case *Count:
		if ctx.Exceptions().Waived(n.Path()) {
			return true
		}
		children := n.effectiveChildren(ctx)
		for _, c := range children {
			if hasPotential(ctx, c) {
				return true
			}
		}
		return len(children) == 0
	case *From:
		return true // a From rule can always surface its empty-fallback solution
	case *Requirement:
		if ctx.Exceptions().WaivedOrOverridden(n.Path()) {
			return true
		}
		if n.AuditedBy != "" {
			return true
		}
		if n.Child == nil {
			return false
		}
		return hasPotential(ctx, n.Child)
	case *Reference:
		target, ok := ctx.Requirement(n.Name)
		if !ok {
			return false
		}
		return hasPotential(ctx, target)
	default:
		return true
	}
}

// allMatches returns the transcript courses r could conceivably claim,
// ignoring the current claim registry state entirely (spec.md §9). Used
// by the Count rule's top-level disjoint-subtree partition (spec.md
// §4.5 step 4).
func allMatches(ctx core.Context, r core.Rule) []transcript.Course {
	if cached, ok := ctx.Memo().Matches(r.Path(), ctx.Fingerprint()); ok {
		return cached
	}
	v := computeAllMatches(ctx, r)
	ctx.Memo().SetMatches(r.Path(), ctx.Fingerprint(), v)
	return v
}

func computeAllMatches(ctx core.Context, r core.Rule) []transcript.Course {
	switch n := r.(type) {
	case *Course:
		var out []transcript.Course
		var candidates []transcript.Course
		if n.APIBSource != nil {
			for _, c := range ctx.Transcript().MatchCode(n.ExpectedCode) {
				if c.Source == *n.APIBSource {
					candidates = append(candidates, c)
				}
			}
		} else {
			candidates = ctx.Transcript().MatchCode(n.ExpectedCode)
		}
		for _, c := range candidates {
			if n.MinGrade != nil && !c.Grade.GE(*n.MinGrade) {
				continue
			}
			if n.GradeOption != nil && c.GradeOption != *n.GradeOption {
				continue
			}
			out = append(out, c)
		}
		return out
	case *Count:
		var out []transcript.Course
		for _, c := range n.effectiveChildren(ctx) {
			out = append(out, allMatches(ctx, c)...)
		}
		return out
	case *From:
		items := n.resolveSource(ctx)
		if n.Where != nil {
			var filtered []transcript.Course
			for _, c := range items {
				ok, err := n.Where.Evaluate(c)
				if err == nil && ok {
					filtered = append(filtered, c)
				}
			}
			return filtered
		}
		return items
	case *Requirement:
		if n.Child == nil {
			return nil
		}
		return allMatches(ctx, n.Child)
	case *Reference:
		target, ok := ctx.Requirement(n.Name)
		if !ok {
			return nil
		}
		return allMatches(ctx, target)
	default:
		return nil
	}
}

// clbidSet builds a set of clbids for pairwise disjointness checks.
func clbidSet(cs []transcript.Course) map[string]struct{} {
	set := make(map[string]struct{}, len(cs))
	for _, c := range cs {
		set[c.CLBID] = struct{}{}
	}
	return set
}

func disjoint(a, b map[string]struct{}) bool {
	small, big := a, b
	if len(big) < len(small) {
		small, big = big, small
	}
	for k := range small {
		if _, ok := big[k]; ok {
			return false
		}
	}
	return true
}
