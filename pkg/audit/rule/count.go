package rule

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/coursepath/auditengine/pkg/audit/assertion"
	"github.com/coursepath/auditengine/pkg/audit/claims"
	"github.com/coursepath/auditengine/pkg/audit/core"
	"github.com/coursepath/auditengine/pkg/audit/path"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// Count is the combinatorial core rule: at least Min of Children must
// audit ok (exactly Min if AtMost), plus every audit clause (spec.md
// §4.5). A count of "all" is represented as AllKind=true with Min set
// to len(Children) at build time; a count of "any" is Min=1.
type Count struct {
	NodePath path.Path
	Min      int
	AllKind  bool
	AtMost   bool
	Children []core.Rule
	Audits   []Assertion
}

var _ core.Rule = (*Count)(nil)

func (n *Count) Path() path.Path { return n.NodePath }

// effectiveChildren applies spec.md §4.5 step 2: for each insertion
// exception at this rule's own path, synthesize an extra child that
// claims the forced clbid outright.
func (n *Count) effectiveChildren(ctx core.Context) []core.Rule {
	ins := ctx.Exceptions().Insertions(n.NodePath)
	if len(ins) == 0 {
		return n.Children
	}
	out := make([]core.Rule, 0, len(n.Children)+len(ins))
	out = append(out, n.Children...)
	for i, e := range ins {
		out = append(out, &insertedChild{
			NodePath: n.NodePath.Child(fmt.Sprintf("+insert[%d]", i)),
			CLBID:    e.CLBID,
		})
	}
	return out
}

// effectiveMin applies the rest of step 2: an "all" rule whose
// children were grown by insertion stays an "all" rule.
func (n *Count) effectiveMin(ctx core.Context) int {
	insertions := len(ctx.Exceptions().Insertions(n.NodePath))
	if n.AllKind {
		return n.Min + insertions
	}
	return n.Min
}

// insertedChild is the synthetic Course-like child created by an
// insertion exception: it claims a specific clbid unconditionally,
// without consulting the transcript for a code match.
type insertedChild struct {
	NodePath path.Path
	CLBID    string
}

var _ core.Rule = (*insertedChild)(nil)

func (c *insertedChild) Path() path.Path { return c.NodePath }

func (c *insertedChild) Solutions(ctx core.Context) core.SolutionIter {
	return newSingleIter(&insertedSolution{rule: c})
}

type insertedSolution struct {
	rule *insertedChild
}

func (s *insertedSolution) Path() path.Path { return s.rule.Path() }

func (s *insertedSolution) Audit(ctx core.Context) (core.Result, error) {
	for _, c := range ctx.Transcript().All() {
		if c.CLBID != s.rule.CLBID {
			continue
		}
		attempt := ctx.Registry().Claim(c.CLBID, c.Code(), s.rule.Path(), false)
		course := c
		return newCourseResult(s.rule.Path(), attempt.Outcome == claims.Ok, &course), nil
	}
	return newCourseResult(s.rule.Path(), false, nil), nil
}

// Solutions implements spec.md §4.5 steps 1, 3-6. Step 1 (override
// short-circuit) and step 4 (top-level disjoint optimisation) are
// handled inline; the combinatorial space of step 5 is materialized
// eagerly into a single ordered solution list, since every child kind
// in this engine yields a small, finite number of solutions.
func (n *Count) Solutions(ctx core.Context) core.SolutionIter {
	if ctx.Exceptions().Waived(n.NodePath) {
		return newSingleIter(&countSolution{rule: n, overridden: true, tuple: n.effectiveChildren(ctx)})
	}

	children := n.effectiveChildren(ctx)
	k := n.effectiveMin(ctx)

	var potential []core.Rule
	var excluded []core.Rule
	for _, c := range children {
		if hasPotential(ctx, c) {
			potential = append(potential, c)
		} else {
			excluded = append(excluded, c)
		}
	}

	var frozen []core.Result
	rump := potential
	if len(n.NodePath) == 1 && len(n.Audits) == 0 {
		frozen, rump = n.solveDisjointSubtrees(ctx, potential)
	}

	frozenOk := 0
	for _, r := range frozen {
		if r.Ok() {
			frozenOk++
		}
	}
	remaining := k - frozenOk
	if remaining < 0 {
		remaining = 0
	}

	if len(potential) == 0 && len(frozen) == 0 {
		return newSingleIter(&countSolution{rule: n, tuple: children, k: k})
	}

	var out []core.Solution
	maxR := len(rump)
	if n.AtMost {
		if remaining <= maxR {
			maxR = remaining
		}
	}
	for r := remaining; r <= maxR; r++ {
		for _, idx := range combinations(len(rump), r) {
			selectedChildren := make([]core.Rule, len(idx))
			for i, j := range idx {
				selectedChildren[i] = rump[j]
			}
			unselected := unselectedOf(rump, idx)
			for _, tuple := range crossProduct(ctx, selectedChildren) {
				out = append(out, &countSolution{
					rule:       n,
					k:          k,
					frozen:     frozen,
					selected:   tuple,
					unselected: append(append([]core.Rule{}, unselected...), excluded...),
				})
			}
		}
		if n.AtMost {
			break
		}
	}

	if len(out) == 0 {
		return newSingleIter(&countSolution{rule: n, tuple: children, k: k, frozen: frozen})
	}
	return newSliceIter(out)
}

// solveDisjointSubtrees implements spec.md §4.5 step 4: children whose
// all_matches sets are pairwise disjoint from every other child's are
// solved independently and frozen, snapshotting and restoring the
// claim registry around each so no state leaks between them.
func (n *Count) solveDisjointSubtrees(ctx core.Context, children []core.Rule) (frozen []core.Result, rump []core.Rule) {
	if len(children) == 0 {
		return nil, nil
	}
	sets := make([]map[string]struct{}, len(children))
	for i, c := range children {
		sets[i] = clbidSet(allMatches(ctx, c))
	}
	isolated := make([]bool, len(children))
	for i := range children {
		isolated[i] = true
		for j := range children {
			if i == j {
				continue
			}
			if !disjoint(sets[i], sets[j]) {
				isolated[i] = false
				break
			}
		}
	}
	for i, c := range children {
		if !isolated[i] {
			rump = append(rump, c)
			continue
		}
		snap := ctx.Registry().Snapshot()
		best := bestSolutionResult(ctx, c)
		ctx.Registry().Restore(snap)
		if best != nil {
			frozen = append(frozen, best)
		}
	}
	return frozen, rump
}

// bestSolutionResult drives a rule's own solutions to find the
// highest-ranked result, stopping at the first ok (mirrors the §4.7
// driver loop, used only for the disjoint freeze-in-place shortcut).
func bestSolutionResult(ctx core.Context, r core.Rule) core.Result {
	it := r.Solutions(ctx)
	var best core.Result
	for {
		sol, ok := it.Next()
		if !ok {
			break
		}
		res, err := sol.Audit(ctx)
		if err != nil {
			continue
		}
		if best == nil || res.Rank().GreaterThan(best.Rank()) {
			best = res
		}
		if res.Ok() {
			break
		}
	}
	return best
}

func unselectedOf(rump []core.Rule, selectedIdx []int) []core.Rule {
	sel := make(map[int]struct{}, len(selectedIdx))
	for _, i := range selectedIdx {
		sel[i] = struct{}{}
	}
	var out []core.Rule
	for i, c := range rump {
		if _, ok := sel[i]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// crossProduct materializes every combination of one Solution per
// selected child, with the children in the order they are given
// (declaration order, inserted children last). The children are not
// re-sorted by path.
func crossProduct(ctx core.Context, children []core.Rule) [][]core.Solution {
	if len(children) == 0 {
		return [][]core.Solution{{}}
	}
	perChild := make([][]core.Solution, len(children))
	for i, c := range children {
		it := c.Solutions(ctx)
		for {
			s, ok := it.Next()
			if !ok {
				break
			}
			perChild[i] = append(perChild[i], s)
		}
		if len(perChild[i]) == 0 {
			return nil
		}
	}
	var out [][]core.Solution
	idx := make([]int, len(children))
	for {
		tuple := make([]core.Solution, len(children))
		for i, j := range idx {
			tuple[i] = perChild[i][j]
		}
		out = append(out, tuple)

		pos := len(idx) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(perChild[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return out
}

type countSolution struct {
	rule       *Count
	k          int
	overridden bool
	tuple      []core.Rule     // verbatim children, used for override and empty-fallback paths
	frozen     []core.Result   // pre-audited disjoint subtree results
	selected   []core.Solution // this tuple's combinatorial child solutions
	unselected []core.Rule     // children not selected this round, audited as NotOk
}

func (s *countSolution) Path() path.Path { return s.rule.Path() }

func (s *countSolution) Audit(ctx core.Context) (core.Result, error) {
	if s.overridden {
		var results []core.Result
		for _, c := range s.tuple {
			it := c.Solutions(ctx)
			sol, ok := it.Next()
			if !ok {
				continue
			}
			r, err := sol.Audit(ctx)
			if err != nil {
				return nil, err
			}
			results = append(results, r)
		}
		return &CountResult{
			NodePath:  s.rule.NodePath,
			Children:  results,
			OkFlag:    true,
			Overridden: true,
		}, nil
	}

	if s.tuple != nil && s.selected == nil {
		var results []core.Result
		for _, c := range s.tuple {
			it := c.Solutions(ctx)
			sol, ok := it.Next()
			if !ok {
				continue
			}
			r, err := sol.Audit(ctx)
			if err != nil {
				return nil, err
			}
			results = append(results, r)
		}
		return s.rule.finish(ctx, results, nil)
	}

	counted := append([]core.Result{}, s.frozen...)
	for _, sol := range s.selected {
		r, err := sol.Audit(ctx)
		if err != nil {
			return nil, err
		}
		counted = append(counted, r)
	}
	uncounted := make([]core.Result, len(s.unselected))
	for i, c := range s.unselected {
		uncounted[i] = placeholderNotOkResult(c)
	}
	return s.rule.finish(ctx, counted, uncounted)
}

func placeholderNotOkResult(r core.Rule) core.Result {
	return &CourseResult{NodePath: r.Path(), OkFlag: false}
}

// finish implements the §4.5 audit clause: aggregate matched items
// across child results, evaluate the rule's own audit clauses, and
// combine into the final ok/rank.
//
// Only counted carries rank and max-rank weight: it is the combination
// of children this solution actually needs (the frozen disjoint
// subtree results plus this round's selected tuple, or every child
// verbatim when no combinatorial selection happened). uncounted holds
// children deselected this round — they still appear in the result
// tree for traversal, but since the rule only requires k of n children,
// a deselected child's absence isn't a shortfall and must not drag
// max_rank above what this solution can actually achieve (spec.md §8
// "Ok implies bound": ok() ⟹ rank() == max_rank()).
func (n *Count) finish(ctx core.Context, counted, uncounted []core.Result) (core.Result, error) {
	results := append(append([]core.Result{}, counted...), uncounted...)

	okCount := 0
	var matched []transcript.Course
	rankSum := decimal.Zero
	maxRankSum := decimal.Zero
	for _, r := range counted {
		if r.Ok() {
			okCount++
		}
		matched = append(matched, r.Matched()...)
		rankSum = rankSum.Add(r.Rank())
		maxRankSum = maxRankSum.Add(r.MaxRank())
	}

	k := n.effectiveMin(ctx)
	childrenOk := okCount >= k
	if n.AtMost {
		childrenOk = okCount == k
	}

	var bounds []assertionOutcome
	auditsOk := true
	for i, a := range n.Audits {
		wrapped := Assertion{NodePath: n.NodePath.Child(fmt.Sprintf(".audit[%d]", i)), Aggregate: a.Aggregate}
		bound, err := wrapped.Evaluate(ctx, matched)
		if err != nil {
			return nil, err
		}
		bounds = append(bounds, assertionOutcome{path: wrapped.NodePath, bound: bound})
		if !bound.Ok {
			auditsOk = false
		}
		rankSum = rankSum.Add(bound.Rank)
		maxRankSum = maxRankSum.Add(decimal.NewFromInt(1))
	}

	ok := childrenOk && auditsOk
	if ok {
		rankSum = rankSum.Add(decimal.NewFromInt(1))
	}
	maxRankSum = maxRankSum.Add(decimal.NewFromInt(1))

	return &CountResult{
		NodePath: n.NodePath,
		Children: results,
		OkFlag:   ok,
		Audits:   bounds,
		Matched_: matched,
		RankVal:  rankSum,
		MaxRankVal: maxRankSum,
	}, nil
}

type assertionOutcome struct {
	path  path.Path
	bound assertion.Bound
}

// CountResult is the audited outcome of a Count rule.
type CountResult struct {
	NodePath   path.Path
	Children   []core.Result
	Audits     []assertionOutcome
	OkFlag     bool
	Overridden bool
	Matched_   []transcript.Course
	RankVal    decimal.Decimal
	MaxRankVal decimal.Decimal
}

var _ core.Result = (*CountResult)(nil)

func (r *CountResult) Path() path.Path { return r.NodePath }
func (r *CountResult) Ok() bool        { return r.OkFlag }

func (r *CountResult) Rank() decimal.Decimal {
	if r.Overridden {
		return decimal.NewFromInt(1)
	}
	return r.RankVal
}

func (r *CountResult) MaxRank() decimal.Decimal {
	if r.Overridden {
		return decimal.NewFromInt(1)
	}
	return r.MaxRankVal
}

func (r *CountResult) Matched() []transcript.Course {
	if r.Matched_ != nil {
		return r.Matched_
	}
	var out []transcript.Course
	for _, c := range r.Children {
		out = append(out, c.Matched()...)
	}
	return out
}

func (r *CountResult) ToMap() map[string]any {
	m := baseMap(r.NodePath, "count", r.Ok(), r.Rank(), r.MaxRank())
	if r.Overridden {
		m["overridden"] = true
	}
	children := make([]map[string]any, len(r.Children))
	for i, c := range r.Children {
		children[i] = c.ToMap()
	}
	m["children"] = children
	if len(r.Audits) > 0 {
		audits := make([]map[string]any, len(r.Audits))
		for i, a := range r.Audits {
			audits[i] = map[string]any{
				"path":     a.path.String(),
				"ok":       a.bound.Ok,
				"actual":   a.bound.Actual,
				"expected": a.bound.Expected,
			}
		}
		m["audits"] = audits
	}
	return m
}
