// Package limit implements the restricted-transcript family generator
// of spec.md §4.6: each limit caps how many matching courses may be
// drawn from a tagged subset, and the solver tries every combination.
package limit

import (
	"github.com/coursepath/auditengine/pkg/audit/clause"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// Limit caps how many of the courses matching Clause may appear in a
// restricted transcript.
type Limit struct {
	Clause clause.Clause
	Max    int
}

// Family generates every restricted transcript induced by limits,
// applied to base (spec.md §4.6): courses matched by no limit always
// survive; for each limit, every subset of its matches up to Max in
// size is a candidate restriction, and the family is the cross product
// across limits.
func Family(base []transcript.Course, limits []Limit) ([]*transcript.Index, error) {
	if len(limits) == 0 {
		return []*transcript.Index{transcript.NewIndex(base)}, nil
	}

	limitMatches := make([][]transcript.Course, len(limits))
	limited := make(map[string]struct{})
	for i, l := range limits {
		for _, c := range base {
			ok, err := l.Clause.Evaluate(c)
			if err != nil {
				return nil, err
			}
			if ok {
				limitMatches[i] = append(limitMatches[i], c)
				limited[c.CLBID] = struct{}{}
			}
		}
	}

	var unrestricted []transcript.Course
	for _, c := range base {
		if _, ok := limited[c.CLBID]; !ok {
			unrestricted = append(unrestricted, c)
		}
	}

	perLimitChoices := make([][][]transcript.Course, len(limits))
	for i, l := range limits {
		perLimitChoices[i] = subsetsUpTo(limitMatches[i], l.Max)
	}

	var family []*transcript.Index
	idx := make([]int, len(limits))
	for {
		courses := append([]transcript.Course{}, unrestricted...)
		for i, choice := range idx {
			courses = append(courses, perLimitChoices[i][choice]...)
		}
		family = append(family, transcript.NewIndex(courses))

		pos := len(idx) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(perLimitChoices[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return family, nil
}

// subsetsUpTo returns every subset of items of size 0..min(max,len(items)),
// in increasing-size, lexicographic-index order.
func subsetsUpTo(items []transcript.Course, max int) [][]transcript.Course {
	limitN := max
	if limitN > len(items) {
		limitN = len(items)
	}
	var out [][]transcript.Course
	for r := 0; r <= limitN; r++ {
		for _, idx := range combinations(len(items), r) {
			subset := make([]transcript.Course, len(idx))
			for i, j := range idx {
				subset[i] = items[j]
			}
			out = append(out, subset)
		}
	}
	if len(out) == 0 {
		out = [][]transcript.Course{{}}
	}
	return out
}

// combinations returns every r-combination of the indices [0,n), in
// lexicographic order.
func combinations(n, r int) [][]int {
	if r < 0 || r > n {
		return nil
	}
	if r == 0 {
		return [][]int{{}}
	}
	var out [][]int
	combo := make([]int, r)
	for i := range combo {
		combo[i] = i
	}
	for {
		next := make([]int, r)
		copy(next, combo)
		out = append(out, next)

		i := r - 1
		for i >= 0 && combo[i] == i+n-r {
			i--
		}
		if i < 0 {
			break
		}
		combo[i]++
		for j := i + 1; j < r; j++ {
			combo[j] = combo[j-1] + 1
		}
	}
	return out
}
