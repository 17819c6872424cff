package transcript

import "sort"

// Repeats selects which of several retaken course instances for the same
// course code survive a "student.courses" resolution (spec.md §4.4).
type Repeats string

const (
	RepeatsFirst Repeats = "first"
	RepeatsAll   Repeats = "all"
	RepeatsLast  Repeats = "last"
)

// Index is a read-only lookup structure over a transcript, built once
// per restricted-transcript attempt (spec.md §4 component 3).
type Index struct {
	courses []Course
	byCode  map[string][]Course
}

// NewIndex builds an Index over courses, preserving transcript order.
func NewIndex(courses []Course) *Index {
	idx := &Index{
		courses: courses,
		byCode:  make(map[string][]Course),
	}
	for _, c := range courses {
		idx.byCode[c.Code()] = append(idx.byCode[c.Code()], c)
	}
	return idx
}

// All returns every course in transcript order.
func (idx *Index) All() []Course {
	return idx.courses
}

// MatchCode returns every transcript entry whose code equals code, in
// transcript order.
func (idx *Index) MatchCode(code string) []Course {
	return idx.byCode[code]
}

// Deduplicate applies a repeats policy to a set of same-code course
// instances, collapsing retakes to the first, last, or leaving all of
// them (spec.md §4.4 "student.courses" source resolution).
func Deduplicate(courses []Course, policy Repeats) []Course {
	if policy == RepeatsAll || len(courses) == 0 {
		return courses
	}

	byCode := make(map[string][]Course)
	var order []string
	for _, c := range courses {
		code := c.Code()
		if _, seen := byCode[code]; !seen {
			order = append(order, code)
		}
		byCode[code] = append(byCode[code], c)
	}

	out := make([]Course, 0, len(order))
	for _, code := range order {
		group := byCode[code]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Term.Before(group[j].Term)
		})
		switch policy {
		case RepeatsFirst:
			out = append(out, group[0])
		case RepeatsLast:
			out = append(out, group[len(group)-1])
		default:
			out = append(out, group...)
		}
	}
	return out
}
