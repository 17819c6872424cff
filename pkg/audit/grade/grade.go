// Package grade implements the ordered letter-grade enum used by course
// instances and Course-rule minimum-grade filters (spec.md §3, §4.4).
//
// Grades compare by academic precedence, not by letter or point value
// alone: "C-" must fail a ">= C" filter yet pass a ">= D" filter (spec.md
// §8 boundary behaviour), which rules out a naive lexicographic string
// compare ("C-" < "C" lexicographically, but that says nothing about
// academic precedence once "A+" and "D-" enter the picture).
package grade

import "github.com/shopspring/decimal"

// Grade is an ordered academic letter grade (or pass/fail/in-progress
// marker). Among the letter grades F through A+, higher values represent
// stronger academic performance; the Pass/NoPass/InProgress markers are
// declared after A+.
type Grade int

const (
	F Grade = iota
	DMinus
	D
	DPlus
	CMinus
	C
	CPlus
	BMinus
	B
	BPlus
	AMinus
	A
	APlus
	Pass
	NoPass
	InProgress
)

var names = map[Grade]string{
	F:          "F",
	DMinus:     "D-",
	D:          "D",
	DPlus:      "D+",
	CMinus:     "C-",
	C:          "C",
	CPlus:      "C+",
	BMinus:     "B-",
	B:          "B",
	BPlus:      "B+",
	AMinus:     "A-",
	A:          "A",
	APlus:      "A+",
	Pass:       "P",
	NoPass:     "NP",
	InProgress: "IP",
}

var byName = func() map[string]Grade {
	m := make(map[string]Grade, len(names))
	for g, n := range names {
		m[n] = g
	}
	return m
}()

// points holds grade-point values for the traditional letter grades;
// Pass/NoPass/InProgress carry no grade points.
var points = map[Grade]string{
	F:      "0.0",
	DMinus: "0.7",
	D:      "1.0",
	DPlus:  "1.3",
	CMinus: "1.7",
	C:      "2.0",
	CPlus:  "2.3",
	BMinus: "2.7",
	B:      "3.0",
	BPlus:  "3.3",
	AMinus: "3.7",
	A:      "4.0",
	APlus:  "4.0",
}

// Parse resolves a letter grade string to a Grade. The second return
// value is false for unrecognised input.
func Parse(letter string) (Grade, bool) {
	g, ok := byName[letter]
	return g, ok
}

// String returns the conventional letter representation.
func (g Grade) String() string {
	if n, ok := names[g]; ok {
		return n
	}
	return "?"
}

// Points returns the grade-point value used by average(grades)
// assertions. Pass/NoPass/InProgress contribute zero.
func (g Grade) Points() decimal.Decimal {
	if s, ok := points[g]; ok {
		d, _ := decimal.NewFromString(s)
		return d
	}
	return decimal.Zero
}

// Compare returns -1, 0, or 1 as g is academically weaker than, equal
// to, or stronger than other, ordered by the enum's declaration order.
func (g Grade) Compare(other Grade) int {
	switch {
	case g < other:
		return -1
	case g > other:
		return 1
	default:
		return 0
	}
}

// GE reports whether g satisfies a "grade >= other" filter. A
// Pass/NoPass/InProgress marker is checked against a letter-grade
// minimum by its grade points, which are zero.
func (g Grade) GE(other Grade) bool {
	if g > APlus && other <= APlus {
		return g.Points().GreaterThanOrEqual(other.Points())
	}
	return g.Compare(other) >= 0
}
