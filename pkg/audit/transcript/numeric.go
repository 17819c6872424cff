package transcript

import (
	"github.com/shopspring/decimal"

	"github.com/coursepath/auditengine/pkg/audit/grade"
)

// gradeOrdinal exposes a grade's declaration-order position as its
// clause-comparable number: the grade.Grade enum is already ordered by
// academic precedence (spec.md §4.1 "grades compare by ordered point
// value, not by letter"), so the ordinal itself is monotonic with point
// value for the graded letter range the Course-rule minimum-grade
// filter actually compares.
func gradeOrdinal(g grade.Grade) decimal.Decimal {
	return decimal.NewFromInt(int64(g))
}

func intToDecimal(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
