package assertion

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/coursepath/auditengine/pkg/audit/clause"
	"github.com/coursepath/auditengine/pkg/audit/decimalx"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// Aggregate reduces items per the named aggregation function.
func Aggregate(agg Aggregation, items []transcript.Course) (clause.Value, error) {
	switch agg {
	case CountCourses:
		return clause.Number(decimal.NewFromInt(int64(len(items)))), nil
	case CountDistinctCourses:
		seen := make(map[string]struct{}, len(items))
		for _, c := range items {
			seen[c.Code()] = struct{}{}
		}
		return clause.Number(decimal.NewFromInt(int64(len(seen)))), nil
	case SumCredits:
		credits := make([]decimal.Decimal, len(items))
		for i, c := range items {
			credits[i] = c.Credits
		}
		return clause.Number(decimalx.Sum(credits)), nil
	case AverageGrades:
		points := make([]decimal.Decimal, 0, len(items))
		for _, c := range items {
			points = append(points, c.Grade.Points())
		}
		return clause.Number(decimalx.Average(points)), nil
	case CountTerms:
		seen := make(map[transcript.Term]struct{}, len(items))
		for _, c := range items {
			seen[c.Term] = struct{}{}
		}
		return clause.Number(decimal.NewFromInt(int64(len(seen)))), nil
	default:
		return clause.Value{}, errors.Errorf("assertion: unrecognised aggregation function %q", agg)
	}
}
