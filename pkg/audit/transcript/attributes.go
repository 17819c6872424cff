package transcript

import "github.com/coursepath/auditengine/pkg/audit/clause"

// Attribute implements clause.AttributeSource, letting Course filters
// and where-clauses address any transcript field by name (spec.md §4.1).
func (c Course) Attribute(key string) (clause.Value, bool) {
	switch key {
	case "clbid":
		return clause.String(c.CLBID), true
	case "code":
		return clause.String(c.Code()), true
	case "subject":
		return clause.String(c.Subject), true
	case "number":
		return clause.String(c.Number), true
	case "shorthand":
		return clause.String(c.Shorthand), true
	case "credits":
		return clause.Number(c.Credits), true
	case "grade":
		return clause.Number(gradeOrdinal(c.Grade)), true
	case "grade_option":
		return clause.String(string(c.GradeOption)), true
	case "in_progress":
		return clause.Bool(c.InProgress), true
	case "attempted":
		return clause.Bool(c.Attempted), true
	case "earned":
		return clause.Bool(c.Earned), true
	case "year":
		return clause.Number(intToDecimal(c.Term.Year)), true
	case "gereqs":
		return clause.StringSequence(c.GeReqs...), true
	case "attributes":
		return clause.StringSequence(c.Attributes...), true
	case "source":
		return clause.String(string(c.Source)), true
	default:
		return clause.Null(), false
	}
}
