package areapointer

import "github.com/coursepath/auditengine/pkg/audit/clause"

// Attribute implements clause.AttributeSource for area-pointer clauses
// (spec.md §4.1, §4.4 "student.areas" source).
func (p Pointer) Attribute(key string) (clause.Value, bool) {
	switch key {
	case "code":
		return clause.String(p.Code), true
	case "status":
		return clause.String(p.Status), true
	case "kind":
		return clause.String(string(p.Kind)), true
	case "name":
		return clause.String(p.Name), true
	case "degree":
		return clause.String(p.Degree), true
	case "department":
		if p.Department == nil {
			return clause.Null(), true
		}
		return clause.String(*p.Department), true
	case "gpa":
		if p.GPA == nil {
			return clause.Null(), true
		}
		return clause.Number(*p.GPA), true
	default:
		return clause.Null(), false
	}
}
