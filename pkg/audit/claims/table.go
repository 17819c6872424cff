// Package claims implements the process-wide-per-audit claim registry
// and multicountable arbitration (spec.md §4.3).
package claims

import "github.com/coursepath/auditengine/pkg/audit/path"

// Entry permits a specific course (or "*" for any course) to be
// claimed jointly by every pair drawn from Paths.
type Entry struct {
	Course string
	Paths  []path.Path
}

// Table is the area-level multicountable permission table (spec.md
// glossary "Multicountable").
type Table []Entry

func containsPath(paths []path.Path, p path.Path) bool {
	for _, each := range paths {
		if each.Equal(p) {
			return true
		}
	}
	return false
}

// Permits reports whether a and b may both hold a claim on a course
// with the given code.
func (t Table) Permits(courseCode string, a, b path.Path) bool {
	for _, e := range t {
		if e.Course != "*" && e.Course != courseCode {
			continue
		}
		if containsPath(e.Paths, a) && containsPath(e.Paths, b) {
			return true
		}
	}
	return false
}
