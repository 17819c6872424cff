// Package areapointer defines the declared-area-of-study records that
// appear on a student's record alongside their transcript (spec.md §3).
package areapointer

import "github.com/shopspring/decimal"

// Kind distinguishes the flavor of a declared area of study.
type Kind string

const (
	Major         Kind = "major"
	Concentration Kind = "concentration"
	Emphasis      Kind = "emphasis"
	Degree        Kind = "degree"
)

// Pointer is a single declared area of study on a student's record.
type Pointer struct {
	Code       string
	Status     string
	Kind       Kind
	Name       string
	Degree     string
	Department *string
	GPA        *decimal.Decimal
}
