// Package transcript defines the course instance type and the matcher /
// index operations over a student's transcript (spec.md §3, §4
// component 3).
package transcript

import (
	"github.com/shopspring/decimal"

	"github.com/coursepath/auditengine/pkg/audit/grade"
)

// GradeOption distinguishes a graded enrollment from a pass/fail one.
type GradeOption string

const (
	Graded   GradeOption = "graded"
	PassFail GradeOption = "s/u"
)

// Source marks where credit for a course instance originated.
type Source string

const (
	Standard Source = ""
	AP       Source = "ap"
	IB       Source = "ib"
	Transfer Source = "transfer"
)

// Term identifies an academic term by year and a sortable season ordinal
// so terms compare chronologically rather than lexicographically
// ("2020-Fall" > "2020-Spring" must hold even though strings disagree).
type Term struct {
	Year   int
	Season int // 0=Winter, 1=Spring, 2=Summer, 3=Fall
}

// Before reports whether t chronologically precedes other.
func (t Term) Before(other Term) bool {
	if t.Year != other.Year {
		return t.Year < other.Year
	}
	return t.Season < other.Season
}

// Equal reports whether t and other name the same term.
func (t Term) Equal(other Term) bool {
	return t.Year == other.Year && t.Season == other.Season
}

// Course is an immutable transcript entry. Once constructed a Course is
// never mutated; the transcript itself is an ordered, stable-clbid
// sequence of Courses (spec.md §3).
type Course struct {
	CLBID       string
	Subject     string
	Number      string
	Shorthand   string
	Credits     decimal.Decimal
	Grade       grade.Grade
	GradeOption GradeOption
	InProgress  bool
	Attempted   bool
	Earned      bool
	Term        Term
	GeReqs      []string
	Attributes  []string
	Source      Source
}

// Code returns the "SUBJECT NUMBER" course code, e.g. "CSCI 251".
func (c Course) Code() string {
	if c.Subject == "" {
		return c.Number
	}
	return c.Subject + " " + c.Number
}

// HasGeReq reports whether tag is one of this course's general-education tags.
func (c Course) HasGeReq(tag string) bool {
	for _, t := range c.GeReqs {
		if t == tag {
			return true
		}
	}
	return false
}

// HasAttribute reports whether attr is one of this course's free-form attributes.
func (c Course) HasAttribute(attr string) bool {
	for _, a := range c.Attributes {
		if a == attr {
			return true
		}
	}
	return false
}
