// Package spec defines the JSON-shaped object graph described by
// spec.md §6 "External Interfaces": the already-parsed representation
// a loader collaborator would hand to rule.Build. No YAML/JSON
// decoding logic beyond encoding/json unmarshalling of these structs
// lives here; semantic validation happens in pkg/audit/rule.
package spec

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// AreaSpec is the top-level specification for one area of study.
type AreaSpec struct {
	Name           string                     `json:"name"`
	Type           string                     `json:"type"`
	Code           string                     `json:"code"`
	Degree         string                     `json:"degree,omitempty"`
	Result         RuleSpec                   `json:"result"`
	Requirements   map[string]RequirementSpec `json:"requirements,omitempty"`
	Emphases       map[string]AreaSpec        `json:"emphases,omitempty"`
	Limit          []LimitSpec                `json:"limit,omitempty"`
	Multicountable []MulticountableSpec       `json:"multicountable,omitempty"`
	Attributes     map[string][]string        `json:"attributes,omitempty"`
}

// RequirementSpec is a named requirement body (spec.md §6).
type RequirementSpec struct {
	Message          *string   `json:"message,omitempty"`
	RegistrarAudited bool      `json:"registrar_audited,omitempty"`
	InterviewAudited bool      `json:"interview_audited,omitempty"`
	Override         bool      `json:"override,omitempty"`
	InGPA            bool      `json:"in_gpa,omitempty"`
	Contract         bool      `json:"contract,omitempty"`
	Result           *RuleSpec `json:"result,omitempty"`
}

// CountSpec is the rule's "count" field, either a literal non-negative
// integer or the sentinels "all"/"any".
type CountSpec struct {
	Raw string
	N   int
}

func (c *CountSpec) UnmarshalJSON(data []byte) error {
	var asInt int
	if err := json.Unmarshal(data, &asInt); err == nil {
		c.Raw = ""
		c.N = asInt
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err != nil || (asString != "all" && asString != "any") {
		return errors.New("spec: count must be an integer or \"all\"/\"any\"")
	}
	c.Raw = asString
	return nil
}

// RuleSpec is the tagged-union JSON shape of one rule node (spec.md
// §6): exactly one of its "kind" groups of fields should be populated.
// rule.Build rejects a spec with no kind; when several kinds are set it
// builds the first one in its own check order and ignores the rest.
type RuleSpec struct {
	// Course
	Course           *string `json:"course,omitempty"`
	Grade            *string `json:"grade,omitempty"`
	GradeOption      *string `json:"grade_option,omitempty"`
	Hidden           bool    `json:"hidden,omitempty"`
	IncludingClaimed bool    `json:"including_claimed,omitempty"`
	APIBSource       *string `json:"ap_ib_source,omitempty"`

	// All/Any/Both/Either sugar over Count
	All    []RuleSpec `json:"all,omitempty"`
	Any    []RuleSpec `json:"any,omitempty"`
	Both   []RuleSpec `json:"both,omitempty"`
	Either []RuleSpec `json:"either,omitempty"`

	// Count
	Count  *CountSpec      `json:"count,omitempty"`
	Of     []RuleSpec      `json:"of,omitempty"`
	AtMost bool            `json:"at_most,omitempty"`
	Audit  []AssertionSpec `json:"audit,omitempty"`

	// From
	From             string          `json:"from,omitempty"`
	Requirements     []string        `json:"requirements,omitempty"`
	Repeats          string          `json:"repeats,omitempty"`
	Where            *ClauseSpec     `json:"where,omitempty"`
	Assert           *AssertionSpec  `json:"assert,omitempty"`
	FromAllowClaimed bool            `json:"allow_claimed,omitempty"`
	Claim            *bool           `json:"claim,omitempty"`
	Limit            []LimitSpec     `json:"limit,omitempty"`

	// Reference
	Requirement *string `json:"requirement,omitempty"`
}

// AssertionSpec is a clause over an aggregation function (spec.md §4.2).
type AssertionSpec struct {
	Aggregation string      `json:"aggregation"`
	Where       *ClauseSpec `json:"where,omitempty"`
	Op          string      `json:"op"`
	Expected    ValueSpec   `json:"expected"`
}

// ClauseSpec is the tagged-union JSON shape of a clause (spec.md §4.1):
// either {key, op, expected} or {and|or, children}.
type ClauseSpec struct {
	Key      string       `json:"key,omitempty"`
	Op       string       `json:"op,omitempty"`
	Expected ValueSpec    `json:"expected,omitempty"`
	And      []ClauseSpec `json:"and,omitempty"`
	Or       []ClauseSpec `json:"or,omitempty"`
}

// ValueSpec is a raw JSON scalar or array, resolved into a clause.Value
// by rule.Build.
type ValueSpec struct {
	Raw any
}

func (v *ValueSpec) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &v.Raw)
}

func (v ValueSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Raw)
}

// LimitSpec restricts how many matching courses may be drawn from a
// tagged subset of the transcript (spec.md §4.6).
type LimitSpec struct {
	At  ClauseSpec `json:"at"`
	Max int        `json:"max"`
}

// MulticountableSpec permits a course (or "*") to be claimed jointly by
// every pair of the listed paths (spec.md §4.3 glossary).
type MulticountableSpec struct {
	Course string     `json:"course"`
	Paths  [][]string `json:"paths"`
}
