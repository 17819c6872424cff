// Package clause implements the boolean predicate language used by
// Course filters, From where-clauses, and Assertion comparisons
// (spec.md §4.1).
package clause

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind identifies which field of a Value is meaningful.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindSequence
)

// Value is the small tagged union every clause key resolves to: course,
// area-pointer, and aggregate attributes are all read through this type
// so a single comparison routine can serve every key.
type Value struct {
	Kind Kind
	Str  string
	Num  decimal.Decimal
	Bool bool
	Seq  []Value
}

// Null returns the null Value.
func Null() Value { return Value{Kind: KindNull} }

// String returns a string-typed Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number returns a number-typed Value.
func Number(d decimal.Decimal) Value { return Value{Kind: KindNumber, Num: d} }

// Bool returns a bool-typed Value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Sequence returns a sequence-typed Value.
func Sequence(vs ...Value) Value { return Value{Kind: KindSequence, Seq: vs} }

// StringSequence is a convenience constructor for tag/attribute sets.
func StringSequence(ss ...string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return Sequence(vs...)
}

// IsNull reports whether v is the null Value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// stringify renders v the way comparisons do when a non-string operand
// must be compared against a string, or an element must be compared for
// set intersection (spec.md §4.1: "both sides are sequences, ∈ is
// set-intersection-non-empty after stringification").
func (v Value) stringify() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num.String()
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNull:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (v Value) equalScalar(o Value) bool {
	switch {
	case v.Kind == KindString || o.Kind == KindString:
		return v.stringify() == o.stringify()
	case v.Kind == KindNumber && o.Kind == KindNumber:
		return v.Num.Equal(o.Num)
	case v.Kind == KindBool && o.Kind == KindBool:
		return v.Bool == o.Bool
	default:
		return v.stringify() == o.stringify()
	}
}
