package clause

import "github.com/shopspring/decimal"

// Single is a clause comparing one attribute with one operator against
// one expected value (spec.md §4.1).
type Single struct {
	Key      string
	Op       Operator
	Expected Value
}

// NewSingle builds a single clause.
func NewSingle(key string, op Operator, expected Value) Single {
	return Single{Key: key, Op: op, Expected: expected}
}

var _ Clause = Single{}

func (s Single) actual(src AttributeSource) Value {
	v, ok := src.Attribute(s.Key)
	if !ok {
		return Null()
	}
	return v
}

// Evaluate implements Clause.
func (s Single) Evaluate(src AttributeSource) (bool, error) {
	return Compare(s.actual(src), s.Op, s.Expected)
}

// Rank implements Clause. A satisfied clause contributes 1; an
// unsatisfied quantitative clause (<, <=, >, >=) contributes
// actual/required clamped to [0, 1) when both sides are numbers.
func (s Single) Rank(src AttributeSource) decimal.Decimal {
	ok, err := s.Evaluate(src)
	if err == nil && ok {
		return decimal.NewFromInt(1)
	}
	if !isOrdering(s.Op) {
		return decimal.Zero
	}
	actual := s.actual(src)
	if actual.Kind != KindNumber || s.Expected.Kind != KindNumber || s.Expected.Num.IsZero() {
		return decimal.Zero
	}
	return clampProgress(actual.Num.Div(s.Expected.Num))
}
