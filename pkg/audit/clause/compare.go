package clause

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Operator is one of the clause comparison operators (spec.md §4.1).
type Operator string

const (
	LT    Operator = "<"
	LE    Operator = "<="
	GT    Operator = ">"
	GE    Operator = ">="
	EQ    Operator = "="
	NE    Operator = "!="
	In    Operator = "in"
	NotIn Operator = "not-in"
)

func isOrdering(op Operator) bool {
	return op == LT || op == LE || op == GT || op == GE
}

func stringSet(vs []Value) map[string]struct{} {
	set := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		set[v.stringify()] = struct{}{}
	}
	return set
}

func intersects(a, b []Value) bool {
	set := stringSet(a)
	for _, v := range b {
		if _, ok := set[v.stringify()]; ok {
			return true
		}
	}
	return false
}

func containsStringified(seq []Value, v Value) bool {
	needle := v.stringify()
	for _, each := range seq {
		if each.stringify() == needle {
			return true
		}
	}
	return false
}

// Compare evaluates "actual op expected" per spec.md §4.1's comparison
// semantics table: sequence/sequence intersection for ∈/∉, degrading
// "=" to "∈" (and "!=" to "∉") against a multi-element sequence operand,
// automatic stringification when exactly one side is a string, and
// false whenever exactly one side is null.
func Compare(actual Value, op Operator, expected Value) (bool, error) {
	aNull, eNull := actual.IsNull(), expected.IsNull()
	if aNull != eNull {
		return false, nil
	}
	if aNull && eNull {
		// "null is not equal to null here" — no operator treats two
		// nulls as satisfying a clause.
		return false, nil
	}

	aSeq, eSeq := actual.Kind == KindSequence, expected.Kind == KindSequence
	switch {
	case aSeq && eSeq:
		switch op {
		case In:
			return intersects(actual.Seq, expected.Seq), nil
		case NotIn:
			return !intersects(actual.Seq, expected.Seq), nil
		default:
			return false, errors.Errorf("clause: operator %q is not defined between two sequences", op)
		}
	case aSeq != eSeq:
		seq, scalar := actual, expected
		if !aSeq {
			seq, scalar = expected, actual
		}
		switch op {
		case In:
			return containsStringified(seq.Seq, scalar), nil
		case NotIn:
			return !containsStringified(seq.Seq, scalar), nil
		case EQ:
			if len(seq.Seq) == 1 {
				return Compare(seq.Seq[0], EQ, scalar)
			}
			return containsStringified(seq.Seq, scalar), nil
		case NE:
			if len(seq.Seq) == 1 {
				return Compare(seq.Seq[0], NE, scalar)
			}
			return !containsStringified(seq.Seq, scalar), nil
		default:
			return false, errors.Errorf("clause: operator %q is not defined between a sequence and a scalar", op)
		}
	default:
		return compareScalar(actual, op, expected)
	}
}

func compareScalar(a Value, op Operator, e Value) (bool, error) {
	// "if one side is a string and the other is not, the non-string
	// side is stringified."
	if a.Kind == KindString && e.Kind != KindString {
		e = String(e.stringify())
	} else if e.Kind == KindString && a.Kind != KindString {
		a = String(a.stringify())
	}

	switch op {
	case EQ:
		return a.equalScalar(e), nil
	case NE:
		return !a.equalScalar(e), nil
	case In:
		return a.equalScalar(e), nil
	case NotIn:
		return !a.equalScalar(e), nil
	case LT, LE, GT, GE:
		if a.Kind == KindString && e.Kind == KindString {
			return orderString(a.Str, op, e.Str), nil
		}
		if a.Kind == KindNumber && e.Kind == KindNumber {
			return orderNumber(a.Num, op, e.Num), nil
		}
		return false, errors.Errorf("clause: operator %q requires two comparable operands, got %v and %v", op, a, e)
	default:
		return false, errors.Errorf("clause: unknown operator %q", op)
	}
}

func orderString(a string, op Operator, b string) bool {
	switch op {
	case LT:
		return a < b
	case LE:
		return a <= b
	case GT:
		return a > b
	case GE:
		return a >= b
	}
	return false
}

func orderNumber(a decimal.Decimal, op Operator, b decimal.Decimal) bool {
	switch op {
	case LT:
		return a.LessThan(b)
	case LE:
		return a.LessThanOrEqual(b)
	case GT:
		return a.GreaterThan(b)
	case GE:
		return a.GreaterThanOrEqual(b)
	}
	return false
}
