package clause

import "github.com/shopspring/decimal"

// AttributeSource resolves a clause key (a course, area-pointer, or
// aggregate attribute name) to its Value. Course, Pointer, and assertion
// aggregate results all implement this so clauses can address any of
// them uniformly.
type AttributeSource interface {
	Attribute(key string) (Value, bool)
}

// Clause is a boolean predicate over an AttributeSource (spec.md §4.1).
type Clause interface {
	// Evaluate reports whether the clause is satisfied by src.
	Evaluate(src AttributeSource) (bool, error)
	// Rank returns bounded, monotonic progress information used by
	// assertion ranking: 1 when satisfied, otherwise a value in [0, 1)
	// for quantitative clauses, 0 otherwise.
	Rank(src AttributeSource) decimal.Decimal
}

// nearOne stands in for "the supremum of [0, 1), not quite 1" so an
// unsatisfied clause can never out-rank a satisfied one.
var nearOne = decimal.RequireFromString("0.999999999")

func clampProgress(ratio decimal.Decimal) decimal.Decimal {
	if ratio.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if ratio.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nearOne
	}
	return ratio
}
