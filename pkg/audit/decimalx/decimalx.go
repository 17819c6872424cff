// Package decimalx collects the fixed-point decimal helpers shared by
// credits, GPA, and aggregate comparisons across the audit engine.
//
// Credits and grade-point averages are specified as fixed-point decimals
// (spec.md §3, §4.1) rather than floats, so a transcript with many small
// credit fractions (0.25, 0.33...) never accumulates binary-float error
// into a wrong assertion verdict.
package decimalx

import "github.com/shopspring/decimal"

// Zero is the additive identity, exported so callers never need to spell
// decimal.NewFromInt(0) at call sites.
var Zero = decimal.Zero

// Sum adds a slice of decimals left to right.
func Sum(values []decimal.Decimal) decimal.Decimal {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Average returns the arithmetic mean of values, or Zero if values is empty.
func Average(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return Zero
	}
	return Sum(values).Div(decimal.NewFromInt(int64(len(values))))
}

// Clamp clamps v into [lo, hi].
func Clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
