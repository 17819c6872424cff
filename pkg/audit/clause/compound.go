package clause

import "github.com/shopspring/decimal"

// BoolOp combines child clauses.
type BoolOp string

const (
	And BoolOp = "and"
	Or  BoolOp = "or"
)

// Compound combines clauses with and/or, evaluated short-circuit
// (spec.md §4.1).
type Compound struct {
	Op       BoolOp
	Children []Clause
}

var _ Clause = Compound{}

// Evaluate implements Clause, short-circuiting on the first
// determining child.
func (c Compound) Evaluate(src AttributeSource) (bool, error) {
	if len(c.Children) == 0 {
		return c.Op == And, nil
	}
	for _, child := range c.Children {
		ok, err := child.Evaluate(src)
		if err != nil {
			return false, err
		}
		if c.Op == Or && ok {
			return true, nil
		}
		if c.Op == And && !ok {
			return false, nil
		}
	}
	return c.Op == And, nil
}

// Rank implements Clause. And takes the weakest child (the binding
// constraint); Or takes the strongest (the closest path to success).
// This is not specified verbatim by spec.md §4.1 (which defines Rank
// for single clauses only) but keeps Rank monotonic and bounded for
// compound clauses used inside audit-clause aggregation.
func (c Compound) Rank(src AttributeSource) decimal.Decimal {
	if len(c.Children) == 0 {
		return decimal.NewFromInt(1)
	}
	best := c.Children[0].Rank(src)
	worst := best
	for _, child := range c.Children[1:] {
		r := child.Rank(src)
		if r.GreaterThan(best) {
			best = r
		}
		if r.LessThan(worst) {
			worst = r
		}
	}
	if c.Op == Or {
		return best
	}
	return worst
}
