package rule

import (
	"github.com/shopspring/decimal"

	"github.com/coursepath/auditengine/pkg/audit/clause"
	"github.com/coursepath/auditengine/pkg/audit/path"
)

// valueFromAny converts a decoded JSON scalar/array (spec.ValueSpec.Raw)
// into the clause package's tagged Value union.
func valueFromAny(raw any, p path.Path) (clause.Value, error) {
	switch v := raw.(type) {
	case nil:
		return clause.Null(), nil
	case string:
		return clause.String(v), nil
	case bool:
		return clause.Bool(v), nil
	case float64:
		return clause.Number(decimal.NewFromFloat(v)), nil
	case []any:
		vs := make([]clause.Value, len(v))
		for i, e := range v {
			built, err := valueFromAny(e, p)
			if err != nil {
				return clause.Value{}, err
			}
			vs[i] = built
		}
		return clause.Sequence(vs...), nil
	default:
		return clause.Value{}, specErr(p, "unsupported clause value type %T", raw)
	}
}
