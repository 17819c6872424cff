// Package rule implements the Course, Count, From, Requirement,
// Reference, and Assertion rule nodes (spec.md §4.4, §4.5) as frozen,
// shared tagged variants with one Go type per phase: each node kind has
// a Rule struct, a Solution struct, and a Result struct, rather than a
// class hierarchy (spec.md §9).
package rule

import (
	"github.com/shopspring/decimal"

	"github.com/coursepath/auditengine/pkg/audit/path"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

func baseMap(p path.Path, typ string, ok bool, rank, maxRank decimal.Decimal) map[string]any {
	return map[string]any{
		"path":     p.String(),
		"type":     typ,
		"ok":       ok,
		"rank":     rank.String(),
		"max_rank": maxRank.String(),
	}
}

func coursesToMaps(cs []transcript.Course) []map[string]any {
	out := make([]map[string]any, len(cs))
	for i, c := range cs {
		out[i] = map[string]any{
			"clbid": c.CLBID,
			"code":  c.Code(),
		}
	}
	return out
}
