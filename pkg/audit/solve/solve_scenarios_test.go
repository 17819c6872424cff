package solve_test

import (
	"github.com/shopspring/decimal"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/coursepath/auditengine/pkg/audit/claims"
	"github.com/coursepath/auditengine/pkg/audit/context"
	"github.com/coursepath/auditengine/pkg/audit/core"
	"github.com/coursepath/auditengine/pkg/audit/exception"
	"github.com/coursepath/auditengine/pkg/audit/grade"
	"github.com/coursepath/auditengine/pkg/audit/rule"
	"github.com/coursepath/auditengine/pkg/audit/solve"
	"github.com/coursepath/auditengine/pkg/audit/spec"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// majorAreaSpec builds an area whose result requires the declared DEPT
// 123 course plus a sibling "credits outside the major" From-based
// assertion. The credit threshold a caller wires here is the degree
// variant's own configuration (spec.md §8 scenarios 1-3: the combined
// double-major variant expects fewer outside credits than either major
// audited alone).
func majorAreaSpec(code string, expectedOutsideCredits int64) spec.AreaSpec {
	dept := "DEPT 123"
	expected := float64(expectedOutsideCredits)
	return spec.AreaSpec{
		Name: code,
		Code: code,
		Result: spec.RuleSpec{
			All: []spec.RuleSpec{
				{Course: &dept},
				{
					From: "student.courses",
					Where: &spec.ClauseSpec{
						Key: "subject", Op: "!=", Expected: spec.ValueSpec{Raw: "DEPT"},
					},
					Assert: &spec.AssertionSpec{
						Aggregation: "sum(credits)",
						Op:          ">=",
						Expected:    spec.ValueSpec{Raw: expected},
					},
				},
			},
		},
	}
}

func doubleMajorTranscript() []transcript.Course {
	courses := []transcript.Course{
		{CLBID: "0", Subject: "DEPT", Number: "123", Credits: decimal.NewFromInt(3)},
	}
	for i := 1; i <= 7; i++ {
		courses = append(courses, transcript.Course{
			CLBID:   string(rune('a' + i)),
			Subject: "OUT",
			Number:  "10" + string(rune('0'+i)),
			Credits: decimal.NewFromInt(3),
		})
	}
	return courses
}

func auditArea(area spec.AreaSpec, courses []transcript.Course) (bool, error) {
	built, err := rule.Build(area)
	if err != nil {
		return false, err
	}
	driver, err := solve.New(built)
	if err != nil {
		return false, err
	}
	result, err := driver.Audit(courses)
	if err != nil {
		return false, err
	}
	return result.Ok(), nil
}

var _ = Describe("double-major credits-outside-the-major assertion", func() {
	courses := doubleMajorTranscript()

	It("is satisfied at the combined double-major threshold of 18", func() {
		ok, err := auditArea(majorAreaSpec("140-double", 18), courses)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("is satisfied by studio art alone at a threshold of 21", func() {
		ok, err := auditArea(majorAreaSpec("140", 21), courses)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("is satisfied by art history alone at a threshold of 21", func() {
		ok, err := auditArea(majorAreaSpec("135", 21), courses)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("fails a threshold stricter than the available outside credits", func() {
		ok, err := auditArea(majorAreaSpec("135-strict", 22), courses)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})

func spmTranscript() []transcript.Course {
	return []transcript.Course{
		{CLBID: "1", Subject: "ARTS", Number: "101", Credits: decimal.NewFromInt(3), GeReqs: []string{"SPM"}},
		{CLBID: "2", Subject: "ARTS", Number: "102", Credits: decimal.NewFromInt(3), GeReqs: []string{"SPM"}},
		{CLBID: "3", Subject: "ARTS", Number: "103", Credits: decimal.NewFromInt(3), GeReqs: []string{"SPM"}},
	}
}

func fromSPMRuleSpec(op string, n float64) spec.AreaSpec {
	return spec.AreaSpec{
		Name: "from-spm",
		Result: spec.RuleSpec{
			From: "student.courses",
			Where: &spec.ClauseSpec{
				Key: "gereqs", Op: "in", Expected: spec.ValueSpec{Raw: []any{"SPM"}},
			},
			Assert: &spec.AssertionSpec{
				Aggregation: "count(courses)",
				Op:          op,
				Expected:    spec.ValueSpec{Raw: n},
			},
		},
	}
}

// buildFromContext builds the From rule's context.Context directly
// (bypassing the limit/transcript family the solver driver wraps
// around it) so a test can drive Solutions() itself and count the
// full solution family, not just the driver's first-ok result.
func buildFromContext(courses []transcript.Course) core.Context {
	return context.New(transcript.NewIndex(courses), nil, exception.Empty(), claims.Table(nil), nil, nil)
}

// countSolutions drains rule's solution iterator and returns every
// yielded solution's matched-item length, in enumeration order. Claims
// are reset before each audit, as the solver driver does.
func countSolutions(r core.Rule, ctx core.Context) []int {
	var lens []int
	it := r.Solutions(ctx)
	for {
		sol, ok := it.Next()
		if !ok {
			break
		}
		ctx.Registry().Reset()
		result, err := sol.Audit(ctx)
		Expect(err).NotTo(HaveOccurred())
		lens = append(lens, len(result.Matched()))
	}
	return lens
}

var _ = Describe("From-rule subset selection over three SPM courses", func() {
	// spec.md §4.4 and §8 scenarios 4-7: the From rule yields one
	// solution per subset (of any size, in increasing size order) whose
	// aggregate satisfies the assertion, not a single chosen winner.

	It("count = 1 yields one solution per single-course subset", func() {
		built, err := rule.Build(fromSPMRuleSpec("=", 1))
		Expect(err).NotTo(HaveOccurred())
		ctx := buildFromContext(spmTranscript())

		lens := countSolutions(built.Result, ctx)
		Expect(lens).To(HaveLen(3))
		for _, n := range lens {
			Expect(n).To(Equal(1))
		}
	})

	It("count < 3 yields one solution per subset of size 0, 1, or 2", func() {
		built, err := rule.Build(fromSPMRuleSpec("<", 3))
		Expect(err).NotTo(HaveOccurred())
		ctx := buildFromContext(spmTranscript())

		lens := countSolutions(built.Result, ctx)
		Expect(lens).To(HaveLen(7))
	})

	It("count > 1 yields one solution per subset of size 2, plus the full size-3 subset", func() {
		built, err := rule.Build(fromSPMRuleSpec(">", 1))
		Expect(err).NotTo(HaveOccurred())
		ctx := buildFromContext(spmTranscript())

		lens := countSolutions(built.Result, ctx)
		Expect(lens).To(Equal([]int{2, 2, 2, 3}))
	})

	It("an unsatisfiable filter yields exactly one failing solution with empty output", func() {
		area := fromSPMRuleSpec(">=", 1)
		area.Result.Where = &spec.ClauseSpec{Key: "subject", Op: "=", Expected: spec.ValueSpec{Raw: "NOPE"}}

		built, err := rule.Build(area)
		Expect(err).NotTo(HaveOccurred())
		driver, err := solve.New(built)
		Expect(err).NotTo(HaveOccurred())

		result, err := driver.Audit(spmTranscript())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Ok()).To(BeFalse())
		Expect(result.Matched()).To(BeEmpty())
		Expect(result.Rank().IsZero()).To(BeTrue())
	})
})

var _ = Describe("boundary behaviours", func() {
	It("a count of 0 is always ok", func() {
		area := spec.AreaSpec{
			Name:   "empty-count",
			Result: spec.RuleSpec{Count: &spec.CountSpec{N: 0}, Of: nil},
		}
		built, err := rule.Build(area)
		Expect(err).NotTo(HaveOccurred())
		driver, err := solve.New(built)
		Expect(err).NotTo(HaveOccurred())

		result, err := driver.Audit(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Ok()).To(BeTrue())
	})

	It("grade C- fails >= C but passes >= D", func() {
		course := "DEPT 123"
		minC := "C"
		area := spec.AreaSpec{
			Name:   "grade-boundary",
			Result: spec.RuleSpec{Course: &course, Grade: &minC},
		}
		built, err := rule.Build(area)
		Expect(err).NotTo(HaveOccurred())
		driver, err := solve.New(built)
		Expect(err).NotTo(HaveOccurred())

		cMinus := []transcript.Course{{CLBID: "1", Subject: "DEPT", Number: "123", Grade: mustParseGrade("C-")}}
		result, err := driver.Audit(cMinus)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Ok()).To(BeFalse())

		minD := "D"
		area.Result.Grade = &minD
		built, err = rule.Build(area)
		Expect(err).NotTo(HaveOccurred())
		driver, err = solve.New(built)
		Expect(err).NotTo(HaveOccurred())

		result, err = driver.Audit(cMinus)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Ok()).To(BeTrue())
	})
})

func mustParseGrade(letter string) grade.Grade {
	g, ok := grade.Parse(letter)
	if !ok {
		panic("unknown grade letter: " + letter)
	}
	return g
}
