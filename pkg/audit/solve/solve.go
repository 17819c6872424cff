// Package solve implements the §4.7 solver driver: iterate the limit
// set's restricted-transcript family, pull rule.Solutions lazily, and
// track the best-ranked Result, short-circuiting on the first ok.
package solve

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/coursepath/auditengine/pkg/audit/areapointer"
	"github.com/coursepath/auditengine/pkg/audit/claims"
	"github.com/coursepath/auditengine/pkg/audit/context"
	"github.com/coursepath/auditengine/pkg/audit/core"
	"github.com/coursepath/auditengine/pkg/audit/exception"
	"github.com/coursepath/auditengine/pkg/audit/limit"
	"github.com/coursepath/auditengine/pkg/audit/rule"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// Tracer observes solver progress, mirroring the teacher resolver's
// debugWriter-wrapped logrus.FieldLogger.
type Tracer interface {
	Trace(format string, args ...any)
}

// LoggingTracer routes Trace calls through a logrus.FieldLogger at
// debug level.
type LoggingTracer struct {
	Logger logrus.FieldLogger
}

func (t LoggingTracer) Trace(format string, args ...any) {
	if t.Logger == nil {
		return
	}
	t.Logger.Debugf(format, args...)
}

type noopTracer struct{}

func (noopTracer) Trace(string, ...any) {}

// Driver audits transcripts against one built area rule tree.
type Driver struct {
	result         core.Rule
	requirements   map[string]core.Rule
	logger         logrus.FieldLogger
	tracer         Tracer
	pointers       []areapointer.Pointer
	exceptions     exception.Set
	multicountable claims.Table
	limits         []limit.Limit
}

// Option configures a Driver (mirrors the teacher resolver's
// solve.WithInput/solve.WithTracer functional-options constructor).
type Option func(*Driver)

func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Driver) { d.logger = l }
}

func WithTracer(t Tracer) Option {
	return func(d *Driver) { d.tracer = t }
}

func WithPointers(ps []areapointer.Pointer) Option {
	return func(d *Driver) { d.pointers = ps }
}

func WithExceptions(s exception.Set) Option {
	return func(d *Driver) { d.exceptions = s }
}

func WithMulticountable(t claims.Table) Option {
	return func(d *Driver) { d.multicountable = t }
}

func WithLimits(ls []limit.Limit) Option {
	return func(d *Driver) { d.limits = ls }
}

// New builds a Driver for an already-built area rule tree. Per
// spec.md §7, New fails fast and never enumerates on a nil built area.
func New(built *rule.Built, opts ...Option) (*Driver, error) {
	if built == nil || built.Result == nil {
		return nil, errors.New("solve: built area has no result rule")
	}
	d := &Driver{
		result:       built.Result,
		requirements: built.Requirements,
		logger:       logrus.New(),
		tracer:       noopTracer{},
		exceptions:   exception.Empty(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Audit runs the §4.7 driver loop over transcript, across every
// restricted transcript in the limit-set family, returning the
// highest-ranked Result found (or the first ok Result, whichever comes
// first).
func (d *Driver) Audit(courses []transcript.Course) (core.Result, error) {
	family, err := limit.Family(courses, d.limits)
	if err != nil {
		return nil, errors.Wrap(err, "solve: building limit-set family")
	}

	var best core.Result
	for fi, idx := range family {
		d.tracer.Trace("solve: restricted transcript %d/%d (%d courses)", fi+1, len(family), len(idx.All()))
		ctx := context.New(idx, d.pointers, d.exceptions, d.multicountable, d.requirements, d.logger)

		it := d.result.Solutions(ctx)
		for {
			sol, ok := it.Next()
			if !ok {
				break
			}
			ctx.Registry().Reset()
			r, err := sol.Audit(ctx)
			if err != nil {
				return nil, errors.Wrap(err, "solve: auditing candidate solution")
			}
			d.tracer.Trace("solve: candidate ok=%v rank=%s/%s", r.Ok(), r.Rank(), r.MaxRank())
			if best == nil || r.Rank().GreaterThan(best.Rank()) {
				best = r
			}
			if r.Ok() {
				return best, nil
			}
		}
	}
	return best, nil
}
