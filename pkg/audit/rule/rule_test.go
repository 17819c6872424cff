package rule

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/coursepath/auditengine/pkg/audit/claims"
	"github.com/coursepath/auditengine/pkg/audit/context"
	"github.com/coursepath/auditengine/pkg/audit/core"
	"github.com/coursepath/auditengine/pkg/audit/exception"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// newTestContext builds a bare core.Context over courses, with no
// exceptions and no multicountable policy, for exercising rule
// Solutions/Audit in isolation.
func newTestContext(t *testing.T, courses []transcript.Course) core.Context {
	t.Helper()
	idx := transcript.NewIndex(courses)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return context.New(idx, nil, exception.Empty(), claims.Table(nil), nil, logger)
}
