// Package context implements core.Context: the immutable-per-audit
// bundle of transcript, area pointers, exceptions, and multicountable
// policy, plus the mutable claim registry (spec.md §4 component 5).
package context

import (
	"github.com/mitchellh/hashstructure"
	"github.com/sirupsen/logrus"

	"github.com/coursepath/auditengine/pkg/audit/areapointer"
	"github.com/coursepath/auditengine/pkg/audit/claims"
	"github.com/coursepath/auditengine/pkg/audit/core"
	"github.com/coursepath/auditengine/pkg/audit/exception"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

// Context is the concrete core.Context implementation.
type Context struct {
	transcript     *transcript.Index
	pointers       []areapointer.Pointer
	exceptions     exception.Set
	multicountable claims.Table
	registry       *claims.Registry
	logger         logrus.FieldLogger
	requirements   map[string]core.Rule
	lastResults    map[string]core.Result
	memo           *core.Memo
	fingerprint    uint64
}

var _ core.Context = (*Context)(nil)

// New builds a Context for one audit of one (possibly limit-restricted)
// transcript.
func New(
	idx *transcript.Index,
	pointers []areapointer.Pointer,
	exceptions exception.Set,
	multicountable claims.Table,
	requirements map[string]core.Rule,
	logger logrus.FieldLogger,
) *Context {
	if logger == nil {
		logger = logrus.New()
	}
	clbids := make([]string, 0, len(idx.All()))
	for _, c := range idx.All() {
		clbids = append(clbids, c.CLBID)
	}
	fingerprint, _ := hashstructure.Hash(clbids, nil)

	return &Context{
		transcript:     idx,
		pointers:       pointers,
		exceptions:     exceptions,
		multicountable: multicountable,
		registry:       claims.NewRegistry(multicountable),
		logger:         logger,
		requirements:   requirements,
		lastResults:    make(map[string]core.Result),
		memo:           core.NewMemo(),
		fingerprint:    fingerprint,
	}
}

func (c *Context) Transcript() *transcript.Index      { return c.transcript }
func (c *Context) Pointers() []areapointer.Pointer    { return c.pointers }
func (c *Context) Exceptions() exception.Set          { return c.exceptions }
func (c *Context) Multicountable() claims.Table       { return c.multicountable }
func (c *Context) Registry() *claims.Registry         { return c.registry }
func (c *Context) Logger() logrus.FieldLogger         { return c.logger }
func (c *Context) Memo() *core.Memo                   { return c.memo }
func (c *Context) Fingerprint() uint64                { return c.fingerprint }

func (c *Context) Requirement(name string) (core.Rule, bool) {
	r, ok := c.requirements[name]
	return r, ok
}

func (c *Context) LastResult(name string) (core.Result, bool) {
	r, ok := c.lastResults[name]
	return r, ok
}

func (c *Context) SetLastResult(name string, r core.Result) {
	c.lastResults[name] = r
}
