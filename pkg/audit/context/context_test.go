package context

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coursepath/auditengine/pkg/audit/claims"
	"github.com/coursepath/auditengine/pkg/audit/exception"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

func TestNewFingerprintStableForSameTranscript(t *testing.T) {
	courses := []transcript.Course{{CLBID: "1"}, {CLBID: "2"}}
	a := New(transcript.NewIndex(courses), nil, exception.Empty(), claims.Table(nil), nil, nil)
	b := New(transcript.NewIndex(courses), nil, exception.Empty(), claims.Table(nil), nil, nil)
	require.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestNewFingerprintDiffersForDifferentTranscript(t *testing.T) {
	a := New(transcript.NewIndex([]transcript.Course{{CLBID: "1"}}), nil, exception.Empty(), claims.Table(nil), nil, nil)
	b := New(transcript.NewIndex([]transcript.Course{{CLBID: "1"}, {CLBID: "2"}}), nil, exception.Empty(), claims.Table(nil), nil, nil)
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestRequirementLookupMiss(t *testing.T) {
	c := New(transcript.NewIndex(nil), nil, exception.Empty(), claims.Table(nil), nil, nil)
	_, ok := c.Requirement("core")
	require.False(t, ok)
}

func TestSetLastResultThenLastResult(t *testing.T) {
	c := New(transcript.NewIndex(nil), nil, exception.Empty(), claims.Table(nil), nil, nil)
	_, ok := c.LastResult("core")
	require.False(t, ok)

	c.SetLastResult("core", nil)
	r, ok := c.LastResult("core")
	require.True(t, ok)
	require.Nil(t, r)
}

func TestNewDefaultsNilLogger(t *testing.T) {
	c := New(transcript.NewIndex(nil), nil, exception.Empty(), claims.Table(nil), nil, nil)
	require.NotNil(t, c.Logger())
}
