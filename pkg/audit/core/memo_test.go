package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coursepath/auditengine/pkg/audit/path"
	"github.com/coursepath/auditengine/pkg/audit/transcript"
)

func TestMemoPotentialMissThenHit(t *testing.T) {
	m := NewMemo()
	p := path.Root().Child(".count")

	_, ok := m.Potential(p, 42)
	require.False(t, ok)

	m.SetPotential(p, 42, true)
	v, ok := m.Potential(p, 42)
	require.True(t, ok)
	require.True(t, v)
}

func TestMemoPotentialKeyedByFingerprint(t *testing.T) {
	m := NewMemo()
	p := path.Root().Child(".count")

	m.SetPotential(p, 1, true)
	_, ok := m.Potential(p, 2)
	require.False(t, ok, "a different transcript fingerprint must miss the cache")
}

func TestMemoPotentialKeyedByPath(t *testing.T) {
	m := NewMemo()
	m.SetPotential(path.Root().Child(".count"), 1, true)
	_, ok := m.Potential(path.Root().Child(".other"), 1)
	require.False(t, ok, "a different rule path must miss the cache")
}

func TestMemoMatches(t *testing.T) {
	m := NewMemo()
	p := path.Root().Child("*CSCI 251")
	want := []transcript.Course{{CLBID: "1"}}

	_, ok := m.Matches(p, 7)
	require.False(t, ok)

	m.SetMatches(p, 7, want)
	got, ok := m.Matches(p, 7)
	require.True(t, ok)
	require.Equal(t, want, got)
}
