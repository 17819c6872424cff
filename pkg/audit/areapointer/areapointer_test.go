package areapointer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/coursepath/auditengine/pkg/audit/clause"
)

func TestAttributeScalarFields(t *testing.T) {
	gpa := decimal.NewFromFloat(3.5)
	dept := "Art History"
	p := Pointer{Code: "ARTH-BA", Status: "active", Kind: Major, Name: "Art History", Degree: "BA", Department: &dept, GPA: &gpa}

	v, ok := p.Attribute("code")
	require.True(t, ok)
	require.Equal(t, clause.String("ARTH-BA"), v)

	v, ok = p.Attribute("kind")
	require.True(t, ok)
	require.Equal(t, clause.String("major"), v)

	v, ok = p.Attribute("department")
	require.True(t, ok)
	require.Equal(t, clause.String("Art History"), v)

	v, ok = p.Attribute("gpa")
	require.True(t, ok)
	require.Equal(t, clause.Number(gpa), v)
}

func TestAttributeNullWhenUnset(t *testing.T) {
	p := Pointer{Code: "ARTH-BA"}

	v, ok := p.Attribute("department")
	require.True(t, ok)
	require.Equal(t, clause.Null(), v)

	v, ok = p.Attribute("gpa")
	require.True(t, ok)
	require.Equal(t, clause.Null(), v)
}

func TestAttributeUnknownKey(t *testing.T) {
	p := Pointer{Code: "ARTH-BA"}
	_, ok := p.Attribute("nonsense")
	require.False(t, ok)
}
