package grade

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGradeBoundary(t *testing.T) {
	cMinus, ok := Parse("C-")
	require.True(t, ok)

	c, ok := Parse("C")
	require.True(t, ok)
	require.False(t, cMinus.GE(c), "C- must not satisfy a >= C filter")

	d, ok := Parse("D")
	require.True(t, ok)
	require.True(t, cMinus.GE(d), "C- must satisfy a >= D filter")
}

func TestGradeParseUnknown(t *testing.T) {
	_, ok := Parse("Q")
	require.False(t, ok)
}

func TestGradePointsAPlusEqualsA(t *testing.T) {
	require.True(t, APlus.Points().Equal(A.Points()))
}

func TestGradeStringRoundTrip(t *testing.T) {
	for letter := range byName {
		g, ok := Parse(letter)
		require.True(t, ok)
		require.Equal(t, letter, g.String())
	}
}
