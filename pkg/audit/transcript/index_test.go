package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexMatchCode(t *testing.T) {
	idx := NewIndex([]Course{
		{CLBID: "1", Subject: "CSCI", Number: "251"},
		{CLBID: "2", Subject: "CSCI", Number: "252"},
	})
	require.Len(t, idx.MatchCode("CSCI 251"), 1)
	require.Empty(t, idx.MatchCode("CSCI 999"))
	require.Len(t, idx.All(), 2)
}

func TestDeduplicateFirstKeepsEarliestTerm(t *testing.T) {
	courses := []Course{
		{CLBID: "1", Subject: "CSCI", Number: "251", Term: Term{Year: 2021, Season: 3}},
		{CLBID: "2", Subject: "CSCI", Number: "251", Term: Term{Year: 2020, Season: 1}},
	}
	out := Deduplicate(courses, RepeatsFirst)
	require.Len(t, out, 1)
	require.Equal(t, "2", out[0].CLBID)
}

func TestDeduplicateLastKeepsLatestTerm(t *testing.T) {
	courses := []Course{
		{CLBID: "1", Subject: "CSCI", Number: "251", Term: Term{Year: 2021, Season: 3}},
		{CLBID: "2", Subject: "CSCI", Number: "251", Term: Term{Year: 2020, Season: 1}},
	}
	out := Deduplicate(courses, RepeatsLast)
	require.Len(t, out, 1)
	require.Equal(t, "1", out[0].CLBID)
}

func TestDeduplicateAllKeepsEveryInstance(t *testing.T) {
	courses := []Course{
		{CLBID: "1", Subject: "CSCI", Number: "251"},
		{CLBID: "2", Subject: "CSCI", Number: "251"},
	}
	out := Deduplicate(courses, RepeatsAll)
	require.Len(t, out, 2)
}

func TestDeduplicatePreservesCodeOrder(t *testing.T) {
	courses := []Course{
		{CLBID: "1", Subject: "CSCI", Number: "252"},
		{CLBID: "2", Subject: "CSCI", Number: "251"},
		{CLBID: "3", Subject: "CSCI", Number: "252"},
	}
	out := Deduplicate(courses, RepeatsFirst)
	require.Len(t, out, 2)
	require.Equal(t, "CSCI 252", out[0].Code())
	require.Equal(t, "CSCI 251", out[1].Code())
}

func TestTermBeforeCrossesSeasonWithinYear(t *testing.T) {
	spring := Term{Year: 2020, Season: 1}
	fall := Term{Year: 2020, Season: 3}
	require.True(t, spring.Before(fall))
	require.False(t, fall.Before(spring))
}
