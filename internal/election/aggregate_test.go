package election

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tenjin25/ARRealignment/internal/competitiveness"
)

func TestAggregator_ReportedTotalFromFirstRow(t *testing.T) {
	h := DefaultHeuristics()
	agg := NewAggregator(NewAttributor(h), h.Scale, TotalReported)

	agg.Add(ContestRow{Category: CategoryGovernor, Office: "Governor", County: "PULASKI", Candidate: "Chris Jones", PartyField: "DEM", Votes: 60, Total: 120})
	agg.Add(ContestRow{Category: CategoryGovernor, Office: "Governor", County: "PULASKI", Candidate: "Sarah Huckabee Sanders", PartyField: "REP", Votes: 50, Total: 999})

	cr := agg.Result()[CategoryGovernor]["governor"].Counties["PULASKI"]
	require.NotNil(t, cr)
	assert.Equal(t, int64(120), cr.TotalVotes)
	assert.Equal(t, competitiveness.WinnerDemocratic, cr.Competitive.Winner)
}

func TestAggregator_FirstCandidateWins(t *testing.T) {
	h := DefaultHeuristics()
	agg := NewAggregator(NewAttributor(h), h.Scale, TotalSummed)

	agg.Add(ContestRow{Category: CategoryPresidential, Office: "President", County: "BENTON", Candidate: "", PartyField: "DEM", Votes: 1})
	agg.Add(ContestRow{Category: CategoryPresidential, Office: "President", County: "BENTON", Candidate: "Joseph R. Biden", PartyField: "DEM", Votes: 10})
	agg.Add(ContestRow{Category: CategoryPresidential, Office: "President", County: "BENTON", Candidate: "Kamala Harris", PartyField: "DEM", Votes: 5})

	cr := agg.Result()[CategoryPresidential]["president"].Counties["BENTON"]
	require.NotNil(t, cr)
	assert.Equal(t, "Joseph R. Biden", cr.DemCandidate)
	assert.Equal(t, int64(16), cr.DemVotes)
	assert.Equal(t, int64(16), cr.TotalVotes)
}

func TestAggregator_IgnoresDroppedRows(t *testing.T) {
	h := DefaultHeuristics()
	agg := NewAggregator(NewAttributor(h), h.Scale, TotalSummed)

	agg.Add(ContestRow{Category: CategoryNone, Office: "Sheriff", County: "BENTON", Votes: 5})
	agg.Add(ContestRow{Category: CategoryGovernor, Office: "Governor", County: "", Votes: 5})

	assert.Empty(t, agg.Result())
}
