package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tenjin25/ARRealignment/internal/competitiveness"
	"github.com/Tenjin25/ARRealignment/internal/election"
)

func county(dem, rep, other int64, demName, repName string) *election.CountyResult {
	return &election.CountyResult{
		TotalVotes:   dem + rep + other,
		DemVotes:     dem,
		RepVotes:     rep,
		OtherVotes:   other,
		DemCandidate: demName,
		RepCandidate: repName,
		Competitive:  competitiveness.Classify(dem, rep),
	}
}

func senate(counties map[string]*election.CountyResult) election.FileResult {
	return election.FileResult{
		election.CategoryUSSenate: {
			"us_senate": {Name: "U.S. Senate", Counties: counties},
		},
	}
}

func TestMerge_FirstWriteWins(t *testing.T) {
	first := county(100, 50, 0, "Natalie James", "John Boozman")
	second := county(1, 2, 0, "Someone Else", "John Boozman")

	tree := Tree{}
	tree.Merge("2022", senate(map[string]*election.CountyResult{"PULASKI": first}))
	tree.Merge("2022", senate(map[string]*election.CountyResult{
		"PULASKI": second,
		"BENTON":  county(10, 20, 0, "Natalie James", "John Boozman"),
	}))

	c := tree["2022"][election.CategoryUSSenate]["us_senate"]
	require.NotNil(t, c)
	assert.Len(t, c.Counties, 2)
	assert.Same(t, first, c.Counties["PULASKI"])
}

func TestMerge_DisjointCountiesCommute(t *testing.T) {
	a := senate(map[string]*election.CountyResult{"PULASKI": county(100, 50, 0, "Natalie James", "John Boozman")})
	b := senate(map[string]*election.CountyResult{"BENTON": county(10, 20, 0, "Natalie James", "John Boozman")})

	ab, ba := Tree{}, Tree{}
	ab.Merge("2022", a)
	ab.Merge("2022", b)
	ba.Merge("2022", b)
	ba.Merge("2022", a)

	if diff := cmp.Diff(ab, ba); diff != "" {
		t.Errorf("merge order changed the tree (-ab +ba):\n%s", diff)
	}
}

func TestFilterContested(t *testing.T) {
	tree := Tree{}
	tree.Merge("2020", election.FileResult{
		election.CategoryPresidential: {
			"president": {Name: "President", Counties: map[string]*election.CountyResult{
				"PULASKI": county(1000, 800, 0, "Joseph R. Biden", "Donald J. Trump"),
				"BENTON":  county(0, 900, 0, "", "Donald J. Trump"),
			}},
		},
		election.CategoryStatewide: {
			"attorney_general": {Name: "Attorney General", Counties: map[string]*election.CountyResult{
				"PULASKI": county(0, 700, 100, "", "Leslie Rutledge"),
			}},
		},
	})
	tree.Merge("2018", election.FileResult{
		election.CategoryStatewide: {
			"state_treasurer": {Name: "State Treasurer", Counties: map[string]*election.CountyResult{
				"PULASKI": county(0, 500, 0, "", "Dennis Milligan"),
			}},
		},
	})

	got := tree.FilterContested()
	assert.Equal(t, []string{"2020"}, got.Years())
	assert.Len(t, got["2020"], 1)
	assert.Len(t, got["2020"][election.CategoryPresidential]["president"].Counties, 2)
}

func TestNewRecord_PulaskiScenario(t *testing.T) {
	r := NewRecord("2020", "PULASKI", "President", county(1000, 800, 0, "Joseph R. Biden", "Donald J. Trump"))

	assert.Equal(t, int64(1800), r.TotalVotes)
	assert.Equal(t, int64(1800), r.TwoPartyTotal)
	assert.Equal(t, int64(200), r.Margin)
	assert.Equal(t, 11.11, r.MarginPct)
	assert.Equal(t, "D+11.11", r.MarginDisplay)
	assert.Equal(t, 55.56, r.DemPct)
	assert.Equal(t, 44.44, r.RepPct)
	assert.Equal(t, WinnerDEM, r.Winner)
	assert.Contains(t, r.Competitiveness.Category, "Democratic")
	assert.Equal(t, "Safe", r.Competitiveness.Tier)
	assert.Equal(t, "D_SAFE", r.Competitiveness.Code)
	require.NotNil(t, r.Competitiveness.Party)
	assert.Equal(t, "Democratic", *r.Competitiveness.Party)
	require.NotNil(t, r.DemCandidate)
	assert.Equal(t, "Joseph R. Biden", *r.DemCandidate)
}

func TestNewRecord_NoDataAndTie(t *testing.T) {
	empty := NewRecord("2020", "NEWTON", "President", county(0, 0, 12, "", ""))
	assert.Equal(t, WinnerNONE, empty.Winner)
	assert.Nil(t, empty.DemCandidate)
	assert.Nil(t, empty.Competitiveness.Party)
	assert.Equal(t, competitiveness.LabelNoData, empty.Competitiveness.Category)

	tie := NewRecord("2020", "CALHOUN", "President", county(500, 500, 0, "A", "B"))
	assert.Equal(t, WinnerNONE, tie.Winner)
	assert.Equal(t, competitiveness.LabelTossup, tie.Competitiveness.Category)
	assert.Equal(t, 0.0, tie.MarginPct)
}

func sampleTree() Tree {
	tree := Tree{}
	tree.Merge("2020", election.FileResult{
		election.CategoryPresidential: {
			"president": {Name: "President", Counties: map[string]*election.CountyResult{
				"PULASKI": county(1000, 800, 0, "Joseph R. Biden", "Donald J. Trump"),
				"BENTON":  county(400, 900, 25, "Joseph R. Biden", "Donald J. Trump"),
			}},
		},
	})
	tree.Merge("2018", election.FileResult{
		election.CategoryGovernor: {
			"governor": {Name: "Governor", Counties: map[string]*election.CountyResult{
				"PULASKI": county(60, 40, 0, "Jared Henderson", ""),
			}},
		},
	})
	return tree
}

func docOptions() DocumentOptions {
	return DocumentOptions{
		IncludeMetadata:   true,
		State:             "Arkansas",
		StateAbbreviation: "AR",
		Source:            "OpenElections Project & Arkansas Secretary of State",
		Scale:             competitiveness.DefaultScale(),
		Now:               time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC),
		RunID:             "run-1",
	}
}

func TestBuild_Metadata(t *testing.T) {
	doc := Build(sampleTree(), docOptions())
	require.NotNil(t, doc.Metadata)

	m := doc.Metadata
	assert.Equal(t, []string{"2018", "2020"}, m.YearsIncluded)
	assert.Equal(t, "2025-01-07", m.ProcessedDate)
	assert.Equal(t, "run-1", m.RunID)
	assert.Equal(t, []string{"presidential", "us_senate", "governor", "lt_governor", "statewide"}, m.CategorizationSystem.OfficeTypes)

	scale := m.CategorizationSystem.CompetitivenessScale
	require.Len(t, scale.Republican, 7)
	assert.Equal(t, BandReference{Category: "Annihilation", Range: "R+40%+", Color: "#67000d"}, scale.Republican[0])
	assert.Equal(t, BandReference{Category: "Tilt", Range: "R+0.5-1%", Color: "#fee8c8"}, scale.Republican[6])
	assert.Equal(t, BandReference{Category: "Tossup", Range: "±0.5%", Color: "#f7f7f7"}, scale.Tossup[0])
	assert.Equal(t, BandReference{Category: "Lean", Range: "D+1-5.5%", Color: "#c6dbef"}, scale.Democratic[1])
}

func TestBuild_GeneratesRunID(t *testing.T) {
	opts := docOptions()
	opts.RunID = ""
	doc := Build(sampleTree(), opts)
	assert.Len(t, doc.Metadata.RunID, 36)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arkansas_county_election_results.json")
	doc := Build(sampleTree(), docOptions())
	require.NoError(t, Write(path, doc))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"total_votes": 1800,`)
	assert.Contains(t, string(raw), `"rep_candidate": null`)
	assert.Contains(t, string(raw), `"source": "OpenElections Project & Arkansas Secretary of State"`)

	got, err := Read(path)
	require.NoError(t, err)
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteRead_WithoutMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	opts := docOptions()
	opts.IncludeMetadata = false
	doc := Build(sampleTree(), opts)
	require.Nil(t, doc.Metadata)
	require.NoError(t, Write(path, doc))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "{\n  \"2018\": {"))
	assert.NotContains(t, string(raw), "metadata")

	got, err := Read(path)
	require.NoError(t, err)
	assert.Nil(t, got.Metadata)
	if diff := cmp.Diff(doc.ResultsByYear, got.ResultsByYear); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := Write(filepath.Join(blocker, "out.json"), Build(sampleTree(), docOptions()))
	assert.Error(t, err)
}

func TestRead_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2]"), 0o644))
	_, err := Read(path)
	assert.Error(t, err)

	_, err = Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDocument_Lookup(t *testing.T) {
	doc := Build(sampleTree(), docOptions())

	r, ok := doc.Lookup("2020", "", "", "BENTON")
	require.True(t, ok)
	assert.Equal(t, "President", r.Contest)

	_, ok = doc.Lookup("2020", "governor", "", "BENTON")
	assert.False(t, ok)

	r, ok = doc.Lookup("2018", "governor", "governor", "PULASKI")
	require.True(t, ok)
	assert.Equal(t, WinnerDEM, r.Winner)
}

func TestSummarize(t *testing.T) {
	s := sampleTree().Summarize()
	require.Len(t, s, 2)
	assert.Equal(t, "2018", s[0].Year)
	assert.Equal(t, 1, s[0].Categories[election.CategoryGovernor])
	assert.Equal(t, 1, s[1].Contests)
	assert.Equal(t, 2, s[1].Counties)
	LogSummary(s)
}
