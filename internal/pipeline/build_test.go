package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tenjin25/ARRealignment/internal/results"
	"github.com/Tenjin25/ARRealignment/internal/source"
)

const legacy2020 = `county,office,district,party,candidate,votes
Pulaski,President,,DEM,Joe Biden,1000
Pulaski,President,,REP,Donald Trump,800
Benton,President,,DEM,Joe Biden,"30,000"
Benton,President,,REP,Donald Trump,"70,000"
Pulaski,Justice of the Peace,,DEM,Local Person,5
Pulaski,U.S. House,2,REP,French Hill,900
`

const modern2022 = `Contest Name,Location ID,Candidate Name,Party,Candidate Votes,Total Votes
U.S. Senate,60,Natalie James,DEM,1200,2100
U.S. Senate,60,John Boozman,REP,800,2100
U.S. Senate,4,Natalie James,DEM,200,1000
U.S. Senate,4,John Boozman,REP,750,1000
Attorney General,60,Tim Griffin,REP,1500,1500
`

const lookupCSV = `Location ID,County Name,FIPS Code
4,Benton,05007
60,Pulaski,05119
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func fixture(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "Data")
	writeFile(t, filepath.Join(data, "2020", "20201103__ar__general__county.csv"), legacy2020)
	writeFile(t, filepath.Join(data, "2022_General_Federal.csv"), modern2022)
	writeFile(t, filepath.Join(data, "county_lookup.csv"), lookupCSV)

	return Options{
		DataDir:    data,
		Extensions: []string{".csv"},
		YearTokens: []string{"2018", "2020"},
		LookupPath: filepath.Join(data, "county_lookup.csv"),
		OutputPath: filepath.Join(dir, "out", "results.json"),
		Document: results.DocumentOptions{
			IncludeMetadata:   true,
			State:             "Arkansas",
			StateAbbreviation: "AR",
			Source:            "test",
			Now:               time.Date(2024, 11, 6, 0, 0, 0, 0, time.UTC),
			RunID:             "run-1",
		},
	}
}

func TestBuild_EndToEnd(t *testing.T) {
	opts := fixture(t)

	report, err := Build(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 0, report.Skipped)
	require.Len(t, report.Summary, 2)

	doc, err := results.Read(opts.OutputPath)
	require.NoError(t, err)
	require.NotNil(t, doc.Metadata)
	assert.Equal(t, []string{"2020", "2022"}, doc.Metadata.YearsIncluded)

	pulaski, ok := doc.Lookup("2020", "presidential", "president", "PULASKI")
	require.True(t, ok)
	assert.Equal(t, int64(1000), pulaski.DemVotes)
	assert.Equal(t, int64(800), pulaski.RepVotes)
	assert.Equal(t, int64(1800), pulaski.TotalVotes)
	assert.Equal(t, results.WinnerDEM, pulaski.Winner)
	assert.Contains(t, pulaski.Competitiveness.Category, "Democratic")

	benton, ok := doc.Lookup("2020", "presidential", "president", "BENTON")
	require.True(t, ok)
	assert.Equal(t, int64(70000), benton.RepVotes)
	assert.Equal(t, results.WinnerREP, benton.Winner)

	senate, ok := doc.Lookup("2022", "us_senate", "us_senate", "PULASKI")
	require.True(t, ok)
	assert.Equal(t, int64(1200), senate.DemVotes)
	assert.Equal(t, int64(2100), senate.TotalVotes, "modern files use the reported total")
	require.NotNil(t, senate.DemCandidate)
	assert.Equal(t, "Natalie James", *senate.DemCandidate)

	_, ok = doc.Lookup("2022", "statewide", "attorney_general", "PULASKI")
	assert.False(t, ok, "uncontested contest should be filtered")
}

func TestBuild_ExcludeTokens(t *testing.T) {
	opts := fixture(t)
	opts.ExcludeYearTokens = []string{"2022"}

	report, err := Build(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, []string{"2020"}, report.Document.Metadata.YearsIncluded)
}

func TestBuild_MissingLookupSkipsModernFiles(t *testing.T) {
	opts := fixture(t)
	opts.LookupPath = filepath.Join(t.TempDir(), "absent.csv")

	report, err := Build(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Skipped)

	var skipped FileOutcome
	for _, f := range report.Files {
		if f.Skipped() {
			skipped = f
		}
	}
	assert.Equal(t, "2022", skipped.Year)
	assert.Error(t, skipped.Err)
}

func TestBuild_SkipsBadFiles(t *testing.T) {
	opts := fixture(t)
	writeFile(t, filepath.Join(opts.DataDir, "notes", "readme.csv"), "a,b\n1,2\n")
	writeFile(t, filepath.Join(opts.DataDir, "2016", "2016_local.csv"),
		"county,office,party,candidate,votes\nPulaski,Sheriff,DEM,A,10\n")

	report, err := Build(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 2, report.Skipped)

	reasons := map[string]error{}
	for _, f := range report.Files {
		if f.Skipped() {
			reasons[filepath.Base(f.Path)] = f.Err
		}
	}
	assert.True(t, eris.Is(reasons["readme.csv"], errNoYear))
	assert.True(t, eris.Is(reasons["2016_local.csv"], errNoContests))
}

func TestBuild_NoInputFiles(t *testing.T) {
	opts := fixture(t)
	opts.DataDir = t.TempDir()

	_, err := Build(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, eris.Is(err, source.ErrNoInputFiles))
	assert.NoFileExists(t, opts.OutputPath)
}

func TestBuild_DryRun(t *testing.T) {
	opts := fixture(t)
	opts.DryRun = true

	report, err := Build(context.Background(), opts)
	require.NoError(t, err)
	require.NotNil(t, report.Document)
	assert.NotEmpty(t, report.Document.ResultsByYear)
	assert.NoFileExists(t, opts.OutputPath)
}

func TestBuild_BadHeuristics(t *testing.T) {
	opts := fixture(t)
	opts.HeuristicsPath = filepath.Join(t.TempDir(), "heuristics.yaml")
	writeFile(t, opts.HeuristicsPath, "democratic_patterns: [unterminated")

	_, err := Build(context.Background(), opts)
	assert.Error(t, err)
}

func TestBuild_Cancelled(t *testing.T) {
	opts := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, opts)
	assert.Error(t, err)
}

func TestBuild_PhasesRecorded(t *testing.T) {
	report, err := Build(context.Background(), fixture(t))
	require.NoError(t, err)

	var names []string
	for _, p := range report.Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"setup", "discover", "process", "write"}, names)
}
