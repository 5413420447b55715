package lookup

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Tenjin25/ARRealignment/internal/election"
	"github.com/Tenjin25/ARRealignment/internal/fetcher"
)

// RebuildOptions names the two vote sources paired by Rebuild.
type RebuildOptions struct {
	// ModernFile is a modern-schema export keyed by Location ID.
	ModernFile string
	// Contest selects the modern-file rows to total (exact contest name, case-insensitive).
	Contest string
	// CountyDir holds per-county legacy files named {date}__{state}__{election}__{county}__....
	CountyDir string
	// OfficeKeyword selects the legacy rows to total (substring, case-insensitive).
	OfficeKeyword string
	// StateFIPS prefixes synthesized FIPS codes for counties missing from the existing lookup.
	StateFIPS string
	Encoding  string
}

// Match is one rank pairing produced by Rebuild.
type Match struct {
	Rank          int
	County        string
	CountyVotes   int64
	LocationID    int
	LocationVotes int64
}

type total struct {
	key   string
	id    int
	votes int64
}

// Rebuild recovers the Location ID to county mapping by vote-rank correlation:
// counties ranked by legacy totals are paired with Location IDs ranked by modern
// totals. FIPS codes come from existing (may be nil) when the county is known.
func Rebuild(opts RebuildOptions, existing *Table) ([]Entry, []Match, error) {
	locations, err := locationTotals(opts)
	if err != nil {
		return nil, nil, err
	}
	counties, err := countyTotals(opts)
	if err != nil {
		return nil, nil, err
	}
	if len(locations) == 0 || len(counties) == 0 {
		return nil, nil, eris.Errorf("lookup: nothing to pair (%d locations, %d counties)", len(locations), len(counties))
	}
	if len(locations) != len(counties) {
		zap.L().Warn("lookup: location and county counts differ; extra entries are dropped",
			zap.Int("locations", len(locations)),
			zap.Int("counties", len(counties)),
		)
	}

	fips := map[string]string{}
	if existing != nil {
		fips = existing.FIPSByCounty()
	}

	n := min(len(locations), len(counties))
	entries := make([]Entry, 0, n)
	matches := make([]Match, 0, n)
	for i := 0; i < n; i++ {
		rank := i + 1
		c, l := counties[i], locations[i]

		code, ok := fips[election.NormalizeCounty(c.key)]
		if !ok {
			code = opts.StateFIPS + FormatFIPS(rank, 3)
		}
		entries = append(entries, Entry{LocationID: l.id, County: c.key, FIPS: code})
		matches = append(matches, Match{
			Rank:          rank,
			County:        c.key,
			CountyVotes:   c.votes,
			LocationID:    l.id,
			LocationVotes: l.votes,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].LocationID < entries[j].LocationID })
	return entries, matches, nil
}

func locationTotals(opts RebuildOptions) ([]total, error) {
	tbl, err := fetcher.ReadTable(opts.ModernFile, fetcher.TableOptions{Encoding: opts.Encoding})
	if err != nil {
		return nil, eris.Wrapf(err, "lookup: read %s", opts.ModernFile)
	}
	for _, col := range []string{"Contest Name", "Location ID", "Candidate Votes"} {
		if !tbl.Has(col) {
			return nil, eris.Errorf("lookup: %s: missing column %q", opts.ModernFile, col)
		}
	}

	sums := make(map[int]int64)
	for _, row := range tbl.Rows {
		if !strings.EqualFold(tbl.Get(row, "Contest Name"), opts.Contest) {
			continue
		}
		id, ok := election.ParseLocationID(tbl.Get(row, "Location ID"))
		if !ok {
			continue
		}
		sums[id] += election.ParseVotes(tbl.Get(row, "Candidate Votes"))
	}

	out := make([]total, 0, len(sums))
	for id, v := range sums {
		out = append(out, total{id: id, votes: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].votes != out[j].votes {
			return out[i].votes > out[j].votes
		}
		return out[i].id < out[j].id
	})
	return out, nil
}

func countyTotals(opts RebuildOptions) ([]total, error) {
	entries, err := os.ReadDir(opts.CountyDir)
	if err != nil {
		return nil, eris.Wrapf(err, "lookup: read dir %s", opts.CountyDir)
	}

	title := cases.Title(language.English)
	keyword := strings.ToLower(opts.OfficeKeyword)
	sums := make(map[string]int64)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		county, ok := CountyFromFilename(e.Name(), title)
		if !ok {
			continue
		}
		if _, dup := sums[county]; dup {
			zap.L().Warn("lookup: duplicate county file ignored", zap.String("file", e.Name()))
			continue
		}

		path := filepath.Join(opts.CountyDir, e.Name())
		tbl, err := fetcher.ReadTable(path, fetcher.TableOptions{Encoding: opts.Encoding})
		if err != nil {
			zap.L().Warn("lookup: skipping unreadable county file", zap.String("file", e.Name()), zap.Error(err))
			continue
		}

		var votes int64
		matched := false
		for _, row := range tbl.Rows {
			if !strings.Contains(strings.ToLower(tbl.Get(row, "office")), keyword) {
				continue
			}
			matched = true
			votes += election.ParseVotes(tbl.Get(row, "votes"))
		}
		if matched {
			sums[county] = votes
		}
	}

	out := make([]total, 0, len(sums))
	for name, v := range sums {
		out = append(out, total{key: name, votes: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].votes != out[j].votes {
			return out[i].votes > out[j].votes
		}
		return out[i].key < out[j].key
	})
	return out, nil
}

// CountyFromFilename extracts the title-cased county from the fourth "__"
// segment of a per-county file name, e.g. 20201103__ar__general__st_francis__precinct.csv.
func CountyFromFilename(name string, title cases.Caser) (string, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(stem, "__")
	if len(parts) < 4 || parts[3] == "" {
		return "", false
	}
	return title.String(strings.ReplaceAll(parts[3], "_", " ")), true
}
