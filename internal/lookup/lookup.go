// Package lookup maps modern-schema Location IDs to county names and FIPS codes.
package lookup

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Tenjin25/ARRealignment/internal/election"
	"github.com/Tenjin25/ARRealignment/internal/fetcher"
)

// Column names of the lookup CSV.
const (
	ColLocationID = "Location ID"
	ColCounty     = "County Name"
	ColFIPS       = "FIPS Code"
)

// Entry is one lookup row.
type Entry struct {
	LocationID int
	County     string
	FIPS       string
}

// Table is an immutable Location ID index. The first entry for an ID wins.
type Table struct {
	entries []Entry
	byID    map[int]Entry
}

// New indexes entries.
func New(entries []Entry) *Table {
	t := &Table{byID: make(map[int]Entry, len(entries))}
	for _, e := range entries {
		if _, dup := t.byID[e.LocationID]; dup {
			continue
		}
		t.byID[e.LocationID] = e
		t.entries = append(t.entries, e)
	}
	sort.Slice(t.entries, func(i, j int) bool { return t.entries[i].LocationID < t.entries[j].LocationID })
	return t
}

// Load reads a lookup CSV. Rows with a missing or non-integer ID are skipped.
func Load(path string) (*Table, error) {
	tbl, err := fetcher.ReadTable(path, fetcher.TableOptions{})
	if err != nil {
		return nil, eris.Wrapf(err, "lookup: read %s", path)
	}
	for _, col := range []string{ColLocationID, ColCounty} {
		if !tbl.Has(col) {
			return nil, eris.Errorf("lookup: %s: missing column %q", path, col)
		}
	}

	entries := make([]Entry, 0, len(tbl.Rows))
	skipped := 0
	for _, row := range tbl.Rows {
		id, ok := election.ParseLocationID(tbl.Get(row, ColLocationID))
		county := tbl.Get(row, ColCounty)
		if !ok || county == "" {
			skipped++
			continue
		}
		entries = append(entries, Entry{
			LocationID: id,
			County:     county,
			FIPS:       NormalizeFIPS(tbl.Get(row, ColFIPS)),
		})
	}
	if skipped > 0 {
		zap.L().Warn("lookup: skipped invalid rows", zap.String("path", path), zap.Int("skipped", skipped))
	}

	return New(entries), nil
}

// CountyName returns the county for a Location ID.
func (t *Table) CountyName(id int) (string, bool) {
	e, ok := t.byID[id]
	return e.County, ok
}

// Len returns the number of distinct Location IDs.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns a copy of the rows ordered by Location ID.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// FIPSByCounty indexes FIPS codes by normalized county name.
func (t *Table) FIPSByCounty() map[string]string {
	out := make(map[string]string, len(t.entries))
	for _, e := range t.entries {
		if e.FIPS == "" {
			continue
		}
		key := election.NormalizeCounty(e.County)
		if _, dup := out[key]; !dup {
			out[key] = e.FIPS
		}
	}
	return out
}

// Write writes entries as a lookup CSV ordered by Location ID, replacing path atomically.
func Write(path string, entries []Entry) error {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].LocationID < sorted[j].LocationID })

	err := fetcher.WriteAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{ColLocationID, ColCounty, ColFIPS}); err != nil {
			return err
		}
		for _, e := range sorted {
			if err := cw.Write([]string{strconv.Itoa(e.LocationID), e.County, e.FIPS}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return eris.Wrapf(err, "lookup: write %s", path)
	}
	return nil
}

// NormalizeFIPS restores leading zeros lost when a 5-digit county FIPS code was
// stored as a number ("5119" or "5119.0" -> "05119"). Non-numeric codes are
// returned trimmed.
func NormalizeFIPS(raw string) string {
	code := strings.TrimSuffix(strings.TrimSpace(raw), ".0")
	n, err := strconv.Atoi(code)
	if err != nil || n < 0 {
		return code
	}
	if len(code) >= 5 {
		return code
	}
	return FormatFIPS(n, 5)
}

// FormatFIPS formats a numeric FIPS code with zero-padding.
func FormatFIPS(code int, digits int) string {
	return fmt.Sprintf("%0*d", digits, code)
}
