// Package results merges per-file contest tallies into the year-partitioned
// output tree and serializes it.
package results

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Tenjin25/ARRealignment/internal/election"
)

// Tree is year -> category -> contest key -> contest.
type Tree map[string]map[election.Category]map[string]*election.Contest

// Merge folds a file's results into year. Contests are matched by key and
// counties already present are never overwritten.
func (t Tree) Merge(year string, fr election.FileResult) {
	for cat, contests := range fr {
		if len(contests) == 0 {
			continue
		}
		if t[year] == nil {
			t[year] = make(map[election.Category]map[string]*election.Contest)
		}
		if t[year][cat] == nil {
			t[year][cat] = make(map[string]*election.Contest)
		}
		byKey := t[year][cat]
		for key, c := range contests {
			dst, ok := byKey[key]
			if !ok {
				dst = &election.Contest{Name: c.Name, Counties: make(map[string]*election.CountyResult, len(c.Counties))}
				byKey[key] = dst
			}
			for county, cr := range c.Counties {
				if _, taken := dst.Counties[county]; !taken {
					dst.Counties[county] = cr
				}
			}
		}
	}
}

// FilterContested returns a tree holding only contests where at least one
// county has a Democratic candidate. Empty categories and years are dropped.
func (t Tree) FilterContested() Tree {
	out := make(Tree, len(t))
	for year, cats := range t {
		for cat, contests := range cats {
			for key, c := range contests {
				if !hasDemCandidate(c) {
					continue
				}
				if out[year] == nil {
					out[year] = make(map[election.Category]map[string]*election.Contest)
				}
				if out[year][cat] == nil {
					out[year][cat] = make(map[string]*election.Contest)
				}
				out[year][cat][key] = c
			}
		}
	}
	return out
}

func hasDemCandidate(c *election.Contest) bool {
	for _, cr := range c.Counties {
		if cr.DemCandidate != "" {
			return true
		}
	}
	return false
}

// Years returns the tree's years in ascending order.
func (t Tree) Years() []string {
	years := make([]string, 0, len(t))
	for y := range t {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// YearSummary counts contests per category for one year.
type YearSummary struct {
	Year       string
	Categories map[election.Category]int
	Contests   int
	Counties   int
}

// Summarize counts contests and county results per year.
func (t Tree) Summarize() []YearSummary {
	out := make([]YearSummary, 0, len(t))
	for _, year := range t.Years() {
		s := YearSummary{Year: year, Categories: make(map[election.Category]int)}
		for cat, contests := range t[year] {
			s.Categories[cat] = len(contests)
			s.Contests += len(contests)
			for _, c := range contests {
				s.Counties += len(c.Counties)
			}
		}
		out = append(out, s)
	}
	return out
}

// LogSummary writes one log line per year.
func LogSummary(summaries []YearSummary) {
	for _, s := range summaries {
		fields := []zap.Field{
			zap.String("year", s.Year),
			zap.Int("contests", s.Contests),
			zap.Int("county_results", s.Counties),
		}
		for _, cat := range election.Categories {
			if n, ok := s.Categories[cat]; ok {
				fields = append(fields, zap.Int(string(cat), n))
			}
		}
		zap.L().Info("results: year summary", fields...)
	}
}
