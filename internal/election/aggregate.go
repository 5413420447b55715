package election

import (
	"github.com/Tenjin25/ARRealignment/internal/competitiveness"
)

// CountyResult is the tally for one contest in one county.
type CountyResult struct {
	TotalVotes   int64
	DemVotes     int64
	RepVotes     int64
	OtherVotes   int64
	DemCandidate string // first non-empty Democratic display name seen; "" if none
	RepCandidate string
	Competitive  competitiveness.Classification
}

// Contest holds one contest's county results. Name is the first office title
// seen for the contest key.
type Contest struct {
	Name     string
	Counties map[string]*CountyResult
}

// FileResult is the per-file output: category -> contest key -> contest.
type FileResult map[Category]map[string]*Contest

// Contests counts contests across categories.
func (r FileResult) Contests() int {
	n := 0
	for _, byKey := range r {
		n += len(byKey)
	}
	return n
}

// ContestRow is one candidate line after column mapping.
type ContestRow struct {
	Category   Category
	Office     string
	County     string // normalized
	Candidate  string
	PartyField string
	Votes      int64
	Total      int64 // reported contest total; used only in TotalReported mode
}

// TotalMode controls how a county's total_votes is derived.
type TotalMode int

// Total modes.
const (
	// TotalSummed adds every row's votes.
	TotalSummed TotalMode = iota
	// TotalReported takes the Total field of the first row seen per contest and county.
	TotalReported
)

type contestCounty struct {
	office string
	county string
}

// Aggregator tallies rows into CountyResults.
type Aggregator struct {
	attr  *Attributor
	scale competitiveness.Scale
	mode  TotalMode

	categories map[string]Category
	offices    []string // first-seen order
	tallies    map[contestCounty]*CountyResult
}

// NewAggregator creates an empty aggregator.
func NewAggregator(attr *Attributor, scale competitiveness.Scale, mode TotalMode) *Aggregator {
	return &Aggregator{
		attr:       attr,
		scale:      scale,
		mode:       mode,
		categories: make(map[string]Category),
		tallies:    make(map[contestCounty]*CountyResult),
	}
}

// Add folds one row into its contest and county tally.
func (a *Aggregator) Add(row ContestRow) {
	if row.Category == CategoryNone || row.County == "" {
		return
	}
	if _, ok := a.categories[row.Office]; !ok {
		a.categories[row.Office] = row.Category
		a.offices = append(a.offices, row.Office)
	}

	k := contestCounty{office: row.Office, county: row.County}
	cr, ok := a.tallies[k]
	if !ok {
		cr = &CountyResult{}
		if a.mode == TotalReported {
			cr.TotalVotes = row.Total
		}
		a.tallies[k] = cr
	}
	if a.mode == TotalSummed {
		cr.TotalVotes += row.Votes
	}

	switch a.attr.Identify(row.Candidate, row.PartyField) {
	case PartyDem:
		cr.DemVotes += row.Votes
		if cr.DemCandidate == "" {
			cr.DemCandidate = a.attr.NormalizeCandidate(row.Candidate)
		}
	case PartyRep:
		cr.RepVotes += row.Votes
		if cr.RepCandidate == "" {
			cr.RepCandidate = a.attr.NormalizeCandidate(row.Candidate)
		}
	default:
		cr.OtherVotes += row.Votes
	}
}

// Result classifies every tally and groups it by category and contest key.
// When two office titles share a contest key, the first title's county
// results win.
func (a *Aggregator) Result() FileResult {
	byOffice := make(map[string]map[string]*CountyResult, len(a.offices))
	for k, cr := range a.tallies {
		cr.Competitive = a.scale.Classify(cr.DemVotes, cr.RepVotes)
		if byOffice[k.office] == nil {
			byOffice[k.office] = make(map[string]*CountyResult)
		}
		byOffice[k.office][k.county] = cr
	}

	out := make(FileResult)
	for _, office := range a.offices {
		cat := a.categories[office]
		key := ContestKey(office)
		if out[cat] == nil {
			out[cat] = make(map[string]*Contest)
		}
		c, ok := out[cat][key]
		if !ok {
			c = &Contest{Name: office, Counties: make(map[string]*CountyResult)}
			out[cat][key] = c
		}
		for county, cr := range byOffice[office] {
			if _, taken := c.Counties[county]; !taken {
				c.Counties[county] = cr
			}
		}
	}
	return out
}
