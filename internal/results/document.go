package results

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Tenjin25/ARRealignment/internal/competitiveness"
	"github.com/Tenjin25/ARRealignment/internal/election"
)

// Winner codes in the output document.
const (
	WinnerDEM  = "DEM"
	WinnerREP  = "REP"
	WinnerNONE = "NONE"
)

// Document is the serialized output. Metadata is nil when disabled, in which
// case only ResultsByYear is written.
type Document struct {
	Metadata      *Metadata                                 `json:"metadata,omitempty"`
	ResultsByYear map[string]map[string]map[string]ContestDoc `json:"results_by_year"`
}

// ContestDoc is one contest's county records.
type ContestDoc struct {
	ContestName string            `json:"contest_name"`
	Results     map[string]Record `json:"results"`
}

// Record is one county's result for one contest.
type Record struct {
	County          string          `json:"county"`
	Contest         string          `json:"contest"`
	Year            string          `json:"year"`
	DemCandidate    *string         `json:"dem_candidate"`
	RepCandidate    *string         `json:"rep_candidate"`
	DemVotes        int64           `json:"dem_votes"`
	RepVotes        int64           `json:"rep_votes"`
	OtherVotes      int64           `json:"other_votes"`
	TotalVotes      int64           `json:"total_votes"`
	TwoPartyTotal   int64           `json:"two_party_total"`
	Margin          int64           `json:"margin"`
	MarginPct       float64         `json:"margin_pct"`
	MarginDisplay   string          `json:"margin_display"`
	DemPct          float64         `json:"dem_pct"`
	RepPct          float64         `json:"rep_pct"`
	Winner          string          `json:"winner"`
	Competitiveness Competitiveness `json:"competitiveness"`
}

// Competitiveness is the band assignment of a Record.
type Competitiveness struct {
	Category string  `json:"category"`
	Tier     string  `json:"tier"`
	Party    *string `json:"party"`
	Code     string  `json:"code"`
	Color    string  `json:"color"`
}

// Metadata describes the run and the reference scale.
type Metadata struct {
	State                string               `json:"state"`
	StateAbbreviation    string               `json:"state_abbreviation"`
	Source               string               `json:"source"`
	YearsIncluded        []string             `json:"years_included"`
	Focus                string               `json:"focus"`
	ProcessedDate        string               `json:"processed_date"`
	RunID                string               `json:"run_id"`
	CategorizationSystem CategorizationSystem `json:"categorization_system"`
}

// CategorizationSystem documents the scale and office categories used.
type CategorizationSystem struct {
	CompetitivenessScale ScaleReference `json:"competitiveness_scale"`
	OfficeTypes          []string       `json:"office_types"`
	EnhancedFeatures     []string       `json:"enhanced_features"`
}

// ScaleReference lists bands from safest Republican to safest Democratic.
type ScaleReference struct {
	Republican []BandReference `json:"Republican"`
	Tossup     []BandReference `json:"Tossup"`
	Democratic []BandReference `json:"Democratic"`
}

// BandReference is one band with a human-readable range.
type BandReference struct {
	Category string `json:"category"`
	Range    string `json:"range"`
	Color    string `json:"color"`
}

// DocumentOptions configures Build.
type DocumentOptions struct {
	IncludeMetadata   bool
	State             string
	StateAbbreviation string
	Source            string
	Scale             competitiveness.Scale
	Now               time.Time // zero means time.Now()
	RunID             string    // empty means a new UUID
}

// Build converts a filtered tree into the output document.
func Build(t Tree, opts DocumentOptions) *Document {
	doc := &Document{ResultsByYear: make(map[string]map[string]map[string]ContestDoc, len(t))}
	for year, cats := range t {
		byCat := make(map[string]map[string]ContestDoc, len(cats))
		for cat, contests := range cats {
			byKey := make(map[string]ContestDoc, len(contests))
			for key, c := range contests {
				cd := ContestDoc{ContestName: c.Name, Results: make(map[string]Record, len(c.Counties))}
				for county, cr := range c.Counties {
					cd.Results[county] = NewRecord(year, county, c.Name, cr)
				}
				byKey[key] = cd
			}
			byCat[string(cat)] = byKey
		}
		doc.ResultsByYear[year] = byCat
	}

	if opts.IncludeMetadata {
		doc.Metadata = buildMetadata(t.Years(), opts)
	}
	return doc
}

// NewRecord flattens a county tally into its output record.
func NewRecord(year, county, contest string, cr *election.CountyResult) Record {
	c := cr.Competitive
	r := Record{
		County:        county,
		Contest:       contest,
		Year:          year,
		DemCandidate:  optional(cr.DemCandidate),
		RepCandidate:  optional(cr.RepCandidate),
		DemVotes:      cr.DemVotes,
		RepVotes:      cr.RepVotes,
		OtherVotes:    cr.OtherVotes,
		TotalVotes:    cr.TotalVotes,
		TwoPartyTotal: cr.DemVotes + cr.RepVotes,
		Margin:        abs(cr.DemVotes - cr.RepVotes),
		MarginPct:     competitiveness.Round2(c.Margin),
		MarginDisplay: c.MarginDisplay,
		DemPct:        c.DemPct,
		RepPct:        c.RepPct,
		Winner:        winnerCode(c.Winner),
		Competitiveness: Competitiveness{
			Category: c.Label,
			Tier:     c.Tier,
			Party:    optional(string(c.Party)),
			Code:     c.Code,
			Color:    c.Color,
		},
	}
	return r
}

func winnerCode(w competitiveness.Winner) string {
	switch w {
	case competitiveness.WinnerDemocratic:
		return WinnerDEM
	case competitiveness.WinnerRepublican:
		return WinnerREP
	}
	return WinnerNONE
}

func buildMetadata(years []string, opts DocumentOptions) *Metadata {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	offices := make([]string, 0, len(election.Categories))
	for _, c := range election.Categories {
		offices = append(offices, string(c))
	}

	return &Metadata{
		State:             opts.State,
		StateAbbreviation: opts.StateAbbreviation,
		Source:            opts.Source,
		YearsIncluded:     years,
		Focus:             "Clean geographic political patterns",
		ProcessedDate:     now.Format("2006-01-02"),
		RunID:             runID,
		CategorizationSystem: CategorizationSystem{
			CompetitivenessScale: scaleReference(opts.Scale),
			OfficeTypes:          offices,
			EnhancedFeatures: []string{
				"Competitiveness categorization for each county",
				"Contest type classification (presidential/statewide/etc)",
				"Color coding compatible with political geography visualization",
				"Candidate name normalization",
			},
		},
	}
}

func scaleReference(s competitiveness.Scale) ScaleReference {
	ref := ScaleReference{
		Tossup: []BandReference{{
			Category: s.Tossup.Name,
			Range:    "±" + strconv.FormatFloat(s.Tossup.Max, 'f', -1, 64) + "%",
			Color:    s.Tossup.Color,
		}},
	}
	for i := len(s.Republican) - 1; i >= 0; i-- {
		b := s.Republican[i]
		ref.Republican = append(ref.Republican, BandReference{Category: b.Name, Range: competitiveness.RangeLabel("R", b), Color: b.Color})
	}
	for _, b := range s.Democratic {
		ref.Democratic = append(ref.Democratic, BandReference{Category: b.Name, Range: competitiveness.RangeLabel("D", b), Color: b.Color})
	}
	return ref
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
