// Package competitiveness classifies two-party county results into named margin bands.
package competitiveness

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Winner identifies the leading party of a two-party result.
type Winner string

// Winner values.
const (
	WinnerNone       Winner = ""
	WinnerDemocratic Winner = "Democratic"
	WinnerRepublican Winner = "Republican"
)

// Labels and colors used outside the party band tables.
const (
	LabelNoData  = "No Data"
	LabelTossup  = "Tossup"
	ColorNoData  = "#cccccc"
	DisplayEven  = "EVEN"
	CodeNoData   = "NO_DATA"
	CodeTossup   = "TOSSUP"
	tossupMargin = 0.5
)

// Band is a named margin range [Min, Max) with a display color.
type Band struct {
	Name  string  `yaml:"name"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Color string  `yaml:"color"`
}

// Contains reports whether margin falls in [Min, Max).
func (b Band) Contains(margin float64) bool {
	return margin >= b.Min && margin < b.Max
}

// Scale is the full reference table: a tossup band around zero and one
// ascending band list per party.
type Scale struct {
	Tossup     Band   `yaml:"tossup"`
	Republican []Band `yaml:"republican"`
	Democratic []Band `yaml:"democratic"`
}

// DefaultScale returns the standard seven-band scale per party.
func DefaultScale() Scale {
	inf := math.Inf(1)
	return Scale{
		Tossup: Band{Name: LabelTossup, Min: 0, Max: tossupMargin, Color: "#f7f7f7"},
		Republican: []Band{
			{Name: "Tilt", Min: 0.5, Max: 1, Color: "#fee8c8"},
			{Name: "Lean", Min: 1, Max: 5.5, Color: "#fcae91"},
			{Name: "Likely", Min: 5.5, Max: 10, Color: "#fb6a4a"},
			{Name: "Safe", Min: 10, Max: 20, Color: "#ef3b2c"},
			{Name: "Stronghold", Min: 20, Max: 30, Color: "#cb181d"},
			{Name: "Dominant", Min: 30, Max: 40, Color: "#a50f15"},
			{Name: "Annihilation", Min: 40, Max: inf, Color: "#67000d"},
		},
		Democratic: []Band{
			{Name: "Tilt", Min: 0.5, Max: 1, Color: "#e1f5fe"},
			{Name: "Lean", Min: 1, Max: 5.5, Color: "#c6dbef"},
			{Name: "Likely", Min: 5.5, Max: 10, Color: "#9ecae1"},
			{Name: "Safe", Min: 10, Max: 20, Color: "#6baed6"},
			{Name: "Stronghold", Min: 20, Max: 30, Color: "#3182bd"},
			{Name: "Dominant", Min: 30, Max: 40, Color: "#08519c"},
			{Name: "Annihilation", Min: 40, Max: inf, Color: "#08306b"},
		},
	}
}

// Validate checks that the tossup band starts at 0 and each party's bands
// continue from it contiguously up to +Inf, so every margin maps to exactly one band.
func (s Scale) Validate() error {
	if s.Tossup.Min != 0 || s.Tossup.Max <= 0 {
		return eris.Errorf("competitiveness: tossup band must be [0, x), got [%v, %v)", s.Tossup.Min, s.Tossup.Max)
	}
	for party, bands := range map[Winner][]Band{WinnerRepublican: s.Republican, WinnerDemocratic: s.Democratic} {
		if len(bands) == 0 {
			return eris.Errorf("competitiveness: %s scale has no bands", party)
		}
		prev := s.Tossup.Max
		for _, b := range bands {
			if b.Min != prev {
				return eris.Errorf("competitiveness: %s band %q starts at %v, expected %v", party, b.Name, b.Min, prev)
			}
			if b.Max <= b.Min {
				return eris.Errorf("competitiveness: %s band %q is empty", party, b.Name)
			}
			prev = b.Max
		}
		if !math.IsInf(prev, 1) {
			return eris.Errorf("competitiveness: %s scale ends at %v, expected +Inf", party, prev)
		}
	}
	return nil
}

// Classification is the competitiveness verdict for one county result.
type Classification struct {
	Label         string  // "Safe Democratic", "Tossup", "No Data"
	Tier          string  // band name without the party: "Safe", "Tossup", "No Data"
	Code          string  // "D_SAFE", "R_LEAN", "TOSSUP", "NO_DATA"
	Winner        Winner  // leading party; WinnerNone on ties and empty results
	Party         Winner  // party owning the band; WinnerNone for tossup and no data
	Margin        float64 // |dem_pct - rep_pct|, unsigned percentage points
	MarginDisplay string  // "D+3.00", "R+12.34" or "EVEN"
	Color         string
	DemPct        float64 // rounded to 2 decimals
	RepPct        float64 // rounded to 2 decimals
}

// Classify runs the default scale.
func Classify(dem, rep int64) Classification {
	return DefaultScale().Classify(dem, rep)
}

// Classify converts two-party vote totals into a Classification.
// Margins below the tossup width are labeled Tossup but keep the leading party as Winner.
func (s Scale) Classify(dem, rep int64) Classification {
	total := dem + rep
	if total <= 0 {
		return Classification{
			Label:         LabelNoData,
			Tier:          LabelNoData,
			Code:          CodeNoData,
			MarginDisplay: DisplayEven,
			Color:         ColorNoData,
		}
	}

	demPct := float64(dem) / float64(total) * 100
	repPct := float64(rep) / float64(total) * 100
	c := Classification{
		DemPct: Round2(demPct),
		RepPct: Round2(repPct),
	}

	if dem == rep {
		c.Label, c.Tier, c.Code = LabelTossup, LabelTossup, CodeTossup
		c.MarginDisplay = DisplayEven
		c.Color = s.Tossup.Color
		return c
	}

	c.Margin = math.Abs(demPct - repPct)
	bands, prefix := s.Democratic, "D"
	c.Winner = WinnerDemocratic
	if rep > dem {
		bands, prefix = s.Republican, "R"
		c.Winner = WinnerRepublican
	}
	c.MarginDisplay = fmt.Sprintf("%s+%.2f", prefix, c.Margin)

	if s.Tossup.Contains(c.Margin) {
		c.Label, c.Tier, c.Code = LabelTossup, LabelTossup, CodeTossup
		c.Color = s.Tossup.Color
		return c
	}

	for _, b := range bands {
		if b.Contains(c.Margin) {
			c.Label = b.Name + " " + string(c.Winner)
			c.Tier = b.Name
			c.Code = prefix + "_" + upperSnake(b.Name)
			c.Party = c.Winner
			c.Color = b.Color
			return c
		}
	}

	// Unreachable for a validated scale.
	c.Label, c.Tier, c.Code = "Unknown", "Unknown", "UNKNOWN"
	c.Color = ColorNoData
	return c
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RangeLabel renders a band as a reference range string, e.g. "R+1-5.5%" or "D+40%+".
func RangeLabel(prefix string, b Band) string {
	if math.IsInf(b.Max, 1) {
		return prefix + "+" + formatNum(b.Min) + "%+"
	}
	return prefix + "+" + formatNum(b.Min) + "-" + formatNum(b.Max) + "%"
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func upperSnake(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, " ", "_"))
}
