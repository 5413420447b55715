package competitiveness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_NoData(t *testing.T) {
	c := Classify(0, 0)
	assert.Equal(t, LabelNoData, c.Label)
	assert.Equal(t, WinnerNone, c.Winner)
	assert.Equal(t, 0.0, c.Margin)
	assert.Equal(t, DisplayEven, c.MarginDisplay)
	assert.Equal(t, ColorNoData, c.Color)
	assert.Equal(t, CodeNoData, c.Code)
}

func TestClassify_ExactTie(t *testing.T) {
	c := Classify(5000, 5000)
	assert.Equal(t, LabelTossup, c.Label)
	assert.Equal(t, WinnerNone, c.Winner)
	assert.Equal(t, 0.0, c.Margin)
	assert.Equal(t, DisplayEven, c.MarginDisplay)
	assert.Equal(t, 50.0, c.DemPct)
	assert.Equal(t, 50.0, c.RepPct)
	assert.Equal(t, "#f7f7f7", c.Color)
}

func TestClassify_Shutouts(t *testing.T) {
	rep := Classify(0, 100)
	assert.Equal(t, "Annihilation Republican", rep.Label)
	assert.Equal(t, WinnerRepublican, rep.Winner)
	assert.Equal(t, 100.0, rep.Margin)
	assert.Equal(t, "R+100.00", rep.MarginDisplay)
	assert.Equal(t, "R_ANNIHILATION", rep.Code)
	assert.Equal(t, "#67000d", rep.Color)

	dem := Classify(100, 0)
	assert.Equal(t, "Annihilation Democratic", dem.Label)
	assert.Equal(t, WinnerDemocratic, dem.Winner)
	assert.Equal(t, "#08306b", dem.Color)
}

func TestClassify_Bands(t *testing.T) {
	tests := []struct {
		name     string
		dem, rep int64
		label    string
		display  string
	}{
		{"tilt dem", 5040, 4960, "Tilt Democratic", "D+0.80"},
		{"lean rep", 4800, 5200, "Lean Republican", "R+4.00"},
		{"likely rep", 15, 17, "Likely Republican", "R+6.25"},
		{"safe dem", 560, 440, "Safe Democratic", "D+12.00"},
		{"stronghold rep", 375, 625, "Stronghold Republican", "R+25.00"},
		{"dominant dem", 675, 325, "Dominant Democratic", "D+35.00"},
		{"annihilation rep", 200, 800, "Annihilation Republican", "R+60.00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Classify(tc.dem, tc.rep)
			assert.Equal(t, tc.label, c.Label)
			assert.Equal(t, tc.display, c.MarginDisplay)
		})
	}
}

func TestBand_ContainsIsHalfOpen(t *testing.T) {
	b := Band{Name: "Lean", Min: 1, Max: 5.5}
	assert.True(t, b.Contains(1))
	assert.True(t, b.Contains(5.49))
	assert.False(t, b.Contains(5.5))
	assert.False(t, b.Contains(0.99))
}

func TestClassify_NarrowMarginIsTossupWithWinner(t *testing.T) {
	// 50.1 vs 49.9 -> margin 0.2, below the first party band.
	c := Classify(501, 499)
	assert.Equal(t, LabelTossup, c.Label)
	assert.Equal(t, CodeTossup, c.Code)
	assert.Equal(t, WinnerDemocratic, c.Winner)
	assert.Equal(t, WinnerNone, c.Party)
	assert.Equal(t, "D+0.20", c.MarginDisplay)
	assert.InDelta(t, 0.2, c.Margin, 1e-9)
}

func TestClassify_EveryMarginHasABand(t *testing.T) {
	for rep := int64(0); rep <= 1000; rep++ {
		c := Classify(1000-rep, rep)
		assert.NotEqual(t, "Unknown", c.Label, "rep=%d", rep)
	}
}

func TestClassify_PercentagesRounded(t *testing.T) {
	c := Classify(1, 2)
	assert.Equal(t, 33.33, c.DemPct)
	assert.Equal(t, 66.67, c.RepPct)
	assert.Equal(t, "R+33.33", c.MarginDisplay)
}

func TestDefaultScale_Validates(t *testing.T) {
	require.NoError(t, DefaultScale().Validate())
}

func TestValidate_Gap(t *testing.T) {
	s := DefaultScale()
	s.Democratic[2].Min = 6
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Likely")
}

func TestValidate_Unbounded(t *testing.T) {
	s := DefaultScale()
	s.Republican[len(s.Republican)-1].Max = 100
	assert.Error(t, s.Validate())
}

func TestValidate_BadTossup(t *testing.T) {
	s := DefaultScale()
	s.Tossup.Min = -0.5
	assert.Error(t, s.Validate())
}

func TestValidate_EmptyParty(t *testing.T) {
	s := DefaultScale()
	s.Democratic = nil
	assert.Error(t, s.Validate())
}

func TestRangeLabel(t *testing.T) {
	assert.Equal(t, "R+1-5.5%", RangeLabel("R", Band{Min: 1, Max: 5.5}))
	assert.Equal(t, "D+40%+", RangeLabel("D", Band{Min: 40, Max: math.Inf(1)}))
}
