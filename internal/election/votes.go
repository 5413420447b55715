package election

import (
	"math"
	"strconv"
	"strings"
)

// ParseVotes reads a vote count, tolerating thousands separators and decimal
// strings ("1,234", "56.0"). Fractions are truncated. Blank, non-numeric and
// negative values count as 0, as do values too large for an int64.
func ParseVotes(raw string) int64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return max(n, 0)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

// NormalizeCounty upper-cases a county name and drops a trailing " COUNTY".
func NormalizeCounty(raw string) string {
	c := strings.ToUpper(strings.TrimSpace(raw))
	c = strings.ReplaceAll(c, " COUNTY", "")
	return strings.TrimSpace(c)
}

// ParseLocationID accepts integer IDs that may have been written as floats ("12.0").
func ParseLocationID(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) >= math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
