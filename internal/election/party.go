package election

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Party is the attributed party of a candidate row.
type Party string

// Party values.
const (
	PartyDem   Party = "dem"
	PartyRep   Party = "rep"
	PartyOther Party = "other"
)

// Attributor assigns parties to candidates and derives their display names.
type Attributor struct {
	dem    []string
	rep    []string
	titles []string
}

// NewAttributor prepares the pattern and title tables. Titles are matched
// longest first.
func NewAttributor(h Heuristics) *Attributor {
	titles := make([]string, 0, len(h.TitlePrefixes))
	for _, t := range h.TitlePrefixes {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	sort.SliceStable(titles, func(i, j int) bool { return len(titles[i]) > len(titles[j]) })

	return &Attributor{
		dem:    lowerAll(h.DemocraticPatterns),
		rep:    lowerAll(h.RepublicanPatterns),
		titles: titles,
	}
}

// Identify attributes a row to a party. A non-empty party field wins when it
// names a major party; otherwise the candidate name is matched against the
// Democratic patterns, then the Republican patterns. Matching is case-insensitive.
func (a *Attributor) Identify(candidate, partyField string) Party {
	if p := partyFromField(partyField); p != PartyOther {
		return p
	}

	name := strings.ToLower(candidate)
	if name == "" {
		return PartyOther
	}
	if containsAny(name, a.dem) {
		return PartyDem
	}
	if containsAny(name, a.rep) {
		return PartyRep
	}
	return PartyOther
}

func partyFromField(field string) Party {
	f := strings.ToLower(strings.TrimSpace(field))
	if f == "" || f == "nan" {
		return PartyOther
	}
	if strings.Contains(f, "dem") {
		return PartyDem
	}
	if strings.Contains(f, "rep") || strings.Contains(f, "gop") {
		return PartyRep
	}
	return PartyOther
}

// NormalizeCandidate strips leading honorifics ("Gov.", "Senator", "Former", ...)
// until none remain, then trims whitespace. Returns "" for blank input.
func (a *Attributor) NormalizeCandidate(name string) string {
	out := strings.TrimSpace(name)
	for {
		stripped, ok := a.stripTitle(out)
		if !ok {
			return out
		}
		out = stripped
	}
}

func (a *Attributor) stripTitle(name string) (string, bool) {
	for _, t := range a.titles {
		if len(name) <= len(t) || !strings.EqualFold(name[:len(t)], t) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(name[len(t):])
		if !unicode.IsSpace(next) {
			continue
		}
		return strings.TrimSpace(name[len(t):]), true
	}
	return name, false
}
