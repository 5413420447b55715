package election

import "strings"

// Category is the bucket a contest is filed under regardless of its exact office wording.
type Category string

// Contest categories. CategoryNone marks contests that are dropped.
const (
	CategoryNone         Category = ""
	CategoryPresidential Category = "presidential"
	CategoryUSSenate     Category = "us_senate"
	CategoryGovernor     Category = "governor"
	CategoryLtGovernor   Category = "lt_governor"
	CategoryStatewide    Category = "statewide"
)

// Categories lists every kept category in display order.
var Categories = []Category{
	CategoryPresidential,
	CategoryUSSenate,
	CategoryGovernor,
	CategoryLtGovernor,
	CategoryStatewide,
}

// OfficeClassifier maps office titles to categories.
type OfficeClassifier struct {
	rules OfficeRules
}

// NewOfficeClassifier lower-cases the rule tables once.
func NewOfficeClassifier(rules OfficeRules) *OfficeClassifier {
	return &OfficeClassifier{rules: OfficeRules{
		LocalKeywords:      lowerAll(rules.LocalKeywords),
		PresidentialVetoes: lowerAll(rules.PresidentialVetoes),
		SenateKeywords:     lowerAll(rules.SenateKeywords),
		FederalMarkers:     lowerAll(rules.FederalMarkers),
		HouseKeywords:      lowerAll(rules.HouseKeywords),
		LtGovernorPhrases:  lowerAll(rules.LtGovernorPhrases),
		StatewideKeywords:  lowerAll(rules.StatewideKeywords),
	}}
}

// Categorize returns the category for an office title. Rules apply in order:
// local offices are dropped first, then presidential, U.S. Senate, U.S. House
// (dropped unless "state" appears), lieutenant governor before governor, and
// finally the statewide keyword list.
func (c *OfficeClassifier) Categorize(office string) Category {
	o := strings.ToLower(office)
	r := c.rules

	switch {
	case containsAny(o, r.LocalKeywords):
		return CategoryNone
	case strings.Contains(o, "president") && !containsAny(o, r.PresidentialVetoes):
		return CategoryPresidential
	case containsAny(o, r.SenateKeywords) && containsAny(o, r.FederalMarkers):
		return CategoryUSSenate
	case containsAny(o, r.HouseKeywords) && !strings.Contains(o, "state"):
		return CategoryNone
	case containsAny(o, r.LtGovernorPhrases):
		return CategoryLtGovernor
	case strings.Contains(o, "governor"):
		return CategoryGovernor
	case containsAny(o, r.StatewideKeywords):
		return CategoryStatewide
	}
	return CategoryNone
}

// ContestKey derives the stable contest identifier used in the output tree.
func ContestKey(name string) string {
	k := strings.TrimSpace(name)
	k = strings.ReplaceAll(k, " ", "_")
	k = strings.ReplaceAll(k, ".", "")
	k = strings.ReplaceAll(k, ",", "")
	return strings.ToLower(k)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
