// Package election turns raw election-result tables into per-county, per-contest vote tallies.
package election

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/Tenjin25/ARRealignment/internal/competitiveness"
)

// Heuristics holds the curated lookup tables that drive office categorization,
// party attribution and candidate display names.
type Heuristics struct {
	DemocraticPatterns []string              `yaml:"democratic_patterns"`
	RepublicanPatterns []string              `yaml:"republican_patterns"`
	TitlePrefixes      []string              `yaml:"title_prefixes"`
	Offices            OfficeRules           `yaml:"offices"`
	Scale              competitiveness.Scale `yaml:"competitiveness"`
}

// OfficeRules lists the keyword tables used by Categorize, in priority order.
type OfficeRules struct {
	LocalKeywords      []string `yaml:"local_keywords"`
	PresidentialVetoes []string `yaml:"presidential_vetoes"`
	SenateKeywords     []string `yaml:"senate_keywords"`
	FederalMarkers     []string `yaml:"federal_markers"`
	HouseKeywords      []string `yaml:"house_keywords"`
	LtGovernorPhrases  []string `yaml:"lt_governor_phrases"`
	StatewideKeywords  []string `yaml:"statewide_keywords"`
}

// DefaultHeuristics returns the built-in Arkansas tables.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		DemocraticPatterns: []string{
			"harris", "walz", "biden", "obama", "kerry", "gore",
			"james", "natalie", "clinton", "hillary", "pryor", "berry",
			"snyder", "ross", "fisher", "sheffield", "daniels", "wingfield",
			"wood", "wilcox", "jones", "chris jones", "whitaker", "pam",
		},
		RepublicanPatterns: []string{
			"trump", "vance", "romney", "mccain", "bush",
			"boozman", "john", "hutchinson", "cotton", "robinson",
			"sanders", "huckabee", "lowery", "mark lowery",
		},
		TitlePrefixes: []string{
			"State Treasurer", "State Representative", "State Senator", "State Auditor",
			"Lieutenant Governor", "Lt. Governor", "Lt Governor", "Attorney General",
			"Vice President", "Commissioner of State Lands", "Land Commissioner",
			"County Clerk", "Circuit Judge", "County Judge", "Congressman", "Congresswoman",
			"Representative", "Councilwoman", "Councilman", "Commissioner", "Senator",
			"President", "Governor", "Secretary", "Auditor", "Judge", "Mayor", "Former",
			"Current", "Sen.", "Sen", "Rep.", "Rep", "Gov.", "Gov", "AG",
		},
		Offices: OfficeRules{
			LocalKeywords: []string{
				"constable", "alderman", "city", "ward", "township", "county clerk",
				"county judge", "circuit", "prosecuting", "justice of the peace",
				"coroner", "assessor", "collector", "sheriff", "recorder", "surveyor",
			},
			PresidentialVetoes: []string{"vice"},
			SenateKeywords:     []string{"senate", "senator"},
			FederalMarkers:     []string{"u.s", "us senate", "united states"},
			HouseKeywords:      []string{"congress", "u.s. house", "representative", "district"},
			LtGovernorPhrases:  []string{"lieutenant governor", "lt governor", "lt. governor"},
			StatewideKeywords: []string{
				"state treasurer", "attorney general", "secretary of state", "state auditor",
				"auditor of state", "commissioner of state lands", "land commissioner",
			},
		},
		Scale: competitiveness.DefaultScale(),
	}
}

// LoadHeuristics reads a YAML file layered over DefaultHeuristics. Any table
// present in the file replaces the built-in table of the same name.
func LoadHeuristics(path string) (Heuristics, error) {
	h := DefaultHeuristics()
	if path == "" {
		return h, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return h, eris.Wrapf(err, "election: read heuristics %s", path)
	}

	if err := yaml.Unmarshal(data, &h); err != nil {
		return h, eris.Wrap(err, "election: parse heuristics")
	}

	if err := h.Scale.Validate(); err != nil {
		return h, eris.Wrap(err, "election: heuristics")
	}

	return h, nil
}
