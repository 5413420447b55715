package election

import "github.com/Tenjin25/ARRealignment/internal/fetcher"

// SchemaKind is the detected layout of an input table.
type SchemaKind int

// Supported layouts.
const (
	SchemaUnknown SchemaKind = iota
	// SchemaModern is the Secretary of State export: one row per candidate per
	// location ID, with a precomputed total per contest and location.
	SchemaModern
	// SchemaLegacy is the OpenElections layout: one row per candidate per county
	// (or precinct), totals derived by summing.
	SchemaLegacy
)

// Column names.
const (
	colContestName   = "Contest Name"
	colLocationID    = "Location ID"
	colCandidateName = "Candidate Name"
	colCandidateVote = "Candidate Votes"
	colTotalVotes    = "Total Votes"

	colOffice         = "office"
	colCounty         = "county"
	colCandidate      = "candidate"
	colParty          = "party"
	colVotes          = "votes"
	colJurisdiction   = "jurisdiction"
	colReportingLevel = "reporting_level"
)

// modernPartyColumns are checked in order for an optional party field.
var modernPartyColumns = []string{"Party", "Party Name", "Candidate Party"}

func (k SchemaKind) String() string {
	switch k {
	case SchemaModern:
		return "modern"
	case SchemaLegacy:
		return "legacy"
	}
	return "unknown"
}

// DetectSchema picks the layout from the header. Modern wins when a table
// carries both sets of columns.
func DetectSchema(t *fetcher.Table) SchemaKind {
	switch {
	case t.Has(colContestName) && t.Has(colLocationID):
		return SchemaModern
	case t.Has(colOffice) && t.Has(colCounty):
		return SchemaLegacy
	}
	return SchemaUnknown
}
