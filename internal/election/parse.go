package election

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Tenjin25/ARRealignment/internal/competitiveness"
	"github.com/Tenjin25/ARRealignment/internal/fetcher"
)

// ErrUnknownSchema is returned for tables matching neither supported layout.
var ErrUnknownSchema = eris.New("election: unrecognized column layout")

// CountyResolver maps modern-schema location IDs to county names.
type CountyResolver interface {
	CountyName(locationID int) (string, bool)
}

// Processor converts tables into FileResults.
type Processor struct {
	offices  *OfficeClassifier
	attr     *Attributor
	scale    competitiveness.Scale
	counties CountyResolver
}

// NewProcessor builds a Processor from heuristics. counties may be nil when
// only legacy tables are processed.
func NewProcessor(h Heuristics, counties CountyResolver) *Processor {
	return &Processor{
		offices:  NewOfficeClassifier(h.Offices),
		attr:     NewAttributor(h),
		scale:    h.Scale,
		counties: counties,
	}
}

// Categorize exposes the office classifier.
func (p *Processor) Categorize(office string) Category {
	return p.offices.Categorize(office)
}

// Process detects the table's layout and runs the matching parser.
func (p *Processor) Process(t *fetcher.Table) (FileResult, SchemaKind, error) {
	kind := DetectSchema(t)
	var (
		res FileResult
		err error
	)
	switch kind {
	case SchemaModern:
		res, err = p.parseModern(t)
	case SchemaLegacy:
		res, err = p.parseLegacy(t)
	default:
		return nil, kind, eris.Wrapf(ErrUnknownSchema, "election: %s", t.Source)
	}
	if err != nil {
		return nil, kind, err
	}
	return res, kind, nil
}

func (p *Processor) parseModern(t *fetcher.Table) (FileResult, error) {
	if p.counties == nil {
		return nil, eris.Errorf("election: %s: modern layout needs a county lookup", t.Source)
	}
	if err := requireColumns(t, colCandidateName, colCandidateVote, colTotalVotes); err != nil {
		return nil, err
	}

	partyCol := ""
	for _, c := range modernPartyColumns {
		if t.Has(c) {
			partyCol = c
			break
		}
	}

	agg := NewAggregator(p.attr, p.scale, TotalReported)
	unresolved := make(map[string]struct{})
	for _, row := range t.Rows {
		office := t.Get(row, colContestName)
		cat := p.offices.Categorize(office)
		if cat == CategoryNone {
			continue
		}

		rawID := t.Get(row, colLocationID)
		id, ok := ParseLocationID(rawID)
		if !ok {
			unresolved[rawID] = struct{}{}
			continue
		}
		county, ok := p.counties.CountyName(id)
		if !ok {
			unresolved[rawID] = struct{}{}
			continue
		}

		r := ContestRow{
			Category:  cat,
			Office:    office,
			County:    NormalizeCounty(county),
			Candidate: t.Get(row, colCandidateName),
			Votes:     ParseVotes(t.Get(row, colCandidateVote)),
			Total:     ParseVotes(t.Get(row, colTotalVotes)),
		}
		if partyCol != "" {
			r.PartyField = t.Get(row, partyCol)
		}
		agg.Add(r)
	}

	if len(unresolved) > 0 {
		zap.L().Debug("election: location IDs not in county lookup",
			zap.String("source", t.Source),
			zap.Int("count", len(unresolved)),
		)
	}
	return agg.Result(), nil
}

func (p *Processor) parseLegacy(t *fetcher.Table) (FileResult, error) {
	if err := requireColumns(t, colCandidate, colVotes); err != nil {
		return nil, err
	}

	rows := t.Rows
	countyCol := colCounty
	if t.Has(colReportingLevel) {
		rows = make([][]string, 0, len(t.Rows))
		for _, row := range t.Rows {
			if strings.EqualFold(t.Get(row, colReportingLevel), "county") {
				rows = append(rows, row)
			}
		}
		if len(rows) > 0 && t.Has(colJurisdiction) && allBlank(t, rows, colCounty) {
			countyCol = colJurisdiction
		}
	}

	hasParty := t.Has(colParty)
	agg := NewAggregator(p.attr, p.scale, TotalSummed)
	for _, row := range rows {
		office := t.Get(row, colOffice)
		cat := p.offices.Categorize(office)
		if cat == CategoryNone {
			continue
		}
		r := ContestRow{
			Category:  cat,
			Office:    office,
			County:    NormalizeCounty(t.Get(row, countyCol)),
			Candidate: t.Get(row, colCandidate),
			Votes:     ParseVotes(t.Get(row, colVotes)),
		}
		if hasParty {
			r.PartyField = t.Get(row, colParty)
		}
		agg.Add(r)
	}
	return agg.Result(), nil
}

func requireColumns(t *fetcher.Table, cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("election: %s: missing columns %s", t.Source, strings.Join(missing, ", "))
	}
	return nil
}

func allBlank(t *fetcher.Table, rows [][]string, col string) bool {
	for _, row := range rows {
		if t.Get(row, col) != "" {
			return false
		}
	}
	return true
}
