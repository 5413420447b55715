package results

import (
	"encoding/json"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/Tenjin25/ARRealignment/internal/fetcher"
)

// Write serializes doc as indented JSON and atomically replaces path.
// Without metadata only the results_by_year tree is written.
func Write(path string, doc *Document) error {
	var v any = doc
	if doc.Metadata == nil {
		v = doc.ResultsByYear
	}

	err := fetcher.WriteAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	})
	if err != nil {
		return eris.Wrapf(err, "results: write %s", path)
	}
	return nil
}

// Read loads a document written by Write, with or without metadata.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "results: read %s", path)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, eris.Wrap(err, "results: decode")
	}

	doc := &Document{}
	if _, wrapped := probe["results_by_year"]; wrapped {
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, eris.Wrap(err, "results: decode document")
		}
	} else if err := json.Unmarshal(data, &doc.ResultsByYear); err != nil {
		return nil, eris.Wrap(err, "results: decode results tree")
	}

	if doc.ResultsByYear == nil {
		doc.ResultsByYear = map[string]map[string]map[string]ContestDoc{}
	}
	return doc, nil
}

// Lookup finds one county record. Category and contest may be empty to take
// the first match in sorted key order.
func (d *Document) Lookup(year, category, contest, county string) (Record, bool) {
	for _, cat := range slices.Sorted(maps.Keys(d.ResultsByYear[year])) {
		if category != "" && cat != category {
			continue
		}
		contests := d.ResultsByYear[year][cat]
		for _, key := range slices.Sorted(maps.Keys(contests)) {
			if contest != "" && key != contest {
				continue
			}
			if r, ok := contests[key].Results[county]; ok {
				return r, true
			}
		}
	}
	return Record{}, false
}
