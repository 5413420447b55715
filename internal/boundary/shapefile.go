// Package boundary converts county boundary shapefiles to GeoJSON.
package boundary

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/Tenjin25/ARRealignment/internal/fetcher"
)

// ErrProjectedCRS is returned for shapefiles in a projected coordinate system.
// Output coordinates must be longitude/latitude.
var ErrProjectedCRS = eris.New("boundary: projected coordinate system not supported")

// Stats summarizes a conversion.
type Stats struct {
	Features int
	Skipped  int
	Fields   []string
}

// ReadShapefile reads every record of a shapefile into a GeoJSON feature
// collection. All attribute columns become feature properties; numeric
// columns are emitted as numbers.
func ReadShapefile(shpPath string) (*geojson.FeatureCollection, Stats, error) {
	var stats Stats
	if err := checkCRS(shpPath); err != nil {
		return nil, stats, err
	}

	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, stats, eris.Wrapf(err, "boundary: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}
	stats.Fields = names

	fc := &geojson.FeatureCollection{}
	for reader.Next() {
		n, shape := reader.Shape()

		g, err := ToGeom(shape)
		if err != nil || g == nil {
			stats.Skipped++
			zap.L().Debug("boundary: skipping record", zap.Int("record", n), zap.Error(err))
			continue
		}

		props := make(map[string]any, len(fields))
		for i, f := range fields {
			raw := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			props[names[i]] = attributeValue(raw, f)
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   g,
			Properties: props,
		})
	}
	stats.Features = len(fc.Features)

	if stats.Skipped > 0 {
		zap.L().Warn("boundary: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", stats.Skipped),
		)
	}
	return fc, stats, nil
}

// attributeValue types a DBF value: numeric columns become int64 or float64,
// blanks become nil, everything else stays a string.
func attributeValue(raw string, f shp.Field) any {
	if raw == "" {
		return nil
	}
	switch f.Fieldtype {
	case 'N', 'F':
		if f.Precision == 0 {
			if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return v
			}
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return raw
}

// checkCRS inspects the sidecar .prj. A missing file is assumed to be lon/lat.
func checkCRS(shpPath string) error {
	prjPath := strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".prj"
	data, err := os.ReadFile(prjPath)
	if errors.Is(err, fs.ErrNotExist) {
		zap.L().Warn("boundary: no .prj file, assuming longitude/latitude", zap.String("path", shpPath))
		return nil
	}
	if err != nil {
		return eris.Wrapf(err, "boundary: read %s", prjPath)
	}

	wkt := strings.ToUpper(strings.TrimSpace(string(data)))
	switch {
	case strings.HasPrefix(wkt, "PROJCS"):
		return eris.Wrapf(ErrProjectedCRS, "boundary: %s", prjPath)
	case strings.HasPrefix(wkt, "GEOGCS"):
		return nil
	}
	zap.L().Warn("boundary: unrecognized .prj, assuming longitude/latitude", zap.String("path", prjPath))
	return nil
}

// WriteGeoJSON atomically writes fc to path.
func WriteGeoJSON(path string, fc *geojson.FeatureCollection) error {
	err := fetcher.WriteAtomic(path, func(w io.Writer) error {
		return json.NewEncoder(w).Encode(fc)
	})
	if err != nil {
		return eris.Wrapf(err, "boundary: write %s", path)
	}
	return nil
}
