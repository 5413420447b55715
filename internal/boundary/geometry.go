package boundary

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// ToGeom converts a shapefile shape to a go-geom geometry. Returns nil, nil for
// null or unsupported shapes.
func ToGeom(shape shp.Shape) (geom.T, error) {
	if shape == nil {
		return nil, nil
	}

	switch s := shape.(type) {
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{s.X, s.Y}), nil
	case *shp.MultiPoint:
		return geom.NewMultiPointFlat(geom.XY, flatPoints(s.Points)), nil
	case *shp.PolyLine:
		return lines(s.NumParts, s.Parts, s.Points)
	case *shp.Polygon:
		return polygons(s.NumParts, s.Parts, s.Points)
	}
	return nil, nil
}

// splitParts slices a shapefile point array into its parts.
func splitParts(numParts int32, parts []int32, points []shp.Point) [][]shp.Point {
	out := make([][]shp.Point, 0, numParts)
	for i := int32(0); i < numParts && int(i) < len(parts); i++ {
		start := parts[i]
		end := int32(len(points))
		if i+1 < numParts && int(i+1) < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start >= end || int(end) > len(points) {
			continue
		}
		out = append(out, points[start:end])
	}
	return out
}

func lines(numParts int32, parts []int32, points []shp.Point) (geom.T, error) {
	split := splitParts(numParts, parts, points)
	switch len(split) {
	case 0:
		return nil, nil
	case 1:
		return geom.NewLineStringFlat(geom.XY, flatPoints(split[0])), nil
	}

	mls := geom.NewMultiLineString(geom.XY)
	for i, p := range split {
		if err := mls.Push(geom.NewLineStringFlat(geom.XY, flatPoints(p))); err != nil {
			zap.L().Debug("boundary: skipping malformed line part", zap.Int("part", i), zap.Error(err))
		}
	}
	return mls, nil
}

// polygons groups rings into polygons: a clockwise ring starts a new polygon
// and each counter-clockwise ring is a hole in the polygon before it.
func polygons(numParts int32, parts []int32, points []shp.Point) (geom.T, error) {
	var polys []*geom.Polygon
	for i, ring := range splitParts(numParts, parts, points) {
		if len(ring) < 4 {
			zap.L().Debug("boundary: skipping degenerate ring", zap.Int("part", i), zap.Int("points", len(ring)))
			continue
		}
		lr := geom.NewLinearRingFlat(geom.XY, flatPoints(ring))
		if signedArea(ring) > 0 && len(polys) > 0 {
			if err := polys[len(polys)-1].Push(lr); err != nil {
				return nil, eris.Wrapf(err, "boundary: add hole %d", i)
			}
			continue
		}
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(lr); err != nil {
			return nil, eris.Wrapf(err, "boundary: add ring %d", i)
		}
		polys = append(polys, poly)
	}

	switch len(polys) {
	case 0:
		return nil, nil
	case 1:
		return polys[0], nil
	}
	mp := geom.NewMultiPolygon(geom.XY)
	for i, p := range polys {
		if err := mp.Push(p); err != nil {
			return nil, eris.Wrapf(err, "boundary: add polygon %d", i)
		}
	}
	return mp, nil
}

// signedArea is the shoelace sum; negative for clockwise rings.
func signedArea(ring []shp.Point) float64 {
	var a float64
	for i := 0; i < len(ring)-1; i++ {
		a += ring[i].X*ring[i+1].Y - ring[i+1].X*ring[i].Y
	}
	return a / 2
}

func flatPoints(points []shp.Point) []float64 {
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.X, p.Y)
	}
	return flat
}
