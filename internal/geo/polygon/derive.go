package polygon

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"

	dErrors "agrotrace/pkg/domain-errors"
)

// Metrics carries the spatial values derived from a validated boundary.
type Metrics struct {
	AreaHa      float64
	Centroid    orb.Point
	BoundingBox orb.Bound
}

// AreaHa computes the geodesic area of the geometry in hectares. Holes
// subtract from the enclosed area.
func AreaHa(g orb.Geometry) float64 {
	return math.Abs(geo.Area(g)) / 10_000
}

// Derive computes the stored spatial metrics for a boundary. Callers are
// expected to run Validate first; Derive only rejects geometry types it
// cannot measure.
func Derive(g orb.Geometry) (Metrics, error) {
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return Metrics{}, dErrors.New(dErrors.CodeValidation, "not a polygon or multipolygon")
	}
	centroid, _ := planar.CentroidArea(g)
	return Metrics{
		AreaHa:      AreaHa(g),
		Centroid:    centroid,
		BoundingBox: g.Bound(),
	}, nil
}

// RoundHa rounds an area to two decimal places for presentation and event
// payloads. Stored values keep full precision.
func RoundHa(areaHa float64) float64 {
	return math.Round(areaHa*100) / 100
}
