// Package models defines the farm geometry registry's persisted aggregates
// and the onboarding request/result shapes.
package models

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Farm area bounds in hectares. Plots only carry the global geometry minimum.
const (
	MinFarmAreaHa = 0.1
	MaxFarmAreaHa = 10_000
	MinPlotAreaHa = 0.01
)

// Geohash precisions: farms index at ~4.9km cells, plots at ~150m cells.
const (
	FarmGeohashPrecision = 5
	PlotGeohashPrecision = 7
)

// Point is a WGS84 coordinate.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// BoundingBox is an axis-aligned lon/lat envelope.
type BoundingBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// PointFrom converts an orb point.
func PointFrom(p orb.Point) Point {
	return Point{Lon: p.Lon(), Lat: p.Lat()}
}

// BoundFrom converts an orb bound.
func BoundFrom(b orb.Bound) BoundingBox {
	return BoundingBox{
		MinLon: b.Min.Lon(), MinLat: b.Min.Lat(),
		MaxLon: b.Max.Lon(), MaxLat: b.Max.Lat(),
	}
}

// Farm is the aggregate root of the geometry registry.
//
// Invariants:
//   - AreaHa is within [MinFarmAreaHa, MaxFarmAreaHa]
//   - Boundary's outer ring is simple and counter-clockwise
//   - a farm is created exactly once: re-registration under the same ID is a
//     conflict, never an overwrite, even under concurrent onboarding
//   - Version starts at 1 and is monotonic
type Farm struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	CountryCode string            `json:"country_code"`
	Boundary    *geojson.Geometry `json:"boundary"`
	Centroid    Point             `json:"centroid"`
	BoundingBox BoundingBox       `json:"bounding_box"`
	AreaHa      float64           `json:"area_ha"`
	Geohash     string            `json:"geohash"`
	Version     int               `json:"version"`
	CreatedAt   time.Time         `json:"created_at"`
	CreatedBy   string            `json:"created_by"`
}

// Plot is a sub-boundary of a farm, stored independently. A plot cannot
// outlive its farm conceptually, but deletion cascades are left to the
// surrounding platform.
type Plot struct {
	ID       string            `json:"id"`
	FarmID   string            `json:"farm_id"`
	Boundary *geojson.Geometry `json:"boundary"`
	Centroid Point             `json:"centroid"`
	AreaHa   float64           `json:"area_ha"`
	Geohash  string            `json:"geohash"`
	CropType string            `json:"crop_type"`
	Version  int               `json:"version"`
}

// PlotID derives the stable plot identifier from the farm and the 1-based
// plot sequence, e.g. FARM-1-P3.
func PlotID(farmID string, seq int) string {
	return fmt.Sprintf("%s-P%d", farmID, seq)
}
