// Package polygon validates boundary geometry and derives the spatial metrics
// stored alongside farms and plots.
//
// Validation and derivation are deliberately separate functions over the same
// orb primitives so each is independently testable: Validate never computes
// centroids and Derive never re-checks topology.
package polygon

import (
	"github.com/paulmach/orb"

	dErrors "agrotrace/pkg/domain-errors"
)

// MinAreaHa is the smallest boundary any geometry may enclose. Farm-level
// bounds are tighter and enforced by the registrar.
const MinAreaHa = 0.01

// Validate checks a boundary geometry's topology and numeric ranges.
//
// Rules apply in order, first failure wins:
//  1. geometry must be a Polygon or MultiPolygon
//  2. no ring may self-intersect
//  3. a simple Polygon's outer ring must be counter-clockwise (holes are
//     expected clockwise but not asserted)
//  4. enclosed area must be at least MinAreaHa
//  5. all coordinates must be within longitude [-180,180], latitude [-90,90]
//
// Pure: no side effects, no derived values. Use Derive for area, centroid and
// bounding box.
func Validate(g orb.Geometry) error {
	var polys []orb.Polygon
	switch geom := g.(type) {
	case orb.Polygon:
		polys = []orb.Polygon{geom}
	case orb.MultiPolygon:
		polys = geom
	default:
		return dErrors.New(dErrors.CodeValidation, "not a polygon or multipolygon")
	}
	if len(polys) == 0 || len(polys[0]) == 0 {
		return dErrors.New(dErrors.CodeValidation, "not a polygon or multipolygon")
	}

	for _, poly := range polys {
		for _, ring := range poly {
			if ringSelfIntersects(ring) {
				return dErrors.New(dErrors.CodeValidation, "self-intersecting polygon detected")
			}
		}
	}

	// The source only asserted orientation for simple polygons; multipolygon
	// member orientation is left to the producer.
	if poly, ok := g.(orb.Polygon); ok {
		if poly[0].Orientation() != orb.CCW {
			return dErrors.New(dErrors.CodeValidation, "outer ring must be counter-clockwise")
		}
	}

	if AreaHa(g) < MinAreaHa {
		return dErrors.New(dErrors.CodeValidation, "area too small")
	}

	for _, poly := range polys {
		for _, ring := range poly {
			for _, pt := range ring {
				if pt.Lon() < -180 || pt.Lon() > 180 || pt.Lat() < -90 || pt.Lat() > 90 {
					return dErrors.New(dErrors.CodeValidation, "invalid longitude/latitude values")
				}
			}
		}
	}
	return nil
}

// ringSelfIntersects reports whether any two non-adjacent segments of the
// ring cross. O(n^2) over the segment count, which is fine for the vertex
// counts farm boundaries carry.
func ringSelfIntersects(ring orb.Ring) bool {
	n := len(ring)
	if n < 4 { // a closed triangle has 4 points
		return false
	}
	// Segments are ring[i] -> ring[i+1] for i in [0, n-2]; the ring is
	// closed so the last point repeats the first.
	segs := n - 1
	for i := 0; i < segs; i++ {
		for j := i + 1; j < segs; j++ {
			// Adjacent segments share an endpoint by construction;
			// the first and last segments are adjacent through the
			// ring closure.
			if j == i+1 || (i == 0 && j == segs-1) {
				continue
			}
			if segmentsCross(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}
	return false
}

// segmentsCross reports whether segments pq and rs properly intersect or
// overlap collinearly.
func segmentsCross(p, q, r, s orb.Point) bool {
	d1 := cross(r, s, p)
	d2 := cross(r, s, q)
	d3 := cross(p, q, r)
	d4 := cross(p, q, s)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	// Collinear overlap counts as self-intersection.
	if d1 == 0 && onSegment(r, s, p) {
		return true
	}
	if d2 == 0 && onSegment(r, s, q) {
		return true
	}
	if d3 == 0 && onSegment(p, q, r) {
		return true
	}
	if d4 == 0 && onSegment(p, q, s) {
		return true
	}
	return false
}

// cross returns the z-component of (b-a) x (c-a).
func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// onSegment assumes c is collinear with ab and reports whether c lies within
// the segment's bounding box.
func onSegment(a, b, c orb.Point) bool {
	return min(a[0], b[0]) <= c[0] && c[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= c[1] && c[1] <= max(a[1], b[1])
}
