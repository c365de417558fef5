// Package geohash derives base-32 spatial index keys from raw coordinates.
package geohash

import (
	dErrors "agrotrace/pkg/domain-errors"
)

// base32 is the standard geohash alphabet. Note the missing a, i, l, o.
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

const (
	// MinPrecision and MaxPrecision bound the supported key lengths.
	// Precision 5 (~4.9km cells) indexes farms, precision 7 (~150m cells)
	// indexes plots.
	MinPrecision = 1
	MaxPrecision = 12
)

// Encode returns the geohash of length precision for the given coordinate.
//
// The encoding interleaves binary subdivisions of the longitude and latitude
// ranges, starting with longitude; every 5 accumulated bits map to one symbol
// of the base-32 alphabet. Deterministic for in-range input.
func Encode(lat, lon float64, precision int) (string, error) {
	if precision < MinPrecision || precision > MaxPrecision {
		return "", dErrors.Newf(dErrors.CodeValidation, "precision must be between %d and %d", MinPrecision, MaxPrecision)
	}
	if lat < -90 || lat > 90 {
		return "", dErrors.New(dErrors.CodeValidation, "latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return "", dErrors.New(dErrors.CodeValidation, "longitude must be between -180 and 180")
	}

	latMin, latMax := -90.0, 90.0
	lonMin, lonMax := -180.0, 180.0

	out := make([]byte, 0, precision)
	var bits, symbol int
	evenBit := true // longitude first

	for len(out) < precision {
		if evenBit {
			mid := (lonMin + lonMax) / 2
			if lon >= mid {
				symbol = symbol<<1 | 1
				lonMin = mid
			} else {
				symbol <<= 1
				lonMax = mid
			}
		} else {
			mid := (latMin + latMax) / 2
			if lat >= mid {
				symbol = symbol<<1 | 1
				latMin = mid
			} else {
				symbol <<= 1
				latMax = mid
			}
		}
		evenBit = !evenBit

		bits++
		if bits == 5 {
			out = append(out, base32[symbol])
			bits, symbol = 0, 0
		}
	}
	return string(out), nil
}
