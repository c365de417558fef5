// Package service turns raw satellite and weather readings into
// quality-scored oracle observations.
package service

import (
	"math"

	"agrotrace/internal/oracle/models"
	dErrors "agrotrace/pkg/domain-errors"
)

// Tier thresholds over the valid-sample ratio, and the minimum mean index
// below which a reading cannot rise above LOW.
const (
	invalidRatioBelow = 0.2
	lowRatioBelow     = 0.5
	mediumRatioBelow  = 0.8
	minSignalIndex    = 0.1
)

// ReasonMalformedReading is returned for inconsistent or empty sample sets.
const ReasonMalformedReading = "malformed reading: sample counts missing or inconsistent"

// Assess converts one raw reading into a quality-scored observation.
//
// A sample is invalid when classified as cloud, shadow, snow, water or
// unclassified. The mean vegetation index is computed over valid samples
// only; when no sample is valid the index is nil (indeterminate), never
// zero. Malformed input is rejected; retries belong to the upstream
// ingestion collaborator, never to this function.
func Assess(reading models.RawReading) (*models.OracleObservation, error) {
	total := len(reading.Indices)
	if total == 0 || total != len(reading.Classes) {
		return nil, dErrors.New(dErrors.CodeValidation, ReasonMalformedReading)
	}

	var validCount int
	var sum float64
	for i, class := range reading.Classes {
		if class != models.ClassClear {
			continue
		}
		validCount++
		sum += reading.Indices[i]
	}

	validRatio := float64(validCount) / float64(total)

	var meanIndex *float64
	if validCount > 0 {
		mean := sum / float64(validCount)
		meanIndex = &mean
	}

	return &models.OracleObservation{
		PlotID:     reading.PlotID,
		FarmID:     reading.FarmID,
		ObservedAt: reading.ObservedAt,
		MeanIndex:  meanIndex,
		CloudPct:   round1((1 - validRatio) * 100),
		ValidRatio: validRatio,
		Tier:       tierFor(validRatio, meanIndex),
		Weather:    reading.Weather,
		TileKey:    reading.TileKey,
	}, nil
}

func tierFor(validRatio float64, meanIndex *float64) models.QualityTier {
	switch {
	case validRatio < invalidRatioBelow:
		return models.TierInvalid
	case validRatio < lowRatioBelow || (meanIndex != nil && *meanIndex < minSignalIndex):
		return models.TierLow
	case validRatio < mediumRatioBelow:
		return models.TierMedium
	default:
		return models.TierHigh
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
