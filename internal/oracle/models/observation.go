// Package models defines raw oracle readings and the quality-scored
// observations derived from them.
package models

import (
	"fmt"
	"time"
)

// QualityTier buckets the reliability of one observation based on its
// valid-sample ratio and signal strength.
type QualityTier string

const (
	TierHigh    QualityTier = "HIGH"
	TierMedium  QualityTier = "MEDIUM"
	TierLow     QualityTier = "LOW"
	TierInvalid QualityTier = "INVALID"
)

// SampleClass labels one satellite sample. Anything other than clear is
// invalid for vegetation-index purposes; water is specifically invalid for
// vegetation even though it is fine for weather.
type SampleClass string

const (
	ClassClear        SampleClass = "clear"
	ClassCloud        SampleClass = "cloud"
	ClassShadow       SampleClass = "shadow"
	ClassSnow         SampleClass = "snow"
	ClassWater        SampleClass = "water"
	ClassUnclassified SampleClass = "unclassified"
)

// WeatherSnapshot is the weather reading associated with an observation or
// milestone.
type WeatherSnapshot struct {
	TemperatureC    float64 `json:"temperature_c"`
	HumidityPct     float64 `json:"humidity_pct"`
	PrecipitationMM float64 `json:"precipitation_mm"`
}

// RawReading is one satellite-derived reading for a plot: per-sample
// vegetation index values with a parallel classification mask, plus an
// optional weather reading. Pixel-level index computation happens upstream;
// this pipeline only consumes the per-sample values.
type RawReading struct {
	PlotID     string           `json:"plot_id"`
	FarmID     string           `json:"farm_id"`
	ObservedAt time.Time        `json:"observed_at"`
	Indices    []float64        `json:"indices"`
	Classes    []SampleClass    `json:"classes"`
	TileKey    string           `json:"tile_key,omitempty"`
	Weather    *WeatherSnapshot `json:"weather,omitempty"`
}

// OracleObservation is a quality-scored vegetation-health observation.
// Immutable once written; the store applies the retention window.
//
// MeanIndex is nil when every sample was occluded: "no data", never
// "zero health".
type OracleObservation struct {
	PlotID     string           `json:"plot_id"`
	FarmID     string           `json:"farm_id"`
	ObservedAt time.Time        `json:"observed_at"`
	MeanIndex  *float64         `json:"mean_index"`
	CloudPct   float64          `json:"cloud_pct"`
	ValidRatio float64          `json:"valid_ratio"`
	Tier       QualityTier      `json:"tier"`
	Weather    *WeatherSnapshot `json:"weather,omitempty"`
	TileKey    string           `json:"tile_key,omitempty"`
}

// Key returns the storage key for this observation.
func (o OracleObservation) Key() string {
	return ObservationKey(o.PlotID, o.ObservedAt)
}

// ObservationKey builds the opaque storage key for a plot observation.
func ObservationKey(plotID string, observedAt time.Time) string {
	return fmt.Sprintf("obs:%s:%d", plotID, observedAt.Unix())
}
