package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrotrace/internal/oracle/models"
	"agrotrace/internal/oracle/service"
	dErrors "agrotrace/pkg/domain-errors"
)

// classes builds a sample set with the given number of clear samples,
// padding the rest with cloud.
func classes(clear, total int) []models.SampleClass {
	out := make([]models.SampleClass, total)
	for i := range out {
		if i < clear {
			out[i] = models.ClassClear
		} else {
			out[i] = models.ClassCloud
		}
	}
	return out
}

func indices(value float64, total int) []float64 {
	out := make([]float64, total)
	for i := range out {
		out[i] = value
	}
	return out
}

func TestAssess(t *testing.T) {
	observedAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	reading := func(clear, total int, index float64) models.RawReading {
		return models.RawReading{
			PlotID:     "FARM-1-P1",
			FarmID:     "FARM-1",
			ObservedAt: observedAt,
			Indices:    indices(index, total),
			Classes:    classes(clear, total),
			TileKey:    "tiles/2026/03/14/x1y2.tif",
		}
	}

	tests := []struct {
		name          string
		reading       models.RawReading
		wantTier      models.QualityTier
		wantRatio     float64
		wantCloudPct  float64
		wantMeanIndex *float64
	}{
		{
			name:          "fully occluded reading is INVALID with nil index",
			reading:       reading(0, 10, 0.6),
			wantTier:      models.TierInvalid,
			wantRatio:     0,
			wantCloudPct:  100,
			wantMeanIndex: nil,
		},
		{
			name:          "ratio below 0.2 is INVALID",
			reading:       reading(1, 10, 0.6),
			wantTier:      models.TierInvalid,
			wantRatio:     0.1,
			wantCloudPct:  90,
			wantMeanIndex: ptr(0.6),
		},
		{
			name:          "ratio exactly 0.2 escapes INVALID",
			reading:       reading(2, 10, 0.6),
			wantTier:      models.TierLow,
			wantRatio:     0.2,
			wantCloudPct:  80,
			wantMeanIndex: ptr(0.6),
		},
		{
			name:          "ratio exactly 0.5 escapes LOW",
			reading:       reading(5, 10, 0.6),
			wantTier:      models.TierMedium,
			wantRatio:     0.5,
			wantCloudPct:  50,
			wantMeanIndex: ptr(0.6),
		},
		{
			name:          "ratio exactly 0.8 is HIGH",
			reading:       reading(8, 10, 0.6),
			wantTier:      models.TierHigh,
			wantRatio:     0.8,
			wantCloudPct:  20,
			wantMeanIndex: ptr(0.6),
		},
		{
			name:          "high ratio with weak signal stays LOW",
			reading:       reading(9, 10, 0.05),
			wantTier:      models.TierLow,
			wantRatio:     0.9,
			wantCloudPct:  10,
			wantMeanIndex: ptr(0.05),
		},
		{
			name:          "cloud percentage rounds to one decimal",
			reading:       reading(3, 7, 0.6),
			wantTier:      models.TierLow,
			wantRatio:     3.0 / 7.0,
			wantCloudPct:  57.1,
			wantMeanIndex: ptr(0.6),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			obs, err := service.Assess(tc.reading)
			require.NoError(t, err)

			assert.Equal(t, tc.wantTier, obs.Tier)
			assert.InDelta(t, tc.wantRatio, obs.ValidRatio, 1e-9)
			assert.InDelta(t, tc.wantCloudPct, obs.CloudPct, 1e-9)
			if tc.wantMeanIndex == nil {
				assert.Nil(t, obs.MeanIndex)
			} else {
				require.NotNil(t, obs.MeanIndex)
				assert.InDelta(t, *tc.wantMeanIndex, *obs.MeanIndex, 1e-9)
			}
			assert.Equal(t, "FARM-1-P1", obs.PlotID)
			assert.Equal(t, observedAt, obs.ObservedAt)
		})
	}
}

// Mean index averages clear samples only; occluded samples must not drag it.
func TestAssessMeanOverClearSamplesOnly(t *testing.T) {
	obs, err := service.Assess(models.RawReading{
		PlotID:     "FARM-1-P1",
		ObservedAt: time.Now(),
		Indices:    []float64{0.8, 0.6, -0.2, -0.1},
		Classes: []models.SampleClass{
			models.ClassClear, models.ClassClear, models.ClassWater, models.ClassShadow,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, obs.MeanIndex)
	assert.InDelta(t, 0.7, *obs.MeanIndex, 1e-9)
	assert.Equal(t, models.TierMedium, obs.Tier)
}

func TestAssessMalformed(t *testing.T) {
	tests := []struct {
		name    string
		reading models.RawReading
	}{
		{
			name:    "no samples",
			reading: models.RawReading{PlotID: "FARM-1-P1"},
		},
		{
			name: "mismatched sample counts",
			reading: models.RawReading{
				PlotID:  "FARM-1-P1",
				Indices: []float64{0.5, 0.6},
				Classes: []models.SampleClass{models.ClassClear},
			},
		},
		{
			name: "classes without indices",
			reading: models.RawReading{
				PlotID:  "FARM-1-P1",
				Classes: []models.SampleClass{models.ClassClear},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			obs, err := service.Assess(tc.reading)
			require.Error(t, err)
			assert.Nil(t, obs)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, service.ReasonMalformedReading, dErrors.ReasonOf(err))
		})
	}
}

func ptr(v float64) *float64 { return &v }
