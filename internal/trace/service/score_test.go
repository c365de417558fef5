package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	oraclemodels "agrotrace/internal/oracle/models"
	"agrotrace/internal/trace/models"
	"agrotrace/internal/trace/service"
)

func milestones(n int) []models.Milestone {
	out := make([]models.Milestone, n)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = models.Milestone{Stage: "processing", Timestamp: base.AddDate(0, 0, i)}
	}
	return out
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		timeline []models.Milestone
		want     int
	}{
		{"empty timeline scores the base", nil, 20},
		{"one milestone", milestones(1), 30},
		{"milestone points cap at five", milestones(5), 70},
		{"sixth milestone adds nothing", milestones(6), 70},
		{
			"vegetation evidence",
			func() []models.Milestone {
				tl := milestones(1)
				tl[0].Vegetation = &models.VegetationSnapshot{IndexScore: 62.0}
				return tl
			}(),
			45,
		},
		{
			"weather evidence",
			func() []models.Milestone {
				tl := milestones(1)
				tl[0].Weather = &oraclemodels.WeatherSnapshot{TemperatureC: 24}
				return tl
			}(),
			40,
		},
		{
			"ledger anchor",
			func() []models.Milestone {
				tl := milestones(1)
				tl[0].Anchor = &models.LedgerAnchor{TxHash: "0xabc"}
				return tl
			}(),
			45,
		},
		{
			"harvest stage",
			func() []models.Milestone {
				tl := milestones(1)
				tl[0].Stage = models.StageHarvest
				return tl
			}(),
			40,
		},
		{
			"everything caps at one hundred",
			func() []models.Milestone {
				tl := milestones(6)
				tl[0].Stage = models.StageHarvest
				tl[1].Vegetation = &models.VegetationSnapshot{IndexScore: 62.0}
				tl[2].Weather = &oraclemodels.WeatherSnapshot{TemperatureC: 24}
				tl[3].Anchor = &models.LedgerAnchor{TxHash: "0xabc"}
				return tl
			}(),
			100,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, service.Score(tc.timeline))
		})
	}
}

// Adding a milestone or evidence must never lower the score.
func TestScoreMonotonic(t *testing.T) {
	prev := service.Score(nil)
	for n := 1; n <= 10; n++ {
		got := service.Score(milestones(n))
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}

	tl := milestones(3)
	before := service.Score(tl)
	tl[1].Anchor = &models.LedgerAnchor{TxHash: "0xabc"}
	assert.GreaterOrEqual(t, service.Score(tl), before)
}
