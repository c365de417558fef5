package service

import "agrotrace/internal/trace/models"

// Traceability score weights. The score summarizes how much corroborating
// evidence backs a batch's recorded timeline and must be reproducible from
// the timeline contents alone.
const (
	scoreBase          = 20
	scorePerMilestone  = 10
	scoreMilestoneCap  = 50
	scoreVegetation    = 15
	scoreWeather       = 10
	scoreLedgerAnchor  = 15
	scoreHarvestRecord = 10
	scoreMax           = 100
)

// Score computes the deterministic traceability score for a composed
// timeline. Monotonically non-decreasing as milestones and evidence are
// added, capped at 100.
func Score(timeline []models.Milestone) int {
	score := scoreBase

	milestonePoints := len(timeline) * scorePerMilestone
	if milestonePoints > scoreMilestoneCap {
		milestonePoints = scoreMilestoneCap
	}
	score += milestonePoints

	var hasVegetation, hasWeather, hasAnchor, hasHarvest bool
	for _, m := range timeline {
		if m.Vegetation != nil {
			hasVegetation = true
		}
		if m.Weather != nil {
			hasWeather = true
		}
		if m.Anchor != nil {
			hasAnchor = true
		}
		if m.Stage == models.StageHarvest {
			hasHarvest = true
		}
	}
	if hasVegetation {
		score += scoreVegetation
	}
	if hasWeather {
		score += scoreWeather
	}
	if hasAnchor {
		score += scoreLedgerAnchor
	}
	if hasHarvest {
		score += scoreHarvestRecord
	}

	if score > scoreMax {
		score = scoreMax
	}
	return score
}
