package models

import "github.com/paulmach/orb/geojson"

// Feature kinds accepted by the onboarding request.
const (
	FeatureKindFarm = "farm"
	FeatureKindPlot = "plot"
)

// Feature is one labeled boundary in an onboarding request. Exactly one
// feature must carry KindFarm; plot features are optional.
type Feature struct {
	Kind        string            `json:"kind"`
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name,omitempty"`
	CountryCode string            `json:"country_code,omitempty"`
	CropType    string            `json:"crop_type,omitempty"`
	Boundary    *geojson.Geometry `json:"boundary"`
}

// OnboardingRequest is the bulk farm + plots registration payload.
type OnboardingRequest struct {
	Features []Feature `json:"features"`
}

// FarmFeature returns the single farm-tagged feature, or false when absent.
func (r OnboardingRequest) FarmFeature() (Feature, bool) {
	for _, f := range r.Features {
		if f.Kind == FeatureKindFarm {
			return f, true
		}
	}
	return Feature{}, false
}

// PlotFeatures returns the plot-tagged features in request order.
func (r OnboardingRequest) PlotFeatures() []Feature {
	var plots []Feature
	for _, f := range r.Features {
		if f.Kind == FeatureKindPlot {
			plots = append(plots, f)
		}
	}
	return plots
}

// AcceptedPlot reports one persisted plot back to the caller.
type AcceptedPlot struct {
	ID     string  `json:"id"`
	AreaHa float64 `json:"area_ha"`
}

// SkippedPlot reports one rejected plot with its validation reason. Skipping
// plots is non-fatal: the farm registration still succeeds.
type SkippedPlot struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// OnboardingResult is the structured outcome of a successful registration.
type OnboardingResult struct {
	FarmID       string         `json:"farm_id"`
	Version      int            `json:"version"`
	TotalAreaHa  float64        `json:"total_area_ha"`
	Plots        []AcceptedPlot `json:"plots"`
	SkippedPlots []SkippedPlot  `json:"skipped_plots"`
}

// FarmOnboarded is the notification payload published after a successful
// registration. Best-effort: publish failure never rolls the write back.
type FarmOnboarded struct {
	FarmID        string         `json:"farm_id"`
	Name          string         `json:"name"`
	PlotCount     int            `json:"plot_count"`
	TotalAreaHa   float64        `json:"total_area_ha"`
	Plots         []AcceptedPlot `json:"plots"`
	CorrelationID string         `json:"correlation_id"`
}
