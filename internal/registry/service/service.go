// Package service orchestrates farm and plot onboarding.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/paulmach/orb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"agrotrace/internal/events"
	"agrotrace/internal/geo/geohash"
	"agrotrace/internal/geo/polygon"
	"agrotrace/internal/registry/metrics"
	"agrotrace/internal/registry/models"
	"agrotrace/internal/registry/store"
	dErrors "agrotrace/pkg/domain-errors"
	"agrotrace/pkg/platform/sentinel"
	"agrotrace/pkg/requestcontext"
)

// Caller-facing reasons for the distinct registration outcomes.
const (
	ReasonMissingFarmFeature = "onboarding request must contain exactly one farm feature"
	ReasonAreaOutOfRange     = "farm area outside allowed range"
	ReasonDuplicateFarm      = "farm identifier already registered"
)

// Registrar runs the onboarding flow: validate the farm boundary, derive its
// spatial metrics, persist with a uniqueness guarantee, persist whatever
// plots survive validation, and emit one best-effort onboarding notification.
type Registrar struct {
	farms     store.FarmStore
	plots     store.PlotStore
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// Option configures the Registrar.
type Option func(*Registrar)

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registrar) { r.metrics = m }
}

// NewRegistrar creates a Registrar. The publisher may be nil when no event
// bus is wired (tests, local runs); publishing is skipped in that case.
func NewRegistrar(farms store.FarmStore, plots store.PlotStore, publisher events.Publisher, logger *slog.Logger, opts ...Option) *Registrar {
	r := &Registrar{
		farms:     farms,
		plots:     plots,
		publisher: publisher,
		logger:    logger,
		tracer:    otel.Tracer("agrotrace/registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterFarm onboards one farm and its plots.
//
// The farm write is an atomic create-if-absent: concurrent registrations of
// the same identifier resolve to exactly one success and one conflict.
// Invalid plots are skipped with a per-plot reason instead of aborting the
// request; an invalid farm boundary aborts the whole request. Publish failure
// after a successful write is logged and swallowed.
func (s *Registrar) RegisterFarm(ctx context.Context, req models.OnboardingRequest) (*models.OnboardingResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "registry.RegisterFarm")
	defer span.End()

	farmFeature, ok := req.FarmFeature()
	if !ok {
		return nil, dErrors.New(dErrors.CodeValidation, ReasonMissingFarmFeature)
	}

	farm, err := s.buildFarm(ctx, farmFeature)
	if err != nil {
		return nil, err
	}

	if err := s.farms.Create(ctx, farm); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			if s.metrics != nil {
				s.metrics.DuplicateFarms.Inc()
			}
			return nil, dErrors.New(dErrors.CodeConflict, ReasonDuplicateFarm)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "persist farm")
	}

	accepted, skipped, err := s.registerPlots(ctx, farm.ID, req.PlotFeatures())
	if err != nil {
		return nil, err
	}

	result := &models.OnboardingResult{
		FarmID:       farm.ID,
		Version:      farm.Version,
		TotalAreaHa:  polygon.RoundHa(farm.AreaHa),
		Plots:        accepted,
		SkippedPlots: skipped,
	}

	s.notifyOnboarded(ctx, farm, result)

	if s.metrics != nil {
		s.metrics.FarmsRegistered.Inc()
		s.metrics.ObserveRegister(start)
	}
	s.logger.InfoContext(ctx, "farm registered",
		"farm_id", farm.ID,
		"area_ha", result.TotalAreaHa,
		"plots", len(accepted),
		"skipped_plots", len(skipped),
		"correlation_id", requestcontext.CorrelationID(ctx),
	)
	return result, nil
}

// buildFarm validates the farm boundary and derives its stored metrics.
func (s *Registrar) buildFarm(ctx context.Context, feature models.Feature) (*models.Farm, error) {
	if feature.ID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "farm feature requires an identifier")
	}
	geom, err := featureGeometry(feature)
	if err != nil {
		return nil, err
	}
	if err := polygon.Validate(geom); err != nil {
		return nil, err
	}
	derived, err := polygon.Derive(geom)
	if err != nil {
		return nil, err
	}
	if derived.AreaHa < models.MinFarmAreaHa || derived.AreaHa > models.MaxFarmAreaHa {
		return nil, dErrors.New(dErrors.CodeValidation, ReasonAreaOutOfRange)
	}
	hash, err := geohash.Encode(derived.Centroid.Lat(), derived.Centroid.Lon(), models.FarmGeohashPrecision)
	if err != nil {
		return nil, err
	}
	return &models.Farm{
		ID:          feature.ID,
		Name:        feature.Name,
		CountryCode: feature.CountryCode,
		Boundary:    feature.Boundary,
		Centroid:    models.PointFrom(derived.Centroid),
		BoundingBox: models.BoundFrom(derived.BoundingBox),
		AreaHa:      derived.AreaHa,
		Geohash:     hash,
		Version:     1,
		CreatedAt:   requestcontext.Now(ctx),
		CreatedBy:   requestcontext.Principal(ctx),
	}, nil
}

// registerPlots validates and persists each plot feature independently.
// Validation failures skip the plot; persistence failures abort, because the
// farm write already succeeded and silently dropping a valid plot would leave
// the caller with a result that misstates what was stored.
func (s *Registrar) registerPlots(ctx context.Context, farmID string, features []models.Feature) ([]models.AcceptedPlot, []models.SkippedPlot, error) {
	accepted := []models.AcceptedPlot{}
	skipped := []models.SkippedPlot{}

	for i, feature := range features {
		plotID := models.PlotID(farmID, i+1)
		plot, err := s.buildPlot(feature, farmID, plotID)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeValidation) {
				s.logger.WarnContext(ctx, "skipping invalid plot",
					"plot_id", plotID,
					"reason", dErrors.ReasonOf(err),
					"correlation_id", requestcontext.CorrelationID(ctx),
				)
				skipped = append(skipped, models.SkippedPlot{ID: plotID, Reason: dErrors.ReasonOf(err)})
				if s.metrics != nil {
					s.metrics.PlotsSkipped.Inc()
				}
				continue
			}
			return nil, nil, err
		}
		if err := s.plots.Save(ctx, plot); err != nil {
			return nil, nil, dErrors.Wrap(err, dErrors.CodeDependency, "persist plot")
		}
		accepted = append(accepted, models.AcceptedPlot{ID: plot.ID, AreaHa: polygon.RoundHa(plot.AreaHa)})
		if s.metrics != nil {
			s.metrics.PlotsAccepted.Inc()
		}
	}
	return accepted, skipped, nil
}

func (s *Registrar) buildPlot(feature models.Feature, farmID, plotID string) (*models.Plot, error) {
	geom, err := featureGeometry(feature)
	if err != nil {
		return nil, err
	}
	if err := polygon.Validate(geom); err != nil {
		return nil, err
	}
	derived, err := polygon.Derive(geom)
	if err != nil {
		return nil, err
	}
	hash, err := geohash.Encode(derived.Centroid.Lat(), derived.Centroid.Lon(), models.PlotGeohashPrecision)
	if err != nil {
		return nil, err
	}
	return &models.Plot{
		ID:       plotID,
		FarmID:   farmID,
		Boundary: feature.Boundary,
		Centroid: models.PointFrom(derived.Centroid),
		AreaHa:   derived.AreaHa,
		Geohash:  hash,
		CropType: feature.CropType,
		Version:  1,
	}, nil
}

// notifyOnboarded publishes the onboarding-completed event. Best-effort: the
// farm write is the source of truth and a publish failure never rolls it
// back.
func (s *Registrar) notifyOnboarded(ctx context.Context, farm *models.Farm, result *models.OnboardingResult) {
	if s.publisher == nil {
		return
	}
	correlationID := requestcontext.CorrelationID(ctx)
	payload := models.FarmOnboarded{
		FarmID:        farm.ID,
		Name:          farm.Name,
		PlotCount:     len(result.Plots),
		TotalAreaHa:   result.TotalAreaHa,
		Plots:         result.Plots,
		CorrelationID: correlationID,
	}
	if err := s.publisher.Publish(ctx, events.TopicFarmOnboarded, payload, correlationID); err != nil {
		s.logger.WarnContext(ctx, "onboarding notification failed",
			"farm_id", farm.ID,
			"error", err,
			"correlation_id", correlationID,
		)
	}
}

func featureGeometry(feature models.Feature) (orb.Geometry, error) {
	if feature.Boundary == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "not a polygon or multipolygon")
	}
	return feature.Boundary.Geometry(), nil
}
