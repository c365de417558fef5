package service

import (
	"context"
	"log/slog"
	"time"

	"agrotrace/internal/events"
	"agrotrace/internal/oracle/metrics"
	"agrotrace/internal/oracle/models"
	"agrotrace/internal/oracle/store"
	dErrors "agrotrace/pkg/domain-errors"
	"agrotrace/pkg/requestcontext"
)

// Ingestor runs one assessment cycle over a batch of raw readings supplied
// by the external ingestion collaborator. Periodic scheduling lives outside
// this core.
type Ingestor struct {
	observations store.ObservationStore
	publisher    events.Publisher
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

// IngestorOption configures the Ingestor.
type IngestorOption func(*Ingestor)

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) IngestorOption {
	return func(i *Ingestor) { i.metrics = m }
}

// WithPublisher wires a notification publisher for produced observations.
func WithPublisher(p events.Publisher) IngestorOption {
	return func(i *Ingestor) { i.publisher = p }
}

func NewIngestor(observations store.ObservationStore, logger *slog.Logger, opts ...IngestorOption) *Ingestor {
	ing := &Ingestor{observations: observations, logger: logger}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// CycleSummary reports one ingestion cycle's outcome.
type CycleSummary struct {
	Assessed  int `json:"assessed"`
	Malformed int `json:"malformed"`
}

// IngestCycle assesses each reading and persists the resulting observation.
// Malformed readings are counted and skipped; a storage failure aborts the
// cycle since later readings would land out of order with no record of the
// gap.
func (i *Ingestor) IngestCycle(ctx context.Context, readings []models.RawReading) (CycleSummary, error) {
	start := time.Now()
	var summary CycleSummary

	for _, reading := range readings {
		obs, err := Assess(reading)
		if err != nil {
			summary.Malformed++
			if i.metrics != nil {
				i.metrics.MalformedReadings.Inc()
			}
			i.logger.WarnContext(ctx, "skipping malformed reading",
				"plot_id", reading.PlotID,
				"error", err,
			)
			continue
		}
		if err := i.observations.Save(ctx, obs); err != nil {
			return summary, dErrors.Wrap(err, dErrors.CodeDependency, "persist observation")
		}
		summary.Assessed++
		if i.metrics != nil {
			i.metrics.ObservationsByTier.WithLabelValues(string(obs.Tier)).Inc()
		}
		i.notifyObserved(ctx, obs)
	}

	if i.metrics != nil {
		i.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	}
	i.logger.InfoContext(ctx, "oracle ingestion cycle complete",
		"assessed", summary.Assessed,
		"malformed", summary.Malformed,
	)
	return summary, nil
}

// notifyObserved publishes the observation, best-effort.
func (i *Ingestor) notifyObserved(ctx context.Context, obs *models.OracleObservation) {
	if i.publisher == nil {
		return
	}
	correlationID := requestcontext.CorrelationID(ctx)
	if err := i.publisher.Publish(ctx, events.TopicOracleObserved, obs, correlationID); err != nil {
		i.logger.WarnContext(ctx, "observation notification failed",
			"plot_id", obs.PlotID,
			"error", err,
			"correlation_id", correlationID,
		)
	}
}
