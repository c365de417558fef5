// Package service composes the public trace views: stored supply-chain
// timelines enriched with oracle evidence, and anonymized funds traces.
package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	oraclestore "agrotrace/internal/oracle/store"
	"agrotrace/internal/trace/cache"
	"agrotrace/internal/trace/metrics"
	"agrotrace/internal/trace/models"
	"agrotrace/internal/trace/store"
	dErrors "agrotrace/pkg/domain-errors"
	"agrotrace/pkg/platform/sentinel"
)

// ReasonTraceNotFound is returned for unpublished trace keys. Expected and
// common; never logged as an error-level event.
const ReasonTraceNotFound = "no trace recorded for this key"

// Composer builds trace records on demand. It holds no state beyond its
// collaborators; every composition is recomputed from the stores (or served
// from the explicit TTL cache).
type Composer struct {
	timelines     store.TimelineStore
	contributions store.ContributionStore
	observations  oraclestore.ObservationStore
	cache         cache.TraceCache
	anonymizer    *Anonymizer
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
}

// ComposerOption configures the Composer.
type ComposerOption func(*Composer)

// WithCache wires the composed-trace cache.
func WithCache(c cache.TraceCache) ComposerOption {
	return func(cp *Composer) { cp.cache = c }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) ComposerOption {
	return func(cp *Composer) { cp.metrics = m }
}

func NewComposer(
	timelines store.TimelineStore,
	contributions store.ContributionStore,
	observations oraclestore.ObservationStore,
	anonymizer *Anonymizer,
	logger *slog.Logger,
	opts ...ComposerOption,
) *Composer {
	c := &Composer{
		timelines:     timelines,
		contributions: contributions,
		observations:  observations,
		anonymizer:    anonymizer,
		logger:        logger,
		tracer:        otel.Tracer("agrotrace/trace"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ComposeProductTrace builds the public trace for a batch: the stored
// timeline ordered by timestamp ascending, each milestone enriched with the
// matching oracle observation's vegetation and weather evidence, plus the
// deterministic traceability score.
func (c *Composer) ComposeProductTrace(ctx context.Context, batchKey string) (*models.TraceRecord, error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "trace.ComposeProductTrace")
	defer span.End()

	if cached := c.cacheGet(ctx, batchKey); cached != nil {
		return cached, nil
	}

	stored, err := c.timelines.Find(ctx, batchKey)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			c.logger.DebugContext(ctx, "no timeline for batch", "batch_key", batchKey)
			return nil, dErrors.New(dErrors.CodeNotFound, ReasonTraceNotFound)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "load timeline")
	}

	sort.SliceStable(stored, func(i, j int) bool {
		return stored[i].Timestamp.Before(stored[j].Timestamp)
	})

	timeline := make([]models.Milestone, 0, len(stored))
	for _, sm := range stored {
		milestone := models.Milestone{
			Stage:     sm.Stage,
			Timestamp: sm.Timestamp,
			Location:  sm.Location,
			Anchor:    sm.Anchor,
		}
		if sm.PlotID != "" {
			if err := c.attachEvidence(ctx, sm, &milestone); err != nil {
				return nil, err
			}
		}
		timeline = append(timeline, milestone)
	}

	record := &models.TraceRecord{
		TraceKey: batchKey,
		Timeline: timeline,
		Score:    Score(timeline),
	}

	c.cacheSet(ctx, batchKey, record)
	if c.metrics != nil {
		c.metrics.Compositions.WithLabelValues("product").Inc()
		c.metrics.ComposeDuration.Observe(time.Since(start).Seconds())
	}
	return record, nil
}

// attachEvidence pulls the newest observation at or before the milestone and
// attaches whatever evidence it carries. A missing observation leaves the
// milestone bare; an indeterminate index (nil) attaches no vegetation
// snapshot since "no data" must never read as "zero health".
func (c *Composer) attachEvidence(ctx context.Context, sm models.StoredMilestone, milestone *models.Milestone) error {
	obs, err := c.observations.LatestBefore(ctx, sm.PlotID, sm.Timestamp)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeDependency, "load observation")
	}
	if obs.MeanIndex != nil {
		milestone.Vegetation = &models.VegetationSnapshot{
			IndexScore: round1(*obs.MeanIndex * 100),
			CloudPct:   obs.CloudPct,
			TileKey:    obs.TileKey,
		}
	}
	if obs.Weather != nil {
		milestone.Weather = obs.Weather
	}
	return nil
}

// ComposeFundsTrace builds the anonymized financial view of a contribution.
// The investor's real identifier is replaced with a stable one-way token and
// never exposed.
func (c *Composer) ComposeFundsTrace(ctx context.Context, contributionKey string) (*models.TraceRecord, error) {
	ctx, span := c.tracer.Start(ctx, "trace.ComposeFundsTrace")
	defer span.End()

	contribution, err := c.contributions.Find(ctx, contributionKey)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			c.logger.DebugContext(ctx, "no contribution for key", "contribution_key", contributionKey)
			return nil, dErrors.New(dErrors.CodeNotFound, ReasonTraceNotFound)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "load contribution")
	}

	status := models.ReturnStatusInProgress
	if contribution.ActualReturnPct != nil {
		status = models.ReturnStatusCompleted
	}

	record := &models.TraceRecord{
		TraceKey: contributionKey,
		Funds: &models.FundsDetail{
			InvestorRef:        c.anonymizer.Token(contribution.InvestorID),
			InvestorType:       contribution.InvestorType,
			Amount:             contribution.Amount,
			Currency:           contribution.Currency,
			ContributedAt:      contribution.ContributedAt,
			AllocationPct:      contribution.AllocationPct,
			TargetBatchID:      contribution.TargetBatchID,
			ProjectedReturnPct: contribution.ProjectedReturnPct,
			ReturnStatus:       status,
		},
	}
	if c.metrics != nil {
		c.metrics.Compositions.WithLabelValues("funds").Inc()
	}
	return record, nil
}

// cacheGet treats every cache failure as a miss; the cache is an
// optimization, never a source of truth.
func (c *Composer) cacheGet(ctx context.Context, traceKey string) *models.TraceRecord {
	if c.cache == nil {
		return nil
	}
	record, err := c.cache.Get(ctx, traceKey)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			c.logger.WarnContext(ctx, "trace cache read failed", "trace_key", traceKey, "error", err)
		}
		if c.metrics != nil {
			c.metrics.CacheMisses.Inc()
		}
		return nil
	}
	if c.metrics != nil {
		c.metrics.CacheHits.Inc()
	}
	return record
}

func (c *Composer) cacheSet(ctx context.Context, traceKey string, record *models.TraceRecord) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, traceKey, record); err != nil {
		c.logger.WarnContext(ctx, "trace cache write failed", "trace_key", traceKey, "error", err)
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
