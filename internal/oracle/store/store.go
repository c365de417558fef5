// Package store persists oracle observations under a finite retention
// window. Observations are never mutated after creation; expiry is the only
// delete path.
package store

import (
	"context"
	"time"

	"agrotrace/internal/oracle/models"
)

// ObservationStore persists quality-scored observations.
//
// LatestBefore returns the newest observation for the plot at or before the
// cutoff, or sentinel.ErrNotFound when none is retained.
type ObservationStore interface {
	Save(ctx context.Context, obs *models.OracleObservation) error
	LatestBefore(ctx context.Context, plotID string, cutoff time.Time) (*models.OracleObservation, error)
}
