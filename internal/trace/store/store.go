// Package store provides the read stores trace composition pulls from:
// stored milestone timelines per batch and financial contribution records.
package store

import (
	"context"

	"agrotrace/internal/trace/models"
)

// TimelineStore reads and appends the stored supply-chain timeline for a
// batch. Find returns sentinel.ErrNotFound for unpublished batch keys; that
// is the expected case, not a failure.
type TimelineStore interface {
	Append(ctx context.Context, batchKey string, milestone models.StoredMilestone) error
	Find(ctx context.Context, batchKey string) ([]models.StoredMilestone, error)
}

// ContributionStore reads and saves financial-allocation records.
type ContributionStore interface {
	Save(ctx context.Context, contribution *models.Contribution) error
	Find(ctx context.Context, contributionKey string) (*models.Contribution, error)
}
