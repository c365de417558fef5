// Package store persists farms and plots. Stores are interface-driven so the
// registrar stays testable against the in-memory implementation while
// production wiring uses PostgreSQL.
package store

import (
	"context"

	"agrotrace/internal/registry/models"
)

// FarmStore persists farm aggregates.
//
// Create is the registry's concurrency-safety invariant: it is an atomic
// create-if-absent, so two simultaneous registrations of the same farm ID
// serialize into exactly one winner. The loser receives
// sentinel.ErrConflict.
type FarmStore interface {
	Create(ctx context.Context, farm *models.Farm) error
	FindByID(ctx context.Context, id string) (*models.Farm, error)
}

// PlotStore persists plots independently of their farm record.
type PlotStore interface {
	Save(ctx context.Context, plot *models.Plot) error
	ListByFarm(ctx context.Context, farmID string) ([]*models.Plot, error)
}
