package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"agrotrace/internal/trace/models"
	"agrotrace/pkg/platform/sentinel"
)

// PostgresTimelineStore persists milestone timelines, one row per milestone.
// The anchor is jsonb since most milestones carry none.
type PostgresTimelineStore struct {
	db *sql.DB
}

func NewPostgresTimelineStore(db *sql.DB) *PostgresTimelineStore {
	return &PostgresTimelineStore{db: db}
}

func (s *PostgresTimelineStore) Append(ctx context.Context, batchKey string, milestone models.StoredMilestone) error {
	var anchor []byte
	if milestone.Anchor != nil {
		var err error
		anchor, err = json.Marshal(milestone.Anchor)
		if err != nil {
			return fmt.Errorf("marshal anchor: %w", err)
		}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trace_milestones (batch_key, stage, ts, location, plot_id, anchor)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		batchKey, milestone.Stage, milestone.Timestamp, milestone.Location, milestone.PlotID, anchor,
	)
	if err != nil {
		return fmt.Errorf("append milestone: %w", err)
	}
	return nil
}

func (s *PostgresTimelineStore) Find(ctx context.Context, batchKey string) ([]models.StoredMilestone, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT stage, ts, location, plot_id, anchor
		FROM trace_milestones WHERE batch_key = $1 ORDER BY ts`, batchKey)
	if err != nil {
		return nil, fmt.Errorf("find timeline: %w", err)
	}
	defer rows.Close()

	var timeline []models.StoredMilestone
	for rows.Next() {
		var m models.StoredMilestone
		var anchor []byte
		if err := rows.Scan(&m.Stage, &m.Timestamp, &m.Location, &m.PlotID, &anchor); err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		if len(anchor) > 0 {
			m.Anchor = &models.LedgerAnchor{}
			if err := json.Unmarshal(anchor, m.Anchor); err != nil {
				return nil, fmt.Errorf("unmarshal anchor: %w", err)
			}
		}
		timeline = append(timeline, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(timeline) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return timeline, nil
}

type PostgresContributionStore struct {
	db *sql.DB
}

func NewPostgresContributionStore(db *sql.DB) *PostgresContributionStore {
	return &PostgresContributionStore{db: db}
}

func (s *PostgresContributionStore) Save(ctx context.Context, c *models.Contribution) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contributions (
			id, investor_id, investor_type, amount, currency, contributed_at,
			allocation_pct, target_batch_id, projected_return_pct, actual_return_pct
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			actual_return_pct = EXCLUDED.actual_return_pct`,
		c.ID, c.InvestorID, c.InvestorType, c.Amount, c.Currency, c.ContributedAt,
		c.AllocationPct, c.TargetBatchID, c.ProjectedReturnPct, c.ActualReturnPct,
	)
	if err != nil {
		return fmt.Errorf("save contribution: %w", err)
	}
	return nil
}

func (s *PostgresContributionStore) Find(ctx context.Context, contributionKey string) (*models.Contribution, error) {
	var c models.Contribution
	err := s.db.QueryRowContext(ctx, `
		SELECT id, investor_id, investor_type, amount, currency, contributed_at,
		       allocation_pct, target_batch_id, projected_return_pct, actual_return_pct
		FROM contributions WHERE id = $1`, contributionKey,
	).Scan(
		&c.ID, &c.InvestorID, &c.InvestorType, &c.Amount, &c.Currency, &c.ContributedAt,
		&c.AllocationPct, &c.TargetBatchID, &c.ProjectedReturnPct, &c.ActualReturnPct,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find contribution: %w", err)
	}
	return &c, nil
}
