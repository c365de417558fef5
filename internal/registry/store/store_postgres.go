package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"agrotrace/internal/registry/models"
	"agrotrace/pkg/platform/sentinel"
)

// PostgresFarmStore persists farms in PostgreSQL. Boundaries are stored as
// GeoJSON jsonb; derived metrics are flattened into columns so spatial
// filtering by geohash prefix stays a plain index scan.
type PostgresFarmStore struct {
	db *sql.DB
}

func NewPostgresFarmStore(db *sql.DB) *PostgresFarmStore {
	return &PostgresFarmStore{db: db}
}

// Create inserts the farm with ON CONFLICT DO NOTHING. Zero rows affected
// means another registration already holds the ID; that is the atomic
// create-if-absent the registrar relies on.
func (s *PostgresFarmStore) Create(ctx context.Context, farm *models.Farm) error {
	boundary, err := json.Marshal(farm.Boundary)
	if err != nil {
		return fmt.Errorf("marshal farm boundary: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO farms (
			id, name, country_code, boundary,
			centroid_lon, centroid_lat,
			bbox_min_lon, bbox_min_lat, bbox_max_lon, bbox_max_lat,
			area_ha, geohash, version, created_at, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (id) DO NOTHING`,
		farm.ID, farm.Name, farm.CountryCode, boundary,
		farm.Centroid.Lon, farm.Centroid.Lat,
		farm.BoundingBox.MinLon, farm.BoundingBox.MinLat,
		farm.BoundingBox.MaxLon, farm.BoundingBox.MaxLat,
		farm.AreaHa, farm.Geohash, farm.Version, farm.CreatedAt, farm.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert farm: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert farm rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresFarmStore) FindByID(ctx context.Context, id string) (*models.Farm, error) {
	var farm models.Farm
	var boundary []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, country_code, boundary,
		       centroid_lon, centroid_lat,
		       bbox_min_lon, bbox_min_lat, bbox_max_lon, bbox_max_lat,
		       area_ha, geohash, version, created_at, created_by
		FROM farms WHERE id = $1`, id,
	).Scan(
		&farm.ID, &farm.Name, &farm.CountryCode, &boundary,
		&farm.Centroid.Lon, &farm.Centroid.Lat,
		&farm.BoundingBox.MinLon, &farm.BoundingBox.MinLat,
		&farm.BoundingBox.MaxLon, &farm.BoundingBox.MaxLat,
		&farm.AreaHa, &farm.Geohash, &farm.Version, &farm.CreatedAt, &farm.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find farm: %w", err)
	}
	if err := unmarshalBoundary(boundary, &farm.Boundary); err != nil {
		return nil, err
	}
	return &farm, nil
}

// PostgresPlotStore persists plots keyed by their derived identifier.
type PostgresPlotStore struct {
	db *sql.DB
}

func NewPostgresPlotStore(db *sql.DB) *PostgresPlotStore {
	return &PostgresPlotStore{db: db}
}

func (s *PostgresPlotStore) Save(ctx context.Context, plot *models.Plot) error {
	boundary, err := json.Marshal(plot.Boundary)
	if err != nil {
		return fmt.Errorf("marshal plot boundary: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plots (
			id, farm_id, boundary, centroid_lon, centroid_lat,
			area_ha, geohash, crop_type, version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			boundary = EXCLUDED.boundary,
			centroid_lon = EXCLUDED.centroid_lon,
			centroid_lat = EXCLUDED.centroid_lat,
			area_ha = EXCLUDED.area_ha,
			geohash = EXCLUDED.geohash,
			crop_type = EXCLUDED.crop_type,
			version = EXCLUDED.version`,
		plot.ID, plot.FarmID, boundary, plot.Centroid.Lon, plot.Centroid.Lat,
		plot.AreaHa, plot.Geohash, plot.CropType, plot.Version,
	)
	if err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

func (s *PostgresPlotStore) ListByFarm(ctx context.Context, farmID string) ([]*models.Plot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, farm_id, boundary, centroid_lon, centroid_lat,
		       area_ha, geohash, crop_type, version
		FROM plots WHERE farm_id = $1 ORDER BY id`, farmID)
	if err != nil {
		return nil, fmt.Errorf("list plots: %w", err)
	}
	defer rows.Close()

	var plots []*models.Plot
	for rows.Next() {
		var plot models.Plot
		var boundary []byte
		if err := rows.Scan(
			&plot.ID, &plot.FarmID, &boundary, &plot.Centroid.Lon, &plot.Centroid.Lat,
			&plot.AreaHa, &plot.Geohash, &plot.CropType, &plot.Version,
		); err != nil {
			return nil, fmt.Errorf("scan plot: %w", err)
		}
		if err := unmarshalBoundary(boundary, &plot.Boundary); err != nil {
			return nil, err
		}
		plots = append(plots, &plot)
	}
	return plots, rows.Err()
}

func unmarshalBoundary(raw []byte, dst **geojson.Geometry) error {
	if len(raw) == 0 {
		return nil
	}
	var g geojson.Geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return fmt.Errorf("unmarshal boundary: %w", err)
	}
	*dst = &g
	return nil
}
