package store

import (
	"context"
	"sync"

	"agrotrace/internal/registry/models"
	"agrotrace/pkg/platform/sentinel"
)

// In-memory stores keep unit tests and local development free of external
// dependencies. They intentionally favor clarity over performance.
type InMemoryFarmStore struct {
	mu    sync.RWMutex
	farms map[string]models.Farm
}

func NewInMemoryFarmStore() *InMemoryFarmStore {
	return &InMemoryFarmStore{farms: make(map[string]models.Farm)}
}

// Create inserts the farm if absent. The map check and insert happen under
// one lock, giving the same exactly-one-winner guarantee as the conditional
// insert in the PostgreSQL store.
func (s *InMemoryFarmStore) Create(_ context.Context, farm *models.Farm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.farms[farm.ID]; exists {
		return sentinel.ErrConflict
	}
	s.farms[farm.ID] = *farm
	return nil
}

func (s *InMemoryFarmStore) FindByID(_ context.Context, id string) (*models.Farm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if farm, ok := s.farms[id]; ok {
		return &farm, nil
	}
	return nil, sentinel.ErrNotFound
}

type InMemoryPlotStore struct {
	mu    sync.RWMutex
	plots map[string]models.Plot
}

func NewInMemoryPlotStore() *InMemoryPlotStore {
	return &InMemoryPlotStore{plots: make(map[string]models.Plot)}
}

func (s *InMemoryPlotStore) Save(_ context.Context, plot *models.Plot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plots[plot.ID] = *plot
	return nil
}

func (s *InMemoryPlotStore) ListByFarm(_ context.Context, farmID string) ([]*models.Plot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Plot
	for id := range s.plots {
		if s.plots[id].FarmID == farmID {
			plot := s.plots[id]
			out = append(out, &plot)
		}
	}
	return out, nil
}
