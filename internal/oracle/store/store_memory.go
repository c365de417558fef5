package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"agrotrace/internal/oracle/models"
	"agrotrace/pkg/platform/sentinel"
)

// InMemoryObservationStore keeps observations per plot, sorted by time. It
// applies the retention window on read rather than with a background
// reaper.
type InMemoryObservationStore struct {
	mu        sync.RWMutex
	byPlot    map[string][]models.OracleObservation
	retention time.Duration
}

func NewInMemoryObservationStore(retention time.Duration) *InMemoryObservationStore {
	return &InMemoryObservationStore{
		byPlot:    make(map[string][]models.OracleObservation),
		retention: retention,
	}
}

func (s *InMemoryObservationStore) Save(_ context.Context, obs *models.OracleObservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.byPlot[obs.PlotID], *obs)
	sort.Slice(list, func(i, j int) bool { return list[i].ObservedAt.Before(list[j].ObservedAt) })
	s.byPlot[obs.PlotID] = list
	return nil
}

func (s *InMemoryObservationStore) LatestBefore(_ context.Context, plotID string, cutoff time.Time) (*models.OracleObservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.byPlot[plotID]
	expiry := time.Now().Add(-s.retention)
	for i := len(list) - 1; i >= 0; i-- {
		obs := list[i]
		if obs.ObservedAt.After(cutoff) {
			continue
		}
		if s.retention > 0 && obs.ObservedAt.Before(expiry) {
			break
		}
		return &obs, nil
	}
	return nil, sentinel.ErrNotFound
}
