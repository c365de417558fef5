package store

import (
	"context"
	"sync"

	"agrotrace/internal/trace/models"
	"agrotrace/pkg/platform/sentinel"
)

type InMemoryTimelineStore struct {
	mu        sync.RWMutex
	timelines map[string][]models.StoredMilestone
}

func NewInMemoryTimelineStore() *InMemoryTimelineStore {
	return &InMemoryTimelineStore{timelines: make(map[string][]models.StoredMilestone)}
}

func (s *InMemoryTimelineStore) Append(_ context.Context, batchKey string, milestone models.StoredMilestone) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timelines[batchKey] = append(s.timelines[batchKey], milestone)
	return nil
}

func (s *InMemoryTimelineStore) Find(_ context.Context, batchKey string) ([]models.StoredMilestone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	timeline, ok := s.timelines[batchKey]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]models.StoredMilestone{}, timeline...), nil
}

type InMemoryContributionStore struct {
	mu            sync.RWMutex
	contributions map[string]models.Contribution
}

func NewInMemoryContributionStore() *InMemoryContributionStore {
	return &InMemoryContributionStore{contributions: make(map[string]models.Contribution)}
}

func (s *InMemoryContributionStore) Save(_ context.Context, contribution *models.Contribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contributions[contribution.ID] = *contribution
	return nil
}

func (s *InMemoryContributionStore) Find(_ context.Context, contributionKey string) (*models.Contribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if contribution, ok := s.contributions[contributionKey]; ok {
		return &contribution, nil
	}
	return nil, sentinel.ErrNotFound
}
