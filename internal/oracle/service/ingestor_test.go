package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrotrace/internal/events"
	"agrotrace/internal/oracle/models"
	"agrotrace/internal/oracle/service"
	"agrotrace/internal/oracle/store"
	dErrors "agrotrace/pkg/domain-errors"
	"agrotrace/pkg/testutil"
)

// failingObservationStore rejects every save.
type failingObservationStore struct{}

func (failingObservationStore) Save(context.Context, *models.OracleObservation) error {
	return errors.New("connection refused")
}

func (failingObservationStore) LatestBefore(context.Context, string, time.Time) (*models.OracleObservation, error) {
	return nil, errors.New("connection refused")
}

func TestIngestCycle(t *testing.T) {
	observedAt := time.Now().UTC().Truncate(time.Second)
	good := models.RawReading{
		PlotID:     "FARM-1-P1",
		FarmID:     "FARM-1",
		ObservedAt: observedAt,
		Indices:    indices(0.6, 10),
		Classes:    classes(9, 10),
	}
	malformed := models.RawReading{PlotID: "FARM-1-P2"}

	t.Run("malformed readings are skipped, valid ones persisted", func(t *testing.T) {
		observations := store.NewInMemoryObservationStore(90 * 24 * time.Hour)
		publisher := events.NewInMemoryPublisher()
		ingestor := service.NewIngestor(observations, testutil.Logger(), service.WithPublisher(publisher))

		summary, err := ingestor.IngestCycle(context.Background(), []models.RawReading{good, malformed})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Assessed)
		assert.Equal(t, 1, summary.Malformed)

		stored, err := observations.LatestBefore(context.Background(), "FARM-1-P1", observedAt.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, models.TierHigh, stored.Tier)

		published := publisher.Events()
		require.Len(t, published, 1)
		assert.Equal(t, events.TopicOracleObserved, published[0].Topic)
	})

	t.Run("storage failure aborts the cycle", func(t *testing.T) {
		ingestor := service.NewIngestor(failingObservationStore{}, testutil.Logger())

		summary, err := ingestor.IngestCycle(context.Background(), []models.RawReading{good, good})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDependency))
		assert.Equal(t, 0, summary.Assessed)
	})

	t.Run("publish failure does not abort", func(t *testing.T) {
		observations := store.NewInMemoryObservationStore(90 * 24 * time.Hour)
		publisher := events.NewInMemoryPublisher()
		publisher.FailWith = errors.New("broker down")
		ingestor := service.NewIngestor(observations, testutil.Logger(), service.WithPublisher(publisher))

		summary, err := ingestor.IngestCycle(context.Background(), []models.RawReading{good})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Assessed)
	})
}
