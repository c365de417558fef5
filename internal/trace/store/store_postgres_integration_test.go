//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"agrotrace/internal/trace/models"
	"agrotrace/internal/trace/store"
	"agrotrace/pkg/platform/sentinel"
	"agrotrace/pkg/testutil/containers"
)

type PostgresTraceStoreSuite struct {
	suite.Suite
	postgres      *containers.PostgresContainer
	timelines     *store.PostgresTimelineStore
	contributions *store.PostgresContributionStore
}

func TestPostgresTraceStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresTraceStoreSuite))
}

func (s *PostgresTraceStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T(), "../../../migrations/001_init.sql")
	s.timelines = store.NewPostgresTimelineStore(s.postgres.DB)
	s.contributions = store.NewPostgresContributionStore(s.postgres.DB)
}

func (s *PostgresTraceStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "trace_milestones", "contributions"))
}

func (s *PostgresTraceStoreSuite) TestTimelineRoundTrip() {
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Microsecond)

	s.Require().NoError(s.timelines.Append(ctx, "BATCH-1", models.StoredMilestone{
		Stage:     "harvest",
		Timestamp: at,
		Location:  "Huila, Colombia",
		PlotID:    "FARM-1-P1",
		Anchor:    &models.LedgerAnchor{TxHash: "0xabc", BlockNumber: 12, Confirmations: 6},
	}))
	s.Require().NoError(s.timelines.Append(ctx, "BATCH-1", models.StoredMilestone{
		Stage:     "processing",
		Timestamp: at.Add(time.Hour),
	}))

	timeline, err := s.timelines.Find(ctx, "BATCH-1")
	s.Require().NoError(err)
	s.Require().Len(timeline, 2)
	s.Equal("harvest", timeline[0].Stage)
	s.Equal("FARM-1-P1", timeline[0].PlotID)
	s.Require().NotNil(timeline[0].Anchor)
	s.Equal("0xabc", timeline[0].Anchor.TxHash)
	s.Equal(int64(12), timeline[0].Anchor.BlockNumber)
	s.Equal("processing", timeline[1].Stage)
	s.Nil(timeline[1].Anchor)
	s.WithinDuration(at, timeline[0].Timestamp, time.Millisecond)
}

func (s *PostgresTraceStoreSuite) TestTimelineNotFound() {
	_, err := s.timelines.Find(context.Background(), "BATCH-404")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresTraceStoreSuite) TestContributionUpsert() {
	ctx := context.Background()
	contribution := &models.Contribution{
		ID:                 "CONTRIB-1",
		InvestorID:         "investor-42",
		InvestorType:       "retail",
		Amount:             2500,
		Currency:           "USD",
		ContributedAt:      time.Now().UTC().Truncate(time.Microsecond),
		AllocationPct:      12.5,
		TargetBatchID:      "BATCH-1",
		ProjectedReturnPct: 8.0,
	}
	s.Require().NoError(s.contributions.Save(ctx, contribution))

	got, err := s.contributions.Find(ctx, "CONTRIB-1")
	s.Require().NoError(err)
	s.Equal("investor-42", got.InvestorID)
	s.Nil(got.ActualReturnPct)

	actual := 8.4
	contribution.ActualReturnPct = &actual
	s.Require().NoError(s.contributions.Save(ctx, contribution))

	got, err = s.contributions.Find(ctx, "CONTRIB-1")
	s.Require().NoError(err)
	s.Require().NotNil(got.ActualReturnPct)
	s.InDelta(8.4, *got.ActualReturnPct, 1e-9)
}

func (s *PostgresTraceStoreSuite) TestContributionNotFound() {
	_, err := s.contributions.Find(context.Background(), "CONTRIB-404")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
