package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrotrace/internal/oracle/handler"
	"agrotrace/internal/oracle/models"
	"agrotrace/internal/oracle/service"
	dErrors "agrotrace/pkg/domain-errors"
	"agrotrace/pkg/testutil"
)

type stubIngestor struct {
	summary     service.CycleSummary
	err         error
	gotReadings []models.RawReading
}

func (s *stubIngestor) IngestCycle(_ context.Context, readings []models.RawReading) (service.CycleSummary, error) {
	s.gotReadings = readings
	return s.summary, s.err
}

func newRouter(ingestor handler.Service) http.Handler {
	r := chi.NewRouter()
	handler.New(ingestor, testutil.Logger()).Register(r)
	return r
}

func TestHandleIngest(t *testing.T) {
	t.Run("cycle summary returned", func(t *testing.T) {
		stub := &stubIngestor{summary: service.CycleSummary{Assessed: 2, Malformed: 1}}
		router := newRouter(stub)

		body := `[{"plot_id":"FARM-1-P1","indices":[0.6],"classes":["clear"]},{"plot_id":"FARM-1-P2"}]`
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/oracle/readings", body))

		testutil.AssertStatusOK(t, rr)
		summary := testutil.UnmarshalResponse[service.CycleSummary](t, rr)
		assert.Equal(t, 2, summary.Assessed)
		assert.Equal(t, 1, summary.Malformed)

		require.Len(t, stub.gotReadings, 2)
		assert.Equal(t, "FARM-1-P1", stub.gotReadings[0].PlotID)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		router := newRouter(&stubIngestor{})
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/oracle/readings", `[{`))
		testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, "validation")
	})

	t.Run("storage failure maps to bad gateway", func(t *testing.T) {
		stub := &stubIngestor{err: dErrors.New(dErrors.CodeDependency, "persist observation")}
		router := newRouter(stub)

		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/oracle/readings", `[]`))
		testutil.AssertStatus(t, rr, http.StatusBadGateway)
	})
}
