package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrotrace/internal/registry/handler"
	"agrotrace/internal/registry/models"
	dErrors "agrotrace/pkg/domain-errors"
	"agrotrace/pkg/testutil"
)

// stubRegistrar returns canned results for handler tests.
type stubRegistrar struct {
	result *models.OnboardingResult
	err    error
	gotReq models.OnboardingRequest
}

func (s *stubRegistrar) RegisterFarm(_ context.Context, req models.OnboardingRequest) (*models.OnboardingResult, error) {
	s.gotReq = req
	return s.result, s.err
}

func newRouter(registrar handler.Service) http.Handler {
	r := chi.NewRouter()
	handler.New(registrar, testutil.Logger()).Register(r)
	return r
}

func TestHandleRegisterFarm(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		stub := &stubRegistrar{result: &models.OnboardingResult{
			FarmID:      "FARM-1",
			Version:     1,
			TotalAreaHa: 5.03,
			Plots:       []models.AcceptedPlot{{ID: "FARM-1-P1", AreaHa: 2.0}},
			SkippedPlots: []models.SkippedPlot{
				{ID: "FARM-1-P2", Reason: "self-intersecting polygon detected"},
			},
		}}
		router := newRouter(stub)

		body := `{"features":[{"kind":"farm","id":"FARM-1","boundary":{"type":"Polygon","coordinates":[[[0,0],[0.002,0],[0.002,0.002],[0,0.002],[0,0]]]}}]}`
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/registry/farms", body))

		testutil.AssertStatus(t, rr, http.StatusCreated)
		result := testutil.UnmarshalResponse[models.OnboardingResult](t, rr)
		assert.Equal(t, "FARM-1", result.FarmID)
		require.Len(t, result.SkippedPlots, 1)
		assert.Equal(t, "FARM-1-P2", result.SkippedPlots[0].ID)

		require.Len(t, stub.gotReq.Features, 1)
		assert.Equal(t, models.FeatureKindFarm, stub.gotReq.Features[0].Kind)
	})

	t.Run("duplicate farm maps to conflict", func(t *testing.T) {
		stub := &stubRegistrar{err: dErrors.New(dErrors.CodeConflict, "farm identifier already registered")}
		router := newRouter(stub)

		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/registry/farms", `{"features":[]}`))
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	})

	t.Run("validation failure surfaces the reason", func(t *testing.T) {
		stub := &stubRegistrar{err: dErrors.New(dErrors.CodeValidation, "outer ring must be counter-clockwise")}
		router := newRouter(stub)

		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/registry/farms", `{"features":[]}`))
		testutil.AssertStatus(t, rr, http.StatusUnprocessableEntity)
		errBody := testutil.UnmarshalErrorResponse(t, rr)
		assert.Equal(t, "outer ring must be counter-clockwise", errBody["reason"])
	})

	t.Run("malformed JSON", func(t *testing.T) {
		router := newRouter(&stubRegistrar{})
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/registry/farms", `{not json`))
		testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, "validation")
	})

	t.Run("storage failure maps to bad gateway", func(t *testing.T) {
		stub := &stubRegistrar{err: dErrors.New(dErrors.CodeDependency, "persist farm")}
		router := newRouter(stub)

		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/registry/farms", `{"features":[]}`))
		testutil.AssertStatus(t, rr, http.StatusBadGateway)
	})
}
