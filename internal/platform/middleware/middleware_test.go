package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrotrace/internal/platform/middleware"
	"agrotrace/pkg/requestcontext"
	"agrotrace/pkg/testutil"
)

func TestCorrelationID(t *testing.T) {
	t.Run("propagates the caller's id", func(t *testing.T) {
		var seen string
		h := middleware.CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestcontext.CorrelationID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.CorrelationIDHeader, "corr-123")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, "corr-123", seen)
		assert.Equal(t, "corr-123", rr.Header().Get(middleware.CorrelationIDHeader))
	})

	t.Run("assigns a fresh id when absent", func(t *testing.T) {
		var seen string
		h := middleware.CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestcontext.CorrelationID(r.Context())
		}))

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, rr.Header().Get(middleware.CorrelationIDHeader))
	})

	t.Run("pins the request time", func(t *testing.T) {
		before := time.Now()
		var pinned time.Time
		h := middleware.CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pinned = requestcontext.Now(r.Context())
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.False(t, pinned.Before(before))
		assert.False(t, pinned.After(time.Now()))
	})
}

func TestRecovery(t *testing.T) {
	h := middleware.Recovery(testutil.Logger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
