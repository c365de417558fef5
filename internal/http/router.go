// Package httpapi assembles the pipeline's HTTP surface. Authentication and
// the full API gateway live outside this service; the router only wires the
// pipeline endpoints, health and metrics.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agrotrace/internal/platform/middleware"
)

// Mountable is anything that registers routes on the router.
type Mountable interface {
	Register(r chi.Router)
}

// NewRouter wires middleware, health, metrics and the given handlers.
func NewRouter(logger *slog.Logger, handlers ...Mountable) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
