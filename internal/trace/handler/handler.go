// Package handler exposes the public trace reads over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agrotrace/internal/platform/httpjson"
	"agrotrace/internal/trace/models"
)

// Service defines the composer operations the handler needs.
type Service interface {
	ComposeProductTrace(ctx context.Context, batchKey string) (*models.TraceRecord, error)
	ComposeFundsTrace(ctx context.Context, contributionKey string) (*models.TraceRecord, error)
}

// Handler handles trace endpoints.
type Handler struct {
	composer Service
	logger   *slog.Logger
}

func New(composer Service, logger *slog.Logger) *Handler {
	return &Handler{composer: composer, logger: logger}
}

// Register mounts the trace routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/trace/products/{batchID}", h.handleProductTrace)
	r.Get("/trace/funds/{contributionID}", h.handleFundsTrace)
}

func (h *Handler) handleProductTrace(w http.ResponseWriter, r *http.Request) {
	record, err := h.composer.ComposeProductTrace(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, record)
}

func (h *Handler) handleFundsTrace(w http.ResponseWriter, r *http.Request) {
	record, err := h.composer.ComposeFundsTrace(r.Context(), chi.URLParam(r, "contributionID"))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, record)
}
