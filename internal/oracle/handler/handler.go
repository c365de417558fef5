// Package handler receives raw reading batches from the external ingestion
// collaborator. Scheduling and retries live with that collaborator; this
// endpoint runs exactly one assessment cycle per call.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agrotrace/internal/oracle/models"
	"agrotrace/internal/oracle/service"
	"agrotrace/internal/platform/httpjson"
	dErrors "agrotrace/pkg/domain-errors"
)

// Service defines the ingestion operation the handler needs.
type Service interface {
	IngestCycle(ctx context.Context, readings []models.RawReading) (service.CycleSummary, error)
}

type Handler struct {
	ingestor Service
	logger   *slog.Logger
}

func New(ingestor Service, logger *slog.Logger) *Handler {
	return &Handler{ingestor: ingestor, logger: logger}
}

// Register mounts the oracle routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/oracle/readings", h.handleIngest)
}

func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	var readings []models.RawReading
	if err := json.NewDecoder(r.Body).Decode(&readings); err != nil {
		httpjson.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid readings payload"))
		return
	}
	summary, err := h.ingestor.IngestCycle(r.Context(), readings)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, summary)
}
