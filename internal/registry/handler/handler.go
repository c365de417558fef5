// Package handler exposes farm onboarding over HTTP. It delegates to the
// registrar without embedding business logic so transport concerns remain
// isolated.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agrotrace/internal/platform/httpjson"
	"agrotrace/internal/registry/models"
	dErrors "agrotrace/pkg/domain-errors"
)

// Service defines the registrar operations the handler needs.
type Service interface {
	RegisterFarm(ctx context.Context, req models.OnboardingRequest) (*models.OnboardingResult, error)
}

// Handler handles registry endpoints.
type Handler struct {
	registrar Service
	logger    *slog.Logger
}

func New(registrar Service, logger *slog.Logger) *Handler {
	return &Handler{registrar: registrar, logger: logger}
}

// Register mounts the registry routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/registry/farms", h.handleRegisterFarm)
}

func (h *Handler) handleRegisterFarm(w http.ResponseWriter, r *http.Request) {
	var req models.OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid onboarding payload"))
		return
	}
	result, err := h.registrar.RegisterFarm(r.Context(), req)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, result)
}
