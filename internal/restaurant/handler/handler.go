package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"refeitorio/internal/restaurant/service"
	dErrors "refeitorio/pkg/domain-errors"
	"refeitorio/pkg/platform/httputil"
)

// Handler handles restaurant endpoints.
type Handler struct {
	logger  *slog.Logger
	service *service.Service
}

func New(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the restaurant routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/restaurants", h.handleCreate)
	r.Get("/restaurants/{restaurantID}", h.handleGet)
}

type createRequest struct {
	Name      string     `json:"name"`
	ManagerID *uuid.UUID `json:"manager_id"`
	UnitID    *uuid.UUID `json:"unit_id"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	restaurant, err := h.service.Create(r.Context(), req.Name, req.ManagerID, req.UnitID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":   restaurant.ID,
		"name": restaurant.Name,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "restaurantID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid restaurant id"))
		return
	}

	restaurant, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"id":         restaurant.ID,
		"name":       restaurant.Name,
		"manager_id": restaurant.ManagerID,
		"unit_id":    restaurant.UnitID,
	})
}
