package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"refeitorio/internal/collaborator/service"
	"refeitorio/internal/platform/middleware"
	dErrors "refeitorio/pkg/domain-errors"
	"refeitorio/pkg/platform/httputil"
)

// Handler handles collaborator endpoints.
type Handler struct {
	logger  *slog.Logger
	service *service.Service
}

func New(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the collaborator routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/collaborators", h.handleCreate)
	r.Put("/collaborators/{collaboratorID}", h.handleUpdate)
	r.Get("/collaborators/{collaboratorID}", h.handleGet)
}

type createRequest struct {
	Name string `json:"name"`
	CPF  string `json:"cpf"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	collaborator, err := h.service.Create(ctx, req.Name, req.CPF)
	if err != nil {
		h.logError(r, "create collaborator failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"collaborator_name": collaborator.Name,
	})
}

type updateRequest struct {
	Name     *string    `json:"name"`
	CPF      *string    `json:"cpf"`
	SectorID *uuid.UUID `json:"sector_id"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "collaboratorID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid collaborator id"))
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	err = h.service.Update(ctx, id, service.UpdateParams{
		Name:     req.Name,
		CPF:      req.CPF,
		SectorID: req.SectorID,
	})
	if err != nil {
		h.logError(r, "update collaborator failed", err)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "collaboratorID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid collaborator id"))
		return
	}

	collaborator, cpf, err := h.service.Get(ctx, id)
	if err != nil {
		h.logError(r, "get collaborator failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"id":        collaborator.ID,
		"name":      collaborator.Name,
		"cpf":       cpf,
		"sector_id": collaborator.SectorID,
	})
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	ctx := r.Context()
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}
