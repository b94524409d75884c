package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"refeitorio/internal/menu/models"
	"refeitorio/internal/menu/service"
	"refeitorio/internal/platform/middleware"
	dErrors "refeitorio/pkg/domain-errors"
	"refeitorio/pkg/platform/httputil"
)

// Handler handles menu endpoints.
type Handler struct {
	logger  *slog.Logger
	service *service.Service
	now     func() time.Time
}

func New(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service, now: time.Now}
}

// Register registers the back-office menu routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/menus", h.handleCreate)
	r.Get("/menus/{menuID}", h.handleGet)
}

// RegisterPublic registers the routes the ordering terminals use without
// authentication.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/restaurants/{restaurantID}/menus/today", h.handleToday)
}

type createRequest struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Allergens    *string   `json:"allergens"`
	ServiceDate  string    `json:"service_date"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	serviceDate, err := parseDate(req.ServiceDate)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid service_date"))
		return
	}

	menu, err := h.service.Create(r.Context(), service.CreateParams{
		Name:         req.Name,
		Description:  req.Description,
		Allergens:    req.Allergens,
		ServiceDate:  serviceDate,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		h.logError(r, "create menu failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, menuResponse(menu))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "menuID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid menu id"))
		return
	}

	menu, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logError(r, "get menu failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, menuResponse(menu))
}

// handleToday returns the restaurant's menus for today and tomorrow, so
// terminals can show the next service alongside the current one.
func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "restaurantID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid restaurant id"))
		return
	}

	menus, err := h.service.Upcoming(r.Context(), restaurantID, h.now())
	if err != nil {
		h.logError(r, "list menus failed", err)
		httputil.WriteError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(menus))
	for _, m := range menus {
		out = append(out, menuResponse(m))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"menus": out})
}

func menuResponse(m *models.Menu) map[string]any {
	return map[string]any{
		"id":            m.ID,
		"name":          m.Name,
		"description":   m.Description,
		"allergens":     m.Allergens,
		"service_date":  m.ServiceDate.Format("2006-01-02"),
		"restaurant_id": m.RestaurantID,
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
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
