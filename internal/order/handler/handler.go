package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"refeitorio/internal/order/service"
	"refeitorio/internal/platform/middleware"
	dErrors "refeitorio/pkg/domain-errors"
	"refeitorio/pkg/platform/httputil"
)

// Handler handles order endpoints. Terminal-facing errors use the {message}
// shape the ordering kiosks expect; everything else follows the standard
// error envelope.
type Handler struct {
	logger  *slog.Logger
	service *service.Service
}

func New(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers every order route on one router. Tests use this; the
// production router splits terminal and back-office routes across auth
// boundaries with RegisterPublic and RegisterProtected.
func (h *Handler) Register(r chi.Router) {
	h.RegisterPublic(r)
	h.RegisterProtected(r)
}

// RegisterPublic registers the routes the ordering terminals call.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/orders", h.handleCreate)
	r.Get("/orders/current", h.handleCurrent)
}

// RegisterProtected registers the back-office order routes.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Delete("/orders/{orderID}", h.handleDelete)
}

type createRequest struct {
	CPF          string    `json:"cpf"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	MenuID       uuid.UUID `json:"menu_id"`
	OrderDate    string    `json:"order_date"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CPF == "" {
		httputil.WriteMessage(w, http.StatusBadRequest, "cpf is required")
		return
	}

	orderDate, err := parseDate(req.OrderDate)
	if err != nil {
		httputil.WriteMessage(w, http.StatusBadRequest, "invalid order_date")
		return
	}

	_, collaborator, err := h.service.Create(r.Context(), service.CreateParams{
		CPF:          req.CPF,
		RestaurantID: req.RestaurantID,
		MenuID:       req.MenuID,
		OrderDate:    orderDate,
	})
	if err != nil {
		h.logError(r, "create order failed", err)
		h.writeDomainMessage(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"name": collaborator.Name,
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		httputil.WriteMessage(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logError(r, "delete order failed", err)
		h.writeDomainMessage(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	restaurantID := r.URL.Query().Get("restaurant_id")
	if restaurantID == "" {
		httputil.WriteMessage(w, http.StatusBadRequest, "restaurant_id is required")
		return
	}

	snapshot, err := h.service.CurrentOrders(r.Context(), restaurantID)
	if err != nil {
		h.logError(r, "current orders failed", err)
		h.writeDomainMessage(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, snapshot)
}

// writeDomainMessage maps a domain error to the kiosk {message} shape,
// keeping the status mapping of the standard envelope.
func (h *Handler) writeDomainMessage(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)
	if code == dErrors.CodeInternal {
		httputil.WriteMessage(w, status, "internal error")
		return
	}
	var de *dErrors.Error
	if errors.As(err, &de) && de.Description != "" {
		httputil.WriteMessage(w, status, de.Description)
		return
	}
	httputil.WriteMessage(w, status, string(code))
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
