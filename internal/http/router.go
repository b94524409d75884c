// Package httpapi assembles the HTTP surface: kiosk routes, back-office
// routes behind JWT auth, the websocket live feed and operational endpoints.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "refeitorio/internal/auth/handler"
	collabhandler "refeitorio/internal/collaborator/handler"
	menuhandler "refeitorio/internal/menu/handler"
	notifyhandler "refeitorio/internal/notify/handler"
	orderhandler "refeitorio/internal/order/handler"
	"refeitorio/internal/platform/middleware"
	restauranthandler "refeitorio/internal/restaurant/handler"
	"refeitorio/pkg/platform/httputil"
)

// Deps carries everything the router needs. Health may be nil.
type Deps struct {
	Logger    *slog.Logger
	Validator middleware.JWTValidator

	Auth          *authhandler.Handler
	Collaborators *collabhandler.Handler
	Restaurants   *restauranthandler.Handler
	Menus         *menuhandler.Handler
	Orders        *orderhandler.Handler
	Feed          *notifyhandler.Handler

	Health func(r *http.Request) error
}

// NewRouter wires all endpoints. The websocket feed is mounted outside the
// access-log middleware: its response-recording wrapper hides http.Hijacker,
// which the websocket upgrade needs.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Logger))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Logger(d.Logger))

		r.Get("/healthz", handleHealth(d.Health))
		r.Handle("/metrics", promhttp.Handler())

		// Terminal-facing routes: no auth, a kiosk has no credentials.
		r.Group(func(r chi.Router) {
			r.Use(middleware.ContentTypeJSON)
			d.Orders.RegisterPublic(r)
			d.Menus.RegisterPublic(r)
			d.Auth.Register(r)
		})

		// Back-office routes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.ContentTypeJSON)
			r.Use(middleware.RequireAuth(d.Validator, d.Logger))
			d.Collaborators.Register(r)
			d.Restaurants.Register(r)
			d.Menus.Register(r)
			d.Orders.RegisterProtected(r)
		})
	})

	d.Feed.Register(r)

	return r
}

func handleHealth(check func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
