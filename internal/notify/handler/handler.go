package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"refeitorio/internal/notify"
	"refeitorio/pkg/platform/httputil"
)

// RestaurantChecker reports whether a restaurant exists, so the feed rejects
// unknown IDs before upgrading the connection.
type RestaurantChecker interface {
	Exists(ctx context.Context, restaurantID string) (bool, error)
}

// Handler exposes the per-restaurant live order feed.
type Handler struct {
	logger      *slog.Logger
	dispatcher  *notify.Dispatcher
	restaurants RestaurantChecker
}

func New(dispatcher *notify.Dispatcher, restaurants RestaurantChecker, logger *slog.Logger) *Handler {
	return &Handler{
		logger:      logger,
		dispatcher:  dispatcher,
		restaurants: restaurants,
	}
}

// Register registers the feed route with the chi router. The route must stay
// outside response-wrapping middleware so the upgrade can hijack the
// connection.
func (h *Handler) Register(r chi.Router) {
	r.Get("/ws/restaurants/{restaurantID}", h.handleFeed)
}

func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	restaurantID := chi.URLParam(r, "restaurantID")

	exists, err := h.restaurants.Exists(ctx, restaurantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "restaurant lookup failed",
			"restaurant_id", restaurantID,
			"error", err,
		)
		httputil.WriteMessage(w, http.StatusInternalServerError, "could not open feed")
		return
	}
	if !exists {
		httputil.WriteMessage(w, http.StatusNotFound, "restaurant not found")
		return
	}

	ws, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}

	conn := newWSConn(ws)

	// Register before the initial snapshot so an order landing in between is
	// still broadcast to this conn. Frames are full snapshots, so a broadcast
	// slipping ahead of the initial frame leaves the viewer current.
	registry := h.dispatcher.Registry()
	registry.Register(restaurantID, conn)
	defer func() {
		registry.Unregister(restaurantID, conn)
		_ = conn.Close()
	}()

	snapshot, err := h.dispatcher.Snapshot(ctx, restaurantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "initial snapshot failed",
			"restaurant_id", restaurantID,
			"error", err,
		)
		_ = ws.Close(websocket.StatusInternalError, "snapshot unavailable")
		return
	}
	if err := conn.Send(ctx, snapshot); err != nil {
		return
	}

	// Viewers never send application data; reading only detects disconnect.
	for {
		if _, _, err := ws.Read(ctx); err != nil {
			return
		}
	}
}

// wsConn adapts a websocket connection to the notify.Conn capability. The
// mutex serializes writes from overlapping broadcasts.
type wsConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{ws: ws}
}

func (c *wsConn) Send(ctx context.Context, payload []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.Write(writeCtx, websocket.MessageText, payload)
}

func (c *wsConn) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "closed")
}
