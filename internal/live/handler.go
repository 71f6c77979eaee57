package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/jinsol-dev/persona-lab/internal/domain"
	"github.com/jinsol-dev/persona-lab/internal/identity"
)

// StatsProvider produces the current dashboard snapshot.
type StatsProvider interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

// Handler upgrades statistics pages to the live stats feed.
type Handler struct {
	hub      *Hub
	provider StatsProvider
}

// NewHandler creates a live feed handler.
func NewHandler(hub *Hub, provider StatsProvider) *Handler {
	return &Handler{hub: hub, provider: provider}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	visitorID := identity.VisitorIDFromContext(r.Context())
	tabID := identity.TabIDFromContext(r.Context())

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("failed to accept stats feed websocket", "error", err, "visitor_id", visitorID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "feed closed"); closeErr != nil {
			slog.Debug("failed to close stats feed websocket", "error", closeErr)
		}
	}()

	h.hub.Register(visitorID, tabID, ws)
	defer h.hub.Unregister(visitorID, tabID, ws)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Initial snapshot so the page has data before the first event.
	if stats, err := h.provider.DashboardStats(ctx); err != nil {
		slog.Warn("failed to load initial stats snapshot", "error", err)
	} else {
		payload, err := json.Marshal(map[string]any{"type": "stats", "data": stats})
		if err == nil {
			snapCtx, snapCancel := context.WithTimeout(ctx, 5*time.Second)
			if err := ws.Write(snapCtx, websocket.MessageText, payload); err != nil {
				slog.Debug("failed to send initial stats snapshot", "error", err)
			}
			snapCancel()
		}
	}

	// Reader loop: the feed is one-way, so reads only serve to detect close.
	for {
		if _, _, err := ws.Read(ctx); err != nil {
			return
		}
	}
}
