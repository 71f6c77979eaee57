// Package live pushes dashboard statistics to connected statistics pages
// over WebSocket. Pages receive a fresh snapshot on connect and again every
// time a result, comment, or share lands.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/jinsol-dev/persona-lab/internal/domain"
)

// Hub manages active WebSocket connections per visitor and tab.
type Hub struct {
	mu     sync.RWMutex
	active map[string]map[string]*websocket.Conn
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		active: make(map[string]map[string]*websocket.Conn),
	}
}

// Register adds a connection for a visitor/tab, replacing any prior one.
func (h *Hub) Register(visitorID, tabID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.active[visitorID]; !exists {
		h.active[visitorID] = make(map[string]*websocket.Conn)
	}

	if existing, exists := h.active[visitorID][tabID]; exists && existing != conn {
		_ = existing.Close(websocket.StatusNormalClosure, "connection replaced")
	}

	h.active[visitorID][tabID] = conn
	slog.Info("stats feed connected", "visitor_id", visitorID, "tab_id", tabID)
}

// Unregister removes a connection for a visitor/tab.
func (h *Hub) Unregister(visitorID, tabID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if tabs, ok := h.active[visitorID]; ok {
		if current, exists := tabs[tabID]; exists && current == conn {
			delete(tabs, tabID)
			if len(tabs) == 0 {
				delete(h.active, visitorID)
			}
			slog.Info("stats feed disconnected", "visitor_id", visitorID, "tab_id", tabID)
		}
	}
}

// ConnCount returns the number of live connections.
func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, tabs := range h.active {
		n += len(tabs)
	}
	return n
}

// Broadcast pushes a stats snapshot to every connected page. Write failures
// are logged and the connection is left for the reader loop to reap.
func (h *Hub) Broadcast(ctx context.Context, stats *domain.DashboardStats) {
	payload, err := json.Marshal(map[string]any{
		"type": "stats",
		"data": stats,
	})
	if err != nil {
		slog.Warn("failed to serialize stats broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for visitorID, tabs := range h.active {
		for tabID, conn := range tabs {
			if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
				slog.Debug("stats broadcast write failed",
					"visitor_id", visitorID, "tab_id", tabID, "error", err)
			}
		}
	}
}
