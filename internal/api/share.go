package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jinsol-dev/persona-lab/internal/domain"
	"github.com/jinsol-dev/persona-lab/internal/identity"
	"github.com/jinsol-dev/persona-lab/internal/share"
	"github.com/jinsol-dev/persona-lab/internal/store"
)

// ShareHandler builds platform share payloads and records share actions.
type ShareHandler struct {
	*Handler
}

// NewShareHandler creates a share handler.
func NewShareHandler(base *Handler) *ShareHandler {
	return &ShareHandler{Handler: base}
}

// RegisterRoutes registers share routes.
func (h *ShareHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/share", func(r chi.Router) {
		r.Post("/log", h.Log)
		r.Get("/stats", h.Stats)
		r.Post("/{platform}", h.Build)
	})
}

type shareRequest struct {
	ResultID string `json:"result_id"`
	Platform string `json:"platform"`
}

// Log records a share action and bumps the result's share counter.
func (h *ShareHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if !share.IsSupportedPlatform(platform) {
		Error(w, http.StatusBadRequest, "unsupported platform")
		return
	}
	if req.ResultID == "" {
		Error(w, http.StatusBadRequest, "result_id is required")
		return
	}

	shared, err := h.logShare(r, req.ResultID, platform)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "result not found")
		return
	}
	if err != nil {
		slog.Error("failed to log share", "error", err, "result_id", req.ResultID)
		Error(w, http.StatusInternalServerError, "failed to log share")
		return
	}

	h.stats.NotifyChange(r.Context())
	JSON(w, http.StatusOK, map[string]interface{}{
		"result_id":    req.ResultID,
		"platform":     platform,
		"shared_count": shared,
	})
}

// Build returns the share payload for one platform and logs the action.
func (h *ShareHandler) Build(w http.ResponseWriter, r *http.Request) {
	platform := strings.ToLower(chi.URLParam(r, "platform"))
	if !share.IsSupportedPlatform(platform) {
		Error(w, http.StatusBadRequest, "unsupported platform")
		return
	}

	var req shareRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ResultID == "" {
		Error(w, http.StatusBadRequest, "result_id is required")
		return
	}

	result, err := h.repo.GetResult(r.Context(), req.ResultID)
	if err != nil {
		slog.Error("failed to load result for share", "error", err, "result_id", req.ResultID)
		Error(w, http.StatusInternalServerError, "failed to build share")
		return
	}
	if result == nil {
		Error(w, http.StatusNotFound, "result not found")
		return
	}

	baseURL := h.cfg.SiteURL
	var payload interface{}
	switch platform {
	case "kakao":
		payload = share.Kakao(baseURL, result.ResultID, result.MBTIType)
	case "facebook":
		payload = map[string]string{"url": share.Facebook(baseURL, result.ResultID)}
	case "twitter":
		payload = map[string]string{"url": share.Twitter(baseURL, result.ResultID, result.MBTIType)}
	case "instagram":
		payload = map[string]string{"caption": share.Instagram(result.MBTIType)}
	default:
		payload = map[string]string{"url": share.Link(baseURL, result.ResultID)}
	}

	if _, err := h.logShare(r, result.ResultID, platform); err != nil {
		slog.Warn("failed to log share", "error", err, "result_id", result.ResultID)
	} else {
		h.stats.NotifyChange(r.Context())
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"platform": platform,
		"payload":  payload,
	})
}

// Stats returns the total share count.
func (h *ShareHandler) Stats(w http.ResponseWriter, r *http.Request) {
	total, err := h.repo.CountShares(r.Context())
	if err != nil {
		slog.Error("failed to count shares", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load share stats")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"total": total})
}

func (h *ShareHandler) logShare(r *http.Request, resultID, platform string) (int, error) {
	ctx := r.Context()
	entry := &domain.ShareLog{
		ResultID:  resultID,
		Platform:  platform,
		VisitorID: identity.VisitorIDFromContext(ctx),
		SharedAt:  time.Now(),
	}
	if err := h.repo.LogShare(ctx, entry); err != nil {
		return 0, err
	}
	return h.repo.IncrementSharedCount(ctx, resultID)
}
