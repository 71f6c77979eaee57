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
	"github.com/jinsol-dev/persona-lab/internal/quiz"
	"github.com/jinsol-dev/persona-lab/internal/store"
)

// ResultHandler serves stored test results.
type ResultHandler struct {
	*Handler
}

// NewResultHandler creates a result handler.
func NewResultHandler(base *Handler) *ResultHandler {
	return &ResultHandler{Handler: base}
}

// RegisterRoutes registers result routes.
func (h *ResultHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/results", func(r chi.Router) {
		r.Get("/recent", h.Recent)
		r.Get("/most-commented", h.MostCommented)
		r.Get("/most-shared", h.MostShared)
		r.Get("/mbti/{type}", h.ByMBTI)
		r.Get("/{id}", h.Get)
		r.Put("/{id}/visibility", h.SetVisibility)
	})
}

// resultView is the public rendering of one stored result.
type resultView struct {
	ResultID    string          `json:"result_id"`
	MBTIType    string          `json:"mbti_type"`
	MBTIName    string          `json:"mbti_name"`
	MBTIColor   string          `json:"mbti_color"`
	ViewCount   int             `json:"view_count"`
	SharedCount int             `json:"shared_count"`
	Public      bool            `json:"is_public"`
	Mine        bool            `json:"is_mine"`
	CreatedAt   time.Time       `json:"created_at"`
	Analysis    quiz.ResultView `json:"analysis"`
}

func presentRecord(rec *domain.TestResult, visitorID string) resultView {
	parsed := quiz.ParseAnalysis(rec.AIAnalysis)
	info := domain.MBTIInfo(rec.MBTIType)
	return resultView{
		ResultID:    rec.ResultID,
		MBTIType:    rec.MBTIType,
		MBTIName:    info.Name,
		MBTIColor:   info.Color,
		ViewCount:   rec.ViewCount,
		SharedCount: rec.SharedCount,
		Public:      rec.Public,
		Mine:        rec.OwnedBy(visitorID),
		CreatedAt:   rec.CreatedAt,
		Analysis:    quiz.PresentResult(&parsed.Result),
	}
}

func presentRecords(recs []*domain.TestResult, visitorID string) []resultView {
	views := make([]resultView, len(recs))
	for i, rec := range recs {
		views[i] = presentRecord(rec, visitorID)
	}
	return views
}

// Get returns one result and counts the view.
func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	resultID := chi.URLParam(r, "id")
	visitorID := identity.VisitorIDFromContext(r.Context())

	rec, err := h.repo.GetResult(r.Context(), resultID)
	if err != nil {
		slog.Error("failed to load result", "error", err, "result_id", resultID)
		Error(w, http.StatusInternalServerError, "failed to load result")
		return
	}
	if rec == nil {
		Error(w, http.StatusNotFound, "result not found")
		return
	}
	if !rec.Public && !rec.OwnedBy(visitorID) {
		Error(w, http.StatusForbidden, "result is private")
		return
	}

	if count, err := h.repo.IncrementViewCount(r.Context(), resultID); err != nil {
		slog.Warn("failed to bump view count", "error", err, "result_id", resultID)
	} else {
		rec.ViewCount = count
	}
	if err := h.repo.LogView(r.Context(), &domain.ViewLog{
		Page:      "result",
		MBTIType:  rec.MBTIType,
		VisitorID: visitorID,
		UserIP:    identity.IPFromRequest(r),
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
		ViewedAt:  time.Now(),
	}); err != nil {
		slog.Warn("failed to log result view", "error", err)
	}

	JSON(w, http.StatusOK, presentRecord(rec, visitorID))
}

// Recent lists the newest public results.
func (h *ResultHandler) Recent(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(limit int) ([]*domain.TestResult, error) {
		return h.repo.RecentResults(r.Context(), limit)
	})
}

// MostCommented lists public results by comment count.
func (h *ResultHandler) MostCommented(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(limit int) ([]*domain.TestResult, error) {
		return h.repo.MostCommentedResults(r.Context(), limit)
	})
}

// MostShared lists public results by share counter.
func (h *ResultHandler) MostShared(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(limit int) ([]*domain.TestResult, error) {
		return h.repo.MostSharedResults(r.Context(), limit)
	})
}

// ByMBTI lists public results of one MBTI type.
func (h *ResultHandler) ByMBTI(w http.ResponseWriter, r *http.Request) {
	mbtiType := strings.ToUpper(chi.URLParam(r, "type"))
	if !domain.IsValidMBTIType(mbtiType) {
		Error(w, http.StatusBadRequest, "unknown MBTI type")
		return
	}
	h.list(w, r, func(limit int) ([]*domain.TestResult, error) {
		return h.repo.ResultsByMBTI(r.Context(), mbtiType, limit)
	})
}

func (h *ResultHandler) list(w http.ResponseWriter, r *http.Request, fetch func(limit int) ([]*domain.TestResult, error)) {
	limit := queryInt(r, "limit", 20, 100)
	recs, err := fetch(limit)
	if err != nil {
		slog.Error("failed to list results", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list results")
		return
	}
	visitorID := identity.VisitorIDFromContext(r.Context())
	JSON(w, http.StatusOK, map[string]interface{}{
		"results": presentRecords(recs, visitorID),
	})
}

// SetVisibility toggles the public flag of the visitor's own result.
func (h *ResultHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Public bool `json:"is_public"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resultID := chi.URLParam(r, "id")
	visitorID := identity.VisitorIDFromContext(r.Context())

	err := h.repo.SetResultVisibility(r.Context(), resultID, visitorID, req.Public)
	switch {
	case errors.Is(err, store.ErrNotFound):
		Error(w, http.StatusNotFound, "result not found")
		return
	case errors.Is(err, store.ErrForbidden):
		Error(w, http.StatusForbidden, "not your result")
		return
	case err != nil:
		slog.Error("failed to set result visibility", "error", err, "result_id", resultID)
		Error(w, http.StatusInternalServerError, "failed to update visibility")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"result_id": resultID,
		"is_public": req.Public,
	})
}
