package api

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jinsol-dev/persona-lab/internal/domain"
	"github.com/jinsol-dev/persona-lab/internal/identity"
	"github.com/jinsol-dev/persona-lab/internal/stats"
)

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// StatsHandler serves the statistics dashboard endpoints.
type StatsHandler struct {
	*Handler
	service *stats.Service
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(base *Handler, service *stats.Service) *StatsHandler {
	return &StatsHandler{Handler: base, service: service}
}

// RegisterRoutes registers stats routes.
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/stats", func(r chi.Router) {
		r.Get("/dashboard", h.Dashboard)
		r.Get("/mbti", h.MBTI)
		r.Get("/daily", h.Daily)
		r.Get("/hourly", h.Hourly)
		r.Post("/view", h.LogView)
	})
}

// Dashboard returns the aggregate snapshot shown at the top of the
// statistics page.
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.DashboardStats(r.Context())
	if err != nil {
		slog.Error("failed to compute dashboard stats", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	JSON(w, http.StatusOK, snapshot)
}

type mbtiStatView struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Count   int64  `json:"count"`
	Percent int    `json:"percent"`
}

// MBTI returns the per-type result distribution with display metadata.
func (h *StatsHandler) MBTI(w http.ResponseWriter, r *http.Request) {
	dist, err := h.repo.MBTIDistribution(r.Context())
	if err != nil {
		slog.Error("failed to load mbti distribution", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	var total int64
	for _, count := range dist {
		total += count
	}

	types := domain.MBTITypes()
	views := make([]mbtiStatView, 0, len(types))
	for _, mbtiType := range types {
		info := domain.MBTIInfo(mbtiType)
		view := mbtiStatView{
			Type:  mbtiType,
			Name:  info.Name,
			Color: info.Color,
			Count: dist[mbtiType],
		}
		if total > 0 {
			view.Percent = int(view.Count * 100 / total)
		}
		views = append(views, view)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"total":        total,
		"distribution": views,
	})
}

// Daily returns the per-day rollup rows, newest first.
func (h *StatsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7, 90)
	rows, err := h.repo.DailyStats(r.Context(), days)
	if err != nil {
		slog.Error("failed to load daily stats", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	if rows == nil {
		rows = []*domain.DailyStat{}
	}
	JSON(w, http.StatusOK, map[string]interface{}{"days": rows})
}

// Hourly returns per-hour counts for one day (today by default).
func (h *StatsHandler) Hourly(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		day = time.Now().UTC().Format("2006-01-02")
	}
	if !dayPattern.MatchString(day) {
		Error(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
		return
	}

	rows, err := h.repo.HourlyStats(r.Context(), day)
	if err != nil {
		slog.Error("failed to load hourly stats", "error", err, "day", day)
		Error(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	if rows == nil {
		rows = []*domain.HourlyStat{}
	}
	JSON(w, http.StatusOK, map[string]interface{}{"day": day, "hours": rows})
}

type viewRequest struct {
	Page     string `json:"page"`
	MBTIType string `json:"mbti_type"`
	Referer  string `json:"referer"`
}

// LogView records a page view reported by the frontend.
func (h *StatsHandler) LogView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	page := strings.TrimSpace(req.Page)
	if page == "" {
		page = "/"
	}
	mbtiType := strings.ToUpper(strings.TrimSpace(req.MBTIType))
	if mbtiType != "" && !domain.IsValidMBTIType(mbtiType) {
		mbtiType = ""
	}

	view := &domain.ViewLog{
		Page:      page,
		MBTIType:  mbtiType,
		VisitorID: identity.VisitorIDFromContext(r.Context()),
		UserIP:    identity.IPFromRequest(r),
		UserAgent: r.UserAgent(),
		Referer:   req.Referer,
		ViewedAt:  time.Now(),
	}
	if err := h.repo.LogView(r.Context(), view); err != nil {
		slog.Error("failed to log view", "error", err)
		Error(w, http.StatusInternalServerError, "failed to log view")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"logged": true})
}
