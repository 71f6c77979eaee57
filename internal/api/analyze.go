package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/jinsol-dev/persona-lab/internal/classifier"
	"github.com/jinsol-dev/persona-lab/internal/domain"
	"github.com/jinsol-dev/persona-lab/internal/identity"
	"github.com/jinsol-dev/persona-lab/internal/quiz"
)

// AnalyzeHandler serves the single-shot analysis endpoint used by clients
// that build the prompt themselves and expect the upstream reply envelope
// passed through verbatim.
type AnalyzeHandler struct {
	*Handler
	classifier *classifier.Gemini
}

// NewAnalyzeHandler creates the analysis passthrough handler.
func NewAnalyzeHandler(base *Handler, c *classifier.Gemini) *AnalyzeHandler {
	return &AnalyzeHandler{Handler: base, classifier: c}
}

// RegisterRoutes registers the analysis route.
func (h *AnalyzeHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/analyze", h.Analyze)
}

type analyzeRequest struct {
	Prompt         string         `json:"prompt"`
	MBTIType       string         `json:"mbtiType"`
	TestDuration   int            `json:"testDuration"`
	CategoryScores map[string]int `json:"categoryScores"`
	Answers        []struct {
		Question int    `json:"question"`
		Answer   string `json:"answer"`
	} `json:"answers"`
}

type analyzeResponse struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	ResultID  string          `json:"resultId,omitempty"`
	ResultURL string          `json:"resultUrl,omitempty"`
}

// Analyze forwards the prompt to the classifier and returns the raw reply
// envelope. On success the result is also persisted; a storage failure is
// logged and the analysis still returned.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := DecodeJSON(r, &req); err != nil {
		JSON(w, http.StatusBadRequest, analyzeResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		JSON(w, http.StatusBadRequest, analyzeResponse{Error: "prompt is required"})
		return
	}

	env, err := h.classifier.GenerateEnvelope(r.Context(), req.Prompt)
	if err != nil {
		slog.Error("analysis request failed", "error", err)
		JSON(w, http.StatusBadGateway, analyzeResponse{
			Error: "분석 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요.",
		})
		return
	}

	resp := analyzeResponse{Success: true, Data: env.Raw}
	if resultID := h.persist(r, req, env); resultID != "" {
		resp.ResultID = resultID
		resp.ResultURL = h.cfg.ResultURL(resultID)
	}
	JSON(w, http.StatusOK, resp)
}

func (h *AnalyzeHandler) persist(r *http.Request, req analyzeRequest, env *classifier.Envelope) string {
	ctx := r.Context()

	text, err := env.Text()
	if err != nil {
		slog.Warn("analysis reply has no extractable text, skipping persistence", "error", err)
		return ""
	}

	// The parsed MBTI type beats the client's estimate when it is valid.
	mbtiType := strings.ToUpper(strings.TrimSpace(req.MBTIType))
	parsed := quiz.ParseAnalysis(text)
	if !parsed.Fallback && domain.IsValidMBTIType(parsed.Result.MBTI.Type) {
		mbtiType = parsed.Result.MBTI.Type
	}
	if !domain.IsValidMBTIType(mbtiType) {
		slog.Warn("analysis reply carries no valid MBTI type, skipping persistence", "mbti_type", mbtiType)
		return ""
	}
	info := domain.MBTIInfo(mbtiType)

	scores := req.CategoryScores
	if len(scores) == 0 {
		scores = parsed.Result.MBTI.AxisPercentages
	}
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		scoresJSON = []byte("{}")
	}
	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		answersJSON = []byte("[]")
	}

	duration := req.TestDuration
	if duration <= 0 {
		duration = quiz.EstimateDuration()
	}

	now := time.Now()
	record := &domain.TestResult{
		ResultID:        ulid.Make().String(),
		VisitorID:       identity.VisitorIDFromContext(ctx),
		UserIP:          identity.IPFromRequest(r),
		UserAgent:       r.UserAgent(),
		MBTIType:        mbtiType,
		MBTIDescription: info.Description,
		MBTIColor:       info.Color,
		CategoryScores:  string(scoresJSON),
		AnswerData:      string(answersJSON),
		AIAnalysis:      text,
		TestDuration:    duration,
		Public:          h.cfg.PublicResults,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := h.repo.SaveResult(ctx, record); err != nil {
		slog.Error("failed to persist test result", "error", err, "visitor_id", record.VisitorID)
		return ""
	}

	h.stats.NotifyChange(ctx)
	return record.ResultID
}
