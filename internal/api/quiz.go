package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/jinsol-dev/persona-lab/internal/domain"
	"github.com/jinsol-dev/persona-lab/internal/identity"
	"github.com/jinsol-dev/persona-lab/internal/quiz"
)

// QuizHandler drives the question-by-question test flow.
type QuizHandler struct {
	*Handler
	quizzes *quiz.Manager
}

// NewQuizHandler creates a quiz flow handler.
func NewQuizHandler(base *Handler, quizzes *quiz.Manager) *QuizHandler {
	return &QuizHandler{Handler: base, quizzes: quizzes}
}

// RegisterRoutes registers quiz flow routes.
func (h *QuizHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/quiz", func(r chi.Router) {
		r.Get("/", h.Current)
		r.Get("/answers", h.Answers)
		r.Post("/start", h.Start)
		r.Post("/resume", h.Resume)
		r.Post("/answer", h.Answer)
		r.Post("/back", h.Back)
		r.Post("/analyze", h.Analyze)
		r.Post("/retry", h.Analyze)
		r.Post("/restart", h.Start)
	})
}

func (h *QuizHandler) flow(r *http.Request) *quiz.Flow {
	return h.quizzes.Flow(
		identity.VisitorIDFromContext(r.Context()),
		identity.TabIDFromContext(r.Context()),
	)
}

// flowView is the state payload common to every quiz flow response.
type flowView struct {
	State    string `json:"state"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	Answered int    `json:"answered"`
	Question string `json:"question,omitempty"`
	Prefill  string `json:"prefill,omitempty"`
}

func presentFlow(f *quiz.Flow) flowView {
	view := flowView{
		State: f.State().String(),
		Total: quiz.QuestionCount(),
	}
	sess := f.Session()
	view.Index = sess.Index
	view.Answered = sess.AnswerCount()

	if idx, q, prefill, ok := f.Current(); ok {
		view.Index = idx
		view.Question = q.Prompt
		view.Prefill = prefill
	}
	return view
}

// Start begins a fresh test, discarding any prior progress.
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	f := h.flow(r)
	f.Start(r.Context())
	JSON(w, http.StatusOK, presentFlow(f))
}

// Resume restores a saved session if a restorable snapshot exists.
func (h *QuizHandler) Resume(w http.ResponseWriter, r *http.Request) {
	f := h.flow(r)
	resumed := f.Resume(r.Context())
	JSON(w, http.StatusOK, map[string]interface{}{
		"resumed": resumed,
		"flow":    presentFlow(f),
	})
}

// Current returns the flow state and the question on display.
func (h *QuizHandler) Current(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, presentFlow(h.flow(r)))
}

// Answers returns the collected answer sheet.
func (h *QuizHandler) Answers(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"answers": quiz.PresentAnswers(h.flow(r).AnswerSheet()),
	})
}

// Answer accepts the answer for the current question and advances.
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer string `json:"answer"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f := h.flow(r)
	_, err := f.SubmitAnswer(r.Context(), req.Answer)
	switch {
	case errors.Is(err, quiz.ErrEmptyAnswer):
		Error(w, http.StatusBadRequest, "answer cannot be empty")
		return
	case errors.Is(err, quiz.ErrAnalysisInFlight):
		Error(w, http.StatusConflict, "analysis already in progress")
		return
	case errors.Is(err, quiz.ErrNotInQuestion):
		Error(w, http.StatusConflict, "no question in progress")
		return
	case err != nil:
		Error(w, http.StatusInternalServerError, "failed to record answer")
		return
	}

	JSON(w, http.StatusOK, presentFlow(f))
}

// Back moves to the previous question for revision.
func (h *QuizHandler) Back(w http.ResponseWriter, r *http.Request) {
	f := h.flow(r)
	f.GoBack()
	JSON(w, http.StatusOK, presentFlow(f))
}

// Analyze runs the classifier over the collected answers and returns the
// rendered result. Valid after the final answer and as a retry after a
// failed run.
func (h *QuizHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	f := h.flow(r)

	result, err := f.Analyze(r.Context())
	switch {
	case errors.Is(err, quiz.ErrNotAnalyzing):
		Error(w, http.StatusConflict, "no analysis pending")
		return
	case errors.Is(err, quiz.ErrAnalysisInFlight):
		Error(w, http.StatusConflict, "analysis already in progress")
		return
	case errors.Is(err, quiz.ErrSessionReplaced):
		Error(w, http.StatusConflict, "session was restarted")
		return
	case err != nil:
		slog.Error("analysis failed", "error", err)
		JSON(w, http.StatusBadGateway, map[string]interface{}{
			"error": quiz.PresentError("분석 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."),
			"flow":  presentFlow(f),
		})
		return
	}

	resultID := h.persistResult(r, f, result)

	payload := map[string]interface{}{
		"flow":   presentFlow(f),
		"result": quiz.PresentResult(result),
	}
	if resultID != "" {
		payload["resultId"] = resultID
		payload["resultUrl"] = h.cfg.ResultURL(resultID)
	}
	JSON(w, http.StatusOK, payload)
}

// persistResult stores the completed analysis. Storage failures are logged
// only; the visitor still gets their result.
func (h *QuizHandler) persistResult(r *http.Request, f *quiz.Flow, result *domain.AnalysisResult) string {
	ctx := r.Context()
	now := time.Now()
	info := domain.MBTIInfo(result.MBTI.Type)

	scores := result.MBTI.AxisPercentages
	if len(scores) == 0 {
		scores = quiz.PlaceholderScores()
	}
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		slog.Warn("failed to serialize category scores", "error", err)
		scoresJSON = []byte("{}")
	}
	answersJSON, err := json.Marshal(f.AnswerSheet())
	if err != nil {
		slog.Warn("failed to serialize answer sheet", "error", err)
		answersJSON = []byte("[]")
	}

	record := &domain.TestResult{
		ResultID:        ulid.Make().String(),
		VisitorID:       identity.VisitorIDFromContext(ctx),
		UserIP:          identity.IPFromRequest(r),
		UserAgent:       r.UserAgent(),
		MBTIType:        result.MBTI.Type,
		MBTIDescription: info.Description,
		MBTIColor:       info.Color,
		CategoryScores:  string(scoresJSON),
		AnswerData:      string(answersJSON),
		AIAnalysis:      f.RawReply(),
		TestDuration:    quiz.EstimateDuration(),
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
