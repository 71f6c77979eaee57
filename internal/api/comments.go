package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jinsol-dev/persona-lab/internal/domain"
	"github.com/jinsol-dev/persona-lab/internal/identity"
	"github.com/jinsol-dev/persona-lab/internal/store"
)

const (
	maxCommentLen  = 1000
	maxNicknameLen = 40
)

// CommentHandler serves result and type-board comments.
type CommentHandler struct {
	*Handler
}

// NewCommentHandler creates a comment handler.
func NewCommentHandler(base *Handler) *CommentHandler {
	return &CommentHandler{Handler: base}
}

// RegisterRoutes registers comment routes.
func (h *CommentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/comments", func(r chi.Router) {
		r.Post("/", h.Add)
		r.Get("/recent", h.Recent)
		r.Get("/popular", h.Popular)
		r.Get("/stats", h.Stats)
		r.Get("/result/{id}", h.ByResult)
		r.Get("/mbti/{type}", h.ByMBTI)
		r.Post("/{id}/like", h.Like)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

type commentRequest struct {
	ResultID string `json:"result_id"`
	MBTIType string `json:"mbti_type"`
	Nickname string `json:"nickname"`
	Body     string `json:"comment"`
}

// Add posts a new comment on a result or a type board.
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		Error(w, http.StatusBadRequest, "comment cannot be empty")
		return
	}
	if len(body) > maxCommentLen {
		Error(w, http.StatusBadRequest, "comment too long")
		return
	}

	mbtiType := strings.ToUpper(strings.TrimSpace(req.MBTIType))
	if mbtiType != "" && !domain.IsValidMBTIType(mbtiType) {
		Error(w, http.StatusBadRequest, "unknown MBTI type")
		return
	}
	if req.ResultID == "" && mbtiType == "" {
		Error(w, http.StatusBadRequest, "comment needs a result or MBTI type")
		return
	}

	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		nickname = identity.NicknameFromContext(r.Context())
	}
	if runes := []rune(nickname); len(runes) > maxNicknameLen {
		nickname = string(runes[:maxNicknameLen])
	}

	now := time.Now()
	comment := &domain.Comment{
		ResultID:  req.ResultID,
		MBTIType:  mbtiType,
		Nickname:  nickname,
		Body:      body,
		VisitorID: identity.VisitorIDFromContext(r.Context()),
		UserIP:    identity.IPFromRequest(r),
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := h.repo.AddComment(r.Context(), comment)
	if err != nil {
		slog.Error("failed to add comment", "error", err)
		Error(w, http.StatusInternalServerError, "failed to add comment")
		return
	}
	comment.CommentID = id

	h.stats.NotifyChange(r.Context())
	JSON(w, http.StatusCreated, comment)
}

// ByResult lists a result's comments.
func (h *CommentHandler) ByResult(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20, 100)
	offset := queryInt(r, "offset", 0, 1<<20)
	comments, err := h.repo.CommentsByResult(r.Context(), chi.URLParam(r, "id"), limit, offset)
	h.respondList(w, comments, err)
}

// ByMBTI lists comments on one type board.
func (h *CommentHandler) ByMBTI(w http.ResponseWriter, r *http.Request) {
	mbtiType := strings.ToUpper(chi.URLParam(r, "type"))
	if !domain.IsValidMBTIType(mbtiType) {
		Error(w, http.StatusBadRequest, "unknown MBTI type")
		return
	}
	comments, err := h.repo.CommentsByMBTI(r.Context(), mbtiType, queryInt(r, "limit", 20, 100))
	h.respondList(w, comments, err)
}

// Recent lists the newest comments across all boards.
func (h *CommentHandler) Recent(w http.ResponseWriter, r *http.Request) {
	comments, err := h.repo.RecentComments(r.Context(), queryInt(r, "limit", 20, 100))
	h.respondList(w, comments, err)
}

// Popular lists comments by like count.
func (h *CommentHandler) Popular(w http.ResponseWriter, r *http.Request) {
	comments, err := h.repo.PopularComments(r.Context(), queryInt(r, "limit", 20, 100))
	h.respondList(w, comments, err)
}

func (h *CommentHandler) respondList(w http.ResponseWriter, comments []*domain.Comment, err error) {
	if err != nil {
		slog.Error("failed to list comments", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list comments")
		return
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	JSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

// Like bumps a comment's like counter.
func (h *CommentHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := h.commentID(w, r)
	if !ok {
		return
	}

	count, err := h.repo.LikeComment(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "comment not found")
		return
	}
	if err != nil {
		slog.Error("failed to like comment", "error", err, "comment_id", id)
		Error(w, http.StatusInternalServerError, "failed to like comment")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"comment_id": id,
		"like_count": count,
	})
}

// Update edits the visitor's own comment.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.commentID(w, r)
	if !ok {
		return
	}

	var req struct {
		Body string `json:"comment"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		Error(w, http.StatusBadRequest, "comment cannot be empty")
		return
	}
	if len(body) > maxCommentLen {
		Error(w, http.StatusBadRequest, "comment too long")
		return
	}

	visitorID := identity.VisitorIDFromContext(r.Context())
	err := h.repo.UpdateComment(r.Context(), id, visitorID, body)
	if h.ownershipError(w, err, id, "update") {
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"comment_id": id, "comment": body})
}

// Delete removes the visitor's own comment.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.commentID(w, r)
	if !ok {
		return
	}

	visitorID := identity.VisitorIDFromContext(r.Context())
	err := h.repo.DeleteComment(r.Context(), id, visitorID)
	if h.ownershipError(w, err, id, "delete") {
		return
	}

	h.stats.NotifyChange(r.Context())
	JSON(w, http.StatusOK, map[string]interface{}{"comment_id": id, "deleted": true})
}

// Stats returns comment totals for the statistics page.
func (h *CommentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	total, err := h.repo.CountComments(r.Context())
	if err != nil {
		slog.Error("failed to count comments", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load comment stats")
		return
	}
	byType, err := h.repo.CommentCountsByMBTI(r.Context())
	if err != nil {
		slog.Error("failed to group comments", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load comment stats")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"total":   total,
		"by_mbti": byType,
	})
}

func (h *CommentHandler) commentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		Error(w, http.StatusBadRequest, "invalid comment id")
		return 0, false
	}
	return id, true
}

func (h *CommentHandler) ownershipError(w http.ResponseWriter, err error, id int64, op string) bool {
	switch {
	case errors.Is(err, store.ErrNotFound):
		Error(w, http.StatusNotFound, "comment not found")
		return true
	case errors.Is(err, store.ErrForbidden):
		Error(w, http.StatusForbidden, "not your comment")
		return true
	case err != nil:
		slog.Error("failed to "+op+" comment", "error", err, "comment_id", id)
		Error(w, http.StatusInternalServerError, "failed to "+op+" comment")
		return true
	}
	return false
}
