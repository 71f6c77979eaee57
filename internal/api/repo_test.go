package api

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jinsol-dev/persona-lab/internal/config"
	"github.com/jinsol-dev/persona-lab/internal/domain"
	"github.com/jinsol-dev/persona-lab/internal/identity"
	"github.com/jinsol-dev/persona-lab/internal/quiz"
	"github.com/jinsol-dev/persona-lab/internal/stats"
	"github.com/jinsol-dev/persona-lab/internal/store"
)

type fakeRepo struct {
	mu        sync.Mutex
	visitors  map[string]*domain.Visitor
	snapshots map[string][]byte
	results   map[string]*domain.TestResult
	comments  map[int64]*domain.Comment
	nextID    int64
	views     []*domain.ViewLog
	shares    []*domain.ShareLog
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		visitors:  make(map[string]*domain.Visitor),
		snapshots: make(map[string][]byte),
		results:   make(map[string]*domain.TestResult),
		comments:  make(map[int64]*domain.Comment),
	}
}

func (f *fakeRepo) GetVisitor(_ context.Context, visitorID string) (*domain.Visitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.visitors[visitorID]
	if v == nil {
		return nil, nil
	}
	copy := *v
	return &copy, nil
}

func (f *fakeRepo) UpsertVisitor(_ context.Context, visitor *domain.Visitor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *visitor
	f.visitors[visitor.VisitorID] = &copy
	return nil
}

func (f *fakeRepo) UpdateLastSeen(_ context.Context, _ string, _ time.Time) error { return nil }

func (f *fakeRepo) SaveSnapshot(_ context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeRepo) LoadSnapshot(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshots[key], nil
}

func (f *fakeRepo) ClearSnapshot(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.snapshots, key)
	return nil
}

func (f *fakeRepo) DeleteExpiredSnapshots(_ context.Context, _ time.Duration) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) SaveResult(_ context.Context, result *domain.TestResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *result
	f.results[result.ResultID] = &copy
	return nil
}

func (f *fakeRepo) GetResult(_ context.Context, resultID string) (*domain.TestResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.results[resultID]
	if rec == nil {
		return nil, nil
	}
	copy := *rec
	return &copy, nil
}

func (f *fakeRepo) listResults(filter func(*domain.TestResult) bool) []*domain.TestResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.TestResult
	for _, rec := range f.results {
		if rec.Public && (filter == nil || filter(rec)) {
			copy := *rec
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeRepo) RecentResults(_ context.Context, limit int) ([]*domain.TestResult, error) {
	out := f.listResults(nil)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) ResultsByMBTI(_ context.Context, mbtiType string, limit int) ([]*domain.TestResult, error) {
	out := f.listResults(func(r *domain.TestResult) bool { return r.MBTIType == mbtiType })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) MostCommentedResults(_ context.Context, limit int) ([]*domain.TestResult, error) {
	return f.RecentResults(nil, limit)
}

func (f *fakeRepo) MostSharedResults(_ context.Context, limit int) ([]*domain.TestResult, error) {
	out := f.listResults(nil)
	sort.Slice(out, func(i, j int) bool { return out[i].SharedCount > out[j].SharedCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) IncrementViewCount(_ context.Context, resultID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.results[resultID]
	if rec == nil {
		return 0, store.ErrNotFound
	}
	rec.ViewCount++
	return rec.ViewCount, nil
}

func (f *fakeRepo) IncrementSharedCount(_ context.Context, resultID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.results[resultID]
	if rec == nil {
		return 0, store.ErrNotFound
	}
	rec.SharedCount++
	return rec.SharedCount, nil
}

func (f *fakeRepo) SetResultVisibility(_ context.Context, resultID, visitorID string, public bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.results[resultID]
	if rec == nil {
		return store.ErrNotFound
	}
	if rec.VisitorID != visitorID {
		return store.ErrForbidden
	}
	rec.Public = public
	return nil
}

func (f *fakeRepo) CountResults(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.results)), nil
}

func (f *fakeRepo) MBTIDistribution(_ context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dist := make(map[string]int64)
	for _, rec := range f.results {
		dist[rec.MBTIType]++
	}
	return dist, nil
}

func (f *fakeRepo) AddComment(_ context.Context, comment *domain.Comment) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	copy := *comment
	copy.CommentID = f.nextID
	f.comments[f.nextID] = &copy
	return f.nextID, nil
}

func (f *fakeRepo) listComments(filter func(*domain.Comment) bool) []*domain.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Comment
	for _, c := range f.comments {
		if filter == nil || filter(c) {
			copy := *c
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CommentID > out[j].CommentID })
	return out
}

func (f *fakeRepo) CommentsByResult(_ context.Context, resultID string, limit, offset int) ([]*domain.Comment, error) {
	out := f.listComments(func(c *domain.Comment) bool { return c.ResultID == resultID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) CommentsByMBTI(_ context.Context, mbtiType string, limit int) ([]*domain.Comment, error) {
	out := f.listComments(func(c *domain.Comment) bool { return c.MBTIType == mbtiType })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) RecentComments(_ context.Context, limit int) ([]*domain.Comment, error) {
	out := f.listComments(nil)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) PopularComments(_ context.Context, limit int) ([]*domain.Comment, error) {
	out := f.listComments(nil)
	sort.Slice(out, func(i, j int) bool { return out[i].LikeCount > out[j].LikeCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) LikeComment(_ context.Context, commentID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.comments[commentID]
	if c == nil {
		return 0, store.ErrNotFound
	}
	c.LikeCount++
	return c.LikeCount, nil
}

func (f *fakeRepo) UpdateComment(_ context.Context, commentID int64, visitorID, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.comments[commentID]
	if c == nil {
		return store.ErrNotFound
	}
	if c.VisitorID != visitorID {
		return store.ErrForbidden
	}
	c.Body = body
	c.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRepo) DeleteComment(_ context.Context, commentID int64, visitorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.comments[commentID]
	if c == nil {
		return store.ErrNotFound
	}
	if c.VisitorID != visitorID {
		return store.ErrForbidden
	}
	delete(f.comments, commentID)
	return nil
}

func (f *fakeRepo) CountComments(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.comments)), nil
}

func (f *fakeRepo) CommentCountsByMBTI(_ context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64)
	for _, c := range f.comments {
		if c.MBTIType != "" {
			counts[c.MBTIType]++
		}
	}
	return counts, nil
}

func (f *fakeRepo) LogView(_ context.Context, view *domain.ViewLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *view
	f.views = append(f.views, &copy)
	return nil
}

func (f *fakeRepo) LogShare(_ context.Context, share *domain.ShareLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *share
	f.shares = append(f.shares, &copy)
	return nil
}

func (f *fakeRepo) CountShares(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.shares)), nil
}

func (f *fakeRepo) DailyCounts(_ context.Context, day string) (*domain.DailyStat, error) {
	return &domain.DailyStat{Day: day}, nil
}

func (f *fakeRepo) UpsertDailyStat(_ context.Context, _ *domain.DailyStat) error { return nil }

func (f *fakeRepo) DailyStats(_ context.Context, _ int) ([]*domain.DailyStat, error) {
	return nil, nil
}

func (f *fakeRepo) HourlyStats(_ context.Context, _ string) ([]*domain.HourlyStat, error) {
	return nil, nil
}

func (f *fakeRepo) Ping(_ context.Context) error { return nil }
func (f *fakeRepo) Close() error                 { return nil }

type fakeClassifier struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (f *fakeClassifier) Generate(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.reply, f.err
}

const analysisReply = "```json\n" + `{
  "mbti": {
    "type": "INTJ",
    "percentages": {"E": 30, "I": 70, "S": 40, "N": 60, "T": 80, "F": 20, "J": 65, "P": 35},
    "description": "전략적인 사색가"
  },
  "dnd": {"alignment": "질서 선", "description": "원칙을 지키는 계획가"},
  "enneagram": {"type": "5w6", "description": "탐구하는 관찰자"},
  "comprehensive": {
    "summary": "깊이 있는 사고를 하는 유형입니다.",
    "strengths": ["분석력"],
    "weaknesses": ["고집"],
    "growth_areas": ["유연함 기르기"],
    "one_line_summary": "계획으로 세상을 읽는 사람",
    "similar_characters": {"name": "L", "source": "데스노트", "reason": "치밀한 분석력"},
    "recommendations": "새로운 관점에 마음 열기"
  }
}` + "\n```"

type testEnv struct {
	repo       *fakeRepo
	classifier *fakeClassifier
	server     *httptest.Server
	client     *http.Client
}

func newTestEnv() *testEnv {
	repo := newFakeRepo()
	cls := &fakeClassifier{reply: analysisReply}
	cfg := &config.Config{SiteURL: "http://localhost:8080", PublicResults: true}

	svc := stats.NewService(repo, nil)
	base := NewHandler(repo, svc, cfg)

	r := chi.NewRouter()
	r.Use(identity.Middleware(repo, true))
	NewQuizHandler(base, quiz.NewManager(cls, repo)).RegisterRoutes(r)
	NewCommentHandler(base).RegisterRoutes(r)
	NewShareHandler(base).RegisterRoutes(r)
	NewStatsHandler(base, svc).RegisterRoutes(r)
	NewResultHandler(base).RegisterRoutes(r)
	NewHealthHandler(repo).RegisterHealth(r)

	server := httptest.NewServer(r)
	jar, _ := cookiejar.New(nil)
	return &testEnv{
		repo:       repo,
		classifier: cls,
		server:     server,
		client:     &http.Client{Jar: jar},
	}
}

func (e *testEnv) close() { e.server.Close() }

func (e *testEnv) do(method, path, body string) (*http.Response, error) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.client.Do(req)
}
