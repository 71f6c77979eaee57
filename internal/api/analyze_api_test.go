package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jinsol-dev/persona-lab/internal/classifier"
	"github.com/jinsol-dev/persona-lab/internal/config"
	"github.com/jinsol-dev/persona-lab/internal/identity"
	"github.com/jinsol-dev/persona-lab/internal/stats"
)

func newAnalyzeEnv(t *testing.T, upstream http.HandlerFunc) (*testEnv, func()) {
	t.Helper()

	gemini := httptest.NewServer(upstream)
	repo := newFakeRepo()
	cfg := &config.Config{SiteURL: "http://localhost:8080", PublicResults: true}
	svc := stats.NewService(repo, nil)
	base := NewHandler(repo, svc, cfg)

	cls := classifier.New(classifier.Config{
		APIKey:  "test-key",
		BaseURL: gemini.URL,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Use(identity.Middleware(repo, true))
	NewAnalyzeHandler(base, cls).RegisterRoutes(r)

	server := httptest.NewServer(r)
	env := &testEnv{repo: repo, server: server, client: server.Client()}
	return env, func() {
		server.Close()
		gemini.Close()
	}
}

func geminiReply(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				}},
			},
		})
	}
}

func TestAnalyzePassthrough(t *testing.T) {
	env, cleanup := newAnalyzeEnv(t, geminiReply(analysisReply))
	defer cleanup()

	resp, err := env.do(http.MethodPost, "/api/analyze", `{"prompt": "분석해주세요"}`)
	if err != nil {
		t.Fatalf("Failed to call analyze: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var body analyzeResponse
	decodeBody(t, resp, &body)
	if !body.Success {
		t.Error("Expected success")
	}
	if len(body.Data) == 0 {
		t.Error("Expected the upstream envelope passed through")
	}
	if body.ResultID == "" {
		t.Fatal("Expected a persisted result ID")
	}
	if !strings.HasSuffix(body.ResultURL, "/result/"+body.ResultID) {
		t.Errorf("Expected result URL for %s, got %q", body.ResultID, body.ResultURL)
	}

	rec, err := env.repo.GetResult(nil, body.ResultID)
	if err != nil || rec == nil {
		t.Fatalf("Expected stored result, got %v (err %v)", rec, err)
	}
	if rec.MBTIType != "INTJ" {
		t.Errorf("Expected parsed type INTJ stored, got %q", rec.MBTIType)
	}
}

func TestAnalyzeRequiresPrompt(t *testing.T) {
	env, cleanup := newAnalyzeEnv(t, geminiReply(analysisReply))
	defer cleanup()

	resp, err := env.do(http.MethodPost, "/api/analyze", `{"prompt": "  "}`)
	if err != nil {
		t.Fatalf("Failed to call analyze: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	env, cleanup := newAnalyzeEnv(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})
	defer cleanup()

	resp, err := env.do(http.MethodPost, "/api/analyze", `{"prompt": "분석해주세요"}`)
	if err != nil {
		t.Fatalf("Failed to call analyze: %v", err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d", resp.StatusCode)
	}

	var body analyzeResponse
	decodeBody(t, resp, &body)
	if body.Success {
		t.Error("Expected failure response")
	}
	if body.Error == "" {
		t.Error("Expected an error message")
	}
}

func TestAnalyzeSkipsPersistenceWithoutType(t *testing.T) {
	env, cleanup := newAnalyzeEnv(t, geminiReply("그냥 줄글 답변입니다."))
	defer cleanup()

	resp, err := env.do(http.MethodPost, "/api/analyze",
		`{"prompt": "분석해주세요", "mbtiType": "????"}`)
	if err != nil {
		t.Fatalf("Failed to call analyze: %v", err)
	}
	var body analyzeResponse
	decodeBody(t, resp, &body)
	if !body.Success {
		t.Error("Expected success even without persistence")
	}
	if body.ResultID != "" {
		t.Errorf("Expected no persisted result, got %q", body.ResultID)
	}
}
