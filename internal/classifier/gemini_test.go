package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Gemini, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := New(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "gemini-test"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return g, srv
}

func TestGenerateExtractsText(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	g, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates": [{"content": {"parts": [{"text": "분석 결과"}]}}]}`)
	})

	text, err := g.Generate(context.Background(), "프롬프트")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "분석 결과" {
		t.Errorf("text = %q", text)
	}
	if gotPath != "/models/gemini-test:generateContent" {
		t.Errorf("path = %q", gotPath)
	}

	cfg, ok := gotBody["generationConfig"].(map[string]any)
	if !ok {
		t.Fatalf("generationConfig missing from request: %v", gotBody)
	}
	if cfg["maxOutputTokens"] != float64(8000) {
		t.Errorf("maxOutputTokens = %v", cfg["maxOutputTokens"])
	}
	if cfg["temperature"] != 0.7 {
		t.Errorf("temperature = %v", cfg["temperature"])
	}
}

func TestGenerateContentTextFallback(t *testing.T) {
	g, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates": [{"content": {"text": "직접 텍스트"}}]}`)
	})
	text, err := g.Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "직접 텍스트" {
		t.Errorf("text = %q", text)
	}
}

func TestGenerateServerErrorIsUnavailable(t *testing.T) {
	g, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})
	if _, err := g.Generate(context.Background(), "p"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestGenerateTransportErrorIsUnavailable(t *testing.T) {
	g, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()
	if _, err := g.Generate(context.Background(), "p"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestGenerateBadEnvelope(t *testing.T) {
	cases := map[string]string{
		"no candidates":  `{"candidates": []}`,
		"api error":      `{"error": {"code": 400, "message": "bad request"}}`,
		"not json":       `<html>gateway timeout</html>`,
		"empty parts":    `{"candidates": [{"content": {"parts": []}, "finishReason": "SAFETY"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			g, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, body)
			})
			if _, err := g.Generate(context.Background(), "p"); !errors.Is(err, ErrEnvelope) {
				t.Fatalf("error = %v, want ErrEnvelope", err)
			}
		})
	}
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	g := New(Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := g.Generate(context.Background(), "p"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestEnvelopeRetainsRawBody(t *testing.T) {
	body := `{"candidates": [{"content": {"parts": [{"text": "ok"}]}}], "modelVersion": "x"}`
	g, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	})
	env, err := g.GenerateEnvelope(context.Background(), "p")
	if err != nil {
		t.Fatalf("GenerateEnvelope: %v", err)
	}
	if !strings.Contains(string(env.Raw), "modelVersion") {
		t.Errorf("raw body lost fields: %s", env.Raw)
	}
}
