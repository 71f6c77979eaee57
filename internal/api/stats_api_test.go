package api

import (
	"net/http"
	"testing"
)

func TestStatsDashboard(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	seedResult(t, env, "res-1", "INTJ")
	seedResult(t, env, "res-2", "INTJ")
	seedResult(t, env, "res-3", "ENFP")

	resp, err := env.do(http.MethodGet, "/api/stats/dashboard", "")
	if err != nil {
		t.Fatalf("Failed to load dashboard: %v", err)
	}
	var body struct {
		TotalTests      int64            `json:"totalTests"`
		MostPopularMBTI string           `json:"mostPopularMbti"`
		MBTIStats       map[string]int64 `json:"mbtiStats"`
	}
	decodeBody(t, resp, &body)

	if body.TotalTests != 3 {
		t.Errorf("Expected 3 total tests, got %d", body.TotalTests)
	}
	if body.MostPopularMBTI != "INTJ" {
		t.Errorf("Expected INTJ most popular, got %q", body.MostPopularMBTI)
	}
	if body.MBTIStats["ENFP"] != 1 {
		t.Errorf("Expected 1 ENFP result, got %d", body.MBTIStats["ENFP"])
	}
}

func TestStatsMBTIDistribution(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	seedResult(t, env, "res-1", "INTJ")
	seedResult(t, env, "res-2", "INTJ")
	seedResult(t, env, "res-3", "ENFP")
	seedResult(t, env, "res-4", "ENFP")

	resp, err := env.do(http.MethodGet, "/api/stats/mbti", "")
	if err != nil {
		t.Fatalf("Failed to load distribution: %v", err)
	}
	var body struct {
		Total        int64          `json:"total"`
		Distribution []mbtiStatView `json:"distribution"`
	}
	decodeBody(t, resp, &body)

	if body.Total != 4 {
		t.Errorf("Expected total 4, got %d", body.Total)
	}
	if len(body.Distribution) != 16 {
		t.Fatalf("Expected all 16 types listed, got %d", len(body.Distribution))
	}
	for _, view := range body.Distribution {
		if view.Type == "INTJ" {
			if view.Count != 2 {
				t.Errorf("Expected 2 INTJ results, got %d", view.Count)
			}
			if view.Percent != 50 {
				t.Errorf("Expected INTJ at 50 percent, got %d", view.Percent)
			}
			if view.Name == "" || view.Color == "" {
				t.Error("Expected display name and color for INTJ")
			}
		}
	}
}

func TestStatsLogView(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	resp, err := env.do(http.MethodPost, "/api/stats/view",
		`{"page": "/result/abc", "mbti_type": "intj"}`)
	if err != nil {
		t.Fatalf("Failed to log view: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	env.repo.mu.Lock()
	defer env.repo.mu.Unlock()
	if len(env.repo.views) != 1 {
		t.Fatalf("Expected 1 logged view, got %d", len(env.repo.views))
	}
	view := env.repo.views[0]
	if view.Page != "/result/abc" {
		t.Errorf("Expected page recorded, got %q", view.Page)
	}
	if view.MBTIType != "INTJ" {
		t.Errorf("Expected MBTI type uppercased, got %q", view.MBTIType)
	}
	if view.VisitorID == "" {
		t.Error("Expected the anonymous visitor ID on the view log")
	}
}

func TestStatsHourlyRejectsBadDay(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	resp, err := env.do(http.MethodGet, "/api/stats/hourly?day=yesterday", "")
	if err != nil {
		t.Fatalf("Failed to call hourly: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	resp, err := env.do(http.MethodGet, "/api/health", "")
	if err != nil {
		t.Fatalf("Failed to call health: %v", err)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decodeBody(t, resp, &body)
	if body.Status != "healthy" {
		t.Errorf("Expected healthy, got %q", body.Status)
	}
	if body.Checks["database"] != "ok" {
		t.Errorf("Expected database ok, got %q", body.Checks["database"])
	}
}
