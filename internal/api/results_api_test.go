package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/jinsol-dev/persona-lab/internal/domain"
)

func TestResultGetCountsView(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	seedResult(t, env, "res-1", "INTJ")

	resp, err := env.do(http.MethodGet, "/api/results/res-1", "")
	if err != nil {
		t.Fatalf("Failed to load result: %v", err)
	}
	var view resultView
	decodeBody(t, resp, &view)

	if view.ResultID != "res-1" {
		t.Errorf("Expected result res-1, got %q", view.ResultID)
	}
	if view.ViewCount != 1 {
		t.Errorf("Expected view count 1, got %d", view.ViewCount)
	}
	if view.MBTIName == "" {
		t.Error("Expected display name for INTJ")
	}
	if view.Mine {
		t.Error("Expected another visitor's result not to be mine")
	}

	env.repo.mu.Lock()
	logged := len(env.repo.views)
	env.repo.mu.Unlock()
	if logged != 1 {
		t.Errorf("Expected 1 logged view, got %d", logged)
	}
}

func TestResultGetMissing(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	resp, err := env.do(http.MethodGet, "/api/results/nope", "")
	if err != nil {
		t.Fatalf("Failed to load result: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}

func TestResultPrivateHiddenFromStrangers(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	err := env.repo.SaveResult(nil, &domain.TestResult{
		ResultID:  "res-private",
		VisitorID: "anon_ffffffffffffffffffffffffffffffff",
		MBTIType:  "INFP",
		Public:    false,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to seed result: %v", err)
	}

	resp, err := env.do(http.MethodGet, "/api/results/res-private", "")
	if err != nil {
		t.Fatalf("Failed to load result: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", resp.StatusCode)
	}
}

func TestResultVisibilityOwnershipEnforced(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	seedResult(t, env, "res-1", "INTJ")

	resp, err := env.do(http.MethodPut, "/api/results/res-1/visibility", `{"is_public": false}`)
	if err != nil {
		t.Fatalf("Failed to set visibility: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403 for a stranger, got %d", resp.StatusCode)
	}

	resp, err = env.do(http.MethodPut, "/api/results/nope/visibility", `{"is_public": false}`)
	if err != nil {
		t.Fatalf("Failed to set visibility: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404 for a missing result, got %d", resp.StatusCode)
	}
}

func TestResultListings(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	seedResult(t, env, "res-1", "INTJ")
	seedResult(t, env, "res-2", "ENFP")

	resp, err := env.do(http.MethodGet, "/api/results/recent", "")
	if err != nil {
		t.Fatalf("Failed to list results: %v", err)
	}
	var body struct {
		Results []resultView `json:"results"`
	}
	decodeBody(t, resp, &body)
	if len(body.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(body.Results))
	}

	resp, err = env.do(http.MethodGet, "/api/results/mbti/enfp", "")
	if err != nil {
		t.Fatalf("Failed to list results: %v", err)
	}
	decodeBody(t, resp, &body)
	if len(body.Results) != 1 || body.Results[0].MBTIType != "ENFP" {
		t.Fatalf("Expected only the ENFP result, got %+v", body.Results)
	}

	resp, err = env.do(http.MethodGet, "/api/results/mbti/zzzz", "")
	if err != nil {
		t.Fatalf("Failed to list results: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for an unknown type, got %d", resp.StatusCode)
	}
}
