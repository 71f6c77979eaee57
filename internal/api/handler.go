// Package api provides HTTP handlers for the persona-lab API.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jinsol-dev/persona-lab/internal/config"
	"github.com/jinsol-dev/persona-lab/internal/stats"
	"github.com/jinsol-dev/persona-lab/internal/store"
)

// Handler provides common handler dependencies and utilities.
type Handler struct {
	repo  store.Repository
	stats *stats.Service
	cfg   *config.Config
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, statsSvc *stats.Service, cfg *config.Config) *Handler {
	return &Handler{
		repo:  repo,
		stats: statsSvc,
		cfg:   cfg,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// DecodeJSON decodes a request body into v, rejecting unknown payloads
// larger than 1 MiB.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(v)
}

// queryInt reads an integer query parameter with bounds.
func queryInt(r *http.Request, name string, fallback, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	if n > max {
		return max
	}
	return n
}
