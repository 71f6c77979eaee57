// Package classifier is the HTTP client for the Gemini generateContent API,
// which produces the personality analysis from the prompt the quiz builds.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

var (
	// ErrUnavailable covers transport failures and non-2xx responses. The
	// upstream gave no usable reply at all.
	ErrUnavailable = errors.New("classifier unavailable")
	// ErrEnvelope means the upstream answered 2xx but with a body that does
	// not carry a completion.
	ErrEnvelope = errors.New("unexpected classifier response shape")
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 60 * time.Second
)

// Config configures the Gemini client. APIKey is required; everything else
// has a working default.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Gemini calls the generateContent endpoint. Safe for concurrent use.
type Gemini struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Gemini {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Gemini{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type request struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
	Text  string `json:"text,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Envelope is the decoded response, with the raw body retained so callers
// that pass the upstream reply through verbatim can do so.
type Envelope struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error"`
	Raw        json.RawMessage
}

// Text extracts the completion text from the first candidate.
func (e *Envelope) Text() (string, error) {
	if len(e.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrEnvelope)
	}
	c := e.Candidates[0].Content
	if len(c.Parts) > 0 && c.Parts[0].Text != "" {
		return c.Parts[0].Text, nil
	}
	if c.Text != "" {
		return c.Text, nil
	}
	return "", fmt.Errorf("%w: candidate has no text (finishReason=%s)", ErrEnvelope, e.Candidates[0].FinishReason)
}

// GenerateEnvelope sends one prompt and returns the decoded reply envelope.
// There is no retry here; the quiz flow owns retry semantics.
func (g *Gemini) GenerateEnvelope(ctx context.Context, prompt string) (*Envelope, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: API key not configured", ErrUnavailable)
	}

	body, err := json.Marshal(request{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 8000,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	g.logger.Debug("classifier call finished",
		"model", g.model,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"prompt_len", len(prompt))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, truncate(raw, 300))
	}

	env := &Envelope{Raw: raw}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvelope, err)
	}
	if env.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvelope, env.Error.Message)
	}
	if len(env.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrEnvelope)
	}
	return env, nil
}

// Generate returns the completion text for one prompt. Implements the quiz
// flow's classifier interface.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	env, err := g.GenerateEnvelope(ctx, prompt)
	if err != nil {
		return "", err
	}
	return env.Text()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
