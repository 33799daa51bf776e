// internal/llm/gemini.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	commonhttp "monday-bi-agent/internal/common/http"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 60 * time.Second
)

var (
	ErrTimeout         = errors.New("LLM_TIMEOUT")
	ErrSynthesisFailed = errors.New("LLM_SYNTHESIS_FAILED")
)

// Generator turns a prompt into free text.
type Generator interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
		Timeout: DefaultTimeout,
	}
}

// GeminiClient calls the generateContent REST endpoint. Sampling parameters
// are left at provider defaults and nothing is retried.
type GeminiClient struct {
	config *Config
	http   *commonhttp.Client
}

func NewGeminiClient(cfg *Config) *GeminiClient {
	if cfg == nil {
		cfg = LoadConfig()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &GeminiClient{
		config: cfg,
		http:   commonhttp.NewClient(cfg.Timeout),
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate returns the text of the first candidate unmodified. An empty
// candidate list yields an empty answer rather than an error.
func (g *GeminiClient) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s",
		strings.TrimRight(g.config.BaseURL, "/"), g.config.Model, url.QueryEscape(apiKey))

	reqBody := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}

	body, status, err := g.http.PostJSON(ctx, endpoint, nil, reqBody)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrSynthesisFailed, status, truncate(string(body), 200))
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrSynthesisFailed, err)
	}
	if len(resp.Candidates) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
