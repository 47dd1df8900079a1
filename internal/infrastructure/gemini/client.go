package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/gramkart/backend/internal/domain"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-1.5-flash"

	maxAttempts = 3
)

// request/response wire types for the generateContent endpoint.

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
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

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Config holds settings for the text-completion client.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	RequestTimeout time.Duration
	VerifyTimeout  time.Duration
}

// Client talks to the Gemini generateContent API. Availability is decided
// once by Verify at startup and never re-checked; an unavailable client fails
// fast so callers take their deterministic fallback path.
type Client struct {
	httpClient    *http.Client
	apiKey        string
	baseURL       string
	model         string
	verifyTimeout time.Duration
	limiter       *rate.Limiter
	available     bool
	logger        zerolog.Logger
}

// NewClient creates a client. It starts unavailable until Verify succeeds.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.VerifyTimeout == 0 {
		cfg.VerifyTimeout = 10 * time.Second
	}

	// Free-tier quota is 15 requests per minute; allow short bursts.
	limiter := rate.NewLimiter(rate.Limit(0.25), 5)

	return &Client{
		httpClient:    &http.Client{Timeout: cfg.RequestTimeout},
		apiKey:        cfg.APIKey,
		baseURL:       cfg.BaseURL,
		model:         cfg.Model,
		verifyTimeout: cfg.VerifyTimeout,
		limiter:       limiter,
		logger:        logger.With().Str("component", "gemini-client").Logger(),
	}
}

// Available reports whether the capability passed its startup probe.
func (c *Client) Available() bool {
	return c.available
}

// Verify probes the API with a trivial prompt under a short timeout and
// records availability. A missing key or failed probe leaves the client
// unavailable without returning an error: absence degrades, it does not fail.
func (c *Client) Verify(ctx context.Context) {
	if c.apiKey == "" {
		c.logger.Warn().Msg("no API key configured, AI-assisted features disabled")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.verifyTimeout)
	defer cancel()

	if _, err := c.complete(ctx, "Hello", 1); err != nil {
		c.logger.Warn().Err(err).Msg("API key verification failed, AI-assisted features disabled")
		return
	}

	c.available = true
	c.logger.Info().Str("model", c.model).Msg("API key verified")
}

// Complete sends the prompt and returns the first candidate's text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.available {
		return "", domain.ErrCompletionUnavailable
	}
	return c.complete(ctx, prompt, maxAttempts)
}

func (c *Client) complete(ctx context.Context, prompt string, attempts int) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     0.7,
			TopK:            1,
			TopP:            1,
			MaxOutputTokens: 2048,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		text, err := c.doRequest(ctx, reqURL, payload)
		if err == nil {
			return text, nil
		}

		c.logger.Warn().Err(err).Int("attempt", attempt).Msg("completion request failed")
		lastErr = err

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}

	return "", lastErr
}

func (c *Client) doRequest(ctx context.Context, reqURL string, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionFailure, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrCompletionFailure, resp.StatusCode, string(body))
	}

	var gen generateResponse
	if err := json.Unmarshal(body, &gen); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidate list", domain.ErrCompletionFailure)
	}

	return gen.Candidates[0].Content.Parts[0].Text, nil
}
