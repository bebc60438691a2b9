// Package ai provides a rate-limited client for an OpenAI-compatible gateway:
// embeddings, JSON-mode chat completions, speech synthesis, and transcription.
package ai

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bookbookapp/bookbook-server/internal/ratelimit"
)

const (
	defaultBurst   = 3
	defaultTimeout = 60 * time.Second
)

// Config holds the gateway connection settings.
type Config struct {
	BaseURL             string // e.g. https://api.openai.com/v1, no trailing slash
	APIKey              string // may be empty for local gateways
	ChatModel           string
	EmbeddingModel      string
	EmbeddingDimensions int
	TTSModel            string
	STTModel            string
	RequestTimeout      time.Duration
	RequestsPerSecond   float64
}

// Client is a rate-limited client for the gateway. Requests are throttled
// per endpoint so a burst of embedding calls cannot starve chat calls.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// New creates a new gateway client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter: ratelimit.New(cfg.RequestsPerSecond, defaultBurst),
		logger:  logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// EmbeddingDimensions returns the configured vector size.
func (c *Client) EmbeddingDimensions() int {
	return c.cfg.EmbeddingDimensions
}

// doJSON posts a JSON payload to path and returns the raw response body.
// Transport failures and non-2xx statuses map to ErrUnavailable; callers
// parse the body and report shape problems as ErrInvalidResponse.
func (c *Client) doJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	c.logger.Debug("ai request", "endpoint", endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("ai request failed",
			"endpoint", endpoint,
			"status", resp.StatusCode,
		)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	return respBody, nil
}

// setAuth attaches the bearer token when a key is configured.
func (c *Client) setAuth(req *http.Request) {
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
}
