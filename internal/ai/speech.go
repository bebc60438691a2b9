package ai

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type speechRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Voice string `json:"voice"`
}

// Speech synthesizes text with the given upstream voice and returns the
// audio stream plus its content type. The caller must close the reader.
func (c *Client) Speech(ctx context.Context, text, voice string) (io.ReadCloser, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", wrapError("speech", c.cfg.TTSModel, ErrNoInput)
	}

	if err := c.limiter.Wait(ctx, "speech"); err != nil {
		return nil, "", wrapError("speech", c.cfg.TTSModel, fmt.Errorf("rate limit wait: %w", err))
	}

	body, err := json.Marshal(speechRequest{
		Model: c.cfg.TTSModel,
		Input: text,
		Voice: voice,
	})
	if err != nil {
		return nil, "", wrapError("speech", c.cfg.TTSModel, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, "", wrapError("speech", c.cfg.TTSModel, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", wrapError("speech", c.cfg.TTSModel, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, "", wrapError("speech", c.cfg.TTSModel,
			fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return resp.Body, contentType, nil
}
