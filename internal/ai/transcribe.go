package ai

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe sends an audio recording to the speech-to-text endpoint and
// returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if audio == nil {
		return "", wrapError("transcribe", c.cfg.STTModel, ErrNoInput)
	}

	if err := c.limiter.Wait(ctx, "transcriptions"); err != nil {
		return "", wrapError("transcribe", c.cfg.STTModel, fmt.Errorf("rate limit wait: %w", err))
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", wrapError("transcribe", c.cfg.STTModel, fmt.Errorf("create form file: %w", err))
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", wrapError("transcribe", c.cfg.STTModel, fmt.Errorf("copy audio: %w", err))
	}
	if err := mw.WriteField("model", c.cfg.STTModel); err != nil {
		return "", wrapError("transcribe", c.cfg.STTModel, fmt.Errorf("write model field: %w", err))
	}
	if err := mw.Close(); err != nil {
		return "", wrapError("transcribe", c.cfg.STTModel, fmt.Errorf("close multipart: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", wrapError("transcribe", c.cfg.STTModel, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", wrapError("transcribe", c.cfg.STTModel, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", wrapError("transcribe", c.cfg.STTModel, fmt.Errorf("%w: read response: %v", ErrUnavailable, err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", wrapError("transcribe", c.cfg.STTModel,
			fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode))
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", wrapError("transcribe", c.cfg.STTModel,
			fmt.Errorf("%w: %v", ErrInvalidResponse, err))
	}
	return parsed.Text, nil
}
