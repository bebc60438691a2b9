package ai

import (
	"context"
	"encoding/json/v2"
	"fmt"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatJSON sends a system/user prompt pair with JSON-constrained output
// and returns the raw message content. The content is whatever the model
// produced; callers are responsible for parsing it.
func (c *Client) ChatJSON(ctx context.Context, system, user string) (string, error) {
	if system == "" && user == "" {
		return "", wrapError("chat", c.cfg.ChatModel, ErrNoInput)
	}

	body, err := c.doJSON(ctx, "/chat/completions", chatRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", wrapError("chat", c.cfg.ChatModel, err)
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", wrapError("chat", c.cfg.ChatModel,
			fmt.Errorf("%w: %v", ErrInvalidResponse, err))
	}
	if len(resp.Choices) == 0 {
		return "", wrapError("chat", c.cfg.ChatModel,
			fmt.Errorf("%w: no choices", ErrInvalidResponse))
	}

	return resp.Choices[0].Message.Content, nil
}
