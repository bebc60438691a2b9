package ai

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"strings"
)

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed generates an embedding vector for the given text.
//
// Empty or whitespace-only text returns ErrNoInput without touching the
// network. A vector whose length differs from the configured dimensions
// returns ErrInvalidResponse.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, wrapError("embed", c.cfg.EmbeddingModel, ErrNoInput)
	}

	// The embedding model treats newlines as noise.
	input := strings.ReplaceAll(text, "\n", " ")

	body, err := c.doJSON(ctx, "/embeddings", embeddingRequest{
		Model: c.cfg.EmbeddingModel,
		Input: input,
	})
	if err != nil {
		return nil, wrapError("embed", c.cfg.EmbeddingModel, err)
	}

	var resp embeddingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("embed", c.cfg.EmbeddingModel,
			fmt.Errorf("%w: %v", ErrInvalidResponse, err))
	}
	if len(resp.Data) == 0 {
		return nil, wrapError("embed", c.cfg.EmbeddingModel,
			fmt.Errorf("%w: no embedding data", ErrInvalidResponse))
	}

	vector := resp.Data[0].Embedding
	if len(vector) != c.cfg.EmbeddingDimensions {
		return nil, wrapError("embed", c.cfg.EmbeddingModel,
			fmt.Errorf("%w: got %d dimensions, want %d", ErrInvalidResponse, len(vector), c.cfg.EmbeddingDimensions))
	}

	return vector, nil
}
