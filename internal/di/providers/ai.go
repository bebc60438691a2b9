package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookbookapp/bookbook-server/internal/ai"
	"github.com/bookbookapp/bookbook-server/internal/config"
	"github.com/bookbookapp/bookbook-server/internal/logger"
	"github.com/bookbookapp/bookbook-server/internal/recommend"
)

// AIClientHandle wraps the gateway client with shutdown capability.
type AIClientHandle struct {
	*ai.Client
}

// Shutdown implements do.Shutdownable.
func (h *AIClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideAIClient provides the OpenAI-compatible gateway client.
func ProvideAIClient(i do.Injector) (*AIClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := ai.New(ai.Config{
		BaseURL:             cfg.AI.BaseURL,
		APIKey:              cfg.AI.APIKey,
		ChatModel:           cfg.AI.ChatModel,
		EmbeddingModel:      cfg.AI.EmbeddingModel,
		EmbeddingDimensions: cfg.AI.EmbeddingDimensions,
		TTSModel:            cfg.AI.TTSModel,
		STTModel:            cfg.AI.STTModel,
		RequestTimeout:      cfg.AI.RequestTimeout,
		RequestsPerSecond:   cfg.AI.RequestsPerSecond,
	}, log.Logger)

	log.Info("AI gateway client ready",
		"base_url", cfg.AI.BaseURL,
		"chat_model", cfg.AI.ChatModel,
		"embedding_model", cfg.AI.EmbeddingModel,
	)

	return &AIClientHandle{Client: client}, nil
}

// ProvideCurator provides the LLM recommendation curator.
func ProvideCurator(i do.Injector) (*recommend.Curator, error) {
	clientHandle := do.MustInvoke[*AIClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return recommend.NewCurator(clientHandle.Client, log.Logger), nil
}
