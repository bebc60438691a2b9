// Package main provides a batch tool to compute missing book embeddings.
//
// It walks every catalog entry without an embedding vector, sends its
// text to the embedding model, and stores the result. Failed books are
// logged and skipped so a flaky gateway does not abort the run.
//
// Usage:
//
//	AI_API_KEY=sk-... go run ./cmd/embed
//	go run ./cmd/embed -limit 100
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/bookbookapp/bookbook-server/internal/ai"
	"github.com/bookbookapp/bookbook-server/internal/config"
	"github.com/bookbookapp/bookbook-server/internal/store"
)

var limit = flag.Int("limit", 0, "Maximum number of books to embed (0 = all)")

func main() {
	// LoadConfig parses the command line, picking up the flags above.
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	s, err := store.New(cfg.StorePath(), nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

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
	}, nil)
	defer client.Close()

	ctx := context.Background()

	pending, err := s.ListBooksMissingEmbedding(ctx)
	if err != nil {
		log.Fatalf("Failed to list books: %v", err)
	}
	if *limit > 0 && len(pending) > *limit {
		pending = pending[:*limit]
	}
	fmt.Printf("Embedding %d books via %s\n", len(pending), cfg.AI.EmbeddingModel)

	embedded, failed := 0, 0
	for i := range pending {
		book := &pending[i]

		text := book.EmbeddingText()
		if text == "" {
			log.Printf("Book %d (%q) has no text to embed, skipping", book.ID, book.Title)
			failed++
			continue
		}

		vector, err := client.Embed(ctx, text)
		if err != nil {
			log.Printf("Embedding failed for book %d (%q): %v", book.ID, book.Title, err)
			failed++
			continue
		}

		book.EmbeddingVector = vector
		if err := s.UpdateBook(ctx, book); err != nil {
			log.Printf("Failed to store embedding for book %d: %v", book.ID, err)
			failed++
			continue
		}
		embedded++

		if embedded%50 == 0 {
			fmt.Printf("  %d/%d done\n", embedded, len(pending))
		}
	}

	fmt.Printf("\nDone: %d embedded, %d failed\n", embedded, failed)
}
