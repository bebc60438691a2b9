package recommend

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bookbookapp/bookbook-server/internal/domain"
)

// Sentinel errors for curation.
var (
	// ErrMalformedResponse means the model answered but the payload did not
	// match the contract (not JSON, missing key, wrong element shape).
	ErrMalformedResponse = errors.New("recommend: malformed curation response")
	// ErrCurationFailed is the single failure surface callers see; it wraps
	// the underlying cause (gateway failure or malformed response).
	ErrCurationFailed = errors.New("recommend: curation failed")
)

// ChatClient is the JSON-mode chat dependency of the curator.
type ChatClient interface {
	ChatJSON(ctx context.Context, system, user string) (string, error)
}

// Pick is one curated selection. Reason is empty for bestseller picks.
type Pick struct {
	BookID int64
	Reason string
}

// Curator asks the chat model to select books from a bounded candidate
// pool. Ids the model invents are dropped; duplicates keep their first
// occurrence; results never exceed the requested count.
type Curator struct {
	chat   ChatClient
	logger *slog.Logger
}

// NewCurator creates a curator backed by the given chat client.
func NewCurator(chat ChatClient, logger *slog.Logger) *Curator {
	return &Curator{chat: chat, logger: logger}
}

// CuratePersonalized selects up to count books for the given profile from
// the pool, each with a one-line reason.
func (c *Curator) CuratePersonalized(ctx context.Context, profile domain.Profile, pool []domain.Book, count int) ([]Pick, error) {
	if len(pool) == 0 || count <= 0 {
		return nil, nil
	}

	raw, err := c.chat.ChatJSON(ctx, personalizedSystemPrompt, personalizedUserPrompt(profile, pool, count))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCurationFailed, err)
	}

	var parsed struct {
		Recommendations []struct {
			BookID *int64 `json:"book_id"`
			Reason string `json:"reason"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrCurationFailed, ErrMalformedResponse, err)
	}
	if parsed.Recommendations == nil {
		return nil, fmt.Errorf("%w: %w: missing recommendations key", ErrCurationFailed, ErrMalformedResponse)
	}

	inPool := poolSet(pool)
	seen := make(map[int64]bool)
	picks := make([]Pick, 0, count)
	for _, rec := range parsed.Recommendations {
		if rec.BookID == nil {
			continue
		}
		id := *rec.BookID
		// Hallucinated or repeated ids are dropped, not errors.
		if !inPool[id] || seen[id] {
			if !inPool[id] {
				c.logger.Debug("curator returned unknown book id", "book_id", id)
			}
			continue
		}
		seen[id] = true
		picks = append(picks, Pick{BookID: id, Reason: rec.Reason})
		if len(picks) == count {
			break
		}
	}
	return picks, nil
}

// CurateBestsellers selects up to count predicted bestsellers from the pool.
func (c *Curator) CurateBestsellers(ctx context.Context, pool []domain.Book, count int) ([]int64, error) {
	if len(pool) == 0 || count <= 0 {
		return nil, nil
	}

	raw, err := c.chat.ChatJSON(ctx, bestsellerSystemPrompt, bestsellerUserPrompt(pool, count))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCurationFailed, err)
	}

	var parsed struct {
		Bestsellers []struct {
			ID *int64 `json:"id"`
		} `json:"bestsellers"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrCurationFailed, ErrMalformedResponse, err)
	}
	if parsed.Bestsellers == nil {
		return nil, fmt.Errorf("%w: %w: missing bestsellers key", ErrCurationFailed, ErrMalformedResponse)
	}

	inPool := poolSet(pool)
	seen := make(map[int64]bool)
	ids := make([]int64, 0, count)
	for _, item := range parsed.Bestsellers {
		if item.ID == nil {
			continue
		}
		id := *item.ID
		if !inPool[id] || seen[id] {
			if !inPool[id] {
				c.logger.Debug("curator returned unknown book id", "book_id", id)
			}
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		if len(ids) == count {
			break
		}
	}
	return ids, nil
}

func poolSet(pool []domain.Book) map[int64]bool {
	set := make(map[int64]bool, len(pool))
	for _, b := range pool {
		set[b.ID] = true
	}
	return set
}
