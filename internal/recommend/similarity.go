// Package recommend implements the recommendation pipeline: embedding
// similarity ranking and LLM-backed curation.
package recommend

import (
	"math"
	"sort"

	"github.com/bookbookapp/bookbook-server/internal/domain"
)

// Cosine computes the cosine similarity of two vectors.
// Returns 0.0 when either vector has zero magnitude.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ScoredBook pairs a candidate with its similarity to the source.
type ScoredBook struct {
	Book  domain.Book
	Score float64
}

// Rank scores candidates against the source vector and returns the top K,
// highest similarity first. Candidates without an embedding are excluded
// rather than scored. Equal scores order by ascending book id so the
// result is deterministic.
func Rank(source []float64, candidates []domain.Book, topK int) []ScoredBook {
	scored := make([]ScoredBook, 0, len(candidates))
	for _, book := range candidates {
		if !book.HasEmbedding() {
			continue
		}
		scored = append(scored, ScoredBook{
			Book:  book,
			Score: Cosine(source, book.EmbeddingVector),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Book.ID < scored[j].Book.ID
	})

	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
