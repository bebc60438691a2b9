// Package domain contains the core business entities and domain logic for the BookBook catalog.
package domain

import "time"

// Book represents a catalog entry.
//
// Book IDs are int64 because they participate in a wire contract with the
// curation model, which returns integer book ids.
type Book struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle,omitempty"`
	Author     string `json:"author"`
	AuthorInfo string `json:"author_info,omitempty"`
	// AuthorPhoto is an external URL, same as Cover.
	AuthorPhoto string    `json:"author_photo,omitempty"`
	Publisher   string    `json:"publisher,omitempty"`
	ISBN        string    `json:"isbn,omitempty"`
	Cover       string    `json:"cover,omitempty"`
	CoverHash   string    `json:"cover_hash,omitempty"` // BlurHash placeholder, set at ingest
	PubDate     time.Time `json:"pub_date"`
	Description string    `json:"description,omitempty"`
	CategoryID  int64     `json:"category_id,omitempty"` // 0 means uncategorized

	// CustomerReviewRank is the external aggregate rating (0.0 to 10.0).
	CustomerReviewRank float64 `json:"customer_review_rank"`

	IsBestseller bool `json:"is_bestseller"`

	// EmbeddingVector holds the book's embedding, nil until computed.
	// Kept out of API responses; it is an internal similarity input.
	EmbeddingVector []float64 `json:"embedding_vector,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasEmbedding reports whether the book has a computed embedding vector.
func (b *Book) HasEmbedding() bool {
	return len(b.EmbeddingVector) > 0
}

// EmbeddingText composes the text fed to the embedding model.
// Field order is stable so re-embedding an unchanged book is a no-op.
func (b *Book) EmbeddingText() string {
	parts := []string{b.Title, b.Subtitle, b.Author, b.Publisher, b.Description}
	text := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if text != "" {
			text += "\n"
		}
		text += p
	}
	return text
}

// Category groups books (e.g. fiction, economics).
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"` // unique
}
