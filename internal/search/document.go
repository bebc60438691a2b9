// Package search provides full-text book search using Bleve.
// Titles and author names are indexed with the CJK analyzer so Korean
// queries match on bigrams rather than whitespace tokens.
package search

import (
	"strconv"

	"github.com/bookbookapp/bookbook-server/internal/domain"
)

// Document is the indexed representation of a book.
type Document struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Author      string `json:"author,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	Description string `json:"description,omitempty"`
	CategoryID  int64  `json:"category_id,omitempty"`
	PubDate     int64  `json:"pub_date,omitempty"` // Unix millis
	CreatedAt   int64  `json:"created_at"`         // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve indexes Go struct field names (capitalized) by default, but the
// mapping registers lowercase names, so convert explicitly.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"title":      d.Title,
		"created_at": d.CreatedAt,
	}

	if d.Subtitle != "" {
		m["subtitle"] = d.Subtitle
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.Publisher != "" {
		m["publisher"] = d.Publisher
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.CategoryID > 0 {
		m["category_id"] = d.CategoryID
	}
	if d.PubDate > 0 {
		m["pub_date"] = d.PubDate
	}

	return m
}

// DocumentID returns the index document ID for a book.
func DocumentID(bookID int64) string {
	return strconv.FormatInt(bookID, 10)
}

// BookToDocument converts a domain Book to an indexable Document.
func BookToDocument(book *domain.Book) *Document {
	doc := &Document{
		ID:          DocumentID(book.ID),
		Title:       book.Title,
		Subtitle:    book.Subtitle,
		Author:      book.Author,
		Publisher:   book.Publisher,
		Description: book.Description,
		CategoryID:  book.CategoryID,
		CreatedAt:   book.CreatedAt.UnixMilli(),
	}

	if !book.PubDate.IsZero() {
		doc.PubDate = book.PubDate.UnixMilli()
	}

	return doc
}
