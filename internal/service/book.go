package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bookbookapp/bookbook-server/internal/domain"
	"github.com/bookbookapp/bookbook-server/internal/search"
	"github.com/bookbookapp/bookbook-server/internal/store"
)

// defaultListLimit caps catalog listings when the client doesn't ask
// for a specific page size.
const defaultListLimit = 50

// BookService handles catalog listing, search, and book detail.
type BookService struct {
	store  *store.Store
	index  *search.Index
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(st *store.Store, index *search.Index, logger *slog.Logger) *BookService {
	return &BookService{
		store:  st,
		index:  index,
		logger: logger,
	}
}

// ListOptions narrows a catalog listing.
type ListOptions struct {
	Search     string // Full-text query over title/author/publisher
	CategoryID int64  // Restrict to one category (0 = all)
	Limit      int
	Offset     int
}

// BookDetail is a book with its comments and derived aggregates.
type BookDetail struct {
	Book      *domain.Book             `json:"book"`
	Comments  []domain.Comment         `json:"comments"`
	Summary   domain.BookRatingSummary `json:"rating_summary"`
	InLibrary bool                     `json:"in_library"`
}

// List returns catalog books, newest publications first. A search query
// switches to relevance order via the full-text index.
func (s *BookService) List(ctx context.Context, opts ListOptions) ([]domain.Book, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}

	if opts.Search != "" {
		result, err := s.index.Search(ctx, search.Params{
			Query:      opts.Search,
			CategoryID: opts.CategoryID,
			Limit:      opts.Limit,
			Offset:     opts.Offset,
		})
		if err != nil {
			return nil, fmt.Errorf("search books: %w", err)
		}
		return s.store.GetBooksByIDs(ctx, result.BookIDs())
	}

	var books []domain.Book
	var err error
	if opts.CategoryID > 0 {
		books, err = s.store.ListBooksByCategory(ctx, opts.CategoryID)
	} else {
		books, err = s.store.ListBooks(ctx)
	}
	if err != nil {
		return nil, err
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(books) {
			return []domain.Book{}, nil
		}
		books = books[opts.Offset:]
	}
	if len(books) > opts.Limit {
		books = books[:opts.Limit]
	}

	return books, nil
}

// Detail returns a book with comments and rating aggregates.
// userID may be empty for unauthenticated requests; InLibrary is false then.
func (s *BookService) Detail(ctx context.Context, bookID int64, userID string) (*BookDetail, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	comments, err := s.store.ListCommentsByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	detail := &BookDetail{
		Book:     book,
		Comments: comments,
		Summary:  domain.SummarizeRatings(comments),
	}

	if userID != "" {
		inLibrary, err := s.store.HasLibraryEntry(ctx, userID, bookID)
		if err != nil {
			return nil, err
		}
		detail.InLibrary = inLibrary
	}

	return detail, nil
}

// Reindex rebuilds the full-text index from the catalog.
// Used on startup when the index is empty or after a mapping change.
func (s *BookService) Reindex(ctx context.Context) error {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return err
	}

	docs := make([]*search.Document, 0, len(books))
	for i := range books {
		docs = append(docs, search.BookToDocument(&books[i]))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("reindex books: %w", err)
	}

	s.logger.Info("reindexed catalog", "books", len(docs))
	return nil
}

// EnsureIndexed reindexes the catalog if the index document count is
// behind the store. Cheap no-op on a warm index.
func (s *BookService) EnsureIndexed(ctx context.Context) error {
	count, err := s.index.DocumentCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.Reindex(ctx)
}
