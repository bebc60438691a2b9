package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookbookapp/bookbook-server/internal/domain"
)

const (
	bookPrefix       = "book:"
	bookByISBNPrefix = "book:idx:isbn:"
	bookSeqKey       = "seq:books"
)

// bookKey builds the primary key for a book. Ids are zero-padded so the
// key order matches numeric id order, which makes reverse iteration
// return newest-id-first.
func bookKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%012d", bookPrefix, id))
}

// Book Operations

// CreateBook creates a new book. A zero ID is assigned from the catalog
// sequence. Returns ErrBookExists when the ID or ISBN is already taken.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if book.ID == 0 {
		id, err := s.nextID([]byte(bookSeqKey))
		if err != nil {
			return fmt.Errorf("assign book id: %w", err)
		}
		book.ID = id
	}

	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = now

	err := s.db.Update(func(txn *badger.Txn) error {
		key := bookKey(book.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrBookExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check book exists: %w", err)
		}

		if book.ISBN != "" {
			isbnKey := []byte(bookByISBNPrefix + book.ISBN)
			if _, err := txn.Get(isbnKey); err == nil {
				return fmt.Errorf("isbn %s: %w", book.ISBN, ErrBookExists)
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check isbn index: %w", err)
			}
			if err := txn.Set(isbnKey, []byte(fmt.Sprintf("%d", book.ID))); err != nil {
				return err
			}
		}

		data, err := json.Marshal(book)
		if err != nil {
			return fmt.Errorf("marshal book: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "book created",
			slog.Int64("id", book.ID),
			slog.String("title", book.Title),
		)
	}
	return nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var book domain.Book
	err := s.get(bookKey(id), &book)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &book, nil
}

// UpdateBook saves an existing book. The ISBN index is not rewritten;
// ISBNs are immutable after ingest.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := bookKey(book.ID)
	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if !exists {
		return ErrBookNotFound
	}

	book.UpdatedAt = time.Now()
	if err := s.set(key, book); err != nil {
		return fmt.Errorf("update book %d: %w", book.ID, err)
	}
	return nil
}

// listBooks iterates all books in ascending id order, applying filter.
// A nil filter collects everything.
func (s *Store) listBooks(ctx context.Context, filter func(*domain.Book) bool) ([]domain.Book, error) {
	var books []domain.Book
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(bookPrefix)); it.ValidForPrefix([]byte(bookPrefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Skip the ISBN index keys sharing the prefix.
			if len(it.Item().Key()) != len(bookPrefix)+12 {
				continue
			}

			var book domain.Book
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			}); err != nil {
				return fmt.Errorf("unmarshal book: %w", err)
			}
			if filter == nil || filter(&book) {
				books = append(books, book)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

// ListBooks returns the whole catalog ordered by publication date,
// newest first. Ties order by descending id.
func (s *Store) ListBooks(ctx context.Context) ([]domain.Book, error) {
	books, err := s.listBooks(ctx, nil)
	if err != nil {
		return nil, err
	}
	sort.Slice(books, func(i, j int) bool {
		if !books[i].PubDate.Equal(books[j].PubDate) {
			return books[i].PubDate.After(books[j].PubDate)
		}
		return books[i].ID > books[j].ID
	})
	return books, nil
}

// ListBooksByCategory returns all books in a category, ascending id order.
func (s *Store) ListBooksByCategory(ctx context.Context, categoryID int64) ([]domain.Book, error) {
	return s.listBooks(ctx, func(b *domain.Book) bool {
		return b.CategoryID == categoryID
	})
}

// ListBooksMissingEmbedding returns books without an embedding vector.
func (s *Store) ListBooksMissingEmbedding(ctx context.Context) ([]domain.Book, error) {
	return s.listBooks(ctx, func(b *domain.Book) bool {
		return !b.HasEmbedding()
	})
}

// GetBooksByIDs fetches books by id, preserving input order and skipping
// ids that do not exist.
func (s *Store) GetBooksByIDs(ctx context.Context, ids []int64) ([]domain.Book, error) {
	books := make([]domain.Book, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := txn.Get(bookKey(id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get book %d: %w", id, err)
			}

			var book domain.Book
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			}); err != nil {
				return fmt.Errorf("unmarshal book %d: %w", id, err)
			}
			books = append(books, book)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

// ListBestsellers returns flagged books in descending id order, at most
// limit entries.
func (s *Store) ListBestsellers(ctx context.Context, limit int) ([]domain.Book, error) {
	var books []domain.Book
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix)
		opts.Reverse = true

		it := txn.NewIterator(opts)
		defer it.Close()

		// Seek past the last possible book key for reverse iteration.
		seek := append([]byte(bookPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix([]byte(bookPrefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if len(it.Item().Key()) != len(bookPrefix)+12 {
				continue
			}

			var book domain.Book
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			}); err != nil {
				return fmt.Errorf("unmarshal book: %w", err)
			}
			if !book.IsBestseller {
				continue
			}
			books = append(books, book)
			if limit > 0 && len(books) == limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

// SetBestsellerFlags marks the given books as bestsellers. Flags are only
// ever raised here; already-flagged books and unknown ids are skipped, so
// concurrent calls converge on the union.
func (s *Store) SetBestsellerFlags(ctx context.Context, ids []int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, id := range ids {
			key := bookKey(id)
			item, err := txn.Get(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get book %d: %w", id, err)
			}

			var book domain.Book
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			}); err != nil {
				return fmt.Errorf("unmarshal book %d: %w", id, err)
			}
			if book.IsBestseller {
				continue
			}

			book.IsBestseller = true
			book.UpdatedAt = time.Now()
			data, err := json.Marshal(&book)
			if err != nil {
				return fmt.Errorf("marshal book %d: %w", id, err)
			}
			if err := txn.Set(key, data); err != nil {
				return err
			}
		}
		return nil
	})
}

// SampleBooks returns up to n books drawn uniformly at random.
func (s *Store) SampleBooks(ctx context.Context, n int) ([]domain.Book, error) {
	books, err := s.listBooks(ctx, nil)
	if err != nil {
		return nil, err
	}

	rand.Shuffle(len(books), func(i, j int) {
		books[i], books[j] = books[j], books[i]
	})
	if n > 0 && len(books) > n {
		books = books[:n]
	}
	return books, nil
}
