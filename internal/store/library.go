package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookbookapp/bookbook-server/internal/domain"
)

const libraryPrefix = "library:"

func libraryKey(userID string, bookID int64) []byte {
	return []byte(fmt.Sprintf("%s%s:%012d", libraryPrefix, userID, bookID))
}

// AddLibraryEntry inserts a (user, book) library row. Re-adding an
// existing entry is a no-op that preserves the original AddedAt.
func (s *Store) AddLibraryEntry(ctx context.Context, userID string, bookID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := libraryKey(userID, bookID)
	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check library entry: %w", err)
	}
	if exists {
		return nil
	}

	entry := domain.LibraryEntry{
		UserID:  userID,
		BookID:  bookID,
		AddedAt: time.Now(),
	}
	if err := s.set(key, &entry); err != nil {
		return fmt.Errorf("add library entry: %w", err)
	}
	return nil
}

// RemoveLibraryEntry deletes a library row. Idempotent.
func (s *Store) RemoveLibraryEntry(ctx context.Context, userID string, bookID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.delete(libraryKey(userID, bookID)); err != nil {
		return fmt.Errorf("remove library entry: %w", err)
	}
	return nil
}

// HasLibraryEntry reports whether the book is in the user's library.
func (s *Store) HasLibraryEntry(ctx context.Context, userID string, bookID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.exists(libraryKey(userID, bookID))
}

// ListLibrary returns a user's library entries in book-id order.
func (s *Store) ListLibrary(ctx context.Context, userID string) ([]domain.LibraryEntry, error) {
	prefix := []byte(libraryPrefix + userID + ":")

	var entries []domain.LibraryEntry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var entry domain.LibraryEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				return fmt.Errorf("unmarshal library entry: %w", err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
