// Package store implements the Badger-backed repository for the catalog,
// comments, libraries, and user accounts.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookbookapp/bookbook-server/internal/domain"
	"github.com/bookbookapp/bookbook-server/internal/normalize"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Users is the generic entity for accounts, with unique email and
	// nickname indexes.
	Users *Entity[domain.User]
}

// New creates a new Store instance at the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}
	store.initUsers()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// initUsers initializes the Users entity on the store.
// Email lookups are case-insensitive; nicknames are folded so visually
// identical Korean spellings cannot coexist.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, "user:").
		WithIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalize.Email(u.Email)}
			},
			normalize.Email,
		).
		WithIndexTransform("name",
			func(u *domain.User) []string {
				return []string{normalize.Fold(u.Name)}
			},
			normalize.Fold,
		)
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// delete removes a key from the database.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// nextID atomically increments and returns the counter stored at key.
// Counters start at 1.
func (s *Store) nextID(key []byte) (int64, error) {
	var id int64
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			id = 1
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &id)
			}); err != nil {
				return err
			}
			id++
		}

		data, err := json.Marshal(id)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return 0, fmt.Errorf("next id: %w", err)
	}
	return id, nil
}
