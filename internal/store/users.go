package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookbookapp/bookbook-server/internal/domain"
)

// User operations delegate to the generic Users entity; these wrappers
// translate its errors and add the account-deletion cascade.

// CreateUser stores a new user. Email and nickname must be unique.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	return s.Users.Create(ctx, user.ID, user)
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.Users.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.Users.GetByIndex(ctx, "email", email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// GetUserByName retrieves a user by nickname.
func (s *Store) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	user, err := s.Users.GetByIndex(ctx, "name", name)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// UpdateUser saves an existing user, maintaining the unique indexes.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	err := s.Users.Update(ctx, user.ID, user)
	if errors.Is(err, ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// DeleteUser removes the account and cascades to the user's comments
// (including their book-side rows) and library entries.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	comments, err := s.ListCommentsByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("list comments for cascade: %w", err)
	}
	library, err := s.ListLibrary(ctx, id)
	if err != nil {
		return fmt.Errorf("list library for cascade: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, c := range comments {
			if err := txn.Delete(commentKey(c.BookID, c.ID)); err != nil {
				return err
			}
			if err := txn.Delete(commentUserKey(id, c.ID)); err != nil {
				return err
			}
		}
		for _, entry := range library {
			if err := txn.Delete(libraryKey(id, entry.BookID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cascade user data: %w", err)
	}

	if err := s.Users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user deleted",
			"user_id", id,
			"comments_removed", len(comments),
			"library_removed", len(library),
		)
	}
	return nil
}
