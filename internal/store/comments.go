package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookbookapp/bookbook-server/internal/domain"
)

const (
	commentPrefix       = "comment:"
	commentByUserPrefix = "comment:idx:user:"
)

// commentKey nests comments under their book so listing a book's
// comments is a single prefix scan.
func commentKey(bookID int64, commentID string) []byte {
	return []byte(fmt.Sprintf("%s%012d:%s", commentPrefix, bookID, commentID))
}

// commentUserKey indexes a comment by author for stats and cascades.
// The value stores the full comment row, duplicated for cheap reads.
func commentUserKey(userID, commentID string) []byte {
	return []byte(commentByUserPrefix + userID + ":" + commentID)
}

// CreateComment stores a new comment under its book and author.
func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	data, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("marshal comment: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(commentKey(comment.BookID, comment.ID), data); err != nil {
			return err
		}
		return txn.Set(commentUserKey(comment.UserID, comment.ID), data)
	})
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// GetComment retrieves a comment scoped to its book.
func (s *Store) GetComment(ctx context.Context, bookID int64, commentID string) (*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var comment domain.Comment
	err := s.get(commentKey(bookID, commentID), &comment)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment %s: %w", commentID, err)
	}
	return &comment, nil
}

// DeleteComment removes a comment and its author index. Idempotent.
func (s *Store) DeleteComment(ctx context.Context, bookID int64, commentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := commentKey(bookID, commentID)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get comment: %w", err)
		}

		var comment domain.Comment
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &comment)
		}); err != nil {
			return fmt.Errorf("unmarshal comment: %w", err)
		}

		if err := txn.Delete(commentUserKey(comment.UserID, commentID)); err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// ListCommentsByBook returns a book's comments, oldest first.
func (s *Store) ListCommentsByBook(ctx context.Context, bookID int64) ([]domain.Comment, error) {
	prefix := []byte(fmt.Sprintf("%s%012d:", commentPrefix, bookID))
	comments, err := s.scanComments(ctx, prefix)
	if err != nil {
		return nil, err
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

// ListCommentsByUser returns all comments a user has written.
func (s *Store) ListCommentsByUser(ctx context.Context, userID string) ([]domain.Comment, error) {
	return s.scanComments(ctx, []byte(commentByUserPrefix+userID+":"))
}

// CountUserCommentsOnBook reports how many comments the user has on the
// book. Library reconciliation keys off this count.
func (s *Store) CountUserCommentsOnBook(ctx context.Context, userID string, bookID int64) (int, error) {
	comments, err := s.ListCommentsByBook(ctx, bookID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, c := range comments {
		if c.UserID == userID {
			count++
		}
	}
	return count, nil
}

// scanComments collects every comment under the given key prefix.
func (s *Store) scanComments(ctx context.Context, prefix []byte) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var comment domain.Comment
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &comment)
			}); err != nil {
				return fmt.Errorf("unmarshal comment: %w", err)
			}
			comments = append(comments, comment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}
