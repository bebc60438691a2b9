package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbookapp/bookbook-server/internal/domain"
	"github.com/bookbookapp/bookbook-server/internal/id"
)

func testComment(bookID int64, userID, content string) *domain.Comment {
	return &domain.Comment{
		ID:      id.MustGenerate("cmt"),
		BookID:  bookID,
		UserID:  userID,
		Content: content,
		Rating:  4,
	}
}

func TestStoreCommentLifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	comment := testComment(7, "user-1", "인생 책입니다")
	require.NoError(t, s.CreateComment(ctx, comment))

	got, err := s.GetComment(ctx, 7, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "인생 책입니다", got.Content)
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, s.DeleteComment(ctx, 7, comment.ID))
	_, err = s.GetComment(ctx, 7, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	// Deleting again is a no-op.
	require.NoError(t, s.DeleteComment(ctx, 7, comment.ID))
}

func TestStoreListCommentsByBookOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, content := range []string{"첫 댓글", "둘째 댓글", "셋째 댓글"} {
		c := testComment(3, "user-1", content)
		c.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.CreateComment(ctx, c))
	}
	// A comment on another book must not leak in.
	require.NoError(t, s.CreateComment(ctx, testComment(4, "user-1", "다른 책")))

	comments, err := s.ListCommentsByBook(ctx, 3)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "첫 댓글", comments[0].Content)
	assert.Equal(t, "셋째 댓글", comments[2].Content)
}

func TestStoreListCommentsByUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateComment(ctx, testComment(1, "user-a", "a1")))
	require.NoError(t, s.CreateComment(ctx, testComment(2, "user-a", "a2")))
	require.NoError(t, s.CreateComment(ctx, testComment(1, "user-b", "b1")))

	comments, err := s.ListCommentsByUser(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestStoreCountUserCommentsOnBook(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateComment(ctx, testComment(5, "user-a", "하나")))
	require.NoError(t, s.CreateComment(ctx, testComment(5, "user-a", "둘")))
	require.NoError(t, s.CreateComment(ctx, testComment(5, "user-b", "남의 댓글")))

	count, err := s.CountUserCommentsOnBook(ctx, "user-a", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStoreLibraryEntries(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddLibraryEntry(ctx, "user-1", 10))
	require.NoError(t, s.AddLibraryEntry(ctx, "user-1", 11))

	t.Run("re-add preserves original timestamp", func(t *testing.T) {
		before, err := s.ListLibrary(ctx, "user-1")
		require.NoError(t, err)

		require.NoError(t, s.AddLibraryEntry(ctx, "user-1", 10))

		after, err := s.ListLibrary(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, after, 2)
		assert.Equal(t, before[0].AddedAt, after[0].AddedAt)
	})

	has, err := s.HasLibraryEntry(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, s.RemoveLibraryEntry(ctx, "user-1", 10))
	has, err = s.HasLibraryEntry(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.False(t, has)

	// Removing a missing entry is fine.
	require.NoError(t, s.RemoveLibraryEntry(ctx, "user-1", 10))

	entries, err := s.ListLibrary(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
