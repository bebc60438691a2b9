package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbookapp/bookbook-server/internal/domain"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func testBook(title string) *domain.Book {
	return &domain.Book{
		Title:   title,
		Author:  "저자",
		PubDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestStoreCreateAndGetBook(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := testBook("어린 왕자")
	require.NoError(t, s.CreateBook(ctx, book))
	assert.Equal(t, int64(1), book.ID, "first book gets sequence id 1")

	got, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "어린 왕자", got.Title)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.GetBook(ctx, 999)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestStoreCreateBookDuplicateISBN(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := testBook("첫 번째")
	first.ISBN = "9788900000001"
	require.NoError(t, s.CreateBook(ctx, first))

	second := testBook("두 번째")
	second.ISBN = "9788900000001"
	err := s.CreateBook(ctx, second)
	assert.ErrorIs(t, err, ErrBookExists)
}

func TestStoreListBooksOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	old := testBook("옛날 책")
	old.PubDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := testBook("신간")
	recent.PubDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	middle := testBook("중간 책")
	middle.PubDate = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateBook(ctx, old))
	require.NoError(t, s.CreateBook(ctx, recent))
	require.NoError(t, s.CreateBook(ctx, middle))

	books, err := s.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "신간", books[0].Title)
	assert.Equal(t, "중간 책", books[1].Title)
	assert.Equal(t, "옛날 책", books[2].Title)
}

func TestStoreGetBooksByIDs(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a := testBook("A")
	b := testBook("B")
	require.NoError(t, s.CreateBook(ctx, a))
	require.NoError(t, s.CreateBook(ctx, b))

	books, err := s.GetBooksByIDs(ctx, []int64{b.ID, 999, a.ID})
	require.NoError(t, err)
	require.Len(t, books, 2, "missing ids are skipped")
	assert.Equal(t, "B", books[0].Title, "input order preserved")
	assert.Equal(t, "A", books[1].Title)
}

func TestStoreBestsellerFlags(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	var ids []int64
	for range 5 {
		book := testBook("책")
		require.NoError(t, s.CreateBook(ctx, book))
		ids = append(ids, book.ID)
	}

	require.NoError(t, s.SetBestsellerFlags(ctx, []int64{ids[0], ids[2], 999}))

	bestsellers, err := s.ListBestsellers(ctx, 20)
	require.NoError(t, err)
	require.Len(t, bestsellers, 2)
	// Descending id order.
	assert.Equal(t, ids[2], bestsellers[0].ID)
	assert.Equal(t, ids[0], bestsellers[1].ID)

	t.Run("idempotent and additive", func(t *testing.T) {
		require.NoError(t, s.SetBestsellerFlags(ctx, []int64{ids[0], ids[4]}))

		bestsellers, err := s.ListBestsellers(ctx, 20)
		require.NoError(t, err)
		assert.Len(t, bestsellers, 3, "flags are never unset")
	})

	t.Run("respects limit", func(t *testing.T) {
		bestsellers, err := s.ListBestsellers(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, bestsellers, 2)
	})
}

func TestStoreSampleBooks(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for range 10 {
		require.NoError(t, s.CreateBook(ctx, testBook("책")))
	}

	sample, err := s.SampleBooks(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, sample, 4)

	all, err := s.SampleBooks(ctx, 200)
	require.NoError(t, err)
	assert.Len(t, all, 10, "sample larger than catalog returns everything")
}

func TestStoreListBooksMissingEmbedding(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	embedded := testBook("임베딩 있음")
	embedded.EmbeddingVector = []float64{0.1, 0.2}
	missing := testBook("임베딩 없음")

	require.NoError(t, s.CreateBook(ctx, embedded))
	require.NoError(t, s.CreateBook(ctx, missing))

	books, err := s.ListBooksMissingEmbedding(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "임베딩 없음", books[0].Title)
}

func TestStoreEnsureCategory(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first, err := s.EnsureCategory(ctx, "과학")
	require.NoError(t, err)

	again, err := s.EnsureCategory(ctx, "과학")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "same name reuses the row")

	other, err := s.EnsureCategory(ctx, "경제/경영")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}
