package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bookbookapp/bookbook-server/internal/auth"
	"github.com/bookbookapp/bookbook-server/internal/domain"
	"github.com/bookbookapp/bookbook-server/internal/search"
	"github.com/bookbookapp/bookbook-server/internal/store"
	"github.com/bookbookapp/bookbook-server/internal/validation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(t.TempDir(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func setupTestIndex(t *testing.T) *search.Index {
	t.Helper()

	idx, err := search.NewIndex(search.Options{DataPath: t.TempDir(), Logger: testLogger()})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, idx.Close())
	})
	return idx
}

func setupTokenService(t *testing.T) *auth.TokenService {
	t.Helper()

	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	svc, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)
	return svc
}

func seedBook(t *testing.T, s *store.Store, title string, categoryID int64, embedding []float64) *domain.Book {
	t.Helper()

	book := &domain.Book{
		Title:           title,
		Author:          "저자",
		Publisher:       "출판사",
		CategoryID:      categoryID,
		PubDate:         time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		Description:     title + "에 대한 설명입니다.",
		EmbeddingVector: embedding,
	}
	require.NoError(t, s.CreateBook(context.Background(), book))
	return book
}

func seedUser(t *testing.T, s *store.Store, email, name string) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:            "user-" + name,
		Email:         email,
		Name:          name,
		PasswordHash:  "hash",
		SelectedVoice: domain.Voice1,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func newValidator() *validation.Validator {
	return validation.New()
}
