package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbookapp/bookbook-server/internal/domain"
	apperrors "github.com/bookbookapp/bookbook-server/internal/errors"
)

func setupUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(setupTestStore(t), newValidator(), testLogger())
}

func strPtr(s string) *string { return &s }

func TestMeIncludesStats(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	user := seedUser(t, svc.store, "a@example.com", "닉네임")
	bookA := seedBook(t, svc.store, "데미안", 0, nil)
	bookB := seedBook(t, svc.store, "신간", 0, nil)

	require.NoError(t, svc.store.CreateComment(ctx, &domain.Comment{
		ID: "comment_1", BookID: bookA.ID, UserID: user.ID, Content: "x", Rating: 4, CreatedAt: time.Now(),
	}))
	require.NoError(t, svc.store.CreateComment(ctx, &domain.Comment{
		ID: "comment_2", BookID: bookB.ID, UserID: user.ID, Content: "y", Rating: 2, CreatedAt: time.Now(),
	}))
	require.NoError(t, svc.store.AddLibraryEntry(ctx, user.ID, bookA.ID))
	require.NoError(t, svc.store.AddLibraryEntry(ctx, user.ID, bookB.ID))

	profile, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.User.PasswordHash)
	assert.Equal(t, 2, profile.Stats.BooksRead)
	assert.Equal(t, 2, profile.Stats.CommentsCount)
	assert.InDelta(t, 3.0, profile.Stats.AverageRating, 0.001)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	user := seedUser(t, svc.store, "a@example.com", "닉네임")

	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{
		SelectedVoice:    strPtr("voice3"),
		SelectedCategory: strPtr("과학"),
		Bio:              strPtr("책을 좋아합니다."),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Voice3, updated.SelectedVoice)
	assert.Equal(t, "과학", updated.SelectedCategory)
	assert.Equal(t, "책을 좋아합니다.", updated.Bio)
	// Untouched fields stay
	assert.Equal(t, "닉네임", updated.Name)
}

func TestUpdateProfileNicknameConflict(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	seedUser(t, svc.store, "a@example.com", "선점된닉네임")
	user := seedUser(t, svc.store, "b@example.com", "닉네임")

	_, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{Name: strPtr("선점된닉네임")})
	assert.True(t, apperrors.Is(err, apperrors.ErrAlreadyExists))
}

func TestUpdateProfileKeepOwnNickname(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	user := seedUser(t, svc.store, "a@example.com", "닉네임")

	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{
		Name: strPtr("닉네임"),
		Bio:  strPtr("변경"),
	})
	require.NoError(t, err)
	assert.Equal(t, "닉네임", updated.Name)
}

func TestUpdateProfileInvalidVoice(t *testing.T) {
	svc := setupUserService(t)
	user := seedUser(t, svc.store, "a@example.com", "닉네임")

	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		SelectedVoice: strPtr("voice9"),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestDeleteCascades(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	user := seedUser(t, svc.store, "a@example.com", "닉네임")
	book := seedBook(t, svc.store, "데미안", 0, nil)
	require.NoError(t, svc.store.CreateComment(ctx, &domain.Comment{
		ID: "comment_1", BookID: book.ID, UserID: user.ID, Content: "x", Rating: 3, CreatedAt: time.Now(),
	}))
	require.NoError(t, svc.store.AddLibraryEntry(ctx, user.ID, book.ID))

	require.NoError(t, svc.Delete(ctx, user.ID))

	_, err := svc.store.GetUser(ctx, user.ID)
	assert.Error(t, err)

	comments, err := svc.store.ListCommentsByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestLibraryReturnsBooks(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	user := seedUser(t, svc.store, "a@example.com", "닉네임")
	bookA := seedBook(t, svc.store, "데미안", 0, nil)
	seedBook(t, svc.store, "다른 책", 0, nil)
	require.NoError(t, svc.store.AddLibraryEntry(ctx, user.ID, bookA.ID))

	books, err := svc.Library(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, bookA.ID, books[0].ID)
}
