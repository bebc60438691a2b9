package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookbookapp/bookbook-server/internal/domain"
	apperrors "github.com/bookbookapp/bookbook-server/internal/errors"
	"github.com/bookbookapp/bookbook-server/internal/store"
	"github.com/bookbookapp/bookbook-server/internal/validation"
)

// UserService handles profile, stats, library, and account deletion.
type UserService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(st *store.Store, validator *validation.Validator, logger *slog.Logger) *UserService {
	return &UserService{
		store:     st,
		validator: validator,
		logger:    logger,
	}
}

// Profile is the authenticated user's own view, including derived stats.
type Profile struct {
	User  *domain.User     `json:"user"`
	Stats domain.UserStats `json:"stats"`
}

// UpdateProfileRequest carries partial profile updates.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=2,max=30"`
	SelectedVoice    *string `json:"selected_voice" validate:"omitempty,voice"`
	SelectedCategory *string `json:"selected_category" validate:"omitempty,category"`
	FavoriteBook     *string `json:"favorite_book" validate:"omitempty,max=200"`
	Bio              *string `json:"bio" validate:"omitempty,max=500"`
}

// Me returns the user's profile with derived stats.
func (s *UserService) Me(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{User: sanitizeUser(user), Stats: stats}, nil
}

// UpdateProfile applies a partial profile update.
// Changing the nickname checks uniqueness against other users.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != user.Name {
		existing, err := s.store.GetUserByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, store.ErrUserNotFound) {
			return nil, fmt.Errorf("check nickname: %w", err)
		}
		if existing != nil && existing.ID != user.ID {
			return nil, apperrors.AlreadyExists("nickname already in use")
		}
		user.Name = *req.Name
	}
	if req.SelectedVoice != nil {
		user.SelectedVoice = domain.Voice(*req.SelectedVoice)
	}
	if req.SelectedCategory != nil {
		user.SelectedCategory = *req.SelectedCategory
	}
	if req.FavoriteBook != nil {
		user.FavoriteBook = *req.FavoriteBook
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	user.UpdatedAt = time.Now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, apperrors.AlreadyExists("nickname already in use")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("profile updated", "user_id", user.ID)

	return sanitizeUser(user), nil
}

// Delete removes the user account along with their comments and library.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("account deleted", "user_id", userID)
	return nil
}

// Library returns the books in the user's library, newest entries first.
func (s *UserService) Library(ctx context.Context, userID string) ([]domain.Book, error) {
	entries, err := s.store.ListLibrary(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.BookID)
	}

	return s.store.GetBooksByIDs(ctx, ids)
}

// stats derives the user's reading stats from comments and library.
func (s *UserService) stats(ctx context.Context, userID string) (domain.UserStats, error) {
	var stats domain.UserStats

	entries, err := s.store.ListLibrary(ctx, userID)
	if err != nil {
		return stats, err
	}
	stats.BooksRead = len(entries)

	comments, err := s.store.ListCommentsByUser(ctx, userID)
	if err != nil {
		return stats, err
	}
	stats.CommentsCount = len(comments)

	rated := 0
	sum := 0
	for _, c := range comments {
		if c.Rating > 0 {
			rated++
			sum += c.Rating
		}
	}
	if rated > 0 {
		stats.AverageRating = float64(sum) / float64(rated)
	}

	return stats, nil
}
