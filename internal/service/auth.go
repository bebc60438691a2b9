// Package service implements the application use cases on top of the
// store, search index, and AI gateway client.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookbookapp/bookbook-server/internal/auth"
	"github.com/bookbookapp/bookbook-server/internal/domain"
	apperrors "github.com/bookbookapp/bookbook-server/internal/errors"
	"github.com/bookbookapp/bookbook-server/internal/id"
	"github.com/bookbookapp/bookbook-server/internal/store"
	"github.com/bookbookapp/bookbook-server/internal/validation"
)

// AuthService handles signup, login, and token verification.
type AuthService struct {
	store     *store.Store
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(st *store.Store, tokens *auth.TokenService, validator *validation.Validator, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:     st,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
	}
}

// SignupRequest contains user registration data.
type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=1024"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Name            string `json:"name" validate:"required,min=2,max=30"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains the access token and the authenticated user.
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"` // Seconds until the token expires
}

// Signup registers a new user and returns an access token.
// Email and nickname must both be unused.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:            userID,
		Email:         req.Email,
		Name:          req.Name,
		PasswordHash:  hash,
		SelectedVoice: domain.Voice1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, apperrors.AlreadyExists("email or nickname already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)

	return s.issueToken(user)
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same error as a bad password so the response doesn't
			// reveal which accounts exist.
			return nil, apperrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, apperrors.InvalidCredentials("invalid email or password")
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return s.issueToken(user)
}

// VerifyToken validates an access token and returns its claims.
func (s *AuthService) VerifyToken(tokenString string) (*auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token").WithCause(err)
	}
	return claims, nil
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &AuthResponse{
		User:        sanitizeUser(user),
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.AccessTokenDuration().Seconds()),
	}, nil
}

// sanitizeUser returns a copy of the user without the password hash.
func sanitizeUser(user *domain.User) *domain.User {
	u := *user
	u.PasswordHash = ""
	return &u
}
