package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/bookbookapp/bookbook-server/internal/errors"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(setupTestStore(t), setupTokenService(t), newValidator(), testLogger())
}

func signupRequest() SignupRequest {
	return SignupRequest{
		Email:           "reader@example.com",
		Password:        "비밀번호12345",
		PasswordConfirm: "비밀번호12345",
		Name:            "책벌레",
	}
}

func TestSignupAndLogin(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Empty(t, resp.User.PasswordHash)
	assert.Equal(t, "책벌레", resp.User.Name)
	assert.Positive(t, resp.ExpiresIn)

	login, err := svc.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "비밀번호12345"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	claims, err := svc.VerifyToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestSignupPasswordMismatch(t *testing.T) {
	svc := setupAuthService(t)

	req := signupRequest()
	req.PasswordConfirm = "다른비밀번호123"

	_, err := svc.Signup(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	req := signupRequest()
	req.Name = "다른닉네임"
	_, err = svc.Signup(ctx, req)
	assert.True(t, apperrors.Is(err, apperrors.ErrAlreadyExists))
}

func TestLoginWrongPassword(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "wrong-password"})
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever1"})
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestVerifyTokenGarbage(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.VerifyToken("v4.local.garbage")
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}
