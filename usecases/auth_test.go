package usecases

import (
	"context"
	"testing"
	"time"

	"budget-server/auth"
	"budget-server/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthUseCase(t *testing.T, now func() time.Time) (*AuthUseCase, *auth.JWTManager) {
	t.Helper()
	_, gw := newTestGateway(t)
	jwt := auth.NewJWTManager("test-secret", 15*time.Minute)
	return NewAuthUseCase(gw, jwt, 24*time.Hour, now), jwt
}

func TestRegisterAndLogin(t *testing.T) {
	uc, jwt := newAuthUseCase(t, nil)
	ctx := context.Background()

	tokens, err := uc.Register(ctx, RegisterInput{Email: " Jane@Example.com", Password: "password123", Name: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", tokens.User.Email)
	claims, err := jwt.Validate(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.User.ID, claims.UserID)

	_, err = uc.Register(ctx, RegisterInput{Email: "jane@example.com", Password: "password123"})
	assert.ErrorIs(t, err, common.ErrConflict)
	_, err = uc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "password123"})
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = uc.Register(ctx, RegisterInput{Email: "short@example.com", Password: "short"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = uc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = uc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = uc.Login(ctx, LoginInput{Email: "jane@example.com"})
	assert.ErrorIs(t, err, common.ErrValidation)

	logged, err := uc.Login(ctx, LoginInput{Email: "JANE@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, logged.RefreshToken)
}

func TestRefreshRotatesToken(t *testing.T) {
	uc, _ := newAuthUseCase(t, nil)
	ctx := context.Background()
	tokens, err := uc.Register(ctx, RegisterInput{Email: "r@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = uc.Refresh(ctx, "")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = uc.Refresh(ctx, "unknown")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	next, err := uc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, next.RefreshToken)

	// the consumed token cannot be replayed
	_, err = uc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	require.NoError(t, uc.Logout(ctx, next.RefreshToken))
	_, err = uc.Refresh(ctx, next.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRefreshExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	uc, _ := newAuthUseCase(t, func() time.Time { return now })
	ctx := context.Background()
	tokens, err := uc.Register(ctx, RegisterInput{Email: "x@example.com", Password: "password123"})
	require.NoError(t, err)

	now = now.Add(25 * time.Hour)
	_, err = uc.Refresh(ctx, tokens.RefreshToken)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, "Refresh token expired", err.Error())
}
