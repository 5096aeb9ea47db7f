package auth

import (
	"context"
	"testing"
	"time"

	"budget-server/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("super-secret", time.Hour)
	tok, err := m.Generate(&entities.User{ID: "user-123", Email: "a@example.com"})
	require.NoError(t, err)

	claims, err := m.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, Session{UserID: "user-123", Email: "a@example.com"}, claims.Session())
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("secret", -time.Second)
	tok, err := m.Generate(&entities.User{ID: "u1"})
	require.NoError(t, err)

	_, err = m.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewJWTManager("right-secret", time.Hour).Generate(&entities.User{ID: "u2"})
	require.NoError(t, err)

	_, err = NewJWTManager("wrong-secret", time.Hour).Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("k", time.Hour)
	_, err := m.Validate("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
}

func TestNewRefreshToken(t *testing.T) {
	t.Parallel()

	a, err := NewRefreshToken()
	require.NoError(t, err)
	b, err := NewRefreshToken()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestSessionContext(t *testing.T) {
	t.Parallel()

	_, ok := SessionFrom(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), Session{UserID: "u", Email: "e"})
	s, ok := SessionFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "u", s.UserID)
}
