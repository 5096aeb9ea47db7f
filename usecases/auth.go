package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"budget-server/auth"
	"budget-server/common"
	"budget-server/entities"
	"budget-server/repositories"
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"max=100"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Tokens is an issued session: a short-lived access token and the refresh
// token that renews it.
type Tokens struct {
	AccessToken      string         `json:"accessToken"`
	RefreshToken     string         `json:"refreshToken"`
	AccessExpiresAt  time.Time      `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time      `json:"refreshExpiresAt"`
	User             *entities.User `json:"user"`
}

type AuthUseCase struct {
	users         repositories.UserRepository
	refreshTokens repositories.RefreshTokenRepository
	jwt           *auth.JWTManager
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewAuthUseCase(gw *repositories.Gateway, jwt *auth.JWTManager, refreshTTL time.Duration, now func() time.Time) *AuthUseCase {
	if now == nil {
		now = time.Now
	}
	return &AuthUseCase{
		users:         gw.Users,
		refreshTokens: gw.RefreshTokens,
		jwt:           jwt,
		refreshTTL:    refreshTTL,
		now:           now,
	}
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*Tokens, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &entities.User{Email: input.Email, Name: input.Name, PasswordHash: &hash}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.Conflict("Email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return uc.issue(ctx, user)
}

func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*Tokens, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, common.Validation("Email and password are required")
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil || !user.HasPassword() || !auth.CheckPassword(*user.PasswordHash, input.Password) {
		return nil, common.Unauthorized("Invalid email or password")
	}

	return uc.issue(ctx, user)
}

// Refresh consumes a refresh token and issues a new pair.
func (uc *AuthUseCase) Refresh(ctx context.Context, token string) (*Tokens, error) {
	if token == "" {
		return nil, common.Unauthorized("Refresh token required")
	}
	stored, err := uc.refreshTokens.Find(ctx, token)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.Unauthorized("Invalid refresh token")
	}
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	if !stored.ExpiresAt.After(uc.now()) {
		if err := uc.refreshTokens.Delete(ctx, token); err != nil {
			return nil, fmt.Errorf("drop expired refresh token: %w", err)
		}
		return nil, common.Unauthorized("Refresh token expired")
	}

	user, err := uc.users.GetByID(ctx, stored.UserID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.Unauthorized("Invalid refresh token")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	next, err := uc.newRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.refreshTokens.Rotate(ctx, token, next); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Unauthorized("Invalid refresh token")
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return uc.withAccessToken(user, next)
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := uc.refreshTokens.Delete(ctx, token); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (uc *AuthUseCase) issue(ctx context.Context, user *entities.User) (*Tokens, error) {
	refresh, err := uc.newRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.refreshTokens.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return uc.withAccessToken(user, refresh)
}

func (uc *AuthUseCase) newRefreshToken(userID string) (*entities.RefreshToken, error) {
	token, err := auth.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	return &entities.RefreshToken{UserID: userID, Token: token, ExpiresAt: uc.now().Add(uc.refreshTTL)}, nil
}

func (uc *AuthUseCase) withAccessToken(user *entities.User, refresh *entities.RefreshToken) (*Tokens, error) {
	access, err := uc.jwt.Generate(user)
	if err != nil {
		return nil, err
	}
	return &Tokens{
		AccessToken:      access,
		RefreshToken:     refresh.Token,
		AccessExpiresAt:  time.Now().Add(uc.jwt.TTL()),
		RefreshExpiresAt: refresh.ExpiresAt,
		User:             user,
	}, nil
}
