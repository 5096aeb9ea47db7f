package memory

import (
	"context"
	"fmt"

	"budget-server/common"
	"budget-server/entities"
)

type refreshTokenRepo struct{ s *Store }

func (r *refreshTokenRepo) Create(_ context.Context, token *entities.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.insertRefreshToken(token)
}

func (r *refreshTokenRepo) Find(_ context.Context, token string) (*entities.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rt, ok := r.s.refreshTokens[token]
	if !ok {
		return nil, fmt.Errorf("find refresh token: %w", common.ErrNotFound)
	}
	return &rt, nil
}

func (r *refreshTokenRepo) Rotate(_ context.Context, old string, next *entities.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.refreshTokens[old]; !ok {
		return fmt.Errorf("consume refresh token: %w", common.ErrNotFound)
	}
	delete(r.s.refreshTokens, old)
	return r.s.insertRefreshToken(next)
}

func (r *refreshTokenRepo) Delete(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.refreshTokens, token)
	return nil
}

func (s *Store) insertRefreshToken(token *entities.RefreshToken) error {
	if _, ok := s.users[token.UserID]; !ok {
		return fmt.Errorf("store refresh token: unknown user %s", token.UserID)
	}
	if _, ok := s.refreshTokens[token.Token]; ok {
		return fmt.Errorf("store refresh token: refresh_tokens_token_key: %w", common.ErrConflict)
	}
	if token.ID == "" {
		token.ID = newID()
	}
	s.stamp(&token.CreatedAt, nil)
	s.refreshTokens[token.Token] = *token
	return nil
}
