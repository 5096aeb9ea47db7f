package usecases

import (
	"context"
	"sync"
	"testing"

	"budget-server/auth"
	"budget-server/entities"
	"budget-server/repositories"
	"budget-server/repositories/memory"

	"github.com/stretchr/testify/require"
)

type spyRevalidator struct {
	mu    sync.Mutex
	calls []string
}

func (s *spyRevalidator) Revalidate(householdID, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, householdID+" "+path)
}

func (s *spyRevalidator) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestGateway(t *testing.T) (*memory.Store, *repositories.Gateway) {
	t.Helper()
	store := memory.NewStore()
	return store, store.Gateway()
}

func seedUser(t *testing.T, gw *repositories.Gateway, email, password string) *entities.User {
	t.Helper()
	user := &entities.User{Email: email, Name: "Test User"}
	if password != "" {
		hash, err := auth.HashPassword(password)
		require.NoError(t, err)
		user.PasswordHash = &hash
	}
	require.NoError(t, gw.Users.Create(context.Background(), user))
	return user
}

func seedHousehold(t *testing.T, gw *repositories.Gateway, owner *entities.User) *entities.Household {
	t.Helper()
	household := &entities.Household{Name: "Home of " + owner.Email}
	require.NoError(t, gw.Households.Create(context.Background(), household, owner.ID))
	return household
}

func sessionFor(user *entities.User) context.Context {
	return auth.WithSession(context.Background(), auth.Session{UserID: user.ID, Email: user.Email})
}
