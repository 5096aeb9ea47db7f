package memory

import (
	"context"
	"fmt"
	"time"

	"budget-server/common"
	"budget-server/entities"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return fmt.Errorf("create user: users_email_key: %w", common.ErrConflict)
		}
	}
	if user.ID == "" {
		user.ID = newID()
	}
	r.s.stamp(&user.CreatedAt, &user.UpdatedAt)
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", common.ErrNotFound)
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.userByEmail(email)
	if !ok {
		return nil, fmt.Errorf("get user by email: %w", common.ErrNotFound)
	}
	return &u, nil
}

func (r *userRepo) UpdatePhone(_ context.Context, email, phoneNumber string) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.userByEmail(email)
	if !ok {
		return nil, fmt.Errorf("update phone: %w", common.ErrNotFound)
	}
	phone := phoneNumber
	u.PhoneNumber = &phone
	u.UpdatedAt = r.s.now()
	r.s.users[u.ID] = u
	return &u, nil
}

func (r *userRepo) MarkEmailVerified(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.EmailVerified != nil {
		return fmt.Errorf("verify email: %w", common.ErrConflict)
	}
	verified := at
	u.EmailVerified = &verified
	u.UpdatedAt = at
	r.s.users[id] = u
	return nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return fmt.Errorf("delete user: %w", common.ErrNotFound)
	}
	delete(r.s.users, id)
	delete(r.s.subscriptions, id)
	for token, rt := range r.s.refreshTokens {
		if rt.UserID == id {
			delete(r.s.refreshTokens, token)
		}
	}
	for txID, t := range r.s.transactions {
		if t.CreatedBy != nil && *t.CreatedBy == id {
			t.CreatedBy = nil
			r.s.transactions[txID] = t
		}
	}

	member, ok := r.s.members[id]
	if !ok {
		return nil
	}
	delete(r.s.members, id)
	for _, m := range r.s.members {
		if m.HouseholdID == member.HouseholdID {
			return nil
		}
	}
	r.s.deleteHousehold(member.HouseholdID)
	return nil
}

func (s *Store) userByEmail(email string) (entities.User, bool) {
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return entities.User{}, false
}

// deleteHousehold cascades to envelopes and transactions. Callers hold mu.
func (s *Store) deleteHousehold(id string) {
	delete(s.households, id)
	for envID, e := range s.envelopes {
		if e.HouseholdID == id {
			delete(s.envelopes, envID)
		}
	}
	for txID, t := range s.transactions {
		if t.HouseholdID == id {
			delete(s.transactions, txID)
		}
	}
}
