// Package memory is an in-process implementation of the persistence gateway.
// It mirrors the postgres repositories, including cascade rules, and backs
// STORAGE=memory and the test suites.
package memory

import (
	"sync"
	"time"

	"budget-server/entities"
	"budget-server/repositories"

	"github.com/google/uuid"
)

// Store holds every table behind a single lock.
type Store struct {
	mu            sync.RWMutex
	now           func() time.Time
	users         map[string]entities.User
	households    map[string]entities.Household
	members       map[string]entities.HouseholdMember // user id -> membership
	subscriptions map[string]entities.Subscription    // user id -> subscription
	envelopes     map[string]entities.InvestmentEnvelope
	transactions  map[string]entities.Transaction
	refreshTokens map[string]entities.RefreshToken // token -> row

	// SubscriptionWrites counts subscription inserts and updates.
	SubscriptionWrites int
}

func NewStore() *Store {
	return &Store{
		now:           time.Now,
		users:         make(map[string]entities.User),
		households:    make(map[string]entities.Household),
		members:       make(map[string]entities.HouseholdMember),
		subscriptions: make(map[string]entities.Subscription),
		envelopes:     make(map[string]entities.InvestmentEnvelope),
		transactions:  make(map[string]entities.Transaction),
		refreshTokens: make(map[string]entities.RefreshToken),
	}
}

// NewGateway returns a Gateway over a fresh Store.
func NewGateway() *repositories.Gateway {
	return NewStore().Gateway()
}

// Gateway exposes s through the repository interfaces.
func (s *Store) Gateway() *repositories.Gateway {
	return &repositories.Gateway{
		Users:         &userRepo{s},
		Households:    &householdRepo{s},
		Subscriptions: &subscriptionRepo{s},
		Envelopes:     &envelopeRepo{s},
		Transactions:  &transactionRepo{s},
		RefreshTokens: &refreshTokenRepo{s},
	}
}

func newID() string { return uuid.New().String() }

// stamp fills creation timestamps the way gorm does on insert.
func (s *Store) stamp(created, updated *time.Time) {
	now := s.now()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil && updated.IsZero() {
		*updated = now
	}
}
