package repositories

import (
	"context"
	"time"

	"budget-server/entities"
)

// Every method fails with common.ErrNotFound when the addressed row is absent
// and with common.ErrConflict on unique or version violations.

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	UpdatePhone(ctx context.Context, email, phoneNumber string) (*entities.User, error)
	MarkEmailVerified(ctx context.Context, id string, at time.Time) error
	// Delete removes the user and every household left without members.
	Delete(ctx context.Context, id string) error
}

type HouseholdRepository interface {
	Create(ctx context.Context, household *entities.Household, ownerID string) error
	GetByUserID(ctx context.Context, userID string) (*entities.Household, error)
	AddMember(ctx context.Context, householdID, userID, role string) error
}

type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entities.Subscription, error)
	// CreateIfAbsent inserts sub unless the user already has one and returns
	// the stored row. created is false when another row won.
	CreateIfAbsent(ctx context.Context, sub *entities.Subscription) (stored *entities.Subscription, created bool, err error)
	// ExpireIfActive flips an ACTIVE row past its end date to EXPIRED and
	// reports whether a row changed.
	ExpireIfActive(ctx context.Context, id string, now time.Time) (bool, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	Renew(ctx context.Context, userID string, endDate time.Time) error
}

type EnvelopeRepository interface {
	ListByHousehold(ctx context.Context, householdID string) ([]entities.InvestmentEnvelope, error)
	NextOrder(ctx context.Context, householdID string) (int, error)
	Create(ctx context.Context, envelope *entities.InvestmentEnvelope) error
	FindForHousehold(ctx context.Context, id, householdID string) (*entities.InvestmentEnvelope, error)
	Delete(ctx context.Context, id, householdID string) error
	Reorder(ctx context.Context, householdID string, positions []entities.EnvelopePosition) error
}

type TransactionRepository interface {
	ListByHousehold(ctx context.Context, householdID string, from, to time.Time) ([]entities.Transaction, error)
	Create(ctx context.Context, transaction *entities.Transaction) error
	Delete(ctx context.Context, id, householdID string) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entities.RefreshToken) error
	Find(ctx context.Context, token string) (*entities.RefreshToken, error)
	// Rotate atomically consumes old and stores next.
	Rotate(ctx context.Context, old string, next *entities.RefreshToken) error
	Delete(ctx context.Context, token string) error
}

// Gateway bundles the typed data-access repositories.
type Gateway struct {
	Users         UserRepository
	Households    HouseholdRepository
	Subscriptions SubscriptionRepository
	Envelopes     EnvelopeRepository
	Transactions  TransactionRepository
	RefreshTokens RefreshTokenRepository
}
