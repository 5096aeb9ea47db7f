package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"budget-server/common"
	"budget-server/entities"
	"budget-server/metrics"
	"budget-server/repositories"
)

// SubscriptionUseCase resolves and persists subscription status. Status only
// moves forward: a missing record becomes a TRIAL, an overdue ACTIVE record
// becomes EXPIRED, and nothing returns to ACTIVE without Renew.
type SubscriptionUseCase struct {
	users         repositories.UserRepository
	subscriptions repositories.SubscriptionRepository
	metrics       *metrics.Metrics
	now           func() time.Time
}

func NewSubscriptionUseCase(gw *repositories.Gateway, m *metrics.Metrics, now func() time.Time) *SubscriptionUseCase {
	if now == nil {
		now = time.Now
	}
	return &SubscriptionUseCase{
		users:         gw.Users,
		subscriptions: gw.Subscriptions,
		metrics:       m,
		now:           now,
	}
}

// Status returns the caller's subscription, creating a trial on first use and
// expiring an ACTIVE subscription past its end date. A TRIAL past its end
// date is returned unchanged.
func (uc *SubscriptionUseCase) Status(ctx context.Context) (*entities.Subscription, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, session.UserID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	now := uc.now()
	sub, err := uc.subscriptions.GetByUserID(ctx, user.ID)
	if errors.Is(err, common.ErrNotFound) {
		return uc.startTrial(ctx, user.ID, now)
	}
	if err != nil {
		return nil, fmt.Errorf("load subscription: %w", err)
	}

	return uc.expireOverdue(ctx, sub, now)
}

// expireOverdue moves an ACTIVE subscription past its end date to EXPIRED.
// Any other subscription is returned as is.
func (uc *SubscriptionUseCase) expireOverdue(ctx context.Context, sub *entities.Subscription, now time.Time) (*entities.Subscription, error) {
	if !sub.Overdue(now) {
		return sub, nil
	}
	changed, err := uc.subscriptions.ExpireIfActive(ctx, sub.ID, now)
	if err != nil {
		return nil, fmt.Errorf("expire subscription: %w", err)
	}
	if !changed {
		// Another request got there first; return what it stored.
		return uc.reload(ctx, sub.UserID)
	}
	uc.metrics.SubscriptionTransition(string(entities.SubscriptionActive), string(entities.SubscriptionExpired), 1)
	slog.Info("subscription expired", "user_id", sub.UserID, "end_date", sub.EndDate)
	sub.Status = entities.SubscriptionExpired
	sub.UpdatedAt = now
	return sub, nil
}

func (uc *SubscriptionUseCase) startTrial(ctx context.Context, userID string, now time.Time) (*entities.Subscription, error) {
	stored, created, err := uc.subscriptions.CreateIfAbsent(ctx, entities.NewTrial(userID, now))
	if err != nil {
		return nil, fmt.Errorf("create trial: %w", err)
	}
	if created {
		uc.metrics.SubscriptionTransition("NONE", string(entities.SubscriptionTrial), 1)
		slog.Info("trial started", "user_id", userID, "ends_at", stored.EndDate)
	}
	return stored, nil
}

func (uc *SubscriptionUseCase) reload(ctx context.Context, userID string) (*entities.Subscription, error) {
	sub, err := uc.subscriptions.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload subscription: %w", err)
	}
	return sub, nil
}

// Renew activates the subscription of the user with email for period,
// extending from the later of now and the current end date.
func (uc *SubscriptionUseCase) Renew(ctx context.Context, email string, period time.Duration) (*entities.Subscription, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, common.Validation("email is required")
	}
	if period <= 0 {
		return nil, common.Validation("renewal period must be positive")
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	now := uc.now()
	sub, err := uc.subscriptions.GetByUserID(ctx, user.ID)
	if errors.Is(err, common.ErrNotFound) {
		sub, err = uc.startTrial(ctx, user.ID, now)
	}
	if err != nil {
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	if sub, err = uc.expireOverdue(ctx, sub, now); err != nil {
		return nil, err
	}

	base := sub.EndDate
	if sub.Status == entities.SubscriptionExpired || base.Before(now) {
		base = now
	}
	if err := uc.subscriptions.Renew(ctx, user.ID, base.Add(period)); err != nil {
		return nil, fmt.Errorf("renew subscription: %w", err)
	}
	if sub.Status != entities.SubscriptionActive {
		uc.metrics.SubscriptionTransition(string(sub.Status), string(entities.SubscriptionActive), 1)
	}
	slog.Info("subscription renewed", "user_id", user.ID, "end_date", base.Add(period))
	return uc.reload(ctx, user.ID)
}

// SweepExpired expires every ACTIVE subscription past its end date.
func (uc *SubscriptionUseCase) SweepExpired(ctx context.Context) (int64, error) {
	n, err := uc.subscriptions.ExpireOverdue(ctx, uc.now())
	if err != nil {
		return 0, fmt.Errorf("sweep subscriptions: %w", err)
	}
	uc.metrics.SubscriptionTransition(string(entities.SubscriptionActive), string(entities.SubscriptionExpired), int(n))
	return n, nil
}
