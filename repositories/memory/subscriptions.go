package memory

import (
	"context"
	"fmt"
	"time"

	"budget-server/common"
	"budget-server/entities"
)

type subscriptionRepo struct{ s *Store }

func (r *subscriptionRepo) GetByUserID(_ context.Context, userID string) (*entities.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sub, ok := r.s.subscriptions[userID]
	if !ok {
		return nil, fmt.Errorf("get subscription: %w", common.ErrNotFound)
	}
	return &sub, nil
}

func (r *subscriptionRepo) CreateIfAbsent(_ context.Context, sub *entities.Subscription) (*entities.Subscription, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.s.subscriptions[sub.UserID]; ok {
		return &existing, false, nil
	}
	if _, ok := r.s.users[sub.UserID]; !ok {
		return nil, false, fmt.Errorf("create subscription: unknown user %s", sub.UserID)
	}
	if sub.ID == "" {
		sub.ID = newID()
	}
	r.s.stamp(&sub.CreatedAt, &sub.UpdatedAt)
	r.s.subscriptions[sub.UserID] = *sub
	r.s.SubscriptionWrites++
	stored := *sub
	return &stored, true, nil
}

func (r *subscriptionRepo) ExpireIfActive(_ context.Context, id string, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for userID, sub := range r.s.subscriptions {
		if sub.ID != id {
			continue
		}
		if !sub.Overdue(now) {
			return false, nil
		}
		sub.Status = entities.SubscriptionExpired
		sub.UpdatedAt = now
		r.s.subscriptions[userID] = sub
		r.s.SubscriptionWrites++
		return true, nil
	}
	return false, nil
}

func (r *subscriptionRepo) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for userID, sub := range r.s.subscriptions {
		if sub.Overdue(now) {
			sub.Status = entities.SubscriptionExpired
			sub.UpdatedAt = now
			r.s.subscriptions[userID] = sub
			r.s.SubscriptionWrites++
			n++
		}
	}
	return n, nil
}

func (r *subscriptionRepo) Renew(_ context.Context, userID string, endDate time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sub, ok := r.s.subscriptions[userID]
	if !ok {
		return fmt.Errorf("renew subscription: %w", common.ErrNotFound)
	}
	sub.Status = entities.SubscriptionActive
	sub.EndDate = endDate
	sub.UpdatedAt = r.s.now()
	r.s.subscriptions[userID] = sub
	r.s.SubscriptionWrites++
	return nil
}
