package services

import (
	"context"
	"log/slog"
	"time"
)

// ExpirySweeper bulk-expires subscriptions past their end date.
type ExpirySweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// SubscriptionSweeper runs an ExpirySweeper on a fixed interval so overdue
// ACTIVE subscriptions expire even when nobody queries them.
type SubscriptionSweeper struct {
	sweeper  ExpirySweeper
	interval time.Duration
}

func NewSubscriptionSweeper(sweeper ExpirySweeper, interval time.Duration) *SubscriptionSweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SubscriptionSweeper{sweeper: sweeper, interval: interval}
}

// Start sweeps every interval until ctx is cancelled.
func (s *SubscriptionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce performs a single sweep and returns the number of expired rows.
func (s *SubscriptionSweeper) RunOnce(ctx context.Context) int64 {
	n, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		slog.Error("subscription sweep failed", "error", err)
		return 0
	}
	if n > 0 {
		slog.Info("expired overdue subscriptions", "count", n)
	}
	return n
}
