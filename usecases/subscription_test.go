package usecases

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"budget-server/common"
	"budget-server/entities"
	"budget-server/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func clock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestStatus_RequiresSession(t *testing.T) {
	_, gw := newTestGateway(t)
	uc := NewSubscriptionUseCase(gw, nil, clock(fixedNow))

	_, err := uc.Status(context.Background())
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestStatus_UnknownUser(t *testing.T) {
	_, gw := newTestGateway(t)
	uc := NewSubscriptionUseCase(gw, nil, clock(fixedNow))

	_, err := uc.Status(sessionFor(&entities.User{ID: "b3a1e0a4-0000-4000-8000-000000000000"}))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestStatus_FirstQueryStartsTrial(t *testing.T) {
	store, gw := newTestGateway(t)
	uc := NewSubscriptionUseCase(gw, metrics.New(), clock(fixedNow))
	user := seedUser(t, gw, "new@example.com", "password123")

	sub, err := uc.Status(sessionFor(user))
	require.NoError(t, err)
	assert.Equal(t, entities.SubscriptionTrial, sub.Status)
	require.NotNil(t, sub.TrialEndsAt)
	assert.True(t, sub.TrialEndsAt.Equal(fixedNow.Add(30*24*time.Hour)))
	assert.True(t, sub.EndDate.Equal(fixedNow.Add(30*24*time.Hour)))

	again, err := uc.Status(sessionFor(user))
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)
	assert.Equal(t, sub.Status, again.Status)
	assert.Equal(t, 1, store.SubscriptionWrites)
}

func TestStatus_ConcurrentFirstQueriesCreateOneRecord(t *testing.T) {
	store, gw := newTestGateway(t)
	uc := NewSubscriptionUseCase(gw, nil, clock(fixedNow))
	user := seedUser(t, gw, "race@example.com", "password123")

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sub, err := uc.Status(sessionFor(user))
			if assert.NoError(t, err) {
				ids[i] = sub.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, store.SubscriptionWrites)
}

func TestStatus_ActivePastEndExpiresOnce(t *testing.T) {
	store, gw := newTestGateway(t)
	uc := NewSubscriptionUseCase(gw, metrics.New(), clock(fixedNow))
	user := seedUser(t, gw, "paid@example.com", "password123")
	_, _, err := gw.Subscriptions.CreateIfAbsent(context.Background(), &entities.Subscription{
		UserID:  user.ID,
		Status:  entities.SubscriptionActive,
		EndDate: fixedNow.Add(-time.Hour),
	})
	require.NoError(t, err)
	writes := store.SubscriptionWrites

	sub, err := uc.Status(sessionFor(user))
	require.NoError(t, err)
	assert.Equal(t, entities.SubscriptionExpired, sub.Status)
	assert.Equal(t, writes+1, store.SubscriptionWrites)

	stored, err := gw.Subscriptions.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SubscriptionExpired, stored.Status)

	again, err := uc.Status(sessionFor(user))
	require.NoError(t, err)
	assert.Equal(t, entities.SubscriptionExpired, again.Status)
	assert.Equal(t, writes+1, store.SubscriptionWrites)
}

func TestStatus_ActiveBeforeEndUnchanged(t *testing.T) {
	store, gw := newTestGateway(t)
	uc := NewSubscriptionUseCase(gw, nil, clock(fixedNow))
	user := seedUser(t, gw, "paid@example.com", "password123")
	_, _, err := gw.Subscriptions.CreateIfAbsent(context.Background(), &entities.Subscription{
		UserID:  user.ID,
		Status:  entities.SubscriptionActive,
		EndDate: fixedNow.Add(time.Hour),
	})
	require.NoError(t, err)

	sub, err := uc.Status(sessionFor(user))
	require.NoError(t, err)
	assert.Equal(t, entities.SubscriptionActive, sub.Status)
	assert.Equal(t, 1, store.SubscriptionWrites)
}

func TestStatus_TrialPastEndStaysTrial(t *testing.T) {
	store, gw := newTestGateway(t)
	user := seedUser(t, gw, "trial@example.com", "password123")
	_, err := NewSubscriptionUseCase(gw, nil, clock(fixedNow)).Status(sessionFor(user))
	require.NoError(t, err)

	later := NewSubscriptionUseCase(gw, nil, clock(fixedNow.Add(60*24*time.Hour)))
	sub, err := later.Status(sessionFor(user))
	require.NoError(t, err)
	assert.Equal(t, entities.SubscriptionTrial, sub.Status)
	assert.Equal(t, 1, store.SubscriptionWrites)

	n, err := later.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRenew(t *testing.T) {
	_, gw := newTestGateway(t)
	uc := NewSubscriptionUseCase(gw, metrics.New(), clock(fixedNow))
	user := seedUser(t, gw, "renew@example.com", "password123")

	sub, err := uc.Renew(context.Background(), "Renew@Example.com", 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, entities.SubscriptionActive, sub.Status)
	// a fresh trial ends in 30 days, renewal extends from there
	assert.True(t, sub.EndDate.Equal(fixedNow.Add(60*24*time.Hour)))

	_, err = uc.Renew(context.Background(), user.Email, 0)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = uc.Renew(context.Background(), "missing@example.com", time.Hour)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRenew_ExpiredStartsFromNow(t *testing.T) {
	_, gw := newTestGateway(t)
	uc := NewSubscriptionUseCase(gw, nil, clock(fixedNow))
	user := seedUser(t, gw, "lapsed@example.com", "password123")
	_, _, err := gw.Subscriptions.CreateIfAbsent(context.Background(), &entities.Subscription{
		UserID:  user.ID,
		Status:  entities.SubscriptionExpired,
		EndDate: fixedNow.Add(-10 * 24 * time.Hour),
	})
	require.NoError(t, err)

	sub, err := uc.Renew(context.Background(), user.Email, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, entities.SubscriptionActive, sub.Status)
	assert.True(t, sub.EndDate.Equal(fixedNow.Add(24*time.Hour)))
}

func TestRenew_ActivePastEndExpiresFirst(t *testing.T) {
	store, gw := newTestGateway(t)
	m := metrics.New()
	uc := NewSubscriptionUseCase(gw, m, clock(fixedNow))
	user := seedUser(t, gw, "overdue@example.com", "password123")
	_, _, err := gw.Subscriptions.CreateIfAbsent(context.Background(), &entities.Subscription{
		UserID:  user.ID,
		Status:  entities.SubscriptionActive,
		EndDate: fixedNow.Add(-48 * time.Hour),
	})
	require.NoError(t, err)
	writes := store.SubscriptionWrites

	sub, err := uc.Renew(context.Background(), user.Email, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, entities.SubscriptionActive, sub.Status)
	assert.True(t, sub.EndDate.Equal(fixedNow.Add(24*time.Hour)))
	assert.Equal(t, writes+2, store.SubscriptionWrites)

	expected := `
# HELP budget_subscription_transitions_total Subscription status changes by source and target status.
# TYPE budget_subscription_transitions_total counter
budget_subscription_transitions_total{from="ACTIVE",to="EXPIRED"} 1
budget_subscription_transitions_total{from="EXPIRED",to="ACTIVE"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "budget_subscription_transitions_total"))
}

func TestSweepExpired(t *testing.T) {
	_, gw := newTestGateway(t)
	uc := NewSubscriptionUseCase(gw, metrics.New(), clock(fixedNow))
	for i, end := range []time.Duration{-time.Hour, -time.Minute, time.Hour} {
		user := seedUser(t, gw, string(rune('a'+i))+"@example.com", "password123")
		_, _, err := gw.Subscriptions.CreateIfAbsent(context.Background(), &entities.Subscription{
			UserID:  user.ID,
			Status:  entities.SubscriptionActive,
			EndDate: fixedNow.Add(end),
		})
		require.NoError(t, err)
	}

	n, err := uc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = uc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
