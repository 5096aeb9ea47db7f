package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"budget-server/common"
	"budget-server/entities"
)

type transactionRepo struct{ s *Store }

func (r *transactionRepo) ListByHousehold(_ context.Context, householdID string, from, to time.Time) ([]entities.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []entities.Transaction
	for _, t := range r.s.transactions {
		if t.HouseholdID == householdID && !t.OccurredOn.Before(from) && t.OccurredOn.Before(to) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredOn.Equal(out[j].OccurredOn) {
			return out[i].OccurredOn.After(out[j].OccurredOn)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *transactionRepo) Create(_ context.Context, transaction *entities.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.households[transaction.HouseholdID]; !ok {
		return fmt.Errorf("create transaction: unknown household %s", transaction.HouseholdID)
	}
	if transaction.ID == "" {
		transaction.ID = newID()
	}
	r.s.stamp(&transaction.CreatedAt, nil)
	r.s.transactions[transaction.ID] = *transaction
	return nil
}

func (r *transactionRepo) Delete(_ context.Context, id, householdID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.transactions[id]
	if !ok || t.HouseholdID != householdID {
		return fmt.Errorf("delete transaction: %w", common.ErrNotFound)
	}
	delete(r.s.transactions, id)
	return nil
}
