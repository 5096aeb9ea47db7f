package memory

import (
	"context"
	"fmt"
	"sort"

	"budget-server/common"
	"budget-server/entities"
)

type envelopeRepo struct{ s *Store }

func (r *envelopeRepo) ListByHousehold(_ context.Context, householdID string) ([]entities.InvestmentEnvelope, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []entities.InvestmentEnvelope
	for _, e := range r.s.envelopes {
		if e.HouseholdID == householdID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *envelopeRepo) NextOrder(_ context.Context, householdID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	next := 0
	for _, e := range r.s.envelopes {
		if e.HouseholdID == householdID && e.Order >= next {
			next = e.Order + 1
		}
	}
	return next, nil
}

func (r *envelopeRepo) Create(_ context.Context, envelope *entities.InvestmentEnvelope) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.households[envelope.HouseholdID]; !ok {
		return fmt.Errorf("create envelope: unknown household %s", envelope.HouseholdID)
	}
	if envelope.ID == "" {
		envelope.ID = newID()
	}
	if envelope.Version == 0 {
		envelope.Version = 1
	}
	r.s.stamp(&envelope.CreatedAt, &envelope.UpdatedAt)
	r.s.envelopes[envelope.ID] = *envelope
	return nil
}

func (r *envelopeRepo) FindForHousehold(_ context.Context, id, householdID string) (*entities.InvestmentEnvelope, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.envelopes[id]
	if !ok || e.HouseholdID != householdID {
		return nil, fmt.Errorf("find envelope: %w", common.ErrNotFound)
	}
	return &e, nil
}

func (r *envelopeRepo) Delete(_ context.Context, id, householdID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.envelopes[id]
	if !ok || e.HouseholdID != householdID {
		return fmt.Errorf("delete envelope: %w", common.ErrNotFound)
	}
	delete(r.s.envelopes, id)
	return nil
}

func (r *envelopeRepo) Reorder(_ context.Context, householdID string, positions []entities.EnvelopePosition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range positions {
		e, ok := r.s.envelopes[p.ID]
		if !ok || e.HouseholdID != householdID || e.Version != p.Version {
			return fmt.Errorf("reorder envelope %s: %w", p.ID, common.ErrConflict)
		}
	}
	now := r.s.now()
	for _, p := range positions {
		e := r.s.envelopes[p.ID]
		e.Order = p.Order
		e.Version++
		e.UpdatedAt = now
		r.s.envelopes[p.ID] = e
	}
	return nil
}
