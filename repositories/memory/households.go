package memory

import (
	"context"
	"fmt"
	"sort"

	"budget-server/common"
	"budget-server/entities"
)

type householdRepo struct{ s *Store }

func (r *householdRepo) Create(_ context.Context, household *entities.Household, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.members[ownerID]; ok {
		return fmt.Errorf("add household owner: household_members_user_id_key: %w", common.ErrConflict)
	}
	if household.ID == "" {
		household.ID = newID()
	}
	r.s.stamp(&household.CreatedAt, &household.UpdatedAt)
	member := entities.HouseholdMember{HouseholdID: household.ID, UserID: ownerID, Role: entities.RoleOwner, CreatedAt: r.s.now()}

	stored := *household
	stored.Members = nil
	r.s.households[household.ID] = stored
	r.s.members[ownerID] = member
	household.Members = []entities.HouseholdMember{member}
	return nil
}

func (r *householdRepo) GetByUserID(_ context.Context, userID string) (*entities.Household, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	member, ok := r.s.members[userID]
	if !ok {
		return nil, fmt.Errorf("get household: %w", common.ErrNotFound)
	}
	household, ok := r.s.households[member.HouseholdID]
	if !ok {
		return nil, fmt.Errorf("get household: %w", common.ErrNotFound)
	}
	for _, m := range r.s.members {
		if m.HouseholdID == household.ID {
			household.Members = append(household.Members, m)
		}
	}
	sort.Slice(household.Members, func(i, j int) bool {
		return household.Members[i].CreatedAt.Before(household.Members[j].CreatedAt)
	})
	return &household, nil
}

func (r *householdRepo) AddMember(_ context.Context, householdID, userID, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.households[householdID]; !ok {
		return fmt.Errorf("add household member: %w", common.ErrNotFound)
	}
	if _, ok := r.s.members[userID]; ok {
		return fmt.Errorf("add household member: household_members_user_id_key: %w", common.ErrConflict)
	}
	r.s.members[userID] = entities.HouseholdMember{HouseholdID: householdID, UserID: userID, Role: role, CreatedAt: r.s.now()}
	return nil
}
