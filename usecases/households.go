package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budget-server/common"
	"budget-server/entities"
	"budget-server/repositories"
)

type HouseholdInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

type MemberInput struct {
	Email string `json:"email" validate:"required,email"`
}

type HouseholdUseCase struct {
	users       repositories.UserRepository
	households  repositories.HouseholdRepository
	revalidator Revalidator
}

func NewHouseholdUseCase(gw *repositories.Gateway, revalidator Revalidator) *HouseholdUseCase {
	return &HouseholdUseCase{
		users:       gw.Users,
		households:  gw.Households,
		revalidator: orNoop(revalidator),
	}
}

// Create makes the caller the owner of a new household.
func (uc *HouseholdUseCase) Create(ctx context.Context, input HouseholdInput) (*entities.Household, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	_, err = uc.households.GetByUserID(ctx, session.UserID)
	if err == nil {
		return nil, common.Validation("You already belong to a household")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("load household: %w", err)
	}

	household := &entities.Household{Name: input.Name}
	if err := uc.households.Create(ctx, household, session.UserID); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.Validation("You already belong to a household")
		}
		return nil, fmt.Errorf("create household: %w", err)
	}
	return household, nil
}

// Current returns the caller's household with its members.
func (uc *HouseholdUseCase) Current(ctx context.Context) (*entities.Household, error) {
	_, household, err := resolveHousehold(ctx, uc.households)
	return household, err
}

// AddMember adds an existing account without a household to the caller's
// household.
func (uc *HouseholdUseCase) AddMember(ctx context.Context, input MemberInput) (*entities.Household, error) {
	_, household, err := resolveHousehold(ctx, uc.households)
	if err != nil {
		return nil, err
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user, err := uc.users.GetByEmail(ctx, input.Email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := uc.households.AddMember(ctx, household.ID, user.ID, entities.RoleMember); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.Validation("User already belongs to a household")
		}
		return nil, fmt.Errorf("add member: %w", err)
	}

	uc.revalidator.Revalidate(household.ID, RootPath)
	return uc.Current(ctx)
}
