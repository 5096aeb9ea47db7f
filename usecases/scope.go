package usecases

import (
	"context"
	"errors"
	"fmt"

	"budget-server/auth"
	"budget-server/common"
	"budget-server/entities"
	"budget-server/repositories"

	"github.com/google/uuid"
)

// RootPath is the view every household write invalidates.
const RootPath = "/"

// Revalidator invalidates cached views of a household after a write.
type Revalidator interface {
	Revalidate(householdID, path string)
}

type noopRevalidator struct{}

func (noopRevalidator) Revalidate(string, string) {}

func orNoop(r Revalidator) Revalidator {
	if r == nil {
		return noopRevalidator{}
	}
	return r
}

// requireSession fails with Unauthorized when ctx carries no identity.
func requireSession(ctx context.Context) (auth.Session, error) {
	session, ok := auth.SessionFrom(ctx)
	if !ok {
		return auth.Session{}, common.Unauthorized("Unauthorized")
	}
	return session, nil
}

// resolveHousehold resolves the caller and the household it belongs to.
// Both must succeed before any household-scoped read or write.
func resolveHousehold(ctx context.Context, households repositories.HouseholdRepository) (auth.Session, *entities.Household, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return auth.Session{}, nil, err
	}
	household, err := households.GetByUserID(ctx, session.UserID)
	if errors.Is(err, common.ErrNotFound) {
		return auth.Session{}, nil, common.Unauthorized("No household found")
	}
	if err != nil {
		return auth.Session{}, nil, fmt.Errorf("resolve household: %w", err)
	}
	return session, household, nil
}

// validID rejects ids that cannot exist so they fail as not found instead of
// reaching the database.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
