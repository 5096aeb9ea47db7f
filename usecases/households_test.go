package usecases

import (
	"context"
	"testing"

	"budget-server/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHouseholds(t *testing.T) {
	_, gw := newTestGateway(t)
	uc := NewHouseholdUseCase(gw, nil)
	owner := seedUser(t, gw, "owner@example.com", "password123")
	partner := seedUser(t, gw, "partner@example.com", "password123")

	_, err := uc.Create(context.Background(), HouseholdInput{Name: "Home"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = uc.Current(sessionFor(owner))
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = uc.Create(sessionFor(owner), HouseholdInput{Name: " "})
	assert.ErrorIs(t, err, common.ErrValidation)

	household, err := uc.Create(sessionFor(owner), HouseholdInput{Name: "Home"})
	require.NoError(t, err)
	_, err = uc.Create(sessionFor(owner), HouseholdInput{Name: "Second"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = uc.AddMember(sessionFor(owner), MemberInput{Email: "ghost@example.com"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	updated, err := uc.AddMember(sessionFor(owner), MemberInput{Email: "Partner@example.com"})
	require.NoError(t, err)
	assert.Equal(t, household.ID, updated.ID)
	assert.Len(t, updated.Members, 2)

	_, err = uc.AddMember(sessionFor(owner), MemberInput{Email: partner.Email})
	assert.ErrorIs(t, err, common.ErrValidation)

	current, err := uc.Current(sessionFor(partner))
	require.NoError(t, err)
	assert.Equal(t, household.ID, current.ID)
}
