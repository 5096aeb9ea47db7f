package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budget-server/cache"
	"budget-server/common"
	"budget-server/entities"
	"budget-server/repositories"

	"github.com/shopspring/decimal"
)

const envelopesView = "envelopes"

// EnvelopeInput is the client-supplied part of a new envelope.
type EnvelopeInput struct {
	Name          string          `json:"name" validate:"required,max=100"`
	Description   string          `json:"description" validate:"max=500"`
	TargetAmount  decimal.Decimal `json:"targetAmount" validate:"gte=0,lte=999999999999.99"`
	CurrentAmount decimal.Decimal `json:"currentAmount" validate:"gte=0,lte=999999999999.99"`
	Color         string          `json:"color" validate:"omitempty,hexcolor"`
	Order         *int            `json:"order" validate:"omitempty,gte=0"`
}

// envelopeSchema is the input merged with the caller's household, checked
// as a whole before anything is persisted.
type envelopeSchema struct {
	HouseholdID string `json:"householdId" validate:"required,uuid"`
	EnvelopeInput
}

type EnvelopeUseCase struct {
	households  repositories.HouseholdRepository
	envelopes   repositories.EnvelopeRepository
	views       *cache.ViewCache
	revalidator Revalidator
}

func NewEnvelopeUseCase(gw *repositories.Gateway, views *cache.ViewCache, revalidator Revalidator) *EnvelopeUseCase {
	return &EnvelopeUseCase{
		households:  gw.Households,
		envelopes:   gw.Envelopes,
		views:       views,
		revalidator: orNoop(revalidator),
	}
}

// GetEnvelopes returns the caller's household envelopes in display order.
func (uc *EnvelopeUseCase) GetEnvelopes(ctx context.Context) ([]entities.InvestmentEnvelope, error) {
	_, household, err := resolveHousehold(ctx, uc.households)
	if err != nil {
		return nil, err
	}
	return cache.Load(uc.views, household.ID, envelopesView, func() ([]entities.InvestmentEnvelope, error) {
		envelopes, err := uc.envelopes.ListByHousehold(ctx, household.ID)
		if err != nil {
			return nil, fmt.Errorf("list envelopes: %w", err)
		}
		if envelopes == nil {
			envelopes = []entities.InvestmentEnvelope{}
		}
		return envelopes, nil
	})
}

// CreateEnvelope validates input for the caller's household and stores it.
// Without an explicit order the envelope goes last.
func (uc *EnvelopeUseCase) CreateEnvelope(ctx context.Context, input EnvelopeInput) (*entities.InvestmentEnvelope, error) {
	_, household, err := resolveHousehold(ctx, uc.households)
	if err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	schema := envelopeSchema{HouseholdID: household.ID, EnvelopeInput: input}
	if err := validateInput(schema); err != nil {
		return nil, err
	}

	order := 0
	if input.Order != nil {
		order = *input.Order
	} else if order, err = uc.envelopes.NextOrder(ctx, household.ID); err != nil {
		return nil, fmt.Errorf("next envelope order: %w", err)
	}

	envelope := &entities.InvestmentEnvelope{
		HouseholdID:   schema.HouseholdID,
		Name:          input.Name,
		Description:   input.Description,
		TargetAmount:  input.TargetAmount.Round(2),
		CurrentAmount: input.CurrentAmount.Round(2),
		Color:         input.Color,
		Order:         order,
		Version:       1,
	}
	if err := uc.envelopes.Create(ctx, envelope); err != nil {
		return nil, fmt.Errorf("create envelope: %w", err)
	}

	uc.revalidator.Revalidate(household.ID, RootPath)
	return envelope, nil
}

// DeleteEnvelope removes an envelope owned by the caller's household. An
// envelope of another household is reported as not found.
func (uc *EnvelopeUseCase) DeleteEnvelope(ctx context.Context, id string) error {
	_, household, err := resolveHousehold(ctx, uc.households)
	if err != nil {
		return err
	}
	if !validID(id) {
		return common.NotFound("Envelope not found")
	}

	if _, err := uc.envelopes.FindForHousehold(ctx, id, household.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NotFound("Envelope not found")
		}
		return fmt.Errorf("find envelope: %w", err)
	}
	if err := uc.envelopes.Delete(ctx, id, household.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NotFound("Envelope not found")
		}
		return fmt.Errorf("delete envelope: %w", err)
	}

	uc.revalidator.Revalidate(household.ID, RootPath)
	return nil
}

type reorderInput struct {
	Positions []entities.EnvelopePosition `json:"positions" validate:"required,min=1,unique=ID,dive"`
}

// ReorderEnvelopes applies new display positions. Every position carries the
// version the client last saw; a stale version fails the whole batch.
func (uc *EnvelopeUseCase) ReorderEnvelopes(ctx context.Context, positions []entities.EnvelopePosition) ([]entities.InvestmentEnvelope, error) {
	_, household, err := resolveHousehold(ctx, uc.households)
	if err != nil {
		return nil, err
	}
	if err := validateInput(reorderInput{Positions: positions}); err != nil {
		return nil, err
	}
	for _, p := range positions {
		if !validID(p.ID) {
			return nil, common.NotFound("Envelope not found")
		}
	}

	if err := uc.envelopes.Reorder(ctx, household.ID, positions); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.Conflict("Envelopes changed since they were loaded; refresh and try again")
		}
		return nil, fmt.Errorf("reorder envelopes: %w", err)
	}

	uc.revalidator.Revalidate(household.ID, RootPath)
	return uc.GetEnvelopes(ctx)
}
