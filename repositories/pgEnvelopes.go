package repositories

import (
	"context"
	"fmt"
	"time"

	"budget-server/common"
	"budget-server/db"
	"budget-server/entities"

	"gorm.io/gorm"
)

type envelopePgRepository struct {
	db db.Database
}

func NewEnvelopePgRepository(database db.Database) EnvelopeRepository {
	return &envelopePgRepository{db: database}
}

func (r *envelopePgRepository) ListByHousehold(ctx context.Context, householdID string) ([]entities.InvestmentEnvelope, error) {
	var envelopes []entities.InvestmentEnvelope
	err := r.db.GetDB().WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("display_order ASC").
		Order("created_at ASC").
		Find(&envelopes).Error
	if err != nil {
		return nil, translateError("list envelopes", err)
	}
	return envelopes, nil
}

func (r *envelopePgRepository) NextOrder(ctx context.Context, householdID string) (int, error) {
	var next int
	err := r.db.GetDB().WithContext(ctx).
		Model(&entities.InvestmentEnvelope{}).
		Select("COALESCE(MAX(display_order) + 1, 0)").
		Where("household_id = ?", householdID).
		Scan(&next).Error
	if err != nil {
		return 0, translateError("next envelope order", err)
	}
	return next, nil
}

func (r *envelopePgRepository) Create(ctx context.Context, envelope *entities.InvestmentEnvelope) error {
	return translateError("create envelope", r.db.GetDB().WithContext(ctx).Create(envelope).Error)
}

func (r *envelopePgRepository) FindForHousehold(ctx context.Context, id, householdID string) (*entities.InvestmentEnvelope, error) {
	var envelope entities.InvestmentEnvelope
	err := r.db.GetDB().WithContext(ctx).
		Where("id = ? AND household_id = ?", id, householdID).
		First(&envelope).Error
	if err != nil {
		return nil, translateError("find envelope", err)
	}
	return &envelope, nil
}

func (r *envelopePgRepository) Delete(ctx context.Context, id, householdID string) error {
	res := r.db.GetDB().WithContext(ctx).
		Where("id = ? AND household_id = ?", id, householdID).
		Delete(&entities.InvestmentEnvelope{})
	if res.Error != nil {
		return translateError("delete envelope", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete envelope: %w", common.ErrNotFound)
	}
	return nil
}

// Reorder applies every position or none. A position whose version no longer
// matches the stored row aborts the whole batch with common.ErrConflict.
func (r *envelopePgRepository) Reorder(ctx context.Context, householdID string, positions []entities.EnvelopePosition) error {
	now := time.Now()
	return r.db.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range positions {
			res := tx.Model(&entities.InvestmentEnvelope{}).
				Where("id = ? AND household_id = ? AND version = ?", p.ID, householdID, p.Version).
				Updates(map[string]interface{}{
					"display_order": p.Order,
					"version":       gorm.Expr("version + 1"),
					"updated_at":    now,
				})
			if res.Error != nil {
				return translateError("reorder envelopes", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("reorder envelope %s: %w", p.ID, common.ErrConflict)
			}
		}
		return nil
	})
}
