package repositories

import (
	"context"
	"fmt"
	"time"

	"budget-server/common"
	"budget-server/db"
	"budget-server/entities"

	"gorm.io/gorm/clause"
)

type subscriptionPgRepository struct {
	db db.Database
}

func NewSubscriptionPgRepository(database db.Database) SubscriptionRepository {
	return &subscriptionPgRepository{db: database}
}

func (r *subscriptionPgRepository) GetByUserID(ctx context.Context, userID string) (*entities.Subscription, error) {
	var sub entities.Subscription
	if err := r.db.GetDB().WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, translateError("get subscription", err)
	}
	return &sub, nil
}

func (r *subscriptionPgRepository) CreateIfAbsent(ctx context.Context, sub *entities.Subscription) (*entities.Subscription, bool, error) {
	res := r.db.GetDB().WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(sub)
	if res.Error != nil {
		return nil, false, translateError("create subscription", res.Error)
	}
	stored, err := r.GetByUserID(ctx, sub.UserID)
	if err != nil {
		return nil, false, err
	}
	return stored, res.RowsAffected == 1, nil
}

func (r *subscriptionPgRepository) ExpireIfActive(ctx context.Context, id string, now time.Time) (bool, error) {
	res := r.db.GetDB().WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("id = ? AND status = ? AND end_date < ?", id, entities.SubscriptionActive, now).
		Updates(map[string]interface{}{"status": entities.SubscriptionExpired, "updated_at": now})
	if res.Error != nil {
		return false, translateError("expire subscription", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *subscriptionPgRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.GetDB().WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("status = ? AND end_date < ?", entities.SubscriptionActive, now).
		Updates(map[string]interface{}{"status": entities.SubscriptionExpired, "updated_at": now})
	if res.Error != nil {
		return 0, translateError("expire overdue subscriptions", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *subscriptionPgRepository) Renew(ctx context.Context, userID string, endDate time.Time) error {
	res := r.db.GetDB().WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"status":     entities.SubscriptionActive,
			"end_date":   endDate,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return translateError("renew subscription", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("renew subscription: %w", common.ErrNotFound)
	}
	return nil
}
