package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budget-server/common"
	"budget-server/db"
	"budget-server/entities"

	"gorm.io/gorm"
)

type userPgRepository struct {
	db db.Database
}

func NewUserPgRepository(database db.Database) UserRepository {
	return &userPgRepository{db: database}
}

func (r *userPgRepository) Create(ctx context.Context, user *entities.User) error {
	return translateError("create user", r.db.GetDB().WithContext(ctx).Create(user).Error)
}

func (r *userPgRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError("get user", err)
	}
	return &user, nil
}

func (r *userPgRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.GetDB().WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError("get user by email", err)
	}
	return &user, nil
}

func (r *userPgRepository) UpdatePhone(ctx context.Context, email, phoneNumber string) (*entities.User, error) {
	res := r.db.GetDB().WithContext(ctx).
		Model(&entities.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{"phone_number": phoneNumber, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, translateError("update phone", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update phone: %w", common.ErrNotFound)
	}
	return r.GetByEmail(ctx, email)
}

func (r *userPgRepository) MarkEmailVerified(ctx context.Context, id string, at time.Time) error {
	res := r.db.GetDB().WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ? AND email_verified IS NULL", id).
		Updates(map[string]interface{}{"email_verified": at, "updated_at": at})
	if res.Error != nil {
		return translateError("verify email", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("verify email: %w", common.ErrConflict)
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for memberships, subscriptions and
// refresh tokens, then drops households that no longer have members.
func (r *userPgRepository) Delete(ctx context.Context, id string) error {
	return r.db.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member entities.HouseholdMember
		err := tx.Where("user_id = ?", id).First(&member).Error
		hasHousehold := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return translateError("delete user", err)
		}

		res := tx.Where("id = ?", id).Delete(&entities.User{})
		if res.Error != nil {
			return translateError("delete user", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete user: %w", common.ErrNotFound)
		}

		if !hasHousehold {
			return nil
		}
		var remaining int64
		if err := tx.Model(&entities.HouseholdMember{}).Where("household_id = ?", member.HouseholdID).Count(&remaining).Error; err != nil {
			return translateError("count household members", err)
		}
		if remaining == 0 {
			if err := tx.Where("id = ?", member.HouseholdID).Delete(&entities.Household{}).Error; err != nil {
				return translateError("delete empty household", err)
			}
		}
		return nil
	})
}
