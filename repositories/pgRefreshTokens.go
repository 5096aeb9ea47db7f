package repositories

import (
	"context"
	"fmt"

	"budget-server/common"
	"budget-server/db"
	"budget-server/entities"

	"gorm.io/gorm"
)

type refreshTokenPgRepository struct {
	db db.Database
}

func NewRefreshTokenPgRepository(database db.Database) RefreshTokenRepository {
	return &refreshTokenPgRepository{db: database}
}

func (r *refreshTokenPgRepository) Create(ctx context.Context, token *entities.RefreshToken) error {
	return translateError("create refresh token", r.db.GetDB().WithContext(ctx).Create(token).Error)
}

func (r *refreshTokenPgRepository) Find(ctx context.Context, token string) (*entities.RefreshToken, error) {
	var rt entities.RefreshToken
	if err := r.db.GetDB().WithContext(ctx).Where("token = ?", token).First(&rt).Error; err != nil {
		return nil, translateError("find refresh token", err)
	}
	return &rt, nil
}

func (r *refreshTokenPgRepository) Rotate(ctx context.Context, old string, next *entities.RefreshToken) error {
	return r.db.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("token = ?", old).Delete(&entities.RefreshToken{})
		if res.Error != nil {
			return translateError("consume refresh token", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("consume refresh token: %w", common.ErrNotFound)
		}
		return translateError("store refresh token", tx.Create(next).Error)
	})
}

func (r *refreshTokenPgRepository) Delete(ctx context.Context, token string) error {
	return translateError("delete refresh token", r.db.GetDB().WithContext(ctx).Where("token = ?", token).Delete(&entities.RefreshToken{}).Error)
}
