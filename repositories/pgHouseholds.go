package repositories

import (
	"context"

	"budget-server/db"
	"budget-server/entities"

	"gorm.io/gorm"
)

type householdPgRepository struct {
	db db.Database
}

func NewHouseholdPgRepository(database db.Database) HouseholdRepository {
	return &householdPgRepository{db: database}
}

func (r *householdPgRepository) Create(ctx context.Context, household *entities.Household, ownerID string) error {
	return r.db.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Create(household).Error; err != nil {
			return translateError("create household", err)
		}
		member := entities.HouseholdMember{HouseholdID: household.ID, UserID: ownerID, Role: entities.RoleOwner}
		if err := tx.Create(&member).Error; err != nil {
			return translateError("add household owner", err)
		}
		household.Members = []entities.HouseholdMember{member}
		return nil
	})
}

func (r *householdPgRepository) GetByUserID(ctx context.Context, userID string) (*entities.Household, error) {
	var household entities.Household
	err := r.db.GetDB().WithContext(ctx).
		Preload("Members").
		Joins("JOIN household_members ON household_members.household_id = households.id").
		Where("household_members.user_id = ?", userID).
		First(&household).Error
	if err != nil {
		return nil, translateError("get household", err)
	}
	return &household, nil
}

func (r *householdPgRepository) AddMember(ctx context.Context, householdID, userID, role string) error {
	member := entities.HouseholdMember{HouseholdID: householdID, UserID: userID, Role: role}
	return translateError("add household member", r.db.GetDB().WithContext(ctx).Create(&member).Error)
}
