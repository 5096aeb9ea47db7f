package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvestmentEnvelope is a named allocation bucket owned by one household.
// Order defines list ordering; Version guards concurrent reorders.
type InvestmentEnvelope struct {
	ID            string          `gorm:"primaryKey;type:uuid" json:"id"`
	HouseholdID   string          `gorm:"index;type:uuid;not null" json:"householdId"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `json:"description"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(14,2)" json:"targetAmount"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(14,2)" json:"currentAmount"`
	Color         string          `json:"color"`
	Order         int             `gorm:"column:display_order;not null" json:"order"`
	Version       int             `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (e *InvestmentEnvelope) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Version == 0 {
		e.Version = 1
	}
	return nil
}

// EnvelopePosition is one entry of a reorder request. Version must match the
// stored version for the write to apply.
type EnvelopePosition struct {
	ID      string `json:"id" validate:"required"`
	Order   int    `json:"order" validate:"gte=0"`
	Version int    `json:"version" validate:"gte=1"`
}
