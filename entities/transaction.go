package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionKind string

const (
	KindIncome  TransactionKind = "INCOME"
	KindExpense TransactionKind = "EXPENSE"
)

// Transaction is a single income or expense record of a household.
type Transaction struct {
	ID          string          `gorm:"primaryKey;type:uuid" json:"id"`
	HouseholdID string          `gorm:"index;type:uuid;not null" json:"householdId"`
	CreatedBy   *string         `gorm:"type:uuid" json:"createdBy"`
	Kind        TransactionKind `gorm:"not null" json:"kind"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Category    string          `json:"category"`
	Note        string          `json:"note"`
	OccurredOn  time.Time       `gorm:"index" json:"occurredOn"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
