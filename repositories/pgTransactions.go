package repositories

import (
	"context"
	"fmt"
	"time"

	"budget-server/common"
	"budget-server/db"
	"budget-server/entities"
)

type transactionPgRepository struct {
	db db.Database
}

func NewTransactionPgRepository(database db.Database) TransactionRepository {
	return &transactionPgRepository{db: database}
}

func (r *transactionPgRepository) ListByHousehold(ctx context.Context, householdID string, from, to time.Time) ([]entities.Transaction, error) {
	var transactions []entities.Transaction
	err := r.db.GetDB().WithContext(ctx).
		Where("household_id = ? AND occurred_on >= ? AND occurred_on < ?", householdID, from, to).
		Order("occurred_on DESC").
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, translateError("list transactions", err)
	}
	return transactions, nil
}

func (r *transactionPgRepository) Create(ctx context.Context, transaction *entities.Transaction) error {
	return translateError("create transaction", r.db.GetDB().WithContext(ctx).Create(transaction).Error)
}

func (r *transactionPgRepository) Delete(ctx context.Context, id, householdID string) error {
	res := r.db.GetDB().WithContext(ctx).
		Where("id = ? AND household_id = ?", id, householdID).
		Delete(&entities.Transaction{})
	if res.Error != nil {
		return translateError("delete transaction", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete transaction: %w", common.ErrNotFound)
	}
	return nil
}
