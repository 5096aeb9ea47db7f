package usecases

import (
	"testing"
	"time"

	"budget-server/cache"
	"budget-server/common"
	"budget-server/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionsAndSummary(t *testing.T) {
	_, gw := newTestGateway(t)
	spy := &spyRevalidator{}
	uc := NewTransactionUseCase(gw, cache.NewViewCache(0), spy, clock(fixedNow))
	owner := seedUser(t, gw, "owner@example.com", "password123")
	seedHousehold(t, gw, owner)
	ctx := sessionFor(owner)

	inputs := []TransactionInput{
		{Kind: "income", Amount: decimal.RequireFromString("3000"), Category: "Salary", OccurredOn: "2026-03-01"},
		{Kind: entities.KindExpense, Amount: decimal.RequireFromString("1200"), Category: "Rent", OccurredOn: "2026-03-02"},
		{Kind: entities.KindExpense, Amount: decimal.RequireFromString("80.25"), Category: "Food", OccurredOn: "2026-03-03"},
		{Kind: entities.KindExpense, Amount: decimal.RequireFromString("19.75"), Category: "Food"},
		{Kind: entities.KindExpense, Amount: decimal.RequireFromString("50"), Category: "Food", OccurredOn: "2026-02-27"},
	}
	for _, in := range inputs {
		_, err := uc.Create(ctx, in)
		require.NoError(t, err)
	}
	assert.Equal(t, len(inputs), spy.count())

	march, err := uc.List(ctx, "2026-03")
	require.NoError(t, err)
	require.Len(t, march, 4)
	assert.True(t, march[0].OccurredOn.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))

	summary, err := uc.Summary(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03", summary.Month)
	assert.True(t, summary.Income.Equal(decimal.NewFromInt(3000)))
	assert.True(t, summary.Expenses.Equal(decimal.NewFromInt(1300)))
	assert.True(t, summary.Net.Equal(decimal.NewFromInt(1700)))
	require.Len(t, summary.ByCategory, 2)
	assert.Equal(t, "Rent", summary.ByCategory[0].Category)
	assert.True(t, summary.ByCategory[1].Amount.Equal(decimal.NewFromInt(100)))
}

func TestTransactionValidationAndScope(t *testing.T) {
	_, gw := newTestGateway(t)
	uc := NewTransactionUseCase(gw, nil, nil, clock(fixedNow))
	alice := seedUser(t, gw, "alice@example.com", "password123")
	bob := seedUser(t, gw, "bob@example.com", "password123")
	seedHousehold(t, gw, alice)
	seedHousehold(t, gw, bob)

	cases := []TransactionInput{
		{Kind: "GIFT", Amount: decimal.NewFromInt(1), Category: "x"},
		{Kind: entities.KindIncome, Amount: decimal.Zero, Category: "x"},
		{Kind: entities.KindExpense, Amount: decimal.RequireFromString("1e13"), Category: "x"},
		{Kind: entities.KindIncome, Amount: decimal.NewFromInt(1)},
		{Kind: entities.KindIncome, Amount: decimal.NewFromInt(1), Category: "x", OccurredOn: "03/01/2026"},
	}
	for _, in := range cases {
		_, err := uc.Create(sessionFor(alice), in)
		assert.ErrorIs(t, err, common.ErrValidation)
	}

	tx, err := uc.Create(sessionFor(alice), TransactionInput{Kind: entities.KindIncome, Amount: decimal.NewFromInt(1), Category: "x"})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(sessionFor(bob), tx.ID), common.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(sessionFor(alice), "nonexistent-id"), common.ErrNotFound)
	require.NoError(t, uc.Delete(sessionFor(alice), tx.ID))

	_, err = uc.List(sessionFor(alice), "March")
	assert.ErrorIs(t, err, common.ErrValidation)
}
