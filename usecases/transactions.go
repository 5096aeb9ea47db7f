package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"budget-server/cache"
	"budget-server/common"
	"budget-server/entities"
	"budget-server/repositories"

	"github.com/shopspring/decimal"
)

const monthLayout = "2006-01"

type TransactionInput struct {
	Kind       entities.TransactionKind `json:"kind" validate:"required,oneof=INCOME EXPENSE"`
	Amount     decimal.Decimal          `json:"amount" validate:"gt=0,lte=999999999999.99"`
	Category   string                   `json:"category" validate:"required,max=50"`
	Note       string                   `json:"note" validate:"max=500"`
	OccurredOn string                   `json:"occurredOn" validate:"omitempty,datetime=2006-01-02"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthlySummary is the income and expense chart for one month.
type MonthlySummary struct {
	Month      string          `json:"month"`
	Income     decimal.Decimal `json:"income"`
	Expenses   decimal.Decimal `json:"expenses"`
	Net        decimal.Decimal `json:"net"`
	ByCategory []CategoryTotal `json:"byCategory"`
}

type TransactionUseCase struct {
	households   repositories.HouseholdRepository
	transactions repositories.TransactionRepository
	views        *cache.ViewCache
	revalidator  Revalidator
	now          func() time.Time
}

func NewTransactionUseCase(gw *repositories.Gateway, views *cache.ViewCache, revalidator Revalidator, now func() time.Time) *TransactionUseCase {
	if now == nil {
		now = time.Now
	}
	return &TransactionUseCase{
		households:   gw.Households,
		transactions: gw.Transactions,
		views:        views,
		revalidator:  orNoop(revalidator),
		now:          now,
	}
}

// monthRange parses "YYYY-MM" into a half-open UTC range. An empty month is
// the current one.
func (uc *TransactionUseCase) monthRange(month string) (string, time.Time, time.Time, error) {
	if month == "" {
		month = uc.now().UTC().Format(monthLayout)
	}
	from, err := time.Parse(monthLayout, month)
	if err != nil {
		return "", time.Time{}, time.Time{}, common.Validation("month must be in YYYY-MM format")
	}
	return month, from, from.AddDate(0, 1, 0), nil
}

// List returns the household's transactions for month, newest first.
func (uc *TransactionUseCase) List(ctx context.Context, month string) ([]entities.Transaction, error) {
	_, household, err := resolveHousehold(ctx, uc.households)
	if err != nil {
		return nil, err
	}
	month, from, to, err := uc.monthRange(month)
	if err != nil {
		return nil, err
	}
	return cache.Load(uc.views, household.ID, "transactions:"+month, func() ([]entities.Transaction, error) {
		return uc.list(ctx, household.ID, from, to)
	})
}

func (uc *TransactionUseCase) list(ctx context.Context, householdID string, from, to time.Time) ([]entities.Transaction, error) {
	transactions, err := uc.transactions.ListByHousehold(ctx, householdID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if transactions == nil {
		transactions = []entities.Transaction{}
	}
	return transactions, nil
}

// Create records income or an expense for the caller's household.
func (uc *TransactionUseCase) Create(ctx context.Context, input TransactionInput) (*entities.Transaction, error) {
	session, household, err := resolveHousehold(ctx, uc.households)
	if err != nil {
		return nil, err
	}
	input.Kind = entities.TransactionKind(strings.ToUpper(string(input.Kind)))
	input.Category = strings.TrimSpace(input.Category)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	occurredOn := uc.now().UTC().Truncate(24 * time.Hour)
	if input.OccurredOn != "" {
		occurredOn, _ = time.Parse(time.DateOnly, input.OccurredOn)
	}
	author := session.UserID
	transaction := &entities.Transaction{
		HouseholdID: household.ID,
		CreatedBy:   &author,
		Kind:        input.Kind,
		Amount:      input.Amount.Round(2),
		Category:    input.Category,
		Note:        input.Note,
		OccurredOn:  occurredOn,
	}
	if err := uc.transactions.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	uc.revalidator.Revalidate(household.ID, RootPath)
	return transaction, nil
}

// Delete removes a transaction owned by the caller's household.
func (uc *TransactionUseCase) Delete(ctx context.Context, id string) error {
	_, household, err := resolveHousehold(ctx, uc.households)
	if err != nil {
		return err
	}
	if !validID(id) {
		return common.NotFound("Transaction not found")
	}
	if err := uc.transactions.Delete(ctx, id, household.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NotFound("Transaction not found")
		}
		return fmt.Errorf("delete transaction: %w", err)
	}

	uc.revalidator.Revalidate(household.ID, RootPath)
	return nil
}

// Summary totals a month of transactions. Categories are expense categories
// ordered by amount, largest first.
func (uc *TransactionUseCase) Summary(ctx context.Context, month string) (*MonthlySummary, error) {
	_, household, err := resolveHousehold(ctx, uc.households)
	if err != nil {
		return nil, err
	}
	month, from, to, err := uc.monthRange(month)
	if err != nil {
		return nil, err
	}
	return cache.Load(uc.views, household.ID, "summary:"+month, func() (*MonthlySummary, error) {
		transactions, err := uc.list(ctx, household.ID, from, to)
		if err != nil {
			return nil, err
		}
		return summarize(month, transactions), nil
	})
}

func summarize(month string, transactions []entities.Transaction) *MonthlySummary {
	s := &MonthlySummary{Month: month, Income: decimal.Zero, Expenses: decimal.Zero, ByCategory: []CategoryTotal{}}
	byCategory := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		switch t.Kind {
		case entities.KindIncome:
			s.Income = s.Income.Add(t.Amount)
		case entities.KindExpense:
			s.Expenses = s.Expenses.Add(t.Amount)
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
		}
	}
	s.Net = s.Income.Sub(s.Expenses)
	for category, amount := range byCategory {
		s.ByCategory = append(s.ByCategory, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		if !s.ByCategory[i].Amount.Equal(s.ByCategory[j].Amount) {
			return s.ByCategory[i].Amount.GreaterThan(s.ByCategory[j].Amount)
		}
		return s.ByCategory[i].Category < s.ByCategory[j].Category
	})
	return s
}
