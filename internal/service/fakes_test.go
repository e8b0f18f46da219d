package service

import (
	"context"
	"time"

	"github.com/RichardLoRicco/expense-agent/internal/models"

	"github.com/google/uuid"
)

var testNow = time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type fakeExpenseStore struct {
	createErr error
	created   []*models.Expense

	listResult []*models.Expense
	listErr    error
	lastFilter models.ExpenseFilter

	summaryResult []models.SummaryRow
	lastSince     time.Time
	lastKey       models.GroupKey

	spent      map[models.Category]float64
	spentSince map[models.Category]time.Time
}

func (f *fakeExpenseStore) Create(_ context.Context, exp *models.Expense) error {
	if f.createErr != nil {
		return f.createErr
	}
	if exp.ID == uuid.Nil {
		exp.ID = uuid.New()
	}
	exp.CreatedAt = testNow
	f.created = append(f.created, exp)
	return nil
}

func (f *fakeExpenseStore) List(_ context.Context, filter models.ExpenseFilter) ([]*models.Expense, error) {
	f.lastFilter = filter
	return f.listResult, f.listErr
}

func (f *fakeExpenseStore) Summarize(_ context.Context, since time.Time, key models.GroupKey) ([]models.SummaryRow, error) {
	f.lastSince = since
	f.lastKey = key
	return f.summaryResult, nil
}

func (f *fakeExpenseStore) SpentSince(_ context.Context, category models.Category, since time.Time) (float64, error) {
	if f.spentSince == nil {
		f.spentSince = make(map[models.Category]time.Time)
	}
	f.spentSince[category] = since
	return f.spent[category], nil
}

type fakeBudgetStore struct {
	budgets  []*models.Budget
	upserted []*models.Budget
}

func (f *fakeBudgetStore) Upsert(_ context.Context, category models.Category, amountLimit float64, period models.BudgetPeriod) (*models.Budget, error) {
	budget := &models.Budget{
		ID:          uuid.New(),
		Category:    category,
		AmountLimit: amountLimit,
		Period:      period,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	f.upserted = append(f.upserted, budget)
	return budget, nil
}

func (f *fakeBudgetStore) List(_ context.Context) ([]*models.Budget, error) {
	return f.budgets, nil
}

func budgetFor(category models.Category, limit float64, period models.BudgetPeriod) *models.Budget {
	return &models.Budget{
		ID:          uuid.New(),
		Category:    category,
		AmountLimit: limit,
		Period:      period,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
}
