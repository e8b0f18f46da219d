package service

import (
	"context"
	"time"

	"github.com/RichardLoRicco/expense-agent/internal/models"
)

// ExpenseStore is the expense side of the ledger, implemented by
// repository.ExpenseRepository.
type ExpenseStore interface {
	Create(ctx context.Context, exp *models.Expense) error
	List(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, error)
	Summarize(ctx context.Context, since time.Time, key models.GroupKey) ([]models.SummaryRow, error)
	SpentSince(ctx context.Context, category models.Category, since time.Time) (float64, error)
}

// BudgetStore is the budget side of the ledger, implemented by
// repository.BudgetRepository.
type BudgetStore interface {
	Upsert(ctx context.Context, category models.Category, amountLimit float64, period models.BudgetPeriod) (*models.Budget, error)
	List(ctx context.Context) ([]*models.Budget, error)
}
