package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/RichardLoRicco/expense-agent/internal/dto"
	"github.com/RichardLoRicco/expense-agent/internal/models"

	"go.uber.org/zap"
)

// LedgerService implements the expense side of the tool contract:
// add-expense, get-expenses, and get-summary. It validates inputs, delegates
// persistence to the store, and performs the derived arithmetic (totals,
// percentages) the tools report.
type LedgerService struct {
	expenses ExpenseStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewLedgerService(expenses ExpenseStore, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		expenses: expenses,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *LedgerService) AddExpense(ctx context.Context, req dto.AddExpenseRequest) (*dto.AddExpenseResponse, error) {
	in, err := req.Validate()
	if err != nil {
		return nil, err
	}

	expenseDate := in.ExpenseDate
	if expenseDate.IsZero() {
		expenseDate = dateOnly(s.now())
	}

	expense := &models.Expense{
		Amount:      in.Amount,
		Vendor:      in.Vendor,
		Description: in.Description,
		Category:    in.Category,
		ExpenseDate: expenseDate,
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}

	s.logger.Info("Expense added",
		zap.String("vendor", expense.Vendor),
		zap.String("category", string(expense.Category)),
		zap.Float64("amount", expense.Amount),
	)

	return &dto.AddExpenseResponse{
		Success: true,
		Expense: dto.CreatedExpense{
			ID:          expense.ID.String(),
			Amount:      expense.Amount,
			Vendor:      expense.Vendor,
			Category:    string(expense.Category),
			ExpenseDate: expense.ExpenseDate.Format("2006-01-02"),
		},
		Message: fmt.Sprintf("Added $%.2f expense at %s (%s)", expense.Amount, expense.Vendor, expense.Category),
	}, nil
}

func (s *LedgerService) GetExpenses(ctx context.Context, req dto.GetExpensesRequest) (*dto.GetExpensesResponse, error) {
	filter, err := req.Validate()
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenses.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	records := make([]dto.ExpenseRecord, 0, len(expenses))
	var total float64
	for _, exp := range expenses {
		records = append(records, dto.NewExpenseRecord(exp))
		total += exp.Amount
	}

	return &dto.GetExpensesResponse{
		Expenses:    records,
		Count:       len(records),
		TotalAmount: total,
	}, nil
}

func (s *LedgerService) GetSummary(ctx context.Context, req dto.GetSummaryRequest) (*dto.GetSummaryResponse, error) {
	period, groupKey, err := req.Validate()
	if err != nil {
		return nil, err
	}

	rows, err := s.expenses.Summarize(ctx, period.WindowStart(s.now()), groupKey)
	if err != nil {
		return nil, err
	}

	var grandTotal float64
	for _, row := range rows {
		grandTotal += row.Total
	}

	items := make([]dto.SummaryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.SummaryItem{
			Name:       row.Name,
			Total:      row.Total,
			Count:      row.Count,
			Percentage: roundPercent(row.Total, grandTotal),
		})
	}

	return &dto.GetSummaryResponse{
		Summary: dto.SpendingSummary{
			GroupBy:    string(groupKey),
			Period:     string(period),
			GrandTotal: grandTotal,
			Items:      items,
		},
	}, nil
}

// roundPercent is round(100*part/whole) with 0/0 defined as 0.
func roundPercent(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(part / whole * 100))
}

// dateOnly strips the time component, keeping the caller's calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
