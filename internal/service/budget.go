package service

import (
	"context"
	"fmt"
	"time"

	"github.com/RichardLoRicco/expense-agent/internal/dto"

	"go.uber.org/zap"
)

// BudgetService implements the budget side of the tool contract: set-budget
// and check-budget.
type BudgetService struct {
	budgets  BudgetStore
	expenses ExpenseStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewBudgetService(budgets BudgetStore, expenses ExpenseStore, logger *zap.Logger) *BudgetService {
	return &BudgetService{
		budgets:  budgets,
		expenses: expenses,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *BudgetService) SetBudget(ctx context.Context, req dto.SetBudgetRequest) (*dto.SetBudgetResponse, error) {
	in, err := req.Validate()
	if err != nil {
		return nil, err
	}

	budget, err := s.budgets.Upsert(ctx, in.Category, in.AmountLimit, in.Period)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Budget set",
		zap.String("category", string(budget.Category)),
		zap.Float64("limit", budget.AmountLimit),
		zap.String("period", string(budget.Period)),
	)

	return &dto.SetBudgetResponse{
		Success: true,
		Budget: dto.BudgetPayload{
			Category:    string(budget.Category),
			AmountLimit: budget.AmountLimit,
			Period:      string(budget.Period),
		},
		Message: fmt.Sprintf("Set %s budget of $%.2f for %s", budget.Period, budget.AmountLimit, budget.Category),
	}, nil
}

// CheckBudget reports spending against limits for all budgets, or one
// category when the request names it. An empty scope (no budgets at all, or
// no budget for the named category) returns an empty result with zero
// totals, not an error.
func (s *BudgetService) CheckBudget(ctx context.Context, req dto.CheckBudgetRequest) (*dto.CheckBudgetResponse, error) {
	categoryFilter, err := req.Validate()
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgets.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	statuses := make([]dto.BudgetStatus, 0, len(budgets))
	var overview dto.BudgetOverview

	for _, budget := range budgets {
		if categoryFilter != "" && budget.Category != categoryFilter {
			continue
		}

		spent, err := s.expenses.SpentSince(ctx, budget.Category, budget.Period.WindowStart(now))
		if err != nil {
			return nil, err
		}

		// Spending exactly at the limit is not over budget.
		overBudget := spent > budget.AmountLimit
		statuses = append(statuses, dto.BudgetStatus{
			Category:     string(budget.Category),
			Limit:        budget.AmountLimit,
			Spent:        spent,
			Remaining:    budget.AmountLimit - spent,
			PercentUsed:  roundPercent(spent, budget.AmountLimit),
			IsOverBudget: overBudget,
			Period:       string(budget.Period),
		})

		overview.TotalBudgeted += budget.AmountLimit
		overview.TotalSpent += spent
		if overBudget {
			overview.OverBudgetCount++
		}
	}

	return &dto.CheckBudgetResponse{
		Budgets: statuses,
		Summary: overview,
	}, nil
}
