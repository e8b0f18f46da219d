package dto

import "github.com/RichardLoRicco/expense-agent/internal/models"

// SetBudgetRequest is the set-budget tool input.
type SetBudgetRequest struct {
	Category    string  `json:"category"`
	AmountLimit float64 `json:"amountLimit"`
	Period      string  `json:"period"` // weekly or monthly
}

type SetBudgetInput struct {
	Category    models.Category
	AmountLimit float64
	Period      models.BudgetPeriod
}

func (r SetBudgetRequest) Validate() (SetBudgetInput, error) {
	category, err := models.ParseCategory(r.Category)
	if err != nil {
		return SetBudgetInput{}, err
	}
	if r.AmountLimit <= 0 {
		return SetBudgetInput{}, models.NewValidationError("amountLimit", "must be positive")
	}
	period, err := models.ParseBudgetPeriod(r.Period)
	if err != nil {
		return SetBudgetInput{}, err
	}

	return SetBudgetInput{
		Category:    category,
		AmountLimit: roundToCents(r.AmountLimit),
		Period:      period,
	}, nil
}

type BudgetPayload struct {
	Category    string  `json:"category"`
	AmountLimit float64 `json:"amountLimit"`
	Period      string  `json:"period"`
}

type SetBudgetResponse struct {
	Success bool          `json:"success"`
	Budget  BudgetPayload `json:"budget"`
	Message string        `json:"message"`
}

// CheckBudgetRequest is the check-budget tool input; an empty category checks
// every budget.
type CheckBudgetRequest struct {
	Category string `json:"category,omitempty"`
}

// Validate returns the category filter, or "" when all budgets are in scope.
func (r CheckBudgetRequest) Validate() (models.Category, error) {
	if r.Category == "" {
		return "", nil
	}
	return models.ParseCategory(r.Category)
}

// BudgetStatus describes one budget's consumption within its current window.
type BudgetStatus struct {
	Category     string  `json:"category"`
	Limit        float64 `json:"limit"`
	Spent        float64 `json:"spent"`
	Remaining    float64 `json:"remaining"` // negative when over budget
	PercentUsed  int     `json:"percentUsed"`
	IsOverBudget bool    `json:"isOverBudget"` // strictly above the limit
	Period       string  `json:"period"`
}

type BudgetOverview struct {
	TotalBudgeted   float64 `json:"totalBudgeted"`
	TotalSpent      float64 `json:"totalSpent"`
	OverBudgetCount int     `json:"overBudgetCount"`
}

type CheckBudgetResponse struct {
	Budgets []BudgetStatus `json:"budgets"`
	Summary BudgetOverview `json:"summary"`
}
