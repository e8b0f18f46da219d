package dto

import (
	"math"
	"strings"
	"time"

	"github.com/RichardLoRicco/expense-agent/internal/models"
)

const dateLayout = "2006-01-02"

// AddExpenseRequest is the add-expense tool input.
type AddExpenseRequest struct {
	Amount      float64 `json:"amount"`
	Vendor      string  `json:"vendor"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ExpenseDate string  `json:"expenseDate,omitempty"` // YYYY-MM-DD, defaults to today
}

// AddExpenseInput is the validated form of AddExpenseRequest. ExpenseDate is
// zero when the caller omitted it; the service substitutes its clock's today.
type AddExpenseInput struct {
	Amount      float64
	Vendor      string
	Description string
	Category    models.Category
	ExpenseDate time.Time
}

func (r AddExpenseRequest) Validate() (AddExpenseInput, error) {
	if r.Amount <= 0 {
		return AddExpenseInput{}, models.NewValidationError("amount", "must be positive")
	}
	vendor := strings.TrimSpace(r.Vendor)
	if vendor == "" {
		return AddExpenseInput{}, models.NewValidationError("vendor", "must not be empty")
	}
	category, err := models.ParseCategory(r.Category)
	if err != nil {
		return AddExpenseInput{}, err
	}

	var expenseDate time.Time
	if r.ExpenseDate != "" {
		expenseDate, err = parseDate("expenseDate", r.ExpenseDate)
		if err != nil {
			return AddExpenseInput{}, err
		}
	}

	return AddExpenseInput{
		Amount:      roundToCents(r.Amount),
		Vendor:      vendor,
		Description: r.Description,
		Category:    category,
		ExpenseDate: expenseDate,
	}, nil
}

// CreatedExpense is the public shape of a freshly added expense.
type CreatedExpense struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Vendor      string  `json:"vendor"`
	Category    string  `json:"category"`
	ExpenseDate string  `json:"expenseDate"`
}

type AddExpenseResponse struct {
	Success bool           `json:"success"`
	Expense CreatedExpense `json:"expense"`
	Message string         `json:"message"`
}

// GetExpensesRequest is the get-expenses tool input; every field is an
// optional filter predicate, combined with AND when set.
type GetExpensesRequest struct {
	Category  string   `json:"category,omitempty"`
	Vendor    string   `json:"vendor,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	MinAmount *float64 `json:"minAmount,omitempty"`
	MaxAmount *float64 `json:"maxAmount,omitempty"`
}

func (r GetExpensesRequest) Validate() (models.ExpenseFilter, error) {
	var filter models.ExpenseFilter

	if r.Category != "" {
		category, err := models.ParseCategory(r.Category)
		if err != nil {
			return models.ExpenseFilter{}, err
		}
		filter.Category = category
	}
	filter.Vendor = strings.TrimSpace(r.Vendor)

	if r.StartDate != "" {
		start, err := parseDate("startDate", r.StartDate)
		if err != nil {
			return models.ExpenseFilter{}, err
		}
		filter.StartDate = &start
	}
	if r.EndDate != "" {
		end, err := parseDate("endDate", r.EndDate)
		if err != nil {
			return models.ExpenseFilter{}, err
		}
		filter.EndDate = &end
	}
	filter.MinAmount = r.MinAmount
	filter.MaxAmount = r.MaxAmount

	return filter, nil
}

// ExpenseRecord is one expense in a query result.
type ExpenseRecord struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Vendor      string  `json:"vendor"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ExpenseDate string  `json:"expenseDate"`
}

func NewExpenseRecord(e *models.Expense) ExpenseRecord {
	return ExpenseRecord{
		ID:          e.ID.String(),
		Amount:      e.Amount,
		Vendor:      e.Vendor,
		Description: e.Description,
		Category:    string(e.Category),
		ExpenseDate: e.ExpenseDate.Format(dateLayout),
	}
}

type GetExpensesResponse struct {
	Expenses    []ExpenseRecord `json:"expenses"`
	Count       int             `json:"count"`
	TotalAmount float64         `json:"totalAmount"`
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, models.NewValidationError(field, "must be a YYYY-MM-DD date")
	}
	return t, nil
}

func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}
