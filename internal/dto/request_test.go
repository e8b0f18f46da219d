package dto

import (
	"testing"
	"time"

	"github.com/RichardLoRicco/expense-agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddExpenseRequestValidate(t *testing.T) {
	in, err := AddExpenseRequest{
		Amount:      12.5,
		Vendor:      "Starbucks",
		Description: "coffee",
		Category:    "food",
		ExpenseDate: "2024-01-10",
	}.Validate()
	require.NoError(t, err)

	assert.Equal(t, 12.5, in.Amount)
	assert.Equal(t, "Starbucks", in.Vendor)
	assert.Equal(t, models.CategoryFood, in.Category)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), in.ExpenseDate)
}

func TestAddExpenseRequestRoundsToCents(t *testing.T) {
	in, err := AddExpenseRequest{Amount: 3.14159, Vendor: "x", Category: "other"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, 3.14, in.Amount)
}

func TestAddExpenseRequestOmittedDateIsZero(t *testing.T) {
	in, err := AddExpenseRequest{Amount: 1, Vendor: "x", Category: "other"}.Validate()
	require.NoError(t, err)
	assert.True(t, in.ExpenseDate.IsZero())
}

func TestAddExpenseRequestRejections(t *testing.T) {
	cases := map[string]AddExpenseRequest{
		"zero amount":      {Amount: 0, Vendor: "x", Category: "food"},
		"negative amount":  {Amount: -5, Vendor: "x", Category: "food"},
		"empty vendor":     {Amount: 1, Vendor: "   ", Category: "food"},
		"unknown category": {Amount: 1, Vendor: "x", Category: "groceries"},
		"malformed date":   {Amount: 1, Vendor: "x", Category: "food", ExpenseDate: "01/10/2024"},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := req.Validate()
			require.Error(t, err)
			assert.True(t, models.IsValidationError(err))
		})
	}
}

func TestGetExpensesRequestValidate(t *testing.T) {
	minAmount := 5.0
	filter, err := GetExpensesRequest{
		Category:  "transport",
		Vendor:    " uber ",
		StartDate: "2024-01-01",
		MinAmount: &minAmount,
	}.Validate()
	require.NoError(t, err)

	assert.Equal(t, models.CategoryTransport, filter.Category)
	assert.Equal(t, "uber", filter.Vendor)
	require.NotNil(t, filter.StartDate)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *filter.StartDate)
	assert.Nil(t, filter.EndDate)
	assert.Equal(t, &minAmount, filter.MinAmount)
}

func TestGetExpensesRequestEmptyIsUnconstrained(t *testing.T) {
	filter, err := GetExpensesRequest{}.Validate()
	require.NoError(t, err)
	assert.Equal(t, models.ExpenseFilter{}, filter)
}

func TestGetExpensesRequestRejections(t *testing.T) {
	_, err := GetExpensesRequest{Category: "stuff"}.Validate()
	assert.True(t, models.IsValidationError(err))

	_, err = GetExpensesRequest{EndDate: "soon"}.Validate()
	assert.True(t, models.IsValidationError(err))
}

func TestGetSummaryRequestValidate(t *testing.T) {
	period, key, err := GetSummaryRequest{Period: "year", GroupBy: "vendor"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, models.SummaryYear, period)
	assert.Equal(t, models.GroupByVendor, key)

	_, _, err = GetSummaryRequest{Period: "day", GroupBy: "vendor"}.Validate()
	assert.True(t, models.IsValidationError(err))

	_, _, err = GetSummaryRequest{Period: "week", GroupBy: "merchant"}.Validate()
	assert.True(t, models.IsValidationError(err))
}

func TestSetBudgetRequestValidate(t *testing.T) {
	in, err := SetBudgetRequest{Category: "food", AmountLimit: 100, Period: "monthly"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, models.CategoryFood, in.Category)
	assert.Equal(t, 100.0, in.AmountLimit)
	assert.Equal(t, models.PeriodMonthly, in.Period)

	_, err = SetBudgetRequest{Category: "food", AmountLimit: 0, Period: "monthly"}.Validate()
	assert.True(t, models.IsValidationError(err))

	_, err = SetBudgetRequest{Category: "food", AmountLimit: 100, Period: "yearly"}.Validate()
	assert.True(t, models.IsValidationError(err))
}

func TestCheckBudgetRequestValidate(t *testing.T) {
	category, err := CheckBudgetRequest{}.Validate()
	require.NoError(t, err)
	assert.Equal(t, models.Category(""), category)

	category, err = CheckBudgetRequest{Category: "health"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, models.CategoryHealth, category)

	_, err = CheckBudgetRequest{Category: "healthcare"}.Validate()
	assert.True(t, models.IsValidationError(err))
}

func TestParseReceiptRequestValidate(t *testing.T) {
	assert.NoError(t, ParseReceiptRequest{Image: "https://example.com/r.jpg"}.Validate())
	assert.NoError(t, ParseReceiptRequest{Image: "data:image/jpeg;base64,AAAA"}.Validate())

	assert.True(t, models.IsValidationError(ParseReceiptRequest{}.Validate()))
	assert.True(t, models.IsValidationError(ParseReceiptRequest{Image: "ftp://x"}.Validate()))
}

func TestChatRequestValidate(t *testing.T) {
	assert.NoError(t, ChatRequest{Message: "hi"}.Validate())
	assert.True(t, models.IsValidationError(ChatRequest{Message: "  "}.Validate()))
}
