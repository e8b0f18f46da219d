package repository

import (
	"testing"
	"time"

	"github.com/RichardLoRicco/expense-agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListExpensesQueryNoFilter(t *testing.T) {
	sql, args, err := buildListExpensesQuery(models.ExpenseFilter{})
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, amount, vendor, description, category, expense_date, created_at "+
			"FROM expenses ORDER BY expense_date DESC, created_at DESC",
		sql,
	)
	assert.Empty(t, args)
}

func TestBuildListExpensesQueryAllPredicates(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	minAmount := 5.0
	maxAmount := 50.0

	sql, args, err := buildListExpensesQuery(models.ExpenseFilter{
		Category:  models.CategoryFood,
		Vendor:    "star",
		StartDate: &start,
		EndDate:   &end,
		MinAmount: &minAmount,
		MaxAmount: &maxAmount,
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "category = $1")
	assert.Contains(t, sql, "vendor ILIKE $2")
	assert.Contains(t, sql, "expense_date >= $3")
	assert.Contains(t, sql, "expense_date <= $4")
	assert.Contains(t, sql, "amount >= $5")
	assert.Contains(t, sql, "amount <= $6")
	assert.Contains(t, sql, "ORDER BY expense_date DESC, created_at DESC")

	require.Len(t, args, 6)
	assert.Equal(t, models.CategoryFood, args[0])
	// Vendor matching is a case-insensitive substring.
	assert.Equal(t, "%star%", args[1])
	assert.Equal(t, start, args[2])
	assert.Equal(t, end, args[3])
	assert.Equal(t, minAmount, args[4])
	assert.Equal(t, maxAmount, args[5])
}

func TestBuildListExpensesQuerySinglePredicate(t *testing.T) {
	sql, args, err := buildListExpensesQuery(models.ExpenseFilter{Vendor: "amazon"})
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE vendor ILIKE $1")
	// Only the vendor predicate; category appears in the column list but
	// must not be filtered on.
	assert.NotContains(t, sql, "category = ")
	assert.NotContains(t, sql, "$2")
	require.Len(t, args, 1)
	assert.Equal(t, "%amazon%", args[0])
}

func TestBuildSummarizeQuery(t *testing.T) {
	since := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)

	sql, args, err := buildSummarizeQuery(since, models.GroupByCategory)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT category AS name, SUM(amount)::float8 AS total, COUNT(*) AS count "+
			"FROM expenses WHERE expense_date >= $1 GROUP BY category ORDER BY total DESC",
		sql,
	)
	require.Len(t, args, 1)
	assert.Equal(t, since, args[0])
}

func TestBuildSummarizeQueryByVendor(t *testing.T) {
	sql, _, err := buildSummarizeQuery(time.Now(), models.GroupByVendor)
	require.NoError(t, err)

	assert.Contains(t, sql, "SELECT vendor AS name")
	assert.Contains(t, sql, "GROUP BY vendor")
}

func TestBuildSpentSinceQuery(t *testing.T) {
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := buildSpentSinceQuery(models.CategoryTravel, since)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT COALESCE(SUM(amount), 0)::float8 FROM expenses "+
			"WHERE category = $1 AND expense_date >= $2",
		sql,
	)
	require.Len(t, args, 2)
	assert.Equal(t, models.CategoryTravel, args[0])
	assert.Equal(t, since, args[1])
}

func TestBuildUpsertBudgetQuery(t *testing.T) {
	sql, args, err := buildUpsertBudgetQuery(models.CategoryFood, 100, models.PeriodMonthly)
	require.NoError(t, err)

	// A single conditional write keyed on the category uniqueness
	// constraint: the insert and the replace ride one statement.
	assert.Contains(t, sql, "INSERT INTO budgets")
	assert.Contains(t, sql, "ON CONFLICT (category) DO UPDATE")
	assert.Contains(t, sql, "amount_limit = EXCLUDED.amount_limit")
	assert.Contains(t, sql, "period = EXCLUDED.period")
	assert.Contains(t, sql, "updated_at = NOW()")
	assert.Contains(t, sql, "RETURNING id, category, amount_limit, period, created_at, updated_at")
	// created_at must survive a replace.
	assert.NotContains(t, sql, "created_at = ")

	require.Len(t, args, 4)
	assert.Equal(t, models.CategoryFood, args[1])
	assert.Equal(t, float64(100), args[2])
	assert.Equal(t, models.PeriodMonthly, args[3])
}
