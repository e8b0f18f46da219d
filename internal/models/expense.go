package models

import (
	"time"

	"github.com/google/uuid"
)

// Expense is a single ledger entry. Amount is positive dollars, rounded to
// cents at the validation boundary; the DECIMAL(10,2) column is
// authoritative. ExpenseDate carries no time component.
type Expense struct {
	ID          uuid.UUID `db:"id"`
	Amount      float64   `db:"amount"`
	Vendor      string    `db:"vendor"`
	Description string    `db:"description"`
	Category    Category  `db:"category"`
	ExpenseDate time.Time `db:"expense_date"`
	CreatedAt   time.Time `db:"created_at"`
}

// ExpenseFilter is a conjunction of optional predicates for expense queries.
// Zero values impose no constraint; set predicates are combined with AND.
type ExpenseFilter struct {
	Category  Category   // exact match
	Vendor    string     // case-insensitive substring
	StartDate *time.Time // expense_date >=
	EndDate   *time.Time // expense_date <=
	MinAmount *float64
	MaxAmount *float64
}

// GroupKey selects the grouping column for spending summaries. It is a
// closed enum so the column name never comes from user input.
type GroupKey string

const (
	GroupByCategory GroupKey = "category"
	GroupByVendor   GroupKey = "vendor"
)

func ParseGroupKey(s string) (GroupKey, error) {
	switch GroupKey(s) {
	case GroupByCategory, GroupByVendor:
		return GroupKey(s), nil
	}
	return "", NewValidationError("groupBy", "must be category or vendor")
}

// SummaryRow is one grouped aggregation result, ordered by total descending.
type SummaryRow struct {
	Name  string
	Total float64
	Count int
}
