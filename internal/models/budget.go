package models

import (
	"time"

	"github.com/google/uuid"
)

// BudgetPeriod is the recurrence window a budget limit applies to.
type BudgetPeriod string

const (
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
)

func ParseBudgetPeriod(s string) (BudgetPeriod, error) {
	switch BudgetPeriod(s) {
	case PeriodWeekly, PeriodMonthly:
		return BudgetPeriod(s), nil
	}
	return "", NewValidationError("period", "must be weekly or monthly")
}

// WindowStart returns the inclusive start of the spending window ending at
// now: 7 days back for weekly, one calendar month back for monthly.
func (p BudgetPeriod) WindowStart(now time.Time) time.Time {
	if p == PeriodWeekly {
		return SummaryWeek.WindowStart(now)
	}
	return SummaryMonth.WindowStart(now)
}

// Budget is the spending ceiling for one category. Category is unique: at
// most one budget row per category, enforced by upsert-on-conflict.
type Budget struct {
	ID          uuid.UUID    `db:"id"`
	Category    Category     `db:"category"`
	AmountLimit float64      `db:"amount_limit"`
	Period      BudgetPeriod `db:"period"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}
