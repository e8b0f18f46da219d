package models

import "time"

// SummaryPeriod is the lookback window for spending aggregation.
type SummaryPeriod string

const (
	SummaryWeek  SummaryPeriod = "week"
	SummaryMonth SummaryPeriod = "month"
	SummaryYear  SummaryPeriod = "year"
)

func ParseSummaryPeriod(s string) (SummaryPeriod, error) {
	switch SummaryPeriod(s) {
	case SummaryWeek, SummaryMonth, SummaryYear:
		return SummaryPeriod(s), nil
	}
	return "", NewValidationError("period", "must be week, month, or year")
}

// WindowStart returns the inclusive start date of the lookback window ending
// at now. Week is a fixed 7-day subtraction; month and year use calendar
// subtraction via time.AddDate, which normalizes overflow: March 31 minus one
// month passes through the non-existent February 31 and lands in early March.
func (p SummaryPeriod) WindowStart(now time.Time) time.Time {
	switch p {
	case SummaryWeek:
		return now.AddDate(0, 0, -7)
	case SummaryMonth:
		return now.AddDate(0, -1, 0)
	default:
		return now.AddDate(-1, 0, 0)
	}
}
