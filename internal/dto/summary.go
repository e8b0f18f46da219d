package dto

import "github.com/RichardLoRicco/expense-agent/internal/models"

// GetSummaryRequest is the get-summary tool input.
type GetSummaryRequest struct {
	Period  string `json:"period"`  // week, month, or year
	GroupBy string `json:"groupBy"` // category or vendor
}

func (r GetSummaryRequest) Validate() (models.SummaryPeriod, models.GroupKey, error) {
	period, err := models.ParseSummaryPeriod(r.Period)
	if err != nil {
		return "", "", err
	}
	groupKey, err := models.ParseGroupKey(r.GroupBy)
	if err != nil {
		return "", "", err
	}
	return period, groupKey, nil
}

type SummaryItem struct {
	Name       string  `json:"name"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Percentage int     `json:"percentage"` // share of grand total, 0 when grand total is 0
}

type SpendingSummary struct {
	GroupBy    string        `json:"groupBy"`
	Period     string        `json:"period"`
	GrandTotal float64       `json:"grandTotal"`
	Items      []SummaryItem `json:"items"`
}

type GetSummaryResponse struct {
	Summary SpendingSummary `json:"summary"`
}
