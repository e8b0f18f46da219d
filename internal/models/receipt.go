package models

import "fmt"

// ReceiptLineItem is one itemized entry extracted from a receipt.
type ReceiptLineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// ParsedReceipt is the structured result of a vision-model pass over a
// receipt image. Each extracted field carries a confidence in [0,1]
// (1 = certain). A ParsedReceipt is transient: it becomes an expense only
// through an explicit add-expense call, never written by the interpreter.
type ParsedReceipt struct {
	Vendor             string            `json:"vendor"`
	VendorConfidence   float64           `json:"vendorConfidence"`
	TotalAmount        float64           `json:"totalAmount"`
	AmountConfidence   float64           `json:"amountConfidence"`
	Date               string            `json:"date"` // YYYY-MM-DD, empty if not visible
	DateConfidence     float64           `json:"dateConfidence"`
	Category           Category          `json:"category"`
	CategoryConfidence float64           `json:"categoryConfidence"`
	LineItems          []ReceiptLineItem `json:"lineItems"`
	RawText            string            `json:"rawText"`
}

// ValidateStructure checks structural conformance only: confidences must be
// real numbers in [0,1] and the category must belong to the enumeration. Low
// confidence values are not a conformance failure; they pass through
// untouched for the orchestrator to gate on.
func (r *ParsedReceipt) ValidateStructure() error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"vendorConfidence", r.VendorConfidence},
		{"amountConfidence", r.AmountConfidence},
		{"dateConfidence", r.DateConfidence},
		{"categoryConfidence", r.CategoryConfidence},
	} {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("%s out of range: %v", c.name, c.value)
		}
	}
	if !r.Category.Valid() {
		return fmt.Errorf("unknown category: %s", r.Category)
	}
	return nil
}
