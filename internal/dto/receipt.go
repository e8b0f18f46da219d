package dto

import (
	"strings"

	"github.com/RichardLoRicco/expense-agent/internal/models"
)

// ParseReceiptRequest is the parse-receipt tool input: a receipt image as an
// https URL or a base64 data URI.
type ParseReceiptRequest struct {
	Image string `json:"image"`
}

func (r ParseReceiptRequest) Validate() error {
	image := strings.TrimSpace(r.Image)
	if image == "" {
		return models.NewValidationError("image", "must not be empty")
	}
	if !strings.HasPrefix(image, "http://") &&
		!strings.HasPrefix(image, "https://") &&
		!strings.HasPrefix(image, "data:") {
		return models.NewValidationError("image", "must be an http(s) URL or a data URI")
	}
	return nil
}
