package dto

import (
	"strings"

	"github.com/RichardLoRicco/expense-agent/internal/models"
)

type ChatRequest struct {
	SessionID string `json:"sessionId,omitempty"` // omitted on the first message of a conversation
	Message   string `json:"message"`
}

func (r ChatRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return models.NewValidationError("message", "must not be empty")
	}
	return nil
}

type ChatResponse struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}
