package handlers

import (
	"github.com/RichardLoRicco/expense-agent/internal/dto"
	"github.com/RichardLoRicco/expense-agent/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	agent  *service.AgentService
	logger *zap.Logger
}

func NewChatHandler(agent *service.AgentService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		agent:  agent,
		logger: logger,
	}
}

func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	resp, err := h.agent.Chat(c.Context(), req)
	if err != nil {
		h.logger.Error("Chat turn failed", zap.Error(err))
		return err
	}
	return c.JSON(resp)
}
