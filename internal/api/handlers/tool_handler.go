package handlers

import (
	"strconv"

	"github.com/RichardLoRicco/expense-agent/internal/dto"
	"github.com/RichardLoRicco/expense-agent/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ToolHandler exposes the tool contract operations over HTTP. Bodies and
// query strings map one-to-one onto the dto request structs; all semantic
// validation happens in the services.
type ToolHandler struct {
	ledger  *service.LedgerService
	budget  *service.BudgetService
	receipt *service.ReceiptService
	logger  *zap.Logger
}

func NewToolHandler(ledger *service.LedgerService, budget *service.BudgetService, receipt *service.ReceiptService, logger *zap.Logger) *ToolHandler {
	return &ToolHandler{
		ledger:  ledger,
		budget:  budget,
		receipt: receipt,
		logger:  logger,
	}
}

func (h *ToolHandler) AddExpense(c *fiber.Ctx) error {
	var req dto.AddExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	resp, err := h.ledger.AddExpense(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ToolHandler) GetExpenses(c *fiber.Ctx) error {
	req := dto.GetExpensesRequest{
		Category:  c.Query("category"),
		Vendor:    c.Query("vendor"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}

	minAmount, err := queryFloat(c, "minAmount")
	if err != nil {
		return err
	}
	req.MinAmount = minAmount

	maxAmount, err := queryFloat(c, "maxAmount")
	if err != nil {
		return err
	}
	req.MaxAmount = maxAmount

	resp, err := h.ledger.GetExpenses(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *ToolHandler) GetSummary(c *fiber.Ctx) error {
	req := dto.GetSummaryRequest{
		Period:  c.Query("period"),
		GroupBy: c.Query("groupBy"),
	}

	resp, err := h.ledger.GetSummary(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *ToolHandler) SetBudget(c *fiber.Ctx) error {
	var req dto.SetBudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	resp, err := h.budget.SetBudget(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *ToolHandler) CheckBudget(c *fiber.Ctx) error {
	req := dto.CheckBudgetRequest{
		Category: c.Query("category"),
	}

	resp, err := h.budget.CheckBudget(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *ToolHandler) ParseReceipt(c *fiber.Ctx) error {
	var req dto.ParseReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	resp, err := h.receipt.ParseReceipt(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func queryFloat(c *fiber.Ctx, name string) (*float64, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, name+" must be a number")
	}
	return &f, nil
}
