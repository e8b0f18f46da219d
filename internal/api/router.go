package api

import (
	"errors"

	"github.com/RichardLoRicco/expense-agent/internal/api/handlers"
	"github.com/RichardLoRicco/expense-agent/internal/models"
	"github.com/RichardLoRicco/expense-agent/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func SetupRouter(
	toolHandler *handlers.ToolHandler,
	chatHandler *handlers.ChatHandler,
	cfg *config.ServerConfig,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(logger.New())

	api := app.Group("/api/v1")

	// Tool contract operations, one endpoint per tool
	tools := api.Group("/tools")
	tools.Post("/add-expense", toolHandler.AddExpense)
	tools.Get("/expenses", toolHandler.GetExpenses)
	tools.Get("/summary", toolHandler.GetSummary)
	tools.Post("/set-budget", toolHandler.SetBudget)
	tools.Get("/check-budget", toolHandler.CheckBudget)
	tools.Post("/parse-receipt", toolHandler.ParseReceipt)

	// Conversational entrypoint
	api.Post("/chat", chatHandler.Chat)

	return app
}

// errorHandler maps the error taxonomy to HTTP statuses: validation failures
// are the caller's fault, upstream model failures are a bad gateway,
// everything else is internal.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error

	switch {
	case models.IsValidationError(err):
		code = fiber.StatusBadRequest
	case models.IsExternalServiceError(err):
		code = fiber.StatusBadGateway
	case models.IsStorageError(err):
		code = fiber.StatusInternalServerError
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
