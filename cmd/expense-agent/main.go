package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RichardLoRicco/expense-agent/internal/api"
	"github.com/RichardLoRicco/expense-agent/internal/api/handlers"
	"github.com/RichardLoRicco/expense-agent/internal/repository"
	"github.com/RichardLoRicco/expense-agent/internal/service"
	"github.com/RichardLoRicco/expense-agent/pkg/config"
	"github.com/RichardLoRicco/expense-agent/pkg/logger"
	"github.com/RichardLoRicco/expense-agent/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting expense agent")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.InitSchema(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	expenseRepo := repository.NewExpenseRepository(db, appLogger)
	budgetRepo := repository.NewBudgetRepository(db, appLogger)

	llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	ledgerService := service.NewLedgerService(expenseRepo, appLogger)
	budgetService := service.NewBudgetService(budgetRepo, expenseRepo, appLogger)
	receiptService := service.NewReceiptService(llmService, appLogger)
	agentService := service.NewAgentService(llmService, ledgerService, budgetService, receiptService, &cfg.Agent, appLogger)

	toolHandler := handlers.NewToolHandler(ledgerService, budgetService, receiptService, appLogger)
	chatHandler := handlers.NewChatHandler(agentService, appLogger)

	app := api.SetupRouter(toolHandler, chatHandler, &cfg.Server)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
