package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// schemaStatements are idempotent; there is no migration versioning.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS expenses (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		amount DECIMAL(10,2) NOT NULL,
		vendor VARCHAR(255) NOT NULL,
		description TEXT,
		category VARCHAR(50) NOT NULL,
		expense_date DATE NOT NULL DEFAULT CURRENT_DATE,
		created_at TIMESTAMP DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS budgets (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		category VARCHAR(50) UNIQUE NOT NULL,
		amount_limit DECIMAL(10,2) NOT NULL,
		period VARCHAR(20) NOT NULL DEFAULT 'monthly',
		created_at TIMESTAMP DEFAULT NOW(),
		updated_at TIMESTAMP DEFAULT NOW()
	)`,
}

// InitSchema ensures the expense and budget tables exist. Safe to call on
// every startup.
func InitSchema(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	logger.Info("Ledger schema initialized")
	return nil
}
