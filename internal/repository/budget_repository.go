package repository

import (
	"context"

	"github.com/RichardLoRicco/expense-agent/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type BudgetRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewBudgetRepository(db *pgxpool.Pool, logger *zap.Logger) *BudgetRepository {
	return &BudgetRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert creates or replaces the budget for a category in a single
// statement. On conflict with the category uniqueness constraint the
// existing row keeps its id and created_at; amount_limit, period, and
// updated_at are replaced. Concurrent callers targeting the same category
// are serialized by the database, not by application locking.
func (r *BudgetRepository) Upsert(ctx context.Context, category models.Category, amountLimit float64, period models.BudgetPeriod) (*models.Budget, error) {
	sql, args, err := buildUpsertBudgetQuery(category, amountLimit, period)
	if err != nil {
		return nil, models.NewStorageError("upsert budget", err)
	}

	var budget models.Budget
	if err := r.db.QueryRow(ctx, sql, args...).Scan(
		&budget.ID, &budget.Category, &budget.AmountLimit, &budget.Period, &budget.CreatedAt, &budget.UpdatedAt,
	); err != nil {
		return nil, models.NewStorageError("upsert budget", err)
	}

	r.logger.Debug("Budget upserted",
		zap.String("category", string(budget.Category)),
		zap.Float64("limit", budget.AmountLimit),
		zap.String("period", string(budget.Period)),
	)
	return &budget, nil
}

// List returns every budget. Order is unspecified.
func (r *BudgetRepository) List(ctx context.Context) ([]*models.Budget, error) {
	query := squirrel.Select("id", "category", "amount_limit", "period", "created_at", "updated_at").
		From("budgets").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, models.NewStorageError("list budgets", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, models.NewStorageError("list budgets", err)
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.AmountLimit, &b.Period, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, models.NewStorageError("list budgets", err)
		}
		budgets = append(budgets, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewStorageError("list budgets", err)
	}

	return budgets, nil
}

func buildUpsertBudgetQuery(category models.Category, amountLimit float64, period models.BudgetPeriod) (string, []any, error) {
	query := squirrel.Insert("budgets").
		Columns("id", "category", "amount_limit", "period").
		Values(uuid.New(), category, amountLimit, period).
		Suffix(`ON CONFLICT (category) DO UPDATE SET
			amount_limit = EXCLUDED.amount_limit,
			period = EXCLUDED.period,
			updated_at = NOW()`).
		Suffix("RETURNING id, category, amount_limit, period, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	return query.ToSql()
}
