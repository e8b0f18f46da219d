package repository

import (
	"context"
	"time"

	"github.com/RichardLoRicco/expense-agent/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var expenseColumns = []string{"id", "amount", "vendor", "description", "category", "expense_date", "created_at"}

type ExpenseRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewExpenseRepository(db *pgxpool.Pool, logger *zap.Logger) *ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new expense row. The ID is assigned here when unset;
// created_at is assigned by the database and scanned back.
func (r *ExpenseRepository) Create(ctx context.Context, exp *models.Expense) error {
	if exp.ID == uuid.Nil {
		exp.ID = uuid.New()
	}

	query := squirrel.Insert("expenses").
		Columns("id", "amount", "vendor", "description", "category", "expense_date").
		Values(exp.ID, exp.Amount, exp.Vendor, exp.Description, exp.Category, exp.ExpenseDate).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return models.NewStorageError("create expense", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exp.CreatedAt); err != nil {
		return models.NewStorageError("create expense", err)
	}

	r.logger.Debug("Expense created",
		zap.String("id", exp.ID.String()),
		zap.String("category", string(exp.Category)),
		zap.Float64("amount", exp.Amount),
	)
	return nil
}

// List returns expenses matching every set predicate of the filter, most
// recent first (expense_date DESC, then created_at DESC).
func (r *ExpenseRepository) List(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, error) {
	sql, args, err := buildListExpensesQuery(filter)
	if err != nil {
		return nil, models.NewStorageError("list expenses", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, models.NewStorageError("list expenses", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		var exp models.Expense
		if err := rows.Scan(
			&exp.ID, &exp.Amount, &exp.Vendor, &exp.Description, &exp.Category, &exp.ExpenseDate, &exp.CreatedAt,
		); err != nil {
			return nil, models.NewStorageError("list expenses", err)
		}
		expenses = append(expenses, &exp)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewStorageError("list expenses", err)
	}

	return expenses, nil
}

// Summarize groups expenses with expense_date on or after since by the given
// key, returning per-group totals and counts ordered by total descending.
func (r *ExpenseRepository) Summarize(ctx context.Context, since time.Time, key models.GroupKey) ([]models.SummaryRow, error) {
	sql, args, err := buildSummarizeQuery(since, key)
	if err != nil {
		return nil, models.NewStorageError("summarize expenses", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, models.NewStorageError("summarize expenses", err)
	}
	defer rows.Close()

	var summary []models.SummaryRow
	for rows.Next() {
		var row models.SummaryRow
		if err := rows.Scan(&row.Name, &row.Total, &row.Count); err != nil {
			return nil, models.NewStorageError("summarize expenses", err)
		}
		summary = append(summary, row)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewStorageError("summarize expenses", err)
	}

	return summary, nil
}

// SpentSince returns the sum of amounts for a category with expense_date on
// or after since. No matching rows yields 0, not an error.
func (r *ExpenseRepository) SpentSince(ctx context.Context, category models.Category, since time.Time) (float64, error) {
	sql, args, err := buildSpentSinceQuery(category, since)
	if err != nil {
		return 0, models.NewStorageError("sum spending", err)
	}

	var total float64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, models.NewStorageError("sum spending", err)
	}

	return total, nil
}

func buildListExpensesQuery(filter models.ExpenseFilter) (string, []any, error) {
	query := squirrel.Select(expenseColumns...).
		From("expenses").
		OrderBy("expense_date DESC", "created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Vendor != "" {
		query = query.Where(squirrel.ILike{"vendor": "%" + filter.Vendor + "%"})
	}
	if filter.StartDate != nil {
		query = query.Where(squirrel.GtOrEq{"expense_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		query = query.Where(squirrel.LtOrEq{"expense_date": *filter.EndDate})
	}
	if filter.MinAmount != nil {
		query = query.Where(squirrel.GtOrEq{"amount": *filter.MinAmount})
	}
	if filter.MaxAmount != nil {
		query = query.Where(squirrel.LtOrEq{"amount": *filter.MaxAmount})
	}

	return query.ToSql()
}

func buildSummarizeQuery(since time.Time, key models.GroupKey) (string, []any, error) {
	// key is a closed enum, never raw user input.
	query := squirrel.Select(
		string(key)+" AS name",
		"SUM(amount)::float8 AS total",
		"COUNT(*) AS count",
	).
		From("expenses").
		Where(squirrel.GtOrEq{"expense_date": since}).
		GroupBy(string(key)).
		OrderBy("total DESC").
		PlaceholderFormat(squirrel.Dollar)

	return query.ToSql()
}

func buildSpentSinceQuery(category models.Category, since time.Time) (string, []any, error) {
	query := squirrel.Select("COALESCE(SUM(amount), 0)::float8").
		From("expenses").
		Where(squirrel.Eq{"category": category}).
		Where(squirrel.GtOrEq{"expense_date": since}).
		PlaceholderFormat(squirrel.Dollar)

	return query.ToSql()
}
