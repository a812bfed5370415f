package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/infrastructure/persistence/sqlite"
)

const expenseColumns = `
	id, agency_id, description, category, amount_cents, incurred_at,
	submitted_by, status, receipt_url, created_at`

// ExpenseRepository implements port.ExpenseRepository
type ExpenseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *sql.DB, logger *zap.Logger) port.ExpenseRepository {
	return &ExpenseRepository{db: db, logger: logger}
}

// Create inserts an expense
func (r *ExpenseRepository) Create(ctx context.Context, e *entity.Expense) error {
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		e.ID,
		e.AgencyID,
		e.Description,
		e.Category,
		e.AmountCents,
		e.IncurredAt.UTC(),
		e.SubmittedBy,
		e.Status,
		e.ReceiptURL,
		e.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create expense",
			zap.String("agency_id", e.AgencyID),
			zap.String("category", e.Category),
			zap.Error(err))
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense
func (r *ExpenseRepository) GetByID(ctx context.Context, agencyID, id string) (*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE agency_id = ? AND id = ?`

	e, err := scanExpense(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, agencyID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// ListByAgency returns expenses, most recent first
func (r *ExpenseRepository) ListByAgency(ctx context.Context, agencyID string) ([]*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE agency_id = ? ORDER BY incurred_at DESC`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, agencyID)
	if err != nil {
		r.logger.Error("Failed to list expenses", zap.String("agency_id", agencyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*entity.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpdateStatus approves or rejects an expense
func (r *ExpenseRepository) UpdateStatus(ctx context.Context, agencyID, id, status string) error {
	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx,
		`UPDATE expenses SET status = ? WHERE agency_id = ? AND id = ?`, status, agencyID, id)
	if err != nil {
		r.logger.Error("Failed to update expense status",
			zap.String("id", id),
			zap.String("status", status),
			zap.Error(err))
		return fmt.Errorf("failed to update expense status: %w", err)
	}

	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("expense %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

func scanExpense(row rowScanner) (*entity.Expense, error) {
	var e entity.Expense
	err := row.Scan(
		&e.ID,
		&e.AgencyID,
		&e.Description,
		&e.Category,
		&e.AmountCents,
		&e.IncurredAt,
		&e.SubmittedBy,
		&e.Status,
		&e.ReceiptURL,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}
	return &e, nil
}

var _ port.ExpenseRepository = (*ExpenseRepository)(nil)
