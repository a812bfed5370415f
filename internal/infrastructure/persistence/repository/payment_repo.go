package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/infrastructure/persistence/sqlite"
)

// PaymentRepository implements port.PaymentRepository
type PaymentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sql.DB, logger *zap.Logger) port.PaymentRepository {
	return &PaymentRepository{db: db, logger: logger}
}

// Create records a payment
func (r *PaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (
			id, agency_id, invoice_id, invoice_number, client_name,
			amount_cents, method, status, reference, received_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		p.ID,
		p.AgencyID,
		p.InvoiceID,
		p.InvoiceNumber,
		p.ClientName,
		p.AmountCents,
		p.Method,
		p.Status,
		p.Reference,
		p.ReceivedAt.UTC(),
		p.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create payment",
			zap.String("invoice_id", p.InvoiceID),
			zap.Int64("amount_cents", p.AmountCents),
			zap.Error(err))
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// ListByAgency returns payments, most recently received first
func (r *PaymentRepository) ListByAgency(ctx context.Context, agencyID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, agency_id, invoice_id, invoice_number, client_name,
			amount_cents, method, status, reference, received_at, created_at
		FROM payments
		WHERE agency_id = ?
		ORDER BY received_at DESC
	`
	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, agencyID)
	if err != nil {
		r.logger.Error("Failed to list payments", zap.String("agency_id", agencyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []*entity.Payment{}
	for rows.Next() {
		var p entity.Payment
		err := rows.Scan(
			&p.ID,
			&p.AgencyID,
			&p.InvoiceID,
			&p.InvoiceNumber,
			&p.ClientName,
			&p.AmountCents,
			&p.Method,
			&p.Status,
			&p.Reference,
			&p.ReceivedAt,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

var _ port.PaymentRepository = (*PaymentRepository)(nil)
