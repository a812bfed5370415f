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

const invoiceColumns = `
	id, agency_id, number, client_id, client_name, talent_name, issue_date, due_date,
	items, currency, subtotal_cents, tax_rate, tax_cents, total_cents, paid_cents,
	status, notes, sent_at, created_at, updated_at`

// InvoiceRepository implements port.InvoiceRepository
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) port.InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an invoice. Numbers are unique per agency.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	items, err := marshalJSON(invoice.Items, "[]")
	if err != nil {
		return err
	}

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		invoice.ID,
		invoice.AgencyID,
		invoice.Number,
		invoice.ClientID,
		invoice.ClientName,
		invoice.TalentName,
		invoice.IssueDate.UTC(),
		invoice.DueDate.UTC(),
		items,
		invoice.Currency,
		invoice.SubtotalCents,
		invoice.TaxRate,
		invoice.TaxCents,
		invoice.TotalCents,
		invoice.PaidCents,
		invoice.Status,
		invoice.Notes,
		nullTime(invoice.SentAt),
		invoice.CreatedAt.UTC(),
		invoice.UpdatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create invoice",
			zap.String("agency_id", invoice.AgencyID),
			zap.String("number", invoice.Number),
			zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// GetByID retrieves an invoice by its ID
func (r *InvoiceRepository) GetByID(ctx context.Context, agencyID, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE agency_id = ? AND id = ?`

	invoice, err := scanInvoice(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, agencyID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

// ListByAgency returns invoices, newest issue date first
func (r *InvoiceRepository) ListByAgency(ctx context.Context, agencyID string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE agency_id = ? ORDER BY issue_date DESC, number DESC`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, agencyID)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.String("agency_id", agencyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := []*entity.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Update persists status, payment and content changes
func (r *InvoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	items, err := marshalJSON(invoice.Items, "[]")
	if err != nil {
		return err
	}

	query := `
		UPDATE invoices SET
			client_id = ?, client_name = ?, talent_name = ?, issue_date = ?, due_date = ?,
			items = ?, currency = ?, subtotal_cents = ?, tax_rate = ?, tax_cents = ?,
			total_cents = ?, paid_cents = ?, status = ?, notes = ?, sent_at = ?, updated_at = ?
		WHERE agency_id = ? AND id = ?
	`
	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		invoice.ClientID,
		invoice.ClientName,
		invoice.TalentName,
		invoice.IssueDate.UTC(),
		invoice.DueDate.UTC(),
		items,
		invoice.Currency,
		invoice.SubtotalCents,
		invoice.TaxRate,
		invoice.TaxCents,
		invoice.TotalCents,
		invoice.PaidCents,
		invoice.Status,
		invoice.Notes,
		nullTime(invoice.SentAt),
		invoice.UpdatedAt.UTC(),
		invoice.AgencyID,
		invoice.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update invoice", zap.String("id", invoice.ID), zap.Error(err))
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("invoice %s: %w", invoice.ID, sql.ErrNoRows)
	}
	return nil
}

// CountByAgency returns how many invoices an agency has issued
func (r *InvoiceRepository) CountByAgency(ctx context.Context, agencyID string) (int, error) {
	var n int
	err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoices WHERE agency_id = ?`, agencyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return n, nil
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var (
		inv    entity.Invoice
		items  sql.NullString
		sentAt sql.NullTime
	)
	err := row.Scan(
		&inv.ID,
		&inv.AgencyID,
		&inv.Number,
		&inv.ClientID,
		&inv.ClientName,
		&inv.TalentName,
		&inv.IssueDate,
		&inv.DueDate,
		&items,
		&inv.Currency,
		&inv.SubtotalCents,
		&inv.TaxRate,
		&inv.TaxCents,
		&inv.TotalCents,
		&inv.PaidCents,
		&inv.Status,
		&inv.Notes,
		&sentAt,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}

	inv.SentAt = timePtr(sentAt)
	inv.Items = []entity.InvoiceItem{}
	if err := unmarshalJSON(items, &inv.Items); err != nil {
		return nil, err
	}
	return &inv, nil
}

var _ port.InvoiceRepository = (*InvoiceRepository)(nil)
