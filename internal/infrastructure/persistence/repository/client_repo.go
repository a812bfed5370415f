package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/infrastructure/persistence/sqlite"
)

const clientColumns = `
	id, agency_id, name, status, industry, website, contact_count,
	total_revenue, bookings_summary, revenue_cents, booking_count,
	last_contact_at, tags, preferences, metrics, notes, created_at, updated_at`

// ClientRepository implements port.ClientRepository
type ClientRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *sql.DB, logger *zap.Logger) port.ClientRepository {
	return &ClientRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new client
func (r *ClientRepository) Create(ctx context.Context, client *entity.Client) error {
	tags, prefs, metrics, err := encodeClientColumns(client)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.getExecutor(ctx).ExecContext(ctx, query,
		client.ID,
		client.AgencyID,
		client.Name,
		client.Status,
		client.Industry,
		client.Website,
		client.ContactCount,
		client.TotalRevenue,
		client.BookingsSummary,
		client.RevenueCents,
		client.BookingCount,
		nullTime(client.LastContactAt),
		tags,
		prefs,
		metrics,
		client.Notes,
		client.CreatedAt.UTC(),
		client.UpdatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create client",
			zap.String("agency_id", client.AgencyID),
			zap.String("name", client.Name),
			zap.Error(err))
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// GetByID retrieves a client scoped to its agency
func (r *ClientRepository) GetByID(ctx context.Context, agencyID, id string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE agency_id = ? AND id = ?`

	client, err := scanClient(r.getExecutor(ctx).QueryRowContext(ctx, query, agencyID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get client", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// ListByAgency returns all clients of an agency, newest first
func (r *ClientRepository) ListByAgency(ctx context.Context, agencyID string) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE agency_id = ? ORDER BY created_at DESC, name`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, agencyID)
	if err != nil {
		r.logger.Error("Failed to list clients", zap.String("agency_id", agencyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []*entity.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

// Update replaces the editable fields of a client
func (r *ClientRepository) Update(ctx context.Context, client *entity.Client) error {
	tags, prefs, metrics, err := encodeClientColumns(client)
	if err != nil {
		return err
	}

	query := `
		UPDATE clients SET
			name = ?, status = ?, industry = ?, website = ?,
			total_revenue = ?, bookings_summary = ?, revenue_cents = ?, booking_count = ?,
			tags = ?, preferences = ?, metrics = ?, notes = ?, updated_at = ?
		WHERE agency_id = ? AND id = ?
	`
	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		client.Name,
		client.Status,
		client.Industry,
		client.Website,
		client.TotalRevenue,
		client.BookingsSummary,
		client.RevenueCents,
		client.BookingCount,
		tags,
		prefs,
		metrics,
		client.Notes,
		client.UpdatedAt.UTC(),
		client.AgencyID,
		client.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update client", zap.String("id", client.ID), zap.Error(err))
		return fmt.Errorf("failed to update client: %w", err)
	}

	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("client %s: %w", client.ID, sql.ErrNoRows)
	}
	return nil
}

// Delete removes a client; contacts and communications cascade
func (r *ClientRepository) Delete(ctx context.Context, agencyID, id string) (bool, error) {
	result, err := r.getExecutor(ctx).ExecContext(ctx,
		`DELETE FROM clients WHERE agency_id = ? AND id = ?`, agencyID, id)
	if err != nil {
		r.logger.Error("Failed to delete client", zap.String("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete client: %w", err)
	}
	return affected(result)
}

// TouchLastContact records the time of the latest communication
func (r *ClientRepository) TouchLastContact(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE clients SET last_contact_at = ?, updated_at = ?
		WHERE id = ? AND (last_contact_at IS NULL OR last_contact_at < ?)
	`
	_, err := r.getExecutor(ctx).ExecContext(ctx, query, at.UTC(), time.Now().UTC(), id, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to touch client last contact: %w", err)
	}
	return nil
}

// RefreshContactCount recomputes the denormalized contact count
func (r *ClientRepository) RefreshContactCount(ctx context.Context, id string) error {
	query := `
		UPDATE clients
		SET contact_count = (SELECT COUNT(*) FROM client_contacts WHERE client_id = ?)
		WHERE id = ?
	`
	if _, err := r.getExecutor(ctx).ExecContext(ctx, query, id, id); err != nil {
		return fmt.Errorf("failed to refresh contact count: %w", err)
	}
	return nil
}

func encodeClientColumns(client *entity.Client) (tags string, prefs, metrics interface{}, err error) {
	t := client.Tags
	if t == nil {
		t = []string{}
	}
	if tags, err = marshalJSON(t, "[]"); err != nil {
		return "", nil, nil, err
	}
	if client.Preferences != nil {
		s, err := marshalJSON(client.Preferences, "")
		if err != nil {
			return "", nil, nil, err
		}
		prefs = s
	}
	if client.Metrics != nil {
		s, err := marshalJSON(client.Metrics, "")
		if err != nil {
			return "", nil, nil, err
		}
		metrics = s
	}
	return tags, prefs, metrics, nil
}

func scanClient(row rowScanner) (*entity.Client, error) {
	var (
		c           entity.Client
		lastContact sql.NullTime
		tags        sql.NullString
		prefs       sql.NullString
		metrics     sql.NullString
	)
	err := row.Scan(
		&c.ID,
		&c.AgencyID,
		&c.Name,
		&c.Status,
		&c.Industry,
		&c.Website,
		&c.ContactCount,
		&c.TotalRevenue,
		&c.BookingsSummary,
		&c.RevenueCents,
		&c.BookingCount,
		&lastContact,
		&tags,
		&prefs,
		&metrics,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan client: %w", err)
	}

	c.LastContactAt = timePtr(lastContact)
	c.Tags = []string{}
	if err := unmarshalJSON(tags, &c.Tags); err != nil {
		return nil, err
	}
	if prefs.Valid {
		c.Preferences = &entity.ClientPreferences{}
		if err := unmarshalJSON(prefs, c.Preferences); err != nil {
			return nil, err
		}
	}
	if metrics.Valid {
		c.Metrics = &entity.ClientMetrics{}
		if err := unmarshalJSON(metrics, c.Metrics); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (r *ClientRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db)
}

// Verify interface compliance
var _ port.ClientRepository = (*ClientRepository)(nil)
