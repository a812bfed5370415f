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

// ContactRepository implements port.ContactRepository
type ContactRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewContactRepository creates a new client contact repository
func NewContactRepository(db *sql.DB, logger *zap.Logger) port.ContactRepository {
	return &ContactRepository{db: db, logger: logger}
}

// Create inserts a contact
func (r *ContactRepository) Create(ctx context.Context, contact *entity.ClientContact) error {
	query := `
		INSERT INTO client_contacts (id, client_id, name, role, email, phone, is_primary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		contact.ID,
		contact.ClientID,
		contact.Name,
		contact.Role,
		contact.Email,
		contact.Phone,
		contact.IsPrimary,
		contact.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create contact",
			zap.String("client_id", contact.ClientID),
			zap.Error(err))
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// ListByClient returns contacts with the primary contact first
func (r *ContactRepository) ListByClient(ctx context.Context, clientID string) ([]*entity.ClientContact, error) {
	query := `
		SELECT id, client_id, name, role, email, phone, is_primary, created_at
		FROM client_contacts
		WHERE client_id = ?
		ORDER BY is_primary DESC, name
	`
	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*entity.ClientContact{}
	for rows.Next() {
		var c entity.ClientContact
		if err := rows.Scan(&c.ID, &c.ClientID, &c.Name, &c.Role, &c.Email, &c.Phone, &c.IsPrimary, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, &c)
	}
	return contacts, rows.Err()
}

// CommunicationRepository implements port.CommunicationRepository
type CommunicationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCommunicationRepository creates a new communication log repository
func NewCommunicationRepository(db *sql.DB, logger *zap.Logger) port.CommunicationRepository {
	return &CommunicationRepository{db: db, logger: logger}
}

// Create appends an entry to a client's communication log
func (r *CommunicationRepository) Create(ctx context.Context, comm *entity.ClientCommunication) error {
	query := `
		INSERT INTO client_communications (id, client_id, kind, subject, body, occurred_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		comm.ID,
		comm.ClientID,
		comm.Kind,
		comm.Subject,
		comm.Body,
		comm.OccurredAt.UTC(),
		comm.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to log communication",
			zap.String("client_id", comm.ClientID),
			zap.Error(err))
		return fmt.Errorf("failed to log communication: %w", err)
	}
	return nil
}

// ListByClient returns the log, most recent first
func (r *CommunicationRepository) ListByClient(ctx context.Context, clientID string) ([]*entity.ClientCommunication, error) {
	query := `
		SELECT id, client_id, kind, subject, body, occurred_at, created_at
		FROM client_communications
		WHERE client_id = ?
		ORDER BY occurred_at DESC
	`
	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list communications: %w", err)
	}
	defer rows.Close()

	comms := []*entity.ClientCommunication{}
	for rows.Next() {
		var c entity.ClientCommunication
		if err := rows.Scan(&c.ID, &c.ClientID, &c.Kind, &c.Subject, &c.Body, &c.OccurredAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan communication: %w", err)
		}
		comms = append(comms, &c)
	}
	return comms, rows.Err()
}

var (
	_ port.ContactRepository       = (*ContactRepository)(nil)
	_ port.CommunicationRepository = (*CommunicationRepository)(nil)
)
