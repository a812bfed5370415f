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

// AgencyRepository implements port.AgencyRepository
type AgencyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAgencyRepository creates a new agency profile repository
func NewAgencyRepository(db *sql.DB, logger *zap.Logger) port.AgencyRepository {
	return &AgencyRepository{db: db, logger: logger}
}

// GetByID retrieves an agency profile
func (r *AgencyRepository) GetByID(ctx context.Context, id string) (*entity.Agency, error) {
	query := `
		SELECT id, name, legal_name, email, phone, website, address, logo_url,
			kyc_status, created_at, updated_at
		FROM agencies WHERE id = ?
	`
	var a entity.Agency
	err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.Name,
		&a.LegalName,
		&a.Email,
		&a.Phone,
		&a.Website,
		&a.Address,
		&a.LogoURL,
		&a.KYCStatus,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get agency", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get agency: %w", err)
	}
	return &a, nil
}

// Upsert writes the full profile; created_at is kept on update
func (r *AgencyRepository) Upsert(ctx context.Context, a *entity.Agency) error {
	query := `
		INSERT INTO agencies (
			id, name, legal_name, email, phone, website, address, logo_url,
			kyc_status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			legal_name = excluded.legal_name,
			email = excluded.email,
			phone = excluded.phone,
			website = excluded.website,
			address = excluded.address,
			logo_url = excluded.logo_url,
			kyc_status = excluded.kyc_status,
			updated_at = excluded.updated_at
	`
	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		a.ID,
		a.Name,
		a.LegalName,
		a.Email,
		a.Phone,
		a.Website,
		a.Address,
		a.LogoURL,
		a.KYCStatus,
		a.CreatedAt.UTC(),
		a.UpdatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to upsert agency", zap.String("id", a.ID), zap.Error(err))
		return fmt.Errorf("failed to upsert agency: %w", err)
	}
	return nil
}

// UpdateLogo records a new logo URL
func (r *AgencyRepository) UpdateLogo(ctx context.Context, id, logoURL string) error {
	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx,
		`UPDATE agencies SET logo_url = ?, updated_at = ? WHERE id = ?`,
		logoURL, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to update agency logo", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update agency logo: %w", err)
	}

	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("agency %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

var _ port.AgencyRepository = (*AgencyRepository)(nil)
