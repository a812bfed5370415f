package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/infrastructure/persistence/sqlite"
)

// SettingsRepository implements port.SettingsRepository
type SettingsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sql.DB, logger *zap.Logger) port.SettingsRepository {
	return &SettingsRepository{db: db, logger: logger}
}

func tableFor(category port.SettingsCategory) (string, error) {
	switch category {
	case port.SettingsCommission, port.SettingsNotifications, port.SettingsTaxCurrency:
		return string(category), nil
	default:
		return "", fmt.Errorf("unknown settings category %q", category)
	}
}

// Get returns the stored payload, or nil when the agency has no row yet
func (r *SettingsRepository) Get(ctx context.Context, category port.SettingsCategory, agencyID string) ([]byte, error) {
	table, err := tableFor(category)
	if err != nil {
		return nil, err
	}

	var payload string
	err = sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx,
		`SELECT payload FROM `+table+` WHERE agency_id = ?`, agencyID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to read settings",
			zap.String("table", table),
			zap.String("agency_id", agencyID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	return []byte(payload), nil
}

// Upsert replaces the payload for an agency
func (r *SettingsRepository) Upsert(ctx context.Context, category port.SettingsCategory, agencyID string, payload []byte) error {
	table, err := tableFor(category)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ` + table + ` (agency_id, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(agency_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`
	if _, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query, agencyID, string(payload), time.Now().UTC()); err != nil {
		r.logger.Error("Failed to upsert settings",
			zap.String("table", table),
			zap.String("agency_id", agencyID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert %s: %w", table, err)
	}
	return nil
}

// ListEmailTemplates returns every stored template for an agency
func (r *SettingsRepository) ListEmailTemplates(ctx context.Context, agencyID string) ([]*entity.EmailTemplate, error) {
	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx,
		`SELECT template_key, payload FROM agency_email_templates WHERE agency_id = ? ORDER BY template_key`, agencyID)
	if err != nil {
		r.logger.Error("Failed to list email templates", zap.String("agency_id", agencyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list email templates: %w", err)
	}
	defer rows.Close()

	templates := []*entity.EmailTemplate{}
	for rows.Next() {
		var key, payload string
		if err := rows.Scan(&key, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan email template: %w", err)
		}
		var tpl entity.EmailTemplate
		if err := json.Unmarshal([]byte(payload), &tpl); err != nil {
			return nil, fmt.Errorf("failed to decode email template %s: %w", key, err)
		}
		tpl.TemplateKey = key
		templates = append(templates, &tpl)
	}
	return templates, rows.Err()
}

// UpsertEmailTemplate stores one template keyed by agency and template key
func (r *SettingsRepository) UpsertEmailTemplate(ctx context.Context, agencyID string, tpl *entity.EmailTemplate) error {
	payload, err := json.Marshal(tpl)
	if err != nil {
		return fmt.Errorf("failed to encode email template: %w", err)
	}

	query := `
		INSERT INTO agency_email_templates (agency_id, template_key, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(agency_id, template_key) DO UPDATE SET
			payload = excluded.payload, updated_at = excluded.updated_at
	`
	_, err = sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		agencyID, tpl.TemplateKey, string(payload), time.Now().UTC())
	if err != nil {
		r.logger.Error("Failed to upsert email template",
			zap.String("agency_id", agencyID),
			zap.String("template_key", tpl.TemplateKey),
			zap.Error(err))
		return fmt.Errorf("failed to upsert email template: %w", err)
	}
	return nil
}

var _ port.SettingsRepository = (*SettingsRepository)(nil)
