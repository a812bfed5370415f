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

const earningColumns = `
	id, agency_id, talent_name, division, period, booking_count, gross_cents,
	commission_rate, commission_cents, net_cents, status, paid_at, created_at`

// EarningRepository implements port.EarningRepository
type EarningRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEarningRepository creates a new talent earnings repository
func NewEarningRepository(db *sql.DB, logger *zap.Logger) port.EarningRepository {
	return &EarningRepository{db: db, logger: logger}
}

// Create inserts a statement line
func (r *EarningRepository) Create(ctx context.Context, e *entity.TalentEarning) error {
	query := `
		INSERT INTO talent_earnings (` + earningColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		e.ID,
		e.AgencyID,
		e.TalentName,
		e.Division,
		e.Period,
		e.BookingCount,
		e.GrossCents,
		e.CommissionRate,
		e.CommissionCents,
		e.NetCents,
		e.Status,
		nullTime(e.PaidAt),
		e.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create talent earning",
			zap.String("talent", e.TalentName),
			zap.String("period", e.Period),
			zap.Error(err))
		return fmt.Errorf("failed to create talent earning: %w", err)
	}
	return nil
}

// GetByID retrieves one statement line
func (r *EarningRepository) GetByID(ctx context.Context, agencyID, id string) (*entity.TalentEarning, error) {
	query := `SELECT ` + earningColumns + ` FROM talent_earnings WHERE agency_id = ? AND id = ?`

	e, err := scanEarning(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, agencyID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get talent earning: %w", err)
	}
	return e, nil
}

// ListByAgency returns statement lines, latest period first
func (r *EarningRepository) ListByAgency(ctx context.Context, agencyID string) ([]*entity.TalentEarning, error) {
	query := `SELECT ` + earningColumns + ` FROM talent_earnings WHERE agency_id = ? ORDER BY period DESC, talent_name`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, agencyID)
	if err != nil {
		r.logger.Error("Failed to list talent earnings", zap.String("agency_id", agencyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list talent earnings: %w", err)
	}
	defer rows.Close()

	earnings := []*entity.TalentEarning{}
	for rows.Next() {
		e, err := scanEarning(rows)
		if err != nil {
			return nil, err
		}
		earnings = append(earnings, e)
	}
	return earnings, rows.Err()
}

// Update persists recomputed amounts and payout status
func (r *EarningRepository) Update(ctx context.Context, e *entity.TalentEarning) error {
	query := `
		UPDATE talent_earnings SET
			division = ?, booking_count = ?, gross_cents = ?, commission_rate = ?,
			commission_cents = ?, net_cents = ?, status = ?, paid_at = ?
		WHERE agency_id = ? AND id = ?
	`
	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		e.Division,
		e.BookingCount,
		e.GrossCents,
		e.CommissionRate,
		e.CommissionCents,
		e.NetCents,
		e.Status,
		nullTime(e.PaidAt),
		e.AgencyID,
		e.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update talent earning", zap.String("id", e.ID), zap.Error(err))
		return fmt.Errorf("failed to update talent earning: %w", err)
	}
	return nil
}

func scanEarning(row rowScanner) (*entity.TalentEarning, error) {
	var (
		e      entity.TalentEarning
		paidAt sql.NullTime
	)
	err := row.Scan(
		&e.ID,
		&e.AgencyID,
		&e.TalentName,
		&e.Division,
		&e.Period,
		&e.BookingCount,
		&e.GrossCents,
		&e.CommissionRate,
		&e.CommissionCents,
		&e.NetCents,
		&e.Status,
		&paidAt,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan talent earning: %w", err)
	}
	e.PaidAt = timePtr(paidAt)
	return &e, nil
}

var _ port.EarningRepository = (*EarningRepository)(nil)
