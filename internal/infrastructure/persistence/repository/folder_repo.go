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

const folderSelect = `
	SELECT f.id, f.agency_id, f.name, f.created_at,
		COUNT(fi.id), COALESCE(SUM(fi.size_bytes), 0)
	FROM folders f
	LEFT JOIN files fi ON fi.folder_id = f.id`

// FolderRepository implements port.FolderRepository
type FolderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(db *sql.DB, logger *zap.Logger) port.FolderRepository {
	return &FolderRepository{db: db, logger: logger}
}

// Create inserts a folder. Names are unique per agency.
func (r *FolderRepository) Create(ctx context.Context, folder *entity.Folder) error {
	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx,
		`INSERT INTO folders (id, agency_id, name, created_at) VALUES (?, ?, ?, ?)`,
		folder.ID, folder.AgencyID, folder.Name, folder.CreatedAt.UTC())
	if err != nil {
		r.logger.Error("Failed to create folder",
			zap.String("agency_id", folder.AgencyID),
			zap.String("name", folder.Name),
			zap.Error(err))
		return fmt.Errorf("failed to create folder: %w", err)
	}
	return nil
}

// GetByID retrieves a folder with its file totals
func (r *FolderRepository) GetByID(ctx context.Context, agencyID, id string) (*entity.Folder, error) {
	query := folderSelect + ` WHERE f.agency_id = ? AND f.id = ? GROUP BY f.id`
	return r.getOne(ctx, query, agencyID, id)
}

// GetByName retrieves a folder by its case-insensitive name
func (r *FolderRepository) GetByName(ctx context.Context, agencyID, name string) (*entity.Folder, error) {
	query := folderSelect + ` WHERE f.agency_id = ? AND f.name = ? COLLATE NOCASE GROUP BY f.id`
	return r.getOne(ctx, query, agencyID, name)
}

// ListByAgency returns folders ordered by name
func (r *FolderRepository) ListByAgency(ctx context.Context, agencyID string) ([]*entity.Folder, error) {
	query := folderSelect + ` WHERE f.agency_id = ? GROUP BY f.id ORDER BY f.name`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, agencyID)
	if err != nil {
		r.logger.Error("Failed to list folders", zap.String("agency_id", agencyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	folders := []*entity.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (r *FolderRepository) getOne(ctx context.Context, query string, args ...interface{}) (*entity.Folder, error) {
	folder, err := scanFolder(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}
	return folder, nil
}

func scanFolder(row rowScanner) (*entity.Folder, error) {
	var f entity.Folder
	if err := row.Scan(&f.ID, &f.AgencyID, &f.Name, &f.CreatedAt, &f.FileCount, &f.TotalBytes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan folder: %w", err)
	}
	return &f, nil
}

var _ port.FolderRepository = (*FolderRepository)(nil)
