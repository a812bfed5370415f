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

const fileSelect = `
	SELECT fi.id, fi.agency_id, fi.folder_id, COALESCE(fo.name, ''), fi.name, fi.type,
		fi.size_bytes, fi.storage_path, fi.thumbnail_path, fi.uploaded_by, fi.uploaded_at
	FROM files fi
	LEFT JOIN folders fo ON fo.id = fi.folder_id`

// FileRepository implements port.FileRepository
type FileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *sql.DB, logger *zap.Logger) port.FileRepository {
	return &FileRepository{db: db, logger: logger}
}

// Create records an uploaded file
func (r *FileRepository) Create(ctx context.Context, file *entity.File) error {
	query := `
		INSERT INTO files (
			id, agency_id, folder_id, name, type, size_bytes,
			storage_path, thumbnail_path, uploaded_by, uploaded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		file.ID,
		file.AgencyID,
		nullString(file.FolderID),
		file.Name,
		file.Type,
		file.SizeBytes,
		file.StoragePath,
		file.ThumbnailPath,
		file.UploadedBy,
		file.UploadedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create file",
			zap.String("agency_id", file.AgencyID),
			zap.String("name", file.Name),
			zap.Error(err))
		return fmt.Errorf("failed to create file: %w", err)
	}
	return nil
}

// GetByID retrieves a file with its folder name
func (r *FileRepository) GetByID(ctx context.Context, agencyID, id string) (*entity.File, error) {
	query := fileSelect + ` WHERE fi.agency_id = ? AND fi.id = ?`

	file, err := scanFile(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, agencyID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get file", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return file, nil
}

// ListByAgency returns files, most recently uploaded first
func (r *FileRepository) ListByAgency(ctx context.Context, agencyID string) ([]*entity.File, error) {
	query := fileSelect + ` WHERE fi.agency_id = ? ORDER BY fi.uploaded_at DESC`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, agencyID)
	if err != nil {
		r.logger.Error("Failed to list files", zap.String("agency_id", agencyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := []*entity.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Delete removes the file record; share links cascade
func (r *FileRepository) Delete(ctx context.Context, agencyID, id string) (bool, error) {
	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM files WHERE agency_id = ? AND id = ?`, agencyID, id)
	if err != nil {
		r.logger.Error("Failed to delete file", zap.String("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete file: %w", err)
	}
	return affected(result)
}

// Usage sums stored bytes for an agency
func (r *FileRepository) Usage(ctx context.Context, agencyID string) (int64, int, error) {
	var (
		used  int64
		count int
	)
	err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(size_bytes), 0), COUNT(*) FROM files WHERE agency_id = ?`, agencyID,
	).Scan(&used, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to compute storage usage: %w", err)
	}
	return used, count, nil
}

func scanFile(row rowScanner) (*entity.File, error) {
	var (
		f        entity.File
		folderID sql.NullString
	)
	err := row.Scan(
		&f.ID,
		&f.AgencyID,
		&folderID,
		&f.FolderName,
		&f.Name,
		&f.Type,
		&f.SizeBytes,
		&f.StoragePath,
		&f.ThumbnailPath,
		&f.UploadedBy,
		&f.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan file: %w", err)
	}
	f.FolderID = folderID.String
	return &f, nil
}

// FileShareRepository implements port.FileShareRepository
type FileShareRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewFileShareRepository creates a new share link repository
func NewFileShareRepository(db *sql.DB, logger *zap.Logger) port.FileShareRepository {
	return &FileShareRepository{db: db, logger: logger}
}

// Create stores a share link
func (r *FileShareRepository) Create(ctx context.Context, share *entity.FileShare) error {
	recipients, err := marshalJSON(share.Recipients, "[]")
	if err != nil {
		return err
	}

	query := `
		INSERT INTO file_shares (id, file_id, token, recipients, permission, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		share.ID,
		share.FileID,
		share.Token,
		recipients,
		share.Permission,
		nullTime(share.ExpiresAt),
		share.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create file share", zap.String("file_id", share.FileID), zap.Error(err))
		return fmt.Errorf("failed to create file share: %w", err)
	}
	return nil
}

// GetByToken resolves a share link
func (r *FileShareRepository) GetByToken(ctx context.Context, token string) (*entity.FileShare, error) {
	query := `
		SELECT fs.id, fs.file_id, f.agency_id, fs.token, fs.recipients, fs.permission, fs.expires_at, fs.created_at
		FROM file_shares fs
		JOIN files f ON f.id = fs.file_id
		WHERE fs.token = ?
	`
	var (
		s          entity.FileShare
		recipients sql.NullString
		expiresAt  sql.NullTime
	)
	err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, token).Scan(
		&s.ID, &s.FileID, &s.AgencyID, &s.Token, &recipients, &s.Permission, &expiresAt, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file share: %w", err)
	}

	s.ExpiresAt = timePtr(expiresAt)
	s.Recipients = []string{}
	if err := unmarshalJSON(recipients, &s.Recipients); err != nil {
		return nil, err
	}
	return &s, nil
}

var (
	_ port.FileRepository      = (*FileRepository)(nil)
	_ port.FileShareRepository = (*FileShareRepository)(nil)
)
