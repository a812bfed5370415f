package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/apperr"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/domain/listing"
	"github.com/likelee/agency-dashboard/pkg/utils"
)

const (
	defaultShareTTL   = 7 * 24 * time.Hour
	maxShareTTL       = 90 * 24 * time.Hour
	sharePermView     = "view"
	sharePermDownload = "download"
)

// FileSchema drives search, filter and sort for the file browser
var FileSchema = listing.Schema[*entity.File]{
	SearchFields: []func(*entity.File) string{
		func(f *entity.File) string { return f.Name },
	},
	Filters: map[string]func(*entity.File) string{
		"folder": func(f *entity.File) string { return f.FolderName },
		"type":   func(f *entity.File) string { return f.Type },
	},
	StringSorts: map[string]func(*entity.File) string{
		"name": func(f *entity.File) string { return f.Name },
		"type": func(f *entity.File) string { return f.Type },
	},
	NumberSorts: map[string]func(*entity.File) float64{
		"size": func(f *entity.File) float64 { return float64(f.SizeBytes) },
		"date": func(f *entity.File) float64 { return float64(f.UploadedAt.UnixNano()) },
	},
}

// UploadInput is a file received from the browser
type UploadInput struct {
	FileName   string
	Folder     string
	UploadedBy string
	Content    []byte
}

// ShareInput describes a share link request
type ShareInput struct {
	Recipients []string      `json:"recipients"`
	Permission string        `json:"permission"`
	ExpiresIn  time.Duration `json:"-"`
	ExpiryDays int           `json:"expiry_days"`
}

// Download is file content ready to stream
type Download struct {
	File    *entity.File
	Content []byte
}

// SharedFile is what a share link recipient sees before downloading
type SharedFile struct {
	File        *entity.File `json:"file"`
	Permission  string       `json:"permission"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	CanDownload bool         `json:"can_download"`
}

// FileService manages the agency file browser
type FileService interface {
	ListFolders(ctx context.Context, agencyID string) ([]*entity.Folder, error)
	CreateFolder(ctx context.Context, agencyID, name string) (*entity.Folder, error)
	ListFiles(ctx context.Context, agencyID string, q listing.Query) (listing.Result[*entity.File], error)
	Upload(ctx context.Context, agencyID string, in UploadInput) (*entity.File, error)
	Delete(ctx context.Context, agencyID, id string) error
	Share(ctx context.Context, agencyID, id string, in ShareInput) (*entity.FileShare, error)
	Download(ctx context.Context, agencyID, id string) (*Download, error)
	ViewShared(ctx context.Context, token string) (*SharedFile, error)
	DownloadShared(ctx context.Context, token string) (*Download, error)
	StorageUsage(ctx context.Context, agencyID string) (*entity.StorageUsage, error)
}

type fileServiceImpl struct {
	folders     port.FolderRepository
	files       port.FileRepository
	shares      port.FileShareRepository
	storage     port.BlobStorage
	thumbnailer port.Thumbnailer
	limitBytes  int64
	maxUpload   int64
	logger      Logger
	now         func() time.Time
}

// NewFileService creates a new FileService. limitBytes is the agency's
// storage quota; maxUpload caps a single file.
func NewFileService(
	folders port.FolderRepository,
	files port.FileRepository,
	shares port.FileShareRepository,
	storage port.BlobStorage,
	thumbnailer port.Thumbnailer,
	limitBytes int64,
	maxUpload int64,
	logger Logger,
) FileService {
	return &fileServiceImpl{
		folders:     folders,
		files:       files,
		shares:      shares,
		storage:     storage,
		thumbnailer: thumbnailer,
		limitBytes:  limitBytes,
		maxUpload:   maxUpload,
		logger:      logger,
		now:         nowUTC,
	}
}

func (s *fileServiceImpl) ListFolders(ctx context.Context, agencyID string) ([]*entity.Folder, error) {
	folders, err := s.folders.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

func (s *fileServiceImpl) CreateFolder(ctx context.Context, agencyID, name string) (*entity.Folder, error) {
	name = utils.SanitizeString(name)
	if name == "" {
		return nil, apperr.Validation("folder name is required")
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, apperr.Validation("folder name cannot contain slashes")
	}

	existing, err := s.folders.GetByName(ctx, agencyID, name)
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("a folder named %q already exists", name)
	}

	folder := &entity.Folder{
		ID:        newID(),
		AgencyID:  agencyID,
		Name:      name,
		CreatedAt: s.now(),
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		s.logger.Error("Failed to create folder", "agency_id", agencyID, "name", name, "error", err)
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return folder, nil
}

func (s *fileServiceImpl) ListFiles(ctx context.Context, agencyID string, q listing.Query) (listing.Result[*entity.File], error) {
	files, err := s.files.ListByAgency(ctx, agencyID)
	if err != nil {
		return listing.Result[*entity.File]{}, fmt.Errorf("list files: %w", err)
	}
	for _, f := range files {
		s.decorate(f)
	}
	return FileSchema.Apply(files, q), nil
}

func (s *fileServiceImpl) Upload(ctx context.Context, agencyID string, in UploadInput) (*entity.File, error) {
	name := path.Base(strings.ReplaceAll(utils.SanitizeString(in.FileName), `\`, "/"))
	if name == "" || name == "." || name == "/" || name == ".." {
		return nil, apperr.Validation("file name is required")
	}
	if len(in.Content) == 0 {
		return nil, apperr.Validation("file is empty")
	}
	size := int64(len(in.Content))
	if s.maxUpload > 0 && size > s.maxUpload {
		return nil, apperr.Validation("file exceeds the %s upload limit", FormatBytes(s.maxUpload))
	}

	if s.limitBytes > 0 {
		used, _, err := s.files.Usage(ctx, agencyID)
		if err != nil {
			return nil, fmt.Errorf("upload file: %w", err)
		}
		if used+size > s.limitBytes {
			return nil, apperr.Validation("storage limit of %s reached", FormatBytes(s.limitBytes))
		}
	}

	file := &entity.File{
		ID:         newID(),
		AgencyID:   agencyID,
		Name:       name,
		Type:       FileType(name),
		SizeBytes:  size,
		UploadedBy: utils.SanitizeString(in.UploadedBy),
		UploadedAt: s.now(),
	}

	if folderName := utils.SanitizeString(in.Folder); folderName != "" {
		folder, err := s.folders.GetByName(ctx, agencyID, folderName)
		if err != nil {
			return nil, fmt.Errorf("upload file: %w", err)
		}
		if folder == nil {
			return nil, apperr.NotFound("folder", folderName)
		}
		file.FolderID = folder.ID
		file.FolderName = folder.Name
	}

	file.StoragePath = path.Join(agencyID, file.ID, name)
	if path.Dir(file.StoragePath) != path.Join(agencyID, file.ID) {
		return nil, apperr.Validation("invalid file name %q", name)
	}
	if err := s.storage.Save(ctx, entity.BucketFiles, file.StoragePath, in.Content); err != nil {
		s.logger.Error("Failed to store upload", "agency_id", agencyID, "name", name, "error", err)
		return nil, apperr.Storage("store upload", err)
	}

	s.storeThumbnail(ctx, file, in.Content)

	if err := s.files.Create(ctx, file); err != nil {
		_ = s.storage.Delete(ctx, entity.BucketFiles, file.StoragePath)
		if file.ThumbnailPath != "" {
			_ = s.storage.Delete(ctx, entity.BucketPublic, file.ThumbnailPath)
		}
		s.logger.Error("Failed to record upload", "agency_id", agencyID, "name", name, "error", err)
		return nil, fmt.Errorf("upload file: %w", err)
	}

	s.decorate(file)
	s.logger.Info("File uploaded", "agency_id", agencyID, "file_id", file.ID, "type", file.Type, "size", size)
	return file, nil
}

// storeThumbnail renders a preview; failures leave the file without one
func (s *fileServiceImpl) storeThumbnail(ctx context.Context, file *entity.File, content []byte) {
	if s.thumbnailer == nil {
		return
	}
	thumb, err := s.thumbnailer.Thumbnail(ctx, file.Type, content)
	if err != nil {
		s.logger.Error("Failed to render thumbnail", "file_id", file.ID, "type", file.Type, "error", err)
		return
	}
	if len(thumb) == 0 {
		return
	}

	thumbPath := path.Join("thumbnails", file.AgencyID, file.ID+".png")
	if err := s.storage.Save(ctx, entity.BucketPublic, thumbPath, thumb); err != nil {
		s.logger.Error("Failed to store thumbnail", "file_id", file.ID, "error", err)
		return
	}
	file.ThumbnailPath = thumbPath
}

func (s *fileServiceImpl) Delete(ctx context.Context, agencyID, id string) error {
	file, err := s.get(ctx, agencyID, id)
	if err != nil {
		return err
	}

	deleted, err := s.files.Delete(ctx, agencyID, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if !deleted {
		return apperr.NotFound("file", id)
	}

	if err := s.storage.Delete(ctx, entity.BucketFiles, file.StoragePath); err != nil {
		s.logger.Error("Failed to remove stored file", "file_id", id, "path", file.StoragePath, "error", err)
	}
	if file.ThumbnailPath != "" {
		if err := s.storage.Delete(ctx, entity.BucketPublic, file.ThumbnailPath); err != nil {
			s.logger.Error("Failed to remove thumbnail", "file_id", id, "error", err)
		}
	}

	s.logger.Info("File deleted", "agency_id", agencyID, "file_id", id)
	return nil
}

func (s *fileServiceImpl) Share(ctx context.Context, agencyID, id string, in ShareInput) (*entity.FileShare, error) {
	if _, err := s.get(ctx, agencyID, id); err != nil {
		return nil, err
	}

	recipients := make([]string, 0, len(in.Recipients))
	for _, r := range in.Recipients {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if err := utils.ValidateEmail(r); err != nil {
			return nil, apperr.Validation("%v", err)
		}
		recipients = append(recipients, strings.ToLower(r))
	}

	perm := strings.ToLower(strings.TrimSpace(in.Permission))
	switch perm {
	case "":
		perm = sharePermView
	case sharePermView, sharePermDownload:
	default:
		return nil, apperr.Validation("unknown share permission %q", in.Permission)
	}

	ttl := in.ExpiresIn
	if ttl == 0 && in.ExpiryDays > 0 {
		ttl = time.Duration(in.ExpiryDays) * 24 * time.Hour
	}
	if ttl <= 0 {
		ttl = defaultShareTTL
	}
	if ttl > maxShareTTL {
		return nil, apperr.Validation("share links can last at most %d days", int(maxShareTTL.Hours()/24))
	}

	now := s.now()
	expires := now.Add(ttl)
	share := &entity.FileShare{
		ID:         newID(),
		FileID:     id,
		Token:      strings.ReplaceAll(uuid.NewString(), "-", ""),
		Recipients: recipients,
		Permission: perm,
		ExpiresAt:  &expires,
		CreatedAt:  now,
	}
	if err := s.shares.Create(ctx, share); err != nil {
		s.logger.Error("Failed to create share link", "file_id", id, "error", err)
		return nil, fmt.Errorf("share file: %w", err)
	}

	s.logger.Info("File shared", "file_id", id, "recipients", len(recipients), "permission", perm)
	return share, nil
}

func (s *fileServiceImpl) Download(ctx context.Context, agencyID, id string) (*Download, error) {
	file, err := s.get(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}
	content, err := s.storage.Read(ctx, entity.BucketFiles, file.StoragePath)
	if err != nil {
		return nil, apperr.Storage("read file", err)
	}
	s.decorate(file)
	return &Download{File: file, Content: content}, nil
}

// ViewShared resolves a link of either permission to the file's metadata
func (s *fileServiceImpl) ViewShared(ctx context.Context, token string) (*SharedFile, error) {
	share, err := s.resolveShare(ctx, token)
	if err != nil {
		return nil, err
	}
	file, err := s.get(ctx, share.AgencyID, share.FileID)
	if err != nil {
		return nil, err
	}
	s.decorate(file)
	return &SharedFile{
		File:        file,
		Permission:  share.Permission,
		ExpiresAt:   share.ExpiresAt,
		CanDownload: share.Permission == sharePermDownload,
	}, nil
}

func (s *fileServiceImpl) DownloadShared(ctx context.Context, token string) (*Download, error) {
	share, err := s.resolveShare(ctx, token)
	if err != nil {
		return nil, err
	}
	if share.Permission != sharePermDownload {
		return nil, apperr.Validation("this share link does not allow downloads")
	}

	return s.Download(ctx, share.AgencyID, share.FileID)
}

func (s *fileServiceImpl) resolveShare(ctx context.Context, token string) (*entity.FileShare, error) {
	share, err := s.shares.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolve share: %w", err)
	}
	if share == nil {
		return nil, apperr.NotFound("share link", token)
	}
	if share.ExpiresAt != nil && s.now().After(*share.ExpiresAt) {
		return nil, apperr.Validation("this share link has expired")
	}
	return share, nil
}

func (s *fileServiceImpl) StorageUsage(ctx context.Context, agencyID string) (*entity.StorageUsage, error) {
	used, count, err := s.files.Usage(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("storage usage: %w", err)
	}
	usage := &entity.StorageUsage{
		UsedBytes:  used,
		LimitBytes: s.limitBytes,
		FileCount:  count,
	}
	if s.limitBytes > 0 {
		usage.Percent = float64(used) * 100 / float64(s.limitBytes)
	}
	return usage, nil
}

func (s *fileServiceImpl) get(ctx context.Context, agencyID, id string) (*entity.File, error) {
	file, err := s.files.GetByID(ctx, agencyID, id)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	if file == nil {
		return nil, apperr.NotFound("file", id)
	}
	return file, nil
}

func (s *fileServiceImpl) decorate(f *entity.File) {
	f.Size = FormatBytes(f.SizeBytes)
	if f.ThumbnailPath != "" {
		f.ThumbnailURL = s.storage.PublicURL(entity.BucketPublic, f.ThumbnailPath)
	}
}

// FileType derives the display type from a file name's extension
func FileType(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	switch ext {
	case "":
		return "file"
	case "jpeg":
		return "jpg"
	default:
		return ext
	}
}

// FormatBytes renders a size the way the file browser shows it, e.g. "2.4 MB"
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
