package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
)

// ErrUnknownBucket is returned for buckets the storage was not configured with
var ErrUnknownBucket = errors.New("unknown bucket")

// BucketStorage implements port.BlobStorage on the local filesystem. Each
// bucket is a directory under baseDir.
type BucketStorage struct {
	baseDir       string
	publicBaseURL string
	buckets       map[string]bool
	logger        *zap.Logger
}

// NewBucketStorage creates a storage rooted at baseDir serving the given
// buckets. publicBaseURL prefixes the URLs returned by PublicURL.
func NewBucketStorage(baseDir, publicBaseURL string, logger *zap.Logger, buckets ...string) *BucketStorage {
	if len(buckets) == 0 {
		buckets = []string{entity.BucketPublic, entity.BucketFiles}
	}
	allowed := make(map[string]bool, len(buckets))
	for _, b := range buckets {
		allowed[b] = true
	}
	return &BucketStorage{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		buckets:       allowed,
		logger:        logger,
	}
}

// Init creates the bucket directories
func (s *BucketStorage) Init() error {
	for b := range s.buckets {
		dir := filepath.Join(s.baseDir, b)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", b, err)
		}
	}
	return nil
}

// Save writes content to bucket/path, creating parent directories
func (s *BucketStorage) Save(ctx context.Context, bucket, path string, content []byte) error {
	fullPath, err := s.resolve(bucket, path)
	if err != nil {
		return err
	}

	parentDir := filepath.Dir(fullPath)
	if err := os.MkdirAll(parentDir, 0755); err != nil {
		s.logger.Error("Failed to create parent directories",
			zap.String("path", parentDir),
			zap.Error(err))
		return fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write file",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("File saved",
		zap.String("bucket", bucket),
		zap.String("path", path),
		zap.Int("size", len(content)))
	return nil
}

// Read returns the content stored at bucket/path
func (s *BucketStorage) Read(ctx context.Context, bucket, path string) ([]byte, error) {
	fullPath, err := s.resolve(bucket, path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Error("Failed to read file",
				zap.String("path", fullPath),
				zap.Error(err))
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// Exists reports whether bucket/path holds a file
func (s *BucketStorage) Exists(ctx context.Context, bucket, path string) bool {
	fullPath, err := s.resolve(bucket, path)
	if err != nil {
		return false
	}
	info, err := os.Stat(fullPath)
	return err == nil && !info.IsDir()
}

// Delete removes bucket/path. Missing files are not an error.
func (s *BucketStorage) Delete(ctx context.Context, bucket, path string) error {
	fullPath, err := s.resolve(bucket, path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error("Failed to delete file",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// PublicURL returns the address the HTTP layer serves bucket/path from
func (s *BucketStorage) PublicURL(bucket, p string) string {
	segments := strings.Split(path.Clean("/"+p), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicBaseURL + "/" + url.PathEscape(bucket) + strings.Join(segments, "/")
}

// Root returns the directory backing a bucket
func (s *BucketStorage) Root(bucket string) (string, error) {
	if !s.buckets[bucket] {
		return "", fmt.Errorf("%w: %s", ErrUnknownBucket, bucket)
	}
	return filepath.Join(s.baseDir, bucket), nil
}

// resolve maps bucket/path to a filesystem path, rejecting escapes
func (s *BucketStorage) resolve(bucket, relativePath string) (string, error) {
	root, err := s.Root(bucket)
	if err != nil {
		return "", err
	}
	if relativePath == "" {
		return "", fmt.Errorf("empty path")
	}

	fullPath := filepath.Join(root, relativePath)

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes bucket %s: %s", bucket, relativePath)
	}
	return absPath, nil
}

var _ port.BlobStorage = (*BucketStorage)(nil)
