package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/likelee/agency-dashboard/internal/domain/entity"
)

func newTestStorage(t *testing.T) (*BucketStorage, string) {
	t.Helper()
	dir := t.TempDir()
	logger, _ := zap.NewDevelopment()
	s := NewBucketStorage(dir, "http://localhost:8080/storage", logger)
	require.NoError(t, s.Init())
	return s, dir
}

func TestBucketStorage_SaveReadDelete(t *testing.T) {
	s, dir := newTestStorage(t)
	ctx := context.Background()

	t.Run("saves into bucket directory", func(t *testing.T) {
		err := s.Save(ctx, entity.BucketFiles, "ag1/contracts/nike.pdf", []byte("PDF content"))
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, entity.BucketFiles, "ag1", "contracts", "nike.pdf"))

		content, err := s.Read(ctx, entity.BucketFiles, "ag1/contracts/nike.pdf")
		require.NoError(t, err)
		assert.Equal(t, []byte("PDF content"), content)
		assert.True(t, s.Exists(ctx, entity.BucketFiles, "ag1/contracts/nike.pdf"))
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, entity.BucketPublic, "logos/ag1.png", []byte("original")))
		require.NoError(t, s.Save(ctx, entity.BucketPublic, "logos/ag1.png", []byte("updated")))

		content, err := os.ReadFile(filepath.Join(dir, entity.BucketPublic, "logos", "ag1.png"))
		require.NoError(t, err)
		assert.Equal(t, []byte("updated"), content)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, entity.BucketFiles, "ag1/contracts/nike.pdf"))
		require.NoError(t, s.Delete(ctx, entity.BucketFiles, "ag1/contracts/nike.pdf"))
		assert.False(t, s.Exists(ctx, entity.BucketFiles, "ag1/contracts/nike.pdf"))
	})

	t.Run("read of missing file fails", func(t *testing.T) {
		_, err := s.Read(ctx, entity.BucketFiles, "nope.txt")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestBucketStorage_RejectsEscapes(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	t.Run("path traversal", func(t *testing.T) {
		err := s.Save(ctx, entity.BucketFiles, "../agency-files-evil/x", []byte("x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "escapes bucket")
	})

	t.Run("traversal into sibling bucket", func(t *testing.T) {
		_, err := s.Read(ctx, entity.BucketFiles, "../likelee-public/logos/ag1.png")
		assert.Error(t, err)
	})

	t.Run("unknown bucket", func(t *testing.T) {
		err := s.Save(ctx, "secrets", "x", []byte("x"))
		assert.ErrorIs(t, err, ErrUnknownBucket)
		assert.False(t, s.Exists(ctx, "secrets", "x"))
	})

	t.Run("bucket root itself", func(t *testing.T) {
		assert.Error(t, s.Delete(ctx, entity.BucketFiles, "."))
	})
}

func TestBucketStorage_PublicURL(t *testing.T) {
	s, _ := newTestStorage(t)

	assert.Equal(t,
		"http://localhost:8080/storage/likelee-public/logos/ag%201.png",
		s.PublicURL(entity.BucketPublic, "logos/ag 1.png"))
	assert.Equal(t,
		"http://localhost:8080/storage/likelee-public/etc/passwd",
		s.PublicURL(entity.BucketPublic, "../../etc/passwd"))
}
