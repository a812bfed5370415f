package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/likelee/agency-dashboard/internal/domain/apperr"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/domain/listing"
)

type fileFixture struct {
	svc     *fileServiceImpl
	folders *mockFolderRepo
	files   *mockFileRepo
	shares  *mockShareRepo
	storage *mockBlobStorage
}

func newFileFixture(limit int64) *fileFixture {
	folders := &mockFolderRepo{folders: []*entity.Folder{{ID: "fo1", AgencyID: "ag1", Name: "Contracts"}}}
	files := newMockFileRepo()
	shares := &mockShareRepo{files: files}
	storage := newMockBlobStorage()
	svc := NewFileService(folders, files, shares, storage, &mockThumbnailer{thumb: []byte("png")}, limit, 1<<20, &mockLogger{}).(*fileServiceImpl)
	svc.now = fixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	return &fileFixture{svc: svc, folders: folders, files: files, shares: shares, storage: storage}
}

func TestFileService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores content and thumbnail", func(t *testing.T) {
		fx := newFileFixture(0)

		file, err := fx.svc.Upload(ctx, "ag1", UploadInput{FileName: "Nike Contract.PDF", Folder: "contracts", UploadedBy: "Sam", Content: []byte("%PDF-1.4")})
		require.NoError(t, err)

		assert.Equal(t, "pdf", file.Type)
		assert.Equal(t, "Contracts", file.FolderName)
		assert.Equal(t, "fo1", file.FolderID)
		assert.Equal(t, "8 B", file.Size)
		assert.True(t, fx.storage.Exists(ctx, entity.BucketFiles, file.StoragePath))
		assert.True(t, fx.storage.Exists(ctx, entity.BucketPublic, file.ThumbnailPath))
		assert.Equal(t, "http://files.test/likelee-public/"+file.ThumbnailPath, file.ThumbnailURL)
	})

	t.Run("strips directories from the name", func(t *testing.T) {
		fx := newFileFixture(0)

		file, err := fx.svc.Upload(ctx, "ag1", UploadInput{FileName: `..\..\etc\passwd.txt`, Content: []byte("x")})
		require.NoError(t, err)
		assert.Equal(t, "passwd.txt", file.Name)
		assert.Empty(t, file.ThumbnailPath)
	})

	t.Run("rejects parent directory names", func(t *testing.T) {
		fx := newFileFixture(0)

		for _, name := range []string{"..", "docs/..", `..\..`, " .. "} {
			_, err := fx.svc.Upload(ctx, "ag1", UploadInput{FileName: name, Content: []byte("x")})
			assert.ErrorIs(t, err, apperr.ErrValidation, name)
		}
		assert.Empty(t, fx.storage.objects)

		file, err := fx.svc.Upload(ctx, "ag1", UploadInput{FileName: "contract.txt", Content: []byte("x")})
		require.NoError(t, err)
		assert.Equal(t, "ag1/"+file.ID+"/contract.txt", file.StoragePath)
	})

	t.Run("rejects unknown folder", func(t *testing.T) {
		fx := newFileFixture(0)

		_, err := fx.svc.Upload(ctx, "ag1", UploadInput{FileName: "a.png", Folder: "Nope", Content: []byte("x")})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.Empty(t, fx.storage.objects)
	})

	t.Run("rejects empty files", func(t *testing.T) {
		fx := newFileFixture(0)

		_, err := fx.svc.Upload(ctx, "ag1", UploadInput{FileName: "a.png"})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("enforces the storage limit", func(t *testing.T) {
		fx := newFileFixture(10)

		_, err := fx.svc.Upload(ctx, "ag1", UploadInput{FileName: "a.png", Content: make([]byte, 8)})
		require.NoError(t, err)

		_, err = fx.svc.Upload(ctx, "ag1", UploadInput{FileName: "b.png", Content: make([]byte, 8)})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("cleans up storage when the record fails", func(t *testing.T) {
		fx := newFileFixture(0)
		fx.files.createErr = errBoom

		_, err := fx.svc.Upload(ctx, "ag1", UploadInput{FileName: "deck.pdf", Content: []byte("%PDF")})
		assert.ErrorIs(t, err, errBoom)
		assert.Empty(t, fx.storage.objects)
	})

	t.Run("storage failure is reported as storage error", func(t *testing.T) {
		fx := newFileFixture(0)
		fx.storage.saveErr = errBoom

		_, err := fx.svc.Upload(ctx, "ag1", UploadInput{FileName: "deck.pdf", Content: []byte("%PDF")})
		assert.ErrorIs(t, err, apperr.ErrStorage)
	})
}

func TestFileService_ListFiles(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(0)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, f := range []*entity.File{
		{ID: "1", AgencyID: "ag1", Name: "nike-contract.pdf", Type: "pdf", FolderName: "Contracts", SizeBytes: 2048, UploadedAt: base},
		{ID: "2", AgencyID: "ag1", Name: "comp-card.jpg", Type: "jpg", FolderName: "Comp Cards", SizeBytes: 512, UploadedAt: base.Add(time.Hour)},
		{ID: "3", AgencyID: "ag1", Name: "acme-contract.docx", Type: "docx", FolderName: "Contracts", SizeBytes: 4096, UploadedAt: base.Add(2 * time.Hour)},
		{ID: "4", AgencyID: "ag2", Name: "other.pdf", Type: "pdf", UploadedAt: base},
	} {
		fx.files.files[f.ID] = f
	}

	result, err := fx.svc.ListFiles(ctx, "ag1", listing.Query{Search: "CONTRACT", Filters: map[string]string{"folder": "contracts", "type": "all"}, SortBy: "size"})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "nike-contract.pdf", result.Items[0].Name)
	assert.Equal(t, "acme-contract.docx", result.Items[1].Name)
	assert.Equal(t, "2.0 KB", result.Items[0].Size)

	result, err = fx.svc.ListFiles(ctx, "ag1", listing.Query{Filters: map[string]string{"type": "jpg"}})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "comp-card.jpg", result.Items[0].Name)

	result, err = fx.svc.ListFiles(ctx, "ag1", listing.Query{SortBy: "date", Desc: true})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	assert.Equal(t, "3", result.Items[0].ID)
}

func TestFileService_Folders(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(0)

	folder, err := fx.svc.CreateFolder(ctx, "ag1", " Comp Cards ")
	require.NoError(t, err)
	assert.Equal(t, "Comp Cards", folder.Name)

	_, err = fx.svc.CreateFolder(ctx, "ag1", "contracts")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = fx.svc.CreateFolder(ctx, "ag1", "a/b")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	folders, err := fx.svc.ListFolders(ctx, "ag1")
	require.NoError(t, err)
	assert.Len(t, folders, 2)
}

func TestFileService_DeleteAndDownload(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(0)

	file, err := fx.svc.Upload(ctx, "ag1", UploadInput{FileName: "deck.pdf", Content: []byte("%PDF-deck")})
	require.NoError(t, err)

	dl, err := fx.svc.Download(ctx, "ag1", file.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-deck"), dl.Content)

	_, err = fx.svc.Download(ctx, "ag2", file.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, fx.svc.Delete(ctx, "ag1", file.ID))
	assert.Empty(t, fx.storage.objects)

	err = fx.svc.Delete(ctx, "ag1", file.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestFileService_Share(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(0)

	file, err := fx.svc.Upload(ctx, "ag1", UploadInput{FileName: "deck.pdf", Content: []byte("%PDF")})
	require.NoError(t, err)

	t.Run("defaults to a week of view access", func(t *testing.T) {
		share, err := fx.svc.Share(ctx, "ag1", file.ID, ShareInput{Recipients: []string{" Buyer@Brand.com ", ""}})
		require.NoError(t, err)

		assert.Equal(t, []string{"buyer@brand.com"}, share.Recipients)
		assert.Equal(t, "view", share.Permission)
		assert.Len(t, share.Token, 32)
		require.NotNil(t, share.ExpiresAt)
		assert.Equal(t, fx.svc.now().Add(7*24*time.Hour), *share.ExpiresAt)

		_, err = fx.svc.DownloadShared(ctx, share.Token)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		shared, err := fx.svc.ViewShared(ctx, share.Token)
		require.NoError(t, err)
		assert.Equal(t, file.ID, shared.File.ID)
		assert.Equal(t, "deck.pdf", shared.File.Name)
		assert.Equal(t, "view", shared.Permission)
		assert.False(t, shared.CanDownload)
	})

	t.Run("download links resolve", func(t *testing.T) {
		share, err := fx.svc.Share(ctx, "ag1", file.ID, ShareInput{Permission: "download", ExpiryDays: 2})
		require.NoError(t, err)

		shared, err := fx.svc.ViewShared(ctx, share.Token)
		require.NoError(t, err)
		assert.True(t, shared.CanDownload)

		dl, err := fx.svc.DownloadShared(ctx, share.Token)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF"), dl.Content)
	})

	t.Run("expired links are refused", func(t *testing.T) {
		share, err := fx.svc.Share(ctx, "ag1", file.ID, ShareInput{Permission: "download", ExpiryDays: 1})
		require.NoError(t, err)

		fx.svc.now = fixedClock(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
		defer func() { fx.svc.now = fixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)) }()

		_, err = fx.svc.DownloadShared(ctx, share.Token)
		assert.ErrorIs(t, err, apperr.ErrValidation)
		_, err = fx.svc.ViewShared(ctx, share.Token)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := fx.svc.Share(ctx, "ag1", file.ID, ShareInput{Recipients: []string{"nope"}})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = fx.svc.Share(ctx, "ag1", file.ID, ShareInput{Permission: "edit"})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = fx.svc.Share(ctx, "ag1", file.ID, ShareInput{ExpiryDays: 365})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = fx.svc.Share(ctx, "ag1", "missing", ShareInput{})
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		_, err = fx.svc.DownloadShared(ctx, "unknown")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		_, err = fx.svc.ViewShared(ctx, "unknown")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestFileService_StorageUsage(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(1000)

	_, err := fx.svc.Upload(ctx, "ag1", UploadInput{FileName: "a.txt", Content: make([]byte, 250)})
	require.NoError(t, err)

	usage, err := fx.svc.StorageUsage(ctx, "ag1")
	require.NoError(t, err)
	assert.Equal(t, int64(250), usage.UsedBytes)
	assert.Equal(t, int64(1000), usage.LimitBytes)
	assert.Equal(t, 1, usage.FileCount)
	assert.InDelta(t, 25.0, usage.Percent, 0.001)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", FormatBytes(0))
	assert.Equal(t, "1023 B", FormatBytes(1023))
	assert.Equal(t, "1.0 KB", FormatBytes(1024))
	assert.Equal(t, "2.4 MB", FormatBytes(2_500_000))
	assert.Equal(t, "1.0 GB", FormatBytes(1<<30))
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "pdf", FileType("a.PDF"))
	assert.Equal(t, "jpg", FileType("photo.jpeg"))
	assert.Equal(t, "file", FileType("README"))
}
