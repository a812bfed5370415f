package port

import "context"

// BlobStorage stores file content in named buckets
type BlobStorage interface {
	Save(ctx context.Context, bucket, path string, content []byte) error
	Read(ctx context.Context, bucket, path string) ([]byte, error)
	Exists(ctx context.Context, bucket, path string) bool
	Delete(ctx context.Context, bucket, path string) error
	PublicURL(bucket, path string) string
}

// Thumbnailer renders a PNG preview for a file. It returns (nil, nil) when
// the file type has no preview.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, fileType string, content []byte) ([]byte, error)
}
