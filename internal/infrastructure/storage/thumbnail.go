package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	// Register decoders for image uploads
	_ "image/jpeg"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/likelee/agency-dashboard/internal/application/port"
)

const thumbnailDPI = 36

// FitzThumbnailer renders the first page of a PDF with MuPDF. Images are
// re-encoded as PNG unchanged in size.
type FitzThumbnailer struct {
	logger *zap.Logger
}

// NewFitzThumbnailer creates a new thumbnailer
func NewFitzThumbnailer(logger *zap.Logger) *FitzThumbnailer {
	return &FitzThumbnailer{logger: logger}
}

// Thumbnail returns a PNG preview, or nil for types without one
func (t *FitzThumbnailer) Thumbnail(ctx context.Context, fileType string, content []byte) ([]byte, error) {
	switch strings.ToLower(fileType) {
	case "pdf":
		return t.pdfFirstPage(content)
	case "png":
		return content, nil
	case "jpg", "jpeg":
		return t.imageToPNG(content)
	default:
		return nil, nil
	}
}

func (t *FitzThumbnailer) pdfFirstPage(content []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, nil
	}

	data, err := doc.ImagePNG(0, thumbnailDPI)
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF page: %w", err)
	}

	t.logger.Debug("Rendered PDF thumbnail",
		zap.Int("pages", doc.NumPage()),
		zap.Int("size", len(data)))
	return data, nil
}

func (t *FitzThumbnailer) imageToPNG(content []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

var _ port.Thumbnailer = (*FitzThumbnailer)(nil)
