package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	return img
}

func TestFitzThumbnailer_Images(t *testing.T) {
	th := NewFitzThumbnailer(zap.NewNop())
	ctx := context.Background()

	t.Run("png passes through", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, sampleImage()))

		out, err := th.Thumbnail(ctx, "PNG", buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, buf.Bytes(), out)
	})

	t.Run("jpeg becomes png", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, sampleImage(), nil))

		out, err := th.Thumbnail(ctx, "jpg", buf.Bytes())
		require.NoError(t, err)

		img, format, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 4, img.Bounds().Dx())
	})

	t.Run("corrupt jpeg", func(t *testing.T) {
		_, err := th.Thumbnail(ctx, "jpeg", []byte("not an image"))
		assert.Error(t, err)
	})
}

func TestFitzThumbnailer_NoPreview(t *testing.T) {
	th := NewFitzThumbnailer(zap.NewNop())

	out, err := th.Thumbnail(context.Background(), "docx", []byte("PK..."))
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestFitzThumbnailer_InvalidPDF(t *testing.T) {
	th := NewFitzThumbnailer(zap.NewNop())

	_, err := th.Thumbnail(context.Background(), "pdf", []byte("definitely not a pdf"))
	assert.Error(t, err)
}
