package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/staffpulse/analytics-api/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func newService(t *testing.T) (FileService, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return NewFileService(local), local
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"already small", 300, 200, 300, 200},
		{"landscape", 2048, 1024, 512, 256},
		{"portrait", 1000, 4000, 128, 512},
		{"square", 513, 513, 512, 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitWithin(tt.width, tt.height, 512)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestUploadEmployeePhoto_ResizesAndStores(t *testing.T) {
	svc, local := newService(t)
	ctx := context.Background()

	url, err := svc.UploadEmployeePhoto(ctx, 7, bytes.NewReader(pngOf(t, 1024, 768)), "me.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/employees/7/7-"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	path, ok := local.PathFromURL(url)
	require.True(t, ok)
	exists, err := local.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, svc.DeleteFile(ctx, url))
	exists, err = local.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUploadEmployeePhoto_Rejects(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.UploadEmployeePhoto(ctx, 1, strings.NewReader("GIF89a"), "a.gif")
	assert.ErrorIs(t, err, ErrInvalidImageType)

	_, err = svc.UploadEmployeePhoto(ctx, 1, strings.NewReader("not an image"), "a.jpg")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestShrinkImage_KeepsSmallDimensions(t *testing.T) {
	out, err := shrinkImage(pngOf(t, 100, 50), MaxPhotoSide)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}
