package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/staffpulse/analytics-api/internal/pkg/apperror"
	"github.com/staffpulse/analytics-api/internal/pkg/storage"
	"golang.org/x/image/draw"
)

// MaxPhotoSide is the longest side of a stored employee photo, in pixels.
const MaxPhotoSide = 512

var (
	ErrInvalidImageType = apperror.Validation("invalid file type: only jpg, jpeg, png allowed")
	ErrInvalidImage     = apperror.Validation("photo is not a readable image")
)

var allowedImageExts = []string{".jpg", ".jpeg", ".png"}

type FileService interface {
	// UploadEmployeePhoto resizes and stores a photo, returning its public URL
	UploadEmployeePhoto(ctx context.Context, employeeID int64, file io.Reader, filename string) (string, error)

	// DeleteFile removes a file previously returned by an upload
	DeleteFile(ctx context.Context, url string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadEmployeePhoto implements FileService.
func (s *fileServiceImpl) UploadEmployeePhoto(ctx context.Context, employeeID int64, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !lo.Contains(allowedImageExts, ext) {
		return "", ErrInvalidImageType
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	resized, err := shrinkImage(buffer, MaxPhotoSide)
	if err != nil {
		return "", err
	}

	// Always stored as JPEG after re-encoding
	newFilename := fmt.Sprintf("%d-%s.jpg", employeeID, uuid.New().String())
	path := filepath.ToSlash(filepath.Join("employees", fmt.Sprint(employeeID), newFilename))

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(resized), path, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return s.storage.URL(uploadedPath), nil
}

// DeleteFile implements FileService.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, url string) error {
	path, ok := s.storage.PathFromURL(url)
	if !ok {
		return nil
	}
	return s.storage.Delete(ctx, path)
}

// ==================== HELPER FUNCTIONS ====================

// shrinkImage decodes buffer and re-encodes it as JPEG so that neither side
// exceeds maxSide. Smaller images keep their dimensions.
func shrinkImage(buffer []byte, maxSide int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, ErrInvalidImage
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxSide)
	if width != bounds.Dx() || height != bounds.Dy() {
		img = resizeImage(img, width, height)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin scales width and height down proportionally so both fit in maxSide.
func fitWithin(width, height, maxSide int) (int, int) {
	if width <= maxSide && height <= maxSide {
		return width, height
	}
	if width >= height {
		return maxSide, max(1, height*maxSide/width)
	}
	return max(1, width*maxSide/height), maxSide
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
