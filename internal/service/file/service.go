package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// MaxPhotoUploadBytes bounds the raw upload before decoding.
	MaxPhotoUploadBytes = 5 << 20

	maxPhotoDimension = 512
	maxPhotoBytes     = 150 * 1024
	minPhotoQuality   = 50
)

type FileService interface {
	// UploadProfilePhoto stores a normalized JPEG and returns its public URL
	// together with the storage key.
	UploadProfilePhoto(ctx context.Context, deviceID string, file io.Reader, filename string) (url string, key string, err error)

	DeleteFile(ctx context.Context, key string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

// UploadProfilePhoto accepts jpg and png and always writes a JPEG.
func (s *fileServiceImpl) UploadProfilePhoto(ctx context.Context, deviceID string, file io.Reader, filename string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", "", device.ErrInvalidPhotoType
	}

	buffer, err := io.ReadAll(io.LimitReader(file, MaxPhotoUploadBytes+1))
	if err != nil {
		return "", "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(buffer) > MaxPhotoUploadBytes {
		return "", "", device.ErrPhotoTooLarge
	}

	compressed, err := compressPhoto(buffer)
	if err != nil {
		return "", "", err
	}

	// photos/{deviceID}/{unix}-{uuid}.jpg
	name := fmt.Sprintf("%d-%s.jpg", s.now().Unix(), uuid.NewString())
	key := path.Join("photos", sanitizeSegment(deviceID), name)

	key, err = s.storage.Upload(ctx, bytes.NewReader(compressed), key, "image/jpeg")
	if err != nil {
		return "", "", fmt.Errorf("failed to upload profile photo: %w", err)
	}
	return s.storage.URL(key), key, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// ==================== HELPER FUNCTIONS ====================

func sanitizeSegment(v string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, v)
}

// compressPhoto downscales to maxPhotoDimension and lowers JPEG quality
// until the result fits maxPhotoBytes.
func compressPhoto(buffer []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, device.ErrInvalidPhotoType
	}

	img = fitWithin(img, maxPhotoDimension)

	var compressed []byte
	for quality := 85; quality >= minPhotoQuality; quality -= 5 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()
		if len(compressed) <= maxPhotoBytes {
			break
		}
	}
	return compressed, nil
}

// fitWithin scales src down so neither side exceeds limit, keeping the aspect ratio.
func fitWithin(src image.Image, limit int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return src
	}
	if w >= h {
		h = h * limit / w
		w = limit
	} else {
		w = w * limit / h
		h = limit
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
