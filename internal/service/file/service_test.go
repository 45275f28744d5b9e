package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	files map[string][]byte
}

func (m *memoryStorage) Upload(_ context.Context, file io.Reader, key string, _ string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	m.files[key] = data
	return key, nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	delete(m.files, key)
	return nil
}

func (m *memoryStorage) URL(key string) string {
	return "http://cdn.test/" + key
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadProfilePhoto_ScalesAndConvertsToJPEG(t *testing.T) {
	store := &memoryStorage{files: map[string][]byte{}}
	svc := NewFileService(store)

	url, key, err := svc.UploadProfilePhoto(context.Background(), "dev/1", bytes.NewReader(pngBytes(t, 1024, 768)), "me.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "photos/dev_1/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Equal(t, "http://cdn.test/"+key, url)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(store.files[key]))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 384, cfg.Height)
	assert.LessOrEqual(t, len(store.files[key]), maxPhotoBytes)
}

func TestUploadProfilePhoto_SmallImageKeepsSize(t *testing.T) {
	store := &memoryStorage{files: map[string][]byte{}}
	svc := NewFileService(store)

	_, key, err := svc.UploadProfilePhoto(context.Background(), "dev-1", bytes.NewReader(pngBytes(t, 40, 30)), "me.png")
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(store.files[key]))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestUploadProfilePhoto_Rejects(t *testing.T) {
	svc := NewFileService(&memoryStorage{files: map[string][]byte{}})
	ctx := context.Background()

	_, _, err := svc.UploadProfilePhoto(ctx, "dev-1", strings.NewReader("GIF89a"), "me.gif")
	assert.ErrorIs(t, err, device.ErrInvalidPhotoType)

	_, _, err = svc.UploadProfilePhoto(ctx, "dev-1", strings.NewReader("not an image"), "me.jpg")
	assert.ErrorIs(t, err, device.ErrInvalidPhotoType)

	_, _, err = svc.UploadProfilePhoto(ctx, "dev-1", bytes.NewReader(make([]byte, MaxPhotoUploadBytes+1)), "me.jpg")
	assert.ErrorIs(t, err, device.ErrPhotoTooLarge)
}
