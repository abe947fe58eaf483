package upload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"imagencali/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) error {
	args := m.Called(ctx, key, body, contentType, metadata)
	return args.Error(0)
}

func (m *mockStore) List(ctx context.Context) ([]storage.Object, error) {
	args := m.Called(ctx)
	return args.Get(0).([]storage.Object), args.Error(1)
}

func (m *mockStore) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	args := m.Called(ctx, key, expires)
	return args.String(0), args.Error(1)
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x % 255), uint8(y % 255), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestService_Upload_SmallImagePassesThrough(t *testing.T) {
	store := new(mockStore)
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, "image/png", mock.Anything).Return(nil)

	svc := NewService(store, 10<<20, 4096, 1024)
	result, err := svc.Upload(context.Background(), 42, encodePNG(t, 200, 100), "a fox", "watercolor")

	require.NoError(t, err)
	assert.Equal(t, 200, result.Width)
	assert.Equal(t, 100, result.Height)
	assert.Equal(t, "image/png", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Key, "fg-"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))

	metadata := store.Calls[0].Arguments.Get(4).(map[string]string)
	assert.Equal(t, "42", metadata["userId"])
	assert.Equal(t, "a fox", metadata["prompt"])
	assert.Equal(t, "watercolor", metadata["style"])
	assert.Equal(t, "200x100", metadata["dimensions"])
}

func TestService_Upload_LargeImageDownscaled(t *testing.T) {
	store := new(mockStore)
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, "image/jpeg", mock.Anything).Return(nil)

	svc := NewService(store, 10<<20, 4096, 1024)
	result, err := svc.Upload(context.Background(), 1, encodePNG(t, 2048, 1024), "", "")

	require.NoError(t, err)
	assert.Equal(t, 1024, result.Width)
	assert.Equal(t, 512, result.Height)
	assert.Equal(t, "image/jpeg", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Key, ".jpg"))
}

func TestService_Upload_DownscaledOutputDecodes(t *testing.T) {
	store := new(mockStore)
	var stored []byte
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, "image/jpeg", mock.Anything).
		Run(func(args mock.Arguments) {
			var err error
			stored, err = io.ReadAll(args.Get(2).(io.Reader))
			require.NoError(t, err)
		}).Return(nil)

	svc := NewService(store, 10<<20, 4096, 1024)
	_, err := svc.Upload(context.Background(), 1, encodePNG(t, 1500, 1500), "", "")
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, 1024, decoded.Bounds().Dx())
	assert.Equal(t, 1024, decoded.Bounds().Dy())
}

func TestService_Upload_OptimizeFailureStoresOriginal(t *testing.T) {
	store := new(mockStore)
	var stored []byte
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, "image/png", mock.Anything).
		Run(func(args mock.Arguments) {
			var err error
			stored, err = io.ReadAll(args.Get(2).(io.Reader))
			require.NoError(t, err)
		}).Return(nil)

	original := encodePNG(t, 2048, 1024)
	svc := NewService(store, 10<<20, 4096, 1024)
	svc.encode = func(w io.Writer, img image.Image) error {
		return errors.New("encoder broken")
	}

	result, err := svc.Upload(context.Background(), 1, original, "", "")

	require.NoError(t, err)
	assert.Equal(t, original, stored)
	assert.Equal(t, "image/png", result.ContentType)
	assert.Equal(t, 2048, result.Width)
	assert.Equal(t, 1024, result.Height)
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
}

func TestService_Upload_RejectsOversizedFile(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, 64, 4096, 1024)

	_, err := svc.Upload(context.Background(), 1, encodePNG(t, 50, 50), "", "")

	assert.ErrorIs(t, err, ErrFileTooLarge)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Upload_RejectsOversizedDimensions(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, 50<<20, 1000, 512)

	_, err := svc.Upload(context.Background(), 1, encodePNG(t, 1200, 300), "", "")

	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestService_Upload_RejectsNonImage(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, 10<<20, 4096, 1024)

	_, err := svc.Upload(context.Background(), 1, []byte("PK\x03\x04 definitely a zip"), "", "")

	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestService_Upload_RejectsCorruptImage(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, 10<<20, 4096, 1024)

	// Valid PNG magic bytes, truncated body.
	data := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	_, err := svc.Upload(context.Background(), 1, data, "", "")

	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestSanitizeMetadata(t *testing.T) {
	assert.Equal(t, "a b c", sanitizeMetadata("a\nb\t c"))
	long := strings.Repeat("x", 400)
	assert.Len(t, sanitizeMetadata(long), 256)
}

func TestSanitizeMetadata_TruncatesOnRuneBoundary(t *testing.T) {
	// 255 ASCII bytes followed by a 3-byte rune straddling the limit.
	v := strings.Repeat("x", 255) + "日本語"
	got := sanitizeMetadata(v)

	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 256)
	assert.Equal(t, strings.Repeat("x", 255), got)
}
