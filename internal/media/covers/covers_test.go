package covers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestStorageSaveGetDelete(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	data := testJPEG(t, 10, 10)
	require.NoError(t, storage.Save(42, data))
	assert.True(t, storage.Exists(42))

	got, err := storage.Get(42)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	hash, err := storage.Hash(42)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	require.NoError(t, storage.Delete(42))
	assert.False(t, storage.Exists(42))

	// Deleting a missing cover is not an error
	require.NoError(t, storage.Delete(42))
}

func TestStorageRejectsInvalidInput(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, storage.Save(0, []byte("x")))
	assert.Error(t, storage.Save(1, nil))
	assert.False(t, storage.Exists(0))

	_, err = storage.Get(99)
	assert.Error(t, err)
}

func TestComputeBlurHash(t *testing.T) {
	hash, err := ComputeBlurHash(testJPEG(t, 200, 300))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	// Same input produces the same hash
	again, err := ComputeBlurHash(testJPEG(t, 200, 300))
	require.NoError(t, err)
	assert.Equal(t, hash, again)
}

func TestComputeBlurHashRejectsGarbage(t *testing.T) {
	_, err := ComputeBlurHash([]byte("not an image"))
	assert.Error(t, err)
}

func TestDownloaderSuccess(t *testing.T) {
	data := testJPEG(t, 120, 180)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(data)
	}))
	t.Cleanup(server.Close)

	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	d := NewDownloader(storage, slog.New(slog.NewTextHandler(io.Discard, nil)))
	result := d.Download(context.Background(), 7, server.URL)

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, 120, result.Width)
	assert.Equal(t, 180, result.Height)
	assert.NotEmpty(t, result.BlurHash)
	assert.True(t, storage.Exists(7))
}

func TestDownloaderHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	d := NewDownloader(storage, slog.New(slog.NewTextHandler(io.Discard, nil)))
	result := d.Download(context.Background(), 7, server.URL)

	assert.False(t, result.Success)
	assert.Error(t, result.Error)
	assert.False(t, storage.Exists(7))
}

func TestDownloaderEmptyURL(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	d := NewDownloader(storage, slog.New(slog.NewTextHandler(io.Discard, nil)))
	result := d.Download(context.Background(), 7, "")

	assert.False(t, result.Success)
	assert.Error(t, result.Error)
}
