package covers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// maxCoverSize limits download size to prevent memory exhaustion.
	maxCoverSize = 10 * 1024 * 1024 // 10MB

	// downloadTimeout is the maximum time for a cover download.
	downloadTimeout = 30 * time.Second
)

// DownloadResult contains the result of a cover download operation.
type DownloadResult struct {
	Success  bool   // Whether the download and storage succeeded
	Width    int    // Actual image width
	Height   int    // Actual image height
	Size     int64  // File size in bytes
	BlurHash string // Placeholder hash for client-side rendering
	Error    error  // Error if Success is false
}

// Downloader fetches cover images from publisher URLs and stores them
// locally with a BlurHash placeholder.
type Downloader struct {
	httpClient *http.Client
	storage    *Storage
	logger     *slog.Logger
}

// NewDownloader creates a new cover downloader.
func NewDownloader(storage *Storage, logger *slog.Logger) *Downloader {
	return &Downloader{
		httpClient: &http.Client{
			Timeout: downloadTimeout,
		},
		storage: storage,
		logger:  logger,
	}
}

// Download fetches a cover from the URL and stores it for the given book.
// Returns detailed results including dimensions and the BlurHash.
func (d *Downloader) Download(ctx context.Context, bookID int64, url string) *DownloadResult {
	result := &DownloadResult{}

	if url == "" {
		result.Error = errors.New("empty cover URL")
		return result
	}

	downloadCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, url, nil)
	if err != nil {
		result.Error = fmt.Errorf("create request: %w", err)
		return result
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Errorf("download: %w", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Errorf("download failed: status %d", resp.StatusCode)
		return result
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverSize))
	if err != nil {
		result.Error = fmt.Errorf("read data: %w", err)
		return result
	}

	result.Size = int64(len(data))

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		d.logger.Warn("failed to parse cover dimensions",
			"book_id", bookID,
			"url", url,
			"error", err,
		)
		// Continue without dimensions, the image may still render.
	} else {
		result.Width = cfg.Width
		result.Height = cfg.Height
	}

	hash, err := ComputeBlurHash(data)
	if err != nil {
		d.logger.Warn("failed to compute blurhash",
			"book_id", bookID,
			"error", err,
		)
	} else {
		result.BlurHash = hash
	}

	if err := d.storage.Save(bookID, data); err != nil {
		result.Error = fmt.Errorf("store: %w", err)
		return result
	}

	result.Success = true
	d.logger.Info("downloaded cover",
		"book_id", bookID,
		"size", result.Size,
		"width", result.Width,
		"height", result.Height,
	)

	return result
}
