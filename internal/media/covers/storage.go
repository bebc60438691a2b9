// Package covers provides cover image downloading, placeholder hashing,
// and filesystem storage.
package covers

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages cover files on disk.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex
}

// NewStorage creates a Storage rooted at basePath.
// Covers are stored as {basePath}/{bookID}.jpg.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create covers directory: %w", err)
	}

	return &Storage{basePath: basePath}, nil
}

// Save stores cover data for a book.
func (s *Storage) Save(bookID int64, imgData []byte) error {
	if bookID <= 0 {
		return fmt.Errorf("book ID must be positive")
	}
	if len(imgData) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(bookID), imgData, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	return nil
}

// Get retrieves cover data for a book.
func (s *Storage) Get(bookID int64) ([]byte, error) {
	if bookID <= 0 {
		return nil, fmt.Errorf("book ID must be positive")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(bookID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("cover not found for book %d: %w", bookID, err)
		}
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	return data, nil
}

// Exists checks if a cover exists for a book.
func (s *Storage) Exists(bookID int64) bool {
	if bookID <= 0 {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(bookID))
	return err == nil
}

// Delete removes a book's cover. Missing files are not an error.
func (s *Storage) Delete(bookID int64) error {
	if bookID <= 0 {
		return fmt.Errorf("book ID must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(bookID)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}

// Hash computes the SHA256 hash of a stored cover.
// Returns a hex-encoded string for ETag/cache validation.
func (s *Storage) Hash(bookID int64) (string, error) {
	data, err := s.Get(bookID)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Path returns the full filesystem path for a book's cover.
func (s *Storage) Path(bookID int64) string {
	return filepath.Join(s.basePath, fmt.Sprintf("%d.jpg", bookID))
}
