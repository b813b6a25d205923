package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage implements Storage on the local filesystem. Stored images
// are served back under the /uploads static prefix.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// Upload stores an image under {basePath}/imoveis/{imovelID}/ and returns
// its public URL path.
func (s *LocalStorage) Upload(ctx context.Context, imovelID uuid.UUID, filename, contentType string, size int64, data io.Reader) (string, error) {
	name := generateFilename(filename)
	dir := filepath.Join(s.basePath, "imoveis", imovelID.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	fullPath := filepath.Join(dir, name)
	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		os.Remove(fullPath) // Clean up on error
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("/uploads/imoveis/%s/%s", imovelID.String(), name), nil
}

// Delete removes the file behind a previously returned URL. Missing
// files are not an error.
func (s *LocalStorage) Delete(ctx context.Context, imageURL string) error {
	rel := strings.TrimPrefix(imageURL, "/uploads/")
	if rel == imageURL {
		return fmt.Errorf("not a local upload url: %s", imageURL)
	}

	err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
