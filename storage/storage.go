package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"imobiliaria-backend/config"

	"github.com/google/uuid"
)

// Storage interface for listing image storage. Upload returns the URL
// under which the stored image can be retrieved.
type Storage interface {
	Upload(ctx context.Context, imovelID uuid.UUID, filename, contentType string, size int64, data io.Reader) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

// ErrInvalidContentType is returned when the upload is not an accepted
// image type.
var ErrInvalidContentType = errors.New("content type not allowed")

// ErrFileTooLarge is returned when the upload exceeds the size ceiling.
var ErrFileTooLarge = errors.New("file too large")

// allowedImageTypes is the content-type allow-list for the remote
// backend.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// NewStorage creates a storage instance for the configured backend.
// Backend selection is static process configuration, not request-time
// logic.
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg.UploadDir)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// generateFilename produces a unique name keeping the original
// extension.
func generateFilename(filename string) string {
	return uuid.New().String() + filepath.Ext(filename)
}
