package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ritikk978/next-nest/pkg/config"
)

// FileStorage stores uploaded files and resolves them back by their
// stored name. Implementations return the public URL of the object.
type FileStorage interface {
	Store(ctx context.Context, dir, filename, contentType string, r io.Reader, size int64) (string, error)
	Open(ctx context.Context, dir, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, dir, name string) error
}

// New selects a backend from configuration
func New(cfg *config.Config) (FileStorage, error) {
	switch cfg.Storage.Backend {
	case "s3":
		return newS3Storage(cfg)
	case "local", "":
		return newLocalStorage(cfg.Storage.LocalDir, cfg.Server.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

// objectName derives a collision-free stored name keeping the original
// extension so browsers can sniff the type
func objectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.NewString() + ext
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidImageType reports whether a content type is accepted for
// listing and profile images
func ValidImageType(contentType string) bool {
	return allowedImageTypes[contentType]
}
