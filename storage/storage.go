package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"portfolio/config"
)

var ErrInvalidPath = errors.New("invalid storage path")

// StorageAPI stores files under slash separated paths relative to its root
type StorageAPI interface {
	// EnsureDir creates dir and its parents when needed
	EnsureDir(ctx context.Context, dir string) error
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	// Delete is a no-op for missing files
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	GetFreeSpace() uint64
}

// New returns the backend selected by the configuration
func New(cfg config.StorageConfig) (StorageAPI, error) {
	switch cfg.Type {
	case config.StorageTypeDisk, "":
		return NewDiskStorage(cfg.UploadDir)
	case config.StorageTypeS3:
		return NewS3Storage(cfg)
	}
	return nil, fmt.Errorf("storage type %q unavailable", cfg.Type)
}

// cleanPath rejects anything that could escape the storage root
func cleanPath(path string) (string, error) {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return "", nil
	}
	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
		}
	}
	return path, nil
}
