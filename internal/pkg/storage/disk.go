// Package storage persists uploaded files on the local filesystem or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"

	"wecamp-service/internal/config"
)

// Disk is a flat object store keyed by generated file names.
type Disk interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, name string) error
	// URL is the public address clients use to fetch name.
	URL(name string) string
}

// New builds the disk selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Disk, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalDisk(cfg.UploadDir, cfg.BaseURL)
	case "s3":
		return NewS3Disk(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
