package storage

import (
	"context"
	"fmt"

	infraconfig "github.com/quickmemo/backend/internal/infrastructure/config"
	"github.com/quickmemo/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// NewPDFStorage builds the storage backend selected by cfg.Driver.
// The s3 driver creates its bucket on first use.
func NewPDFStorage(ctx context.Context, cfg *infraconfig.StorageConfig, logger *zap.Logger) (printing.PDFStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		return nil, fmt.Errorf("storage configuration is required")
	}

	switch cfg.Driver {
	case "", "fs":
		return printing.NewFileSystemStorage(&printing.FileSystemStorageConfig{
			BasePath: cfg.BasePath,
			BaseURL:  cfg.BaseURL,
			Logger:   logger,
		})
	case "s3":
		s3Storage, err := NewS3PDFStorage(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3Storage, nil
	case "memory":
		mem := NewMemoryPDFStorage()
		if cfg.BaseURL != "" {
			mem.BaseURL = cfg.BaseURL
		}
		return mem, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
