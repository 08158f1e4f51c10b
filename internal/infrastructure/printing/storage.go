package printing

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PDFStorage defines the interface for storing and retrieving generated PDFs
type PDFStorage interface {
	// Store saves a PDF file under {tenant}/{yyyy}/{mm}/{job}/{file}
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// Get retrieves a PDF file by its storage key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes a PDF file
	Delete(ctx context.Context, key string) error
	// CleanupOlderThan removes files older than the specified duration
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
	// GetURL returns an accessible URL for a stored PDF
	GetURL(ctx context.Context, key string) (string, error)
}

// StoreRequest contains the parameters for storing a PDF
type StoreRequest struct {
	// TenantID for multi-tenant isolation
	TenantID uuid.UUID
	// JobID keeps two renders of the same memo number apart; nil gets a fresh ID
	JobID uuid.UUID
	// FileName is the download name, invoice-<memo>.pdf
	FileName string
	// PDFData is the raw PDF content
	PDFData []byte
	// StoredAt picks the year/month folder; zero means now
	StoredAt time.Time
}

// Validate checks the request before any I/O happens
func (r *StoreRequest) Validate() error {
	if r == nil {
		return NewRenderError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if r.TenantID == uuid.Nil {
		return NewRenderError(ErrCodeStorageFailed, "tenant ID is required", nil)
	}
	if r.FileName == "" || strings.ContainsAny(r.FileName, `/\`) || path.Ext(r.FileName) != ".pdf" {
		return NewRenderError(ErrCodeStorageFailed, "file name must be a bare .pdf name", nil)
	}
	if len(r.PDFData) == 0 {
		return NewRenderError(ErrCodeStorageFailed, "PDF data is empty", nil)
	}
	return nil
}

// StoreResult contains the result of storing a PDF
type StoreResult struct {
	// Key is the storage key, relative to the storage root
	Key string
	// URL is the accessible URL for the PDF
	URL string
	// Size is the file size in bytes
	Size int64
}

// StorageKey builds {tenant}/{yyyy}/{mm}/{job}/{file}
func StorageKey(tenantID, jobID uuid.UUID, fileName string, at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}
	if jobID == uuid.Nil {
		jobID = uuid.New()
	}
	return path.Join(tenantID.String(), fmt.Sprintf("%04d", at.Year()), fmt.Sprintf("%02d", at.Month()), jobID.String(), fileName)
}

// FileSystemStorageConfig contains configuration for file system storage
type FileSystemStorageConfig struct {
	// BasePath is the root directory for PDF storage
	// Default: ./data/memos
	BasePath string
	// BaseURL is the URL prefix for accessing PDFs
	// Example: https://memo.example.com/files
	BaseURL string
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemStorage stores PDFs on the local file system
type FileSystemStorage struct {
	config *FileSystemStorageConfig
	logger *zap.Logger
}

// NewFileSystemStorage creates a new file system based PDF storage
func NewFileSystemStorage(config *FileSystemStorageConfig) (*FileSystemStorage, error) {
	if config == nil {
		config = &FileSystemStorageConfig{}
	}
	if config.BasePath == "" {
		config.BasePath = "./data/memos"
	}
	if config.BaseURL == "" {
		config.BaseURL = "/files"
	}

	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create storage directory: %s", config.BasePath), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemStorage{
		config: config,
		logger: logger,
	}, nil
}

// Store saves a PDF file to the file system
func (s *FileSystemStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := StorageKey(req.TenantID, req.JobID, req.FileName, req.StoredAt)
	fullPath := filepath.Join(s.config.BasePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}
	if err := os.WriteFile(fullPath, req.PDFData, 0644); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write PDF file", err)
	}

	url, _ := s.GetURL(ctx, key)

	s.logger.Info("PDF stored",
		zap.String("key", key),
		zap.Int("size", len(req.PDFData)),
		zap.String("url", url))

	return &StoreResult{
		Key:  key,
		URL:  url,
		Size: int64(len(req.PDFData)),
	}, nil
}

// Get retrieves a PDF file by its storage key
func (s *FileSystemStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewRenderError(ErrCodeStorageFailed, "PDF not found", err)
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open PDF file", err)
	}
	return file, nil
}

// Delete removes a PDF file
func (s *FileSystemStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return NewRenderError(ErrCodeStorageFailed, "failed to delete PDF file", err)
	}

	s.logger.Info("PDF deleted", zap.String("key", key))
	return nil
}

// CleanupOlderThan removes files older than the specified duration
func (s *FileSystemStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	deletedCount := 0

	err := filepath.Walk(s.config.BasePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() || filepath.Ext(path) != ".pdf" {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				deletedCount++
				s.logger.Debug("deleted old PDF", zap.String("path", path))
			}
		}
		return nil
	})

	if err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return deletedCount, NewRenderError(ErrCodeStorageFailed, "cleanup walk failed", err)
	}

	s.logger.Info("cleanup completed",
		zap.Int("deleted", deletedCount),
		zap.Duration("age", age))

	return deletedCount, nil
}

// GetURL returns the accessible URL for a stored PDF
func (s *FileSystemStorage) GetURL(_ context.Context, key string) (string, error) {
	cleanKey := filepath.ToSlash(filepath.Clean(key))
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(s.config.BaseURL, "/"), cleanKey), nil
}

// resolve maps a key onto a path under BasePath and rejects anything that escapes it
func (s *FileSystemStorage) resolve(key string) (string, error) {
	cleanPath := filepath.Clean(key)
	if filepath.IsAbs(cleanPath) || containsDotDot(key) {
		s.logger.Warn("blocked potentially malicious path",
			zap.String("key", key),
			zap.String("cleanPath", cleanPath))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}

	fullPath := filepath.Join(s.config.BasePath, cleanPath)

	absBase, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve file path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("path escape attempt blocked",
			zap.String("key", key),
			zap.String("absPath", absPath))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}
	return fullPath, nil
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}

var _ PDFStorage = (*FileSystemStorage)(nil)
