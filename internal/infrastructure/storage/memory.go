package storage

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/quickmemo/backend/internal/infrastructure/printing"
)

var _ printing.PDFStorage = (*MemoryPDFStorage)(nil)

type memoryObject struct {
	data     []byte
	storedAt time.Time
}

// MemoryPDFStorage keeps PDFs in process memory.
// Use it for development and tests; everything is lost on restart.
type MemoryPDFStorage struct {
	// BaseURL is the prefix for download URLs
	// Defaults to "/files" if not set
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

// NewMemoryPDFStorage creates a new MemoryPDFStorage
func NewMemoryPDFStorage() *MemoryPDFStorage {
	return &MemoryPDFStorage{
		BaseURL: "/files",
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

// Store copies the PDF into memory
func (s *MemoryPDFStorage) Store(ctx context.Context, req *printing.StoreRequest) (*printing.StoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "operation cancelled", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := printing.StorageKey(req.TenantID, req.JobID, req.FileName, req.StoredAt)
	data := bytes.Clone(req.PDFData)

	s.mu.Lock()
	s.objects[key] = memoryObject{data: data, storedAt: s.now()}
	s.mu.Unlock()

	url, _ := s.GetURL(ctx, key)
	return &printing.StoreResult{Key: key, URL: url, Size: int64(len(data))}, nil
}

// Get returns a reader over a copy of the stored PDF
func (s *MemoryPDFStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "PDF not found", nil)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Delete removes a PDF; missing keys are ignored
func (s *MemoryPDFStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return printing.NewRenderError(printing.ErrCodeStorageFailed, "storage key is required", nil)
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// CleanupOlderThan drops PDFs stored before now-age
func (s *MemoryPDFStorage) CleanupOlderThan(_ context.Context, age time.Duration) (int, error) {
	cutoff := s.now().Add(-age)
	deleted := 0

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, obj := range s.objects {
		if obj.storedAt.Before(cutoff) {
			delete(s.objects, key)
			deleted++
		}
	}
	return deleted, nil
}

// GetURL returns BaseURL/key
func (s *MemoryPDFStorage) GetURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", printing.NewRenderError(printing.ErrCodeStorageFailed, "storage key is required", nil)
	}
	return strings.TrimSuffix(s.BaseURL, "/") + "/" + key, nil
}

// Keys lists stored keys in sorted order
func (s *MemoryPDFStorage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.objects))
	for key := range s.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
