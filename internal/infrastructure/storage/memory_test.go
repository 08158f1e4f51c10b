package storage

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/infrastructure/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemoryPDFStorage(t *testing.T) {
	s := NewMemoryPDFStorage()
	require.NotNil(t, s)
	assert.Equal(t, "/files", s.BaseURL)
	assert.Empty(t, s.Keys())
}

func TestMemoryPDFStorage_StoreAndGet(t *testing.T) {
	s := NewMemoryPDFStorage()
	ctx := context.Background()
	tenantID := uuid.New()
	jobID := uuid.New()
	data := []byte("%PDF-1.4 memo")

	result, err := s.Store(ctx, &printing.StoreRequest{
		TenantID: tenantID,
		JobID:    jobID,
		FileName: "invoice-123456.pdf",
		PDFData:  data,
		StoredAt: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, tenantID.String()+"/2024/02/"+jobID.String()+"/invoice-123456.pdf", result.Key)
	assert.Equal(t, "/files/"+result.Key, result.URL)
	assert.Equal(t, int64(len(data)), result.Size)

	data[0] = 'X'

	reader, err := s.Get(ctx, result.Key)
	require.NoError(t, err)
	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 memo", string(content))
}

func TestMemoryPDFStorage_Errors(t *testing.T) {
	s := NewMemoryPDFStorage()
	ctx := context.Background()

	t.Run("invalid request", func(t *testing.T) {
		_, err := s.Store(ctx, &printing.StoreRequest{TenantID: uuid.New(), FileName: "memo.txt", PDFData: []byte("x")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file name")
	})

	t.Run("missing key", func(t *testing.T) {
		reader, err := s.Get(ctx, "nope.pdf")
		require.Error(t, err)
		assert.Nil(t, reader)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := s.Store(cctx, &printing.StoreRequest{TenantID: uuid.New(), FileName: "invoice-1.pdf", PDFData: []byte("x")})
		require.Error(t, err)
	})

	t.Run("empty key url", func(t *testing.T) {
		_, err := s.GetURL(ctx, "")
		assert.Error(t, err)
	})
}

func TestMemoryPDFStorage_DeleteAndCleanup(t *testing.T) {
	s := NewMemoryPDFStorage()
	ctx := context.Background()
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	tenantID := uuid.New()
	old, err := s.Store(ctx, &printing.StoreRequest{TenantID: tenantID, FileName: "invoice-000001.pdf", PDFData: []byte("a")})
	require.NoError(t, err)

	now = now.Add(72 * time.Hour)
	fresh, err := s.Store(ctx, &printing.StoreRequest{TenantID: tenantID, FileName: "invoice-000002.pdf", PDFData: []byte("b")})
	require.NoError(t, err)

	deleted, err := s.CleanupOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, []string{fresh.Key}, s.Keys())

	require.NoError(t, s.Delete(ctx, fresh.Key))
	require.NoError(t, s.Delete(ctx, old.Key))
	assert.Empty(t, s.Keys())
	assert.Error(t, s.Delete(ctx, ""))
}
