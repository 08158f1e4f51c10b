package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/printing"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJob(t *testing.T, tenantID uuid.UUID, number memo.MemoNumber, orderID *uuid.UUID) *printing.PrintJob {
	t.Helper()
	job, err := printing.NewPrintJob(tenantID, "classic", memo.DocumentKindCashMemo, number, orderID)
	require.NoError(t, err)
	return job
}

func TestGormPrintJobRepository_Lifecycle(t *testing.T) {
	repo := NewGormPrintJobRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	job := newJob(t, tenantID, "123456", nil)
	require.NoError(t, repo.Save(ctx, job))

	require.NoError(t, job.StartRendering(printing.LayoutBold))
	require.NoError(t, job.Complete("t/2024/03/invoice-123456.pdf", "/files/t/2024/03/invoice-123456.pdf", 2048))
	require.NoError(t, repo.Save(ctx, job))

	found, err := repo.FindByIDForTenant(ctx, tenantID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, printing.JobStatusCompleted, found.Status)
	assert.Equal(t, printing.LayoutBold, found.LayoutType)
	assert.Equal(t, memo.MemoNumber("123456"), found.MemoNumber)
	assert.Equal(t, "invoice-123456.pdf", found.FileName)
	assert.Equal(t, int64(2048), found.SizeBytes)
	assert.Equal(t, 1, found.Attempts)
	assert.NotNil(t, found.CompletedAt)
	assert.Equal(t, job.Version, found.Version)

	t.Run("other tenant cannot see it", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, uuid.New(), job.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormPrintJobRepository_Queries(t *testing.T) {
	repo := NewGormPrintJobRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	first := newJob(t, tenantID, "111111", nil)
	retried := newJob(t, tenantID, "111111", nil)
	require.NoError(t, retried.StartRendering(printing.LayoutClassic))
	require.NoError(t, retried.Fail("RENDER_TIMEOUT", "timed out"))
	fromOrder := newJob(t, tenantID, "222222", &orderID)
	otherTenant := newJob(t, uuid.New(), "111111", nil)
	for _, j := range []*printing.PrintJob{first, retried, fromOrder, otherTenant} {
		require.NoError(t, repo.Save(ctx, j))
	}

	t.Run("by memo number", func(t *testing.T) {
		jobs, err := repo.FindByMemoNumber(ctx, tenantID, "111111")
		require.NoError(t, err)
		assert.Len(t, jobs, 2)
	})

	t.Run("by status", func(t *testing.T) {
		status := printing.JobStatusFailed
		jobs, err := repo.FindAllForTenant(ctx, tenantID, printing.PrintJobFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, "RENDER_TIMEOUT", jobs[0].ErrorCode)
		assert.Equal(t, "timed out", jobs[0].ErrorMessage)
	})

	t.Run("by order", func(t *testing.T) {
		jobs, err := repo.FindAllForTenant(ctx, tenantID, printing.PrintJobFilter{OrderID: &orderID})
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		require.NotNil(t, jobs[0].OrderID)
		assert.Equal(t, orderID, *jobs[0].OrderID)
	})

	t.Run("count", func(t *testing.T) {
		count, err := repo.CountForTenant(ctx, tenantID, printing.PrintJobFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestGormPrintJobRepository_DeleteOlderThan(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPrintJobRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	old := newJob(t, tenantID, "000001", nil)
	fresh := newJob(t, tenantID, "000002", nil)
	require.NoError(t, repo.Save(ctx, old))
	require.NoError(t, repo.Save(ctx, fresh))
	require.NoError(t, db.Model(&models.PrintJobModel{}).
		Where("id = ?", old.ID).
		Update("created_at", time.Now().AddDate(0, 0, -40)).Error)

	deleted, err := repo.DeleteOlderThan(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindByIDForTenant(ctx, tenantID, old.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = repo.FindByIDForTenant(ctx, tenantID, fresh.ID)
	assert.NoError(t, err)

	_, err = repo.DeleteOlderThan(ctx, -1)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
