package printing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrintJob(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name        string
		tenantID    uuid.UUID
		kind        memo.DocumentKind
		memoNumber  memo.MemoNumber
		expectError bool
		errorCode   string
	}{
		{"valid invoice job", tenantID, memo.DocumentKindInvoice, "123456", false, ""},
		{"valid cash memo job", tenantID, memo.DocumentKindCashMemo, "000042", false, ""},
		{"nil tenant", uuid.Nil, memo.DocumentKindInvoice, "123456", true, "INVALID_TENANT"},
		{"invalid kind", tenantID, memo.DocumentKind("RECEIPT"), "123456", true, "INVALID_DOCUMENT_KIND"},
		{"empty memo number", tenantID, memo.DocumentKindInvoice, "", true, "INVALID_MEMO_NUMBER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := NewPrintJob(tt.tenantID, "classic", tt.kind, tt.memoNumber, nil)

			if tt.expectError {
				assert.True(t, shared.HasCode(err, tt.errorCode), "got %v", err)
				assert.Nil(t, job)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, JobStatusPending, job.Status)
			assert.Equal(t, tt.memoNumber.FileName(), job.FileName)
			assert.Equal(t, 0, job.Attempts)

			events := job.GetDomainEvents()
			require.Len(t, events, 1)
			assert.Equal(t, EventTypePrintJobCreated, events[0].EventType())
		})
	}
}

func TestPrintJob_StartRendering(t *testing.T) {
	job := createTestPrintJob(t)
	job.ClearDomainEvents()

	err := job.StartRendering(LayoutModern)
	require.NoError(t, err)
	assert.Equal(t, JobStatusRendering, job.Status)
	assert.Equal(t, LayoutModern, job.LayoutType)
	assert.Equal(t, 1, job.Attempts)

	events := job.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypePrintJobStatusChanged, events[0].EventType())
}

func TestPrintJob_StartRendering_InvalidState(t *testing.T) {
	tests := []struct {
		name   string
		status JobStatus
	}{
		{"from RENDERING", JobStatusRendering},
		{"from COMPLETED", JobStatusCompleted},
		{"from FAILED", JobStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := createTestPrintJob(t)
			job.Status = tt.status

			err := job.StartRendering(LayoutClassic)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Cannot start rendering")
		})
	}
}

func TestPrintJob_Complete(t *testing.T) {
	job := createTestPrintJob(t)
	require.NoError(t, job.StartRendering(LayoutClassic))
	job.ClearDomainEvents()

	key := "tenant/2024/01/invoice-123456.pdf"
	err := job.Complete(key, "https://files.example.com/"+key, 2048)
	require.NoError(t, err)

	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Equal(t, key, job.StorageKey)
	assert.Equal(t, int64(2048), job.SizeBytes)
	assert.NotNil(t, job.CompletedAt)
	assert.True(t, job.HasPDF())

	events := job.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypePrintJobStatusChanged, events[0].EventType())
	assert.Equal(t, EventTypePrintJobCompleted, events[1].EventType())
}

func TestPrintJob_Complete_EmptyStorageKey(t *testing.T) {
	job := createTestPrintJob(t)
	require.NoError(t, job.StartRendering(LayoutClassic))

	err := job.Complete("", "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Storage key cannot be empty")
}

func TestPrintJob_Complete_InvalidState(t *testing.T) {
	for _, status := range []JobStatus{JobStatusPending, JobStatusCompleted, JobStatusFailed} {
		t.Run(status.String(), func(t *testing.T) {
			job := createTestPrintJob(t)
			job.Status = status

			err := job.Complete("key.pdf", "", 1)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Cannot complete")
		})
	}
}

func TestPrintJob_FailAndRetry(t *testing.T) {
	job := createTestPrintJob(t)
	require.NoError(t, job.StartRendering(LayoutBold))
	job.ClearDomainEvents()

	require.NoError(t, job.Fail("RENDER_TIMEOUT", "browser did not respond"))
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "RENDER_TIMEOUT", job.ErrorCode)
	assert.False(t, job.HasPDF())

	events := job.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypePrintJobFailed, events[1].EventType())

	require.NoError(t, job.Retry())
	assert.True(t, job.IsPending())

	require.NoError(t, job.StartRendering(LayoutBold))
	assert.Equal(t, 2, job.Attempts)
	require.NoError(t, job.Complete("k.pdf", "", 10))
	assert.Empty(t, job.ErrorCode, "completion clears the last failure")
	assert.Empty(t, job.ErrorMessage)
}

func TestPrintJob_Retry_OnlyFromFailed(t *testing.T) {
	for _, status := range []JobStatus{JobStatusPending, JobStatusRendering, JobStatusCompleted} {
		t.Run(status.String(), func(t *testing.T) {
			job := createTestPrintJob(t)
			job.Status = status
			err := job.Retry()
			assert.True(t, shared.HasCode(err, "NOT_RETRYABLE"))
		})
	}
}

func TestPrintJob_Fail_InvalidState(t *testing.T) {
	for _, status := range []JobStatus{JobStatusCompleted, JobStatusFailed} {
		t.Run(status.String(), func(t *testing.T) {
			job := createTestPrintJob(t)
			job.Status = status

			err := job.Fail("RENDER_FAILED", "Error")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Cannot fail")
		})
	}
}

func TestPrintJob_StatusChecks(t *testing.T) {
	job := createTestPrintJob(t)
	assert.True(t, job.IsPending())
	assert.False(t, job.IsRendering())

	require.NoError(t, job.StartRendering(LayoutClassic))
	assert.True(t, job.IsRendering())
	assert.False(t, job.IsCompleted())

	require.NoError(t, job.Complete("k.pdf", "", 1))
	assert.True(t, job.IsCompleted())
	assert.False(t, job.IsFailed())

	job2 := createTestPrintJob(t)
	require.NoError(t, job2.Fail("RENDER_FAILED", "Error"))
	assert.True(t, job2.IsFailed())
	assert.False(t, job2.IsPending())
}

func createTestPrintJob(t *testing.T) *PrintJob {
	t.Helper()
	orderID := uuid.New()
	job, err := NewPrintJob(uuid.New(), "classic", memo.DocumentKindInvoice, "123456", &orderID)
	require.NoError(t, err)
	return job
}
