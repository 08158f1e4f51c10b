package printing_test

import (
	"context"
	"testing"

	"github.com/quickmemo/backend/internal/application/printing"
	"github.com/quickmemo/backend/internal/domain/memo"
	domain "github.com/quickmemo/backend/internal/domain/printing"
	"github.com/quickmemo/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestJob(t *testing.T) *domain.PrintJob {
	t.Helper()
	job, err := domain.NewPrintJob(testTenantID, "classic", memo.DocumentKindInvoice, memo.NewMemoNumber(testNow), nil)
	require.NoError(t, err)
	require.NoError(t, job.StartRendering(domain.LayoutClassic))
	return job
}

func TestJobEventHandler_EventTypes(t *testing.T) {
	h := printing.NewJobEventHandler(nil, nil)
	assert.ElementsMatch(t, []string{domain.EventTypePrintJobCompleted, domain.EventTypePrintJobFailed}, h.EventTypes())
}

func TestJobEventHandler_Handle(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	recorder := &fakeJobRecorder{}
	h := printing.NewJobEventHandler(recorder, zap.New(core))
	ctx := context.Background()

	completed := newTestJob(t)
	require.NoError(t, completed.Complete("t/2024/03/invoice-200000.pdf", "/files/t/2024/03/invoice-200000.pdf", 2048))
	require.NoError(t, h.Handle(ctx, domain.NewPrintJobCompletedEvent(completed)))

	failed := newTestJob(t)
	require.NoError(t, failed.Fail("RENDER_TIMEOUT", "context deadline exceeded"))
	require.NoError(t, h.Handle(ctx, domain.NewPrintJobFailedEvent(failed)))

	require.NoError(t, h.Handle(ctx, domain.NewPrintJobCreatedEvent(failed)))

	assert.Equal(t, []recordedJob{
		{status: "COMPLETED"},
		{status: "FAILED", code: "RENDER_TIMEOUT"},
	}, recorder.jobs)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "print job completed", entries[0].Message)
	assert.Equal(t, int64(2048), entries[0].ContextMap()["size_bytes"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "RENDER_TIMEOUT", entries[1].ContextMap()["error_code"])
}

func TestJobEventHandler_UsesRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := printing.NewJobEventHandler(nil, zap.NewNop())
	ctx := logger.WithContext(context.Background(), zap.New(core).With(zap.String("request_id", "req-1")))

	job := newTestJob(t)
	require.NoError(t, job.Complete("key", "", 10))
	require.NoError(t, h.Handle(ctx, domain.NewPrintJobCompletedEvent(job)))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-1", logs.All()[0].ContextMap()["request_id"])
}
