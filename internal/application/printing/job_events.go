package printing

import (
	"context"

	"github.com/quickmemo/backend/internal/domain/printing"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// JobRecorder counts print jobs that reached a terminal status
type JobRecorder interface {
	RecordJob(ctx context.Context, status, errorCode string)
}

// JobEventHandler logs finished print jobs and feeds the job counter
type JobEventHandler struct {
	recorder JobRecorder
	logger   *zap.Logger
}

// NewJobEventHandler creates a handler; recorder may be nil
func NewJobEventHandler(recorder JobRecorder, logger *zap.Logger) *JobEventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobEventHandler{recorder: recorder, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *JobEventHandler) EventTypes() []string {
	return []string{printing.EventTypePrintJobCompleted, printing.EventTypePrintJobFailed}
}

// Handle implements shared.EventHandler
func (h *JobEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	log := h.logger
	if scoped, ok := ctx.Value(logger.LoggerKey).(*zap.Logger); ok {
		log = scoped
	}

	switch e := event.(type) {
	case *printing.PrintJobCompletedEvent:
		log.Info("print job completed",
			zap.String("job_id", e.JobID.String()),
			zap.String("memo_number", e.MemoNumber.String()),
			zap.String("storage_key", e.StorageKey),
			zap.Int64("size_bytes", e.SizeBytes),
		)
		h.record(ctx, string(printing.JobStatusCompleted), "")
	case *printing.PrintJobFailedEvent:
		log.Warn("print job failed",
			zap.String("job_id", e.JobID.String()),
			zap.String("memo_number", e.MemoNumber.String()),
			zap.String("error_code", e.ErrorCode),
			zap.Int("attempts", e.Attempts),
		)
		h.record(ctx, string(printing.JobStatusFailed), e.ErrorCode)
	}
	return nil
}

func (h *JobEventHandler) record(ctx context.Context, status, code string) {
	if h.recorder != nil {
		h.recorder.RecordJob(ctx, status, code)
	}
}

var _ shared.EventHandler = (*JobEventHandler)(nil)
