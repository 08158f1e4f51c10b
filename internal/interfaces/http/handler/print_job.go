package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	printingapp "github.com/quickmemo/backend/internal/application/printing"
	"github.com/quickmemo/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PrintJobService is the part of the document service that manages print jobs
type PrintJobService interface {
	ListJobs(ctx context.Context, tenantID uuid.UUID, req printingapp.ListJobsRequest) (*printingapp.ListJobsResponse, error)
	GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (*printingapp.PrintJobResponse, error)
	RetryJob(ctx context.Context, tenantID, jobID uuid.UUID, req *printingapp.DocumentRequest) (*printingapp.RenderedPDF, error)
	DownloadJob(ctx context.Context, tenantID, jobID uuid.UUID) (io.ReadCloser, string, error)
}

// PrintJobHandler lists, retries and downloads print jobs
type PrintJobHandler struct {
	BaseHandler
	service PrintJobService
}

// NewPrintJobHandler creates a new PrintJobHandler
func NewPrintJobHandler(service PrintJobService) *PrintJobHandler {
	return &PrintJobHandler{service: service}
}

// ListJobs godoc
//
//	@ID				listPrintJobs
//
//	@Summary		List print jobs
//	@Tags			print-jobs
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)	maximum(100)
//	@Param			status		query		string	false	"Job status"	Enums(PENDING, RENDERING, COMPLETED, FAILED)
//	@Param			order_id	query		string	false	"Order ID"
//	@Success		200			{object}	APIResponse[[]printingapp.PrintJobResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Router			/print-jobs [get]
func (h *PrintJobHandler) ListJobs(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req printingapp.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.ListJobs(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Size)
}

// GetJob godoc
//
//	@ID				getPrintJob
//
//	@Summary		Get a print job
//	@Tags			print-jobs
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Print job ID"
//	@Success		200			{object}	APIResponse[printingapp.PrintJobResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/print-jobs/{id} [get]
func (h *PrintJobHandler) GetJob(c *gin.Context) {
	tenantID, jobID, ok := h.jobRequest(c)
	if !ok {
		return
	}

	result, err := h.service.GetJob(c.Request.Context(), tenantID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RetryJob godoc
//
//	@ID				retryPrintJob
//
//	@Summary		Retry a failed print job
//	@Description	Renders the PDF again with the job's memo number and template.
//	@Description	Jobs printed from an order need no body; other jobs need the document again.
//	@Tags			print-jobs
//	@Accept			json
//	@Produce		application/pdf
//	@Param			X-Tenant-ID	header		string						true	"Tenant ID"
//	@Param			id			path		string						true	"Print job ID"
//	@Param			request		body		printingapp.DocumentRequest	false	"Document"
//	@Success		200			{file}		binary						"PDF file"
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		502			{object}	ErrorResponse
//	@Router			/print-jobs/{id}/retry [post]
func (h *PrintJobHandler) RetryJob(c *gin.Context) {
	tenantID, jobID, ok := h.jobRequest(c)
	if !ok {
		return
	}

	var req *printingapp.DocumentRequest
	if c.Request.ContentLength != 0 {
		req = &printingapp.DocumentRequest{}
		if err := c.ShouldBindJSON(req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}

	result, err := h.service.RetryJob(c.Request.Context(), tenantID, jobID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeAttachment(c, result.FileName, result.MemoNumber, result.Data)
}

// DownloadJob godoc
//
//	@ID				downloadPrintJob
//
//	@Summary		Download the PDF of a completed print job
//	@Tags			print-jobs
//	@Produce		application/pdf
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Print job ID"
//	@Success		200			{file}		binary	"PDF file"
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/print-jobs/{id}/download [get]
func (h *PrintJobHandler) DownloadJob(c *gin.Context) {
	tenantID, jobID, ok := h.jobRequest(c)
	if !ok {
		return
	}

	rc, fileName, err := h.service.DownloadJob(c.Request.Context(), tenantID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logger.GetGinLogger(c).Warn("PDF download interrupted",
			zap.String("job_id", jobID.String()),
			zap.Error(err))
	}
}

func (h *PrintJobHandler) jobRequest(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	jobID, ok := h.uuidParam(c, "id", "print job")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, jobID, true
}
