package handler

import (
	"context"
	"io"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var (
	yearPattern     = regexp.MustCompile(`^\d{4}$`)
	monthPattern    = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
	fileNamePattern = regexp.MustCompile(`^invoice-\d{6}\.pdf$`)
)

// FileSource reads stored PDFs by storage key
type FileSource interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// FileHandler serves stored PDFs at the URLs recorded on print jobs
type FileHandler struct {
	BaseHandler
	files FileSource
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(files FileSource) *FileHandler {
	return &FileHandler{files: files}
}

// ServePDF godoc
//
//	@ID				serveStoredPDF
//
//	@Summary		Serve a stored PDF
//	@Description	Path segments are validated before the storage key is built; a tenant can only read its own files.
//	@Tags			files
//	@Produce		application/pdf
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			tenant_id	path		string	true	"Tenant ID"
//	@Param			year		path		string	true	"Year"
//	@Param			month		path		string	true	"Month"
//	@Param			job_id		path		string	true	"Print job ID"
//	@Param			filename	path		string	true	"File name"
//	@Success		200			{file}		binary	"PDF file"
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/files/{tenant_id}/{year}/{month}/{job_id}/{filename} [get]
func (h *FileHandler) ServePDF(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	pathTenant := c.Param("tenant_id")
	if pathTenant != tenantID.String() {
		h.Forbidden(c, "Access denied to this file")
		return
	}

	year, month, jobID, fileName := c.Param("year"), c.Param("month"), c.Param("job_id"), c.Param("filename")
	_, jobErr := uuid.Parse(jobID)
	switch {
	case !yearPattern.MatchString(year):
		h.BadRequest(c, "Invalid year format")
		return
	case !monthPattern.MatchString(month):
		h.BadRequest(c, "Invalid month format")
		return
	case jobErr != nil || len(jobID) != 36:
		h.BadRequest(c, "Invalid job ID")
		return
	case !fileNamePattern.MatchString(fileName):
		h.BadRequest(c, "Invalid file name")
		return
	}

	file, err := h.files.Get(c.Request.Context(), pathTenant+"/"+year+"/"+month+"/"+jobID+"/"+fileName)
	if err != nil {
		h.NotFound(c, "PDF file not found")
		return
	}
	defer file.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+fileName+`"`)
	if _, err := io.Copy(c.Writer, file); err != nil {
		logger.GetGinLogger(c).Warn("PDF file transfer interrupted", zap.String("file", fileName), zap.Error(err))
	}
}
