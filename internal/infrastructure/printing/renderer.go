package printing

import (
	"bytes"
	"context"
	"errors"
	"time"
)

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// FileName is the download name, invoice-<memo>.pdf
	FileName string
	// PageCount is the number of pages in the PDF
	PageCount int
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// PDFRenderer turns a View into a PDF document
type PDFRenderer interface {
	// Render draws the view. It never modifies the view.
	Render(ctx context.Context, view *View) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// RenderError represents an error during rendering or storage
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether triggering the same render again can succeed
func (e *RenderError) Retryable() bool {
	switch e.Code {
	case ErrCodeRenderTimeout, ErrCodeRenderFailed, ErrCodeStorageFailed, ErrCodeBrowserUnavailable:
		return true
	}
	return false
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout      = "RENDER_TIMEOUT"
	ErrCodeRenderFailed       = "RENDER_FAILED"
	ErrCodeInvalidHTML        = "INVALID_HTML"
	ErrCodeInvalidView        = "INVALID_VIEW"
	ErrCodeStorageFailed      = "STORAGE_FAILED"
	ErrCodeBrowserUnavailable = "BROWSER_UNAVAILABLE"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsRetryable reports whether err is a RenderError worth retrying
func IsRetryable(err error) bool {
	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return renderErr.Retryable()
	}
	return false
}

// estimatePageCount estimates the page count from PDF data
// by counting "/Type /Page" objects minus the "/Type /Pages" tree nodes
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page"))
	parentCount := bytes.Count(pdfData, []byte("/Type /Pages"))
	count = count - parentCount
	return max(count, 1)
}

func contextError(ctx context.Context, stage string) error {
	switch ctx.Err() {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return NewRenderError(ErrCodeRenderTimeout, stage+" timed out", ctx.Err())
	default:
		return NewRenderError(ErrCodeRenderTimeout, stage+" was cancelled", ctx.Err())
	}
}
