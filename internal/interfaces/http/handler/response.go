package handler

import (
	printingapp "github.com/quickmemo/backend/internal/application/printing"
	"github.com/quickmemo/backend/internal/interfaces/http/dto"
)

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// PDFResponse describes a generated PDF when it is returned as JSON
// @Description Generated PDF with its print job
type PDFResponse struct {
	MemoNumber string                        `json:"memoNumber" example:"123456"`
	FileName   string                        `json:"fileName" example:"invoice-123456.pdf"`
	URL        string                        `json:"url,omitempty" example:"/files/6f1c2a9e-8d1b-4c8e-9b7a-3f2e1d0c9b8a/2024/03/7c1e2f60-1a2b-4c3d-8e9f-0a1b2c3d4e5f/invoice-123456.pdf"`
	SizeBytes  int                           `json:"sizeBytes" example:"18234"`
	Job        *printingapp.PrintJobResponse `json:"job,omitempty"`
}

// RenderBothHTTPResponse is a preview and a PDF sharing one memo number
// @Description Preview and PDF rendered from the same document
type RenderBothHTTPResponse struct {
	Preview *printingapp.PreviewResponse `json:"preview"`
	PDF     *PDFResponse                 `json:"pdf"`
}

func toPDFResponse(pdf *printingapp.RenderedPDF) *PDFResponse {
	return &PDFResponse{
		MemoNumber: pdf.MemoNumber,
		FileName:   pdf.FileName,
		URL:        pdf.URL,
		SizeBytes:  len(pdf.Data),
		Job:        pdf.Job,
	}
}
