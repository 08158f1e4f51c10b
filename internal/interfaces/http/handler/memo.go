package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	printingapp "github.com/quickmemo/backend/internal/application/printing"
)

// Output formats of the PDF endpoints
const (
	OutputFile = "file"
	OutputJSON = "json"
	OutputBoth = "both"
)

// MemoNumberHeader carries the memo number of a downloaded PDF
const MemoNumberHeader = "X-Memo-Number"

// MemoService is the part of the document service the memo endpoints use
type MemoService interface {
	Totals(ctx context.Context, req *printingapp.DocumentRequest) (*printingapp.TotalsResponse, error)
	Preview(ctx context.Context, req *printingapp.DocumentRequest) (*printingapp.PreviewResponse, error)
	GeneratePDF(ctx context.Context, tenantID uuid.UUID, req *printingapp.DocumentRequest) (*printingapp.RenderedPDF, error)
	RenderBoth(ctx context.Context, tenantID uuid.UUID, req *printingapp.DocumentRequest) (*printingapp.RenderBothResponse, error)
	PreviewOrder(ctx context.Context, tenantID, orderID uuid.UUID, req printingapp.OrderRenderRequest) (*printingapp.PreviewResponse, error)
	GenerateOrderPDF(ctx context.Context, tenantID, orderID uuid.UUID, req printingapp.OrderRenderRequest) (*printingapp.RenderedPDF, error)
}

// MemoHandler computes, previews and prints cash memos and invoices
type MemoHandler struct {
	BaseHandler
	service MemoService
}

// NewMemoHandler creates a new MemoHandler
func NewMemoHandler(service MemoService) *MemoHandler {
	return &MemoHandler{service: service}
}

// pdfQuery selects how a generated PDF is returned
type pdfQuery struct {
	Output string `form:"output" binding:"omitempty,oneof=file json both"`
}

// =============================================================================
// Document endpoints
// =============================================================================

// Totals godoc
//
//	@ID				computeMemoTotals
//
//	@Summary		Compute document totals
//	@Description	Computes line totals, the billable rows and the grand total without rendering
//	@Tags			memos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		printingapp.DocumentRequest	true	"Document"
//	@Success		200		{object}	APIResponse[printingapp.TotalsResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/memos/totals [post]
func (h *MemoHandler) Totals(c *gin.Context) {
	var req printingapp.DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.Totals(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Preview godoc
//
//	@ID				previewMemo
//
//	@Summary		Preview a document as HTML
//	@Description	Renders the live preview. Echo the returned memo number when printing so the PDF matches.
//	@Tags			memos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		printingapp.DocumentRequest	true	"Document"
//	@Success		200		{object}	APIResponse[printingapp.PreviewResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/memos/preview [post]
func (h *MemoHandler) Preview(c *gin.Context) {
	var req printingapp.DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.Preview(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GeneratePDF godoc
//
//	@ID				generateMemoPDF
//
//	@Summary		Generate the PDF of a document
//	@Description	Renders, stores and records the PDF. output=file downloads invoice-<memo>.pdf,
//	@Description	output=json returns the print job, output=both also returns the preview.
//	@Tags			memos
//	@Accept			json
//	@Produce		application/pdf
//	@Produce		json
//	@Param			X-Tenant-ID	header		string						true	"Tenant ID"
//	@Param			output		query		string						false	"file, json or both"	Enums(file, json, both)
//	@Param			request		body		printingapp.DocumentRequest	true	"Document"
//	@Success		200			{file}		binary						"PDF file"
//	@Success		201			{object}	APIResponse[PDFResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		502			{object}	ErrorResponse
//	@Failure		504			{object}	ErrorResponse
//	@Router			/memos/pdf [post]
func (h *MemoHandler) GeneratePDF(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var query pdfQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}
	var req printingapp.DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if query.Output == OutputBoth {
		result, err := h.service.RenderBoth(c.Request.Context(), tenantID, &req)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Created(c, RenderBothHTTPResponse{Preview: result.Preview, PDF: toPDFResponse(result.PDF)})
		return
	}

	result, err := h.service.GeneratePDF(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.writePDF(c, query.Output, result)
}

// =============================================================================
// Order endpoints
// =============================================================================

// PreviewOrder godoc
//
//	@ID				previewOrderMemo
//
//	@Summary		Preview a stored order as HTML
//	@Tags			orders
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Order ID"
//	@Param			template	query		string	false	"Template slug"
//	@Param			memo		query		string	false	"Memo number to reuse"
//	@Param			paper_size	query		string	false	"Paper size"	Enums(A4, A5, RECEIPT_80MM)
//	@Success		200			{object}	APIResponse[printingapp.PreviewResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/orders/{id}/preview [get]
func (h *MemoHandler) PreviewOrder(c *gin.Context) {
	tenantID, orderID, req, ok := h.orderRequest(c)
	if !ok {
		return
	}

	result, err := h.service.PreviewOrder(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GenerateOrderPDF godoc
//
//	@ID				generateOrderPDF
//
//	@Summary		Generate the PDF of a stored order
//	@Tags			orders
//	@Produce		application/pdf
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Order ID"
//	@Param			template	query		string	false	"Template slug"
//	@Param			memo		query		string	false	"Memo number to reuse"
//	@Param			paper_size	query		string	false	"Paper size"	Enums(A4, A5, RECEIPT_80MM)
//	@Param			output		query		string	false	"file or json"	Enums(file, json)
//	@Success		200			{file}		binary	"PDF file"
//	@Success		201			{object}	APIResponse[PDFResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		502			{object}	ErrorResponse
//	@Router			/orders/{id}/pdf [post]
func (h *MemoHandler) GenerateOrderPDF(c *gin.Context) {
	tenantID, orderID, req, ok := h.orderRequest(c)
	if !ok {
		return
	}
	var query pdfQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}
	if query.Output == OutputBoth {
		h.BadRequest(c, "output=both is not supported for orders")
		return
	}

	result, err := h.service.GenerateOrderPDF(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.writePDF(c, query.Output, result)
}

func (h *MemoHandler) orderRequest(c *gin.Context) (uuid.UUID, uuid.UUID, printingapp.OrderRenderRequest, bool) {
	var req printingapp.OrderRenderRequest
	tenantID, ok := h.tenantID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, req, false
	}
	orderID, ok := h.uuidParam(c, "id", "order")
	if !ok {
		return uuid.Nil, uuid.Nil, req, false
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return uuid.Nil, uuid.Nil, req, false
	}
	return tenantID, orderID, req, true
}

// writePDF sends the PDF as an attachment, or its description as JSON
func (h *MemoHandler) writePDF(c *gin.Context, output string, pdf *printingapp.RenderedPDF) {
	if output == OutputJSON {
		h.Created(c, toPDFResponse(pdf))
		return
	}
	writeAttachment(c, pdf.FileName, pdf.MemoNumber, pdf.Data)
}

func writeAttachment(c *gin.Context, fileName, memoNumber string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	if memoNumber != "" {
		c.Header(MemoNumberHeader, memoNumber)
	}
	c.Data(http.StatusOK, "application/pdf", data)
}
